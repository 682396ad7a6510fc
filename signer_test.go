package fss_test

import (
	"fmt"
	"testing"

	"github.com/mctech-dev/fss-go"
	"github.com/stretchr/testify/require"
)

func TestSign(t *testing.T) {
	t.Parallel()

	t.Run("RFC 2202 test case 2", func(t *testing.T) {
		sig, err := fss.Sign("what do ya want for nothing?", "Jefe")
		require.NoError(t, err)
		require.Equal(t, "7/zfauXrL6LSdBbV8YTfnCWafHk=", sig)
	})

	t.Run("Canonical string", func(t *testing.T) {
		sig, err := fss.Sign("GET\n\n\nTue, 20 Apr 2021 02:07:55 GMT\n/bucket/key", "secret")
		require.NoError(t, err)
		require.Equal(t, "opoHTSt4ZBCmtsbd7yqdojk2qlg=", sig)
	})

	t.Run("Deterministic", func(t *testing.T) {
		a, err := fss.Sign("PUT\n\n\n1\n/b/k", "secret")
		require.NoError(t, err)
		b, err := fss.Sign("PUT\n\n\n1\n/b/k", "secret")
		require.NoError(t, err)
		require.Equal(t, a, b)
	})

	t.Run("Empty secret", func(t *testing.T) {
		_, err := fss.Sign("GET\n\n\n1\n/b/k", "")
		require.ErrorIs(t, err, fss.ErrEmptySecret)
	})

	t.Run("One character of the secret changes the signature", func(t *testing.T) {
		const canonical = "GET\n\n\n1618886875\n/bucket/key"
		base, err := fss.Sign(canonical, "secret")
		require.NoError(t, err)
		require.Equal(t, "1Ot+kGxnJrCKT2NmHGFN9cy+6RA=", base)

		seen := map[string]string{base: "secret"}
		for i := range len("secret") {
			for _, c := range "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789" {
				secret := []byte("secret")
				if secret[i] == byte(c) {
					continue
				}
				secret[i] = byte(c)
				sig, err := fss.Sign(canonical, string(secret))
				require.NoError(t, err)
				prev, dup := seen[sig]
				require.False(t, dup, "secrets %q and %q produced the same signature", prev, secret)
				seen[sig] = string(secret)
			}
		}
	})
}

func TestVerify(t *testing.T) {
	t.Parallel()

	const canonical = "GET\n\n\n1618899475\n/bucket/key"

	t.Run("Valid", func(t *testing.T) {
		require.NoError(t, fss.Verify(canonical, "secret", "o4ZIA7pMoC6HSjnf001mYLO8mVM="))
	})

	t.Run("Wrong secret", func(t *testing.T) {
		err := fss.Verify(canonical, "secreT", "o4ZIA7pMoC6HSjnf001mYLO8mVM=")
		require.ErrorIs(t, err, fss.ErrSignatureMismatch)
	})

	t.Run("Tampered canonical string", func(t *testing.T) {
		err := fss.Verify(canonical+"x", "secret", "o4ZIA7pMoC6HSjnf001mYLO8mVM=")
		require.ErrorIs(t, err, fss.ErrSignatureMismatch)
	})

	t.Run("Malformed signature", func(t *testing.T) {
		require.Error(t, fss.Verify(canonical, "secret", "not base64!"))
	})

	t.Run("Empty secret", func(t *testing.T) {
		require.ErrorIs(t, fss.Verify(canonical, "", "o4ZIA7pMoC6HSjnf001mYLO8mVM="), fss.ErrEmptySecret)
	})
}

func ExampleSign() {
	sig, err := fss.Sign("GET\n\n\n1618899475\n/bucket/key", "secret")
	if err != nil {
		panic(err)
	}
	fmt.Println(sig)
	// Output: o4ZIA7pMoC6HSjnf001mYLO8mVM=
}
