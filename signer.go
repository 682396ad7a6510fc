package fss

import (
	"crypto/sha1"
	"encoding/base64"
	"fmt"

	"github.com/lestrrat-go/jwx/v3/jws/jwsbb"
)

// Sign computes the signature of a canonical string: HMAC-SHA1 keyed
// with secret, encoded as standard base64 with padding.
func Sign(canonical, secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	mac, err := jwsbb.SignHMAC([]byte(secret), []byte(canonical), sha1.New)
	if err != nil {
		return "", fmt.Errorf("failed to compute HMAC-SHA1: %w", err)
	}
	return base64.StdEncoding.EncodeToString(mac), nil
}

// Verify recomputes the signature of canonical and compares it with
// signature in constant time.
func Verify(canonical, secret, signature string) error {
	if secret == "" {
		return ErrEmptySecret
	}

	raw, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("failed to decode signature: %w", err)
	}

	if err := jwsbb.VerifyHMAC([]byte(secret), []byte(canonical), raw, sha1.New); err != nil {
		return fmt.Errorf("%w: %w", ErrSignatureMismatch, err)
	}
	return nil
}
