package fss_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/mctech-dev/fss-go"
	"github.com/mctech-dev/fss-go/input"
	"github.com/stretchr/testify/require"
)

func mustEndpoints(t *testing.T, internal bool) *fss.Endpoints {
	t.Helper()
	e, err := fss.NewEndpoints("https://fss.example.com/v1/", "http://fss.internal:8080/v1", internal)
	require.NoError(t, err)
	return e
}

func TestJoinPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base     string
		resource string
		expected string
	}{
		{"/v1/", "/bucket/key", "/v1/bucket/key"},
		{"/v1", "bucket/key", "/v1/bucket/key"},
		{"/v1", "/bucket/key", "/v1/bucket/key"},
		{"/v1/", "bucket/key", "/v1/bucket/key"},
		{"", "/bucket/key", "/bucket/key"},
		{"/", "/bucket/key", "/bucket/key"},
		{"", "bucket/key", "/bucket/key"},
	}
	for _, tt := range tests {
		t.Run(tt.base+"+"+tt.resource, func(t *testing.T) {
			require.Equal(t, tt.expected, fss.JoinPath(tt.base, tt.resource))
		})
	}
}

func TestEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("Public client", func(t *testing.T) {
		e := mustEndpoints(t, false)
		require.Equal(t, "fss.example.com", e.Default().Host)
		require.Equal(t, "fss.example.com", e.Public().Host)
	})

	t.Run("Internal client", func(t *testing.T) {
		e := mustEndpoints(t, true)
		require.Equal(t, "fss.internal:8080", e.Default().Host)
		require.Equal(t, "fss.example.com", e.Public().Host)
	})

	t.Run("Returned URLs are copies", func(t *testing.T) {
		e := mustEndpoints(t, false)
		e.Default().Path = "/changed"
		require.Equal(t, "/v1/", e.Default().Path)
	})

	t.Run("Malformed endpoints", func(t *testing.T) {
		_, err := fss.NewEndpoints("", "", false)
		require.Error(t, err)

		_, err = fss.NewEndpoints("fss.example.com", "", false)
		require.Error(t, err)

		_, err = fss.NewEndpoints("https://fss.example.com", "", true)
		require.Error(t, err, "internal access requires a private endpoint")

		_, err = fss.NewEndpoints("https://fss.example.com", "://bad", false)
		require.Error(t, err)
	})
}

func TestResource(t *testing.T) {
	require.Equal(t, "/bucket/java-client/de.html", fss.Resource("bucket", "java-client/de.html"))
}

func TestAssembleForDispatch(t *testing.T) {
	t.Parallel()

	clock := fss.FixedClock(testTime)

	t.Run("Headers", func(t *testing.T) {
		metadata := map[string]string{"x-fss-meta-module": "mod"}
		def, err := fss.Decide(input.PUT, "/bucket/de.html", "text/html", metadata, fss.WithClock(clock))
		require.NoError(t, err)
		signed, err := fss.SignDefinition(def, "secret")
		require.NoError(t, err)

		target, err := fss.AssembleForDispatch(signed, def.Resource(), mustEndpoints(t, false).Default(), input.PUT, metadata, "AKID")
		require.NoError(t, err)

		require.Equal(t, input.PUT, target.Method)
		require.Equal(t, "https://fss.example.com/v1/bucket/de.html", target.URL.String())
		require.Equal(t, "FSS AKID:GTSS0eTBXNCoiVyjNjcJmWXjpUg=", target.Header.Get("Authorization"))
		require.Equal(t, "Tue, 20 Apr 2021 02:07:55 GMT", target.Header.Get("Date"))
		require.Equal(t, "application/json, application/xml", target.Header.Get("Accept"))
		// metadata header names are kept exactly as given
		require.Equal(t, []string{"mod"}, target.Header["x-fss-meta-module"])
		require.NotContains(t, target.URL.Query(), fss.ExpiresParam)
	})

	t.Run("Internal endpoint", func(t *testing.T) {
		def, err := fss.Decide(input.GET, "/bucket/key", "", nil, fss.WithClock(clock))
		require.NoError(t, err)
		signed, err := fss.SignDefinition(def, "secret")
		require.NoError(t, err)

		target, err := fss.AssembleForDispatch(signed, def.Resource(), mustEndpoints(t, true).Default(), input.GET, nil, "AKID")
		require.NoError(t, err)
		require.Equal(t, "http://fss.internal:8080/v1/bucket/key", target.URL.String())
	})

	t.Run("Sub-resource goes into the query", func(t *testing.T) {
		def, err := fss.Decide(input.GET, "/bucket/a.jpg", "", nil,
			fss.WithClock(clock), fss.WithProcess("image/resize,w_100"))
		require.NoError(t, err)
		signed, err := fss.SignDefinition(def, "secret")
		require.NoError(t, err)

		target, err := fss.AssembleForDispatch(signed, def.Resource(), mustEndpoints(t, false).Default(), input.GET, nil, "AKID")
		require.NoError(t, err)
		require.Equal(t, "image/resize,w_100", target.URL.Query().Get("x-fss-process"))
	})

	t.Run("Presigned result is rejected", func(t *testing.T) {
		def, err := fss.Decide(input.GET, "/bucket/key", "", nil, fss.WithClock(clock), fss.WithExpires(time.Minute))
		require.NoError(t, err)
		signed, err := fss.SignDefinition(def, "secret")
		require.NoError(t, err)

		_, err = fss.AssembleForDispatch(signed, def.Resource(), mustEndpoints(t, false).Default(), input.GET, nil, "AKID")
		require.ErrorIs(t, err, fss.ErrPresigned)
	})
}

func TestAssembleForPresignedURL(t *testing.T) {
	t.Parallel()

	clock := fss.FixedClock(testTime)

	t.Run("Query parameters in order", func(t *testing.T) {
		def, err := fss.Decide(input.GET, "/bucket/key", "", nil, fss.WithClock(clock), fss.WithExpires(15000*time.Second))
		require.NoError(t, err)
		signed, err := fss.SignDefinition(def, "secret")
		require.NoError(t, err)

		// internal clients still hand out public URLs
		u, err := fss.AssembleForPresignedURL(signed, def.Resource(), mustEndpoints(t, true).Public(), "AKID")
		require.NoError(t, err)
		require.Equal(t,
			"https://fss.example.com/v1/bucket/key?FSSAccessKeyId=AKID&Expires=1618899475&Signature=o4ZIA7pMoC6HSjnf001mYLO8mVM%3D",
			u)
	})

	t.Run("Expires is the absolute expiry", func(t *testing.T) {
		now := time.UnixMilli(1618884475123)
		def, err := fss.Decide(input.GET, "/bucket/key", "", nil,
			fss.WithClock(fss.FixedClock(now)), fss.WithExpires(15000*time.Second))
		require.NoError(t, err)
		signed, err := fss.SignDefinition(def, "secret")
		require.NoError(t, err)

		raw, err := fss.AssembleForPresignedURL(signed, def.Resource(), mustEndpoints(t, false).Public(), "AKID")
		require.NoError(t, err)
		u, err := url.Parse(raw)
		require.NoError(t, err)
		require.Equal(t, "1618899475", u.Query().Get(fss.ExpiresParam))
		require.Equal(t, signed.Signature, u.Query().Get(fss.SignatureParam))
	})

	t.Run("Sub-resource is escaped", func(t *testing.T) {
		def, err := fss.Decide(input.GET, "/bucket/demo.jpg", "", nil,
			fss.WithClock(clock),
			fss.WithExpires(15000*time.Second),
			fss.WithProcess("video/snapshot,t_7000,f_jpg,w_800,h_600,m_fast"),
			fss.WithResponseHeader("content-disposition", "nnnn.jpg"),
		)
		require.NoError(t, err)
		signed, err := fss.SignDefinition(def, "secret")
		require.NoError(t, err)

		u, err := fss.AssembleForPresignedURL(signed, def.Resource(), mustEndpoints(t, false).Public(), "AKID")
		require.NoError(t, err)
		require.Equal(t,
			"https://fss.example.com/v1/bucket/demo.jpg?FSSAccessKeyId=AKID&Expires=1618899475&Signature=IsxPQ3xfFAv5BT16rkMyxJNC2BE%3D"+
				"&response-content-disposition=nnnn.jpg&x-fss-process=video%2Fsnapshot%2Ct_7000%2Cf_jpg%2Cw_800%2Ch_600%2Cm_fast",
			u)
	})

	t.Run("Header mode result is rejected", func(t *testing.T) {
		def, err := fss.Decide(input.GET, "/bucket/key", "", nil, fss.WithClock(clock))
		require.NoError(t, err)
		signed, err := fss.SignDefinition(def, "secret")
		require.NoError(t, err)

		_, err = fss.AssembleForPresignedURL(signed, def.Resource(), mustEndpoints(t, false).Public(), "AKID")
		require.ErrorIs(t, err, fss.ErrNotPresigned)
	})
}

func TestObjectURL(t *testing.T) {
	t.Parallel()

	require.Equal(t, "https://fss.example.com/v1/bucket/a%20b.txt",
		fss.ObjectURL("/bucket/a b.txt", mustEndpoints(t, false).Default()))
	require.Equal(t, "http://fss.internal:8080/v1/bucket/key",
		fss.ObjectURL("/bucket/key", mustEndpoints(t, true).Default()))
}
