package fss

import (
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/mctech-dev/fss-go/input"
)

// Endpoints holds the two addresses of the service. Presigned URLs
// always use the public endpoint; everything else uses the private one
// when the client runs inside the service's network.
type Endpoints struct {
	public   *url.URL
	private  *url.URL
	internal bool
}

// NewEndpoints parses the endpoint URLs. The private endpoint is only
// required when internal is true.
func NewEndpoints(public, private string, internal bool) (*Endpoints, error) {
	pub, err := parseEndpoint(public)
	if err != nil {
		return nil, fmt.Errorf("invalid public endpoint: %w", err)
	}

	e := &Endpoints{public: pub, internal: internal}
	if internal || private != "" {
		priv, err := parseEndpoint(private)
		if err != nil {
			return nil, fmt.Errorf("invalid private endpoint: %w", err)
		}
		e.private = priv
	}
	return e, nil
}

func parseEndpoint(s string) (*url.URL, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("endpoint is empty")
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("endpoint %q must be an absolute URL", s)
	}
	return u, nil
}

// Default returns the endpoint for header-authenticated requests and
// unsigned object URLs
func (e *Endpoints) Default() *url.URL {
	if e.internal && e.private != nil {
		return cloneURL(e.private)
	}
	return cloneURL(e.public)
}

// Public returns the endpoint for presigned URLs
func (e *Endpoints) Public() *url.URL {
	return cloneURL(e.public)
}

func cloneURL(u *url.URL) *url.URL {
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}

// Resource returns the resource path of key inside bucket
func Resource(bucket, key string) string {
	return "/" + bucket + "/" + key
}

// JoinPath concatenates base and resource with exactly one slash
// between them
func JoinPath(base, resource string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(resource, "/")
}

// Target is a request ready to be handed to a transport
type Target struct {
	URL    *url.URL
	Method input.Operation

	// Header is nil for presigned targets
	Header http.Header
}

// AssembleForDispatch builds the target of a header-authenticated
// request. The metadata headers are copied without changing the case
// of their names.
func AssembleForDispatch(signed *SignedResult, resource string, endpoint *url.URL, op input.Operation, metadata map[string]string, accessKeyID string) (*Target, error) {
	if signed == nil {
		return nil, fmt.Errorf("signed result is required")
	}
	if signed.Presigned() {
		return nil, ErrPresigned
	}
	if endpoint == nil {
		return nil, fmt.Errorf("endpoint is required")
	}

	u := targetURL(endpoint, resource)
	appendQuery(u, encodeSubResource(signed.SubResource))

	hdr := make(http.Header)
	for name, value := range metadata {
		hdr[name] = []string{value}
	}
	hdr.Set("Authorization", AuthorizationHeader(accessKeyID, signed.Signature))
	hdr.Set("Date", signed.Date)
	hdr.Set("Accept", AcceptHeaderValue)

	return &Target{URL: u, Method: op, Header: hdr}, nil
}

// AssembleForPresignedURL builds a self-contained URL. The query string
// carries, in this order, the access key id, the absolute expiry, the
// signature and then the sub-resource parameters.
func AssembleForPresignedURL(signed *SignedResult, resource string, endpoint *url.URL, accessKeyID string) (string, error) {
	if signed == nil {
		return "", fmt.Errorf("signed result is required")
	}
	if !signed.Presigned() {
		return "", ErrNotPresigned
	}
	if endpoint == nil {
		return "", fmt.Errorf("endpoint is required")
	}

	u := targetURL(endpoint, resource)
	appendQuery(u, AccessKeyIDParam+"="+url.QueryEscape(accessKeyID))
	appendQuery(u, ExpiresParam+"="+strconv.FormatInt(*signed.Expires, 10))
	appendQuery(u, SignatureParam+"="+url.QueryEscape(signed.Signature))
	appendQuery(u, encodeSubResource(signed.SubResource))

	return u.String(), nil
}

// ObjectURL returns the unsigned URL of resource
func ObjectURL(resource string, endpoint *url.URL) string {
	return targetURL(endpoint, resource).String()
}

// AuthorizationHeader formats the Authorization header value
func AuthorizationHeader(accessKeyID, signature string) string {
	return AuthorizationScheme + " " + accessKeyID + ":" + signature
}

func targetURL(endpoint *url.URL, resource string) *url.URL {
	u := cloneURL(endpoint)
	path, rawQuery, _ := strings.Cut(resource, "?")
	u.Path = JoinPath(u.Path, path)
	u.RawPath = ""
	u.Fragment = ""
	appendQuery(u, rawQuery)
	return u
}

func appendQuery(u *url.URL, query string) {
	switch {
	case query == "":
	case u.RawQuery == "":
		u.RawQuery = query
	default:
		u.RawQuery += "&" + query
	}
}

func encodeSubResource(sub map[string]string) string {
	var sb strings.Builder
	for _, name := range slices.Sorted(maps.Keys(sub)) {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(sub[name]))
	}
	return sb.String()
}
