package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mctech-dev/fss-go"
	"github.com/mctech-dev/fss-go/component"
	"github.com/mctech-dev/fss-go/input"
)

// Doer sends a single request. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// SigningTransport is an http.RoundTripper that signs requests in
// header mode before handing them to the underlying transport.
//
// The resource is the request path with BasePath removed. Reserved
// query parameters (x-fss-process, response-*) and x-fss-* headers are
// signed; other query parameters are sent unsigned.
type SigningTransport struct {
	// Transport is the underlying RoundTripper.
	// If nil, http.DefaultTransport is used.
	Transport http.RoundTripper

	AccessKeyID     string
	AccessKeySecret string

	// BasePath is the path of the endpoint the requests are sent to,
	// such as "/v1". It is not part of the signed resource.
	BasePath string

	// Clock provides the Date header. If nil, the system clock is used.
	Clock fss.Clock
}

// NewSigningTransport creates a SigningTransport for the given credentials
func NewSigningTransport(accessKeyID, accessKeySecret string) *SigningTransport {
	return &SigningTransport{
		Transport:       http.DefaultTransport,
		AccessKeyID:     accessKeyID,
		AccessKeySecret: accessKeySecret,
		Clock:           fss.SystemClock{},
	}
}

// RoundTrip implements http.RoundTripper by signing the request before sending it.
func (t *SigningTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	signedReq, err := t.sign(req)
	if err != nil {
		if req.Body != nil {
			req.Body.Close()
		}
		return nil, err
	}

	transport := t.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return transport.RoundTrip(signedReq)
}

func (t *SigningTransport) sign(req *http.Request) (*http.Request, error) {
	op, err := input.ParseOperation(req.Method)
	if err != nil {
		return nil, err
	}

	signedReq := req.Clone(req.Context())

	metadata := make(map[string]string)
	for name, values := range signedReq.Header {
		if component.IsSigned(name) {
			metadata[name] = strings.Join(values, ",")
		}
	}

	builder := input.NewDefinitionBuilder().
		Operation(op).
		Resource(t.resource(signedReq)).
		ContentType(signedReq.Header.Get("Content-Type")).
		MetadataMap(metadata)

	for name, values := range signedReq.URL.Query() {
		if component.IsSubResource(name) && len(values) > 0 {
			builder = builder.SubResource(name, values[0])
		}
	}

	clock := t.Clock
	if clock == nil {
		clock = fss.SystemClock{}
	}
	def, err := builder.Date(clock.Now()).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build signing definition: %w", err)
	}

	signed, err := fss.SignDefinition(def, t.AccessKeySecret)
	if err != nil {
		return nil, err
	}

	signedReq.Header.Set("Authorization", fss.AuthorizationHeader(t.AccessKeyID, signed.Signature))
	signedReq.Header.Set("Date", signed.Date)
	if signedReq.Header.Get("Accept") == "" {
		signedReq.Header.Set("Accept", fss.AcceptHeaderValue)
	}
	return signedReq, nil
}

func (t *SigningTransport) resource(req *http.Request) string {
	base := strings.TrimSuffix(t.BasePath, "/")
	path := strings.TrimPrefix(req.URL.Path, base)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
