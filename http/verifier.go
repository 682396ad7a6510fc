package http

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mctech-dev/fss-go"
	"github.com/mctech-dev/fss-go/component"
	"github.com/mctech-dev/fss-go/input"
	"github.com/mctech-dev/fss-go/sigbase"
)

var (
	ErrMissingAuthorization = errors.New("request carries no FSS authorization")
	ErrUnknownAccessKey     = errors.New("access key id is not known")
	ErrURLExpired           = errors.New("presigned URL has expired")
	ErrRequestTimeSkewed    = errors.New("request date is too far from the server time")
)

// SecretResolver looks up the secret of an access key id
type SecretResolver interface {
	ResolveSecret(accessKeyID string) (string, error)
}

// SecretResolverFunc is a function adapter for SecretResolver.
type SecretResolverFunc func(accessKeyID string) (string, error)

func (f SecretResolverFunc) ResolveSecret(accessKeyID string) (string, error) {
	return f(accessKeyID)
}

// StaticSecrets maps access key ids to their secrets
type StaticSecrets map[string]string

func (s StaticSecrets) ResolveSecret(accessKeyID string) (string, error) {
	if secret, ok := s[accessKeyID]; ok {
		return secret, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownAccessKey, accessKeyID)
}

// Verifier checks the signature of incoming requests, in header mode
// as well as presigned URLs. It is the server side of Client and
// SigningTransport.
type Verifier struct {
	Secrets SecretResolver

	// BasePath is removed from the request path before it is compared
	// with the signed resource
	BasePath string

	// MaxSkew bounds the difference between the Date header and the
	// server time. Zero disables the check.
	MaxSkew time.Duration

	Clock fss.Clock

	// ErrorHandler is called when verification fails.
	// If nil, DefaultErrorHandler is used.
	ErrorHandler http.Handler
}

// NewVerifier creates a Verifier that allows 15 minutes of clock skew
func NewVerifier(secrets SecretResolver) *Verifier {
	return &Verifier{
		Secrets:      secrets,
		MaxSkew:      15 * time.Minute,
		Clock:        fss.SystemClock{},
		ErrorHandler: DefaultErrorHandler(),
	}
}

// VerifyRequest returns nil if r carries a valid signature
func (v *Verifier) VerifyRequest(r *http.Request) error {
	op, err := input.ParseOperation(r.Method)
	if err != nil {
		return err
	}

	query := r.URL.Query()
	subResource := make(map[string]string)
	for name, values := range query {
		if component.IsSubResource(name) && len(values) > 0 {
			subResource[name] = values[0]
		}
	}

	metadata := make(map[string]string)
	for name, values := range r.Header {
		if component.IsSigned(name) {
			metadata[name] = strings.Join(values, ",")
		}
	}

	var accessKeyID, signature, dateOrExpires string
	if query.Has(fss.AccessKeyIDParam) {
		accessKeyID = query.Get(fss.AccessKeyIDParam)
		signature = query.Get(fss.SignatureParam)
		dateOrExpires = query.Get(fss.ExpiresParam)

		expires, err := strconv.ParseInt(dateOrExpires, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s parameter: %w", fss.ExpiresParam, err)
		}
		if v.now().Unix() > expires {
			return ErrURLExpired
		}
	} else {
		accessKeyID, signature, err = parseAuthorization(r.Header.Get("Authorization"))
		if err != nil {
			return err
		}
		dateOrExpires = r.Header.Get("Date")
		date, err := http.ParseTime(dateOrExpires)
		if err != nil {
			return fmt.Errorf("invalid Date header: %w", err)
		}
		if v.MaxSkew > 0 {
			if skew := v.now().Sub(date); skew > v.MaxSkew || skew < -v.MaxSkew {
				return ErrRequestTimeSkewed
			}
		}
	}

	if v.Secrets == nil {
		return fmt.Errorf("%w: %s", ErrUnknownAccessKey, accessKeyID)
	}
	secret, err := v.Secrets.ResolveSecret(accessKeyID)
	if err != nil {
		return err
	}

	canonical := sigbase.BuildCanonicalString(v.resource(r), op, r.Header.Get("Content-Type"), dateOrExpires, metadata, subResource)
	return fss.Verify(canonical, secret, signature)
}

func parseAuthorization(value string) (string, string, error) {
	if value == "" {
		return "", "", ErrMissingAuthorization
	}
	scheme, credentials, ok := strings.Cut(value, " ")
	if !ok || scheme != fss.AuthorizationScheme {
		return "", "", fmt.Errorf("%w: unsupported scheme", ErrMissingAuthorization)
	}
	accessKeyID, signature, ok := strings.Cut(credentials, ":")
	if !ok || accessKeyID == "" || signature == "" {
		return "", "", fmt.Errorf("malformed Authorization header")
	}
	return accessKeyID, signature, nil
}

func (v *Verifier) now() time.Time {
	if v.Clock == nil {
		return time.Now()
	}
	return v.Clock.Now()
}

func (v *Verifier) resource(r *http.Request) string {
	base := strings.TrimSuffix(v.BasePath, "/")
	path := strings.TrimPrefix(r.URL.Path, base)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// ServeHTTP verifies the request and calls the error handler if
// verification fails. On success it writes nothing.
func (v *Verifier) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := v.VerifyRequest(r); err != nil {
		v.handleError(w, r, err)
	}
}

func (v *Verifier) handleError(w http.ResponseWriter, r *http.Request, err error) {
	handler := v.ErrorHandler
	if handler == nil {
		handler = DefaultErrorHandler()
	}
	handler.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), verificationErrorKey{}, err)))
}

type verificationErrorKey struct{}

// VerificationError returns the reason verification of r failed, for
// use by custom error handlers
func VerificationError(r *http.Request) error {
	if err, ok := r.Context().Value(verificationErrorKey{}).(error); ok {
		return err
	}
	return nil
}

type errorBody struct {
	XMLName xml.Name `xml:"Error"`
	Code    string   `xml:"Code"`
	Message string   `xml:"Message"`
}

// DefaultErrorHandler responds with 403 Forbidden and an XML error
// document, in the same shape the service uses
func DefaultErrorHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := errorBody{Code: "AccessDenied", Message: "signature verification failed"}
		if err := VerificationError(r); err != nil {
			body.Message = err.Error()
			switch {
			case errors.Is(err, fss.ErrSignatureMismatch):
				body.Code = "SignatureDoesNotMatch"
			case errors.Is(err, ErrUnknownAccessKey):
				body.Code = "InvalidAccessKeyId"
			case errors.Is(err, ErrRequestTimeSkewed):
				body.Code = "RequestTimeTooSkewed"
			}
		}

		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_ = xml.NewEncoder(w).Encode(body)
	})
}
