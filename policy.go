package fss

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/mctech-dev/fss-go/component"
	"github.com/mctech-dev/fss-go/input"
	"github.com/mctech-dev/fss-go/sigbase"
)

// SignedResult is the outcome of signing a single definition
type SignedResult struct {
	// Signature is the base64 encoded HMAC-SHA1 of the canonical string
	Signature string

	// SubResource holds the reserved query parameters that were signed
	// and must be sent along with the request
	SubResource map[string]string

	// Expires is the absolute expiry in epoch seconds. Set only for
	// presigned results.
	Expires *int64

	// Date is the formatted request time. Set only for header mode
	// results, and must be sent verbatim as the Date header.
	Date string
}

// Presigned reports whether r was produced for a presigned URL
func (r *SignedResult) Presigned() bool {
	return r.Expires != nil
}

// Decide turns the caller's intent into a signing definition.
//
// Without options the definition is for header mode and carries the
// current time. WithExpires switches to presign mode: the absolute
// expiry is computed once, here, and is the value that gets both signed
// and put into the URL.
func Decide(op input.Operation, resource, contentType string, metadata map[string]string, options ...SignOption) (*input.Definition, error) {
	var clock Clock = SystemClock{}
	var expires *time.Duration
	var process string
	responses := make(map[string]string)

	for _, opt := range options {
		switch opt.Ident() {
		case identClock{}:
			if c, ok := opt.Value().(Clock); ok && c != nil {
				clock = c
			}
		case identExpires{}:
			d := opt.Value().(time.Duration)
			expires = &d
		case identProcess{}:
			process = opt.Value().(string)
		case identResponseHeader{}:
			rh := opt.Value().(responseHeader)
			responses[rh.name] = rh.value
		case identResponseHeaders{}:
			maps.Copy(responses, opt.Value().(map[string]string))
		}
	}

	builder := input.NewDefinitionBuilder().
		Operation(op).
		Resource(resource).
		ContentType(contentType).
		MetadataMap(metadata)

	for name, value := range BuildSubResource(process, responses) {
		builder = builder.SubResource(name, value)
	}

	now := clock.Now()
	if expires != nil {
		if *expires < 0 {
			return nil, ErrNegativeExpiration
		}
		builder = builder.Expires(now.Unix() + int64(*expires/time.Second))
	} else {
		builder = builder.Date(now)
	}

	def, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build signing definition: %w", err)
	}
	return def, nil
}

// BuildSubResource collects the reserved query parameters: the
// processing directive, when not blank, and one "response-" parameter
// per override
func BuildSubResource(process string, responses map[string]string) map[string]string {
	sub := make(map[string]string)
	if strings.TrimSpace(process) != "" {
		sub[component.Process] = process
	}
	for name, value := range responses {
		sub[component.ResponseOverride(name)] = value
	}
	return sub
}

// SignDefinition builds the canonical string for def and signs it
func SignDefinition(def *input.Definition, secret string) (*SignedResult, error) {
	canonical, err := sigbase.FromDefinition(def).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build canonical string: %w", err)
	}

	signature, err := Sign(canonical, secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign canonical string: %w", err)
	}

	result := &SignedResult{
		Signature:   signature,
		SubResource: def.SubResource(),
	}
	if expires, ok := def.Expires(); ok {
		result.Expires = &expires
	} else if date, ok := def.Date(); ok {
		result.Date = sigbase.FormatDate(date)
	}
	return result, nil
}
