// Package fss signs requests for the FSS object storage service.
//
// A request is signed in one of two modes. In header mode the signature
// travels in an Authorization header together with a Date header, and
// the request has to be sent right away. In presign mode the signature,
// the access key id and an absolute expiry are put into the query string,
// producing a URL that anyone can use until it expires.
//
// Signing is split into small pure steps:
//
//	def, _ := fss.Decide(input.GET, fss.Resource(bucket, key), "", nil, fss.WithExpires(time.Hour))
//	signed, _ := fss.SignDefinition(def, secret)
//	u, _ := fss.AssembleForPresignedURL(signed, def.Resource(), endpoints.Public(), accessKeyID)
//
// None of the functions in this package perform I/O or keep state, so
// they are safe for concurrent use.
package fss

import "errors"

const (
	// AuthorizationScheme prefixes the Authorization header value
	AuthorizationScheme = "FSS"

	AccessKeyIDParam = "FSSAccessKeyId"
	ExpiresParam     = "Expires"
	SignatureParam   = "Signature"

	// AcceptHeaderValue is sent with every dispatched request
	AcceptHeaderValue = "application/json, application/xml"
)

var (
	ErrEmptySecret        = errors.New("access key secret is empty")
	ErrSignatureMismatch  = errors.New("signature does not match")
	ErrPresigned          = errors.New("signed result is for a presigned URL and cannot be sent with header authentication")
	ErrNotPresigned       = errors.New("signed result has no expiry and cannot be used for a presigned URL")
	ErrNegativeExpiration = errors.New("expiration must not be negative")
)
