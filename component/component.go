// Package component names the header and query parameter identifiers
// that the storage service reserves for itself, and converts between
// caller metadata and the headers that carry it.
package component

import "strings"

const (
	// Prefix marks every header the service interprets. Headers with
	// this prefix take part in the signature.
	Prefix = "x-fss-"

	// MetaPrefix marks user metadata headers
	MetaPrefix = Prefix + "meta-"

	// CopySource names the source resource of a server-side copy
	CopySource = Prefix + "copy-source"

	// Process carries an image/video processing directive
	Process = Prefix + "process"

	// ResponsePrefix marks response header overrides, such as
	// "response-content-disposition"
	ResponsePrefix = "response-"

	// ContentDisposition is sent on uploads with the original file name
	ContentDisposition = "content-disposition"
)

// Meta returns the header name carrying the user metadata key name
func Meta(name string) string {
	return MetaPrefix + strings.ToLower(name)
}

// ResponseOverride returns the sub-resource name that overrides the
// named response header on download
func ResponseOverride(header string) string {
	return ResponsePrefix + strings.ToLower(header)
}

// IsSigned reports whether a header with this name is part of the
// canonical string. The comparison is case-insensitive.
func IsSigned(name string) bool {
	return strings.HasPrefix(strings.ToLower(name), Prefix)
}

// IsMeta reports whether name is a user metadata header
func IsMeta(name string) bool {
	return strings.HasPrefix(strings.ToLower(name), MetaPrefix)
}

// IsSubResource reports whether a query parameter is reserved by the
// service and therefore signed
func IsSubResource(name string) bool {
	return name == Process || strings.HasPrefix(name, ResponsePrefix)
}
