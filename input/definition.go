package input

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// Definition describes everything that goes into a single signature.
// A Definition must contain:
//   - an operation (GET, PUT, DELETE or HEAD)
//   - a resource path (e.g. "/bucket/key")
//   - exactly one of a signing date (header authentication) or an
//     absolute expiry in epoch seconds (presigned URL)
//
// Everything else is optional. A Definition is never modified after
// Build returns it.
type Definition struct {
	operation   Operation
	resource    string
	contentType string

	date    *time.Time // Signing time, header mode
	expires *int64     // Absolute expiry as UNIX timestamp, presign mode

	// metadata keys are lowercased when added
	metadata    map[string]string
	subResource map[string]string
}

// DefinitionBuilder helps build Definition objects
type DefinitionBuilder struct {
	def *Definition

	// metadataNames maps each lowercased metadata name to the name it
	// was first given as
	metadataNames map[string]string
	err           error
}

// NewDefinitionBuilder creates a new DefinitionBuilder
func NewDefinitionBuilder() *DefinitionBuilder {
	return &DefinitionBuilder{
		def: &Definition{
			metadata:    make(map[string]string),
			subResource: make(map[string]string),
		},
		metadataNames: make(map[string]string),
	}
}

// Operation sets the request method
func (b *DefinitionBuilder) Operation(op Operation) *DefinitionBuilder {
	b.def.operation = op
	return b
}

// Resource sets the resource path, including the bucket
func (b *DefinitionBuilder) Resource(resource string) *DefinitionBuilder {
	b.def.resource = resource
	return b
}

// ContentType sets the content type. Surrounding whitespace is removed,
// as it is when the header is written. An empty value is the same as
// not setting it at all.
func (b *DefinitionBuilder) ContentType(contentType string) *DefinitionBuilder {
	b.def.contentType = strings.TrimSpace(contentType)
	return b
}

// Date sets the signing time used in header authentication mode
func (b *DefinitionBuilder) Date(t time.Time) *DefinitionBuilder {
	b.def.date = &t
	return b
}

// Expires sets the absolute expiry used in presign mode
func (b *DefinitionBuilder) Expires(timestamp int64) *DefinitionBuilder {
	b.def.expires = &timestamp
	return b
}

// ExpiresTime sets the absolute expiry from a time.Time
func (b *DefinitionBuilder) ExpiresTime(t time.Time) *DefinitionBuilder {
	return b.Expires(t.Unix())
}

// Metadata adds a single metadata header. The name is lowercased.
// Adding two names that differ only in case is an error, reported by
// Build; adding the same name twice replaces the value.
func (b *DefinitionBuilder) Metadata(name, value string) *DefinitionBuilder {
	lower := strings.ToLower(name)
	if prev, ok := b.metadataNames[lower]; ok && prev != name {
		if b.err == nil {
			b.err = metadataCollision(prev, name)
		}
		return b
	}
	b.metadataNames[lower] = name
	b.def.metadata[lower] = value
	return b
}

func metadataCollision(a, b string) error {
	if b < a {
		a, b = b, a
	}
	return fmt.Errorf("metadata headers %q and %q differ only in case", a, b)
}

// MetadataMap adds every entry of m as a metadata header
func (b *DefinitionBuilder) MetadataMap(m map[string]string) *DefinitionBuilder {
	for name, value := range m {
		b.Metadata(name, value)
	}
	return b
}

// SubResource sets a service-reserved query parameter that takes part
// in the signature
func (b *DefinitionBuilder) SubResource(name, value string) *DefinitionBuilder {
	b.def.subResource[name] = value
	return b
}

// Build creates the Definition with validation
func (b *DefinitionBuilder) Build() (*Definition, error) {
	if b.err != nil {
		return nil, b.err
	}
	if !b.def.operation.Valid() {
		return nil, fmt.Errorf("unsupported operation %s", b.def.operation)
	}
	if b.def.resource == "" {
		return nil, fmt.Errorf("resource is required")
	}
	if b.def.date == nil && b.def.expires == nil {
		return nil, fmt.Errorf("either date or expires is required")
	}
	if b.def.date != nil && b.def.expires != nil {
		return nil, fmt.Errorf("date and expires are mutually exclusive")
	}

	// The returned Definition does not share maps with the builder
	def := *b.def
	def.metadata = maps.Clone(b.def.metadata)
	def.subResource = maps.Clone(b.def.subResource)
	return &def, nil
}

// MustBuild creates the Definition and panics if validation fails
func (b *DefinitionBuilder) MustBuild() *Definition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// Operation returns the request method
func (d *Definition) Operation() Operation {
	return d.operation
}

// Resource returns the resource path
func (d *Definition) Resource() string {
	return d.resource
}

// ContentType returns the content type, or an empty string
func (d *Definition) ContentType() string {
	return d.contentType
}

// Date returns the signing time, if this is a header-mode definition
func (d *Definition) Date() (time.Time, bool) {
	if d.date == nil {
		return time.Time{}, false
	}
	return *d.date, true
}

// Expires returns the absolute expiry, if this is a presign definition
func (d *Definition) Expires() (int64, bool) {
	if d.expires == nil {
		return 0, false
	}
	return *d.expires, true
}

// Presigned reports whether this definition produces a presigned URL
func (d *Definition) Presigned() bool {
	return d.expires != nil
}

// Metadata returns a copy of the metadata headers
func (d *Definition) Metadata() map[string]string {
	return maps.Clone(d.metadata)
}

// SubResource returns a copy of the sub-resource parameters
func (d *Definition) SubResource() map[string]string {
	return maps.Clone(d.subResource)
}
