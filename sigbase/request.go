package sigbase

import (
	"fmt"
	"maps"
	"net/http"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mctech-dev/fss-go/component"
	"github.com/mctech-dev/fss-go/input"
)

// FormatDate renders t the way the service expects it in the Date
// header and in the canonical string: RFC 1123 in GMT.
func FormatDate(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}

// Builder constructs the canonical string for a single request.
// str, err := sigbase.New(input.GET).Resource("/bucket/key").Date(now).Build()
type Builder struct {
	operation   input.Operation
	resource    string
	contentType string
	date        *time.Time
	expires     *int64
	metadata    map[string]string
	subResource map[string]string

	err error
}

// New starts a canonical string for the given operation
func New(op input.Operation) *Builder {
	if !op.Valid() {
		return &Builder{err: fmt.Errorf("unsupported operation %s", op)}
	}
	return &Builder{operation: op}
}

// FromDefinition prepares a Builder from a signing definition
func FromDefinition(def *input.Definition) *Builder {
	if def == nil {
		return &Builder{err: fmt.Errorf("signing definition is required")}
	}
	b := New(def.Operation()).
		Resource(def.Resource()).
		ContentType(def.ContentType()).
		Metadata(def.Metadata()).
		SubResource(def.SubResource())
	if expires, ok := def.Expires(); ok {
		return b.Expires(expires)
	}
	if date, ok := def.Date(); ok {
		return b.Date(date)
	}
	return b
}

// Resource sets the resource path. It may carry its own query string.
func (b *Builder) Resource(resource string) *Builder {
	if b.err != nil {
		return b
	}
	b.resource = resource
	return b
}

// ContentType sets the content type line
func (b *Builder) ContentType(contentType string) *Builder {
	if b.err != nil {
		return b
	}
	b.contentType = contentType
	return b
}

// Date sets the request time. Ignored when Expires is also set.
func (b *Builder) Date(t time.Time) *Builder {
	if b.err != nil {
		return b
	}
	b.date = &t
	return b
}

// Expires sets the absolute expiry in epoch seconds
func (b *Builder) Expires(timestamp int64) *Builder {
	if b.err != nil {
		return b
	}
	b.expires = &timestamp
	return b
}

// Metadata sets the request headers to consider. Only names starting
// with component.Prefix end up in the canonical string.
func (b *Builder) Metadata(metadata map[string]string) *Builder {
	if b.err != nil {
		return b
	}
	b.metadata = metadata
	return b
}

// SubResource sets the reserved query parameters that are signed
func (b *Builder) SubResource(subResource map[string]string) *Builder {
	if b.err != nil {
		return b
	}
	b.subResource = subResource
	return b
}

// Build returns the canonical string
func (b *Builder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	if b.resource == "" {
		return "", fmt.Errorf("resource is required")
	}

	var dateOrExpires string
	switch {
	case b.expires != nil:
		dateOrExpires = strconv.FormatInt(*b.expires, 10)
	case b.date != nil:
		dateOrExpires = FormatDate(*b.date)
	default:
		return "", fmt.Errorf("either date or expires is required")
	}

	return BuildCanonicalString(b.resource, b.operation, b.contentType, dateOrExpires, b.metadata, b.subResource), nil
}

// BuildCanonicalString joins the signed parts of a request:
//
//	METHOD
//	(empty content hash)
//	content type
//	date or absolute expiry
//	x-fss-* headers, one "key:value" per line, sorted
//	canonical resource
func BuildCanonicalString(resource string, op input.Operation, contentType, dateOrExpires string, metadata, subResource map[string]string) string {
	lines := []string{
		op.String(),
		"",
		contentType,
		dateOrExpires,
	}
	lines = append(lines, canonicalHeaders(metadata)...)
	lines = append(lines, CanonicalizeResource(resource, subResource))
	return strings.Join(lines, "\n")
}

type pair struct {
	name  string
	value string
}

func canonicalHeaders(metadata map[string]string) []string {
	var headers []pair
	for name, value := range metadata {
		if !component.IsSigned(name) {
			continue
		}
		headers = append(headers, pair{strings.ToLower(name), value})
	}
	// names can collide once folded, so the value breaks ties
	sort.Slice(headers, func(i, j int) bool {
		if headers[i].name != headers[j].name {
			return headers[i].name < headers[j].name
		}
		return headers[i].value < headers[j].value
	})

	lines := make([]string, len(headers))
	for i, h := range headers {
		lines[i] = h.name + ":" + h.value
	}
	return lines
}

// CanonicalizeResource returns the resource path followed by its query
// parameters and the sub-resource parameters, sorted by name. Values are
// used as given, without percent-encoding.
func CanonicalizeResource(resource string, subResource map[string]string) string {
	path, rawQuery, _ := strings.Cut(resource, "?")

	var params []pair
	if rawQuery != "" {
		for _, field := range strings.Split(rawQuery, "&") {
			if field == "" {
				continue
			}
			name, value, _ := strings.Cut(field, "=")
			params = append(params, pair{name, value})
		}
	}
	for _, name := range slices.Sorted(maps.Keys(subResource)) {
		params = append(params, pair{name, subResource[name]})
	}

	if len(params) == 0 {
		return path
	}

	sort.SliceStable(params, func(i, j int) bool {
		return params[i].name < params[j].name
	})

	var sb strings.Builder
	sb.WriteString(path)
	sb.WriteByte('?')
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(p.name)
		if p.value != "" {
			sb.WriteByte('=')
			sb.WriteString(p.value)
		}
	}
	return sb.String()
}
