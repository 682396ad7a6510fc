package component

import (
	"fmt"
	"net/http"
	"strings"
)

// MetaHeaders rewrites caller metadata into service headers. Keys that
// already carry MetaPrefix are kept as they are; every other key gets
// the prefix. Header names are lowercase, so two keys that only differ
// in case (or in the presence of the prefix) are rejected.
func MetaHeaders(metadata map[string]string) (map[string]string, error) {
	headers := make(map[string]string, len(metadata))
	origin := make(map[string]string, len(metadata))
	for name, value := range metadata {
		header := Meta(name)
		if IsMeta(name) {
			header = strings.ToLower(name)
		}
		if prev, ok := origin[header]; ok {
			if name < prev {
				prev, name = name, prev
			}
			return nil, fmt.Errorf("metadata keys %q and %q both map to header %s", prev, name, header)
		}
		origin[header] = name
		headers[header] = value
	}
	return headers, nil
}

// MetadataFromHeader collects the user metadata found in a response.
// The metadata prefix is stripped and names are returned in lowercase.
// Multiple values for one header are joined with ", ".
func MetadataFromHeader(hdr http.Header) map[string]string {
	meta := make(map[string]string)
	for name, values := range hdr {
		lower := strings.ToLower(name)
		if !strings.HasPrefix(lower, MetaPrefix) {
			continue
		}
		meta[strings.TrimPrefix(lower, MetaPrefix)] = strings.Join(values, ", ")
	}
	return meta
}

// FlattenHeader returns hdr as a single-valued map. Multiple values
// are joined with ", ". Names keep the casing they have in hdr.
func FlattenHeader(hdr http.Header) map[string]string {
	flat := make(map[string]string, len(hdr))
	for name, values := range hdr {
		flat[name] = strings.Join(values, ", ")
	}
	return flat
}
