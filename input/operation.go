package input

import (
	"fmt"
	"strings"
)

// Operation is the HTTP method of a request to the storage service.
type Operation int

const (
	InvalidOperation Operation = iota
	GET
	PUT
	DELETE
	HEAD
)

var operationNames = map[Operation]string{
	GET:    "GET",
	PUT:    "PUT",
	DELETE: "DELETE",
	HEAD:   "HEAD",
}

// String returns the method name exactly as it appears on the wire
func (op Operation) String() string {
	if name, ok := operationNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Operation(%d)", int(op))
}

// Valid reports whether op is one of the supported methods
func (op Operation) Valid() bool {
	_, ok := operationNames[op]
	return ok
}

// ParseOperation converts a method name (case-insensitive) into an Operation
func ParseOperation(s string) (Operation, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for op, name := range operationNames {
		if name == upper {
			return op, nil
		}
	}
	return InvalidOperation, fmt.Errorf("unsupported operation %q", s)
}
