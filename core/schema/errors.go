package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownType is returned for any operation on a type absent from the registry.
	ErrUnknownType = errors.New("unknown type")
	// ErrNoEndpoint is returned when a remote operation targets a type without url.
	ErrNoEndpoint = errors.New("type has no endpoint url")
	// ErrInvalidSchema is returned by New when the configuration does not validate.
	ErrInvalidSchema = errors.New("invalid schema")
)

// TypeError reports a lookup of an unregistered type together with the valid ones.
type TypeError struct {
	Type  string
	Valid []string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("invalid type %q, acceptable types are: %s", e.Type, strings.Join(e.Valid, ", "))
}

func (e *TypeError) Is(target error) bool {
	return target == ErrUnknownType
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSchema, fmt.Sprintf(format, args...))
}

// EndpointError reports a remote operation on a type declared without url.
type EndpointError struct {
	Type string
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("type %q has no endpoint url", e.Type)
}

func (e *EndpointError) Is(target error) bool {
	return target == ErrNoEndpoint
}
