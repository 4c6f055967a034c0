package store

import (
	"errors"
	"fmt"

	"entity-store/core/schema"
)

var (
	// ErrUnknownType is returned when a type is absent from the schema.
	ErrUnknownType = schema.ErrUnknownType
	// ErrInvalidPayload is returned for malformed JSON or non-object records.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrInvalidQuery is returned when a query is neither nil, a predicate nor (for Find) a scalar.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrMissingIdentity is returned when a record lacks its identifier attribute.
	ErrMissingIdentity = errors.New("missing identity")
)

// PayloadError carries the text or value that could not be ingested.
type PayloadError struct {
	Type   string
	Text   string
	Reason string
	Err    error
}

func (e *PayloadError) Error() string {
	msg := fmt.Sprintf("invalid payload for type %q: %s", e.Type, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PayloadError) Is(target error) bool {
	return target == ErrInvalidPayload
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

// IdentityError reports a record without a usable identifier.
type IdentityError struct {
	Type      string
	Attribute string
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("record of type %q has no %q attribute", e.Type, e.Attribute)
}

func (e *IdentityError) Is(target error) bool {
	return target == ErrMissingIdentity
}

func invalidQuery(op string, q any) error {
	return fmt.Errorf("%w for %s: unsupported query of type %T", ErrInvalidQuery, op, q)
}
