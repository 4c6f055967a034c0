package entities

import (
	"errors"
	"fmt"
)

// ErrUnknownRelation is returned by Handle methods for undeclared attributes.
var ErrUnknownRelation = errors.New("unknown relation")

func unknownRelation(typ, attr string) error {
	return fmt.Errorf("%w: type %q declares no relation %q", ErrUnknownRelation, typ, attr)
}

// ErrNoCache is returned by cache operations on a client built without storage.
var ErrNoCache = errors.New("no cache storage configured")
