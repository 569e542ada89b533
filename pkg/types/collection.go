package types

import (
	"errors"
	"fmt"
)

// Collection provides uniform access to the children of one kind owned by a
// single parent entity. Lookups accept either a name or an id; callers must
// not assume which one matched. Creation is kind-specific and lives on the
// owning contract.
type Collection[T any] interface {
	// Has reports whether a child with the given name or id exists.
	Has(nameOrID string) (bool, error)

	// Get returns the child with the given name or id.
	// Returns ErrNotFound if no such child exists.
	Get(nameOrID string) (T, error)

	// At returns the child at the given index in the collection's stable
	// order. Returns ErrOutOfBounds if index is not in [0, Count()).
	At(index int) (T, error)

	// Count returns the number of children.
	Count() (int, error)

	// Delete removes the child with the given name or id together with
	// everything it owns. Deleting an absent child returns false and no
	// error.
	Delete(nameOrID string) (bool, error)
}

// Lookup and creation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrOutOfBounds   = errors.New("index out of bounds")
	ErrDuplicateName = errors.New("duplicate name")
	ErrInvalidName   = errors.New("invalid name")
	ErrEmptyString   = fmt.Errorf("%w: empty string", ErrInvalidName)
	ErrInvalidShape  = errors.New("data does not match shape")
)
