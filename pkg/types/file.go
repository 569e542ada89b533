package types

import (
	"errors"
	"time"
)

// Format identification written into every root on creation.
const (
	FormatName = "pandora"
)

// FormatVersion is the on-disk format version of newly created roots.
// Roots whose major version differs are rejected on open.
var FormatVersion = []int{1, 0, 0}

// FileBackend is the contract for an open root container. It owns the
// top-level blocks and the top-level sections of the metadata forest.
type FileBackend interface {
	// ID returns the immutable root id.
	ID() string

	// Format returns the format identifier stored in the root header.
	Format() (string, error)

	// Version returns the format version stored in the root header.
	Version() ([]int, error)

	CreatedAt() (time.Time, error)
	UpdatedAt() (time.Time, error)
	SetUpdatedAt() error
	ForceCreatedAt(t time.Time) error

	// Location returns the path the root was opened from.
	Location() string

	// Mode returns the mode the root was opened with.
	Mode() FileMode

	// Backend returns the engine kind serving this root.
	Backend() BackendKind

	Blocks() Collection[BlockBackend]
	CreateBlock(name, typ string) (BlockBackend, error)

	Sections() Collection[SectionBackend]
	CreateSection(name, typ string) (SectionBackend, error)

	// IsOpen reports whether Close has not been called yet.
	IsOpen() bool

	// Close releases the underlying handles. Idempotent: multiple calls
	// succeed. After Close, every operation on the root or on any handle
	// obtained from it returns ErrClosed.
	Close() error
}

// Root lifecycle errors.
var (
	ErrClosed           = errors.New("root is closed")
	ErrReadOnly         = errors.New("root is opened read-only")
	ErrFormatInvalid    = errors.New("invalid or unrecognized root format")
	ErrIncompatibleLink = errors.New("incompatible section link")
)
