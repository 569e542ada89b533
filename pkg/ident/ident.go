// Package ident generates entity ids and validates entity names and types.
package ident

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/G-Node/pandora/pkg/types"
)

// Random generates time-ordered UUID v7 ids. It is the default generator of
// every root.
type Random struct{}

// NewID returns a new UUID v7, falling back to v4 if the clock source fails.
func (Random) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Seeded generates a reproducible sequence of UUID v4 ids from a seed.
// Two generators built from the same seed yield the same sequence.
type Seeded struct {
	mu  sync.Mutex
	src io.Reader
}

// NewSeeded returns a deterministic generator for tests.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{src: rand.New(rand.NewSource(seed))}
}

// NewID returns the next id of the sequence.
func (s *Seeded) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := uuid.NewRandomFromReader(s.src)
	if err != nil {
		// math/rand never fails a read
		panic(fmt.Sprintf("ident: seeded read: %v", err))
	}
	return id.String()
}

// Sequence replays a fixed list of ids and then falls back to Next. It lets
// tests force id collisions.
type Sequence struct {
	mu   sync.Mutex
	ids  []string
	Next types.IDGenerator
}

// NewSequence returns a generator that yields ids in order.
func NewSequence(ids ...string) *Sequence {
	return &Sequence{ids: ids, Next: Random{}}
}

// NewID returns the next queued id.
func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.ids) == 0 {
		return s.Next.NewID()
	}
	id := s.ids[0]
	s.ids = s.ids[1:]
	return id
}

// Or returns gen, or the default generator when gen is nil.
func Or(gen types.IDGenerator) types.IDGenerator {
	if gen == nil {
		return Random{}
	}
	return gen
}

// CheckName validates an entity name. Names must be non-empty and must not
// contain a path separator.
func CheckName(name string) error {
	if name == "" {
		return types.ErrEmptyString
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q contains a path separator", types.ErrInvalidName, name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: %q", types.ErrInvalidName, name)
	}
	return nil
}

// CheckType validates an entity type string.
func CheckType(typ string) error {
	if typ == "" {
		return types.ErrEmptyString
	}
	return nil
}

// IsID reports whether s has the canonical 36-character id form.
func IsID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
