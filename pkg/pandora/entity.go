package pandora

import (
	"errors"
	"fmt"
	"time"

	"github.com/G-Node/pandora/pkg/types"
)

// named exposes the attributes shared by every named entity.
type named struct {
	nb types.NamedEntityBackend
}

func (n named) ID() string { return n.nb.ID() }
func (n named) Name() (string, error) { return n.nb.Name() }
func (n named) SetName(name string) error { return n.nb.SetName(name) }
func (n named) Type() (string, error) { return n.nb.Type() }
func (n named) SetType(typ string) error { return n.nb.SetType(typ) }
func (n named) Definition() (string, bool, error) { return n.nb.Definition() }
func (n named) SetDefinition(def string) error { return n.nb.SetDefinition(def) }
func (n named) ClearDefinition() error { return n.nb.ClearDefinition() }
func (n named) CreatedAt() (time.Time, error) { return n.nb.CreatedAt() }
func (n named) UpdatedAt() (time.Time, error) { return n.nb.UpdatedAt() }
func (n named) SetUpdatedAt() error { return n.nb.SetUpdatedAt() }
func (n named) ForceCreatedAt(t time.Time) error { return n.nb.ForceCreatedAt(t) }

// metadata resolves an entity's optional reference to a section.
type metadata struct {
	file *File
	mb   types.MetadataRef
}

// Metadata returns the referenced section, or nil when the reference is
// unset or dangling.
func (m metadata) Metadata() (*Section, error) {
	id, ok, err := m.mb.MetadataID()
	if err != nil || !ok {
		return nil, err
	}
	return m.file.sectionByID(id)
}

// SetMetadata references the section with the given id, which must exist
// in the same root.
func (m metadata) SetMetadata(id string) error {
	s, err := m.file.sectionByID(id)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: section %q", types.ErrNotFound, id)
	}
	return m.mb.SetMetadataID(id)
}

func (m metadata) ClearMetadata() error { return m.mb.ClearMetadata() }

// all wraps every child of a collection in index order.
func all[T, U any](c types.Collection[T], wrap func(T) U) ([]U, error) {
	n, err := c.Count()
	if err != nil {
		return nil, err
	}
	out := make([]U, 0, n)
	for i := 0; i < n; i++ {
		t, err := c.At(i)
		if err != nil {
			return nil, err
		}
		out = append(out, wrap(t))
	}
	return out, nil
}

func get[T, U any](c types.Collection[T], nameOrID string, wrap func(T) U) (U, error) {
	t, err := c.Get(nameOrID)
	if err != nil {
		var zero U
		return zero, err
	}
	return wrap(t), nil
}

func at[T, U any](c types.Collection[T], index int, wrap func(T) U) (U, error) {
	t, err := c.At(index)
	if err != nil {
		var zero U
		return zero, err
	}
	return wrap(t), nil
}

func isNotFound(err error) bool { return errors.Is(err, types.ErrNotFound) }
