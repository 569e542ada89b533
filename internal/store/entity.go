package store

import (
	"fmt"
	"slices"
	"time"

	"github.com/G-Node/pandora/pkg/ident"
	"github.com/G-Node/pandora/pkg/types"
)

// entity carries the attributes every persisted entity has.
type entity struct {
	f  *File
	g  Group
	id string
}

func newEntity(f *File, g Group) entity {
	var id string
	// The id is written on create; a failed read leaves it empty and the
	// next attribute access reports the engine error.
	_, _ = g.GetAttr(attrID, &id)
	return entity{f: f, g: g, id: id}
}

func (e *entity) ID() string { return e.id }

func (e *entity) CreatedAt() (time.Time, error) { return e.time(attrCreatedAt) }
func (e *entity) UpdatedAt() (time.Time, error) { return e.time(attrUpdatedAt) }

func (e *entity) SetUpdatedAt() error {
	if err := e.f.eng.Check(true); err != nil {
		return err
	}
	return e.g.SetAttr(attrUpdatedAt, formatTime(time.Now()))
}

func (e *entity) ForceCreatedAt(t time.Time) error {
	if err := e.f.eng.Check(true); err != nil {
		return err
	}
	return e.g.SetAttr(attrCreatedAt, formatTime(t))
}

func (e *entity) time(key string) (time.Time, error) {
	if err := e.f.eng.Check(false); err != nil {
		return time.Time{}, err
	}
	var s string
	ok, err := e.g.GetAttr(key, &s)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s has no %s", types.ErrFormatInvalid, e.g.Location(), key)
	}
	return parseTime(s)
}

// get decodes an optional attribute into dst.
func (e *entity) get(key string, dst any) (bool, error) {
	if err := e.f.eng.Check(false); err != nil {
		return false, err
	}
	return e.g.GetAttr(key, dst)
}

func (e *entity) str(key string) (string, bool, error) {
	var s string
	ok, err := e.get(key, &s)
	return s, ok, err
}

// required reads an attribute that every entity of the kind carries.
func (e *entity) required(key string) (string, error) {
	s, ok, err := e.str(key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s has no %s", types.ErrFormatInvalid, e.g.Location(), key)
	}
	return s, nil
}

// set writes an attribute and bumps updatedAt.
func (e *entity) set(key string, value any) error {
	if err := e.f.eng.Check(true); err != nil {
		return err
	}
	return setAttrs(e.g, attr{key, value}, attr{attrUpdatedAt, formatTime(time.Now())})
}

// clear removes an optional attribute. Clearing an unset attribute only
// checks that the root is writable.
func (e *entity) clear(key string) error {
	if err := e.f.eng.Check(true); err != nil {
		return err
	}
	ok, err := e.g.HasAttr(key)
	if err != nil || !ok {
		return err
	}
	if err := e.g.RemoveAttr(key); err != nil {
		return err
	}
	return e.g.SetAttr(attrUpdatedAt, formatTime(time.Now()))
}

// named adds name, type and definition. coll is the collection group the
// entity lives in, used to keep sibling names unique on rename.
type named struct {
	entity
	coll Group
}

func newNamed(f *File, coll, g Group) named {
	return named{entity: newEntity(f, g), coll: coll}
}

func (n *named) Name() (string, error) { return n.required(attrName) }

func (n *named) SetName(name string) error {
	if err := n.f.eng.Check(true); err != nil {
		return err
	}
	if err := ident.CheckName(name); err != nil {
		return err
	}
	dup, err := childByName(n.coll, name, n.id)
	if err != nil {
		return err
	}
	if dup != nil {
		return fmt.Errorf("%w: %q", types.ErrDuplicateName, name)
	}
	return n.set(attrName, name)
}

func (n *named) Type() (string, error) { return n.required(attrType) }

func (n *named) SetType(typ string) error {
	if err := ident.CheckType(typ); err != nil {
		return err
	}
	return n.set(attrType, typ)
}

func (n *named) Definition() (string, bool, error) { return n.str(attrDefinition) }
func (n *named) SetDefinition(def string) error { return n.set(attrDefinition, def) }
func (n *named) ClearDefinition() error { return n.clear(attrDefinition) }

// metaRef implements types.MetadataRef.
type metaRef struct{ e *entity }

func (m metaRef) MetadataID() (string, bool, error) { return m.e.str(attrMetadata) }

func (m metaRef) SetMetadataID(id string) error {
	if id == "" {
		return types.ErrEmptyString
	}
	return m.e.set(attrMetadata, id)
}

func (m metaRef) ClearMetadata() error { return m.e.clear(attrMetadata) }

// idList implements an ordered set of ids stored under one attribute key.
type idList struct {
	e   *entity
	key string
}

func (l idList) ids() ([]string, error) {
	var ids []string
	_, err := l.e.get(l.key, &ids)
	return ids, err
}

func (l idList) add(id string) error {
	if id == "" {
		return types.ErrEmptyString
	}
	if err := l.e.f.eng.Check(true); err != nil {
		return err
	}
	ids, err := l.ids()
	if err != nil {
		return err
	}
	if slices.Contains(ids, id) {
		return nil
	}
	return l.e.set(l.key, append(ids, id))
}

func (l idList) remove(id string) (bool, error) {
	if err := l.e.f.eng.Check(true); err != nil {
		return false, err
	}
	ids, err := l.ids()
	if err != nil {
		return false, err
	}
	i := slices.Index(ids, id)
	if i < 0 {
		return false, nil
	}
	ids = slices.Delete(ids, i, i+1)
	if len(ids) == 0 {
		return true, l.e.clear(l.key)
	}
	return true, l.e.set(l.key, ids)
}

// sourceRefs implements types.SourceRefs.
type sourceRefs struct{ l idList }

func (s sourceRefs) SourceIDs() ([]string, error) { return s.l.ids() }
func (s sourceRefs) AddSourceID(id string) error { return s.l.add(id) }
func (s sourceRefs) RemoveSourceID(id string) (bool, error) { return s.l.remove(id) }
