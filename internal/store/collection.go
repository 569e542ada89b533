package store

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/G-Node/pandora/pkg/ident"
	"github.com/G-Node/pandora/pkg/types"
)

// maxIDAttempts bounds the id collision retry on create.
const maxIDAttempts = 16

// collection implements types.Collection over one collection group below
// owner. The collection group is created with the first child.
type collection[T any] struct {
	f     *File
	owner Group
	name  string
	wrap  func(coll, g Group) T
}

func newCollection[T any](f *File, owner Group, name string, wrap func(coll, g Group) T) *collection[T] {
	return &collection[T]{f: f, owner: owner, name: name, wrap: wrap}
}

// group returns the collection group, or nil if it does not exist yet and
// create is false.
func (c *collection[T]) group(create bool) (Group, error) {
	ok, err := c.owner.HasGroup(c.name)
	if err != nil {
		return nil, err
	}
	if !ok && !create {
		return nil, nil
	}
	return c.owner.OpenGroup(c.name, create)
}

func (c *collection[T]) names() ([]string, Group, error) {
	coll, err := c.group(false)
	if err != nil || coll == nil {
		return nil, nil, err
	}
	names, err := coll.GroupNames()
	if err != nil {
		return nil, nil, err
	}
	return names, coll, nil
}

// find resolves nameOrID to an entity group among the collection's direct
// children. The id is tried first, then the name attribute of every child.
// Returns nil if nothing matches.
func (c *collection[T]) find(nameOrID string) (Group, Group, error) {
	if ident.CheckName(nameOrID) != nil {
		return nil, nil, nil
	}
	coll, err := c.group(false)
	if err != nil || coll == nil {
		return nil, nil, err
	}
	ok, err := coll.HasGroup(nameOrID)
	if err != nil {
		return nil, nil, err
	}
	if ok {
		g, err := coll.OpenGroup(nameOrID, false)
		return coll, g, err
	}
	g, err := childByName(coll, nameOrID, "")
	return coll, g, err
}

// childByName returns the child of coll whose name attribute equals name,
// skipping the child with id except.
func childByName(coll Group, name, except string) (Group, error) {
	ids, err := coll.GroupNames()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if id == except {
			continue
		}
		g, err := coll.OpenGroup(id, false)
		if err != nil {
			return nil, err
		}
		var n string
		if _, err := g.GetAttr(attrName, &n); err != nil {
			return nil, err
		}
		if n == name {
			return g, nil
		}
	}
	return nil, nil
}

func (c *collection[T]) Has(nameOrID string) (bool, error) {
	if err := c.f.eng.Check(false); err != nil {
		return false, err
	}
	_, g, err := c.find(nameOrID)
	return g != nil, err
}

func (c *collection[T]) Get(nameOrID string) (T, error) {
	var zero T
	if err := c.f.eng.Check(false); err != nil {
		return zero, err
	}
	coll, g, err := c.find(nameOrID)
	if err != nil {
		return zero, err
	}
	if g == nil {
		return zero, fmt.Errorf("%w: %s %q", types.ErrNotFound, c.name, nameOrID)
	}
	return c.wrap(coll, g), nil
}

func (c *collection[T]) At(index int) (T, error) {
	var zero T
	if err := c.f.eng.Check(false); err != nil {
		return zero, err
	}
	names, coll, err := c.names()
	if err != nil {
		return zero, err
	}
	if index < 0 || index >= len(names) {
		return zero, fmt.Errorf("%w: %s[%d] of %d", types.ErrOutOfBounds, c.name, index, len(names))
	}
	g, err := coll.OpenGroup(names[index], false)
	if err != nil {
		return zero, err
	}
	return c.wrap(coll, g), nil
}

func (c *collection[T]) Count() (int, error) {
	if err := c.f.eng.Check(false); err != nil {
		return 0, err
	}
	names, _, err := c.names()
	return len(names), err
}

func (c *collection[T]) Delete(nameOrID string) (bool, error) {
	if err := c.f.eng.Check(true); err != nil {
		return false, err
	}
	coll, g, err := c.find(nameOrID)
	if err != nil || g == nil {
		return false, err
	}
	var id string
	if _, err := g.GetAttr(attrID, &id); err != nil {
		return false, err
	}
	ok, err := coll.RemoveGroup(id)
	if err != nil {
		return false, fmt.Errorf("deleting %s %s: %w", c.name, id, err)
	}
	c.f.log.Debug().Str("collection", c.name).Str("id", id).Msg("deleted entity")
	return ok, nil
}

// create validates name and type, assigns a fresh id and writes the common
// attributes before handing the group to init for kind-specific ones.
func (c *collection[T]) create(name, typ string, checkType bool, init func(g Group) error) (T, error) {
	var zero T
	if err := c.f.eng.Check(true); err != nil {
		return zero, err
	}
	if err := ident.CheckName(name); err != nil {
		return zero, err
	}
	if checkType {
		if err := ident.CheckType(typ); err != nil {
			return zero, err
		}
	}

	coll, err := c.group(false)
	if err != nil {
		return zero, err
	}
	if coll != nil {
		dup, err := childByName(coll, name, "")
		if err != nil {
			return zero, err
		}
		if dup != nil {
			return zero, fmt.Errorf("%w: %s %q", types.ErrDuplicateName, c.name, name)
		}
	} else if coll, err = c.group(true); err != nil {
		return zero, err
	}

	id, err := c.f.newID(coll)
	if err != nil {
		return zero, err
	}
	g, err := coll.OpenGroup(id, true)
	if err != nil {
		return zero, fmt.Errorf("creating %s %q: %w", c.name, name, err)
	}

	now := formatTime(time.Now())
	attrs := []attr{
		{attrID, id},
		{attrName, name},
		{attrCreatedAt, now},
		{attrUpdatedAt, now},
	}
	if checkType {
		attrs = append(attrs, attr{attrType, typ})
	}
	err = setAttrs(g, attrs...)
	if err == nil && init != nil {
		err = init(g)
	}
	if err != nil {
		if _, rerr := coll.RemoveGroup(id); rerr != nil {
			err = multierror.Append(err, rerr)
		}
		return zero, fmt.Errorf("creating %s %q: %w", c.name, name, err)
	}

	c.f.log.Debug().Str("collection", c.name).Str("id", id).Str("name", name).Msg("created entity")
	return c.wrap(coll, g), nil
}
