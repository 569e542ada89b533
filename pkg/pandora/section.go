package pandora

import (
	"fmt"

	"github.com/G-Node/pandora/pkg/types"
)

// Section is a metadata node. Sections form a strict tree per root; a
// section may additionally link to any section of the same root, from
// which it inherits properties.
type Section struct {
	named
	file *File
	b    types.SectionBackend
}

func (s *Section) wrapProperty(p types.PropertyBackend) *Property {
	return &Property{b: p, section: s}
}

func (s *Section) Repository() (string, bool, error) { return s.b.Repository() }
func (s *Section) SetRepository(url string) error { return s.b.SetRepository(url) }
func (s *Section) ClearRepository() error { return s.b.ClearRepository() }
func (s *Section) Mapping() (string, bool, error) { return s.b.Mapping() }
func (s *Section) SetMapping(url string) error { return s.b.SetMapping(url) }
func (s *Section) ClearMapping() error { return s.b.ClearMapping() }

// Parent returns the structural parent, or nil for a top-level section.
func (s *Section) Parent() (*Section, error) {
	p, err := s.b.Parent()
	if err != nil || p == nil {
		return nil, err
	}
	return s.file.wrapSection(p), nil
}

// Link returns the linked section, or nil when the link is unset or its
// target no longer exists.
func (s *Section) Link() (*Section, error) {
	id, ok, err := s.b.LinkID()
	if err != nil || !ok {
		return nil, err
	}
	return s.file.sectionByID(id)
}

// SetLink links s to target. No cycle check is made: a section may link to
// an ancestor, a sibling or itself.
func (s *Section) SetLink(target *Section) error {
	if target == nil {
		return s.ClearLink()
	}
	return s.SetLinkID(target.ID())
}

// SetLinkID links s to the section with the given id, which must exist in
// the same root.
func (s *Section) SetLinkID(id string) error {
	target, err := s.file.sectionByID(id)
	if err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("%w: section %q", types.ErrNotFound, id)
	}
	return s.b.SetLinkID(id)
}

// ClearLink unsets the link. Clearing an unset link is a no-op.
func (s *Section) ClearLink() error { return s.b.ClearLink() }

func (s *Section) SectionCount() (int, error) { return s.b.Sections().Count() }
func (s *Section) HasSection(nameOrID string) (bool, error) { return s.b.Sections().Has(nameOrID) }
func (s *Section) Sections() ([]*Section, error) { return all(s.b.Sections(), s.file.wrapSection) }

func (s *Section) GetSection(nameOrID string) (*Section, error) {
	return get(s.b.Sections(), nameOrID, s.file.wrapSection)
}

func (s *Section) SectionAt(index int) (*Section, error) {
	return at(s.b.Sections(), index, s.file.wrapSection)
}

func (s *Section) CreateSection(name, typ string) (*Section, error) {
	c, err := s.b.CreateSection(name, typ)
	if err != nil {
		return nil, err
	}
	return s.file.wrapSection(c), nil
}

// DeleteSection deletes a child section the way File.DeleteSection does.
func (s *Section) DeleteSection(nameOrID string) (bool, error) {
	return s.file.deleteSection(s.b.Sections(), nameOrID)
}

func (s *Section) PropertyCount() (int, error) { return s.b.Properties().Count() }
func (s *Section) HasProperty(nameOrID string) (bool, error) { return s.b.Properties().Has(nameOrID) }

// Properties returns the section's own properties.
func (s *Section) Properties() ([]*Property, error) {
	return all(s.b.Properties(), s.wrapProperty)
}

func (s *Section) GetProperty(nameOrID string) (*Property, error) {
	return get(s.b.Properties(), nameOrID, s.wrapProperty)
}

func (s *Section) PropertyAt(index int) (*Property, error) {
	return at(s.b.Properties(), index, s.wrapProperty)
}

// CreateProperty adds a property. The name must be unique among the
// section's own properties only, so it may shadow an inherited one.
func (s *Section) CreateProperty(name string, dt types.DataType) (*Property, error) {
	p, err := s.b.CreateProperty(name, dt)
	if err != nil {
		return nil, err
	}
	return s.wrapProperty(p), nil
}

// CreatePropertyWithValues adds a property typed after the first value and
// stores values in it.
func (s *Section) CreatePropertyWithValues(name string, values ...types.Value) (*Property, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no values for %q", types.ErrInvalidDataType, name)
	}
	p, err := s.CreateProperty(name, values[0].DataType())
	if err != nil {
		return nil, err
	}
	if err := p.SetValues(values...); err != nil {
		_, _ = s.DeleteProperty(p.ID())
		return nil, err
	}
	return p, nil
}

func (s *Section) DeleteProperty(nameOrID string) (bool, error) {
	return s.b.Properties().Delete(nameOrID)
}

// InheritedProperties returns the own properties followed by the
// properties of the linked section whose names are not taken by an own
// property. Only one hop is followed, and a self-link contributes nothing.
func (s *Section) InheritedProperties() ([]*Property, error) {
	own, err := s.Properties()
	if err != nil {
		return nil, err
	}
	id, ok, err := s.b.LinkID()
	if err != nil {
		return nil, err
	}
	if !ok || id == s.ID() {
		return own, nil
	}
	linked, err := s.file.sectionByID(id)
	if err != nil || linked == nil {
		return own, err
	}

	taken := make(map[string]bool, len(own))
	for _, p := range own {
		name, err := p.Name()
		if err != nil {
			return nil, err
		}
		taken[name] = true
	}
	inherited, err := linked.Properties()
	if err != nil {
		return nil, err
	}
	out := own
	for _, p := range inherited {
		name, err := p.Name()
		if err != nil {
			return nil, err
		}
		if !taken[name] {
			out = append(out, p)
		}
	}
	return out, nil
}

// FindSections searches the subtree of s breadth-first. s itself is level 0
// and is included when it matches; maxDepth 0 therefore yields at most s.
// Use Unbounded to search the whole subtree.
func (s *Section) FindSections(filter Filter, maxDepth int) ([]*Section, error) {
	return find(s, filter, maxDepth, (*Section).Sections)
}

// FindRelated returns every section reachable from s through child, parent
// or outgoing link edges that matches filter. Each section is visited once
// and s itself is never part of the result.
func (s *Section) FindRelated(filter Filter) ([]*Section, error) {
	if filter == nil {
		filter = AcceptAll
	}
	visited := map[string]bool{s.ID(): true}
	queue, err := s.neighbors()
	if err != nil {
		return nil, err
	}

	var out []*Section
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if visited[n.ID()] {
			continue
		}
		visited[n.ID()] = true
		if filter(n) {
			out = append(out, n)
		}
		next, err := n.neighbors()
		if err != nil {
			return nil, err
		}
		queue = append(queue, next...)
	}
	return out, nil
}

// neighbors returns the children, the parent and the link target of s.
func (s *Section) neighbors() ([]*Section, error) {
	out, err := s.Sections()
	if err != nil {
		return nil, err
	}
	parent, err := s.Parent()
	if err != nil {
		return nil, err
	}
	if parent != nil {
		out = append(out, parent)
	}
	link, err := s.Link()
	if err != nil {
		return nil, err
	}
	if link != nil {
		out = append(out, link)
	}
	return out, nil
}

// NearestSections returns the matching sections closest to s. It searches
// the subtree of s level by level and returns the first non-empty level.
// Failing that, it returns the nearest matching ancestor. Failing that, it
// walks up the ancestors and returns the matching children of the first
// ancestor that has any. s itself is never part of the result.
func (s *Section) NearestSections(filter Filter) ([]*Section, error) {
	if filter == nil {
		filter = AcceptAll
	}

	level, err := s.Sections()
	if err != nil {
		return nil, err
	}
	for len(level) > 0 {
		var matches, next []*Section
		for _, n := range level {
			if filter(n) {
				matches = append(matches, n)
			}
			kids, err := n.Sections()
			if err != nil {
				return nil, err
			}
			next = append(next, kids...)
		}
		if len(matches) > 0 {
			return matches, nil
		}
		level = next
	}

	for p, err := s.Parent(); p != nil || err != nil; p, err = p.Parent() {
		if err != nil {
			return nil, err
		}
		if filter(p) {
			return []*Section{p}, nil
		}
	}

	for p, err := s.Parent(); p != nil || err != nil; p, err = p.Parent() {
		if err != nil {
			return nil, err
		}
		found, err := p.FindSections(filter, 1)
		if err != nil {
			return nil, err
		}
		var out []*Section
		for _, n := range found {
			if n.ID() != s.ID() {
				out = append(out, n)
			}
		}
		if len(out) > 0 {
			return out, nil
		}
	}
	return nil, nil
}
