package store

import (
	"fmt"

	"github.com/G-Node/pandora/pkg/types"
)

type section struct {
	named
	parent *section
}

var _ types.SectionBackend = (*section)(nil)

func newSection(f *File, coll, g Group, parent *section) *section {
	return &section{named: newNamed(f, coll, g), parent: parent}
}

func (s *section) Repository() (string, bool, error) { return s.str(attrRepository) }
func (s *section) SetRepository(url string) error { return s.set(attrRepository, url) }
func (s *section) ClearRepository() error { return s.clear(attrRepository) }

func (s *section) Mapping() (string, bool, error) { return s.str(attrMapping) }
func (s *section) SetMapping(url string) error { return s.set(attrMapping, url) }
func (s *section) ClearMapping() error { return s.clear(attrMapping) }

func (s *section) LinkID() (string, bool, error) { return s.str(attrLink) }

func (s *section) SetLinkID(id string) error {
	if id == "" {
		return types.ErrEmptyString
	}
	return s.set(attrLink, id)
}

func (s *section) ClearLink() error { return s.clear(attrLink) }

func (s *section) Parent() (types.SectionBackend, error) {
	if err := s.f.eng.Check(false); err != nil {
		return nil, err
	}
	if s.parent == nil {
		return nil, nil
	}
	return s.parent, nil
}

func (s *section) Sections() types.Collection[types.SectionBackend] { return s.children() }

func (s *section) children() *collection[types.SectionBackend] {
	return newCollection(s.f, s.g, groupChildren, func(coll, g Group) types.SectionBackend {
		return newSection(s.f, coll, g, s)
	})
}

func (s *section) CreateSection(name, typ string) (types.SectionBackend, error) {
	return s.children().create(name, typ, true, nil)
}

func (s *section) Properties() types.Collection[types.PropertyBackend] { return s.properties() }

func (s *section) properties() *collection[types.PropertyBackend] {
	return newCollection(s.f, s.g, groupProperties, func(coll, g Group) types.PropertyBackend {
		return newProperty(s.f, coll, g)
	})
}

func (s *section) CreateProperty(name string, dt types.DataType) (types.PropertyBackend, error) {
	if !types.IsValidDataType(dt) {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidDataType, dt)
	}
	return s.properties().create(name, "", false, func(g Group) error {
		return g.SetAttr(attrDataType, string(dt))
	})
}

type property struct {
	named
}

var _ types.PropertyBackend = (*property)(nil)

func newProperty(f *File, coll, g Group) *property {
	return &property{named: newNamed(f, coll, g)}
}

func (p *property) DataType() (types.DataType, error) {
	dt, err := p.required(attrDataType)
	return types.DataType(dt), err
}

func (p *property) Unit() (string, bool, error) { return p.str(attrUnit) }
func (p *property) SetUnit(unit string) error { return p.set(attrUnit, unit) }
func (p *property) ClearUnit() error { return p.clear(attrUnit) }

func (p *property) Mapping() (string, bool, error) { return p.str(attrMapping) }
func (p *property) SetMapping(url string) error { return p.set(attrMapping, url) }
func (p *property) ClearMapping() error { return p.clear(attrMapping) }

func (p *property) Values() ([]types.Value, error) {
	if err := p.f.eng.Check(false); err != nil {
		return nil, err
	}
	dt, err := p.DataType()
	if err != nil {
		return nil, err
	}
	return decodeValues(p.g, dt)
}

func (p *property) ValueCount() (int, error) {
	values, err := p.Values()
	return len(values), err
}

func (p *property) SetValues(values []types.Value) error {
	if err := p.f.eng.Check(true); err != nil {
		return err
	}
	dt, err := p.DataType()
	if err != nil {
		return err
	}
	encoded, err := encodeValues(dt, values)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return p.clear(attrValues)
	}
	return p.set(attrValues, encoded)
}

func (p *property) DeleteValues() error { return p.clear(attrValues) }
