package pandora

import (
	"time"

	"github.com/G-Node/pandora/pkg/types"
)

// Property is a named, typed sequence of values owned by a section.
type Property struct {
	b       types.PropertyBackend
	section *Section
}

// Section returns the section that owns p. For an inherited property this
// is the linked section, not the one it was inherited into.
func (p *Property) Section() *Section { return p.section }

func (p *Property) ID() string { return p.b.ID() }
func (p *Property) Name() (string, error) { return p.b.Name() }
func (p *Property) SetName(name string) error { return p.b.SetName(name) }
func (p *Property) DataType() (types.DataType, error) { return p.b.DataType() }
func (p *Property) Unit() (string, bool, error) { return p.b.Unit() }
func (p *Property) SetUnit(unit string) error { return p.b.SetUnit(unit) }
func (p *Property) ClearUnit() error { return p.b.ClearUnit() }
func (p *Property) Definition() (string, bool, error) { return p.b.Definition() }
func (p *Property) SetDefinition(def string) error { return p.b.SetDefinition(def) }
func (p *Property) ClearDefinition() error { return p.b.ClearDefinition() }
func (p *Property) Mapping() (string, bool, error) { return p.b.Mapping() }
func (p *Property) SetMapping(url string) error { return p.b.SetMapping(url) }
func (p *Property) ClearMapping() error { return p.b.ClearMapping() }
func (p *Property) CreatedAt() (time.Time, error) { return p.b.CreatedAt() }
func (p *Property) UpdatedAt() (time.Time, error) { return p.b.UpdatedAt() }
func (p *Property) ValueCount() (int, error) { return p.b.ValueCount() }
func (p *Property) Values() ([]types.Value, error) { return p.b.Values() }
func (p *Property) DeleteValues() error { return p.b.DeleteValues() }

// SetValues replaces all values. Every value must have the property's data
// type.
func (p *Property) SetValues(values ...types.Value) error { return p.b.SetValues(values) }
