package pandora

import (
	"fmt"

	"github.com/G-Node/pandora/pkg/types"
)

// DataArray describes a typed, shaped array of samples owned by a block.
type DataArray struct {
	named
	metadata
	provenance
	block *Block
	b     types.DataArrayBackend
}

// Block returns the owning block.
func (d *DataArray) Block() *Block { return d.block }

func (d *DataArray) DataType() (types.DataType, error) { return d.b.DataType() }
func (d *DataArray) Shape() ([]int, error) { return d.b.Shape() }
func (d *DataArray) Unit() (string, bool, error) { return d.b.Unit() }
func (d *DataArray) SetUnit(unit string) error { return d.b.SetUnit(unit) }
func (d *DataArray) ClearUnit() error { return d.b.ClearUnit() }
func (d *DataArray) Label() (string, bool, error) { return d.b.Label() }
func (d *DataArray) SetLabel(label string) error { return d.b.SetLabel(label) }
func (d *DataArray) ClearLabel() error { return d.b.ClearLabel() }

// ReadData returns the samples in row-major order.
func (d *DataArray) ReadData() ([]float64, error) { return d.b.ReadData() }

// WriteData replaces the samples and the shape.
func (d *DataArray) WriteData(data []float64, shape ...int) error {
	return d.b.WriteData(data, shape)
}

// Tag marks a point or region of the data arrays it references.
type Tag struct {
	named
	metadata
	provenance
	block *Block
	b     types.TagBackend
}

// Block returns the owning block.
func (t *Tag) Block() *Block { return t.block }

func (t *Tag) Position() ([]float64, error) { return t.b.Position() }
func (t *Tag) SetPosition(position []float64) error { return t.b.SetPosition(position) }
func (t *Tag) Extent() ([]float64, error) { return t.b.Extent() }
func (t *Tag) SetExtent(extent []float64) error { return t.b.SetExtent(extent) }
func (t *Tag) ClearExtent() error { return t.b.ClearExtent() }

// References returns the referenced data arrays that still exist.
func (t *Tag) References() ([]*DataArray, error) {
	ids, err := t.b.ReferenceIDs()
	if err != nil {
		return nil, err
	}
	var out []*DataArray
	for _, id := range ids {
		d, err := t.block.GetDataArray(id)
		if isNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// ReferenceIDs returns the raw ids, dangling ones included.
func (t *Tag) ReferenceIDs() ([]string, error) { return t.b.ReferenceIDs() }

// AddReference references the data array with the given name or id, which
// must belong to the tag's block.
func (t *Tag) AddReference(nameOrID string) error {
	d, err := t.block.GetDataArray(nameOrID)
	if isNotFound(err) {
		return fmt.Errorf("%w: data array %q", types.ErrNotFound, nameOrID)
	}
	if err != nil {
		return err
	}
	return t.b.AddReferenceID(d.ID())
}

// RemoveReference drops the reference and reports whether it existed.
func (t *Tag) RemoveReference(id string) (bool, error) { return t.b.RemoveReferenceID(id) }
