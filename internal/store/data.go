package store

import (
	"fmt"
	"slices"

	"github.com/G-Node/pandora/pkg/types"
)

type dataArray struct {
	named
	metaRef
	sourceRefs
}

var _ types.DataArrayBackend = (*dataArray)(nil)

func newDataArray(f *File, coll, g Group) *dataArray {
	d := &dataArray{named: newNamed(f, coll, g)}
	d.metaRef = metaRef{&d.entity}
	d.sourceRefs = sourceRefs{idList{&d.entity, attrSources}}
	return d
}

func (d *dataArray) DataType() (types.DataType, error) {
	dt, err := d.required(attrDataType)
	return types.DataType(dt), err
}

func (d *dataArray) Shape() ([]int, error) {
	var shape []int
	_, err := d.get(attrShape, &shape)
	return shape, err
}

func (d *dataArray) Unit() (string, bool, error) { return d.str(attrUnit) }
func (d *dataArray) SetUnit(unit string) error { return d.set(attrUnit, unit) }
func (d *dataArray) ClearUnit() error { return d.clear(attrUnit) }

func (d *dataArray) Label() (string, bool, error) { return d.str(attrLabel) }
func (d *dataArray) SetLabel(label string) error { return d.set(attrLabel, label) }
func (d *dataArray) ClearLabel() error { return d.clear(attrLabel) }

func (d *dataArray) ReadData() ([]float64, error) {
	if err := d.f.eng.Check(false); err != nil {
		return nil, err
	}
	buf, ok, err := d.g.ReadData(datasetPayload)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []float64{}, nil
	}
	return decodeFloats(buf)
}

func (d *dataArray) WriteData(data []float64, shape []int) error {
	if err := d.f.eng.Check(true); err != nil {
		return err
	}
	n, err := shapeSize(shape)
	if err != nil {
		return err
	}
	if n != len(data) {
		return fmt.Errorf("%w: %d samples for shape %v", types.ErrInvalidShape, len(data), shape)
	}
	if err := d.g.WriteData(datasetPayload, encodeFloats(data)); err != nil {
		return fmt.Errorf("writing payload of %s: %w", d.id, err)
	}
	return d.set(attrShape, slices.Clone(shape))
}

type tag struct {
	named
	metaRef
	sourceRefs
	refs idList
}

var _ types.TagBackend = (*tag)(nil)

func newTag(f *File, coll, g Group) *tag {
	t := &tag{named: newNamed(f, coll, g)}
	t.metaRef = metaRef{&t.entity}
	t.sourceRefs = sourceRefs{idList{&t.entity, attrSources}}
	t.refs = idList{&t.entity, attrReferences}
	return t
}

func (t *tag) floats(key string) ([]float64, error) {
	var xs []float
	_, err := t.get(key, &xs)
	return fromFloats(xs), err
}

func (t *tag) Position() ([]float64, error) { return t.floats(attrPosition) }

func (t *tag) SetPosition(position []float64) error {
	return t.set(attrPosition, toFloats(position))
}

func (t *tag) Extent() ([]float64, error) { return t.floats(attrExtent) }

func (t *tag) SetExtent(extent []float64) error {
	return t.set(attrExtent, toFloats(extent))
}

func (t *tag) ClearExtent() error { return t.clear(attrExtent) }

func (t *tag) ReferenceIDs() ([]string, error) { return t.refs.ids() }
func (t *tag) AddReferenceID(id string) error { return t.refs.add(id) }
func (t *tag) RemoveReferenceID(id string) (bool, error) { return t.refs.remove(id) }
