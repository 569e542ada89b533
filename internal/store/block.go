package store

import (
	"fmt"
	"slices"

	"github.com/G-Node/pandora/pkg/types"
)

type block struct {
	named
	metaRef
}

var _ types.BlockBackend = (*block)(nil)

func newBlock(f *File, coll, g Group) *block {
	b := &block{named: newNamed(f, coll, g)}
	b.metaRef = metaRef{&b.entity}
	return b
}

func (b *block) Sources() types.Collection[types.SourceBackend] { return sourcesOf(b.f, b.g) }

func (b *block) CreateSource(name, typ string) (types.SourceBackend, error) {
	return sourcesOf(b.f, b.g).create(name, typ, true, nil)
}

func (b *block) DataArrays() types.Collection[types.DataArrayBackend] { return b.dataArrays() }

func (b *block) dataArrays() *collection[types.DataArrayBackend] {
	return newCollection(b.f, b.g, groupDataArrays, func(coll, g Group) types.DataArrayBackend {
		return newDataArray(b.f, coll, g)
	})
}

func (b *block) CreateDataArray(name, typ string, dt types.DataType, shape []int) (types.DataArrayBackend, error) {
	if !types.IsValidDataType(dt) {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidDataType, dt)
	}
	if _, err := shapeSize(shape); err != nil {
		return nil, err
	}
	return b.dataArrays().create(name, typ, true, func(g Group) error {
		return setAttrs(g, attr{attrDataType, string(dt)}, attr{attrShape, slices.Clone(shape)})
	})
}

func (b *block) Tags() types.Collection[types.TagBackend] { return b.tags() }

func (b *block) tags() *collection[types.TagBackend] {
	return newCollection(b.f, b.g, groupTags, func(coll, g Group) types.TagBackend {
		return newTag(b.f, coll, g)
	})
}

func (b *block) CreateTag(name, typ string, position []float64) (types.TagBackend, error) {
	return b.tags().create(name, typ, true, func(g Group) error {
		return g.SetAttr(attrPosition, toFloats(position))
	})
}

type source struct {
	named
	metaRef
}

var _ types.SourceBackend = (*source)(nil)

func newSource(f *File, coll, g Group) *source {
	s := &source{named: newNamed(f, coll, g)}
	s.metaRef = metaRef{&s.entity}
	return s
}

// sourcesOf returns the source collection below owner, a block or a source.
func sourcesOf(f *File, owner Group) *collection[types.SourceBackend] {
	return newCollection(f, owner, groupSources, func(coll, g Group) types.SourceBackend {
		return newSource(f, coll, g)
	})
}

func (s *source) Sources() types.Collection[types.SourceBackend] { return sourcesOf(s.f, s.g) }

func (s *source) CreateSource(name, typ string) (types.SourceBackend, error) {
	return sourcesOf(s.f, s.g).create(name, typ, true, nil)
}
