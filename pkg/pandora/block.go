package pandora

import (
	"fmt"

	"github.com/G-Node/pandora/pkg/types"
)

// Block is a named container of sources, data arrays and tags.
type Block struct {
	named
	metadata
	file *File
	b    types.BlockBackend
}

func (b *Block) wrapSource(s types.SourceBackend) *Source {
	return &Source{named: named{s}, metadata: metadata{b.file, s}, block: b, b: s}
}

func (b *Block) wrapDataArray(d types.DataArrayBackend) *DataArray {
	return &DataArray{
		named:      named{d},
		metadata:   metadata{b.file, d},
		provenance: provenance{b, d},
		block:      b,
		b:          d,
	}
}

func (b *Block) wrapTag(t types.TagBackend) *Tag {
	return &Tag{
		named:      named{t},
		metadata:   metadata{b.file, t},
		provenance: provenance{b, t},
		block:      b,
		b:          t,
	}
}

func (b *Block) SourceCount() (int, error) { return b.b.Sources().Count() }
func (b *Block) HasSource(nameOrID string) (bool, error) { return b.b.Sources().Has(nameOrID) }
func (b *Block) Sources() ([]*Source, error) { return all(b.b.Sources(), b.wrapSource) }

func (b *Block) GetSource(nameOrID string) (*Source, error) {
	return get(b.b.Sources(), nameOrID, b.wrapSource)
}

func (b *Block) SourceAt(index int) (*Source, error) {
	return at(b.b.Sources(), index, b.wrapSource)
}

func (b *Block) CreateSource(name, typ string) (*Source, error) {
	s, err := b.b.CreateSource(name, typ)
	if err != nil {
		return nil, err
	}
	return b.wrapSource(s), nil
}

// DeleteSource deletes a top-level source of the block with all its
// descendants. Entities that reference a deleted source keep the id; it
// resolves to nothing from then on.
func (b *Block) DeleteSource(nameOrID string) (bool, error) {
	return b.file.deleteSource(b.b.Sources(), nameOrID)
}

// FindSources searches every top-level source tree of the block. Top-level
// sources are level 0.
func (b *Block) FindSources(filter Filter, maxDepth int) ([]*Source, error) {
	roots, err := b.Sources()
	if err != nil {
		return nil, err
	}
	var out []*Source
	for _, s := range roots {
		found, err := s.FindSources(filter, maxDepth)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}

// sourceByID looks up a source anywhere in the block's source tree. It
// returns nil when no source has the id.
func (b *Block) sourceByID(id string) (*Source, error) {
	if id == "" {
		return nil, nil
	}
	found, err := b.FindSources(IDFilter(id), Unbounded)
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}

func (b *Block) DataArrayCount() (int, error) { return b.b.DataArrays().Count() }
func (b *Block) HasDataArray(nameOrID string) (bool, error) { return b.b.DataArrays().Has(nameOrID) }
func (b *Block) DataArrays() ([]*DataArray, error) { return all(b.b.DataArrays(), b.wrapDataArray) }

func (b *Block) GetDataArray(nameOrID string) (*DataArray, error) {
	return get(b.b.DataArrays(), nameOrID, b.wrapDataArray)
}

func (b *Block) DataArrayAt(index int) (*DataArray, error) {
	return at(b.b.DataArrays(), index, b.wrapDataArray)
}

func (b *Block) CreateDataArray(name, typ string, dt types.DataType, shape ...int) (*DataArray, error) {
	d, err := b.b.CreateDataArray(name, typ, dt, shape)
	if err != nil {
		return nil, err
	}
	return b.wrapDataArray(d), nil
}

// DeleteDataArray removes the data array. Tags referencing it keep the id.
func (b *Block) DeleteDataArray(nameOrID string) (bool, error) {
	return b.b.DataArrays().Delete(nameOrID)
}

func (b *Block) TagCount() (int, error) { return b.b.Tags().Count() }
func (b *Block) HasTag(nameOrID string) (bool, error) { return b.b.Tags().Has(nameOrID) }
func (b *Block) Tags() ([]*Tag, error) { return all(b.b.Tags(), b.wrapTag) }

func (b *Block) GetTag(nameOrID string) (*Tag, error) {
	return get(b.b.Tags(), nameOrID, b.wrapTag)
}

func (b *Block) TagAt(index int) (*Tag, error) {
	return at(b.b.Tags(), index, b.wrapTag)
}

func (b *Block) CreateTag(name, typ string, position []float64) (*Tag, error) {
	if len(position) == 0 {
		return nil, fmt.Errorf("%w: tag %q needs a position", types.ErrInvalidShape, name)
	}
	t, err := b.b.CreateTag(name, typ, position)
	if err != nil {
		return nil, err
	}
	return b.wrapTag(t), nil
}

func (b *Block) DeleteTag(nameOrID string) (bool, error) {
	return b.b.Tags().Delete(nameOrID)
}
