package pandora

import (
	"fmt"

	"github.com/G-Node/pandora/pkg/types"
)

// Source is a provenance node. Sources form a recursive tree below a block
// and are referenced by id from data arrays and tags.
type Source struct {
	named
	metadata
	block *Block
	b     types.SourceBackend
}

// Block returns the block whose source tree holds s.
func (s *Source) Block() *Block { return s.block }

func (s *Source) SourceCount() (int, error) { return s.b.Sources().Count() }
func (s *Source) HasSource(nameOrID string) (bool, error) { return s.b.Sources().Has(nameOrID) }
func (s *Source) Sources() ([]*Source, error) { return all(s.b.Sources(), s.block.wrapSource) }

func (s *Source) GetSource(nameOrID string) (*Source, error) {
	return get(s.b.Sources(), nameOrID, s.block.wrapSource)
}

func (s *Source) SourceAt(index int) (*Source, error) {
	return at(s.b.Sources(), index, s.block.wrapSource)
}

func (s *Source) CreateSource(name, typ string) (*Source, error) {
	c, err := s.b.CreateSource(name, typ)
	if err != nil {
		return nil, err
	}
	return s.block.wrapSource(c), nil
}

// DeleteSource deletes a child source with all its descendants.
func (s *Source) DeleteSource(nameOrID string) (bool, error) {
	return s.block.file.deleteSource(s.b.Sources(), nameOrID)
}

// FindSources searches the source tree rooted at s breadth-first. s itself
// is level 0.
func (s *Source) FindSources(filter Filter, maxDepth int) ([]*Source, error) {
	return find(s, filter, maxDepth, (*Source).Sources)
}

// deleteSource removes a source depth-first: descendants go before the
// node itself.
func (f *File) deleteSource(coll types.Collection[types.SourceBackend], nameOrID string) (bool, error) {
	src, err := coll.Get(nameOrID)
	if isNotFound(err) {
		return coll.Delete(nameOrID)
	}
	if err != nil {
		return false, err
	}

	children := src.Sources()
	n, err := children.Count()
	if err != nil {
		return false, err
	}
	for i := n - 1; i >= 0; i-- {
		c, err := children.At(i)
		if err != nil {
			return false, err
		}
		if _, err := f.deleteSource(children, c.ID()); err != nil {
			return false, err
		}
	}

	ok, err := coll.Delete(src.ID())
	if err != nil {
		return false, err
	}
	f.log.Debug().Str("source", src.ID()).Int("children", n).Msg("deleted source")
	return ok, nil
}

// provenance resolves the source ids held by a data array or tag against
// the owning block's source tree.
type provenance struct {
	block *Block
	sb    types.SourceRefs
}

// Sources returns the referenced sources that still exist, in the order they
// were added.
func (p provenance) Sources() ([]*Source, error) {
	ids, err := p.sb.SourceIDs()
	if err != nil {
		return nil, err
	}
	var out []*Source
	for _, id := range ids {
		s, err := p.block.sourceByID(id)
		if err != nil {
			return nil, err
		}
		if s != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

// SourceIDs returns the raw ids, dangling ones included.
func (p provenance) SourceIDs() ([]string, error) { return p.sb.SourceIDs() }

// AddSource associates the source with the given id, which must exist in
// the owning block's source tree.
func (p provenance) AddSource(id string) error {
	s, err := p.block.sourceByID(id)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: source %q", types.ErrNotFound, id)
	}
	return p.sb.AddSourceID(id)
}

// RemoveSource drops the association and reports whether it existed. The
// source itself is not touched.
func (p provenance) RemoveSource(id string) (bool, error) { return p.sb.RemoveSourceID(id) }
