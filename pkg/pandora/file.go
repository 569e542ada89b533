package pandora

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/G-Node/pandora/pkg/types"
)

// File is an open root. It owns the top-level blocks and the section forest.
type File struct {
	b   types.FileBackend
	log zerolog.Logger
}

func (f *File) ID() string { return f.b.ID() }
func (f *File) Format() (string, error) { return f.b.Format() }
func (f *File) Version() ([]int, error) { return f.b.Version() }
func (f *File) CreatedAt() (time.Time, error) { return f.b.CreatedAt() }
func (f *File) UpdatedAt() (time.Time, error) { return f.b.UpdatedAt() }
func (f *File) SetUpdatedAt() error { return f.b.SetUpdatedAt() }
func (f *File) ForceCreatedAt(t time.Time) error { return f.b.ForceCreatedAt(t) }
func (f *File) Location() string { return f.b.Location() }
func (f *File) Mode() types.FileMode { return f.b.Mode() }
func (f *File) Backend() types.BackendKind { return f.b.Backend() }
func (f *File) IsOpen() bool { return f.b.IsOpen() }

// Close releases the root. Every handle obtained from it fails with
// types.ErrClosed afterwards. Idempotent.
func (f *File) Close() error { return f.b.Close() }

func (f *File) wrapBlock(b types.BlockBackend) *Block {
	return &Block{named: named{b}, metadata: metadata{f, b}, file: f, b: b}
}

func (f *File) wrapSection(s types.SectionBackend) *Section {
	return &Section{named: named{s}, file: f, b: s}
}

func (f *File) BlockCount() (int, error) { return f.b.Blocks().Count() }
func (f *File) HasBlock(nameOrID string) (bool, error) { return f.b.Blocks().Has(nameOrID) }
func (f *File) Blocks() ([]*Block, error) { return all(f.b.Blocks(), f.wrapBlock) }

func (f *File) GetBlock(nameOrID string) (*Block, error) {
	return get(f.b.Blocks(), nameOrID, f.wrapBlock)
}

func (f *File) BlockAt(index int) (*Block, error) {
	return at(f.b.Blocks(), index, f.wrapBlock)
}

func (f *File) CreateBlock(name, typ string) (*Block, error) {
	b, err := f.b.CreateBlock(name, typ)
	if err != nil {
		return nil, err
	}
	return f.wrapBlock(b), nil
}

// DeleteBlock removes the block with everything it owns. Sections the block
// referenced as metadata are not touched.
func (f *File) DeleteBlock(nameOrID string) (bool, error) {
	return f.b.Blocks().Delete(nameOrID)
}

func (f *File) SectionCount() (int, error) { return f.b.Sections().Count() }
func (f *File) HasSection(nameOrID string) (bool, error) { return f.b.Sections().Has(nameOrID) }
func (f *File) Sections() ([]*Section, error) { return all(f.b.Sections(), f.wrapSection) }

func (f *File) GetSection(nameOrID string) (*Section, error) {
	return get(f.b.Sections(), nameOrID, f.wrapSection)
}

func (f *File) SectionAt(index int) (*Section, error) {
	return at(f.b.Sections(), index, f.wrapSection)
}

func (f *File) CreateSection(name, typ string) (*Section, error) {
	s, err := f.b.CreateSection(name, typ)
	if err != nil {
		return nil, err
	}
	return f.wrapSection(s), nil
}

// DeleteSection deletes a top-level section with its whole subtree and then
// clears every link in the forest that pointed into the deleted subtree.
// Deleting an absent section returns false.
func (f *File) DeleteSection(nameOrID string) (bool, error) {
	return f.deleteSection(f.b.Sections(), nameOrID)
}

// FindSections searches every top-level section tree. Top-level sections
// are level 0.
func (f *File) FindSections(filter Filter, maxDepth int) ([]*Section, error) {
	roots, err := f.Sections()
	if err != nil {
		return nil, err
	}
	var out []*Section
	for _, s := range roots {
		found, err := s.FindSections(filter, maxDepth)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}

// sectionByID looks up a section anywhere in the forest. It returns nil
// when no section has the id.
func (f *File) sectionByID(id string) (*Section, error) {
	if id == "" {
		return nil, nil
	}
	found, err := f.FindSections(IDFilter(id), Unbounded)
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}
