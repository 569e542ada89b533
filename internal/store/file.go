package store

import (
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/G-Node/pandora/pkg/ident"
	"github.com/G-Node/pandora/pkg/types"
)

// File implements types.FileBackend over an engine's root group.
type File struct {
	eng  Engine
	ids  types.IDGenerator
	log  zerolog.Logger
	root Group
	id   string
}

var _ types.FileBackend = (*File)(nil)

// Open binds an opened engine to the entity model. A fresh engine gets a new
// root header; an existing one must carry a matching format and major
// version or Open fails with types.ErrFormatInvalid. The engine is closed
// when Open fails.
func Open(eng Engine, cfg types.Config) (*File, error) {
	f := &File{
		eng:  eng,
		ids:  ident.Or(cfg.IDs),
		log:  cfg.Log().With().Str("backend", string(eng.Kind())).Str("location", eng.Location()).Logger(),
		root: eng.Root(),
	}

	var err error
	if eng.Fresh() {
		err = f.initHeader()
	} else {
		err = f.checkHeader()
	}
	if err != nil {
		_ = eng.Close()
		return nil, err
	}

	f.log.Debug().Str("id", f.id).Str("mode", eng.Mode().String()).Bool("fresh", eng.Fresh()).Msg("opened root")
	return f, nil
}

func (f *File) initHeader() error {
	if err := f.eng.Check(true); err != nil {
		return err
	}
	f.id = f.ids.NewID()
	now := formatTime(time.Now())
	return setAttrs(f.root,
		attr{attrFormat, types.FormatName},
		attr{attrVersion, types.FormatVersion},
		attr{attrID, f.id},
		attr{attrCreatedAt, now},
		attr{attrUpdatedAt, now},
	)
}

func (f *File) checkHeader() error {
	var format string
	ok, err := f.root.GetAttr(attrFormat, &format)
	if err != nil {
		return err
	}
	if !ok || format != types.FormatName {
		return fmt.Errorf("%w: %s has format %q", types.ErrFormatInvalid, f.eng.Location(), format)
	}

	var version []int
	if ok, err = f.root.GetAttr(attrVersion, &version); err != nil {
		return err
	}
	if !ok || len(version) == 0 || version[0] != types.FormatVersion[0] {
		return fmt.Errorf("%w: %s has version %v", types.ErrFormatInvalid, f.eng.Location(), version)
	}

	if ok, err = f.root.GetAttr(attrID, &f.id); err != nil {
		return err
	}
	if !ok || f.id == "" {
		return fmt.Errorf("%w: %s has no id", types.ErrFormatInvalid, f.eng.Location())
	}
	return nil
}

// newID draws ids until one is unused in coll.
func (f *File) newID(coll Group) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := f.ids.NewID()
		taken, err := coll.HasGroup(id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
		f.log.Debug().Str("id", id).Msg("id collision, retrying")
	}
	return "", fmt.Errorf("no free id in %s after %d attempts", coll.Location(), maxIDAttempts)
}

func (f *File) ID() string { return f.id }
func (f *File) Location() string { return f.eng.Location() }
func (f *File) Mode() types.FileMode { return f.eng.Mode() }
func (f *File) Backend() types.BackendKind { return f.eng.Kind() }
func (f *File) IsOpen() bool { return f.eng.Check(false) == nil }
func (f *File) rootEntity() *entity { return &entity{f: f, g: f.root, id: f.id} }
func (f *File) CreatedAt() (time.Time, error) { return f.rootEntity().CreatedAt() }
func (f *File) UpdatedAt() (time.Time, error) { return f.rootEntity().UpdatedAt() }
func (f *File) SetUpdatedAt() error { return f.rootEntity().SetUpdatedAt() }

func (f *File) ForceCreatedAt(t time.Time) error { return f.rootEntity().ForceCreatedAt(t) }

func (f *File) Format() (string, error) {
	return f.rootEntity().required(attrFormat)
}

func (f *File) Version() ([]int, error) {
	var v []int
	if _, err := f.rootEntity().get(attrVersion, &v); err != nil {
		return nil, err
	}
	return slices.Clone(v), nil
}

func (f *File) Blocks() types.Collection[types.BlockBackend] {
	return f.blocks()
}

func (f *File) blocks() *collection[types.BlockBackend] {
	return newCollection(f, f.root, groupBlocks, func(coll, g Group) types.BlockBackend {
		return newBlock(f, coll, g)
	})
}

func (f *File) CreateBlock(name, typ string) (types.BlockBackend, error) {
	return f.blocks().create(name, typ, true, nil)
}

func (f *File) Sections() types.Collection[types.SectionBackend] {
	return f.sections()
}

func (f *File) sections() *collection[types.SectionBackend] {
	return newCollection(f, f.root, groupSections, func(coll, g Group) types.SectionBackend {
		return newSection(f, coll, g, nil)
	})
}

func (f *File) CreateSection(name, typ string) (types.SectionBackend, error) {
	return f.sections().create(name, typ, true, nil)
}

// Close releases the engine. Idempotent.
func (f *File) Close() error {
	if !f.IsOpen() {
		return nil
	}
	if err := f.eng.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", f.eng.Location(), err)
	}
	f.log.Debug().Str("id", f.id).Msg("closed root")
	return nil
}
