package pandora

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-Node/pandora/pkg/types"
)

func TestOpen(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "x"), ReadWrite, "hdf5")
		assert.ErrorIs(t, err, types.ErrBackendUnknown)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := Open("", ReadWrite, DirectoryTree)
		assert.ErrorIs(t, err, types.ErrPathEmpty)
	})

	eachBackend(t, func(t *testing.T, kind types.BackendKind, path string) {
		_, err := Open(path, ReadOnly, kind)
		assert.ErrorIs(t, err, types.ErrNotFound)

		f, err := Open(path, ReadWrite, kind)
		require.NoError(t, err)
		assert.Equal(t, kind, f.Backend())
		assert.Equal(t, ReadWrite, f.Mode())
		format, err := f.Format()
		require.NoError(t, err)
		assert.Equal(t, "pandora", format)
		_, err = f.CreateBlock("b", "t")
		require.NoError(t, err)
		require.NoError(t, f.Close())

		f, err = Open(path, Overwrite, kind)
		require.NoError(t, err)
		defer f.Close()
		n, err := f.BlockCount()
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestRoundTrip(t *testing.T) {
	eachBackend(t, func(t *testing.T, kind types.BackendKind, path string) {
		f := create(t, kind, path)

		blk, err := f.CreateBlock("session", "recording")
		require.NoError(t, err)
		sec := mustSection(t, f, "subject", "animal")
		child := mustSection(t, sec, "implant", "surgery")
		require.NoError(t, blk.SetMetadata(child.ID()))
		require.NoError(t, sec.SetLink(child))
		_, err = child.CreatePropertyWithValues("depth", types.NewDouble(1.5), types.NewDouble(2))
		require.NoError(t, err)

		want := dump(t, f)
		fileID := f.ID()
		blkCreated, err := blk.CreatedAt()
		require.NoError(t, err)
		secUpdated, err := sec.UpdatedAt()
		require.NoError(t, err)
		require.NoError(t, f.Close())

		f = reopen(t, kind, path, ReadOnly)
		assert.Equal(t, fileID, f.ID())
		assert.Equal(t, want, dump(t, f))

		got, err := f.GetBlock(blk.ID())
		require.NoError(t, err)
		name, err := got.Name()
		require.NoError(t, err)
		assert.Equal(t, "session", name)
		typ, err := got.Type()
		require.NoError(t, err)
		assert.Equal(t, "recording", typ)
		created, err := got.CreatedAt()
		require.NoError(t, err)
		assert.True(t, blkCreated.Equal(created))

		meta, err := got.Metadata()
		require.NoError(t, err)
		require.NotNil(t, meta)
		assert.Equal(t, child.ID(), meta.ID())

		gotSec, err := f.GetSection("subject")
		require.NoError(t, err)
		updated, err := gotSec.UpdatedAt()
		require.NoError(t, err)
		assert.True(t, secUpdated.Equal(updated))
		link, err := gotSec.Link()
		require.NoError(t, err)
		require.NotNil(t, link)
		assert.Equal(t, child.ID(), link.ID())
		parent, err := link.Parent()
		require.NoError(t, err)
		require.NotNil(t, parent)
		assert.Equal(t, sec.ID(), parent.ID())
	})
}

func TestSiblingUniqueness(t *testing.T) {
	eachBackend(t, func(t *testing.T, kind types.BackendKind, path string) {
		f := create(t, kind, path)

		b1, err := f.CreateBlock("b1", "t")
		require.NoError(t, err)
		b2, err := f.CreateBlock("b2", "t")
		require.NoError(t, err)
		_, err = f.CreateBlock("b1", "t")
		assert.ErrorIs(t, err, types.ErrDuplicateName)

		_, err = b1.CreateSource("probe", "t")
		require.NoError(t, err)
		_, err = b2.CreateSource("probe", "t")
		require.NoError(t, err)
		_, err = b1.CreateSource("probe", "t")
		assert.ErrorIs(t, err, types.ErrDuplicateName)

		_, err = b1.CreateDataArray("v", "t", types.Double, 3)
		require.NoError(t, err)
		_, err = b1.CreateDataArray("v", "t", types.Double, 3)
		assert.ErrorIs(t, err, types.ErrDuplicateName)
		_, err = b2.CreateDataArray("v", "t", types.Double, 3)
		require.NoError(t, err)
	})
}

func TestIdempotentDelete(t *testing.T) {
	eachBackend(t, func(t *testing.T, kind types.BackendKind, path string) {
		f := create(t, kind, path)
		sec := mustSection(t, f, "s", "t")
		blk, err := f.CreateBlock("b", "t")
		require.NoError(t, err)

		for _, del := range []func(string) (bool, error){
			f.DeleteBlock, f.DeleteSection, sec.DeleteSection, sec.DeleteProperty,
			blk.DeleteSource, blk.DeleteDataArray, blk.DeleteTag,
		} {
			ok, err := del("nonexistent-id")
			require.NoError(t, err)
			assert.False(t, ok)
		}
	})
}

func TestDeleteCompoundIDs(t *testing.T) {
	eachBackend(t, func(t *testing.T, kind types.BackendKind, path string) {
		f := create(t, kind, path)
		a := mustSection(t, f, "a", "t")
		b := mustSection(t, a, "b", "t")
		c := mustSection(t, b, "c", "t")
		other := mustSection(t, f, "other", "t")
		require.NoError(t, other.SetLink(c))

		blk, err := f.CreateBlock("blk", "t")
		require.NoError(t, err)
		outer, err := blk.CreateSource("outer", "t")
		require.NoError(t, err)
		inner, err := outer.CreateSource("inner", "t")
		require.NoError(t, err)
		_, err = inner.CreateSource("leaf", "t")
		require.NoError(t, err)

		for _, ref := range []string{a.ID() + "/sections/" + b.ID(), "..", "../data/" + blk.ID()} {
			ok, err := f.HasSection(ref)
			require.NoError(t, err, ref)
			assert.False(t, ok, ref)
			_, err = f.GetSection(ref)
			assert.ErrorIs(t, err, types.ErrNotFound, ref)
			ok, err = f.DeleteSection(ref)
			require.NoError(t, err, ref)
			assert.False(t, ok, ref)
		}
		ok, err := blk.DeleteSource(outer.ID() + "/sources/" + inner.ID())
		require.NoError(t, err)
		assert.False(t, ok)

		n, err := b.SectionCount()
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		link, err := other.Link()
		require.NoError(t, err)
		require.NotNil(t, link)
		assert.Equal(t, c.ID(), link.ID())
		n, err = inner.SourceCount()
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestReadOnly(t *testing.T) {
	eachBackend(t, func(t *testing.T, kind types.BackendKind, path string) {
		f := create(t, kind, path)
		blk, err := f.CreateBlock("b", "t")
		require.NoError(t, err)
		src, err := blk.CreateSource("src", "t")
		require.NoError(t, err)
		da, err := blk.CreateDataArray("da", "t", types.Double, 2)
		require.NoError(t, err)
		tag, err := blk.CreateTag("tag", "t", []float64{1})
		require.NoError(t, err)
		a := mustSection(t, f, "a", "t")
		b := mustSection(t, a, "b", "t")
		p, err := a.CreatePropertyWithValues("p", types.NewInt(1))
		require.NoError(t, err)
		ids := map[string]string{
			"blk": blk.ID(), "src": src.ID(), "da": da.ID(), "tag": tag.ID(),
			"a": a.ID(), "b": b.ID(), "p": p.ID(),
		}
		before := dump(t, f)
		require.NoError(t, f.Close())

		var snapshot map[string]string
		if kind == DirectoryTree {
			snapshot = files(t, path)
		}

		f = reopen(t, kind, path, ReadOnly)
		blk, err = f.GetBlock(ids["blk"])
		require.NoError(t, err)
		src, err = blk.GetSource(ids["src"])
		require.NoError(t, err)
		da, err = blk.GetDataArray(ids["da"])
		require.NoError(t, err)
		tag, err = blk.GetTag(ids["tag"])
		require.NoError(t, err)
		a, err = f.GetSection(ids["a"])
		require.NoError(t, err)
		b, err = a.GetSection(ids["b"])
		require.NoError(t, err)
		p, err = a.GetProperty(ids["p"])
		require.NoError(t, err)

		writes := map[string]func() error{
			"create block":    func() error { _, err := f.CreateBlock("x", "t"); return err },
			"create section":  func() error { _, err := f.CreateSection("x", "t"); return err },
			"create child":    func() error { _, err := a.CreateSection("x", "t"); return err },
			"create property": func() error { _, err := a.CreateProperty("x", types.Bool); return err },
			"create source":   func() error { _, err := src.CreateSource("x", "t"); return err },
			"create tag":      func() error { _, err := blk.CreateTag("x", "t", []float64{1}); return err },
			"delete section":  func() error { _, err := f.DeleteSection(ids["a"]); return err },
			"delete child":    func() error { _, err := a.DeleteSection(ids["b"]); return err },
			"delete absent":   func() error { _, err := f.DeleteSection("absent"); return err },
			"delete block":    func() error { _, err := f.DeleteBlock(ids["blk"]); return err },
			"delete source":   func() error { _, err := blk.DeleteSource(ids["src"]); return err },
			"rename":          func() error { return a.SetName("renamed") },
			"set type":        func() error { return blk.SetType("other") },
			"set definition":  func() error { return a.SetDefinition("d") },
			"set link":        func() error { return b.SetLink(a) },
			"clear link":      func() error { return a.ClearLink() },
			"set values":      func() error { return p.SetValues(types.NewInt(2)) },
			"delete values":   func() error { return p.DeleteValues() },
			"write data":      func() error { return da.WriteData([]float64{1, 2}, 2) },
			"add source":      func() error { return da.AddSource(ids["src"]) },
			"add reference":   func() error { return tag.AddReference(ids["da"]) },
			"set metadata":    func() error { return blk.SetMetadata(ids["a"]) },
			"touch root":      func() error { return f.SetUpdatedAt() },
		}
		for name, write := range writes {
			assert.ErrorIs(t, write(), types.ErrReadOnly, name)
		}

		assert.Equal(t, before, dump(t, f))
		require.NoError(t, f.Close())
		if kind == DirectoryTree {
			assert.Equal(t, snapshot, files(t, path))
		}
	})
}

func TestClosedHandles(t *testing.T) {
	eachBackend(t, func(t *testing.T, kind types.BackendKind, path string) {
		f := create(t, kind, path)
		blk, err := f.CreateBlock("b", "t")
		require.NoError(t, err)
		sec := mustSection(t, f, "s", "t")
		p, err := sec.CreateProperty("p", types.String)
		require.NoError(t, err)

		require.NoError(t, f.Close())
		require.NoError(t, f.Close())
		assert.False(t, f.IsOpen())

		_, err = blk.Name()
		assert.ErrorIs(t, err, types.ErrClosed)
		_, err = sec.Sections()
		assert.ErrorIs(t, err, types.ErrClosed)
		_, err = p.Values()
		assert.ErrorIs(t, err, types.ErrClosed)
		_, err = f.CreateSection("x", "t")
		assert.ErrorIs(t, err, types.ErrClosed)
		_, err = f.DeleteSection("s")
		assert.ErrorIs(t, err, types.ErrClosed)
		_, err = sec.InheritedProperties()
		assert.ErrorIs(t, err, types.ErrClosed)
	})
}

// files returns every file below root with its contents.
func files(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		out[rel] = string(raw)
		return nil
	})
	require.NoError(t, err)
	return out
}
