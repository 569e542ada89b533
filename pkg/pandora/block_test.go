package pandora

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-Node/pandora/pkg/ident"
	"github.com/G-Node/pandora/pkg/types"
)

func TestSourceTree(t *testing.T) {
	eachBackend(t, func(t *testing.T, kind types.BackendKind, path string) {
		f := create(t, kind, path)
		blk, err := f.CreateBlock("b", "session")
		require.NoError(t, err)
		other, err := f.CreateBlock("other", "session")
		require.NoError(t, err)

		s1, err := blk.CreateSource("s1", "subject")
		require.NoError(t, err)
		s11, err := s1.CreateSource("s11", "electrode")
		require.NoError(t, err)
		s111, err := s11.CreateSource("s111", "channel")
		require.NoError(t, err)
		s2, err := blk.CreateSource("s2", "subject")
		require.NoError(t, err)
		foreign, err := other.CreateSource("foreign", "subject")
		require.NoError(t, err)

		found, err := blk.FindSources(AcceptAll, Unbounded)
		require.NoError(t, err)
		assert.Equal(t, []string{"s1", "s11", "s111", "s2"}, names(t, found))
		found, err = blk.FindSources(AcceptAll, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"s1", "s11", "s2"}, names(t, found))
		found, err = s1.FindSources(TypeFilter("channel"), Unbounded)
		require.NoError(t, err)
		assert.Equal(t, []string{"s111"}, names(t, found))
		assert.Equal(t, blk.ID(), s111.Block().ID())

		da, err := blk.CreateDataArray("da", "trace", types.Double, 0)
		require.NoError(t, err)
		require.NoError(t, da.AddSource(s111.ID()))
		require.NoError(t, da.AddSource(s2.ID()))
		require.NoError(t, da.AddSource(s2.ID()))
		assert.ErrorIs(t, da.AddSource(foreign.ID()), types.ErrNotFound)
		assert.ErrorIs(t, da.AddSource("missing"), types.ErrNotFound)

		ids, err := da.SourceIDs()
		require.NoError(t, err)
		assert.Equal(t, []string{s111.ID(), s2.ID()}, ids)

		ok, err := blk.DeleteSource("s1")
		require.NoError(t, err)
		assert.True(t, ok)
		found, err = blk.FindSources(AcceptAll, Unbounded)
		require.NoError(t, err)
		assert.Equal(t, []string{"s2"}, names(t, found))

		sources, err := da.Sources()
		require.NoError(t, err)
		assert.Equal(t, []string{"s2"}, names(t, sources))
		ids, err = da.SourceIDs()
		require.NoError(t, err)
		assert.Len(t, ids, 2, "deleting a source leaves the reference dangling")

		ok, err = da.RemoveSource(s111.ID())
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = da.RemoveSource(s111.ID())
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = blk.DeleteSource("s1")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestDataArray(t *testing.T) {
	eachBackend(t, func(t *testing.T, kind types.BackendKind, path string) {
		f := create(t, kind, path)
		blk, err := f.CreateBlock("b", "session")
		require.NoError(t, err)

		_, err = blk.CreateDataArray("bad", "t", types.Nothing)
		assert.ErrorIs(t, err, types.ErrInvalidDataType)
		_, err = blk.CreateDataArray("bad", "t", types.Double, -1)
		assert.ErrorIs(t, err, types.ErrInvalidShape)

		da, err := blk.CreateDataArray("voltage", "trace", types.Double, 2, 3)
		require.NoError(t, err)
		data, err := da.ReadData()
		require.NoError(t, err)
		assert.Empty(t, data)

		assert.ErrorIs(t, da.WriteData([]float64{1, 2, 3}, 2, 3), types.ErrInvalidShape)
		require.NoError(t, da.WriteData([]float64{1, 2, 3, 4, 5, 6}, 3, 2))
		require.NoError(t, da.SetUnit("mV"))
		require.NoError(t, da.SetLabel("voltage"))
		assert.Equal(t, blk.ID(), da.Block().ID())
		require.NoError(t, f.Close())

		f = reopen(t, kind, path, ReadOnly)
		blk, err = f.GetBlock("b")
		require.NoError(t, err)
		da, err = blk.GetDataArray("voltage")
		require.NoError(t, err)
		data, err = da.ReadData()
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, data)
		shape, err := da.Shape()
		require.NoError(t, err)
		assert.Equal(t, []int{3, 2}, shape)
		dt, err := da.DataType()
		require.NoError(t, err)
		assert.Equal(t, types.Double, dt)
		unit, ok, err := da.Unit()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "mV", unit)
	})
}

func TestTagReferences(t *testing.T) {
	eachBackend(t, func(t *testing.T, kind types.BackendKind, path string) {
		f := create(t, kind, path)
		blk, err := f.CreateBlock("b", "session")
		require.NoError(t, err)
		da, err := blk.CreateDataArray("da", "trace", types.Double, 0)
		require.NoError(t, err)

		_, err = blk.CreateTag("empty", "t", nil)
		assert.ErrorIs(t, err, types.ErrInvalidShape)

		tag, err := blk.CreateTag("stimulus", "event", []float64{1.5, 2})
		require.NoError(t, err)
		require.NoError(t, tag.SetExtent([]float64{0.5, 0.5}))
		require.NoError(t, tag.AddReference("da"))
		require.NoError(t, tag.AddReference(da.ID()))
		assert.ErrorIs(t, tag.AddReference("missing"), types.ErrNotFound)

		refs, err := tag.References()
		require.NoError(t, err)
		require.Len(t, refs, 1)
		assert.Equal(t, da.ID(), refs[0].ID())

		pos, err := tag.Position()
		require.NoError(t, err)
		assert.Equal(t, []float64{1.5, 2}, pos)

		ok, err := blk.DeleteDataArray("da")
		require.NoError(t, err)
		assert.True(t, ok)
		refs, err = tag.References()
		require.NoError(t, err)
		assert.Empty(t, refs)
		ids, err := tag.ReferenceIDs()
		require.NoError(t, err)
		assert.Equal(t, []string{da.ID()}, ids)

		ok, err = tag.RemoveReference(da.ID())
		require.NoError(t, err)
		assert.True(t, ok)
		ids, err = tag.ReferenceIDs()
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestMetadataReference(t *testing.T) {
	eachBackend(t, func(t *testing.T, kind types.BackendKind, path string) {
		f := create(t, kind, path)
		blk, err := f.CreateBlock("b", "session")
		require.NoError(t, err)
		src, err := blk.CreateSource("s", "subject")
		require.NoError(t, err)
		sec := mustSection(t, f, "subject", "animal")
		deep := mustSection(t, sec, "implant", "surgery")

		meta, err := blk.Metadata()
		require.NoError(t, err)
		assert.Nil(t, meta)

		assert.ErrorIs(t, blk.SetMetadata("missing"), types.ErrNotFound)
		require.NoError(t, blk.SetMetadata(deep.ID()))
		require.NoError(t, src.SetMetadata(sec.ID()))

		meta, err = blk.Metadata()
		require.NoError(t, err)
		require.NotNil(t, meta)
		assert.Equal(t, deep.ID(), meta.ID())

		_, err = f.DeleteSection("subject")
		require.NoError(t, err)
		meta, err = src.Metadata()
		require.NoError(t, err)
		assert.Nil(t, meta, "a reference to a deleted section resolves to nothing")

		require.NoError(t, src.ClearMetadata())
		require.NoError(t, src.ClearMetadata())
	})
}

func TestDeleteBlock(t *testing.T) {
	eachBackend(t, func(t *testing.T, kind types.BackendKind, path string) {
		f := create(t, kind, path)
		blk, err := f.CreateBlock("b", "session")
		require.NoError(t, err)
		s, err := blk.CreateSource("s", "t")
		require.NoError(t, err)
		_, err = s.CreateSource("child", "t")
		require.NoError(t, err)
		_, err = blk.CreateDataArray("da", "t", types.Int64, 0)
		require.NoError(t, err)

		ok, err := f.DeleteBlock("b")
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = f.HasBlock(blk.ID())
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = f.CreateBlock("b", "session")
		require.NoError(t, err, "the name is free again")
	})
}

func TestSeededIDs(t *testing.T) {
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			var ids [2][]string
			for i := range ids {
				path := filepath.Join(t.TempDir(), "root")
				f, err := Open(path, Overwrite, kind, WithIDGenerator(ident.NewSeeded(42)))
				require.NoError(t, err)
				b, err := f.CreateBlock("b", "t")
				require.NoError(t, err)
				s, err := f.CreateSection("s", "t")
				require.NoError(t, err)
				ids[i] = []string{f.ID(), b.ID(), s.ID()}
				require.NoError(t, f.Close())
			}
			assert.Equal(t, ids[0], ids[1])
			for _, id := range ids[0] {
				assert.True(t, ident.IsID(id), id)
			}
		})
	}
}
