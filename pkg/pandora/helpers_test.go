package pandora

import (
	"fmt"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/G-Node/pandora/pkg/ident"
	"github.com/G-Node/pandora/pkg/types"
)

var kinds = []types.BackendKind{ContainerFile, DirectoryTree}

// eachBackend runs fn once per engine with a path for a new root.
func eachBackend(t *testing.T, fn func(t *testing.T, kind types.BackendKind, path string)) {
	t.Helper()
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			fn(t, kind, filepath.Join(t.TempDir(), "root"))
		})
	}
}

// create opens a fresh writable root that is closed when the test ends.
func create(t *testing.T, kind types.BackendKind, path string) *File {
	t.Helper()
	f, err := Open(path, Overwrite, kind, WithIDGenerator(ident.NewSeeded(1)))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func reopen(t *testing.T, kind types.BackendKind, path string, mode types.FileMode) *File {
	t.Helper()
	f, err := Open(path, mode, kind)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func mustSection(t *testing.T, parent interface {
	CreateSection(name, typ string) (*Section, error)
}, name, typ string) *Section {
	t.Helper()
	s, err := parent.CreateSection(name, typ)
	require.NoError(t, err)
	return s
}

func names[T Node](t *testing.T, nodes []T) []string {
	t.Helper()
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		name, err := n.Name()
		require.NoError(t, err)
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func propertyNames(t *testing.T, props []*Property) []string {
	t.Helper()
	out := make([]string, 0, len(props))
	for _, p := range props {
		name, err := p.Name()
		require.NoError(t, err)
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// dump renders the logical content of a root as sorted lines, so two roots
// can be compared independently of their engine.
func dump(t *testing.T, f *File) []string {
	t.Helper()
	var lines []string
	add := func(format string, args ...any) { lines = append(lines, fmt.Sprintf(format, args...)) }

	blocks, err := f.Blocks()
	require.NoError(t, err)
	for _, b := range blocks {
		name, _ := b.Name()
		typ, _ := b.Type()
		add("block %s %s %s", b.ID(), name, typ)
		sources, err := b.FindSources(AcceptAll, Unbounded)
		require.NoError(t, err)
		for _, s := range sources {
			name, _ := s.Name()
			add("source %s %s", s.ID(), name)
		}
	}

	sections, err := f.FindSections(AcceptAll, Unbounded)
	require.NoError(t, err)
	for _, s := range sections {
		name, _ := s.Name()
		typ, _ := s.Type()
		link, _, _ := s.b.LinkID()
		add("section %s %s %s link=%s", s.ID(), name, typ, link)
		props, err := s.Properties()
		require.NoError(t, err)
		for _, p := range props {
			name, _ := p.Name()
			values, err := p.Values()
			require.NoError(t, err)
			add("property %s %s %v", p.ID(), name, values)
		}
	}
	sort.Strings(lines)
	return lines
}
