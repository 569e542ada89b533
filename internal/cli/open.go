package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/G-Node/pandora/internal/paths"
	"github.com/G-Node/pandora/pkg/pandora"
	"github.com/G-Node/pandora/pkg/types"
)

// openRoot resolves ref against the data directory and opens it. Writable
// modes create the data directory first.
func (a *app) openRoot(ref string, mode types.FileMode) (*pandora.File, error) {
	dataDir, err := a.dataDir()
	if err != nil {
		return nil, fail("resolve data dir", err)
	}
	if mode != types.ReadOnly {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fail("create data dir", err)
		}
	}
	path := paths.RootPath(dataDir, ref, a.backend())
	f, err := pandora.Open(path, mode, a.backend(), pandora.WithLogger(a.log))
	if err != nil {
		return nil, fail("open "+ref, err)
	}
	a.log.Debug().Str("path", path).Stringer("mode", mode).Msg("opened root")
	return f, nil
}

// withRoot opens ref, runs fn and closes the root, keeping the first error.
func (a *app) withRoot(ref string, mode types.FileMode, fn func(f *pandora.File) error) error {
	f, err := a.openRoot(ref, mode)
	if err != nil {
		return err
	}
	err = fn(f)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = fail("close "+ref, cerr)
	}
	return err
}

// splitPath splits a slash-separated section path. Empty segments are
// dropped so "a//b/" equals "a/b".
func splitPath(path string) []string {
	var out []string
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// sectionAt walks a section path from the top level. Each segment is a
// name or an id.
func sectionAt(f *pandora.File, path string) (*pandora.Section, error) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, fail("section path", fmt.Errorf("%w: empty path", types.ErrInvalidName))
	}
	s, err := f.GetSection(parts[0])
	if err != nil {
		return nil, fail("section "+path, err)
	}
	for _, part := range parts[1:] {
		if s, err = s.GetSection(part); err != nil {
			return nil, fail("section "+path, err)
		}
	}
	return s, nil
}

// sectionParent resolves everything but the last segment of path. A nil
// section means the parent is the root itself.
func sectionParent(f *pandora.File, path string) (*pandora.Section, string, error) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, "", fail("section path", fmt.Errorf("%w: empty path", types.ErrInvalidName))
	}
	last := parts[len(parts)-1]
	if len(parts) == 1 {
		return nil, last, nil
	}
	parent, err := sectionAt(f, strings.Join(parts[:len(parts)-1], "/"))
	return parent, last, err
}

// printJSON writes v as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fail("marshal JSON", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
