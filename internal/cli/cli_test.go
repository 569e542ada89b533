package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/G-Node/pandora/pkg/types"
)

// env is an isolated config and data directory pair.
type env struct {
	configDir string
	dataDir   string
	backend   types.BackendKind
}

func newEnv(t *testing.T, backend types.BackendKind) *env {
	t.Helper()
	dir := t.TempDir()
	return &env{
		configDir: filepath.Join(dir, "config"),
		dataDir:   filepath.Join(dir, "data"),
		backend:   backend,
	}
}

// run executes one command line and returns stdout.
func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	global := []string{"--config-dir", e.configDir, "--data-dir", e.dataDir}
	if e.backend != "" {
		global = append(global, "--backend", string(e.backend))
	}
	root.SetArgs(append(global, args...))
	err := root.Execute()
	return out.String(), err
}

func (e *env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, strings.Join(args, " "))
	return out
}

func (e *env) runJSON(t *testing.T, dst any, args ...string) {
	t.Helper()
	out := e.mustRun(t, append([]string{"--json"}, args...)...)
	require.NoError(t, json.Unmarshal([]byte(out), dst), out)
}

func eachBackend(t *testing.T, fn func(t *testing.T, e *env)) {
	for _, kind := range []types.BackendKind{types.BackendContainerFile, types.BackendDirectoryTree} {
		t.Run(string(kind), func(t *testing.T) { fn(t, newEnv(t, kind)) })
	}
}

func TestVersion(t *testing.T) {
	out := newEnv(t, "").mustRun(t, "version")
	assert.Contains(t, out, "pandora v")
	assert.Contains(t, out, "module: github.com/G-Node/pandora")
	assert.Contains(t, out, "format: pandora 1.0.0")
}

func TestInit(t *testing.T) {
	eachBackend(t, func(t *testing.T, e *env) {
		var res struct {
			Config  string `json:"config"`
			DataDir string `json:"data_dir"`
			Roots   []struct {
				Root string `json:"root"`
				ID   string `json:"id"`
			} `json:"roots"`
		}
		e.runJSON(t, &res, "init", "session")
		require.Len(t, res.Roots, 1)
		assert.NotEmpty(t, res.Roots[0].ID)
		assert.Equal(t, e.dataDir, res.DataDir)

		raw, err := os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
		require.NoError(t, err)
		var cfg configFile
		require.NoError(t, yaml.Unmarshal(raw, &cfg))
		assert.Equal(t, string(e.backend), cfg.Backend)
		assert.Equal(t, e.dataDir, cfg.DataDir)
		assert.Equal(t, "warn", cfg.LogLevel)

		var again struct {
			Roots []struct {
				ID string `json:"id"`
			} `json:"roots"`
		}
		e.runJSON(t, &again, "init", "session")
		require.Len(t, again.Roots, 1)
		assert.Equal(t, res.Roots[0].ID, again.Roots[0].ID, "init keeps existing roots")

		out := e.mustRun(t, "init")
		assert.Contains(t, out, "Pandora initialized successfully")
	})
}

func TestConfigFileSelectsBackend(t *testing.T) {
	e := newEnv(t, "")
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	cfg := "backend: dirtree\nlog_level: error\n"
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte(cfg), 0o644))

	e.mustRun(t, "block", "create", "session", "b", "recording")
	info, err := os.Stat(filepath.Join(e.dataDir, "session"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	e.backend = types.BackendContainerFile
	e.mustRun(t, "block", "create", "session", "b", "recording")
	_, err = os.Stat(filepath.Join(e.dataDir, "session.pandora.db"))
	assert.NoError(t, err, "the flag overrides config.yaml")
}

func TestSectionCommands(t *testing.T) {
	eachBackend(t, func(t *testing.T, e *env) {
		e.mustRun(t, "section", "create", "r", "subject", "animal")
		e.mustRun(t, "section", "create", "r", "subject/implant", "surgery")
		e.mustRun(t, "section", "create", "r", "other", "notes")
		out := e.mustRun(t, "section", "link", "r", "other", "subject/implant")
		assert.Contains(t, out, "Linked")

		e.mustRun(t, "property", "set", "r", "subject/implant", "depth", "1.5", "2", "--type", "double", "--unit", "mm")
		e.mustRun(t, "property", "set", "r", "subject", "name", "Mickey")
		e.mustRun(t, "property", "set", "r", "subject/implant", "depth", "3")

		var tree struct {
			Sections []*treeNode `json:"sections"`
		}
		e.runJSON(t, &tree, "tree", "r")
		require.Len(t, tree.Sections, 2)
		byName := map[string]*treeNode{}
		for _, n := range tree.Sections {
			byName[n.Name] = n
		}
		subject, other := byName["subject"], byName["other"]
		require.NotNil(t, subject)
		require.NotNil(t, other)

		var implant *treeNode
		var name *treeNode
		for _, c := range subject.Children {
			switch c.Name {
			case "implant":
				implant = c
			case "name":
				name = c
			}
		}
		require.NotNil(t, implant)
		require.NotNil(t, name)
		assert.Equal(t, []string{"Mickey"}, name.Values)
		assert.Equal(t, "string", name.Type)
		require.Len(t, implant.Children, 1)
		assert.Equal(t, []string{"3"}, implant.Children[0].Values)
		assert.Equal(t, "double", implant.Children[0].Type)
		assert.Equal(t, implant.ID, other.Link)

		out = e.mustRun(t, "tree", "r")
		assert.Contains(t, out, "section other (notes) "+other.ID+" -> "+implant.ID)

		e.mustRun(t, "section", "delete", "r", "subject")
		var after struct {
			Sections []*treeNode `json:"sections"`
		}
		e.runJSON(t, &after, "tree", "r")
		require.Len(t, after.Sections, 1)
		assert.Empty(t, after.Sections[0].Link, "deleting the target clears the link")

		_, err := e.run(t, "section", "delete", "r", "subject")
		assert.Equal(t, exitUserError, exitCode(err))

		e.mustRun(t, "section", "create", "r", "target", "t")
		e.mustRun(t, "section", "link", "r", "other", "target")
		out = e.mustRun(t, "section", "link", "r", "other")
		assert.Contains(t, out, "Cleared link")
	})
}

func TestInfo(t *testing.T) {
	eachBackend(t, func(t *testing.T, e *env) {
		e.mustRun(t, "block", "create", "r", "b1", "recording")
		e.mustRun(t, "block", "create", "r", "b2", "recording")
		e.mustRun(t, "section", "create", "r", "s", "t")
		e.mustRun(t, "section", "create", "r", "s/c", "t")

		var info rootInfo
		e.runJSON(t, &info, "info", "r")
		assert.Equal(t, "pandora", info.Format)
		assert.Equal(t, []int{1, 0, 0}, info.Version)
		assert.Equal(t, string(e.backend), info.Backend)
		assert.Equal(t, 2, info.Blocks)
		assert.Equal(t, 2, info.Sections)
		assert.NotEmpty(t, info.ID)

		out := e.mustRun(t, "info", "r")
		assert.Contains(t, out, "Blocks:    2")
	})
}

func TestValidateCommand(t *testing.T) {
	eachBackend(t, func(t *testing.T, e *env) {
		e.mustRun(t, "section", "create", "r", "s", "t")
		out := e.mustRun(t, "validate", "r")
		assert.Contains(t, out, "0 errors, 0 warnings")

		e.mustRun(t, "section", "link", "r", "s", "s")
		var res struct {
			OK       bool     `json:"ok"`
			Errors   []string `json:"errors"`
			Warnings []string `json:"warnings"`
		}
		e.runJSON(t, &res, "validate", "r")
		assert.True(t, res.OK)
		assert.Empty(t, res.Errors)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "links to itself")
	})
}

func TestExitCodes(t *testing.T) {
	e := newEnv(t, types.BackendContainerFile)
	e.mustRun(t, "section", "create", "r", "s", "t")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "missing root", args: []string{"info", "nope"}, want: exitUserError},
		{name: "duplicate section", args: []string{"section", "create", "r", "s", "t"}, want: exitUserError},
		{name: "missing parent", args: []string{"section", "create", "r", "x/y", "t"}, want: exitUserError},
		{name: "invalid name", args: []string{"section", "create", "r", "..", "t"}, want: exitUserError},
		{name: "value type mismatch", args: []string{"property", "set", "r", "s", "n", "abc", "--type", "int64"}, want: exitUserError},
		{name: "unknown data type", args: []string{"property", "set", "r", "s", "n", "1", "--type", "complex"}, want: exitUserError},
		{name: "unknown backend", args: []string{"--backend", "hdf5", "info", "r"}, want: exitUserError},
		{name: "bad log level", args: []string{"--log-level", "loud", "info", "r"}, want: exitUserError},
		{name: "wrong arg count", args: []string{"info"}, want: exitUserError},
		{name: "unknown command", args: []string{"frobnicate"}, want: exitUserError},
		{name: "success", args: []string{"info", "r"}, want: exitSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.run(t, tt.args...)
			assert.Equal(t, tt.want, exitCode(err), "%v", err)
		})
	}
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitPath("/a//b/"))
	assert.Empty(t, splitPath(""))
}

func TestParseValues(t *testing.T) {
	values, err := parseValues(types.UInt64, []string{"18446744073709551615", "0"})
	require.NoError(t, err)
	u, err := values[0].Uint()
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), u)

	values, err = parseValues(types.Bool, []string{"true", "0"})
	require.NoError(t, err)
	assert.Equal(t, "true", values[0].String())
	assert.Equal(t, "false", values[1].String())

	_, err = parseValues(types.Double, []string{"x"})
	assert.ErrorIs(t, err, types.ErrTypeMismatch)
}
