// Package dirtree implements the directory-tree storage engine. Every group
// is a directory, its attributes live in one YAML document named
// "attributes" inside it, and datasets are ".dat" files next to it.
package dirtree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/G-Node/pandora/internal/store"
	"github.com/G-Node/pandora/pkg/types"
)

// AttributesFile is the name of the attribute document in every directory.
const AttributesFile = "attributes"

// dataExt is appended to dataset names.
const dataExt = ".dat"

// Engine is an open directory tree.
type Engine struct {
	mu     sync.Mutex
	path   string
	mode   types.FileMode
	fresh  bool
	closed bool
	log    zerolog.Logger

	// docs caches decoded attribute documents by directory so every handle
	// on the same directory sees the same state.
	docs map[string]map[string]yaml.Node
}

var _ store.Engine = (*Engine)(nil)

// Open opens or creates the directory tree at cfg.Path according to
// cfg.Mode. Overwrite removes anything at the path first. ReadOnly on a
// missing path returns types.ErrNotFound. A path that exists but is not a
// directory returns types.ErrFormatInvalid.
func Open(cfg types.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	path, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		path: path,
		mode: cfg.Mode,
		log:  cfg.Log().With().Str("engine", "dirtree").Logger(),
		docs: make(map[string]map[string]yaml.Node),
	}

	if cfg.Mode == types.Overwrite {
		if err := os.RemoveAll(path); err != nil {
			return nil, fmt.Errorf("removing %s: %w", path, err)
		}
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if cfg.Mode == types.ReadOnly {
			return nil, fmt.Errorf("%w: %s", types.ErrNotFound, path)
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", path, err)
		}
		e.fresh = true
	case err != nil:
		return nil, fmt.Errorf("opening %s: %w", path, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s is not a directory", types.ErrFormatInvalid, path)
	default:
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		e.fresh = len(entries) == 0 && cfg.Mode != types.ReadOnly
	}

	e.log.Debug().Str("path", path).Bool("fresh", e.fresh).Msg("opened directory tree")
	return e, nil
}

func (e *Engine) Root() store.Group { return &group{e: e, dir: e.path} }
func (e *Engine) Kind() types.BackendKind { return types.BackendDirectoryTree }
func (e *Engine) Location() string { return e.path }
func (e *Engine) Mode() types.FileMode { return e.mode }
func (e *Engine) Fresh() bool { return e.fresh }

func (e *Engine) Check(write bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.checkLocked(write)
}

func (e *Engine) checkLocked(write bool) error {
	if e.closed {
		return types.ErrClosed
	}
	if write && e.mode == types.ReadOnly {
		return types.ErrReadOnly
	}
	return nil
}

// Close drops the attribute cache. Every attribute document is already on
// disk, so there is nothing to flush. Idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	e.docs = nil
	e.log.Debug().Str("path", e.path).Msg("closed directory tree")
	return nil
}

// doc returns the attribute document of dir, loading it on first access.
// The caller must hold e.mu.
func (e *Engine) doc(dir string) (map[string]yaml.Node, error) {
	if d, ok := e.docs[dir]; ok {
		return d, nil
	}
	d := make(map[string]yaml.Node)
	raw, err := os.ReadFile(filepath.Join(dir, AttributesFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading attributes of %s: %w", dir, err)
	default:
		if err := yaml.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("%w: attributes of %s: %v", types.ErrFormatInvalid, dir, err)
		}
		if d == nil {
			d = make(map[string]yaml.Node)
		}
	}
	e.docs[dir] = d
	return d, nil
}

// persist rewrites the whole attribute document of dir.
// The caller must hold e.mu.
func (e *Engine) persist(dir string, d map[string]yaml.Node) error {
	raw, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding attributes of %s: %w", dir, err)
	}
	return writeFileAtomic(filepath.Join(dir, AttributesFile), raw)
}

// forget drops cached documents of dir and everything below it.
// The caller must hold e.mu.
func (e *Engine) forget(dir string) {
	prefix := dir + string(filepath.Separator)
	for k := range e.docs {
		if k == dir || strings.HasPrefix(k, prefix) {
			delete(e.docs, k)
		}
	}
}
