package dirtree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/G-Node/pandora/internal/store"
	"github.com/G-Node/pandora/pkg/types"
)

// group is a directory of the tree.
type group struct {
	e   *Engine
	dir string
}

var _ store.Group = (*group)(nil)

func (g *group) Location() string { return g.dir }

// child returns the path of the named entry. name must be a single path
// element so that no lookup leaves g.
func (g *group) child(name string) (string, error) {
	if err := store.CheckGroupName(name); err != nil {
		return "", err
	}
	return filepath.Join(g.dir, name), nil
}

// isDir reports whether path is an existing directory.
func isDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (g *group) HasGroup(name string) (bool, error) {
	g.e.mu.Lock()
	defer g.e.mu.Unlock()

	if err := g.e.checkLocked(false); err != nil {
		return false, err
	}
	path, err := g.child(name)
	if err != nil {
		return false, nil
	}
	return isDir(path)
}

func (g *group) OpenGroup(name string, create bool) (store.Group, error) {
	g.e.mu.Lock()
	defer g.e.mu.Unlock()

	if err := g.e.checkLocked(false); err != nil {
		return nil, err
	}
	path, err := g.child(name)
	if err != nil {
		return nil, err
	}
	ok, err := isDir(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		if !create {
			return nil, fmt.Errorf("%w: %s", types.ErrNotFound, path)
		}
		if err := g.e.checkLocked(true); err != nil {
			return nil, err
		}
		if err := os.Mkdir(path, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return &group{e: g.e, dir: path}, nil
}

func (g *group) RemoveGroup(name string) (bool, error) {
	g.e.mu.Lock()
	defer g.e.mu.Unlock()

	if err := g.e.checkLocked(true); err != nil {
		return false, err
	}
	path, err := g.child(name)
	if err != nil {
		return false, err
	}
	ok, err := isDir(path)
	if err != nil || !ok {
		return false, err
	}
	if err := os.RemoveAll(path); err != nil {
		return false, fmt.Errorf("removing %s: %w", path, err)
	}
	g.e.forget(path)
	g.e.log.Debug().Str("dir", path).Msg("removed directory")
	return true, nil
}

func (g *group) GroupNames() ([]string, error) {
	g.e.mu.Lock()
	defer g.e.mu.Unlock()

	if err := g.e.checkLocked(false); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(g.dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", g.dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (g *group) HasAttr(key string) (bool, error) {
	g.e.mu.Lock()
	defer g.e.mu.Unlock()

	if err := g.e.checkLocked(false); err != nil {
		return false, err
	}
	d, err := g.e.doc(g.dir)
	if err != nil {
		return false, err
	}
	_, ok := d[key]
	return ok, nil
}

func (g *group) GetAttr(key string, dst any) (bool, error) {
	g.e.mu.Lock()
	defer g.e.mu.Unlock()

	if err := g.e.checkLocked(false); err != nil {
		return false, err
	}
	d, err := g.e.doc(g.dir)
	if err != nil {
		return false, err
	}
	n, ok := d[key]
	if !ok {
		return false, nil
	}
	if err := n.Decode(dst); err != nil {
		return false, fmt.Errorf("%w: %s in %s: %v", types.ErrFormatInvalid, key, g.dir, err)
	}
	return true, nil
}

func (g *group) SetAttr(key string, value any) error {
	g.e.mu.Lock()
	defer g.e.mu.Unlock()

	if err := g.e.checkLocked(true); err != nil {
		return err
	}
	d, err := g.e.doc(g.dir)
	if err != nil {
		return err
	}
	var n yaml.Node
	if err := n.Encode(value); err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	prev, had := d[key]
	d[key] = n
	if err := g.e.persist(g.dir, d); err != nil {
		if had {
			d[key] = prev
		} else {
			delete(d, key)
		}
		return err
	}
	return nil
}

func (g *group) RemoveAttr(key string) error {
	g.e.mu.Lock()
	defer g.e.mu.Unlock()

	if err := g.e.checkLocked(true); err != nil {
		return err
	}
	d, err := g.e.doc(g.dir)
	if err != nil {
		return err
	}
	prev, ok := d[key]
	if !ok {
		return nil
	}
	delete(d, key)
	if err := g.e.persist(g.dir, d); err != nil {
		d[key] = prev
		return err
	}
	return nil
}

func (g *group) ReadData(name string) ([]byte, bool, error) {
	g.e.mu.Lock()
	defer g.e.mu.Unlock()

	if err := g.e.checkLocked(false); err != nil {
		return nil, false, err
	}
	path, err := g.child(name + dataExt)
	if err != nil {
		return nil, false, err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading dataset %s in %s: %w", name, g.dir, err)
	}
	return raw, true, nil
}

func (g *group) WriteData(name string, data []byte) error {
	g.e.mu.Lock()
	defer g.e.mu.Unlock()

	if err := g.e.checkLocked(true); err != nil {
		return err
	}
	path, err := g.child(name + dataExt)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}
