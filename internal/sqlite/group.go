package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/G-Node/pandora/internal/store"
	"github.com/G-Node/pandora/pkg/types"
)

// group is a row of the groups table.
type group struct {
	e    *Engine
	path string
}

var _ store.Group = (*group)(nil)

func (g *group) Location() string { return g.e.path + ":" + g.path }

// child returns the path of the named child group. name must be a single
// path element so that no lookup leaves g.
func (g *group) child(name string) (string, error) {
	if err := store.CheckGroupName(name); err != nil {
		return "", err
	}
	if g.path == rootPath {
		return rootPath + name, nil
	}
	return g.path + "/" + name, nil
}

// exists reports whether a group row exists. The caller must hold g.e.mu.
func (g *group) exists(path string) (bool, error) {
	var n int
	if err := g.e.db.QueryRow("SELECT COUNT(*) FROM groups WHERE path = ?", path).Scan(&n); err != nil {
		return false, fmt.Errorf("looking up %s: %w", path, err)
	}
	return n > 0, nil
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
	return g.exists(path)
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
	ok, err := g.exists(path)
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
		if _, err := g.e.db.Exec(
			"INSERT INTO groups (path, parent, name) VALUES (?, ?, ?)",
			path, g.path, name,
		); err != nil {
			return nil, fmt.Errorf("creating group %s: %w", path, err)
		}
	}
	return &group{e: g.e, path: path}, nil
}

// RemoveGroup deletes the group and every group below it in one
// transaction.
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
	ok, err := g.exists(path)
	if err != nil || !ok {
		return false, err
	}

	prefix := path + "/"
	tx, err := g.e.db.Begin()
	if err != nil {
		return false, err
	}
	for _, table := range []string{"datasets", "attributes", "groups"} {
		if _, err := tx.Exec(
			"DELETE FROM "+table+" WHERE path = ? OR substr(path, 1, ?) = ?",
			path, len(prefix), prefix,
		); err != nil {
			tx.Rollback()
			return false, fmt.Errorf("removing %s from %s: %w", path, table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("removing %s: %w", path, err)
	}
	g.e.log.Debug().Str("group", path).Msg("removed group")
	return true, nil
}

func (g *group) GroupNames() ([]string, error) {
	g.e.mu.Lock()
	defer g.e.mu.Unlock()

	if err := g.e.checkLocked(false); err != nil {
		return nil, err
	}
	rows, err := g.e.db.Query("SELECT name FROM groups WHERE parent = ? ORDER BY name", g.path)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", g.path, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (g *group) HasAttr(key string) (bool, error) {
	g.e.mu.Lock()
	defer g.e.mu.Unlock()

	if err := g.e.checkLocked(false); err != nil {
		return false, err
	}
	var n int
	if err := g.e.db.QueryRow(
		"SELECT COUNT(*) FROM attributes WHERE path = ? AND key = ?", g.path, key,
	).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (g *group) GetAttr(key string, dst any) (bool, error) {
	g.e.mu.Lock()
	defer g.e.mu.Unlock()

	if err := g.e.checkLocked(false); err != nil {
		return false, err
	}
	var raw string
	err := g.e.db.QueryRow(
		"SELECT value FROM attributes WHERE path = ? AND key = ?", g.path, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s of %s: %w", key, g.path, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("%w: %s of %s: %v", types.ErrFormatInvalid, key, g.path, err)
	}
	return true, nil
}

func (g *group) SetAttr(key string, value any) error {
	g.e.mu.Lock()
	defer g.e.mu.Unlock()

	if err := g.e.checkLocked(true); err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if _, err := g.e.db.Exec(`
		INSERT INTO attributes (path, key, value) VALUES (?, ?, ?)
		ON CONFLICT (path, key) DO UPDATE SET value = excluded.value`,
		g.path, key, string(raw),
	); err != nil {
		return fmt.Errorf("writing %s of %s: %w", key, g.path, err)
	}
	return nil
}

func (g *group) RemoveAttr(key string) error {
	g.e.mu.Lock()
	defer g.e.mu.Unlock()

	if err := g.e.checkLocked(true); err != nil {
		return err
	}
	if _, err := g.e.db.Exec("DELETE FROM attributes WHERE path = ? AND key = ?", g.path, key); err != nil {
		return fmt.Errorf("removing %s of %s: %w", key, g.path, err)
	}
	return nil
}

func (g *group) ReadData(name string) ([]byte, bool, error) {
	g.e.mu.Lock()
	defer g.e.mu.Unlock()

	if err := g.e.checkLocked(false); err != nil {
		return nil, false, err
	}
	var data []byte
	err := g.e.db.QueryRow(
		"SELECT data FROM datasets WHERE path = ? AND name = ?", g.path, name,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading dataset %s of %s: %w", name, g.path, err)
	}
	return data, true, nil
}

func (g *group) WriteData(name string, data []byte) error {
	g.e.mu.Lock()
	defer g.e.mu.Unlock()

	if err := g.e.checkLocked(true); err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}
	if _, err := g.e.db.Exec(`
		INSERT INTO datasets (path, name, data) VALUES (?, ?, ?)
		ON CONFLICT (path, name) DO UPDATE SET data = excluded.data`,
		g.path, name, data,
	); err != nil {
		return fmt.Errorf("writing dataset %s of %s: %w", name, g.path, err)
	}
	return nil
}
