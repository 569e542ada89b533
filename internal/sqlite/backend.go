// Package sqlite implements the container-file storage engine: the whole
// root lives in one SQLite file holding named groups, group attributes and
// binary datasets.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/G-Node/pandora/internal/store"
	"github.com/G-Node/pandora/pkg/types"
)

// Engine is an open container file.
type Engine struct {
	mu    sync.Mutex
	db    *sql.DB
	path  string
	mode  types.FileMode
	fresh bool
	log   zerolog.Logger
}

var _ store.Engine = (*Engine)(nil)

// Open opens or creates the container file at cfg.Path according to
// cfg.Mode. Overwrite removes an existing file first. ReadOnly on a missing
// file returns types.ErrNotFound. A file that is not a container returns
// types.ErrFormatInvalid.
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
		log:  cfg.Log().With().Str("engine", "sqlite").Logger(),
	}

	if cfg.Mode == types.Overwrite {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("removing %s: %w", path, err)
		}
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if cfg.Mode == types.ReadOnly {
			return nil, fmt.Errorf("%w: %s", types.ErrNotFound, path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("opening %s: %w", path, err)
	case info.IsDir():
		return nil, fmt.Errorf("%w: %s is a directory", types.ErrFormatInvalid, path)
	}

	db, err := sql.Open("sqlite", dsn(path, cfg.Mode))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	e.db = db

	if err := e.prepare(); err != nil {
		db.Close()
		return nil, err
	}

	e.log.Debug().Str("path", path).Bool("fresh", e.fresh).Msg("opened container file")
	return e, nil
}

// dsn applies the connection pragmas to every connection the pool opens.
// Read-only containers are additionally guarded by query_only.
func dsn(path string, mode types.FileMode) string {
	q := "?_pragma=foreign_keys(1)"
	if mode == types.ReadOnly {
		q += "&_pragma=query_only(1)"
	}
	return path + q
}

// prepare creates the schema in an empty file, or checks that an existing
// file is a container.
func (e *Engine) prepare() error {
	var tables int
	if err := e.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table'").Scan(&tables); err != nil {
		return fmt.Errorf("%w: %s: %v", types.ErrFormatInvalid, e.path, err)
	}

	if tables == 0 && e.mode != types.ReadOnly {
		for _, ddl := range append(schemaDDL, indexDDL...) {
			if _, err := e.db.Exec(ddl); err != nil {
				return fmt.Errorf("creating schema: %w", err)
			}
		}
		if _, err := e.db.Exec("INSERT INTO groups (path, parent, name) VALUES (?, NULL, '')", rootPath); err != nil {
			return fmt.Errorf("creating root group: %w", err)
		}
		e.fresh = true
	} else {
		var n int
		err := e.db.QueryRow("SELECT COUNT(*) FROM groups WHERE path = ?", rootPath).Scan(&n)
		if err != nil || n != 1 {
			return fmt.Errorf("%w: %s has no root group", types.ErrFormatInvalid, e.path)
		}
	}
	return nil
}

func (e *Engine) Root() store.Group { return &group{e: e, path: rootPath} }
func (e *Engine) Kind() types.BackendKind { return types.BackendContainerFile }
func (e *Engine) Location() string { return e.path }
func (e *Engine) Mode() types.FileMode { return e.mode }
func (e *Engine) Fresh() bool { return e.fresh }

func (e *Engine) Check(write bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.checkLocked(write)
}

func (e *Engine) checkLocked(write bool) error {
	if e.db == nil {
		return types.ErrClosed
	}
	if write && e.mode == types.ReadOnly {
		return types.ErrReadOnly
	}
	return nil
}

// Close runs PRAGMA optimize on a writable file and closes the database
// handle. Errors from both steps are combined. Idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return nil
	}
	var result *multierror.Error
	if e.mode != types.ReadOnly {
		if _, err := e.db.Exec("PRAGMA optimize"); err != nil {
			result = multierror.Append(result, fmt.Errorf("optimize: %w", err))
		}
	}
	if err := e.db.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	e.db = nil
	if err := result.ErrorOrNil(); err != nil {
		return err
	}
	e.log.Debug().Str("path", e.path).Msg("closed container file")
	return nil
}
