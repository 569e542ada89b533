package types

import (
	"errors"

	"github.com/rs/zerolog"
)

// BackendKind selects the storage engine serving a root.
type BackendKind string

// Supported engines.
const (
	// BackendContainerFile stores the whole root in one SQLite container file.
	BackendContainerFile BackendKind = "sqlite"

	// BackendDirectoryTree stores the root as a directory tree with one
	// attributes document per directory.
	BackendDirectoryTree BackendKind = "dirtree"
)

// FileMode selects how a root is opened.
type FileMode int

const (
	// ReadOnly opens an existing root; every mutation fails with ErrReadOnly.
	ReadOnly FileMode = iota
	// ReadWrite opens an existing root or creates a fresh one.
	ReadWrite
	// Overwrite discards any existing content and creates a fresh root.
	Overwrite
)

func (m FileMode) String() string {
	switch m {
	case ReadOnly:
		return "read-only"
	case ReadWrite:
		return "read-write"
	case Overwrite:
		return "overwrite"
	default:
		return "unknown"
	}
}

// IDGenerator produces opaque, globally unique ids in the canonical
// 36-character form. A generator is owned by one open root.
type IDGenerator interface {
	NewID() string
}

// Config holds engine selection and parameters for opening a root.
type Config struct {
	Backend BackendKind `json:"backend" yaml:"backend"`
	Path    string      `json:"path" yaml:"path"`
	Mode    FileMode    `json:"mode" yaml:"mode"`

	// IDs generates entity ids. Nil selects the default random generator.
	IDs IDGenerator `json:"-" yaml:"-"`

	// Logger receives engine events. Nil disables logging.
	Logger *zerolog.Logger `json:"-" yaml:"-"`
}

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrPathEmpty      = errors.New("path must not be empty")
	ErrModeUnknown    = errors.New("unknown file mode")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[BackendKind]bool{
	BackendContainerFile: true,
	BackendDirectoryTree: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Path == "" {
		return ErrPathEmpty
	}
	if c.Mode < ReadOnly || c.Mode > Overwrite {
		return ErrModeUnknown
	}
	return nil
}

// Log returns the configured logger or a disabled one.
func (c Config) Log() zerolog.Logger {
	if c.Logger == nil {
		return zerolog.Nop()
	}
	return *c.Logger
}
