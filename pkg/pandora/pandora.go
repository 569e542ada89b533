// Package pandora is the client API for annotated scientific datasets.
//
// A root is opened with Open on one of two storage engines. Every handle it
// hands out (blocks, sections, properties, sources, data arrays, tags) is a
// thin front-end over the engine-neutral contracts in pkg/types, so the
// graph algorithms in this package (cascading section delete, link
// resolution, property inheritance, related-section search, provenance
// trees and validation) run unmodified on either engine.
package pandora

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/G-Node/pandora/internal/dirtree"
	"github.com/G-Node/pandora/internal/sqlite"
	"github.com/G-Node/pandora/internal/store"
	"github.com/G-Node/pandora/pkg/types"
)

// Version is the library version.
const Version = "0.1.0"

// Open modes.
const (
	ReadOnly  = types.ReadOnly
	ReadWrite = types.ReadWrite
	Overwrite = types.Overwrite
)

// Engine kinds.
const (
	ContainerFile = types.BackendContainerFile
	DirectoryTree = types.BackendDirectoryTree
)

// Unbounded disables the depth limit of FindSections and FindSources.
const Unbounded = -1

// Option adjusts the configuration used by Open.
type Option func(*types.Config)

// WithIDGenerator replaces the default UUID v7 generator, for example with
// ident.NewSeeded in tests.
func WithIDGenerator(gen types.IDGenerator) Option {
	return func(c *types.Config) { c.IDs = gen }
}

// WithLogger routes engine and graph events to log.
func WithLogger(log zerolog.Logger) Option {
	return func(c *types.Config) { c.Logger = &log }
}

// Open opens the root at path with the given mode on the given engine.
func Open(path string, mode types.FileMode, kind types.BackendKind, opts ...Option) (*File, error) {
	cfg := types.Config{Backend: kind, Path: path, Mode: mode}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var eng store.Engine
	switch kind {
	case types.BackendContainerFile:
		e, err := sqlite.Open(cfg)
		if err != nil {
			return nil, err
		}
		eng = e
	case types.BackendDirectoryTree:
		e, err := dirtree.Open(cfg)
		if err != nil {
			return nil, err
		}
		eng = e
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, kind)
	}

	fb, err := store.Open(eng, cfg)
	if err != nil {
		return nil, err
	}
	return &File{b: fb, log: cfg.Log()}, nil
}
