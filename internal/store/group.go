// Package store implements the entity contracts of pkg/types once, over the
// small physical Group abstraction that every storage engine provides.
//
// An engine maps a Group to whatever its substrate offers (a directory with
// an attributes document, a row set in a container file). The store decides
// the logical layout: which collection groups exist, which attribute keys
// are written, how ids are assigned and how sibling names stay unique.
package store

import (
	"fmt"
	"strings"

	"github.com/G-Node/pandora/pkg/types"
)

// Group is one node of an engine's physical hierarchy: a named node that
// carries attributes, owns child groups and may hold binary datasets.
//
// Mutating methods return types.ErrReadOnly on a read-only engine and every
// method returns types.ErrClosed once the engine is closed.
type Group interface {
	// Location identifies the group inside the engine, for logs and errors.
	Location() string

	// HasGroup reports whether the named child exists. An invalid child
	// name never exists.
	HasGroup(name string) (bool, error)

	// OpenGroup returns the named child. With create set, a missing child is
	// created; otherwise a missing child yields types.ErrNotFound.
	OpenGroup(name string, create bool) (Group, error)

	// RemoveGroup removes the named child with everything below it and
	// reports whether it existed.
	RemoveGroup(name string) (bool, error)

	// GroupNames lists the child group names in ascending order.
	GroupNames() ([]string, error)

	HasAttr(key string) (bool, error)

	// GetAttr decodes the attribute into dst and reports whether it exists.
	GetAttr(key string, dst any) (bool, error)

	SetAttr(key string, value any) error

	// RemoveAttr deletes the attribute. Removing a missing key is a no-op.
	RemoveAttr(key string) error

	// ReadData returns the named dataset and whether it exists.
	ReadData(name string) ([]byte, bool, error)
	WriteData(name string, data []byte) error
}

// CheckGroupName returns types.ErrInvalidName unless name is a single path
// element. Engines call it before mapping a child name onto their substrate.
func CheckGroupName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: group name %q", types.ErrInvalidName, name)
	}
	return nil
}

// Engine is an open physical store.
type Engine interface {
	// Root returns the top-level group.
	Root() Group

	Kind() types.BackendKind
	Location() string
	Mode() types.FileMode

	// Fresh reports whether the engine found no prior content on open, so
	// the root header has to be written.
	Fresh() bool

	// Check returns types.ErrClosed after Close, and types.ErrReadOnly when
	// write is set on a read-only engine.
	Check(write bool) error

	// Close releases the engine's handles. Idempotent.
	Close() error
}

// Attribute keys.
const (
	attrID         = "id"
	attrName       = "name"
	attrType       = "type"
	attrCreatedAt  = "createdAt"
	attrUpdatedAt  = "updatedAt"
	attrDefinition = "definition"
	attrUnit       = "unit"
	attrMapping    = "mapping"
	attrRepository = "repository"
	attrLink       = "link"
	attrDataType   = "dataType"
	attrValues     = "values"
	attrMetadata   = "metadata"
	attrSources    = "sources"
	attrShape      = "shape"
	attrLabel      = "label"
	attrPosition   = "position"
	attrExtent     = "extent"
	attrReferences = "references"
	attrFormat     = "format"
	attrVersion    = "version"
)

// Collection group names.
const (
	groupBlocks     = "data"
	groupSections   = "metadata"
	groupSources    = "sources"
	groupDataArrays = "data_arrays"
	groupTags       = "tags"
	groupChildren   = "sections"
	groupProperties = "properties"
)

// datasetPayload is the dataset holding a data array's samples.
const datasetPayload = "data"
