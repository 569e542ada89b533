package types

import "time"

// EntityBackend is the contract shared by every persisted entity.
type EntityBackend interface {
	// ID returns the immutable id assigned at creation.
	ID() string

	CreatedAt() (time.Time, error)
	UpdatedAt() (time.Time, error)

	// SetUpdatedAt stamps the entity with the current time.
	SetUpdatedAt() error

	// ForceCreatedAt overwrites the creation timestamp.
	ForceCreatedAt(t time.Time) error
}

// NamedEntityBackend adds the name, type and definition attributes.
type NamedEntityBackend interface {
	EntityBackend

	Name() (string, error)

	// SetName renames the entity. The new name is validated and must be
	// unique among the entity's siblings (ErrDuplicateName).
	SetName(name string) error

	Type() (string, error)
	SetType(typ string) error

	// Definition returns the free-text definition and whether it is set.
	Definition() (string, bool, error)
	SetDefinition(def string) error
	ClearDefinition() error
}

// MetadataRef is implemented by entities that may reference a Section by id.
// The reference is an association: it does not keep the Section alive.
type MetadataRef interface {
	MetadataID() (string, bool, error)
	SetMetadataID(id string) error
	ClearMetadata() error
}

// SourceRefs is implemented by entities that record provenance by holding
// the ids of Sources. Ids that no longer resolve are kept and ignored.
type SourceRefs interface {
	SourceIDs() ([]string, error)

	// AddSourceID associates the source id. Adding an id twice is a no-op.
	AddSourceID(id string) error

	// RemoveSourceID drops the association and reports whether it existed.
	RemoveSourceID(id string) (bool, error)
}
