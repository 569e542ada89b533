package types

// SectionBackend is the contract for a metadata section: a node of the
// structural section tree that owns child sections and properties and may
// carry one outgoing link to any section of the same root.
type SectionBackend interface {
	NamedEntityBackend

	Repository() (string, bool, error)
	SetRepository(url string) error
	ClearRepository() error

	Mapping() (string, bool, error)
	SetMapping(url string) error
	ClearMapping() error

	// LinkID returns the id of the linked section and whether a link is set.
	// The id is not resolved; it may point to a section that no longer exists.
	LinkID() (string, bool, error)
	SetLinkID(id string) error

	// ClearLink unsets the link. Clearing an unset link is a no-op.
	ClearLink() error

	// Parent returns the structural parent, or nil for a top-level section.
	Parent() (SectionBackend, error)

	Sections() Collection[SectionBackend]
	CreateSection(name, typ string) (SectionBackend, error)

	// Properties returns the section's own properties.
	Properties() Collection[PropertyBackend]
	CreateProperty(name string, dt DataType) (PropertyBackend, error)
}
