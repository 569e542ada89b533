package types

// BlockBackend is the contract for a block: a named container of sources,
// data arrays and tags owned by exactly one root.
type BlockBackend interface {
	NamedEntityBackend
	MetadataRef

	Sources() Collection[SourceBackend]
	CreateSource(name, typ string) (SourceBackend, error)

	DataArrays() Collection[DataArrayBackend]
	CreateDataArray(name, typ string, dt DataType, shape []int) (DataArrayBackend, error)

	Tags() Collection[TagBackend]
	CreateTag(name, typ string, position []float64) (TagBackend, error)
}

// SourceBackend is the contract for a provenance node. Sources form their own
// recursive tree below a block.
type SourceBackend interface {
	NamedEntityBackend
	MetadataRef

	Sources() Collection[SourceBackend]
	CreateSource(name, typ string) (SourceBackend, error)
}

// DataArrayBackend is the contract for a data array reference. Only the
// descriptive attributes and a flat float64 payload are stored here; the
// chunked bulk codec is a separate collaborator.
type DataArrayBackend interface {
	NamedEntityBackend
	MetadataRef
	SourceRefs

	DataType() (DataType, error)
	Shape() ([]int, error)

	Unit() (string, bool, error)
	SetUnit(unit string) error
	ClearUnit() error

	Label() (string, bool, error)
	SetLabel(label string) error
	ClearLabel() error

	// ReadData returns the payload. An array that was never written returns
	// an empty slice.
	ReadData() ([]float64, error)

	// WriteData replaces the payload and the shape. Returns ErrInvalidShape
	// if len(data) is not the product of shape.
	WriteData(data []float64, shape []int) error
}

// TagBackend is the contract for a tag: a position (and optional extent)
// pointing into the data arrays it references by id.
type TagBackend interface {
	NamedEntityBackend
	MetadataRef
	SourceRefs

	Position() ([]float64, error)
	SetPosition(position []float64) error

	Extent() ([]float64, error)
	SetExtent(extent []float64) error
	ClearExtent() error

	ReferenceIDs() ([]string, error)
	AddReferenceID(id string) error
	RemoveReferenceID(id string) (bool, error)
}
