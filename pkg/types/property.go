package types

import "errors"

// DataType is the declared element type of a property or data array.
type DataType string

// Supported data types. Nothing is the zero value and is rejected on
// creation.
const (
	Nothing DataType = ""
	Bool    DataType = "bool"
	Int64   DataType = "int64"
	UInt64  DataType = "uint64"
	Double  DataType = "double"
	String  DataType = "string"
)

// validDataTypes is the set of data types accepted on creation.
var validDataTypes = map[DataType]bool{
	Bool:   true,
	Int64:  true,
	UInt64: true,
	Double: true,
	String: true,
}

// IsValidDataType reports whether dt can be used to create an entity.
func IsValidDataType(dt DataType) bool {
	return validDataTypes[dt]
}

// IsNumeric reports whether dt holds numbers.
func (dt DataType) IsNumeric() bool {
	return dt == Int64 || dt == UInt64 || dt == Double
}

// PropertyBackend is the contract for a section property: a named, typed,
// ordered sequence of values with optional unit and definition.
type PropertyBackend interface {
	EntityBackend

	Name() (string, error)
	SetName(name string) error

	// DataType returns the type every value of the property has.
	DataType() (DataType, error)

	Unit() (string, bool, error)
	SetUnit(unit string) error
	ClearUnit() error

	Definition() (string, bool, error)
	SetDefinition(def string) error
	ClearDefinition() error

	Mapping() (string, bool, error)
	SetMapping(url string) error
	ClearMapping() error

	ValueCount() (int, error)
	Values() ([]Value, error)

	// SetValues replaces all values. Returns ErrTypeMismatch if any value's
	// type differs from the property's data type.
	SetValues(values []Value) error

	// DeleteValues removes all values, keeping unit and definition.
	DeleteValues() error
}

// Value errors.
var (
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrInvalidDataType = errors.New("invalid data type")
)
