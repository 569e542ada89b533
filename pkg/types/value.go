package types

import (
	"fmt"
	"strconv"
)

// Value is a single typed scalar owned by a property. The zero Value has
// type Nothing.
type Value struct {
	dt DataType
	v  any
}

func NewBool(b bool) Value { return Value{dt: Bool, v: b} }
func NewInt(i int64) Value { return Value{dt: Int64, v: i} }
func NewUint(u uint64) Value { return Value{dt: UInt64, v: u} }
func NewDouble(f float64) Value { return Value{dt: Double, v: f} }
func NewString(s string) Value { return Value{dt: String, v: s} }

// ValueOf builds a Value from a Go scalar. Sized integer and float kinds are
// widened. Returns ErrInvalidDataType for any other kind.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case Value:
		return v, nil
	case bool:
		return NewBool(v), nil
	case int:
		return NewInt(int64(v)), nil
	case int8:
		return NewInt(int64(v)), nil
	case int16:
		return NewInt(int64(v)), nil
	case int32:
		return NewInt(int64(v)), nil
	case int64:
		return NewInt(v), nil
	case uint:
		return NewUint(uint64(v)), nil
	case uint8:
		return NewUint(uint64(v)), nil
	case uint16:
		return NewUint(uint64(v)), nil
	case uint32:
		return NewUint(uint64(v)), nil
	case uint64:
		return NewUint(v), nil
	case float32:
		return NewDouble(float64(v)), nil
	case float64:
		return NewDouble(v), nil
	case string:
		return NewString(v), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrInvalidDataType, x)
	}
}

// DataType returns the type of the value.
func (v Value) DataType() DataType { return v.dt }

// Interface returns the underlying Go value (bool, int64, uint64, float64
// or string), or nil for the zero Value.
func (v Value) Interface() any { return v.v }

func (v Value) Bool() (bool, error) {
	b, ok := v.v.(bool)
	if !ok {
		return false, v.mismatch(Bool)
	}
	return b, nil
}

func (v Value) Int() (int64, error) {
	i, ok := v.v.(int64)
	if !ok {
		return 0, v.mismatch(Int64)
	}
	return i, nil
}

func (v Value) Uint() (uint64, error) {
	u, ok := v.v.(uint64)
	if !ok {
		return 0, v.mismatch(UInt64)
	}
	return u, nil
}

func (v Value) Double() (float64, error) {
	f, ok := v.v.(float64)
	if !ok {
		return 0, v.mismatch(Double)
	}
	return f, nil
}

func (v Value) Str() (string, error) {
	s, ok := v.v.(string)
	if !ok {
		return "", v.mismatch(String)
	}
	return s, nil
}

// String formats the value for display.
func (v Value) String() string {
	switch x := v.v.(type) {
	case nil:
		return "<nothing>"
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func (v Value) mismatch(want DataType) error {
	return fmt.Errorf("%w: value is %q, not %q", ErrTypeMismatch, v.dt, want)
}

// CheckValues returns ErrTypeMismatch if any value is not of type dt.
func CheckValues(dt DataType, values []Value) error {
	for i, v := range values {
		if v.dt != dt {
			return fmt.Errorf("%w: value %d is %q, property is %q", ErrTypeMismatch, i, v.dt, dt)
		}
	}
	return nil
}
