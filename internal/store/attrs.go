package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/G-Node/pandora/pkg/types"
)

// timeLayout is the on-disk timestamp form. Timestamps are stored in UTC.
const timeLayout = time.RFC3339Nano

type attr struct {
	key   string
	value any
}

func setAttrs(g Group, attrs ...attr) error {
	for _, a := range attrs {
		if err := g.SetAttr(a.key, a.value); err != nil {
			return fmt.Errorf("setting %s on %s: %w", a.key, g.Location(), err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q", types.ErrFormatInvalid, s)
	}
	return t, nil
}

// float is the element type of floating-point attributes. Engines that
// keep attributes as JSON write NaN and the infinities as the strings
// "NaN", "+Inf" and "-Inf"; finite values stay plain numbers.
type float float64

func (f float) MarshalJSON() ([]byte, error) {
	x := float64(f)
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return []byte(strconv.Quote(strconv.FormatFloat(x, 'g', -1, 64))), nil
	}
	return strconv.AppendFloat(nil, x, 'g', -1, 64), nil
}

func (f *float) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%w: number %s", types.ErrFormatInvalid, b)
	}
	*f = float(x)
	return nil
}

func toFloats(xs []float64) []float {
	if xs == nil {
		return nil
	}
	out := make([]float, len(xs))
	for i, x := range xs {
		out[i] = float(x)
	}
	return out
}

func fromFloats(xs []float) []float64 {
	if xs == nil {
		return nil
	}
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

// encodeFloats packs samples as little-endian float64.
func encodeFloats(data []float64) []byte {
	buf := make([]byte, 8*len(data))
	for i, f := range data {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(f))
	}
	return buf
}

func decodeFloats(buf []byte) ([]float64, error) {
	if len(buf)%8 != 0 {
		return nil, fmt.Errorf("%w: payload of %d bytes", types.ErrFormatInvalid, len(buf))
	}
	data := make([]float64, len(buf)/8)
	for i := range data {
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return data, nil
}

// encodeValues converts property values to a typed slice both engines can
// serialize without losing integer precision.
func encodeValues(dt types.DataType, values []types.Value) (any, error) {
	if err := types.CheckValues(dt, values); err != nil {
		return nil, err
	}
	switch dt {
	case types.Bool:
		return collect(values, types.Value.Bool)
	case types.Int64:
		return collect(values, types.Value.Int)
	case types.UInt64:
		return collect(values, types.Value.Uint)
	case types.Double:
		xs, err := collect(values, types.Value.Double)
		return toFloats(xs), err
	case types.String:
		return collect(values, types.Value.Str)
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidDataType, dt)
	}
}

func collect[T any](values []types.Value, get func(types.Value) (T, error)) ([]T, error) {
	out := make([]T, len(values))
	for i, v := range values {
		x, err := get(v)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

// decodeValues reads the values attribute of g as a slice of dt.
func decodeValues(g Group, dt types.DataType) ([]types.Value, error) {
	switch dt {
	case types.Bool:
		return load(g, types.NewBool)
	case types.Int64:
		return load(g, types.NewInt)
	case types.UInt64:
		return load(g, types.NewUint)
	case types.Double:
		return load(g, func(x float) types.Value { return types.NewDouble(float64(x)) })
	case types.String:
		return load(g, types.NewString)
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidDataType, dt)
	}
}

func load[T any](g Group, mk func(T) types.Value) ([]types.Value, error) {
	var xs []T
	if _, err := g.GetAttr(attrValues, &xs); err != nil {
		return nil, err
	}
	out := make([]types.Value, len(xs))
	for i, x := range xs {
		out[i] = mk(x)
	}
	return out, nil
}

// shapeSize returns the number of samples of shape. An empty shape holds
// nothing.
func shapeSize(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, nil
	}
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative extent in %v", types.ErrInvalidShape, shape)
		}
		n *= d
	}
	return n, nil
}
