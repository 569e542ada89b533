package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-Node/pandora/pkg/types"
)

func TestRandom_NewID(t *testing.T) {
	gen := Random{}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := gen.NewID()
		require.Len(t, id, 36)
		assert.True(t, IsID(id))
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestSeeded_Deterministic(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	c := NewSeeded(7)

	for i := 0; i < 10; i++ {
		ida, idb := a.NewID(), b.NewID()
		assert.Equal(t, ida, idb)
		assert.True(t, IsID(ida))
		assert.NotEqual(t, ida, c.NewID())
	}
}

func TestSequence(t *testing.T) {
	gen := NewSequence("a", "a", "b")
	assert.Equal(t, "a", gen.NewID())
	assert.Equal(t, "a", gen.NewID())
	assert.Equal(t, "b", gen.NewID())
	assert.True(t, IsID(gen.NewID()))
}

func TestOr(t *testing.T) {
	assert.IsType(t, Random{}, Or(nil))
	seeded := NewSeeded(1)
	assert.Same(t, seeded, Or(seeded))
}

func TestCheckName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"plain", "session-1", nil},
		{"spaces allowed", "recording session", nil},
		{"empty", "", types.ErrEmptyString},
		{"slash", "a/b", types.ErrInvalidName},
		{"backslash", `a\b`, types.ErrInvalidName},
		{"dot", ".", types.ErrInvalidName},
		{"dotdot", "..", types.ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckName(tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckName_EmptyIsInvalidName(t *testing.T) {
	assert.ErrorIs(t, CheckName(""), types.ErrInvalidName)
}

func TestCheckType(t *testing.T) {
	assert.NoError(t, CheckType("recording"))
	assert.ErrorIs(t, CheckType(""), types.ErrEmptyString)
}

func TestIsID(t *testing.T) {
	assert.True(t, IsID("0190d1f2-6a2b-7c3d-8e4f-5a6b7c8d9e0f"))
	assert.False(t, IsID("session"))
	assert.False(t, IsID("0190d1f2-6a2b-7c3d-8e4f-5a6b7c8d9e0"))
	assert.False(t, IsID("0190d1f2x6a2b-7c3d-8e4f-5a6b7c8d9e0f"))
}
