package types

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", Path: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "hdf5", Path: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "empty path returns ErrPathEmpty",
			config:  Config{Backend: BackendDirectoryTree},
			wantErr: ErrPathEmpty,
		},
		{
			name:    "out of range mode returns ErrModeUnknown",
			config:  Config{Backend: BackendContainerFile, Path: "/tmp/x.db", Mode: FileMode(7)},
			wantErr: ErrModeUnknown,
		},
		{
			name:   "valid sqlite config",
			config: Config{Backend: BackendContainerFile, Path: "/tmp/x.db", Mode: ReadWrite},
		},
		{
			name:   "valid dirtree config",
			config: Config{Backend: BackendDirectoryTree, Path: "/tmp/x", Mode: Overwrite},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigLog(t *testing.T) {
	var c Config
	assert.Equal(t, zerolog.Disabled, c.Log().GetLevel())

	l := zerolog.New(nil).Level(zerolog.WarnLevel)
	c.Logger = &l
	assert.Equal(t, zerolog.WarnLevel, c.Log().GetLevel())
}

func TestFileModeString(t *testing.T) {
	assert.Equal(t, "read-only", ReadOnly.String())
	assert.Equal(t, "read-write", ReadWrite.String())
	assert.Equal(t, "overwrite", Overwrite.String())
	assert.Equal(t, "unknown", FileMode(9).String())
}

func TestEmptyStringIsInvalidName(t *testing.T) {
	assert.ErrorIs(t, ErrEmptyString, ErrInvalidName)
}
