package store

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_Kinds(t *testing.T) {
	s, err := NewStore("memory", "", zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &InMemoryStore{}, s)

	s, err = NewStore("mem", "", zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &InMemoryStore{}, s)

	path := filepath.Join(t.TempDir(), "productos.json")
	s, err = NewStore("file", path, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)
}

func TestNewStore_FileRequiresPath(t *testing.T) {
	_, err := NewStore("file", "", zerolog.Nop())
	assert.Error(t, err)
}

func TestNewStore_UnknownKind(t *testing.T) {
	_, err := NewStore("cloud", "", zerolog.Nop())
	assert.Error(t, err)
}
