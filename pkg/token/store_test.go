package token

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	s, err := NewStore(path)
	require.NoError(t, err)
	require.Empty(t, s.Token())
	require.NoError(t, s.Set("abc"))

	reopened, err := NewStore(path)
	require.NoError(t, err)
	require.Equal(t, "abc", reopened.Token())
}

func TestClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("abc"))

	require.NoError(t, s.Clear())
	require.Empty(t, s.Token())
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))

	require.NoError(t, s.Clear())
}

func TestCorruptedFileIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0600))

	_, err := NewStore(path)
	require.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	s, err := NewStore("")
	require.NoError(t, err)
	require.NoError(t, s.Set("t"))
	require.Equal(t, "t", s.Token())
	require.NoError(t, s.Clear())
	require.Empty(t, s.Token())
}
