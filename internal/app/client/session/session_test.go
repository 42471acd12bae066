package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Lifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s, err := Load(path)
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
	_, ok := s.CurrentUID()
	assert.False(t, ok)

	require.NoError(t, s.Save(Data{Token: "tok", UID: "uid-1", Email: "a@club.org"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tok", reloaded.Token())
	uid, ok := reloaded.CurrentUID()
	assert.True(t, ok)
	assert.Equal(t, "uid-1", uid)
	assert.Equal(t, "a@club.org", reloaded.Email())

	require.NoError(t, reloaded.Clear())
	require.NoError(t, reloaded.Clear())
	assert.False(t, reloaded.Authenticated())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
