package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStore(t *testing.T) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "session.yml")

	return NewStore(path, zap.NewNop()), path
}

func TestLoginPersistsAndRestores(t *testing.T) {
	s, path := newStore(t)

	require.False(t, s.IsAuthenticated())

	_, err := s.Credentials()
	require.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, s.Login("alice", "secret"))
	require.True(t, s.IsAuthenticated())
	require.Equal(t, "alice", s.Username())

	creds, err := s.Credentials()
	require.NoError(t, err)
	require.Equal(t, "alice", creds.Username)
	require.Equal(t, "secret", creds.Password)

	restored := NewStore(path, zap.NewNop())
	restored.Restore()

	require.True(t, restored.IsAuthenticated())

	creds, err = restored.Credentials()
	require.NoError(t, err)
	require.Equal(t, "secret", creds.Password)
}

func TestLogoutClearsEverything(t *testing.T) {
	s, path := newStore(t)

	require.NoError(t, s.Login("alice", "secret"))
	require.NoError(t, s.Logout())

	require.False(t, s.IsAuthenticated())

	_, err := s.Credentials()
	require.ErrorIs(t, err, ErrNotLoggedIn)

	// The password must not survive in the state file either.
	d, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(d), "secret")
}

func TestRestoreWithoutPassword(t *testing.T) {
	s, path := newStore(t)

	require.NoError(t, os.WriteFile(path, []byte("username: alice\n"), 0o600))
	s.Restore()

	require.True(t, s.IsAuthenticated())

	_, err := s.Credentials()
	require.ErrorIs(t, err, ErrNoStoredPassword)
}

func TestRestoreMissingFile(t *testing.T) {
	s, _ := newStore(t)

	s.Restore()
	require.False(t, s.IsAuthenticated())
}

func TestRestoreCorruptFile(t *testing.T) {
	s, path := newStore(t)

	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0o600))
	s.Restore()

	require.False(t, s.IsAuthenticated())
}
