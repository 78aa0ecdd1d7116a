package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "missing.yml"))

	require.Equal(t, ":8080", c.App.WebListen)
	require.Equal(t, "session.yml", c.App.StatePath)
	require.Equal(t, "http://localhost:8000", c.Backend.BaseURL)
	require.Equal(t, Duration(30*time.Second), c.Backend.Timeout)
	require.Equal(t, Duration(500*time.Millisecond), c.Sync.Debounce)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  weblisten: ":9090"
  dev: true
backend:
  baseurl: "https://cloud.example"
  timeout: 5s
sync:
  path: /data
`), 0o600))

	c := Load(path)

	require.Equal(t, ":9090", c.App.WebListen)
	require.True(t, c.App.Dev)
	require.Equal(t, "https://cloud.example", c.Backend.BaseURL)
	require.Equal(t, Duration(5*time.Second), c.Backend.Timeout)
	require.Equal(t, "/data", c.Sync.Path)

	// Untouched fields keep their defaults.
	require.Equal(t, "session.yml", c.App.StatePath)
}
