package afero_cloud

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWrapperLogsBackendRelativePaths(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	fs := NewWrapper(afero.NewMemMapFs(), zap.New(core))

	require.NoError(t, fs.MkdirAll("/Docs/inner", 0o755))

	f, err := fs.Create("/Docs/inner/report.pdf")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = fs.Stat("/missing.txt")
	require.Error(t, err)

	entries := logs.All()
	require.NotEmpty(t, entries)

	byOp := map[string]observer.LoggedEntry{}
	for _, entry := range entries {
		byOp[entry.Message] = entry
	}

	create, ok := byOp["create"]
	require.True(t, ok)
	require.Equal(t, "Docs/inner/report.pdf", create.ContextMap()["path"])

	stat, ok := byOp["stat"]
	require.True(t, ok)
	require.Equal(t, "missing.txt", stat.ContextMap()["path"])
	require.Contains(t, stat.ContextMap(), "error")
}
