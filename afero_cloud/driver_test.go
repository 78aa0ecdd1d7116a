package afero_cloud

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ChiHao144/CloudStorageApp/api"
	"github.com/ChiHao144/CloudStorageApp/config"
)

func prepareDrive(t *testing.T, mux *http.ServeMux) *Drive {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := api.NewClient(config.Backend{
		BaseURL: srv.URL,
		Timeout: config.Duration(5 * time.Second),
	}, zap.NewNop())

	return NewDrive(client, api.Credentials{Username: "alice", Password: "secret"}, t.TempDir(), zap.NewNop())
}

func rootListing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"files":[
			{"name":"Docs","path":"/alice/Docs/","type":"directory"},
			{"name":"a.txt","path":"/alice/a.txt","size":"5","type":"file","modified":"2023-04-07 12:00:00"}
		]}`))
	}
}

func TestDrive_StatAndReaddir(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/files", rootListing())

	drive := prepareDrive(t, mux)

	rootStat, err := drive.Stat("/")
	require.NoError(t, err)
	require.True(t, rootStat.IsDir())

	stat, err := drive.Stat("/a.txt")
	require.NoError(t, err)
	require.False(t, stat.IsDir())
	require.Equal(t, int64(5), stat.Size())
	require.Equal(t, 2023, stat.ModTime().Year())

	_, err = drive.Stat("/missing.txt")
	require.ErrorIs(t, err, os.ErrNotExist)

	dir, err := drive.Open("/")
	require.NoError(t, err)

	names, err := dir.Readdirnames(-1)
	require.NoError(t, err)
	sort.Strings(names)
	require.Equal(t, []string{"Docs", "a.txt"}, names)

	// The cursor advanced; a second read yields nothing.
	names, err = dir.Readdirnames(-1)
	require.NoError(t, err)
	require.Empty(t, names)

	require.NoError(t, dir.Close())
}

func TestDrive_ReadFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/files", rootListing())
	mux.HandleFunc("/download", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "a.txt", r.URL.Query().Get("path"))
		w.Write([]byte("hello"))
	})

	drive := prepareDrive(t, mux)

	f, err := drive.Open("/a.txt")
	require.NoError(t, err)

	content, err := io.ReadAll(f)
	require.NoError(t, err)
	require.Equal(t, "hello", string(content))

	require.NoError(t, f.Close())
}

func TestDrive_WriteUploadsOnClose(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/files", rootListing())

	var uploaded string
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "alice", r.PostFormValue("username"))
		require.Equal(t, "new.txt", r.PostFormValue("path"))

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		uploaded = string(content)

		w.Write([]byte(`{"status":"ok"}`))
	})

	drive := prepareDrive(t, mux)

	f, err := drive.Create("/new.txt")
	require.NoError(t, err)

	_, err = f.Write([]byte("fresh content"))
	require.NoError(t, err)

	require.NoError(t, f.Close())
	require.Equal(t, "fresh content", uploaded)
}

func TestDrive_RemoveAndRename(t *testing.T) {
	mux := http.NewServeMux()

	var deleted, source, destination string
	mux.HandleFunc("/delete", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		deleted = r.PostForm.Get("path")
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/move", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		source = r.PostForm.Get("source")
		destination = r.PostForm.Get("destination")
		w.Write([]byte(`{"status":"ok"}`))
	})

	drive := prepareDrive(t, mux)

	require.NoError(t, drive.Remove("/Docs/old.txt"))
	require.Equal(t, "Docs/old.txt", deleted)

	require.ErrorIs(t, drive.Remove("/"), os.ErrInvalid)

	require.NoError(t, drive.Rename("/a.txt", "/Docs/a.txt"))
	require.Equal(t, "a.txt", source)
	require.Equal(t, "Docs/a.txt", destination)
}

func TestDrive_Unsupported(t *testing.T) {
	drive := prepareDrive(t, http.NewServeMux())

	require.ErrorIs(t, drive.Mkdir("/x", 0o755), ErrNotSupported)
	require.ErrorIs(t, drive.MkdirAll("/x/y", 0o755), ErrNotSupported)
	require.ErrorIs(t, drive.Chmod("/x", 0o600), ErrNotSupported)
	require.ErrorIs(t, drive.Chown("/x", 0, 0), ErrNotSupported)
	require.ErrorIs(t, drive.Chtimes("/x", time.Now(), time.Now()), ErrNotSupported)
}
