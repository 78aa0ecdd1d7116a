package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ChiHao144/CloudStorageApp/api"
	"github.com/ChiHao144/CloudStorageApp/config"
)

var testCreds = api.Credentials{Username: "alice", Password: "secret"}

func newBrowser(t *testing.T, mux *http.ServeMux) *Browser {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := api.NewClient(config.Backend{
		BaseURL: srv.URL,
		Timeout: config.Duration(5 * time.Second),
	}, zap.NewNop())

	return New(client, testCreds, zap.NewNop())
}

func serveQuota(mux *http.ServeMux, used, total string) {
	mux.HandleFunc("/quota", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quota":{"used":"` + used + `","free":"0","total":"` + total + `","relative":"0"}}`))
	})
}

func TestRefreshFiltersAndSorts(t *testing.T) {
	mux := http.NewServeMux()
	serveQuota(mux, "1024", "1073741824")
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "alice", r.URL.Query().Get("username"))
		require.Equal(t, "secret", r.URL.Query().Get("password"))

		w.Write([]byte(`{"files":[
			{"path":"/remote.php/alice/","type":"directory"},
			{"name":"zebra.txt","path":"/alice/zebra.txt","size":"10","type":"file"},
			{"name":"Docs","path":"/alice/Docs/","type":"directory"},
			{"path":"","type":"file"},
			{"name":"apple.txt","path":"/alice/apple.txt","size":20,"type":"file"}
		]}`))
	})

	b := newBrowser(t, mux)
	require.NoError(t, b.Refresh(context.Background()))

	state := b.State()
	require.False(t, state.Loading)
	require.Empty(t, state.Err)

	var names []string
	for _, entry := range state.Entries {
		names = append(names, entry.DisplayName())
	}

	// Directories first, then files, both alphabetically. The owner
	// marker and the unnamed entry are gone.
	require.Equal(t, []string{"Docs", "apple.txt", "zebra.txt"}, names)

	require.NotNil(t, state.Quota)
	require.Equal(t, int64(1<<30), state.Quota.TotalBytes())
}

func TestFilterEntriesIdempotent(t *testing.T) {
	entries := []api.FileEntry{
		{Name: "Docs", Path: "/alice/Docs/", Type: "directory"},
		{Name: "Inner", Path: "/alice/Docs/Inner/", Type: "directory"},
		{Name: "report.pdf", Path: "/alice/Docs/report.pdf", Type: "file"},
		{Name: "Docs", Path: "/alice/Docs", Type: "directory"},
	}

	once := FilterEntries(entries, "alice", "Docs")
	twice := FilterEntries(once, "alice", "Docs")

	require.Equal(t, once, twice)

	for _, entry := range once {
		require.NotEqual(t, "Docs", entry.DisplayName())
	}
}

func TestNavigateAndGoBack(t *testing.T) {
	mux := http.NewServeMux()
	serveQuota(mux, "0", "0")
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"files":[{"name":"Docs","path":"/alice/Docs/","type":"directory"}]}`))
	})

	var listDirCalls int
	mux.HandleFunc("/list-dir", func(w http.ResponseWriter, r *http.Request) {
		listDirCalls++
		require.Equal(t, "Docs", r.URL.Query().Get("path"))

		w.Write([]byte(`{"items":[{"name":"report.pdf","path":"/alice/Docs/report.pdf","type":"file"}]}`))
	})

	b := newBrowser(t, mux)
	require.NoError(t, b.Refresh(context.Background()))

	require.NoError(t, b.Navigate(context.Background(), "Docs"))
	require.Equal(t, "Docs", b.State().CurrentPath)
	require.Equal(t, 1, listDirCalls)

	// Re-entering the open directory must not fire another request.
	require.NoError(t, b.Navigate(context.Background(), "Docs"))
	require.Equal(t, "Docs", b.State().CurrentPath)
	require.Equal(t, 1, listDirCalls)

	require.NoError(t, b.GoBack(context.Background()))
	require.Equal(t, "", b.State().CurrentPath)

	// At the root GoBack is a no-op.
	require.NoError(t, b.GoBack(context.Background()))
	require.Equal(t, "", b.State().CurrentPath)
}

func TestRefreshListFailureKeepsEntries(t *testing.T) {
	mux := http.NewServeMux()
	serveQuota(mux, "0", "0")

	var fail bool
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"storage unavailable"}`))
			return
		}

		w.Write([]byte(`{"files":[{"name":"keep.txt","path":"/alice/keep.txt","type":"file"}]}`))
	})

	b := newBrowser(t, mux)
	require.NoError(t, b.Refresh(context.Background()))
	require.Len(t, b.State().Entries, 1)

	fail = true
	require.Error(t, b.Refresh(context.Background()))

	state := b.State()
	require.False(t, state.Loading)
	require.Equal(t, "storage unavailable", state.Err)
	require.Len(t, state.Entries, 1, "a failed listing must keep the previous entries")
}

func TestStaleRefreshIsDiscarded(t *testing.T) {
	mux := http.NewServeMux()
	serveQuota(mux, "0", "0")

	rootStarted := make(chan struct{})
	rootRelease := make(chan struct{})
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		close(rootStarted)
		<-rootRelease
		w.Write([]byte(`{"files":[{"name":"stale.txt","path":"/alice/stale.txt","type":"file"}]}`))
	})
	mux.HandleFunc("/list-dir", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"name":"report.pdf","path":"/alice/Docs/report.pdf","type":"file"}]}`))
	})

	b := newBrowser(t, mux)

	refreshDone := make(chan error, 1)
	go func() {
		refreshDone <- b.Refresh(context.Background())
	}()
	<-rootStarted

	// Navigating away starts a newer refresh while the root listing
	// is still in flight.
	require.NoError(t, b.Navigate(context.Background(), "Docs"))

	close(rootRelease)
	require.NoError(t, <-refreshDone)

	state := b.State()
	require.Equal(t, "Docs", state.CurrentPath)
	require.Len(t, state.Entries, 1)
	require.Equal(t, "report.pdf", state.Entries[0].DisplayName(),
		"a listing that settles after a newer navigation must not be applied")
}

func TestRefreshQuotaFailureIsIndependent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/quota", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"no quota for you"}`))
	})
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"files":[{"name":"a.txt","path":"/alice/a.txt","type":"file"}]}`))
	})

	b := newBrowser(t, mux)
	require.NoError(t, b.Refresh(context.Background()))

	state := b.State()
	require.Len(t, state.Entries, 1)
	require.Nil(t, state.Quota)
	require.Empty(t, state.Err)
}

func TestOpenTextPreview(t *testing.T) {
	mux := http.NewServeMux()
	serveQuota(mux, "0", "0")
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"files":[{"name":"notes.txt","path":"/alice/notes.txt","type":"file"}]}`))
	})
	mux.HandleFunc("/file-content", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "notes.txt", r.URL.Query().Get("path"))
		w.Write([]byte("hello world"))
	})

	b := newBrowser(t, mux)
	require.NoError(t, b.Refresh(context.Background()))

	entry := b.State().Entries[0]
	result, err := b.Open(context.Background(), entry)
	require.NoError(t, err)

	require.NotNil(t, result.Preview)
	require.Equal(t, KindText, result.Preview.Kind)
	require.Equal(t, "hello world", result.Preview.Content)
	require.False(t, result.Preview.Loading)

	b.ClosePreview()
	require.Nil(t, b.State().Preview)
}

func TestOpenMediaPreviewAndDownloadFallback(t *testing.T) {
	mux := http.NewServeMux()

	b := newBrowser(t, mux)

	image := api.FileEntry{Name: "photo.jpg", Path: "/alice/photo.jpg", Type: "file"}
	result, err := b.Open(context.Background(), image)
	require.NoError(t, err)
	require.NotNil(t, result.Preview)
	require.Equal(t, KindImage, result.Preview.Kind)
	require.Contains(t, result.Preview.Content, "/file-stream")
	require.Contains(t, result.Preview.Content, "path=photo.jpg")

	archive := api.FileEntry{Name: "archive.zip", Path: "/alice/archive.zip", Type: "file"}
	result, err = b.Open(context.Background(), archive)
	require.NoError(t, err)
	require.Nil(t, result.Preview)
	require.Contains(t, result.DownloadURL, "/download")
	require.Contains(t, result.DownloadURL, "path=archive.zip")
}

func TestDeleteRefetches(t *testing.T) {
	mux := http.NewServeMux()
	serveQuota(mux, "0", "0")

	var listings int
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		listings++
		w.Write([]byte(`{"files":[{"name":"report.pdf","path":"/alice/report.pdf","type":"file"}]}`))
	})

	var deletedPath string
	mux.HandleFunc("/delete", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		deletedPath = r.PostForm.Get("path")
		w.Write([]byte(`{"status":"ok"}`))
	})

	b := newBrowser(t, mux)
	require.NoError(t, b.Refresh(context.Background()))
	require.Equal(t, 1, listings)

	require.NoError(t, b.Delete(context.Background(), "report.pdf"))
	require.Equal(t, "report.pdf", deletedPath)
	require.Equal(t, 2, listings, "delete must refetch the listing")
}

func TestDeleteInsideFolder(t *testing.T) {
	mux := http.NewServeMux()
	serveQuota(mux, "0", "0")
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"files":[{"name":"Docs","path":"/alice/Docs/","type":"directory"}]}`))
	})

	var listDirCalls int
	mux.HandleFunc("/list-dir", func(w http.ResponseWriter, r *http.Request) {
		listDirCalls++
		w.Write([]byte(`{"items":[{"name":"report.pdf","path":"/alice/Docs/report.pdf","type":"file"}]}`))
	})

	var deletedPath string
	mux.HandleFunc("/delete", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		deletedPath = r.PostForm.Get("path")
		w.Write([]byte(`{"status":"ok"}`))
	})

	b := newBrowser(t, mux)
	require.NoError(t, b.Refresh(context.Background()))
	require.NoError(t, b.Navigate(context.Background(), "Docs"))
	require.Equal(t, 1, listDirCalls)

	require.NoError(t, b.Delete(context.Background(), "report.pdf"))
	require.Equal(t, "Docs/report.pdf", deletedPath)
	require.Equal(t, 2, listDirCalls, "delete must refetch the open folder")
}

func TestMoveFlow(t *testing.T) {
	mux := http.NewServeMux()
	serveQuota(mux, "0", "0")
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"files":[
			{"name":"Archive","path":"/alice/Archive/","type":"directory"},
			{"name":"report.pdf","path":"/alice/report.pdf","type":"file"}
		]}`))
	})

	var source, destination string
	mux.HandleFunc("/move", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		source = r.PostForm.Get("source")
		destination = r.PostForm.Get("destination")
		w.Write([]byte(`{"status":"ok"}`))
	})

	b := newBrowser(t, mux)
	require.NoError(t, b.Refresh(context.Background()))

	require.Equal(t, []string{"Archive"}, b.State().Folders)

	require.Error(t, b.StartMove("missing.txt"))

	require.NoError(t, b.StartMove("report.pdf"))
	require.NotNil(t, b.State().PendingMove)

	// The destination is the bare target folder.
	require.NoError(t, b.ConfirmMove(context.Background(), "Archive"))
	require.Equal(t, "report.pdf", source)
	require.Equal(t, "Archive", destination)
	require.Nil(t, b.State().PendingMove)

	// A move to the root sends an empty destination.
	destination = "sentinel"
	require.NoError(t, b.StartMove("report.pdf"))
	require.NoError(t, b.ConfirmMove(context.Background(), ""))
	require.Equal(t, "", destination)
}

func TestCancelMove(t *testing.T) {
	mux := http.NewServeMux()
	serveQuota(mux, "0", "0")
	mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"files":[{"name":"report.pdf","path":"/alice/report.pdf","type":"file"}]}`))
	})

	b := newBrowser(t, mux)
	require.NoError(t, b.Refresh(context.Background()))

	require.NoError(t, b.StartMove("report.pdf"))
	b.CancelMove()
	require.Nil(t, b.State().PendingMove)

	require.EqualError(t, b.ConfirmMove(context.Background(), ""), "no pending move")
}
