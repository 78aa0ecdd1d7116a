// Package afero_cloud exposes the remote cloud drive as an afero.Fs,
// backed entirely by the backend HTTP API. File reads land in a local
// temp copy; writes are pushed back on Close.
package afero_cloud

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ChiHao144/CloudStorageApp/api"
)

var _ afero.Fs = (*Drive)(nil)

var ErrNotSupported = errors.New("not supported")

type Drive struct {
	client   *api.Client
	creds    api.Credentials
	tempPath string
	logger   *zap.Logger
}

func NewDrive(client *api.Client, creds api.Credentials, tempPath string, logger *zap.Logger) *Drive {
	return &Drive{
		client:   client,
		creds:    creds,
		tempPath: tempPath,
		logger:   logger,
	}
}

func (d *Drive) Name() string {
	return "cloudstorage"
}

// rel converts an afero path to the backend's relative form. The
// storage root is the empty string.
func rel(name string) string {
	name = path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))

	return strings.TrimPrefix(name, "/")
}

func (d *Drive) Stat(name string) (os.FileInfo, error) {
	relPath := rel(name)
	if relPath == "" {
		return rootInfo{}, nil
	}

	entry, err := d.findEntry(context.Background(), relPath)
	if err != nil {
		return nil, err
	}

	return FileInfo{entry: entry}, nil
}

// findEntry locates one entry by listing its parent directory.
func (d *Drive) findEntry(ctx context.Context, relPath string) (api.FileEntry, error) {
	dir := path.Dir(relPath)
	if dir == "." {
		dir = ""
	}
	base := path.Base(relPath)

	entries, err := d.list(ctx, dir)
	if err != nil {
		return api.FileEntry{}, err
	}

	for _, entry := range entries {
		if entry.DisplayName() == base {
			return entry, nil
		}
	}

	return api.FileEntry{}, os.ErrNotExist
}

func (d *Drive) list(ctx context.Context, dir string) ([]api.FileEntry, error) {
	var (
		entries []api.FileEntry
		err     error
	)

	if dir == "" {
		entries, err = d.client.ListRoot(ctx, d.creds)
	} else {
		entries, err = d.client.ListDir(ctx, d.creds, dir)
	}
	if err != nil {
		var backendErr *api.BackendError
		if errors.As(err, &backendErr) && backendErr.Status == 404 {
			return nil, os.ErrNotExist
		}

		return nil, err
	}

	return entries, nil
}

func (d *Drive) Open(name string) (afero.File, error) {
	return d.OpenFile(name, os.O_RDONLY, 0)
}

func (d *Drive) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	relPath := rel(name)
	ctx := context.Background()

	if relPath == "" {
		return d.openDir(ctx, relPath, rootInfo{})
	}

	entry, err := d.findEntry(ctx, relPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && flag&os.O_CREATE != 0 {
			return d.createFile(relPath, flag)
		}

		return nil, err
	}

	if entry.IsDir() {
		return d.openDir(ctx, relPath, FileInfo{entry: entry})
	}

	return d.openFile(ctx, relPath, entry, flag)
}

func (d *Drive) Create(name string) (afero.File, error) {
	return d.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
}

func (d *Drive) openDir(ctx context.Context, relPath string, stat os.FileInfo) (afero.File, error) {
	entries, err := d.list(ctx, relPath)
	if err != nil {
		return nil, err
	}

	infos := make([]os.FileInfo, 0, len(entries))
	for _, entry := range entries {
		infos = append(infos, FileInfo{entry: entry})
	}

	return &File{
		drive: d,
		rel:   relPath,
		stat:  stat,
		infos: infos,
	}, nil
}

// openFile materializes the remote content in a local temp file.
func (d *Drive) openFile(ctx context.Context, relPath string, entry api.FileEntry, flag int) (afero.File, error) {
	tmp, err := os.CreateTemp(d.tempPath, "*_"+path.Base(relPath))
	if err != nil {
		return nil, err
	}

	if flag&os.O_TRUNC == 0 {
		body, err := d.client.Download(ctx, d.creds, relPath)
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return nil, err
		}

		_, err = io.Copy(tmp, body)
		body.Close()
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return nil, err
		}

		if _, err := tmp.Seek(0, io.SeekStart); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return nil, err
		}
	}

	return &File{
		File:  tmp,
		drive: d,
		rel:   relPath,
		flag:  flag,
		stat:  FileInfo{entry: entry},
	}, nil
}

func (d *Drive) createFile(relPath string, flag int) (afero.File, error) {
	tmp, err := os.CreateTemp(d.tempPath, "*_"+path.Base(relPath))
	if err != nil {
		return nil, err
	}

	return &File{
		File:  tmp,
		drive: d,
		rel:   relPath,
		flag:  flag,
	}, nil
}

func (d *Drive) Remove(name string) error {
	relPath := rel(name)
	if relPath == "" {
		return os.ErrInvalid
	}

	return d.client.Delete(context.Background(), d.creds, relPath)
}

func (d *Drive) RemoveAll(name string) error {
	// The backend deletes folders recursively.
	return d.Remove(name)
}

func (d *Drive) Rename(oldname, newname string) error {
	return d.client.Move(context.Background(), d.creds, rel(oldname), rel(newname))
}

// The backend exposes no directory-creation or permission endpoints.

func (d *Drive) Mkdir(name string, perm os.FileMode) error {
	return ErrNotSupported
}

func (d *Drive) MkdirAll(name string, perm os.FileMode) error {
	return ErrNotSupported
}

func (d *Drive) Chmod(name string, mode os.FileMode) error {
	return ErrNotSupported
}

func (d *Drive) Chown(name string, uid, gid int) error {
	return ErrNotSupported
}

func (d *Drive) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return ErrNotSupported
}
