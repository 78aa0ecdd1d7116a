package afero_cloud

import (
	"context"
	"io/fs"
	"os"
	"time"

	"github.com/ChiHao144/CloudStorageApp/api"
)

var _ fs.FileInfo = FileInfo{}

// FileInfo adapts a listing entry to fs.FileInfo.
type FileInfo struct {
	entry api.FileEntry
}

func (f FileInfo) Name() string {
	return f.entry.DisplayName()
}

func (f FileInfo) Size() int64 {
	return f.entry.SizeBytes()
}

func (f FileInfo) Mode() fs.FileMode {
	if f.IsDir() {
		return fs.ModeDir | 0o755
	}

	return 0o644
}

func (f FileInfo) ModTime() time.Time {
	// The backend reports a handful of timestamp layouts.
	for _, layout := range []string{time.RFC3339, time.RFC1123, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, f.entry.Modified); err == nil {
			return t
		}
	}

	return time.Time{}
}

func (f FileInfo) IsDir() bool {
	return f.entry.IsDir()
}

func (f FileInfo) Sys() any {
	return nil
}

// rootInfo stands in for the storage root, which never shows up in any
// listing.
type rootInfo struct{}

func (rootInfo) Name() string       { return "/" }
func (rootInfo) Size() int64        { return 0 }
func (rootInfo) Mode() fs.FileMode  { return fs.ModeDir | 0o755 }
func (rootInfo) ModTime() time.Time { return time.Time{} }
func (rootInfo) IsDir() bool        { return true }
func (rootInfo) Sys() any           { return nil }

// File is an open handle. For regular files it wraps a local temp
// copy; for directories it carries the listing.
type File struct {
	*os.File
	drive *Drive

	rel  string
	flag int
	stat os.FileInfo

	infos         []os.FileInfo
	readDirN      int
	readDirNamesN int
}

func (f *File) Name() string {
	return "/" + f.rel
}

func (f *File) Stat() (fs.FileInfo, error) {
	if f.File != nil {
		if f.writable() {
			// Size of an open write handle comes from the temp
			// copy.
			return f.File.Stat()
		}
	}

	if f.stat != nil {
		return f.stat, nil
	}

	return f.File.Stat()
}

func (f *File) Readdir(count int) ([]os.FileInfo, error) {
	if count == -1 {
		count = len(f.infos)
	}
	if count > len(f.infos)-f.readDirN {
		count = len(f.infos) - f.readDirN
	}
	if count < 0 {
		return nil, nil
	}

	infos := f.infos[f.readDirN : f.readDirN+count]
	f.readDirN += count

	return infos, nil
}

func (f *File) Readdirnames(n int) ([]string, error) {
	if n == -1 {
		n = len(f.infos)
	}
	if n > len(f.infos)-f.readDirNamesN {
		n = len(f.infos) - f.readDirNamesN
	}
	if n < 0 {
		return nil, nil
	}

	names := make([]string, 0, n)
	for _, info := range f.infos[f.readDirNamesN : f.readDirNamesN+n] {
		names = append(names, info.Name())
	}

	f.readDirNamesN += n

	return names, nil
}

func (f *File) Sync() error {
	if f.File != nil {
		return f.File.Sync()
	}

	return nil
}

func (f *File) writable() bool {
	return f.flag&(os.O_WRONLY|os.O_RDWR) != 0
}

// Close uploads the temp copy when the handle was writable, then
// discards it.
func (f *File) Close() error {
	if f.File == nil {
		return nil
	}

	if f.writable() {
		if err := f.upload(); err != nil {
			f.File.Close()
			os.Remove(f.File.Name())
			return err
		}
	}

	name := f.File.Name()
	closeErr := f.File.Close()
	os.Remove(name)

	return closeErr
}

func (f *File) upload() error {
	if _, err := f.File.Seek(0, 0); err != nil {
		return err
	}

	return f.drive.client.Upload(context.Background(), f.drive.creds, f.rel, f.File)
}
