package afero_cloud

import (
	"os"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var _ afero.Fs = Wrapper{}

// Wrapper logs every drive call at debug level, with the path in the
// relative form the backend sees. FTP clients issue a lot of stats, so
// nothing here goes above Debug.
type Wrapper struct {
	fs     afero.Fs
	logger *zap.Logger
}

func NewWrapper(fs afero.Fs, logger *zap.Logger) afero.Fs {
	return Wrapper{
		fs:     fs,
		logger: logger.Named(fs.Name()),
	}
}

// trace records one call against the wrapped drive. Errors are
// expected during normal FTP traffic (stats on missing paths), so
// they ride along as a field instead of a separate error log.
func (w Wrapper) trace(op, name string, err error, extra ...zap.Field) {
	fields := make([]zap.Field, 0, len(extra)+2)
	fields = append(fields, zap.String("path", rel(name)))
	fields = append(fields, extra...)
	if err != nil {
		fields = append(fields, zap.Error(err))
	}

	w.logger.Debug(op, fields...)
}

func (w Wrapper) Create(name string) (afero.File, error) {
	f, err := w.fs.Create(name)
	w.trace("create", name, err)

	return f, err
}

func (w Wrapper) Mkdir(name string, perm os.FileMode) error {
	err := w.fs.Mkdir(name, perm)
	w.trace("mkdir", name, err, zap.Stringer("perm", perm))

	return err
}

func (w Wrapper) MkdirAll(path string, perm os.FileMode) error {
	err := w.fs.MkdirAll(path, perm)
	w.trace("mkdirall", path, err, zap.Stringer("perm", perm))

	return err
}

func (w Wrapper) Open(name string) (afero.File, error) {
	f, err := w.fs.Open(name)
	w.trace("open", name, err)

	return f, err
}

func (w Wrapper) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := w.fs.OpenFile(name, flag, perm)
	w.trace("openfile", name, err, zap.Int("flag", flag), zap.Stringer("perm", perm))

	return f, err
}

func (w Wrapper) Remove(name string) error {
	err := w.fs.Remove(name)
	w.trace("remove", name, err)

	return err
}

func (w Wrapper) RemoveAll(path string) error {
	err := w.fs.RemoveAll(path)
	w.trace("removeall", path, err)

	return err
}

func (w Wrapper) Rename(oldname, newname string) error {
	err := w.fs.Rename(oldname, newname)
	w.trace("rename", oldname, err, zap.String("to", rel(newname)))

	return err
}

func (w Wrapper) Stat(name string) (os.FileInfo, error) {
	info, err := w.fs.Stat(name)
	w.trace("stat", name, err)

	return info, err
}

func (w Wrapper) Name() string {
	return w.fs.Name()
}

func (w Wrapper) Chmod(name string, mode os.FileMode) error {
	err := w.fs.Chmod(name, mode)
	w.trace("chmod", name, err, zap.Stringer("mode", mode))

	return err
}

func (w Wrapper) Chown(name string, uid, gid int) error {
	err := w.fs.Chown(name, uid, gid)
	w.trace("chown", name, err, zap.Int("uid", uid), zap.Int("gid", gid))

	return err
}

func (w Wrapper) Chtimes(name string, atime time.Time, mtime time.Time) error {
	err := w.fs.Chtimes(name, atime, mtime)
	w.trace("chtimes", name, err, zap.Time("atime", atime), zap.Time("mtime", mtime))

	return err
}
