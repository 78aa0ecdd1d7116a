// Package sync mirrors a local directory into the cloud drive: file
// system events are debounced and turned into upload/delete tasks.
package sync

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ChiHao144/CloudStorageApp/api"
	"github.com/ChiHao144/CloudStorageApp/tasks"
)

// Engine owns the watcher and hands transfer tasks to the monitor.
type Engine struct {
	root    string
	client  *api.Client
	creds   api.CredentialProvider
	monitor *tasks.Monitor
	logger  *zap.Logger
}

func NewEngine(root string, client *api.Client, creds api.CredentialProvider, monitor *tasks.Monitor, logger *zap.Logger) *Engine {
	return &Engine{
		root:    filepath.Clean(root),
		client:  client,
		creds:   creds,
		monitor: monitor,
		logger:  logger,
	}
}

// Listen watches the root recursively until ctx is done. Events are
// debounced per path so editors that write in bursts produce a single
// upload.
func (e *Engine) Listen(ctx context.Context, debounce *Debounce) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addRecursively(watcher, e.root); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Editor temp files are not worth mirroring.
			if strings.HasSuffix(event.Name, "~") {
				continue
			}

			if isOp(event.Op, fsnotify.Create) {
				if e.watchNewDir(watcher, event.Name) {
					continue
				}
			}

			debounce.Add(event, e.processEvent)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			e.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// watchNewDir registers a newly created directory with the watcher and
// reports whether the event is fully handled.
func (e *Engine) watchNewDir(watcher *fsnotify.Watcher, name string) bool {
	stat, err := os.Stat(name)
	if err != nil || !stat.IsDir() {
		return false
	}

	if err := watcher.Add(name); err != nil {
		e.logger.Warn("watch new dir", zap.String("dir", name), zap.Error(err))
	}

	return true
}

func (e *Engine) processEvent(event fsnotify.Event) {
	switch {
	case isOp(event.Op, fsnotify.Create) || isOp(event.Op, fsnotify.Write):
		e.monitor.AddTask(NewUploadTask(e, event.Name))
	case isOp(event.Op, fsnotify.Remove) || isOp(event.Op, fsnotify.Rename):
		e.monitor.AddTask(NewDeleteTask(e, event.Name))
	}
}

func addRecursively(w *fsnotify.Watcher, dirPath string) error {
	return filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return w.Add(path)
		}

		return nil
	})
}

func isOp(orig, compareTo fsnotify.Op) bool {
	return orig&compareTo == compareTo
}
