package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChiHao144/CloudStorageApp/tasks"
)

// Common carries the shared bookkeeping of one transfer task.
type Common struct {
	taskType string
	status   tasks.TaskStatus
	progress int
	details  string
}

func (c *Common) SetError(err error) {
	c.progress = 100
	c.status = tasks.TaskStatusError
	c.details = err.Error()
}

func (c *Common) SetDone() {
	c.progress = 100
	c.status = tasks.TaskStatusDone
}

func (c *Common) Type() string { return c.taskType }

func (c *Common) Progress() int { return c.progress }

func (c *Common) Status() tasks.TaskStatus { return c.status }

func (c *Common) Details() string { return c.details }

// UploadTask pushes one local file to the cloud drive.
type UploadTask struct {
	*Common
	engine       *Engine
	RelativePath string
}

func NewUploadTask(engine *Engine, localPath string) *UploadTask {
	return &UploadTask{
		Common:       &Common{taskType: "UploadFile"},
		engine:       engine,
		RelativePath: engine.RelativePath(localPath),
	}
}

func (t *UploadTask) Name() string {
	return t.RelativePath
}

func (t *UploadTask) Run(ctx context.Context) {
	t.status = tasks.TaskStatusInProgress

	creds, err := t.engine.creds.Credentials()
	if err != nil {
		t.SetError(err)
		return
	}

	f, err := os.Open(t.engine.AbsPath(t.RelativePath))
	if err != nil {
		t.SetError(fmt.Errorf("open local file: %w", err))
		return
	}
	defer f.Close()

	if err := t.engine.client.Upload(ctx, creds, t.RelativePath, f); err != nil {
		t.SetError(fmt.Errorf("upload file: %w", err))
		return
	}

	t.SetDone()
}

// DeleteTask removes one path from the cloud drive after it vanished
// locally.
type DeleteTask struct {
	*Common
	engine       *Engine
	RelativePath string
}

func NewDeleteTask(engine *Engine, localPath string) *DeleteTask {
	return &DeleteTask{
		Common:       &Common{taskType: "DeleteFile"},
		engine:       engine,
		RelativePath: engine.RelativePath(localPath),
	}
}

func (t *DeleteTask) Name() string {
	return t.RelativePath
}

func (t *DeleteTask) Run(ctx context.Context) {
	t.status = tasks.TaskStatusInProgress

	creds, err := t.engine.creds.Credentials()
	if err != nil {
		t.SetError(err)
		return
	}

	if err := t.engine.client.Delete(ctx, creds, t.RelativePath); err != nil {
		t.SetError(fmt.Errorf("delete file: %w", err))
		return
	}

	t.SetDone()
}

// RelativePath converts a watched absolute path into the backend's
// relative form.
func (e *Engine) RelativePath(localPath string) string {
	rel := strings.TrimPrefix(localPath, e.root)
	rel = strings.TrimPrefix(rel, string(filepath.Separator))

	return filepath.ToSlash(rel)
}

func (e *Engine) AbsPath(rel string) string {
	return filepath.Join(e.root, filepath.FromSlash(rel))
}
