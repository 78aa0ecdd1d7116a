// Package browser drives the file-browsing state of the gateway: the
// current directory, its listing, quota, preview, and the delete,
// move and share flows layered on top.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/ChiHao144/CloudStorageApp/api"
)

// Preview is the transient in-page preview state. Content is a stream
// URL for image/video/pdf and the fetched text for text files.
type Preview struct {
	Kind    Kind
	Name    string
	Content string
	Loading bool
}

// State is a snapshot of the browser. Slices must be treated as
// read-only by callers.
type State struct {
	CurrentPath  string
	Entries      []api.FileEntry
	Folders      []string
	Quota        *api.Quota
	Loading      bool
	Err          string
	Preview      *Preview
	PendingMove  *api.FileEntry
	PendingShare *SharePanel
}

type Browser struct {
	client *api.Client
	creds  api.CredentialProvider
	logger *zap.Logger

	mu sync.Mutex
	// gen invalidates refreshes that settle after a newer
	// navigation already started.
	gen   uint64
	state State
}

func New(client *api.Client, creds api.CredentialProvider, logger *zap.Logger) *Browser {
	return &Browser{
		client: client,
		creds:  creds,
		logger: logger,
	}
}

// State returns the current snapshot.
func (b *Browser) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

// Refresh re-requests the quota and the listing of the current
// directory. The two calls run together and settle independently: a
// quota failure never hides a good listing, and vice versa. A failed
// listing keeps the previous entries and surfaces the error.
func (b *Browser) Refresh(ctx context.Context) error {
	creds, err := b.creds.Credentials()
	if err != nil {
		b.mu.Lock()
		b.state.Loading = false
		b.state.Err = err.Error()
		b.mu.Unlock()

		return err
	}

	b.mu.Lock()
	b.gen++
	gen := b.gen
	dir := b.state.CurrentPath
	b.state.Loading = true
	b.state.Err = ""
	b.mu.Unlock()

	var (
		wg sync.WaitGroup

		quota    api.Quota
		quotaErr error

		entries []api.FileEntry
		listErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		quota, quotaErr = b.client.Quota(ctx, creds)
	}()
	go func() {
		defer wg.Done()
		if dir == "" {
			entries, listErr = b.client.ListRoot(ctx, creds)
		} else {
			entries, listErr = b.client.ListDir(ctx, creds, dir)
		}
	}()
	wg.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()

	if gen != b.gen {
		// A newer navigation superseded this refresh; its result
		// must not overwrite the newer state.
		return nil
	}

	b.state.Loading = false

	if quotaErr != nil {
		b.logger.Warn("quota request failed", zap.Error(quotaErr))
	} else {
		b.state.Quota = &quota
	}

	if listErr != nil {
		b.state.Err = api.Message(listErr)
		return fmt.Errorf("list %q: %w", dir, listErr)
	}

	filtered := FilterEntries(entries, creds.Username, dir)
	b.state.Entries = filtered
	b.state.Folders = folderTargets(filtered, dir)

	return nil
}

// Navigate enters a sub-directory of the current path. Entering the
// folder that is already open is a no-op.
func (b *Browser) Navigate(ctx context.Context, name string) error {
	b.mu.Lock()
	current := b.state.CurrentPath
	if name == api.NameFromPath(current) && current != "" {
		b.mu.Unlock()
		return nil
	}

	b.state.CurrentPath = joinRel(current, name)
	b.state.Preview = nil
	b.mu.Unlock()

	return b.Refresh(ctx)
}

// GoBack drops the last path segment. At the root it does nothing.
func (b *Browser) GoBack(ctx context.Context) error {
	b.mu.Lock()
	if b.state.CurrentPath == "" {
		b.mu.Unlock()
		return nil
	}

	segments := strings.Split(b.state.CurrentPath, "/")
	b.state.CurrentPath = strings.Join(segments[:len(segments)-1], "/")
	b.state.Preview = nil
	b.mu.Unlock()

	return b.Refresh(ctx)
}

// OpenResult tells the caller what Open decided: a navigation, an
// in-page preview, or a direct download.
type OpenResult struct {
	Navigated   bool
	Preview     *Preview
	DownloadURL string
}

// Open handles a click on an entry. Directories navigate; files are
// classified by suffix into a preview or a direct download.
func (b *Browser) Open(ctx context.Context, entry api.FileEntry) (OpenResult, error) {
	name := entry.DisplayName()

	if entry.IsDir() {
		if err := b.Navigate(ctx, name); err != nil {
			return OpenResult{}, err
		}

		return OpenResult{Navigated: true}, nil
	}

	creds, err := b.creds.Credentials()
	if err != nil {
		return OpenResult{}, err
	}

	rel := joinRel(b.State().CurrentPath, name)

	switch Classify(name) {
	case KindImage, KindVideo, KindPDF:
		preview := &Preview{Kind: Classify(name), Name: name, Content: b.client.StreamURL(creds, rel)}

		b.mu.Lock()
		b.state.Preview = preview
		b.mu.Unlock()

		return OpenResult{Preview: preview}, nil

	case KindText:
		preview := &Preview{Kind: KindText, Name: name, Loading: true}

		b.mu.Lock()
		b.state.Preview = preview
		b.mu.Unlock()

		content, err := b.client.FileContent(ctx, creds, rel)

		b.mu.Lock()
		defer b.mu.Unlock()

		if b.state.Preview != preview {
			// Preview was closed or replaced while fetching.
			return OpenResult{}, nil
		}

		if err != nil {
			b.state.Preview = nil
			b.state.Err = api.Message(err)
			return OpenResult{}, fmt.Errorf("file content %q: %w", rel, err)
		}

		preview.Content = content
		preview.Loading = false

		return OpenResult{Preview: preview}, nil

	default:
		return OpenResult{DownloadURL: b.client.DownloadURL(creds, rel)}, nil
	}
}

func (b *Browser) ClosePreview() {
	b.mu.Lock()
	b.state.Preview = nil
	b.mu.Unlock()
}

// DownloadURL builds the direct download link for a named entry of the
// current directory.
func (b *Browser) DownloadURL(name string) (string, error) {
	creds, err := b.creds.Credentials()
	if err != nil {
		return "", err
	}

	return b.client.DownloadURL(creds, joinRel(b.State().CurrentPath, name)), nil
}

// Delete removes the named entry and refreshes the listing. On failure
// the existing listing stays untouched.
func (b *Browser) Delete(ctx context.Context, name string) error {
	creds, err := b.creds.Credentials()
	if err != nil {
		return err
	}

	rel := joinRel(b.State().CurrentPath, name)
	if err := b.client.Delete(ctx, creds, rel); err != nil {
		return fmt.Errorf("delete %q: %w", rel, err)
	}

	return b.Refresh(ctx)
}

// StartMove marks the named entry as the move candidate. Targets come
// from the folder list of the current listing.
func (b *Browser) StartMove(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.state.Entries {
		if b.state.Entries[i].DisplayName() == name {
			entry := b.state.Entries[i]
			b.state.PendingMove = &entry
			return nil
		}
	}

	return fmt.Errorf("no entry named %q", name)
}

// ConfirmMove relocates the pending entry into the target folder. An
// empty target means the storage root.
func (b *Browser) ConfirmMove(ctx context.Context, target string) error {
	b.mu.Lock()
	pending := b.state.PendingMove
	current := b.state.CurrentPath
	b.mu.Unlock()

	if pending == nil {
		return fmt.Errorf("no pending move")
	}

	creds, err := b.creds.Credentials()
	if err != nil {
		return err
	}

	// The backend takes the destination folder, not the full new
	// path; the root is the empty string.
	source := joinRel(current, pending.DisplayName())

	if err := b.client.Move(ctx, creds, source, target); err != nil {
		return fmt.Errorf("move %q to %q: %w", source, target, err)
	}

	b.mu.Lock()
	b.state.PendingMove = nil
	b.mu.Unlock()

	return b.Refresh(ctx)
}

func (b *Browser) CancelMove() {
	b.mu.Lock()
	b.state.PendingMove = nil
	b.mu.Unlock()
}

// FilterEntries drops noise from a raw listing: unnamed entries, the
// owner's root marker, and entries that are the currently open
// directory itself. Comparison happens on decoded paths with trailing
// slashes trimmed, so filtering an already-filtered list changes
// nothing.
func FilterEntries(entries []api.FileEntry, owner, currentPath string) []api.FileEntry {
	kept := make([]api.FileEntry, 0, len(entries))

	for _, entry := range entries {
		name := entry.DisplayName()
		if name == "" || name == owner {
			continue
		}

		if currentPath != "" {
			p := entry.Path
			if decoded, err := url.QueryUnescape(p); err == nil {
				p = decoded
			}
			p = strings.TrimSuffix(p, "/")

			if p == currentPath || strings.HasSuffix(p, "/"+currentPath) {
				continue
			}
		}

		kept = append(kept, entry)
	}

	slices.SortStableFunc(kept, func(a, b api.FileEntry) bool {
		if a.IsDir() != b.IsDir() {
			return a.IsDir()
		}

		return a.DisplayName() < b.DisplayName()
	})

	return kept
}

// folderTargets lists the directories of the current listing as full
// relative paths, for move-target selection.
func folderTargets(entries []api.FileEntry, currentPath string) []string {
	var folders []string
	for _, entry := range entries {
		if entry.IsDir() {
			folders = append(folders, joinRel(currentPath, entry.DisplayName()))
		}
	}

	return folders
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}

	return dir + "/" + name
}
