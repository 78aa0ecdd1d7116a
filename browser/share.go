package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/ChiHao144/CloudStorageApp/api"
)

// ErrNoShareTarget is a client-side validation failure: no request is
// issued without a target username.
var ErrNoShareTarget = errors.New("share target username is required")

// SharePanel is the share sub-flow for one entry. It snapshots the
// entry's full relative path when opened and keeps its own share list,
// refetched after every mutation so several operations can happen in
// one sitting. Concurrent handler requests may hit the same panel, so
// the list is guarded by its own lock.
type SharePanel struct {
	client *api.Client
	creds  api.CredentialProvider

	Name    string
	RelPath string

	mu     sync.Mutex
	shares []api.Share
}

// Shares returns a snapshot of the current share list.
func (p *SharePanel) Shares() []api.Share {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.shares)
}

func (p *SharePanel) setShares(shares []api.Share) {
	p.mu.Lock()
	p.shares = shares
	p.mu.Unlock()
}

// OpenShare opens the share panel for the named entry of the current
// directory. A failure to load the existing shares leaves the list
// empty rather than blocking the panel.
func (b *Browser) OpenShare(ctx context.Context, name string) (*SharePanel, error) {
	panel := &SharePanel{
		client:  b.client,
		creds:   b.creds,
		Name:    name,
		RelPath: joinRel(b.State().CurrentPath, name),
	}

	if err := panel.Reload(ctx); err != nil {
		panel.setShares(nil)
	}

	b.mu.Lock()
	b.state.PendingShare = panel
	b.mu.Unlock()

	return panel, nil
}

func (b *Browser) CloseShare() {
	b.mu.Lock()
	b.state.PendingShare = nil
	b.mu.Unlock()
}

// Reload refetches the share list for the panel's path.
func (p *SharePanel) Reload(ctx context.Context) error {
	creds, err := p.creds.Credentials()
	if err != nil {
		return err
	}

	shares, err := p.client.ListShares(ctx, creds, p.RelPath)
	if err != nil {
		return fmt.Errorf("list shares %q: %w", p.RelPath, err)
	}

	p.setShares(shares)

	return nil
}

// ShareToUser grants the target user access, optionally with edit
// permission, then refreshes the panel's list.
func (p *SharePanel) ShareToUser(ctx context.Context, targetUser string, canEdit bool) error {
	if strings.TrimSpace(targetUser) == "" {
		return ErrNoShareTarget
	}

	creds, err := p.creds.Credentials()
	if err != nil {
		return err
	}

	if err := p.client.ShareToUser(ctx, creds, p.RelPath, targetUser, canEdit); err != nil {
		return fmt.Errorf("share %q to %q: %w", p.RelPath, targetUser, err)
	}

	return p.Reload(ctx)
}

// CreatePublicLink creates a token share and returns it, then
// refreshes the panel's list.
func (p *SharePanel) CreatePublicLink(ctx context.Context) (api.Share, error) {
	creds, err := p.creds.Credentials()
	if err != nil {
		return api.Share{}, err
	}

	share, err := p.client.SharePublic(ctx, creds, p.RelPath)
	if err != nil {
		return api.Share{}, fmt.Errorf("create public share %q: %w", p.RelPath, err)
	}

	if err := p.Reload(ctx); err != nil {
		return share, err
	}

	return share, nil
}

// DeleteShare revokes one share record and drops it from the panel's
// list.
func (p *SharePanel) DeleteShare(ctx context.Context, shareID int64) error {
	creds, err := p.creds.Credentials()
	if err != nil {
		return err
	}

	if err := p.client.DeleteShare(ctx, creds, shareID); err != nil {
		return fmt.Errorf("delete share %d: %w", shareID, err)
	}

	p.mu.Lock()
	kept := make([]api.Share, 0, len(p.shares))
	for _, share := range p.shares {
		if share.ID != shareID {
			kept = append(kept, share)
		}
	}
	p.shares = kept
	p.mu.Unlock()

	return nil
}
