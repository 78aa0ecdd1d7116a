package api

import (
	"context"
	"strconv"
)

// SharePublic creates a token/link share for the relative path and
// returns the created record.
func (c *Client) SharePublic(ctx context.Context, creds Credentials, rel string) (Share, error) {
	form := withAuth(nil, creds)
	form.Set("path", EncodePath(rel))

	var share Share
	if err := c.postForm(ctx, "/share/share-file", form, &share); err != nil {
		return Share{}, err
	}

	return share, nil
}

// ListShares returns the existing shares of a relative path.
func (c *Client) ListShares(ctx context.Context, creds Credentials, rel string) ([]Share, error) {
	query := withAuth(nil, creds)
	query.Set("path", EncodePath(rel))

	var shares []Share
	if err := c.getJSON(ctx, "/share/list-shares", query, &shares); err != nil {
		return nil, err
	}

	return shares, nil
}

// ShareToUser grants a named user access to the relative path,
// optionally with edit permission.
func (c *Client) ShareToUser(ctx context.Context, creds Credentials, rel, targetUser string, canEdit bool) error {
	form := withAuth(nil, creds)
	form.Set("path", EncodePath(rel))
	form.Set("target_user", targetUser)
	form.Set("can_edit", strconv.FormatBool(canEdit))

	return c.postForm(ctx, "/share/share-to-user", form, nil)
}

// DeleteShare revokes a single share record.
func (c *Client) DeleteShare(ctx context.Context, creds Credentials, shareID int64) error {
	form := withAuth(nil, creds)
	form.Set("share_id", strconv.FormatInt(shareID, 10))

	return c.postForm(ctx, "/share/delete-share", form, nil)
}
