package api

import (
	"context"
	"net/url"
)

type statusBody struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

func (b statusBody) text() string {
	if b.Message != "" {
		return b.Message
	}

	return b.Status
}

// Register creates a new backend account and returns the confirmation
// message.
func (c *Client) Register(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var body statusBody
	if err := c.postForm(ctx, "/register", form, &body); err != nil {
		return "", err
	}

	return body.text(), nil
}

// Login verifies the credentials against the backend. It does not
// establish any server-side session; a nil error only means the
// username/password pair is valid right now.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var body statusBody
	if err := c.postForm(ctx, "/login", form, &body); err != nil {
		return "", err
	}

	return body.text(), nil
}

func (c *Client) Profile(ctx context.Context, creds Credentials) (Profile, error) {
	var profile Profile
	if err := c.getJSON(ctx, "/auth/me", withAuth(nil, creds), &profile); err != nil {
		return Profile{}, err
	}

	return profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, creds Credentials, update ProfileUpdate) error {
	form := withAuth(nil, creds)
	form.Set("displayname", update.DisplayName)
	form.Set("email", update.Email)
	form.Set("new_password", update.NewPassword)

	return c.postForm(ctx, "/auth/me/update", form, nil)
}
