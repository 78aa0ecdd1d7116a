package api

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
)

type listingBody struct {
	Files []FileEntry `json:"files"`
	Items []FileEntry `json:"items"`
}

func (b listingBody) entries() []FileEntry {
	// Folder listings answer with "items", the root listing with
	// "files".
	if b.Items != nil {
		return b.Items
	}

	return b.Files
}

// ListRoot lists the entries at the user's storage root.
func (c *Client) ListRoot(ctx context.Context, creds Credentials) ([]FileEntry, error) {
	var body listingBody
	if err := c.getJSON(ctx, "/files", withAuth(nil, creds), &body); err != nil {
		return nil, err
	}

	return body.entries(), nil
}

// ListDir lists the entries in the given relative directory.
func (c *Client) ListDir(ctx context.Context, creds Credentials, dir string) ([]FileEntry, error) {
	query := withAuth(nil, creds)
	query.Set("path", EncodePath(dir))

	var body listingBody
	if err := c.getJSON(ctx, "/list-dir", query, &body); err != nil {
		return nil, err
	}

	return body.entries(), nil
}

func (c *Client) Quota(ctx context.Context, creds Credentials) (Quota, error) {
	var body struct {
		Quota Quota `json:"quota"`
	}
	if err := c.getJSON(ctx, "/quota", withAuth(nil, creds), &body); err != nil {
		return Quota{}, err
	}

	return body.Quota, nil
}

// FileContent fetches the raw content of a text-like file for in-page
// preview.
func (c *Client) FileContent(ctx context.Context, creds Credentials, rel string) (string, error) {
	query := withAuth(nil, creds)
	query.Set("path", EncodePath(rel))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/file-content", query), nil)
	if err != nil {
		return "", err
	}

	body, err := c.raw(req)
	if err != nil {
		return "", err
	}
	defer body.Close()

	content, err := io.ReadAll(body)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	return string(content), nil
}

// StreamURL builds the media stream address used by image/video/pdf
// previews. The credentials end up in the URL because the backend
// accepts nothing else.
func (c *Client) StreamURL(creds Credentials, rel string) string {
	query := withAuth(nil, creds)
	query.Set("path", EncodePath(rel))

	return c.endpoint("/file-stream", query)
}

// DownloadURL builds the direct download address for a file.
func (c *Client) DownloadURL(creds Credentials, rel string) string {
	query := withAuth(nil, creds)
	query.Set("path", EncodePath(rel))

	return c.endpoint("/download", query)
}

// Download streams a file's content. The caller must close the reader.
func (c *Client) Download(ctx context.Context, creds Credentials, rel string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DownloadURL(creds, rel), nil)
	if err != nil {
		return nil, err
	}

	return c.raw(req)
}

// Upload stores content under the given relative path via a multipart
// request.
func (c *Client) Upload(ctx context.Context, creds Credentials, rel string, content io.Reader) error {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		err := writeUploadForm(form, creds, rel, content)
		if closeErr := form.Close(); err == nil {
			err = closeErr
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/upload", nil), pr)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", form.FormDataContentType())

	return c.do(req, nil)
}

func writeUploadForm(form *multipart.Writer, creds Credentials, rel string, content io.Reader) error {
	if err := form.WriteField("username", creds.Username); err != nil {
		return err
	}
	if err := form.WriteField("password", creds.Password); err != nil {
		return err
	}
	if err := form.WriteField("path", EncodePath(rel)); err != nil {
		return err
	}

	part, err := form.CreateFormFile("file", NameFromPath(rel))
	if err != nil {
		return err
	}

	_, err = io.Copy(part, content)

	return err
}

// Delete removes a file or folder at the relative path.
func (c *Client) Delete(ctx context.Context, creds Credentials, rel string) error {
	form := withAuth(nil, creds)
	form.Set("path", EncodePath(rel))

	return c.postForm(ctx, "/delete", form, nil)
}

// Move relocates source to destination. An empty destination targets
// the storage root.
func (c *Client) Move(ctx context.Context, creds Credentials, source, destination string) error {
	form := withAuth(nil, creds)
	form.Set("source", EncodePath(source))
	form.Set("destination", EncodePath(destination))

	return c.postForm(ctx, "/move", form, nil)
}
