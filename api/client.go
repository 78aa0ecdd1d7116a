package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ChiHao144/CloudStorageApp/config"
)

// Client is a typed request builder over the CloudStorageApp backend.
// It holds no session state: authenticated calls receive credentials
// explicitly.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(cnf config.Backend, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cnf.BaseURL, "/"),
		http:    &http.Client{Timeout: time.Duration(cnf.Timeout)},
		logger:  logger,
	}
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) endpoint(p string, query url.Values) string {
	u := c.baseURL + p
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u
}

func withAuth(values url.Values, creds Credentials) url.Values {
	if values == nil {
		values = url.Values{}
	}

	values.Set("username", creds.Username)
	values.Set("password", creds.Password)

	return values
}

// getJSON issues a GET and decodes a JSON body into out (skipped when
// out is nil).
func (c *Client) getJSON(ctx context.Context, p string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(p, query), nil)
	if err != nil {
		return err
	}

	return c.do(req, out)
}

// postForm issues a POST with URL-encoded form fields and decodes a
// JSON body into out (skipped when out is nil).
func (c *Client) postForm(ctx context.Context, p string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(p, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	c.logger.Debug("backend request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path))

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		return newBackendError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &BackendError{Status: resp.StatusCode, Message: "malformed response body"}
	}

	return nil
}

// raw issues a request and hands the undecoded body to the caller,
// which must close it.
func (c *Client) raw(req *http.Request) (io.ReadCloser, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, newBackendError(resp.StatusCode, body)
	}

	return resp.Body, nil
}
