package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ChiHao144/CloudStorageApp/api"
	"github.com/ChiHao144/CloudStorageApp/browser"
)

// Files lists the directory given by the dir query parameter, the
// account root when it is empty.
func (h *Handler) Files(w http.ResponseWriter, r *http.Request) ([]api.FileEntry, error) {
	creds, err := h.session.Credentials()
	if err != nil {
		return nil, err
	}

	dir := r.URL.Query().Get("dir")

	var entries []api.FileEntry
	if dir == "" {
		entries, err = h.client.ListRoot(r.Context(), creds)
	} else {
		entries, err = h.client.ListDir(r.Context(), creds, dir)
	}
	if err != nil {
		return nil, err
	}

	return browser.FilterEntries(entries, creds.Username, dir), nil
}

func (h *Handler) Quota(w http.ResponseWriter, r *http.Request) (api.Quota, error) {
	creds, err := h.session.Credentials()
	if err != nil {
		return api.Quota{}, err
	}

	return h.client.Quota(r.Context(), creds)
}

type taskInfo struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Details  string `json:"details"`
}

func (h *Handler) Tasks(w http.ResponseWriter, r *http.Request) ([]taskInfo, error) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}

	list := h.monitor.List(offset, limit)

	infos := make([]taskInfo, 0, len(list))
	for _, t := range list {
		infos = append(infos, taskInfo{
			Type:     t.Type(),
			Name:     t.Name(),
			Status:   t.Status().String(),
			Progress: t.Progress(),
			Details:  t.Details(),
		})
	}

	return infos, nil
}

func (h *Handler) DeletePath(w http.ResponseWriter, r *http.Request) (NoResponse, error) {
	creds, err := h.session.Credentials()
	if err != nil {
		return nil, err
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		return nil, ErrNotFound
	}

	return nil, h.client.Delete(r.Context(), creds, path)
}

type ftpAccount struct {
	Login string `json:"login"`
}

// CreateFTPAccount provisions an FTP login bound to the current
// session's backend credentials.
func (h *Handler) CreateFTPAccount(w http.ResponseWriter, r *http.Request) (ftpAccount, error) {
	if h.accounts == nil {
		return ftpAccount{}, ErrNotFound
	}

	creds, err := h.session.Credentials()
	if err != nil {
		return ftpAccount{}, err
	}

	login := r.FormValue("login")
	password := r.FormValue("password")
	if login == "" || password == "" {
		return ftpAccount{}, errors.New("login and password are required")
	}

	account, err := h.accounts.Create(r.Context(), login, password, creds.Username, creds.Password)
	if err != nil {
		return ftpAccount{}, err
	}

	return ftpAccount{Login: account.Login}, nil
}
