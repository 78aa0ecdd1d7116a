package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ChiHao144/CloudStorageApp/api"
	"github.com/ChiHao144/CloudStorageApp/browser"
	"github.com/ChiHao144/CloudStorageApp/payment"
	"github.com/ChiHao144/CloudStorageApp/session"
	"github.com/ChiHao144/CloudStorageApp/store"
	"github.com/ChiHao144/CloudStorageApp/tasks"
	"github.com/ChiHao144/CloudStorageApp/web/template"
)

type Handler struct {
	client        *api.Client
	session       *session.Store
	browser       *browser.Browser
	monitor       *tasks.Monitor
	accounts      *store.Accounts
	templatesPath string
}

// NewHandler builds the web surface. accounts may be nil when the FTP
// gateway is not configured.
func NewHandler(client *api.Client, sess *session.Store, br *browser.Browser, monitor *tasks.Monitor, accounts *store.Accounts, templatesPath string) *Handler {
	return &Handler{
		client:        client,
		session:       sess,
		browser:       br,
		monitor:       monitor,
		accounts:      accounts,
		templatesPath: templatesPath,
	}
}

// pageData is what every page template receives.
type pageData struct {
	Username string
	State    browser.State
	Tier     string
	Plans    []payment.Plan
	Tasks    []tasks.Task
	Msg      string
	Err      string
}

func (h *Handler) page(r *http.Request) pageData {
	data := pageData{
		Username: h.session.Username(),
		State:    h.browser.State(),
		Plans:    payment.Plans,
		Tasks:    h.monitor.List(0, 20),
		Msg:      r.URL.Query().Get("msg"),
		Err:      r.URL.Query().Get("err"),
	}

	if data.State.Quota != nil {
		data.Tier = payment.TierFor(data.State.Quota.TotalBytes())
	}

	return data
}

func (h *Handler) render(w http.ResponseWriter, name string, data pageData) {
	tpls := template.ReadTemplates(h.templatesPath)

	tpl := tpls.Lookup(name)
	if tpl == nil {
		http.Error(w, "template not found: "+name, http.StatusInternalServerError)
		return
	}

	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// redirectErr surfaces a one-shot error as a query parameter of the
// target page.
func redirectErr(w http.ResponseWriter, r *http.Request, target, msg string) {
	redirect(w, r, target+"?err="+url.QueryEscape(msg))
}

func redirectMsg(w http.ResponseWriter, r *http.Request, target, msg string) {
	redirect(w, r, target+"?msg="+url.QueryEscape(msg))
}

// Dashboard refreshes the browser for the current path and renders
// the listing. Refresh failures are already part of the browser state.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	_ = h.browser.Refresh(r.Context())

	h.render(w, "index", h.page(r))
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login", h.page(r))
}

// Login verifies the credentials against the backend first; only a
// successful response reaches the session store.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	if _, err := h.client.Login(r.Context(), username, password); err != nil {
		data := h.page(r)
		data.Err = api.Message(err)
		h.render(w, "login", data)
		return
	}

	if err := h.session.Login(username, password); err != nil {
		data := h.page(r)
		data.Err = err.Error()
		h.render(w, "login", data)
		return
	}

	redirect(w, r, "/")
}

func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register", h.page(r))
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if msg := validateRegistration(username, password); msg != "" {
		data := h.page(r)
		data.Err = msg
		h.render(w, "register", data)
		return
	}

	if _, err := h.client.Register(r.Context(), username, password); err != nil {
		data := h.page(r)
		data.Err = api.Message(err)
		h.render(w, "register", data)
		return
	}

	redirectMsg(w, r, "/login", "registration successful, please log in")
}

// validateRegistration catches bad input before any request is issued.
func validateRegistration(username, password string) string {
	if username == "" {
		return "username is required"
	}

	if len(password) < 8 {
		return "password must be at least 8 characters"
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			hasLetter = true
		}
	}

	if !hasLetter || !hasDigit {
		return "password must contain letters and digits"
	}

	return ""
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(); err != nil {
		redirectErr(w, r, "/login", err.Error())
		return
	}

	redirect(w, r, "/login")
}

func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	if err := h.browser.Navigate(r.Context(), r.FormValue("name")); err != nil {
		redirectErr(w, r, "/", api.Message(err))
		return
	}

	redirect(w, r, "/")
}

func (h *Handler) GoBack(w http.ResponseWriter, r *http.Request) {
	if err := h.browser.GoBack(r.Context()); err != nil {
		redirectErr(w, r, "/", api.Message(err))
		return
	}

	redirect(w, r, "/")
}

// Open dispatches a click on an entry: directories navigate, preview
// kinds show in-page, everything else becomes a direct download.
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")

	entry, ok := h.findEntry(name)
	if !ok {
		redirectErr(w, r, "/", "no such entry: "+name)
		return
	}

	result, err := h.browser.Open(r.Context(), entry)
	if err != nil {
		redirectErr(w, r, "/", api.Message(err))
		return
	}

	if result.DownloadURL != "" {
		redirect(w, r, result.DownloadURL)
		return
	}

	redirect(w, r, "/")
}

func (h *Handler) findEntry(name string) (api.FileEntry, bool) {
	for _, entry := range h.browser.State().Entries {
		if entry.DisplayName() == name {
			return entry, true
		}
	}

	return api.FileEntry{}, false
}

func (h *Handler) ClosePreview(w http.ResponseWriter, r *http.Request) {
	h.browser.ClosePreview()
	redirect(w, r, "/")
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	u, err := h.browser.DownloadURL(r.URL.Query().Get("name"))
	if err != nil {
		redirectErr(w, r, "/", err.Error())
		return
	}

	redirect(w, r, u)
}

// Delete requires the confirmation flag the prompt form sets; a plain
// request never deletes anything.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("confirmed") != "yes" {
		redirect(w, r, "/")
		return
	}

	name := r.FormValue("name")
	if err := h.browser.Delete(r.Context(), name); err != nil {
		redirectErr(w, r, "/", api.Message(err))
		return
	}

	redirectMsg(w, r, "/", name+" deleted")
}

func (h *Handler) MoveStart(w http.ResponseWriter, r *http.Request) {
	if err := h.browser.StartMove(r.FormValue("name")); err != nil {
		redirectErr(w, r, "/", err.Error())
		return
	}

	redirect(w, r, "/")
}

func (h *Handler) MoveConfirm(w http.ResponseWriter, r *http.Request) {
	if err := h.browser.ConfirmMove(r.Context(), r.FormValue("target")); err != nil {
		redirectErr(w, r, "/", api.Message(err))
		return
	}

	redirectMsg(w, r, "/", "moved")
}

func (h *Handler) MoveCancel(w http.ResponseWriter, r *http.Request) {
	h.browser.CancelMove()
	redirect(w, r, "/")
}

func (h *Handler) ShareOpen(w http.ResponseWriter, r *http.Request) {
	if _, err := h.browser.OpenShare(r.Context(), r.FormValue("name")); err != nil {
		redirectErr(w, r, "/", api.Message(err))
		return
	}

	redirect(w, r, "/")
}

func (h *Handler) ShareClose(w http.ResponseWriter, r *http.Request) {
	h.browser.CloseShare()
	redirect(w, r, "/")
}

func (h *Handler) sharePanel() *browser.SharePanel {
	return h.browser.State().PendingShare
}

func (h *Handler) ShareToUser(w http.ResponseWriter, r *http.Request) {
	panel := h.sharePanel()
	if panel == nil {
		redirect(w, r, "/")
		return
	}

	err := panel.ShareToUser(r.Context(), r.FormValue("target_user"), r.FormValue("can_edit") == "on")
	if err != nil {
		redirectErr(w, r, "/", api.Message(err))
		return
	}

	redirectMsg(w, r, "/", "shared with "+r.FormValue("target_user"))
}

func (h *Handler) SharePublic(w http.ResponseWriter, r *http.Request) {
	panel := h.sharePanel()
	if panel == nil {
		redirect(w, r, "/")
		return
	}

	share, err := panel.CreatePublicLink(r.Context())
	if err != nil {
		redirectErr(w, r, "/", api.Message(err))
		return
	}

	redirectMsg(w, r, "/", "public link: "+share.URL)
}

func (h *Handler) ShareDelete(w http.ResponseWriter, r *http.Request) {
	panel := h.sharePanel()
	if panel == nil {
		redirect(w, r, "/")
		return
	}

	shareID, err := strconv.ParseInt(r.FormValue("share_id"), 10, 64)
	if err != nil {
		redirectErr(w, r, "/", "bad share id")
		return
	}

	if err := panel.DeleteShare(r.Context(), shareID); err != nil {
		redirectErr(w, r, "/", api.Message(err))
		return
	}

	redirectMsg(w, r, "/", "share revoked")
}

func (h *Handler) UploadPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "upload", h.page(r))
}

// Upload stores the submitted file into the currently open directory.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	creds, err := h.session.Credentials()
	if err != nil {
		redirectErr(w, r, "/upload", err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		redirectErr(w, r, "/upload", "no file selected")
		return
	}
	defer file.Close()

	rel := header.Filename
	if dir := h.browser.State().CurrentPath; dir != "" {
		rel = dir + "/" + rel
	}

	if err := h.client.Upload(r.Context(), creds, rel, file); err != nil {
		redirectErr(w, r, "/upload", api.Message(err))
		return
	}

	redirectMsg(w, r, "/", header.Filename+" uploaded")
}
