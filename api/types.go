package api

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// Credentials authenticate a single backend call. The backend keeps no
// session state, so the username and password ride along on every
// authenticated request.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) Credentials() (Credentials, error) {
	return c, nil
}

// CredentialProvider supplies the current credentials to call sites.
// The session store is the canonical implementation; Credentials
// itself satisfies it for fixed-credential callers like the FTP
// driver.
type CredentialProvider interface {
	Credentials() (Credentials, error)
}

// FileEntry is one item of a directory listing. Name may be absent or
// URL-encoded; Path is always set.
type FileEntry struct {
	Name     string      `json:"name,omitempty"`
	Path     string      `json:"path"`
	Size     json.Number `json:"size,omitempty"`
	Type     string      `json:"type"`
	Modified string      `json:"modified,omitempty"`
}

func (f FileEntry) IsDir() bool {
	return f.Type == "directory"
}

func (f FileEntry) SizeBytes() int64 {
	n, _ := f.Size.Int64()
	return n
}

// DisplayName decodes the entry name, falling back to the last segment
// of the path when the backend omitted the name.
func (f FileEntry) DisplayName() string {
	if f.Name != "" {
		if decoded, err := url.QueryUnescape(f.Name); err == nil {
			return decoded
		}

		return f.Name
	}

	return NameFromPath(f.Path)
}

// NameFromPath returns the decoded last segment of a path, ignoring a
// trailing slash.
func NameFromPath(p string) string {
	p = strings.TrimSuffix(p, "/")
	segments := strings.Split(p, "/")

	last := segments[len(segments)-1]
	if decoded, err := url.QueryUnescape(last); err == nil {
		return decoded
	}

	return last
}

// Quota is the backend-reported storage allocation. Byte counts are
// transported as strings.
type Quota struct {
	Used     string `json:"used"`
	Free     string `json:"free"`
	Total    string `json:"total"`
	Relative string `json:"relative"`
}

func (q Quota) UsedBytes() int64  { return parseBytes(q.Used) }
func (q Quota) FreeBytes() int64  { return parseBytes(q.Free) }
func (q Quota) TotalBytes() int64 { return parseBytes(q.Total) }

// UsedPercent is guarded against an unset or zero total.
func (q Quota) UsedPercent() float64 {
	total := q.TotalBytes()
	if total <= 0 {
		return 0
	}

	return float64(q.UsedBytes()) / float64(total) * 100
}

func parseBytes(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

// ShareTypePublicLink marks a share reachable by token/link instead of
// a named user.
const ShareTypePublicLink = 3

type Share struct {
	ID                   int64  `json:"id"`
	ShareType            int    `json:"share_type"`
	URL                  string `json:"url,omitempty"`
	Token                string `json:"token,omitempty"`
	ShareWith            string `json:"share_with,omitempty"`
	ShareWithDisplayName string `json:"share_with_displayname,omitempty"`
}

func (s Share) IsPublicLink() bool {
	return s.ShareType == ShareTypePublicLink
}

type Profile struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Quota       *Quota `json:"quota,omitempty"`
}

// ProfileUpdate carries the editable profile fields. Empty fields are
// still sent; the backend treats them as "clear".
type ProfileUpdate struct {
	DisplayName string
	Email       string
	NewPassword string
}

// EncodePath percent-encodes a relative path segment by segment,
// keeping the separators intact.
func EncodePath(rel string) string {
	if rel == "" {
		return ""
	}

	segments := strings.Split(rel, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}

	return strings.Join(segments, "/")
}
