package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

// FileJar is a cookie jar persisted to a JSON file so the long-lived
// refresh cookie survives process restarts. Cookies are keyed by host;
// this client only ever talks to one server, so host matching is enough.
type FileJar struct {
	mu      sync.Mutex
	path    string
	cookies map[string][]storedCookie
}

func NewFileJar(path string) (*FileJar, error) {
	jar := &FileJar{path: path, cookies: map[string][]storedCookie{}}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return jar, nil
		}
		return nil, fmt.Errorf("read cookie jar: %w", err)
	}
	if err := json.Unmarshal(b, &jar.cookies); err != nil {
		// A corrupt jar means a fresh login, not a dead client.
		jar.cookies = map[string][]storedCookie{}
	}
	return jar, nil
}

func (j *FileJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	host := u.Hostname()
	existing := j.cookies[host]
	for _, c := range cookies {
		existing = removeByName(existing, c.Name)
		if c.MaxAge < 0 {
			continue
		}
		expires := c.Expires
		if c.MaxAge > 0 {
			expires = time.Now().Add(time.Duration(c.MaxAge) * time.Second)
		}
		existing = append(existing, storedCookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Expires: expires,
		})
	}
	j.cookies[host] = existing
	j.save()
}

func (j *FileJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	var out []*http.Cookie
	for _, c := range j.cookies[u.Hostname()] {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

// Clear drops every stored cookie. Used by logout so the server-side
// refresh session cannot be resumed from this machine.
func (j *FileJar) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies = map[string][]storedCookie{}
	j.save()
}

func (j *FileJar) save() {
	if j.path == "" {
		return
	}
	b, err := json.Marshal(j.cookies)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return
	}
	_ = os.WriteFile(j.path, b, 0o600)
}

func removeByName(cookies []storedCookie, name string) []storedCookie {
	out := cookies[:0]
	for _, c := range cookies {
		if c.Name != name {
			out = append(out, c)
		}
	}
	return out
}
