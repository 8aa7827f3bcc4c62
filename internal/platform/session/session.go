package session

import "sync"

type User struct {
	ID      int    `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Profile string `json:"profile"`
}

// Session is the process-wide credential state. The zero value means
// logged out.
type Session struct {
	Token string
	User  User
}

func (s Session) Authenticated() bool { return s.Token != "" }

// Holder is the single owner of Session state. Every write bumps the
// generation counter so that an in-flight credential refresh started
// before a logout can be detected and discarded: a refresh result only
// installs when the generation it was issued against is still current.
type Holder struct {
	mu  sync.Mutex
	cur Session
	gen uint64
}

func NewHolder() *Holder {
	return &Holder{}
}

// Current returns the session together with the generation it was read at.
func (h *Holder) Current() (Session, uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cur, h.gen
}

// Install replaces the session wholesale and returns the new generation.
func (h *Holder) Install(s Session) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cur = s
	h.gen++
	return h.gen
}

// InstallIfCurrent replaces the session only when gen still matches the
// holder's generation. It reports whether the install happened. A refresh
// that settles after logout loses here.
func (h *Holder) InstallIfCurrent(s Session, gen uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.gen != gen {
		return false
	}
	h.cur = s
	h.gen++
	return true
}

// Clear empties the session. Logout always wins over in-flight refreshes
// because it advances the generation.
func (h *Holder) Clear() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cur = Session{}
	h.gen++
	return h.gen
}
