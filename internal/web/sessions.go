package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/procs/internal/session"
)

const (
	cookieName = "procs_session"

	// sessionIdle is how long an untouched browser session is kept.
	sessionIdle = 12 * time.Hour
)

// entry is one browser's session. mu serializes that browser's requests.
type entry struct {
	mu        sync.Mutex
	ctrl      *session.Controller
	completed string
	lastSeen  time.Time
}

// registry maps session cookies to controllers.
type registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	build    func(onComplete func(userID string)) *session.Controller
	now      func() time.Time
}

func newRegistry(build func(onComplete func(userID string)) *session.Controller) *registry {
	return &registry{
		sessions: make(map[string]*entry),
		build:    build,
		now:      time.Now,
	}
}

// acquire returns the caller's session, creating one and setting the
// cookie when the request has none or an unknown one. The entry is
// returned locked; the caller must unlock it.
func (r *registry) acquire(w http.ResponseWriter, req *http.Request) *entry {
	if c, err := req.Cookie(cookieName); err == nil {
		r.mu.RLock()
		e, ok := r.sessions[c.Value]
		r.mu.RUnlock()
		if ok {
			e.mu.Lock()
			e.lastSeen = r.now()
			return e
		}
	}

	id := uuid.NewString()
	e := &entry{lastSeen: r.now()}
	e.ctrl = r.build(func(userID string) { e.completed = userID })

	r.mu.Lock()
	r.pruneLocked()
	r.sessions[id] = e
	r.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	e.mu.Lock()
	return e
}

// len returns the number of live sessions.
func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// pruneLocked drops sessions idle longer than sessionIdle. Sessions whose
// lock is held are in use and kept.
func (r *registry) pruneLocked() {
	cutoff := r.now().Add(-sessionIdle)
	for id, e := range r.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
		}
		e.mu.Unlock()
	}
}
