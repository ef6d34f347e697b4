// Package session provides HTTP session management over a cache.Store.
//
// Usage (middleware):
//
//	manager := session.NewManager(store, session.DefaultOptions())
//	r.Use(manager.Middleware())
//
// Usage (handler):
//
//	sess := session.FromCtx(r)
//	sess.Set("user_id", 42)
//	sess.Save(w)
//	val, _ := sess.Get("user_id")
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/yasithJay/online-bookstore-final-assessment/pkg/cache"
)

// ------------------- Options -------------------

// Options configures session behaviour.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		CookieName: "bookstore_session",
		TTL:        2 * time.Hour,
		HTTPOnly:   true,
		Secure:     false, // set true in production
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

// ------------------- Manager -------------------

// Manager loads and persists sessions against an injected cache.Store, so
// tests run on a fresh in-memory store and deployments can point at Redis.
type Manager struct {
	store cache.Store
	opts  Options
}

func NewManager(store cache.Store, opts Options) *Manager {
	return &Manager{store: store, opts: opts}
}

func (m *Manager) key(id string) string { return "bookstore:session:" + id }

func (m *Manager) load(ctx context.Context, id string) map[string]interface{} {
	var data map[string]interface{}
	if m.store.Get(ctx, m.key(id), &data) && data != nil {
		return data
	}
	return map[string]interface{}{}
}

// Middleware loads (or creates) the session for every request and injects it
// into the request context. Handlers call session.FromCtx(r) to access it.
func (m *Manager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := &Session{manager: m}

			if cookie, err := r.Cookie(m.opts.CookieName); err == nil && cookie.Value != "" {
				sess.id = cookie.Value
				sess.data = m.load(r.Context(), sess.id)
			} else {
				id, _ := newID()
				sess.id = id
				sess.data = map[string]interface{}{}
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ------------------- Session -------------------

type ctxKey struct{}

// Session is an in-request session handle.
type Session struct {
	id      string
	data    map[string]interface{}
	manager *Manager
	changed bool
	stale   []string // previous IDs to purge on Save (after Regenerate)
}

// newID generates a cryptographically random 32-byte hex session ID.
func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Set stores a value under key in the session.
func (s *Session) Set(key string, value interface{}) {
	s.data[key] = value
	s.changed = true
}

// Get retrieves a value from the session.
func (s *Session) Get(key string) (interface{}, bool) {
	v, ok := s.data[key]
	return v, ok
}

// GetString is a typed convenience getter.
func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.data[key]
	if !ok {
		return "", false
	}
	s2, ok := v.(string)
	return s2, ok
}

// GetInt is a typed convenience getter.
func (s *Session) GetInt(key string) (int, bool) {
	v, ok := s.data[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64: // JSON numbers unmarshal as float64
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

// GetJSON re-marshals the stored value into dest, recovering a typed struct
// from the generic map a JSON round-trip leaves behind. Returns true when
// the key exists and decodes cleanly.
func (s *Session) GetJSON(key string, dest interface{}) bool {
	v, ok := s.data[key]
	if !ok || v == nil {
		return false
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Delete removes a key from the session.
func (s *Session) Delete(key string) {
	delete(s.data, key)
	s.changed = true
}

// Flash stores a value that is auto-deleted after the next Get.
func (s *Session) Flash(key string, value interface{}) {
	s.Set("_flash_"+key, value)
}

// GetFlash retrieves and removes a flash value.
func (s *Session) GetFlash(key string) (interface{}, bool) {
	v, ok := s.Get("_flash_" + key)
	if ok {
		s.Delete("_flash_" + key)
	}
	return v, ok
}

// Regenerate swaps in a fresh session ID, keeping the data. Called on login
// so an ID issued before authentication can never name an authenticated
// session. The old ID is purged from the store on Save.
func (s *Session) Regenerate() {
	if s.id != "" {
		s.stale = append(s.stale, s.id)
	}
	id, _ := newID()
	s.id = id
	s.changed = true
}

// Invalidate destroys the session (logout).
func (s *Session) Invalidate() {
	s.data = map[string]interface{}{}
	s.changed = true
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Save persists the session to the store and writes the cookie to the response.
func (s *Session) Save(w http.ResponseWriter) error {
	if !s.changed {
		return nil
	}
	if s.manager == nil {
		return fmt.Errorf("session: no manager attached")
	}

	ctx := context.Background()
	if len(s.stale) > 0 {
		keys := make([]string, len(s.stale))
		for i, id := range s.stale {
			keys[i] = s.manager.key(id)
		}
		_ = s.manager.store.Del(ctx, keys...)
		s.stale = nil
	}

	raw, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}

	if err := s.manager.store.Set(ctx, s.manager.key(s.id), json.RawMessage(raw), s.manager.opts.TTL); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.manager.opts.CookieName,
		Value:    s.id,
		Path:     s.manager.opts.Path,
		MaxAge:   int(s.manager.opts.TTL.Seconds()),
		HttpOnly: s.manager.opts.HTTPOnly,
		Secure:   s.manager.opts.Secure,
		SameSite: s.manager.opts.SameSite,
	})

	s.changed = false
	return nil
}

// FromCtx retrieves the session from the request context.
// Returns an empty (unsaved) session if none is present.
func FromCtx(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	id, _ := newID()
	return &Session{id: id, data: map[string]interface{}{}}
}
