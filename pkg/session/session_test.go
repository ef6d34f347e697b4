package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yasithJay/online-bookstore-final-assessment/pkg/cache"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/session"
)

func testManager(t *testing.T) *session.Manager {
	t.Helper()
	store := cache.NewMemory()
	t.Cleanup(func() { store.Close() })
	return session.NewManager(store, session.DefaultOptions())
}

// drive sends a request through the manager's middleware and returns the
// recorder plus any cookie the handler set.
func drive(m *session.Manager, cookie *http.Cookie, handler http.HandlerFunc) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		r.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	m.Middleware()(handler).ServeHTTP(w, r)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "bookstore_session" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestPersistsAcrossRequests(t *testing.T) {
	m := testManager(t)

	w := drive(m, nil, func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		sess.Set("user_id", 42)
		if err := sess.Save(w); err != nil {
			t.Fatalf("Save: %v", err)
		}
	})
	cookie := sessionCookie(t, w)

	drive(m, cookie, func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		id, ok := sess.GetInt("user_id")
		if !ok || id != 42 {
			t.Errorf("user_id = %d, ok = %v", id, ok)
		}
	})
}

func TestSessionsAreIsolated(t *testing.T) {
	m := testManager(t)

	w := drive(m, nil, func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		sess.Set("who", "first")
		_ = sess.Save(w)
	})
	first := sessionCookie(t, w)

	// A request without the cookie gets a brand-new empty session.
	drive(m, nil, func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		if _, ok := sess.Get("who"); ok {
			t.Error("new session should not see another session's data")
		}
	})

	drive(m, first, func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		if who, _ := sess.GetString("who"); who != "first" {
			t.Errorf("who = %q", who)
		}
	})
}

func TestFlashConsumedOnce(t *testing.T) {
	m := testManager(t)

	w := drive(m, nil, func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		sess.Flash("notice", "Cart cleared!")
		_ = sess.Save(w)
	})
	cookie := sessionCookie(t, w)

	w = drive(m, cookie, func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		v, ok := sess.GetFlash("notice")
		if !ok || v != "Cart cleared!" {
			t.Errorf("flash = %v, ok = %v", v, ok)
		}
		_ = sess.Save(w)
	})
	cookie = sessionCookie(t, w)

	drive(m, cookie, func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		if _, ok := sess.GetFlash("notice"); ok {
			t.Error("flash should be gone after first read")
		}
	})
}

func TestRegenerateSwapsID(t *testing.T) {
	m := testManager(t)

	w := drive(m, nil, func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		sess.Set("cart_marker", true)
		_ = sess.Save(w)
	})
	old := sessionCookie(t, w)

	w = drive(m, old, func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		sess.Regenerate()
		sess.Set("user_id", 1)
		_ = sess.Save(w)
	})
	fresh := sessionCookie(t, w)

	if fresh.Value == old.Value {
		t.Fatal("Regenerate should issue a new session ID")
	}

	// Old ID no longer resolves to the authenticated session.
	drive(m, old, func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		if _, ok := sess.GetInt("user_id"); ok {
			t.Error("stale session ID must not carry the login")
		}
	})

	// New ID kept the pre-login data.
	drive(m, fresh, func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		if _, ok := sess.Get("cart_marker"); !ok {
			t.Error("regenerated session should keep its data")
		}
	})
}

func TestGetJSONRecoversTypedValue(t *testing.T) {
	m := testManager(t)

	type line struct {
		Title    string `json:"title"`
		Quantity int    `json:"quantity"`
	}

	w := drive(m, nil, func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		sess.Set("cart", map[string]line{"1984": {Title: "1984", Quantity: 2}})
		_ = sess.Save(w)
	})
	cookie := sessionCookie(t, w)

	drive(m, cookie, func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		var got map[string]line
		if !sess.GetJSON("cart", &got) {
			t.Fatal("expected cart to decode")
		}
		if got["1984"].Quantity != 2 {
			t.Errorf("quantity = %d", got["1984"].Quantity)
		}
	})
}
