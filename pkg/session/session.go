// Package session provides HTTP session management backed by Redis.
//
// Usage (middleware):
//
//	r.Use(session.Middleware(session.DefaultOptions()))
//
// Usage (handler):
//
//	sess := session.FromCtx(r)
//	sess.Set("email", "user@example.com")
//	sess.Save(w)
//
// Sessions carry the guest cart (product id → quantity) between requests
// until the visitor signs in and the cart is merged into the database.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Zin-Mg-Nyunt/shopping/pkg/cache"
)

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
		CookieName: "shopping_session",
		TTL:        2 * time.Hour,
		HTTPOnly:   true,
		Secure:     false, // set true in production
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

type ctxKey struct{}

// Session is an in-request session handle.
type Session struct {
	id      string
	data    map[string]interface{}
	opts    Options
	changed bool
}

// New returns a fresh, unsaved session. Mostly useful in tests; request
// handling goes through Middleware.
func New() *Session {
	id, _ := newID()
	return &Session{id: id, data: map[string]interface{}{}, opts: DefaultOptions()}
}

// newID generates a cryptographically random 32-byte hex session ID.
func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func redisKey(id string) string { return "shopping:session:" + id }

func load(id string) map[string]interface{} {
	var data map[string]interface{}
	if cache.Get(redisKey(id), &data) {
		return data
	}
	return map[string]interface{}{}
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

// Delete removes a key from the session.
func (s *Session) Delete(key string) {
	delete(s.data, key)
	s.changed = true
}

// ─── Guest cart ───────────────────────────────────────────────────────────────

const cartKey = "cart"

// Cart returns the guest cart held in this session: product id → quantity.
// Always returns a non-nil map; mutations must go back through SetCart.
func (s *Session) Cart() map[uint]int {
	out := map[uint]int{}
	raw, ok := s.data[cartKey]
	if !ok {
		return out
	}

	// Stored as map[string]interface{} after a JSON round trip.
	m, ok := raw.(map[string]interface{})
	if !ok {
		return out
	}
	for k, v := range m {
		id, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			out[uint(id)] = int(n)
		case int:
			out[uint(id)] = n
		}
	}
	return out
}

// SetCart replaces the guest cart held in this session.
func (s *Session) SetCart(cart map[uint]int) {
	m := make(map[string]interface{}, len(cart))
	for id, qty := range cart {
		m[strconv.FormatUint(uint64(id), 10)] = qty
	}
	s.Set(cartKey, m)
}

// ClearCart drops the guest cart.
func (s *Session) ClearCart() {
	s.Delete(cartKey)
}

// ─── Persistence ──────────────────────────────────────────────────────────────

// Save persists the session to Redis and writes the cookie to the response.
func (s *Session) Save(w http.ResponseWriter) error {
	if !s.changed {
		return nil
	}

	raw, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}

	if err := cache.Set(redisKey(s.id), json.RawMessage(raw), s.opts.TTL); err != nil {
		return fmt.Errorf("session: redis save: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    s.id,
		Path:     s.opts.Path,
		MaxAge:   int(s.opts.TTL.Seconds()),
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})

	s.changed = false
	return nil
}

// ─── Middleware ───────────────────────────────────────────────────────────────

// Middleware loads (or creates) the session for every request and injects it
// into the request context. Handlers call session.FromCtx(r) to access it.
func Middleware(opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := &Session{opts: opts}

			if cookie, err := r.Cookie(opts.CookieName); err == nil {
				sess.id = cookie.Value
				sess.data = load(sess.id)
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

// FromCtx retrieves the session from the request context.
// Returns an empty (unsaved) session if none is present.
func FromCtx(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	return New()
}
