package session

import (
	"context"
	"crypto/sha512"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	"github.com/gometeo/cityweather/internal/model"
)

const CookieName = "cityweather_session"

// Session is one client's id plus whatever state the store holds for it.
// State is nil until the first Save.
type Session struct {
	ID    string
	State *model.SessionState
}

// Manager ties the signed id cookie to a Store.
type Manager struct {
	store  Store
	codec  *securecookie.SecureCookie
	ttl    time.Duration
	secure bool
	logger *slog.Logger
}

// NewManager derives the cookie signing key from secret. secure marks the cookie
// HTTPS-only.
func NewManager(store Store, secret string, ttl time.Duration, secure bool, logger *slog.Logger) *Manager {
	hashKey := sha512.Sum512([]byte(secret))
	codec := securecookie.New(hashKey[:], nil)
	codec.MaxAge(int(ttl.Seconds()))

	return &Manager{
		store:  store,
		codec:  codec,
		ttl:    ttl,
		secure: secure,
		logger: logger,
	}
}

// Load resolves the request's session. A missing or tampered cookie yields a
// fresh id with no state.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	id, ok := m.idFromCookie(r)
	if !ok {
		return &Session{ID: uuid.NewString()}, nil
	}

	state, err := m.store.Get(r.Context(), id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &Session{ID: id, State: state}, nil
}

// Save persists state under the session id and refreshes the cookie.
func (m *Manager) Save(w http.ResponseWriter, r *http.Request, s *Session, state *model.SessionState) error {
	if err := m.store.Set(r.Context(), s.ID, state); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.State = state

	encoded, err := m.codec.Encode(CookieName, s.ID)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear drops the stored state. The cookie is kept; the next request under it
// simply finds no state.
func (m *Manager) Clear(r *http.Request, s *Session) error {
	if err := m.store.Delete(r.Context(), s.ID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.State = nil
	return nil
}

// Ping checks the backing store.
func (m *Manager) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}

func (m *Manager) idFromCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}

	var id string
	if err := m.codec.Decode(CookieName, cookie.Value, &id); err != nil {
		m.logger.Debug("session cookie rejected", "error", err)
		return "", false
	}
	return id, true
}
