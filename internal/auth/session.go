package auth

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/hugh/raid-finder/pkg/crypto"
	"github.com/hugh/raid-finder/pkg/session"
)

const (
	userIDKey = "user_id"
	csrfKey   = "csrf_token"
)

// Flash categories, rendered in this order.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashDanger  = "danger"
)

var flashCategories = []string{FlashSuccess, FlashInfo, FlashDanger}

type Flash struct {
	Category string
	Message  string
}

// Sessions tracks the signed-in user, flash messages and the CSRF token in
// one server-issued session.
type Sessions struct {
	store *session.Store
}

func NewSessions(store *session.Store) *Sessions {
	return &Sessions{store: store}
}

// get never fails on an unreadable cookie; the caller gets a fresh session.
func (m *Sessions) get(r *http.Request) (*sessions.Session, error) {
	s, err := m.store.Get(r)
	if s != nil {
		return s, nil
	}
	return nil, fmt.Errorf("loading session: %w", err)
}

// Login starts an authenticated session for userID. Pending flashes are
// carried over, every other value is dropped and the CSRF token rotates.
func (m *Sessions) Login(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	s, err := m.get(r)
	if err != nil {
		return err
	}

	flashes := map[string][]interface{}{}
	for _, c := range flashCategories {
		if f := s.Flashes(c); len(f) > 0 {
			flashes[c] = f
		}
	}

	s.ID = ""
	s.Values = map[interface{}]interface{}{}
	s.Values[userIDKey] = userID.String()
	token, err := crypto.GenerateToken(32)
	if err != nil {
		return err
	}
	s.Values[csrfKey] = token
	for c, f := range flashes {
		for _, msg := range f {
			s.AddFlash(msg, c)
		}
	}
	return m.store.Save(r, w, s)
}

// Logout destroys the session.
func (m *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	s, err := m.get(r)
	if err != nil {
		return err
	}
	s.Values = map[interface{}]interface{}{}
	s.Options.MaxAge = -1
	return m.store.Save(r, w, s)
}

// UserID returns the signed-in user's id, if any.
func (m *Sessions) UserID(r *http.Request) (uuid.UUID, bool) {
	s, err := m.get(r)
	if err != nil {
		return uuid.Nil, false
	}
	raw, ok := s.Values[userIDKey].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (m *Sessions) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) error {
	s, err := m.get(r)
	if err != nil {
		return err
	}
	s.AddFlash(message, category)
	return m.store.Save(r, w, s)
}

// Flashes pops every pending flash message.
func (m *Sessions) Flashes(w http.ResponseWriter, r *http.Request) ([]Flash, error) {
	s, err := m.get(r)
	if err != nil {
		return nil, err
	}

	var out []Flash
	for _, c := range flashCategories {
		for _, f := range s.Flashes(c) {
			if msg, ok := f.(string); ok {
				out = append(out, Flash{Category: c, Message: msg})
			}
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, m.store.Save(r, w, s)
}

// CSRFToken returns the session's token, creating one on first use.
func (m *Sessions) CSRFToken(w http.ResponseWriter, r *http.Request) (string, error) {
	s, err := m.get(r)
	if err != nil {
		return "", err
	}
	if token, ok := s.Values[csrfKey].(string); ok && token != "" {
		return token, nil
	}

	token, err := crypto.GenerateToken(32)
	if err != nil {
		return "", err
	}
	s.Values[csrfKey] = token
	return token, m.store.Save(r, w, s)
}

// SessionCSRFToken reads the stored token without creating one.
func (m *Sessions) SessionCSRFToken(r *http.Request) string {
	s, err := m.get(r)
	if err != nil {
		return ""
	}
	token, _ := s.Values[csrfKey].(string)
	return token
}
