// Package session wraps a gorilla/sessions store under a fixed cookie name.
package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

func init() {
	// Flashes are stored as []interface{} inside session values.
	gob.Register([]interface{}{})
}

type Store struct {
	name  string
	store sessions.Store
}

// Options controls the cookie written for every session.
type Options struct {
	MaxAge int
	Secure bool
}

func (o Options) cookie() *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   o.MaxAge,
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewCookieStore keeps session values in a signed and encrypted cookie.
func NewCookieStore(name string, opts Options, keyPairs ...[]byte) *Store {
	cs := sessions.NewCookieStore(keyPairs...)
	cs.Options = opts.cookie()
	cs.MaxAge(opts.MaxAge)
	return &Store{name: name, store: cs}
}

// NewRedisStore keeps session values in Redis; the cookie carries only the
// signed session id.
func NewRedisStore(name string, client RedisClient, opts Options, keyPairs ...[]byte) *Store {
	return &Store{name: name, store: NewRedisBackend(client, opts, keyPairs...)}
}

func (s *Store) Name() string {
	return s.name
}

func (s *Store) Get(r *http.Request) (*sessions.Session, error) {
	return s.store.Get(r, s.name)
}

func (s *Store) Save(r *http.Request, w http.ResponseWriter, a *sessions.Session) error {
	return s.store.Save(r, w, a)
}
