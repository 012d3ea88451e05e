package session

import (
	"bytes"
	"context"
	"encoding/base32"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisClient is the subset of go-redis the backend needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ RedisClient = (*redis.Client)(nil)

// RedisBackend is a sessions.Store holding values in Redis.
type RedisBackend struct {
	client  RedisClient
	codecs  []securecookie.Codec
	options *sessions.Options
}

var _ sessions.Store = (*RedisBackend)(nil)

func NewRedisBackend(client RedisClient, opts Options, keyPairs ...[]byte) *RedisBackend {
	codecs := securecookie.CodecsFromPairs(keyPairs...)
	for _, c := range codecs {
		if sc, ok := c.(*securecookie.SecureCookie); ok {
			sc.MaxAge(opts.MaxAge)
		}
	}
	return &RedisBackend{
		client:  client,
		codecs:  codecs,
		options: opts.cookie(),
	}
}

func (b *RedisBackend) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(b, name)
}

// New returns the stored session named by the request cookie, or a fresh
// one. A missing or tampered cookie is not an error.
func (b *RedisBackend) New(r *http.Request, name string) (*sessions.Session, error) {
	s := sessions.NewSession(b, name)
	opts := *b.options
	s.Options = &opts
	s.IsNew = true

	id, ok := b.cookieID(r, name)
	if !ok {
		return s, nil
	}
	s.ID = id

	found, err := b.load(r.Context(), s)
	if err != nil {
		return s, err
	}
	s.IsNew = !found
	return s, nil
}

// Save writes the values to Redis and refreshes the cookie. A negative
// MaxAge deletes both. Clearing s.ID rotates the session: the values move to
// a new key and the key named by the request cookie is deleted.
func (b *RedisBackend) Save(r *http.Request, w http.ResponseWriter, s *sessions.Session) error {
	if s.Options.MaxAge < 0 {
		if s.ID != "" {
			if err := b.client.Del(r.Context(), keyPrefix+s.ID).Err(); err != nil {
				return fmt.Errorf("deleting session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(s.Name(), "", s.Options))
		return nil
	}

	if s.ID == "" {
		if old, ok := b.cookieID(r, s.Name()); ok {
			if err := b.client.Del(r.Context(), keyPrefix+old).Err(); err != nil {
				return fmt.Errorf("deleting rotated session: %w", err)
			}
		}
		s.ID = strings.TrimRight(base32.StdEncoding.EncodeToString([]byte(uuid.NewString())), "=")
	}
	if err := b.store(r.Context(), s); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(s.Name(), s.ID, b.codecs...)
	if err != nil {
		return fmt.Errorf("encoding session id: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(s.Name(), encoded, s.Options))
	return nil
}

// cookieID decodes the session id carried by the request cookie.
func (b *RedisBackend) cookieID(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", false
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, b.codecs...); err != nil {
		return "", false
	}
	return id, true
}

func (b *RedisBackend) store(ctx context.Context, s *sessions.Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s.Values); err != nil {
		return fmt.Errorf("encoding session values: %w", err)
	}

	ttl := time.Duration(s.Options.MaxAge) * time.Second
	if err := b.client.Set(ctx, keyPrefix+s.ID, buf.Bytes(), ttl).Err(); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

func (b *RedisBackend) load(ctx context.Context, s *sessions.Session) (bool, error) {
	data, err := b.client.Get(ctx, keyPrefix+s.ID).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading session: %w", err)
	}

	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s.Values); err != nil {
		return false, fmt.Errorf("decoding session values: %w", err)
	}
	return true, nil
}
