package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
)

// GenerateRandomBytes generates cryptographically secure random bytes
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return nil, fmt.Errorf("generating random bytes: %w", err)
	}
	return b, nil
}

// GenerateToken returns n random bytes encoded as unpadded URL-safe base64.
func GenerateToken(n int) (string, error) {
	b, err := GenerateRandomBytes(n)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// SessionKeys derives the cookie hash key (64 bytes) and block key
// (32 bytes, AES-256) from one application secret.
func SessionKeys(secret string) (hashKey, blockKey []byte) {
	h := hmac.New(sha512.New, []byte(secret))
	h.Write([]byte("session-hash"))
	hashKey = h.Sum(nil)

	b := hmac.New(sha256.New, []byte(secret))
	b.Write([]byte("session-block"))
	blockKey = b.Sum(nil)
	return hashKey, blockKey
}
