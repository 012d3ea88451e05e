package middleware

import (
	"crypto/subtle"
	"net/http"
)

const (
	csrfHeaderName = "X-CSRF-Token"
	CSRFFormField  = "csrf_token"
)

// CSRFTokens reads the token stored in a request's session.
type CSRFTokens interface {
	SessionCSRFToken(r *http.Request) string
}

// CSRF rejects unsafe requests whose form field or header does not match
// the session token.
func CSRF(tokens CSRFTokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip CSRF check for safe methods
			if r.Method == http.MethodGet ||
				r.Method == http.MethodHead ||
				r.Method == http.MethodOptions ||
				r.Method == http.MethodTrace {
				next.ServeHTTP(w, r)
				return
			}

			expected := tokens.SessionCSRFToken(r)
			if expected == "" {
				http.Error(w, "Session required", http.StatusForbidden)
				return
			}

			// Get CSRF token from header or form
			provided := r.Header.Get(csrfHeaderName)
			if provided == "" {
				provided = r.FormValue(CSRFFormField)
			}

			if provided == "" {
				http.Error(w, "CSRF token missing", http.StatusForbidden)
				return
			}

			if subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) != 1 {
				http.Error(w, "Invalid CSRF token", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
