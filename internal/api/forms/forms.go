// Package forms parses and validates the HTML forms posted to the handlers.
// Validation is pure: nothing here touches storage.
package forms

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/hugh/raid-finder/internal/api/validation"
)

const (
	MsgRequired       = "This field is required."
	MsgEmail          = "Invalid email address."
	MsgPasswordsMatch = "Passwords must match."
	MsgChoice         = "Not a valid choice."
	MsgURL            = "Invalid URL."
	MsgInteger        = "Not a valid integer value."
	MsgDate           = "Not a valid date value."
	MsgTime           = "Not a valid time value."
	MsgTimezone       = "Not a valid timezone."
	MsgID             = "Not a valid selection."
)

// Errors maps field names to their first failure message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already failed.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Err returns e as an error, or nil when nothing failed.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		e.Add(field, MsgRequired)
		return false
	}
	return true
}

func (e Errors) maxLen(field, value string, n int) {
	if !validation.MaxLen(value, n) {
		e.Add(field, "Field cannot be longer than "+strconv.Itoa(n)+" characters.")
	}
}

// text reads a trimmed, sanitized field.
func text(form url.Values, key string) string {
	return strings.TrimSpace(validation.SanitizeString(form.Get(key)))
}

// secret reads a field verbatim; passwords keep their whitespace.
func secret(form url.Values, key string) string {
	return form.Get(key)
}
