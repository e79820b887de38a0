// Package uuid produces the UUIDv7 primary keys stored for users, budgets,
// expenses, subscriptions and audit entries.
package uuid

import (
	"strings"

	googleuuid "github.com/google/uuid"
)

// New returns a time-ordered UUIDv7 string, or a random v4 when the v7
// generator cannot read entropy.
func New() string {
	if id, err := googleuuid.NewV7(); err == nil {
		return id.String()
	}
	return googleuuid.NewString()
}

// Parse canonicalizes s to the lower-case hyphenated form used in storage.
// Surrounding whitespace is ignored.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid reports whether s is a well-formed UUID in any accepted form.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}
