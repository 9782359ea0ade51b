package services

import (
	"strings"

	"github.com/google/uuid"
)

const lookupTokenLength = 8

// NewLookupToken returns a short upper-case hex token for public order tracking.
func NewLookupToken() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:lookupTokenLength])
}

// NormalizeLookupToken maps user input onto the stored token form.
func NormalizeLookupToken(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}
