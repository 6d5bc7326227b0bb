package report

import "strings"

const identitySeparator = "|"

// IdentityKey is the case-insensitive, trimmed first/last name pair used to
// merge records describing the same participant.
type IdentityKey string

// NewIdentityKey builds the key for a name pair. Both names blank yields the
// empty key, which callers must treat as "no identity".
func NewIdentityKey(firstName, lastName string) IdentityKey {
	first := strings.ToLower(strings.TrimSpace(firstName))
	last := strings.ToLower(strings.TrimSpace(lastName))
	if first == "" && last == "" {
		return ""
	}
	return IdentityKey(first + identitySeparator + last)
}

// Empty reports whether the key identifies nobody.
func (k IdentityKey) Empty() bool {
	return k == ""
}
