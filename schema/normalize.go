package schema

import (
	"strings"
	"unicode"
)

// ParseRoleIDs splits a comma-separated role id list.
// Empty and malformed entries are dropped, duplicates keep their first position.
func ParseRoleIDs(raw string) []RoleID {
	parts := strings.Split(raw, ",")
	out := make([]RoleID, 0, len(parts))
	seen := make(map[RoleID]struct{}, len(parts))
	for _, part := range parts {
		id := RoleID(strings.TrimSpace(part))
		if !validIdentifier(string(id)) {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ValidateChannelID ensures a channel id is safe to embed in a correlation token.
func ValidateChannelID(id ChannelID) error {
	if !validIdentifier(string(id)) {
		return ErrInvalidRequest
	}
	return nil
}

// ValidateUserID ensures a user id is safe to embed in a correlation token.
func ValidateUserID(id UserID) error {
	if !validIdentifier(string(id)) {
		return ErrInvalidRequest
	}
	return nil
}

// Platform ids are snowflakes; letters, '_' and '.' are accepted for fixtures.
func validIdentifier(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r == '_' || r == '.' {
			continue
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
