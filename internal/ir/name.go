package ir

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NameKey returns the lookup key for a participant name.
//
// Keys are NFC normalized and trimmed, so "José" typed with a combining accent
// resolves to the same participant as the precomposed spelling. The key is
// only used for lookup; records keep names exactly as supplied.
func NameKey(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
