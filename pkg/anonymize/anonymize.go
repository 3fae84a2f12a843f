// Package anonymize redacts platform identifiers from text before it is
// forwarded to the AI backend or back to the chat platform.
package anonymize

import "regexp"

// Placeholder replaces every matched platform identifier.
const Placeholder = "[ID]"

// LINE identifiers: user U..., group G..., room C..., each followed by
// 32 lowercase hex characters.
var idPattern = regexp.MustCompile(`(U[0-9a-f]{32}|G[0-9a-f]{32}|C[0-9a-f]{32})`)

// Text replaces every user/group/room identifier in s with Placeholder.
func Text(s string) string {
	if s == "" {
		return s
	}
	return idPattern.ReplaceAllString(s, Placeholder)
}
