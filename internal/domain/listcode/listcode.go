// Package listcode resolves and normalizes the shared list code that
// doubles as the shareable-link token (URL fragment).
package listcode

import (
	"net/url"
	"strings"
)

// MaxLength caps normalized list codes.
const MaxLength = 40

// Normalize trims the input, collapses internal whitespace runs to single
// hyphens, upper-cases and truncates to MaxLength. An empty result means no
// list is selected and the caller must not open one.
func Normalize(input string) string {
	code := strings.Join(strings.Fields(input), "-")
	code = strings.ToUpper(code)

	runes := []rune(code)
	if len(runes) > MaxLength {
		code = string(runes[:MaxLength])
	}
	return code
}

// FromFragment extracts the list code from a shareable link's URL fragment.
// Returns the empty string when the URL has no fragment or cannot be parsed.
func FromFragment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(u.Fragment)
}

// ShareLink publishes the code back into a shareable link: the base URL with
// the code as its fragment. An empty code removes the fragment.
func ShareLink(base, code string) string {
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base = base[:i]
	}
	if code == "" {
		return base
	}
	return base + "#" + code
}
