package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips any markup from free-text input (animal names,
// item names, finance notes) before it reaches storage or is echoed
// back into a Telegram message.
func SanitizeText(input string) string {
	sanitized := strictPolicy.Sanitize(input)
	sanitized = html.UnescapeString(sanitized)
	return strings.TrimSpace(sanitized)
}
