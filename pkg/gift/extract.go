package gift

import (
	"regexp"
	"strings"
)

// Gift link formats in the order Discord introduced them. Order matters:
// the first matching pattern wins.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`discord\.gift/([A-Za-z0-9]{16,25})`),
	regexp.MustCompile(`discord\.com/gifts/([A-Za-z0-9]{16,25})`),
	regexp.MustCompile(`discordapp\.com/gifts/([A-Za-z0-9]{16,25})`),
	regexp.MustCompile(`promos\.discord\.gg/([A-Za-z0-9]{16,25})`),
}

var bareCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{16,25}$`)

// Extract pulls a gift code out of a URL, or accepts a bare code as-is.
// Codes are 16-25 alphanumeric characters; anything else is rejected.
func Extract(text string) (string, bool) {
	for _, pattern := range urlPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}

	trimmed := strings.TrimSpace(text)
	if bareCodePattern.MatchString(trimmed) {
		return trimmed, true
	}

	return "", false
}
