package vibesort

import (
	"regexp"
	"strings"
)

var bulletPrefix = regexp.MustCompile(`^[-*•]\s*`)

// ParseItems splits a model reply into items, one per non-blank line.
// A single leading "-", "*" or "•" marker is removed from each line.
// Numbered prefixes such as "1." are kept as-is, and the output is neither
// deduplicated nor checked against the input.
func ParseItems(content string) []string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, bulletPrefix.ReplaceAllString(line, ""))
	}
	return items
}
