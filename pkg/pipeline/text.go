package pipeline

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	titleBudget = 200
	descBudget  = 200
	slugBudget  = 50
)

var forbiddenFilename = regexp.MustCompile(`[\\/*?:"<>|]`)

// cleanTitle trims and truncates a model title to the platform budget.
func cleanTitle(title string) string {
	return truncateRunes(strings.TrimSpace(title), titleBudget)
}

// mergeDescription joins title and description into one self-contained
// caption: downstream stock-platform description fields are expected to
// stand alone without the title next to them.
func mergeDescription(title, desc string) string {
	title = strings.TrimSpace(title)
	desc = strings.TrimSpace(desc)
	merged := title
	if desc != "" {
		merged = strings.TrimRight(title, ".!? ") + ". " + desc
	}
	merged = truncateRunes(merged, descBudget)
	merged = strings.TrimRight(merged, " .,;:-")
	if merged == "" {
		return merged
	}
	return merged + "."
}

// slugFilename derives a filesystem-safe name from the title plus a short
// uniqueness suffix so concurrent batches never collide.
func slugFilename(title, ext string) string {
	s := forbiddenFilename.ReplaceAllString(title, "")
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = truncateRunes(s, slugBudget)
	s = strings.Trim(s, "-")
	if s == "" {
		s = "untitled"
	}
	return s + "-" + uuid.NewString()[:8] + ext
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
