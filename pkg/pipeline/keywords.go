package pipeline

import (
	"regexp"
	"strings"
)

// maxKeywords is the stock-platform keyword cap.
const maxKeywords = 49

// Terms that mark content as non-photographic or carry no commercial
// search value. Filtered regardless of what the model returns.
var blacklist = map[string]bool{
	"vector": true, "illustration": true, "drawing": true, "painting": true,
	"generated": true, "ai generated": true, "render": true, "3d": true,
	"artwork": true, "graphic": true, "clipart": true, "cartoon": true,
	"sketch": true, "digital art": true,
	"photo": true, "image": true, "stock": true, "hd": true, "4k": true,
}

// Deterministically-true technical tags that buyers search for; these are
// promoted near the front of the list ahead of the model's long tail.
var highValueTags = map[string]bool{
	"no people":        true,
	"isolated":         true,
	"white background": true,
	"copy space":       true,
}

var keywordClean = regexp.MustCompile(`[^a-z0-9\s-]`)

func validKeyword(t string) bool {
	t = strings.TrimSpace(keywordClean.ReplaceAllString(t, ""))
	return len(t) >= 2 && !blacklist[t]
}

// CleanKeywords lower-cases, sanitizes, deduplicates (first seen wins) and
// blacklist-filters the model's keywords, interleaving the locally-derived
// technical tags: the first five AI keywords lead, then the high-value
// technical tags, then the rest of each list. Capped at maxKeywords.
func CleanKeywords(aiKeywords, techTags []string) []string {
	ai := make([]string, 0, len(aiKeywords))
	for _, t := range aiKeywords {
		ai = append(ai, strings.ToLower(strings.TrimSpace(t)))
	}
	tech := make([]string, 0, len(techTags))
	for _, t := range techTags {
		tech = append(tech, strings.ToLower(strings.TrimSpace(t)))
	}

	seen := map[string]bool{}
	out := []string{}
	add := func(t string) {
		if !seen[t] {
			out = append(out, t)
			seen[t] = true
		}
	}

	head := ai
	if len(head) > 5 {
		head = ai[:5]
	}
	for _, t := range head {
		if validKeyword(t) {
			add(t)
		}
	}
	for _, t := range tech {
		if highValueTags[t] {
			add(t)
		}
	}
	if len(ai) > 5 {
		for _, t := range ai[5:] {
			if validKeyword(t) {
				add(t)
			}
		}
	}
	for _, t := range tech {
		if validKeyword(t) {
			add(t)
		}
	}

	if len(out) > maxKeywords {
		out = out[:maxKeywords]
	}
	return out
}
