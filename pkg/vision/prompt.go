package vision

import (
	"fmt"
	"strings"
)

// Preset is a prompt style: rules for how titles and descriptions should
// read for a given stock-platform audience.
type Preset struct {
	Title string
	Desc  string
}

// Presets are the built-in prompt styles, keyed by display name.
var Presets = map[string]Preset{
	"commercial": {
		Title: "Commercial Title: Subject + Main Action + Specific Context. Max 15 words. Literal and precise.",
		Desc:  "Atmosphere Description: Describe the lighting, mood, environment, background, and color palette. Do NOT repeat the subject action. Max 30 words.",
	},
	"microstock": {
		Title: "Stock Title: 5-10 words describing exactly WHAT is in the image (Who, What, Where). No flowery language.",
		Desc:  "Stock Details: Describe the surroundings, time of day, lighting quality (e.g., soft light, golden hour), and emotional tone. Do NOT repeat the title.",
	},
	"editorial": {
		Title: "Editorial Title: Subject + Event/Action + Location + Date (Generic). Factual.",
		Desc:  "Contextual Description: Describe the background scene, crowd atmosphere, and environmental details strictly factually.",
	},
	"abstract": {
		Title: "Abstract Title: The main concept, texture, or pattern name.",
		Desc:  "Visual Description: Describe the color gradients, artistic style, geometric shapes, and feelings invoked.",
	},
	"isolated": {
		Title: "Technical Title: Main Object Name + View Angle (e.g., Top View) + Background (e.g., White Background).",
		Desc:  "Technical Details: Describe the isolation technique, shadows, material texture, and clarity.",
	},
}

// DefaultPreset is the style used when none is selected.
const DefaultPreset = "commercial"

const promptCategories = "People, Nature, Business, Food, Travel, Architecture, Animals, Lifestyle, Technology, Abstract"

// BuildPrompt assembles the full inference prompt for a preset, injecting
// the deterministic visual facts computed locally (orientation,
// background, sharpness) so the model does not have to guess them.
func BuildPrompt(p Preset, contextInjection string) string {
	var b strings.Builder
	b.WriteString("Analyze for Commercial Stock (Photo/Video/Vector). Return strictly JSON.\n")
	fmt.Fprintf(&b, "SYSTEM CONTEXT (Visual Facts): %s\n", contextInjection)
	b.WriteString("Structure:\n{\n")
	fmt.Fprintf(&b, "  \"title\": %q,\n", p.Title)
	fmt.Fprintf(&b, "  \"description\": %q,\n", p.Desc)
	b.WriteString("  \"keywords\": \"comma separated string of 50 keywords\",\n")
	fmt.Fprintf(&b, "  \"category\": \"Pick ONE: %s\"\n}\n", promptCategories)
	b.WriteString("INSTRUCTIONS:\n")
	b.WriteString("1. Title: Focus on WHAT is happening. Must be under 200 characters.\n")
	b.WriteString("2. Description: Focus on HOW it looks (aesthetic/technical). Must be under 200 characters.\n")
	b.WriteString("3. Keywords: Start with VISIBLE OBJECTS, then CONCEPTS. Include 'no people' if applicable.\n")
	b.WriteString("4. No markdown. Only JSON.\n")
	return b.String()
}
