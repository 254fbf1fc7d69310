package vision

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON pulls the first complete JSON object out of model output,
// tolerating markdown code fences and surrounding prose.
func ExtractJSON(text string) (map[string]any, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var m map[string]any
	if err := json.Unmarshal([]byte(cleaned), &m); err == nil {
		return m, nil
	}

	start := strings.IndexByte(cleaned, '{')
	if start < 0 {
		return nil, fmt.Errorf("no JSON object in response")
	}
	depth := 0
	for i := start; i < len(cleaned); i++ {
		switch cleaned[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				if err := json.Unmarshal([]byte(cleaned[start:i+1]), &m); err == nil {
					return m, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("no parseable JSON object in response")
}

// ParseMetadata validates raw model output into Metadata. Keywords accept
// either a comma-separated string or a JSON list. A response missing its
// required fields is a Transient failure: for retry purposes it is
// indistinguishable from an empty response.
func ParseMetadata(text string) (*Metadata, error) {
	obj, err := ExtractJSON(text)
	if err != nil {
		return nil, Errf(Transient, "%v", err)
	}

	m := &Metadata{
		Title:       stringField(obj, "title"),
		Description: stringField(obj, "description"),
		Keywords:    keywordField(obj, "keywords"),
		Category:    stringField(obj, "category"),
	}

	if m.Title == "" {
		return nil, Errf(Transient, "response missing title")
	}
	if len(m.Keywords) == 0 {
		return nil, Errf(Transient, "response missing keywords")
	}
	if m.Category == "" {
		m.Category = "Uncategorized"
	}
	return m, nil
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

func keywordField(obj map[string]any, key string) []string {
	switch v := obj[key].(type) {
	case string:
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return nil
}
