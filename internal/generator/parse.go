package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bilgisen/skypost/internal/textutil"
)

// payload is the JSON contract the model is asked to emit.
type payload struct {
	Text         string   `json:"text"`
	AltOverrides []string `json:"alt_overrides"`
}

// parsePayload turns a model reply into a payload. The reply is tried as-is
// first (after stripping markdown code fences, which models love to add);
// when that fails, the first balanced {...} span is extracted and tried.
func parsePayload(reply string) (payload, error) {
	clean := stripFences(reply)

	var p payload
	if err := json.Unmarshal([]byte(clean), &p); err == nil {
		return p, nil
	}

	span, ok := firstJSONObject(clean)
	if !ok {
		return payload{}, fmt.Errorf("no JSON object found in reply")
	}
	if err := json.Unmarshal([]byte(span), &p); err != nil {
		return payload{}, fmt.Errorf("failed to parse reply as JSON: %w", err)
	}
	return p, nil
}

// validatePayload enforces the generation contract: a non-empty text within
// the grapheme limit, and alt overrides (when present) matching the image
// count.
func validatePayload(p payload, imageCount int) error {
	if strings.TrimSpace(p.Text) == "" {
		return fmt.Errorf("payload is missing a text field")
	}
	if ok, count := textutil.EnsureTextLength(p.Text); !ok {
		return fmt.Errorf("text is %d characters, limit is %d", count, textutil.MaxGraphemes)
	}
	if err := textutil.ValidateAltOverrides(imageCount, p.AltOverrides); err != nil {
		return err
	}
	return nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// firstJSONObject scans for the first balanced top-level {...} span,
// skipping braces inside string literals.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
