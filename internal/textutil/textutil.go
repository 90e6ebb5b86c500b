package textutil

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/rivo/uniseg"
)

// MaxGraphemes is the platform post length limit, measured in grapheme
// clusters rather than runes or bytes.
const MaxGraphemes = 300

var urlRegex = regexp.MustCompile(`https?://\S+`)

// trackingParams are query parameters stripped during normalization so that
// otherwise-identical links hash identically.
var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
	"gclid":        true,
	"fbclid":       true,
}

// CountGraphemes counts user-perceived characters. A multi-codepoint emoji
// sequence counts as one.
func CountGraphemes(text string) int {
	return uniseg.GraphemeClusterCount(text)
}

// EnsureTextLength reports whether text fits the platform limit, along with
// its grapheme count.
func EnsureTextLength(text string) (bool, int) {
	count := CountGraphemes(text)
	return count <= MaxGraphemes, count
}

// TrimToGraphemes cuts text down to at most n grapheme clusters.
func TrimToGraphemes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	state := -1
	var cluster string
	rest := text
	for i := 0; i < n && len(rest) > 0; i++ {
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		b.WriteString(cluster)
	}
	return b.String()
}

// Normalize lowercases, collapses whitespace runs, and strips tracking
// parameters from embedded URLs. Used for hashing only; the published text
// is never normalized.
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	stripped := urlRegex.ReplaceAllStringFunc(lowered, stripTracking)
	return strings.Join(strings.Fields(stripped), " ")
}

// stripTracking removes the fixed tracking parameter set from a URL while
// preserving the order of everything else. Malformed URLs come back verbatim.
func stripTracking(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}
	parts := strings.Split(u.RawQuery, "&")
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		key := p
		if i := strings.IndexByte(p, '='); i >= 0 {
			key = p[:i]
		}
		if trackingParams[strings.ToLower(key)] {
			continue
		}
		kept = append(kept, p)
	}
	u.RawQuery = strings.Join(kept, "&")
	return u.String()
}

// ValidateAltOverrides checks the generator's per-image alt text list.
// Absent overrides are valid; present overrides must carry exactly one
// non-blank entry per selected image.
func ValidateAltOverrides(count int, overrides []string) error {
	if overrides == nil {
		return nil
	}
	if len(overrides) != count {
		return fmt.Errorf("alt_overrides has %d entries, want %d", len(overrides), count)
	}
	for i, alt := range overrides {
		if strings.TrimSpace(alt) == "" {
			return fmt.Errorf("alt_overrides[%d] is empty", i)
		}
	}
	return nil
}
