package textutil

import (
	"strings"
	"testing"
)

func TestCountGraphemes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"ascii", "hello", 5},
		{"empty", "", 0},
		{"combining mark", "é", 1},
		{"family emoji", "\U0001F468\u200d\U0001F469\u200d\U0001F467\u200d\U0001F466", 1},
		{"flag", "\U0001F1F9\U0001F1F7", 1},
		{"mixed", "hi \U0001F44B", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountGraphemes(tt.text); got != tt.want {
				t.Errorf("CountGraphemes(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestEnsureTextLength(t *testing.T) {
	ok, count := EnsureTextLength(strings.Repeat("a", MaxGraphemes))
	if !ok || count != MaxGraphemes {
		t.Errorf("expected exactly %d graphemes to pass, got ok=%v count=%d", MaxGraphemes, ok, count)
	}

	ok, count = EnsureTextLength(strings.Repeat("a", MaxGraphemes+1))
	if ok {
		t.Errorf("expected %d graphemes to fail, got ok with count=%d", MaxGraphemes+1, count)
	}
}

func TestTrimToGraphemes(t *testing.T) {
	family := "\U0001F468\u200d\U0001F469\u200d\U0001F467\u200d\U0001F466"
	got := TrimToGraphemes("ab"+family+"cd", 3)
	if got != "ab"+family {
		t.Errorf("TrimToGraphemes cut inside a cluster: %q", got)
	}
	if TrimToGraphemes("abc", 10) != "abc" {
		t.Error("TrimToGraphemes should leave short text alone")
	}
	if TrimToGraphemes("abc", 0) != "" {
		t.Error("TrimToGraphemes with n=0 should return empty string")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"casing and whitespace", "Hello   World\n", "hello world"},
		{
			"tracking params stripped",
			"see https://example.com/a?utm_source=x&id=7&utm_campaign=y",
			"see https://example.com/a?id=7",
		},
		{
			"other params preserved in order",
			"https://example.com/?b=2&a=1&fbclid=zzz",
			"https://example.com/?b=2&a=1",
		},
		{
			"url without query untouched",
			"https://example.com/path",
			"https://example.com/path",
		},
		{
			"malformed url verbatim",
			"http://%zz?utm_source=x",
			"http://%zz?utm_source=x",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	in := "Check THIS https://example.com/a?utm_medium=m&x=1   out"
	once := Normalize(in)
	if twice := Normalize(once); twice != once {
		t.Errorf("Normalize not idempotent: %q vs %q", once, twice)
	}
}

func TestHashText(t *testing.T) {
	if HashText("Hello World") != HashText("hello   world") {
		t.Error("hash should be stable under casing and whitespace changes")
	}
	if HashText("link https://e.com/?utm_source=a&q=1") != HashText("link https://e.com/?q=1") {
		t.Error("hash should be stable under tracking-param removal")
	}
	if HashText("one") == HashText("two") {
		t.Error("different texts should hash differently")
	}
	if !strings.HasPrefix(HashText("x"), "sha256:") {
		t.Error("hash should carry the sha256: prefix")
	}
	if got, want := HashText("abc"), HashText(Normalize("abc")); got != want {
		t.Error("hashing normalized text should equal hashing the original")
	}
}

func TestValidateAltOverrides(t *testing.T) {
	if err := ValidateAltOverrides(2, nil); err != nil {
		t.Errorf("nil overrides should be valid, got %v", err)
	}
	if err := ValidateAltOverrides(2, []string{"a", "b"}); err != nil {
		t.Errorf("matching overrides should be valid, got %v", err)
	}
	if err := ValidateAltOverrides(2, []string{"a"}); err == nil {
		t.Error("wrong count should fail")
	}
	if err := ValidateAltOverrides(1, []string{"   "}); err == nil {
		t.Error("whitespace-only override should fail")
	}
	if err := ValidateAltOverrides(0, []string{}); err != nil {
		t.Errorf("empty overrides for zero images should be valid, got %v", err)
	}
}
