package generator

import (
	"strings"
	"testing"
)

func TestParsePayloadPlainJSON(t *testing.T) {
	p, err := parsePayload(`{"text": "hello", "alt_overrides": ["a cat"]}`)
	if err != nil {
		t.Fatalf("parsePayload failed: %v", err)
	}
	if p.Text != "hello" || len(p.AltOverrides) != 1 {
		t.Errorf("unexpected payload: %+v", p)
	}
}

func TestParsePayloadStripsFences(t *testing.T) {
	reply := "```json\n{\"text\": \"fenced\"}\n```"
	p, err := parsePayload(reply)
	if err != nil {
		t.Fatalf("parsePayload failed: %v", err)
	}
	if p.Text != "fenced" {
		t.Errorf("got %q", p.Text)
	}
}

func TestParsePayloadEmbeddedObject(t *testing.T) {
	reply := `Sure! Here is your post: {"text": "embedded \"quote\" {brace}"} hope you like it`
	p, err := parsePayload(reply)
	if err != nil {
		t.Fatalf("parsePayload failed: %v", err)
	}
	if p.Text != `embedded "quote" {brace}` {
		t.Errorf("got %q", p.Text)
	}
}

func TestParsePayloadNoObject(t *testing.T) {
	if _, err := parsePayload("no json here at all"); err == nil {
		t.Error("expected an error when no object is present")
	}
}

func TestFirstJSONObjectSkipsBracesInStrings(t *testing.T) {
	span, ok := firstJSONObject(`x {"a": "}", "b": {"c": 1}} y`)
	if !ok {
		t.Fatal("expected to find an object")
	}
	if span != `{"a": "}", "b": {"c": 1}}` {
		t.Errorf("got %q", span)
	}
}

func TestValidatePayload(t *testing.T) {
	if err := validatePayload(payload{Text: "fine"}, 2); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}
	if err := validatePayload(payload{Text: "   "}, 0); err == nil {
		t.Error("blank text should fail")
	}
	if err := validatePayload(payload{Text: strings.Repeat("a", 301)}, 0); err == nil {
		t.Error("over-limit text should fail")
	}
	if err := validatePayload(payload{Text: "ok", AltOverrides: []string{"one"}}, 2); err == nil {
		t.Error("alt override count mismatch should fail")
	}
}
