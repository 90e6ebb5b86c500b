package models

// Provenance of generated post copy.
const (
	SourceGenerated = "generated"
	SourceFallback  = "fallback"
)

// Usage carries token counters returned by the generation gateway.
// Informational only.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// GenerationResult is the validated output of the content generator. Source
// is always one of SourceGenerated or SourceFallback so logs can tell
// model-authored copy from the deterministic template.
type GenerationResult struct {
	Text         string   `json:"text"`
	AltOverrides []string `json:"alt_overrides,omitempty"`
	Model        string   `json:"model"`
	Source       string   `json:"source"`
	Usage        *Usage   `json:"usage,omitempty"`
}
