package generator

import (
	"fmt"
	"strings"

	"github.com/bilgisen/skypost/internal/models"
	"github.com/bilgisen/skypost/internal/textutil"
)

const promptTemplate = `You are the social media voice of this account. Write one post.

Voice guide:
%s

Post brief:
- Topic: %s
- Link: %s
- Tags: %s
- Call to action: %s

Attached images (write alt text for each, in order):
%s

Rules:
- The post text must be at most %d characters (user-perceived characters;
  an emoji counts as one).
- Include the link verbatim if one is given.
- Respond with a single JSON object and nothing else, in this exact shape:
  {"text": "...", "alt_overrides": ["...", ...]}
- alt_overrides must contain exactly one alt text per attached image. Omit
  the field entirely if you want to keep the default alt texts.`

const repairTemplate = `Your previous reply was not a valid post payload.

Previous reply:
%s

Problem: %s

Respond again with ONLY a corrected JSON object of the shape
{"text": "...", "alt_overrides": ["...", ...]} that fixes the problem.`

// BuildPrompt grounds the model in the voice guide and the queue item.
func BuildPrompt(voiceGuide string, item models.QueueItem, images []models.ImageAsset) string {
	var hints []string
	for _, img := range images {
		hints = append(hints, fmt.Sprintf("- %s: %s", img.ID, escapeForPrompt(img.DefaultAlt)))
	}
	imageBlock := "(none)"
	if len(hints) > 0 {
		imageBlock = strings.Join(hints, "\n")
	}

	guide := strings.TrimSpace(voiceGuide)
	if guide == "" {
		guide = "(no voice guide configured; write in a clear, friendly tone)"
	}

	return fmt.Sprintf(promptTemplate,
		guide,
		escapeForPrompt(item.Topic),
		escapeForPrompt(item.Link),
		strings.Join(item.Tags, ", "),
		escapeForPrompt(item.CTA),
		imageBlock,
		textutil.MaxGraphemes,
	)
}

// BuildRepairPrompt re-prompts with the invalid payload and the specific
// validation failure.
func BuildRepairPrompt(invalid string, problem error) string {
	return fmt.Sprintf(repairTemplate, strings.TrimSpace(invalid), problem)
}

// escapeForPrompt flattens sheet fields so they cannot break the prompt
// structure.
func escapeForPrompt(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}
