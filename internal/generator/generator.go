package generator

import (
	"context"
	"strings"

	"github.com/bilgisen/skypost/internal/logger"
	"github.com/bilgisen/skypost/internal/models"
	"github.com/bilgisen/skypost/internal/textutil"
)

// Generator produces validated post copy. It never fails outright: when the
// gateway is unreachable, unconfigured, or keeps returning invalid payloads,
// it degrades to a deterministic template built from local fields.
type Generator struct {
	client     *Client // nil when no API key is configured
	model      string
	voiceGuide string
}

func New(client *Client, model, voiceGuide string) *Generator {
	return &Generator{client: client, model: model, voiceGuide: voiceGuide}
}

// Generate returns post copy for the item, tagged with its provenance.
func (g *Generator) Generate(ctx context.Context, item models.QueueItem, imgs []models.ImageAsset) models.GenerationResult {
	log := logger.Get()

	if g.client == nil {
		log.Info().Str("item", item.ID).Msg("No generation credential configured, using fallback copy")
		return g.fallback(item)
	}

	prompt := BuildPrompt(g.voiceGuide, item, imgs)
	reply, usage, err := g.client.Complete(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Str("item", item.ID).Msg("Generation call failed, using fallback copy")
		return g.fallback(item)
	}

	p, err := parseAndValidate(reply, len(imgs))
	if err == nil {
		return g.generated(p, usage)
	}

	log.Warn().
		Err(err).
		Str("item", item.ID).
		Msg("Generated payload invalid, attempting one repair call")

	repaired, repairUsage, repairErr := g.client.Complete(ctx, BuildRepairPrompt(reply, err))
	if repairErr != nil {
		log.Warn().Err(repairErr).Str("item", item.ID).Msg("Repair call failed, using fallback copy")
		return g.fallback(item)
	}

	p, err = parseAndValidate(repaired, len(imgs))
	if err != nil {
		log.Warn().Err(err).Str("item", item.ID).Msg("Repaired payload still invalid, using fallback copy")
		return g.fallback(item)
	}

	usage.InputTokens += repairUsage.InputTokens
	usage.OutputTokens += repairUsage.OutputTokens
	return g.generated(p, usage)
}

func parseAndValidate(reply string, imageCount int) (payload, error) {
	p, err := parsePayload(reply)
	if err != nil {
		return payload{}, err
	}
	if err := validatePayload(p, imageCount); err != nil {
		return payload{}, err
	}
	return p, nil
}

func (g *Generator) generated(p payload, usage models.Usage) models.GenerationResult {
	return models.GenerationResult{
		Text:         p.Text,
		AltOverrides: p.AltOverrides,
		Model:        g.model,
		Source:       models.SourceGenerated,
		Usage:        &usage,
	}
}

// fallback builds deterministic copy from the item's own fields, trimmed to
// the platform limit.
func (g *Generator) fallback(item models.QueueItem) models.GenerationResult {
	parts := []string{item.Topic}
	if item.Link != "" {
		parts = append(parts, item.Link)
	}
	text := strings.Join(parts, " ")
	if item.CTA != "" {
		text += " — " + item.CTA
	}
	return models.GenerationResult{
		Text:   textutil.TrimToGraphemes(text, textutil.MaxGraphemes),
		Model:  g.model,
		Source: models.SourceFallback,
	}
}
