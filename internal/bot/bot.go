package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bilgisen/skypost/internal/bluesky"
	"github.com/bilgisen/skypost/internal/cache"
	"github.com/bilgisen/skypost/internal/config"
	"github.com/bilgisen/skypost/internal/generator"
	"github.com/bilgisen/skypost/internal/images"
	"github.com/bilgisen/skypost/internal/logger"
	"github.com/bilgisen/skypost/internal/models"
	"github.com/bilgisen/skypost/internal/notify"
	"github.com/bilgisen/skypost/internal/queue"
	"github.com/bilgisen/skypost/internal/safety"
	"github.com/bilgisen/skypost/internal/schedule"
	"github.com/bilgisen/skypost/internal/state"
	"github.com/bilgisen/skypost/internal/textutil"
)

// Outcome is the reason a run ended. Every outcome except OutcomePosted
// means nothing was published; none of them is an error.
type Outcome string

const (
	OutcomePosted        Outcome = "posted"
	OutcomeDryRun        Outcome = "dry-run"
	OutcomeQuietHours    Outcome = "quiet-hours"
	OutcomeQuotaMet      Outcome = "quota-met"
	OutcomeNothingToPost Outcome = "nothing-to-post"
	OutcomeNoImages      Outcome = "no-images"
	OutcomeDuplicate     Outcome = "duplicate"
	OutcomeBlocked       Outcome = "safety-violation"
)

// Deps are the bot's collaborators. Dedupe may be nil (Redis mirror not
// configured); Now and Sleep default to the real clock.
type Deps struct {
	Store     *state.Store
	Generator *generator.Generator
	Publisher bluesky.Publisher
	Blobs     images.BlobSource
	Filter    *safety.Filter
	Dedupe    cache.Dedupe
	Notifier  notify.Notifier
	Now       func() time.Time
	Sleep     func(time.Duration)
}

// Bot sequences one posting run: gates, selection, generation, safety,
// dedupe, publish, record.
type Bot struct {
	cfg    *config.Config
	deps   Deps
	window schedule.Window
}

func New(cfg *config.Config, deps Deps) (*Bot, error) {
	window, err := schedule.ParseWindow(cfg.QuietStart, cfg.QuietEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid quiet-hours config: %w", err)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Sleep == nil {
		deps.Sleep = time.Sleep
	}
	return &Bot{cfg: cfg, deps: deps, window: window}, nil
}

// Run executes one posting cycle. A nil error with a non-posted Outcome
// means "nothing to do this tick"; errors are reserved for genuinely broken
// runs.
func (b *Bot) Run(ctx context.Context) (Outcome, error) {
	log := logger.Get()
	now := b.deps.Now()

	st, err := b.deps.Store.Load()
	if err != nil {
		return "", err
	}
	st = state.EnsureToday(st, now)

	if b.window.Contains(now) {
		log.Info().Time("now", now).Msg("Inside quiet hours, skipping this tick")
		return OutcomeQuietHours, nil
	}

	if st.PostedTodayCount >= b.cfg.PostsPerDay {
		log.Info().
			Int("posted_today", st.PostedTodayCount).
			Int("quota", b.cfg.PostsPerDay).
			Msg("Daily quota met, skipping this tick")
		return OutcomeQuotaMet, nil
	}

	items, err := queue.Load(b.cfg.QueuePath)
	if err != nil {
		return "", err
	}
	sel, ok := queue.SelectNext(items, st.PostedIDs)
	if !ok {
		log.Info().Msg("No active queue items, nothing to post")
		return OutcomeNothingToPost, nil
	}
	log.Info().
		Str("item", sel.Item.ID).
		Str("topic", sel.Item.Topic).
		Bool("recycled", sel.Recycled).
		Msg("Selected queue item")

	catalog, err := images.LoadCatalog(b.cfg.CatalogPath)
	if err != nil {
		return "", err
	}
	picked := images.Select(catalog, sel.Item.Tags, sel.Item.ImageIDs,
		b.cfg.ImagesPerPost, b.cfg.MaxImages, st.RecentImageIDs)
	if len(picked) == 0 {
		log.Info().Str("item", sel.Item.ID).Msg("No eligible images, nothing to post")
		return OutcomeNoImages, nil
	}

	result := b.deps.Generator.Generate(ctx, sel.Item, picked)
	log.Info().
		Str("source", result.Source).
		Str("model", result.Model).
		Int("graphemes", textutil.CountGraphemes(result.Text)).
		Msg("Generated post copy")

	safe, phrase, err := b.deps.Filter.Check(result.Text)
	if err != nil {
		return "", err
	}
	if !safe {
		log.Warn().
			Str("item", sel.Item.ID).
			Str("blocked_phrase", phrase).
			Msg("Generated text hit the blocklist, aborting this run")
		b.deps.Notifier.Notify(ctx, notify.Event{
			PostID: sel.Item.ID,
			Text:   result.Text,
			Error:  fmt.Sprintf("blocked phrase: %s", phrase),
			Source: result.Source,
		})
		return OutcomeBlocked, nil
	}

	hash := textutil.HashText(result.Text)
	dup, err := b.isDuplicate(ctx, st, hash)
	if err != nil {
		return "", err
	}
	if dup {
		log.Info().Str("item", sel.Item.ID).Str("hash", hash).Msg("Text hash seen recently, skipping to avoid a repeat")
		return OutcomeDuplicate, nil
	}

	if b.cfg.DryRun {
		log.Info().
			Str("item", sel.Item.ID).
			Str("text", result.Text).
			Int("images", len(picked)).
			Msg("Dry run, skipping publish and state update")
		return OutcomeDryRun, nil
	}

	if delay := schedule.Jitter(b.cfg.JitterMinutes); delay > 0 {
		log.Info().Dur("delay", delay).Msg("Applying randomized delay before publishing")
		b.deps.Sleep(delay)
	}

	post, err := b.buildPost(ctx, sel.Item, picked, result)
	if err != nil {
		return "", err
	}

	pubRes, err := b.deps.Publisher.Publish(ctx, post)
	if err != nil {
		return "", fmt.Errorf("publish failed: %w", err)
	}
	if pubRes.AlreadyExists {
		log.Warn().Str("item", sel.Item.ID).Msg("Record already exists, treating as posted")
	} else {
		log.Info().Str("uri", pubRes.URI).Str("item", sel.Item.ID).Msg("Published post")
	}

	imageIDs := make([]string, 0, len(picked))
	for _, img := range picked {
		imageIDs = append(imageIDs, img.ID)
	}
	st = state.RecordSuccess(st, state.Caps{
		HashHistory:  b.cfg.HashHistoryCap,
		ImageHistory: b.cfg.ImageHistoryCap,
	}, state.PostRecord{
		ID:       sel.Item.ID,
		TextHash: hash,
		ImageIDs: imageIDs,
		When:     b.deps.Now(),
	})
	if err := b.deps.Store.Save(st); err != nil {
		return "", fmt.Errorf("failed to persist state after publish: %w", err)
	}
	b.markDuplicate(ctx, hash)

	b.deps.Notifier.Notify(ctx, notify.Event{
		OK:     true,
		PostID: sel.Item.ID,
		Text:   result.Text,
		Source: result.Source,
	})
	return OutcomePosted, nil
}

// isDuplicate checks the file-state history first, then the optional Redis
// mirror.
func (b *Bot) isDuplicate(ctx context.Context, st models.BotState, hash string) (bool, error) {
	for _, h := range st.RecentTextHashes {
		if h == hash {
			return true, nil
		}
	}
	if b.deps.Dedupe == nil {
		return false, nil
	}
	seen, err := b.deps.Dedupe.SeenText(ctx, hash)
	if err != nil {
		// The mirror is an extra gate, not the source of truth. Degrade to
		// the file history on errors.
		logger.Get().Warn().Err(err).Msg("Dedupe mirror unavailable, relying on file state only")
		return false, nil
	}
	return seen, nil
}

func (b *Bot) markDuplicate(ctx context.Context, hash string) {
	if b.deps.Dedupe == nil {
		return
	}
	if err := b.deps.Dedupe.MarkText(ctx, hash, b.cfg.DedupeTTL); err != nil {
		logger.Get().Warn().Err(err).Msg("Failed to mark text hash in dedupe mirror")
	}
}

// buildPost fetches every image blob and assembles the outgoing record.
func (b *Bot) buildPost(ctx context.Context, item models.QueueItem, picked []models.ImageAsset, result models.GenerationResult) (bluesky.Post, error) {
	post := bluesky.Post{
		RKey: bluesky.SanitizeRKey(item.ID),
		Text: result.Text,
	}
	for i, img := range picked {
		data, err := b.deps.Blobs.Fetch(ctx, img)
		if err != nil {
			return bluesky.Post{}, fmt.Errorf("failed to fetch image %s: %w", img.ID, err)
		}
		alt := img.DefaultAlt
		if len(result.AltOverrides) == len(picked) {
			alt = result.AltOverrides[i]
		}
		post.Images = append(post.Images, bluesky.Image{
			Data: data,
			Mime: img.Mime,
			Alt:  alt,
		})
	}
	return post, nil
}
