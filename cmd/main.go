package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bilgisen/skypost/internal/bluesky"
	"github.com/bilgisen/skypost/internal/bot"
	"github.com/bilgisen/skypost/internal/cache"
	"github.com/bilgisen/skypost/internal/config"
	"github.com/bilgisen/skypost/internal/generator"
	"github.com/bilgisen/skypost/internal/images"
	"github.com/bilgisen/skypost/internal/logger"
	"github.com/bilgisen/skypost/internal/notify"
	"github.com/bilgisen/skypost/internal/safety"
	"github.com/bilgisen/skypost/internal/state"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "skypost: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: "stdout",
		Pretty: cfg.LogPretty,
	})
	log := logger.Get()
	log.Info().Bool("dry_run", cfg.DryRun).Msg("Starting posting run")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier := notify.NewFromConfig(cfg.WebhookURL, cfg.NotifyLevel)

	b, err := buildBot(ctx, cfg, notifier)
	if err != nil {
		log.Error().Err(err).Msg("Failed to assemble bot")
		notifier.Notify(ctx, notify.Event{Error: err.Error()})
		os.Exit(1)
	}

	outcome, err := b.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Posting run failed")
		notifier.Notify(ctx, notify.Event{Error: err.Error()})
		os.Exit(1)
	}

	log.Info().Str("outcome", string(outcome)).Msg("Posting run finished")
}

func buildBot(ctx context.Context, cfg *config.Config, notifier notify.Notifier) (*bot.Bot, error) {
	log := logger.Get()

	var genClient *generator.Client
	if cfg.AIApiKey != "" {
		genClient = generator.NewClient(generator.ClientOptions{
			APIKey:    cfg.AIApiKey,
			Model:     cfg.AIModel,
			BaseURL:   cfg.AIBaseURL,
			Verbosity: cfg.AIVerbosity,
			Reasoning: cfg.AIReasoning,
			MaxTokens: cfg.AIMaxTokens,
			Timeout:   cfg.AITimeout,
		})
	} else {
		log.Warn().Msg("AI_API_KEY not set, every post will use fallback copy")
	}

	voiceGuide := ""
	if cfg.VoiceGuidePath != "" {
		data, err := os.ReadFile(cfg.VoiceGuidePath)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.VoiceGuidePath).Msg("Voice guide unavailable")
		} else {
			voiceGuide = string(data)
		}
	}

	var blobs images.BlobSource
	if cfg.R2Endpoint != "" && cfg.R2AccessKey != "" {
		s3src, err := images.NewS3Source(ctx, cfg.R2Endpoint, cfg.R2AccessKey, cfg.R2SecretKey, cfg.R2Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize R2 blob source: %w", err)
		}
		blobs = s3src
	} else {
		blobs = images.NewLocalSource(cfg.ImageDir)
	}

	var dedupe cache.Dedupe
	if cfg.RedisURL != "" {
		d, err := cache.NewRedisDedupe(cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			log.Warn().Err(err).Msg("Dedupe mirror unavailable, continuing on file state only")
		} else {
			dedupe = d
		}
	}

	return bot.New(cfg, bot.Deps{
		Store:     state.NewStore(cfg.StatePath),
		Generator: generator.New(genClient, cfg.AIModel, voiceGuide),
		Publisher: bluesky.NewClient(cfg.BskyBaseURL, cfg.BskyIdentifier, cfg.BskyPassword),
		Blobs:     blobs,
		Filter:    safety.NewFilter(cfg.BlocklistPath),
		Dedupe:    dedupe,
		Notifier:  notifier,
	})
}
