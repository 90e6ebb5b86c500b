package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the bot. Every recognized environment
// variable and its default is enumerated here; nothing else reads the
// environment directly.
type Config struct {
	// Publishing (Bluesky / AT protocol)
	BskyIdentifier string `json:"bsky_identifier"`
	BskyPassword   string `json:"bsky_password"`
	BskyBaseURL    string `json:"bsky_base_url" validate:"url"`

	// AI generation gateway
	AIApiKey    string        `json:"ai_api_key"`
	AIModel     string        `json:"ai_model" validate:"required"`
	AIBaseURL   string        `json:"ai_base_url" validate:"url"`
	AIVerbosity string        `json:"ai_verbosity" validate:"oneof=low medium high"`
	AIMaxTokens int           `json:"ai_max_tokens" validate:"min=1"`
	AIReasoning string        `json:"ai_reasoning" validate:"oneof=minimal low medium high"`
	AITimeout   time.Duration `json:"ai_timeout"`

	// Content inputs
	QueuePath      string `json:"queue_path" validate:"required"`
	CatalogPath    string `json:"catalog_path" validate:"required"`
	VoiceGuidePath string `json:"voice_guide_path"`
	BlocklistPath  string `json:"blocklist_path"`
	StatePath      string `json:"state_path" validate:"required"`
	ImageDir       string `json:"image_dir"`

	// Schedule
	PostsPerDay     int    `json:"posts_per_day" validate:"min=1"`
	ImagesPerPost   int    `json:"images_per_post" validate:"min=1"`
	MaxImages       int    `json:"max_images" validate:"min=1,max=4"`
	QuietStart      string `json:"quiet_start" validate:"omitempty,len=5"`
	QuietEnd        string `json:"quiet_end" validate:"omitempty,len=5"`
	JitterMinutes   int    `json:"jitter_minutes" validate:"min=0"`
	HashHistoryCap  int    `json:"hash_history_cap" validate:"min=1"`
	ImageHistoryCap int    `json:"image_history_cap" validate:"min=1"`

	// Notification webhook
	WebhookURL  string `json:"webhook_url" validate:"omitempty,url"`
	NotifyLevel string `json:"notify_level" validate:"oneof=all errors off"`

	// Cloudflare R2 (S3-compatible) image blob store
	R2Endpoint  string `json:"r2_endpoint"`
	R2AccessKey string `json:"r2_access_key"`
	R2SecretKey string `json:"r2_secret_key"`
	R2Bucket    string `json:"r2_bucket"`

	// Redis dedupe mirror (optional)
	RedisURL    string        `json:"redis_url"`
	RedisPrefix string        `json:"redis_prefix"`
	DedupeTTL   time.Duration `json:"dedupe_ttl"`

	// Logging
	LogLevel  string `json:"log_level"`
	LogPretty bool   `json:"log_pretty"`

	// Dry run performs every step except the publish and state mutation.
	DryRun bool `json:"dry_run"`
}

// Load loads configuration from environment variables and validates it.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		BskyIdentifier: getEnv("BSKY_IDENTIFIER", ""),
		BskyPassword:   getEnv("BSKY_APP_PASSWORD", ""),
		BskyBaseURL:    getEnv("BSKY_BASE_URL", "https://bsky.social"),

		AIApiKey:    getEnv("AI_API_KEY", ""),
		AIModel:     getEnv("AI_MODEL", "gpt-5-mini"),
		AIBaseURL:   getEnv("AI_BASE_URL", "https://api.openai.com/v1"),
		AIVerbosity: getEnv("AI_VERBOSITY", "low"),
		AIMaxTokens: getEnvAsInt("AI_MAX_TOKENS", 900),
		AIReasoning: getEnv("AI_REASONING_EFFORT", "minimal"),
		AITimeout:   getEnvAsDuration("AI_TIMEOUT", 60*time.Second),

		QueuePath:      getEnv("QUEUE_PATH", "./data/queue.csv"),
		CatalogPath:    getEnv("CATALOG_PATH", "./data/images.json"),
		VoiceGuidePath: getEnv("VOICE_GUIDE_PATH", "./data/voice.md"),
		BlocklistPath:  getEnv("BLOCKLIST_PATH", "./data/blocklist.txt"),
		StatePath:      getEnv("STATE_PATH", "./data/state.json"),
		ImageDir:       getEnv("IMAGE_DIR", "./data/images"),

		PostsPerDay:     getEnvAsInt("POSTS_PER_DAY", 1),
		ImagesPerPost:   getEnvAsInt("IMAGES_PER_POST", 2),
		MaxImages:       getEnvAsInt("MAX_IMAGES", 4),
		QuietStart:      getEnv("QUIET_START", "23:00"),
		QuietEnd:        getEnv("QUIET_END", "07:00"),
		JitterMinutes:   getEnvAsInt("JITTER_MINUTES", 10),
		HashHistoryCap:  getEnvAsInt("HASH_HISTORY_CAP", 50),
		ImageHistoryCap: getEnvAsInt("IMAGE_HISTORY_CAP", 20),

		WebhookURL:  getEnv("WEBHOOK_URL", ""),
		NotifyLevel: getEnv("NOTIFY_LEVEL", "errors"),

		R2Endpoint:  getEnv("R2_ENDPOINT", ""),
		R2AccessKey: getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:    getEnv("R2_BUCKET", "skypost"),

		RedisURL:    getEnv("REDIS_URL", ""),
		RedisPrefix: getEnv("REDIS_PREFIX", "skypost:"),
		DedupeTTL:   getEnvAsDuration("DEDUPE_TTL", 720*time.Hour),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),

		DryRun: getEnvAsBool("DRY_RUN", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.ImagesPerPost > c.MaxImages {
		return fmt.Errorf("IMAGES_PER_POST (%d) exceeds MAX_IMAGES (%d)", c.ImagesPerPost, c.MaxImages)
	}
	// Publishing credentials are only required when a real publish can
	// happen. Dry runs must work without them.
	if !c.DryRun && (c.BskyIdentifier == "" || c.BskyPassword == "") {
		return fmt.Errorf("BSKY_IDENTIFIER and BSKY_APP_PASSWORD are required unless DRY_RUN=true")
	}
	for _, hm := range []string{c.QuietStart, c.QuietEnd} {
		if hm == "" {
			continue
		}
		if _, err := time.Parse("15:04", hm); err != nil {
			return fmt.Errorf("invalid quiet-hours boundary %q: %w", hm, err)
		}
	}
	return nil
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
