// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"telegram-relay-bot/internal/domain/model"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingToken  = errors.New("bot.token is required")
)

const DefaultPath = "config.yaml"

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token         string `yaml:"token"`
	OperatorID    string `yaml:"operator_id"` // kept raw; validity is reported, not enforced
	PublicURL     string `yaml:"public_url"`  // selects webhook mode when set
	WebhookPath   string `yaml:"webhook_path"`
	WebhookSecret string `yaml:"webhook_secret"`
	Workers       int    `yaml:"workers"`
	Language      string `yaml:"language"` // en | uk
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type RateLimitConfig struct {
	Limit  int           `yaml:"limit"`
	Window time.Duration `yaml:"window"`
}

type ModerationConfig struct {
	AllowOperatorBlock bool `yaml:"allow_operator_block"`
}

type AdminConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type Config struct {
	Bot        BotConfig        `yaml:"bot"`
	HTTP       HTTPConfig       `yaml:"http"`
	Log        LogConfig        `yaml:"log"`
	Redis      RedisConfig      `yaml:"redis"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Moderation ModerationConfig `yaml:"moderation"`
	Admin      AdminConfig      `yaml:"admin"`

	Runtime RuntimeConfig `yaml:"-"`
}

// Load reads path (when present), applies environment overrides and defaults,
// then validates. A missing file is only an error when explicit is true.
func Load(path string, explicit bool) (*Config, error) {
	var cfg Config
	if path == "" {
		path = DefaultPath
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidConfig, path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	setStr := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
				*dst = strings.TrimSpace(v)
				return
			}
		}
	}
	setStr(&cfg.Bot.Token, "BOT_TOKEN")
	setStr(&cfg.Bot.OperatorID, "ADMIN_ID", "OPERATOR_ID")
	setStr(&cfg.Bot.PublicURL, "PUBLIC_URL", "WEBHOOK_URL")
	setStr(&cfg.Bot.Language, "BOT_LANGUAGE")
	setStr(&cfg.Redis.URL, "REDIS_URL")
	setStr(&cfg.Log.Level, "LOG_LEVEL")
	setStr(&cfg.Admin.JWTSecret, "ADMIN_JWT_SECRET")

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PORT=%q is not a number", ErrInvalidConfig, v)
		}
		cfg.HTTP.Port = port
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 4
	}
	if cfg.Bot.WebhookPath == "" {
		cfg.Bot.WebhookPath = "/telegram/webhook"
	}
	if !strings.HasPrefix(cfg.Bot.WebhookPath, "/") {
		cfg.Bot.WebhookPath = "/" + cfg.Bot.WebhookPath
	}
	if cfg.Bot.WebhookSecret == "" {
		// Telegram only allows [A-Za-z0-9_-] in secret tokens.
		cfg.Bot.WebhookSecret = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	if cfg.Bot.Language == "" {
		cfg.Bot.Language = "en"
	}
	cfg.Bot.PublicURL = strings.TrimRight(cfg.Bot.PublicURL, "/")
	if cfg.HTTP.Port <= 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.RateLimit.Limit <= 0 {
		cfg.RateLimit.Limit = 20
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = time.Minute
	}
	if cfg.Admin.TokenTTL <= 0 {
		cfg.Admin.TokenTTL = 30 * 24 * time.Hour
	}
}

// Validate reports startup configuration errors. The operator id is
// intentionally not checked here; /admin_status reports its validity.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Bot.Token) == "" {
		return ErrMissingToken
	}
	if c.Bot.PublicURL != "" && !strings.HasPrefix(c.Bot.PublicURL, "https://") {
		return fmt.Errorf("%w: bot.public_url must start with https://", ErrInvalidConfig)
	}
	if c.HTTP.Port > 65535 {
		return fmt.Errorf("%w: http.port %d out of range", ErrInvalidConfig, c.HTTP.Port)
	}
	switch c.Bot.Language {
	case "en", "uk":
	default:
		return fmt.Errorf("%w: unsupported bot.language %q", ErrInvalidConfig, c.Bot.Language)
	}
	return nil
}

// TransportMode is webhook when a public base URL is configured.
func (c *Config) TransportMode() model.TransportMode {
	if c.Bot.PublicURL != "" {
		return model.TransportWebhook
	}
	return model.TransportPolling
}

// WebhookURL is the absolute URL registered with Telegram.
func (c *Config) WebhookURL() string {
	return c.Bot.PublicURL + c.Bot.WebhookPath
}
