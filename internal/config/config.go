package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DatabaseDriver  string
	DatabaseURL     string
	RedisURL        string
	NATSURL         string
	EventSubject    string
	ContentDir      string
	LegacyDir       string
	AIModel         string
	AIBaseURL       string
	AITimeout       time.Duration
	AIMaxTokens     int
	OpenAIAPIKey    string
	CacheTTL        time.Duration
	SeedEnabled     bool
	SeedToken       string
	SeedOnStart     bool
	AllowedOrigins  string
	ShutdownTimeout time.Duration
	SubmitRateLimit int
	SubmitWindow    time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PYDAYS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "PyDays API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("events.subject", "pydays")
	v.SetDefault("content.dir", "content/days")
	v.SetDefault("content.legacy_dir", "content/legacy")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.timeout", "30s")
	v.SetDefault("ai.max_tokens", 1024)
	v.SetDefault("cache.ttl", "1m")
	v.SetDefault("seed.enabled", false)
	v.SetDefault("seed.on_start", false)
	v.SetDefault("cors.allowed_origins", "*")
	v.SetDefault("shutdown.timeout", "10s")
	v.SetDefault("submit.rate_limit", 20)
	v.SetDefault("submit.window", "1m")

	aiTimeout, err := parseDuration(v, "ai.timeout")
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := parseDuration(v, "cache.ttl")
	if err != nil {
		return Config{}, err
	}
	shutdownTimeout, err := parseDuration(v, "shutdown.timeout")
	if err != nil {
		return Config{}, err
	}
	submitWindow, err := parseDuration(v, "submit.window")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DatabaseDriver:  strings.ToLower(strings.TrimSpace(v.GetString("database.driver"))),
		DatabaseURL:     v.GetString("database.url"),
		RedisURL:        v.GetString("redis.url"),
		NATSURL:         v.GetString("nats.url"),
		EventSubject:    v.GetString("events.subject"),
		ContentDir:      v.GetString("content.dir"),
		LegacyDir:       v.GetString("content.legacy_dir"),
		AIModel:         v.GetString("ai.model"),
		AIBaseURL:       v.GetString("ai.base_url"),
		AITimeout:       aiTimeout,
		AIMaxTokens:     v.GetInt("ai.max_tokens"),
		OpenAIAPIKey:    v.GetString("openai_api_key"),
		CacheTTL:        cacheTTL,
		SeedEnabled:     v.GetBool("seed.enabled"),
		SeedToken:       v.GetString("seed.token"),
		SeedOnStart:     v.GetBool("seed.on_start"),
		AllowedOrigins:  v.GetString("cors.allowed_origins"),
		ShutdownTimeout: shutdownTimeout,
		SubmitRateLimit: v.GetInt("submit.rate_limit"),
		SubmitWindow:    submitWindow,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	switch cfg.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	if cfg.SeedEnabled && strings.TrimSpace(cfg.SeedToken) == "" {
		return Config{}, fmt.Errorf("seed token must be provided when seeding is enabled")
	}

	if cfg.AIMaxTokens <= 0 {
		cfg.AIMaxTokens = 1024
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	value, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return value, nil
}
