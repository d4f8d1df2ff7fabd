package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	Port        int    `mapstructure:"port"`
	DBPath      string `mapstructure:"db_path"`
	DatabaseURL string `mapstructure:"database_url"`
	SeedPath    string `mapstructure:"seed_path"`

	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`

	TileURL           string        `mapstructure:"tile_url"`
	TileCacheTTL      time.Duration `mapstructure:"tile_cache_ttl"`
	TileCacheCapacity uint64        `mapstructure:"tile_cache_capacity"`

	NATSURL string `mapstructure:"nats_url"`

	FixMaxAge time.Duration `mapstructure:"fix_max_age"`
	ExportTZ  string        `mapstructure:"export_tz"`

	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

const DefaultTileURL = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"

// Load reads an optional .env file, an optional config.yaml and the environment.
// Keys are the upper-case environment names (PORT, DB_PATH, ...).
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("port", 8080)
	v.SetDefault("db_path", "data/survey.db")
	v.SetDefault("database_url", "")
	v.SetDefault("seed_path", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("tile_url", DefaultTileURL)
	v.SetDefault("tile_cache_ttl", 24*time.Hour)
	v.SetDefault("tile_cache_capacity", 2048)
	v.SetDefault("nats_url", "")
	v.SetDefault("fix_max_age", 2*time.Minute)
	v.SetDefault("export_tz", "UTC")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // optional

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("load config: unmarshal: %w", err)
	}

	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.GeminiAPIKey = strings.TrimSpace(cfg.GeminiAPIKey)
	cfg.NATSURL = strings.TrimSpace(cfg.NATSURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that configuration values are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("PORT must be 1-65535, got %d", c.Port))
	}
	if c.DatabaseURL == "" && strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, "one of DB_PATH or DATABASE_URL is required")
	}
	if c.GeminiAPIKey != "" && strings.TrimSpace(c.GeminiModel) == "" {
		errs = append(errs, "GEMINI_MODEL is required when GEMINI_API_KEY is set")
	}
	if !strings.Contains(c.TileURL, "{z}") || !strings.Contains(c.TileURL, "{x}") || !strings.Contains(c.TileURL, "{y}") {
		errs = append(errs, fmt.Sprintf("TILE_URL must contain {z}, {x} and {y}, got %q", c.TileURL))
	}
	if c.TileCacheTTL <= 0 {
		errs = append(errs, "TILE_CACHE_TTL must be positive")
	}
	if c.TileCacheCapacity == 0 {
		errs = append(errs, "TILE_CACHE_CAPACITY must be positive")
	}
	if c.FixMaxAge <= 0 {
		errs = append(errs, "FIX_MAX_AGE must be positive")
	}
	if _, err := time.LoadLocation(c.ExportTZ); err != nil {
		errs = append(errs, fmt.Sprintf("EXPORT_TZ %q: %v", c.ExportTZ, err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ExportLocation returns the time zone used to render capture dates.
func (c *Config) ExportLocation() *time.Location {
	loc, err := time.LoadLocation(c.ExportTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
