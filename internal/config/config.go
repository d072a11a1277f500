package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string
	DBDriver      string
	DBPath        string
	DatabaseURL   string
	MaxDBConns    int
	RedisURL      string
	TokenSecret   string
	TokenTTL      time.Duration
	ChallengeTTL  time.Duration
	PurgeSchedule string
	LogLevel      string
	RateLimits    RateLimits
}

type RateLimits struct {
	AuthPerMinute   int
	SkillPerMinute  int
	SwapPerMinute   int
	RatingPerMinute int
	AdminPerMinute  int
}

// configFile mirrors the optional YAML file named by SKILLSWAP_CONFIG.
type configFile struct {
	Server struct {
		Addr     string `yaml:"addr"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"server"`
	Database struct {
		Driver   string `yaml:"driver"`
		Path     string `yaml:"path"`
		URL      string `yaml:"url"`
		MaxConns int    `yaml:"max_conns"`
	} `yaml:"database"`
	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`
	Auth struct {
		TokenSecret   string `yaml:"token_secret"`
		TokenTTL      string `yaml:"token_ttl"`
		ChallengeTTL  string `yaml:"challenge_ttl"`
		PurgeSchedule string `yaml:"purge_schedule"`
	} `yaml:"auth"`
	RateLimits struct {
		Auth   int `yaml:"auth_per_minute"`
		Skill  int `yaml:"skill_per_minute"`
		Swap   int `yaml:"swap_per_minute"`
		Rating int `yaml:"rating_per_minute"`
		Admin  int `yaml:"admin_per_minute"`
	} `yaml:"rate_limits"`
}

// DefaultTokenSecret is only accepted for local sqlite setups.
const DefaultTokenSecret = "dev-token-secret"

func defaults() Config {
	return Config{
		Addr:          ":8080",
		DBDriver:      "sqlite",
		DBPath:        "skillswap.db",
		MaxDBConns:    10,
		TokenSecret:   DefaultTokenSecret,
		TokenTTL:      24 * time.Hour,
		ChallengeTTL:  5 * time.Minute,
		PurgeSchedule: "@every 10m",
		LogLevel:      "info",
		RateLimits: RateLimits{
			AuthPerMinute:   30,
			SkillPerMinute:  20,
			SwapPerMinute:   20,
			RatingPerMinute: 20,
			AdminPerMinute:  60,
		},
	}
}

// Load resolves configuration as defaults, then the YAML file, then the
// environment.
func Load() (Config, error) {
	cfg := defaults()
	if path := os.Getenv("SKILLSWAP_CONFIG"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	cfg.Addr = envString("SKILLSWAP_ADDR", cfg.Addr)
	cfg.DBDriver = envString("SKILLSWAP_DB_DRIVER", cfg.DBDriver)
	cfg.DBPath = envString("SKILLSWAP_DB", cfg.DBPath)
	cfg.DatabaseURL = envString("SKILLSWAP_DATABASE_URL", cfg.DatabaseURL)
	cfg.MaxDBConns = envInt("SKILLSWAP_DB_MAX_CONNS", cfg.MaxDBConns)
	cfg.RedisURL = envString("SKILLSWAP_REDIS_URL", cfg.RedisURL)
	cfg.TokenSecret = envString("SKILLSWAP_TOKEN_SECRET", cfg.TokenSecret)
	cfg.TokenTTL = envDuration("SKILLSWAP_TOKEN_TTL", cfg.TokenTTL)
	cfg.ChallengeTTL = envDuration("SKILLSWAP_CHALLENGE_TTL", cfg.ChallengeTTL)
	cfg.PurgeSchedule = envString("SKILLSWAP_PURGE_SCHEDULE", cfg.PurgeSchedule)
	cfg.LogLevel = envString("SKILLSWAP_LOG_LEVEL", cfg.LogLevel)
	cfg.RateLimits.AuthPerMinute = envInt("SKILLSWAP_RL_AUTH_PER_MIN", cfg.RateLimits.AuthPerMinute)
	cfg.RateLimits.SkillPerMinute = envInt("SKILLSWAP_RL_SKILL_PER_MIN", cfg.RateLimits.SkillPerMinute)
	cfg.RateLimits.SwapPerMinute = envInt("SKILLSWAP_RL_SWAP_PER_MIN", cfg.RateLimits.SwapPerMinute)
	cfg.RateLimits.RatingPerMinute = envInt("SKILLSWAP_RL_RATING_PER_MIN", cfg.RateLimits.RatingPerMinute)
	cfg.RateLimits.AdminPerMinute = envInt("SKILLSWAP_RL_ADMIN_PER_MIN", cfg.RateLimits.AdminPerMinute)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("postgres driver requires SKILLSWAP_DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.DBDriver)
	}
	if c.TokenSecret == "" {
		return errors.New("token secret must not be empty")
	}
	if c.DBDriver == "postgres" && c.TokenSecret == DefaultTokenSecret {
		return errors.New("postgres driver requires SKILLSWAP_TOKEN_SECRET to be set")
	}
	return nil
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	setString(&cfg.Addr, f.Server.Addr)
	setString(&cfg.LogLevel, f.Server.LogLevel)
	setString(&cfg.DBDriver, f.Database.Driver)
	setString(&cfg.DBPath, f.Database.Path)
	setString(&cfg.DatabaseURL, f.Database.URL)
	setInt(&cfg.MaxDBConns, f.Database.MaxConns)
	setString(&cfg.RedisURL, f.Redis.URL)
	setString(&cfg.TokenSecret, f.Auth.TokenSecret)
	setString(&cfg.PurgeSchedule, f.Auth.PurgeSchedule)
	if err := setDuration(&cfg.TokenTTL, f.Auth.TokenTTL); err != nil {
		return fmt.Errorf("auth.token_ttl: %w", err)
	}
	if err := setDuration(&cfg.ChallengeTTL, f.Auth.ChallengeTTL); err != nil {
		return fmt.Errorf("auth.challenge_ttl: %w", err)
	}
	setInt(&cfg.RateLimits.AuthPerMinute, f.RateLimits.Auth)
	setInt(&cfg.RateLimits.SkillPerMinute, f.RateLimits.Skill)
	setInt(&cfg.RateLimits.SwapPerMinute, f.RateLimits.Swap)
	setInt(&cfg.RateLimits.RatingPerMinute, f.RateLimits.Rating)
	setInt(&cfg.RateLimits.AdminPerMinute, f.RateLimits.Admin)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
