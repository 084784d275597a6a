package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type TMDBConfig struct {
	APIKey       string `toml:"api_key"`
	BaseURL      string `toml:"base_url"`
	ImageBaseURL string `toml:"image_base_url"`
	Language     string `toml:"language"`
}

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	// MonthlyBudgetUSD gates LLM-backed endpoints once the month's estimated spend passes it.
	MonthlyBudgetUSD float64 `toml:"monthly_budget_usd"`
}

type RedisConfig struct {
	Addr string `toml:"addr"`
}

type RateLimitConfig struct {
	Enabled   bool `toml:"enabled"`
	PerMinute int  `toml:"per_minute"`
	PerDay    int  `toml:"per_day"`
}

type RecommendConfig struct {
	// Diversity toggles the genre/director diversity filter on ranked results.
	Diversity bool `toml:"diversity"`
}

type Config struct {
	Port          string          `toml:"port"`
	Mode          string          `toml:"mode"`
	CacheTTLHours int             `toml:"cache_ttl_hours"`
	EmergencyStop bool            `toml:"emergency_stop"`
	TMDB          TMDBConfig      `toml:"tmdb"`
	LLM           LLMConfig       `toml:"llm"`
	Redis         RedisConfig     `toml:"redis"`
	RateLimit     RateLimitConfig `toml:"rate_limit"`
	Recommend     RecommendConfig `toml:"recommend"`
}

func Default() *Config {
	return &Config{
		Port:          "8080",
		Mode:          "development",
		CacheTTLHours: 24,
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
			Language:     "en-US",
		},
		LLM: LLMConfig{
			Provider:         "openai",
			Model:            "gpt-4.1-mini",
			MonthlyBudgetUSD: 7.0,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		RateLimit: RateLimitConfig{
			Enabled:   true,
			PerMinute: 3,
			PerDay:    100,
		},
		Recommend: RecommendConfig{
			Diversity: true,
		},
	}
}

// Load reads the TOML config at path on top of defaults, then applies env overrides.
// A missing file is not an error; env-only deployments are supported.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Port, "PORT")
	setString(&c.Mode, "APP_MODE")
	setInt(&c.CacheTTLHours, "CACHE_TTL_HOURS")
	setBool(&c.EmergencyStop, "EMERGENCY_STOP")

	setString(&c.TMDB.APIKey, "TMDB_API_KEY")
	setString(&c.TMDB.BaseURL, "TMDB_BASE_URL")
	setString(&c.TMDB.Language, "TMDB_LANGUAGE")

	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.LLM.APIKey, "OPENAI_API_KEY")
	setString(&c.LLM.APIKey, "LLM_API_KEY")
	setString(&c.LLM.BaseURL, "LLM_BASE_URL")
	setFloat(&c.LLM.MonthlyBudgetUSD, "LLM_MONTHLY_BUDGET")

	setString(&c.Redis.Addr, "REDIS_ADDR")

	setBool(&c.RateLimit.Enabled, "RATE_LIMIT_ENABLED")
	setInt(&c.RateLimit.PerMinute, "RATE_LIMIT_PER_MINUTE")
	setInt(&c.RateLimit.PerDay, "RATE_LIMIT_PER_DAY")

	setBool(&c.Recommend.Diversity, "RECOMMEND_DIVERSITY")
}

// Validate reports the credentials required for live operation.
func (c *Config) Validate() []string {
	var missing []string
	if c.TMDB.APIKey == "" {
		missing = append(missing, "TMDB_API_KEY")
	}
	if c.LLM.APIKey == "" {
		missing = append(missing, "LLM_API_KEY")
	}
	return missing
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
