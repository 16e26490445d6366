package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	USDA        USDAConfig        `mapstructure:"usda"`
	Enhancement EnhancementConfig `mapstructure:"enhancement"`
	Cache       CacheConfig       `mapstructure:"cache"`
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit"`
	Log         LogConfig         `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// USDAConfig holds FoodData Central configuration
type USDAConfig struct {
	APIKey          string         `mapstructure:"api_key"`
	BaseURL         string         `mapstructure:"base_url"`
	Timeout         time.Duration  `mapstructure:"timeout"`
	PageSize        int            `mapstructure:"page_size"`
	RequestsPerHour int            `mapstructure:"requests_per_hour"`
	Sources         []SourceConfig `mapstructure:"sources"`
}

// SourceConfig describes one FoodData Central data type in search order.
// Lower Priority is searched first.
type SourceConfig struct {
	Name      string `mapstructure:"name"`
	Priority  int    `mapstructure:"priority"`
	BaseScore int    `mapstructure:"base_score"`
}

// EnhancementConfig holds batch processing configuration
type EnhancementConfig struct {
	MaxConcurrency     int     `mapstructure:"max_concurrency"`
	DefaultWeightGrams float64 `mapstructure:"default_weight_grams"`
	UseCuisineHints    bool    `mapstructure:"use_cuisine_hints"`
}

// CacheConfig holds source response cache configuration
type CacheConfig struct {
	Type string        `mapstructure:"type"` // "memory", "sqlite" or "none"
	Path string        `mapstructure:"path"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds inbound rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// DefaultSources is the FoodData Central search order used when no sources are configured.
var DefaultSources = []SourceConfig{
	{Name: "Foundation", Priority: 1, BaseScore: 100},
	{Name: "SR Legacy", Priority: 2, BaseScore: 80},
	{Name: "Survey (FNDDS)", Priority: 3, BaseScore: 60},
	{Name: "Branded", Priority: 4, BaseScore: 40},
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/platescan/")

	v.SetEnvPrefix("PLATESCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional - env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFile loads configuration from an explicit file path plus environment variables.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Load()
	}
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("PLATESCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if len(config.USDA.Sources) == 0 {
		config.USDA.Sources = append([]SourceConfig(nil), DefaultSources...)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads variables from ./.env without overriding the environment.
// A missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// USDA defaults
	v.SetDefault("usda.api_key", "")
	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")
	v.SetDefault("usda.timeout", "15s")
	v.SetDefault("usda.page_size", 10)
	v.SetDefault("usda.requests_per_hour", 1000)

	// Enhancement defaults
	v.SetDefault("enhancement.max_concurrency", 4)
	v.SetDefault("enhancement.default_weight_grams", 100.0)
	v.SetDefault("enhancement.use_cuisine_hints", false)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.path", "platescan-cache.db")
	v.SetDefault("cache.ttl", "720h") // 30 days

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// validate validates the configuration.
// A missing USDA API key is allowed: every item then falls back to estimates.
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if config.USDA.Timeout <= 0 {
		return fmt.Errorf("usda timeout must be positive, got: %s", config.USDA.Timeout)
	}

	if config.USDA.PageSize <= 0 {
		return fmt.Errorf("usda page size must be positive, got: %d", config.USDA.PageSize)
	}

	if len(config.USDA.Sources) == 0 {
		return fmt.Errorf("at least one usda source is required")
	}

	seen := make(map[string]bool, len(config.USDA.Sources))
	for _, src := range config.USDA.Sources {
		if strings.TrimSpace(src.Name) == "" {
			return fmt.Errorf("usda source name is required")
		}
		if seen[src.Name] {
			return fmt.Errorf("duplicate usda source: %s", src.Name)
		}
		if src.BaseScore < 0 {
			return fmt.Errorf("usda source %s: base score must not be negative", src.Name)
		}
		seen[src.Name] = true
	}

	switch config.Cache.Type {
	case "memory", "none":
	case "sqlite":
		if config.Cache.Path == "" {
			return fmt.Errorf("cache path is required when cache type is 'sqlite'")
		}
	default:
		return fmt.Errorf("cache type must be 'memory', 'sqlite' or 'none', got: %s", config.Cache.Type)
	}

	if config.Log.Format != "" && config.Log.Format != "console" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'console' or 'json', got: %s", config.Log.Format)
	}

	return nil
}
