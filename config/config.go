package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Search    SearchConfig
	Scoring   ScoringConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds the SQLite food database settings
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// SearchConfig holds fuzzy-resolution tuning
type SearchConfig struct {
	MinScore float64 `mapstructure:"min_score"`
	MaxLimit int     `mapstructure:"max_limit"`
}

// ScoringConfig holds the sub-score weights for the overall quality score
type ScoringConfig struct {
	ProteinWeight      float64 `mapstructure:"protein_weight"`
	CarbWeight         float64 `mapstructure:"carb_weight"`
	FatWeight          float64 `mapstructure:"fat_weight"`
	ProcessingWeight   float64 `mapstructure:"processing_weight"`
	TransparencyWeight float64 `mapstructure:"transparency_weight"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/nutrilens/")

	// Environment variable settings
	v.SetEnvPrefix("NUTRILENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads KEY=VALUE pairs from a .env file in the working
// directory. Missing file is not an error; existing environment variables
// are never overridden.
func loadEnvFile() error {
	f, err := os.Open(".env")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		os.Setenv(key, strings.TrimSpace(value))
	}
	return scanner.Err()
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Database defaults
	v.SetDefault("database.path", "data/foods.db")

	// Search defaults
	v.SetDefault("search.min_score", 60.0)
	v.SetDefault("search.max_limit", 50)

	// Scoring defaults
	v.SetDefault("scoring.protein_weight", 0.25)
	v.SetDefault("scoring.carb_weight", 0.20)
	v.SetDefault("scoring.fat_weight", 0.15)
	v.SetDefault("scoring.processing_weight", 0.25)
	v.SetDefault("scoring.transparency_weight", 0.15)

	// Cache defaults
	v.SetDefault("cache.ttl", "24h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Database.Path == "" {
		return fmt.Errorf("database path is required (set NUTRILENS_DATABASE_PATH)")
	}

	if config.Search.MinScore < 0 || config.Search.MinScore > 100 {
		return fmt.Errorf("search min_score must be between 0 and 100, got: %g", config.Search.MinScore)
	}

	if config.Search.MaxLimit < 1 {
		return fmt.Errorf("search max_limit must be at least 1, got: %d", config.Search.MaxLimit)
	}

	weightSum := config.Scoring.ProteinWeight + config.Scoring.CarbWeight +
		config.Scoring.FatWeight + config.Scoring.ProcessingWeight + config.Scoring.TransparencyWeight
	if weightSum <= 0 {
		return fmt.Errorf("scoring weights must sum to a positive value, got: %g", weightSum)
	}

	if config.RateLimit.PerIP < 1 {
		return fmt.Errorf("rate limit per_ip must be at least 1, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
