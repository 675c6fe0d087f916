package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Matching  MatchingConfig
	Cart      CartConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MatchingConfig holds matching-engine configuration
type MatchingConfig struct {
	CandidateCap  int           `mapstructure:"candidate_cap"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	MinSimilarity float64       `mapstructure:"min_similarity"`
	DebugTrace    bool          `mapstructure:"debug_trace"`
}

// CartConfig holds cart-optimization configuration
type CartConfig struct {
	TopupBoundPct    float64           `mapstructure:"topup_bound_pct"`
	LineTopupCapPct  float64           `mapstructure:"line_topup_cap_pct"`
	DefaultMinimum   string            `mapstructure:"default_minimum"`
	SupplierMinimums map[string]string `mapstructure:"supplier_minimums"`
}

// CatalogConfig holds catalog store configuration
type CatalogConfig struct {
	Driver     string `mapstructure:"driver"` // "memory" or "sqlite"
	SQLitePath string `mapstructure:"sqlite_path"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/supplymatch/")

	// Environment variable settings
	v.SetEnvPrefix("SUPPLYMATCH")
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

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Matching defaults
	v.SetDefault("matching.candidate_cap", 200)
	v.SetDefault("matching.cache_ttl", "24h")
	v.SetDefault("matching.min_similarity", 30.0)
	v.SetDefault("matching.debug_trace", false)

	// Cart defaults
	v.SetDefault("cart.topup_bound_pct", 0.10)
	v.SetDefault("cart.line_topup_cap_pct", 0.10)
	v.SetDefault("cart.default_minimum", "0")

	// Catalog defaults
	v.SetDefault("catalog.driver", "memory")
	v.SetDefault("catalog.sqlite_path", "catalog.db")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.Driver != "memory" && config.Catalog.Driver != "sqlite" {
		return fmt.Errorf("catalog driver must be 'memory' or 'sqlite', got: %s", config.Catalog.Driver)
	}

	if config.Catalog.Driver == "sqlite" && config.Catalog.SQLitePath == "" {
		return fmt.Errorf("sqlite path is required when catalog driver is 'sqlite'")
	}

	if config.Matching.CandidateCap <= 0 {
		return fmt.Errorf("matching candidate cap must be positive, got: %d", config.Matching.CandidateCap)
	}

	if config.Matching.MinSimilarity < 0 || config.Matching.MinSimilarity > 100 {
		return fmt.Errorf("matching min similarity must be in [0, 100], got: %g", config.Matching.MinSimilarity)
	}

	if config.Cart.TopupBoundPct < 0 || config.Cart.TopupBoundPct >= 1 {
		return fmt.Errorf("cart top-up bound must be in [0, 1), got: %g", config.Cart.TopupBoundPct)
	}

	if config.Cart.LineTopupCapPct < 0 || config.Cart.LineTopupCapPct >= 1 {
		return fmt.Errorf("cart line top-up cap must be in [0, 1), got: %g", config.Cart.LineTopupCapPct)
	}

	return nil
}
