package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/propply/compliance-engine/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Socrata   SocrataConfig   `yaml:"socrata" mapstructure:"socrata"`
	GeoSearch GeoSearchConfig `yaml:"geosearch" mapstructure:"geosearch"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Score     ScoreConfig     `yaml:"score" mapstructure:"score"`
	Webhook   WebhookConfig   `yaml:"webhook" mapstructure:"webhook"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SocrataConfig holds NYC Open Data API settings.
type SocrataConfig struct {
	BaseURL       string  `yaml:"base_url" mapstructure:"base_url"`
	Username      string  `yaml:"username" mapstructure:"username"`
	Password      string  `yaml:"password" mapstructure:"password"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	TimeoutSecs   int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	// CategoryFile points at an optional YAML file overriding the
	// built-in category table (dataset IDs, field names, strategies).
	CategoryFile string `yaml:"category_file" mapstructure:"category_file"`
}

// GeoSearchConfig holds NYC Planning GeoSearch settings.
type GeoSearchConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// CacheConfig configures the query cache.
type CacheConfig struct {
	Backend  string `yaml:"backend" mapstructure:"backend"` // memory | redis | off
	TTLMins  int    `yaml:"ttl_mins" mapstructure:"ttl_mins"`
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
}

// TTL returns the configured cache TTL.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMins) * time.Minute
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string            `yaml:"driver" mapstructure:"driver"` // postgres | sqlite | off
	DatabaseURL string            `yaml:"database_url" mapstructure:"database_url"`
	Pool        *store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// ScoreConfig configures overall score weighting. Weights are keyed by
// category name and must sum to 1.0 when set; empty means defaults.
type ScoreConfig struct {
	Weights map[string]float64 `yaml:"weights" mapstructure:"weights"`
}

// WebhookConfig configures record forwarding.
type WebhookConfig struct {
	URL    string `yaml:"url" mapstructure:"url"`
	Source string `yaml:"source" mapstructure:"source"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentAddresses int `yaml:"max_concurrent_addresses" mapstructure:"max_concurrent_addresses"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROPPLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("socrata.base_url", "https://data.cityofnewyork.us/resource")
	v.SetDefault("socrata.rate_per_second", 10.0)
	v.SetDefault("socrata.timeout_secs", 30)
	v.SetDefault("geosearch.base_url", "https://geosearch.planninglabs.nyc/v2")
	v.SetDefault("geosearch.timeout_secs", 15)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl_mins", 15)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "compliance.db")
	v.SetDefault("webhook.source", "compliance-engine")
	v.SetDefault("batch.max_concurrent_addresses", 5)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
