package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Apify     ApifyConfig     `yaml:"apify" mapstructure:"apify"`
	Ebay      EbayConfig      `yaml:"ebay" mapstructure:"ebay"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Compare   CompareConfig   `yaml:"compare" mapstructure:"compare"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ApifyConfig holds Apify actor credentials and addressing.
type ApifyConfig struct {
	Token    string `yaml:"token" mapstructure:"token"`
	Actor    string `yaml:"actor" mapstructure:"actor"`
	Username string `yaml:"username" mapstructure:"username"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
}

// EbayConfig holds eBay Browse API credentials and search behavior.
type EbayConfig struct {
	ClientID      string  `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret  string  `yaml:"client_secret" mapstructure:"client_secret"`
	Env           string  `yaml:"env" mapstructure:"env"`
	MarketplaceID string  `yaml:"marketplace_id" mapstructure:"marketplace_id"`
	SearchLimit   int     `yaml:"search_limit" mapstructure:"search_limit"`
	RateLimitRPS  float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
}

// Sandbox reports whether the sandbox environment is selected.
func (c EbayConfig) Sandbox() bool {
	return strings.EqualFold(c.Env, "sandbox")
}

// AnthropicConfig holds Anthropic API settings for the researcher.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// CompareConfig configures the comparison pipeline and batch fan-out.
type CompareConfig struct {
	TopMatches    int  `yaml:"top_matches" mapstructure:"top_matches"`
	MaxConcurrent int  `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	FailFast      bool `yaml:"fail_fast" mapstructure:"fail_fast"`
}

// StoreConfig configures the run-history store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP server.
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
	v.SetEnvPrefix("LOTCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Credential keys get empty defaults so Unmarshal sees
	// their env-only overrides.
	v.SetDefault("apify.token", "")
	v.SetDefault("apify.username", "")
	v.SetDefault("ebay.client_id", "")
	v.SetDefault("ebay.client_secret", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("apify.actor", "catawiki")
	v.SetDefault("apify.base_url", "https://api.apify.com/v2")
	v.SetDefault("ebay.env", "production")
	v.SetDefault("ebay.marketplace_id", "EBAY_US")
	v.SetDefault("ebay.search_limit", 20)
	v.SetDefault("ebay.rate_limit_rps", 0)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("compare.top_matches", 8)
	v.SetDefault("compare.max_concurrent", 5)
	v.SetDefault("compare.fail_fast", false)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "lotcheck.db")
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
