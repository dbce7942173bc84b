// Package config provides configuration management for the Food Club calculator.
package config

import "time"

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Calculator CalculatorConfig `mapstructure:"calculator" validate:"required"`
	Source     SourceConfig     `mapstructure:"source" validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	Watch      WatchConfig      `mapstructure:"watch" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// CalculatorConfig configures the probability model, stakes and memo cache
type CalculatorConfig struct {
	Model           string `mapstructure:"model" validate:"required,model"`
	MaxBet          int    `mapstructure:"max_bet" validate:"gte=0,lte=1000000"`
	BetAmount       int    `mapstructure:"bet_amount" validate:"gte=0"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	CacheMaxSize    int    `mapstructure:"cache_max_size" validate:"required,gt=0"`
}

// SourceConfig configures where round data is fetched from. BaseURL is an
// http(s) URL or a local directory.
type SourceConfig struct {
	BaseURL                  string  `mapstructure:"base_url" validate:"required"`
	TimeoutSeconds           int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries               int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RateLimit                float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	RoundCacheSeconds        int     `mapstructure:"round_cache_seconds" validate:"gte=0"`
	CurrentRoundCacheSeconds int     `mapstructure:"current_round_cache_seconds" validate:"gte=0"`
}

// SimulationConfig configures Monte Carlo cross-checks
type SimulationConfig struct {
	Iterations int   `mapstructure:"iterations" validate:"required,gt=0,lte=10000000"`
	Seed       int64 `mapstructure:"seed"`
}

// WatchConfig configures the polling re-calculation loop
type WatchConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics export configuration
type MetricsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Address      string `mapstructure:"address"`
	TextfilePath string `mapstructure:"textfile_path"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// UseLogitModel reports whether the logit model is selected
func (c *Config) UseLogitModel() bool {
	return c.Calculator.Model == "logit"
}

// CacheTTL returns the memo cache lifetime; zero keeps entries until invalidated
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Calculator.CacheTTLSeconds) * time.Second
}

// SourceTimeout returns the per-request timeout of the round source
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.Source.TimeoutSeconds) * time.Second
}

// RoundCacheTTL returns how long fetched rounds are reused
func (c *Config) RoundCacheTTL() time.Duration {
	return time.Duration(c.Source.RoundCacheSeconds) * time.Second
}

// CurrentRoundCacheTTL returns how long the current round number is reused
func (c *Config) CurrentRoundCacheTTL() time.Duration {
	return time.Duration(c.Source.CurrentRoundCacheSeconds) * time.Second
}

// WatchInterval returns the polling interval of the watch loop
func (c *Config) WatchInterval() time.Duration {
	return time.Duration(c.Watch.IntervalSeconds) * time.Second
}
