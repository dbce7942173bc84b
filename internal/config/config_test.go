// Package config provides configuration management for the Food Club calculator.
package config

import (
	"strings"
	"testing"
	"time"
)

const (
	validConfigPath              = "testdata/valid_config.yaml"
	expansionConfigPath          = "testdata/expansion_config.yaml"
	invalidYAMLPath              = "testdata/invalid_yaml.yaml"
	nonexistentConfigPath        = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingConfig = "expected no error loading config, got %v"
	expectedNoErrorMsg           = "expected no error, got %v"
	expectedNonNilConfig         = "expected non-nil config"
	foodclubName                 = "foodclub"
	developmentEnv               = "development"
	invalidEnv                   = "invalid"
	testAppName                  = "test-app"
	testRoundHost                = "TEST_ROUND_HOST"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg == nil {
		t.Fatal(expectedNonNilConfig)
	}

	if cfg.App.Name != foodclubName {
		t.Errorf("expected app name '%s', got '%s'", foodclubName, cfg.App.Name)
	}

	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}

	if cfg.Calculator.BetAmount != 4000 {
		t.Errorf("expected bet amount 4000, got %d", cfg.Calculator.BetAmount)
	}

	if cfg.Source.BaseURL != "http://localhost:8080" {
		t.Errorf("expected base url 'http://localhost:8080', got '%s'", cfg.Source.BaseURL)
	}

	if cfg.Simulation.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Simulation.Seed)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigInvalidYAML tests handling of unparsable configuration
func TestLoadConfigInvalidYAML(t *testing.T) {
	_, err := Load(invalidYAMLPath)
	if err == nil {
		t.Fatal("expected error for invalid yaml")
	}
	if !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("expected parse error, got: %v", err)
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("FOODCLUB_APP_NAME", testAppName)
	t.Setenv("FOODCLUB_CALCULATOR_MODEL", "logit")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}

	if !cfg.UseLogitModel() {
		t.Error("expected logit model from environment")
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests ${VAR} expansion in the config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	t.Setenv(testRoundHost, "http://rounds.test")

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.Source.BaseURL != "http://rounds.test" {
		t.Errorf("expected base url from environment expansion, got '%s'", cfg.Source.BaseURL)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("expected expanded config to validate, got %v", err)
	}
}

// TestLoadWithDefaultsMissingFile tests that defaults apply without a file
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.Calculator.Model != "legacy" {
		t.Errorf("expected default model 'legacy', got '%s'", cfg.Calculator.Model)
	}

	if cfg.RoundCacheTTL() != 10*time.Second {
		t.Errorf("expected round cache of 10s, got %s", cfg.RoundCacheTTL())
	}

	if cfg.CurrentRoundCacheTTL() != 5*time.Second {
		t.Errorf("expected current round cache of 5s, got %s", cfg.CurrentRoundCacheTTL())
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

// TestLoadWithDefaultsOverlaysFile tests that file values win over defaults
func TestLoadWithDefaultsOverlaysFile(t *testing.T) {
	cfg, err := LoadWithDefaults(expansionConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.Calculator.Model != "logit" {
		t.Errorf("expected model 'logit' from file, got '%s'", cfg.Calculator.Model)
	}

	if cfg.Source.MaxRetries != 3 {
		t.Errorf("expected default max retries 3, got %d", cfg.Source.MaxRetries)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateFailures tests each rejected field
func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"invalid environment", func(c *Config) { c.App.Environment = invalidEnv }, "Environment"},
		{"invalid log level", func(c *Config) { c.App.LogLevel = "trace" }, "LogLevel"},
		{"invalid model", func(c *Config) { c.Calculator.Model = "bayes" }, "legacy, logit"},
		{"missing base url", func(c *Config) { c.Source.BaseURL = "" }, "BaseURL"},
		{"zero rate limit", func(c *Config) { c.Source.RateLimit = 0 }, "RateLimit"},
		{"too many retries", func(c *Config) { c.Source.MaxRetries = 11 }, "MaxRetries"},
		{"bet above max bet", func(c *Config) { c.Calculator.BetAmount = 9000 }, "cannot exceed max_bet"},
		{"bad url", func(c *Config) { c.Source.BaseURL = "http://" + string([]byte{0x7f}) }, "base_url"},
		{"current round cached longer", func(c *Config) { c.Source.CurrentRoundCacheSeconds = 20 }, "current_round_cache_seconds"},
		{"metrics without sink", func(c *Config) { c.Metrics.Address = "" }, "metrics enabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(validConfigPath)
			if err != nil {
				t.Fatalf(expectedNoErrorLoadingConfig, err)
			}

			tt.mutate(cfg)
			err = Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got: %v", tt.want, err)
			}
		})
	}
}

// TestValidateNil tests validation of a nil configuration
func TestValidateNil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

// TestEnvironmentChecks tests the environment helpers
func TestEnvironmentChecks(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: developmentEnv}}
	if !cfg.IsDevelopment() || cfg.IsProduction() || cfg.IsStaging() {
		t.Error("expected development only")
	}

	cfg.App.Environment = "production"
	if !cfg.IsProduction() || cfg.IsDevelopment() {
		t.Error("expected production only")
	}

	cfg.App.Environment = "staging"
	if !cfg.IsStaging() {
		t.Error("expected IsStaging() to return true")
	}
}

// TestDurations tests the second-based settings conversions
func TestDurations(t *testing.T) {
	cfg := &Config{
		Calculator: CalculatorConfig{CacheTTLSeconds: 300},
		Source:     SourceConfig{TimeoutSeconds: 7},
		Watch:      WatchConfig{IntervalSeconds: 45},
	}

	if cfg.CacheTTL() != 5*time.Minute {
		t.Errorf("expected 5m cache ttl, got %s", cfg.CacheTTL())
	}
	if cfg.SourceTimeout() != 7*time.Second {
		t.Errorf("expected 7s timeout, got %s", cfg.SourceTimeout())
	}
	if cfg.WatchInterval() != 45*time.Second {
		t.Errorf("expected 45s interval, got %s", cfg.WatchInterval())
	}
}

// TestIsRemote tests base url classification
func TestIsRemote(t *testing.T) {
	if !IsRemote("https://example.com") || !IsRemote("http://localhost:8080") {
		t.Error("expected http(s) urls to be remote")
	}
	if IsRemote("data/rounds") {
		t.Error("expected a directory to be local")
	}
}
