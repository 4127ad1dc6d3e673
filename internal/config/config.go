package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// configDir is the configuration directory path
	// Can be set via SetConfigDir before loading config
	configDir     string
	configDirInit bool
)

// SetConfigDir sets a custom configuration directory
// Must be called before any config loading functions
func SetConfigDir(dir string) {
	configDir = dir
	configDirInit = true
}

// GetConfigDir returns the configuration directory
// Priority: 1. Manually set via SetConfigDir, 2. ./config in current directory
func GetConfigDir() string {
	if !configDirInit {
		cwd, err := os.Getwd()
		if err == nil {
			configDir = filepath.Join(cwd, "config")
		}
		configDirInit = true
	}
	return configDir
}

// Config application configuration structure
type Config struct {
	Model  ModelConfig  `yaml:"model"`
	Search SearchConfig `yaml:"search"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Cache  CacheConfig  `yaml:"cache"`
	Server ServerConfig `yaml:"server"`
}

// ModelConfig text-generation model configuration
type ModelConfig struct {
	Provider    string  `yaml:"provider"` // gemini, openai, groq, mistral
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// SearchConfig web search configuration
type SearchConfig struct {
	APIKey         string `yaml:"api_key"`
	Country        string `yaml:"country"`
	MaxResults     int    `yaml:"max_results"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// FetchConfig page retrieval configuration
type FetchConfig struct {
	UserAgent      string  `yaml:"user_agent"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	MaxChars       int     `yaml:"max_chars"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps"` // <=0 disables the limiter
}

// CacheConfig page cache configuration
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	DBPath     string `yaml:"db_path"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// ServerConfig HTTP server configuration
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Model: ModelConfig{
			Provider:    "gemini",
			APIKey:      "",
			BaseURL:     "",
			Model:       "",
			Temperature: 0.2,
			MaxTokens:   1024,
		},
		Search: SearchConfig{
			APIKey:         "",
			Country:        "india",
			MaxResults:     5,
			TimeoutSeconds: 15,
		},
		Fetch: FetchConfig{
			UserAgent:      "askweb/0.1",
			TimeoutSeconds: 15,
			MaxChars:       8000,
			RateLimitRPS:   4,
		},
		Cache: CacheConfig{
			Enabled:    true,
			DBPath:     filepath.Join(homeDir, ".askweb", "pages.db"),
			TTLMinutes: 60,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// providerDefaults fills base URL and model for known providers when unset.
var providerDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"gemini":  {"", "gemini-2.0-flash"},
	"openai":  {"https://api.openai.com", "gpt-4o-mini"},
	"groq":    {"https://api.groq.com/openai", "llama-3.3-70b-versatile"},
	"mistral": {"https://api.mistral.ai", "mistral-small-latest"},
}

// envKeyByProvider maps a provider to the environment variable holding its key.
var envKeyByProvider = map[string]string{
	"gemini":  "GEMINI_API_KEY",
	"openai":  "OPENAI_API_KEY",
	"groq":    "GROQ_API_KEY",
	"mistral": "MISTRAL_API_KEY",
}

// ConfigDir returns the configuration directory path
func ConfigDir() (string, error) {
	dir := GetConfigDir()
	if dir == "" {
		return "", fmt.Errorf("failed to determine config directory")
	}
	return dir, nil
}

// LogDir returns the log directory path
func LogDir() string {
	dir := GetConfigDir()
	if dir == "" {
		return "logs"
	}
	return filepath.Join(dir, "logs")
}

// ConfigPath returns the configuration file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads configuration from file and merges environment secrets
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config file doesn't exist, create default config
		cfg := DefaultConfig()
		cfg.mergeEnv()
		cfg.fillProviderDefaults()

		if err := Save(cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse config, using default values as base
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.mergeEnv()
	cfg.fillProviderDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeEnv fills empty secret fields from environment variables.
// File values win when both are present.
func (c *Config) mergeEnv() {
	if v := strings.TrimSpace(os.Getenv("MODEL_PROVIDER")); v != "" && strings.TrimSpace(c.Model.Provider) == "" {
		c.Model.Provider = v
	}
	provider := strings.ToLower(strings.TrimSpace(c.Model.Provider))
	if c.Model.APIKey == "" {
		if envKey, ok := envKeyByProvider[provider]; ok {
			c.Model.APIKey = strings.TrimSpace(os.Getenv(envKey))
		}
	}
	if c.Search.APIKey == "" {
		c.Search.APIKey = strings.TrimSpace(os.Getenv("TAVILY_API_KEY"))
	}
}

// fillProviderDefaults applies per-provider base URL and model defaults.
func (c *Config) fillProviderDefaults() {
	provider := strings.ToLower(strings.TrimSpace(c.Model.Provider))
	defaults, ok := providerDefaults[provider]
	if !ok {
		return
	}
	if strings.TrimSpace(c.Model.BaseURL) == "" {
		c.Model.BaseURL = defaults.BaseURL
	}
	if strings.TrimSpace(c.Model.Model) == "" {
		c.Model.Model = defaults.Model
	}
}

// Save saves configuration to file
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	// Ensure config directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Serialize config
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	// Add header comment
	content := "# askweb Configuration File\n\n" + string(data)

	// Write file
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	provider := strings.ToLower(strings.TrimSpace(c.Model.Provider))
	if provider == "" {
		return fmt.Errorf("config error: model.provider cannot be empty")
	}
	if _, ok := providerDefaults[provider]; !ok {
		return fmt.Errorf("config error: unknown model.provider %q", c.Model.Provider)
	}
	if provider != "gemini" && c.Model.BaseURL == "" {
		return fmt.Errorf("config error: model.base_url cannot be empty for provider %q", c.Model.Provider)
	}
	if c.Model.Model == "" {
		return fmt.Errorf("config error: model.model cannot be empty")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("config error: model.temperature must be between 0 and 2")
	}
	if c.Model.MaxTokens <= 0 {
		return fmt.Errorf("config error: model.max_tokens must be greater than 0")
	}

	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("config error: search.max_results must be greater than 0")
	}
	if c.Search.TimeoutSeconds <= 0 {
		return fmt.Errorf("config error: search.timeout_seconds must be greater than 0")
	}

	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("config error: fetch.timeout_seconds must be greater than 0")
	}
	if c.Fetch.MaxChars <= 0 {
		return fmt.Errorf("config error: fetch.max_chars must be greater than 0")
	}

	if c.Cache.Enabled {
		if c.Cache.DBPath == "" {
			return fmt.Errorf("config error: cache.db_path cannot be empty when cache is enabled")
		}
		if c.Cache.TTLMinutes <= 0 {
			return fmt.Errorf("config error: cache.ttl_minutes must be greater than 0")
		}
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("config error: server.addr cannot be empty")
	}

	return nil
}

// IsModelKeyConfigured checks if the model API key is configured
func (c *Config) IsModelKeyConfigured() bool {
	return c.Model.APIKey != ""
}

// String returns string representation of config (hides sensitive info)
func (c *Config) String() string {
	return fmt.Sprintf(`askweb Configuration:
  Model:
    Provider: %s
    API Key: %s
    Base URL: %s
    Model: %s
    Temperature: %.1f
    Max Tokens: %d
  Search:
    API Key: %s
    Country: %s
    Max Results: %d
    Timeout Seconds: %d
  Fetch:
    User Agent: %s
    Timeout Seconds: %d
    Max Chars: %d
    Rate Limit RPS: %.1f
  Cache:
    Enabled: %v
    DB Path: %s
    TTL Minutes: %d
  Server:
    Addr: %s`,
		c.Model.Provider,
		redactAPIKey(c.Model.APIKey),
		c.Model.BaseURL,
		c.Model.Model,
		c.Model.Temperature,
		c.Model.MaxTokens,
		redactAPIKey(c.Search.APIKey),
		c.Search.Country,
		c.Search.MaxResults,
		c.Search.TimeoutSeconds,
		c.Fetch.UserAgent,
		c.Fetch.TimeoutSeconds,
		c.Fetch.MaxChars,
		c.Fetch.RateLimitRPS,
		c.Cache.Enabled,
		c.Cache.DBPath,
		c.Cache.TTLMinutes,
		c.Server.Addr,
	)
}

func redactAPIKey(value string) string {
	if value == "" {
		return "(not configured)"
	}
	if len(value) > 8 {
		return value[:8] + "..."
	}
	return "***"
}
