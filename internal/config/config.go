package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Placeholder endpoints shipped in sample environments. They are rejected so a
// demo never runs against a host that cannot exist.
const (
	PlaceholderSearchEndpoint = "https://your-search-service.search.windows.net"
	PlaceholderOpenAIEndpoint = "https://your-openai-service.openai.azure.com"
)

// Config holds the archsearch configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Auth        AuthConfig        `yaml:"auth"`
	Search      SearchConfig      `yaml:"search"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Categorizer CategorizerConfig `yaml:"categorizer"`
	Cache       CacheConfig       `yaml:"cache"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds chat API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds chat server settings.
type HTTPConfig struct {
	Port            int     `yaml:"port"`
	ReadTimeoutSec  int     `yaml:"read_timeout_sec"`
	WriteTimeoutSec int     `yaml:"write_timeout_sec"`
	ShutdownSec     int     `yaml:"shutdown_timeout_sec"`
	RateLimitRPS    float64 `yaml:"rate_limit_rps"` // per client, 0 = unlimited
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
}

// SearchConfig holds search service settings.
type SearchConfig struct {
	Endpoint          string  `yaml:"endpoint"`
	APIKey            string  `yaml:"api_key"` // empty = ambient identity
	APIVersion        string  `yaml:"api_version"`
	Index             string  `yaml:"index"`
	SemanticConfig    string  `yaml:"semantic_config"`
	Top               int     `yaml:"top"`
	AgentName         string  `yaml:"agent_name"`
	RerankerThreshold float64 `yaml:"reranker_threshold"`
}

// OpenAIConfig holds Azure OpenAI settings.
type OpenAIConfig struct {
	Endpoint            string `yaml:"endpoint"`
	APIKey              string `yaml:"api_key"` // empty = ambient identity
	APIVersion          string `yaml:"api_version"`
	Deployment          string `yaml:"deployment"`
	Model               string `yaml:"model"`
	KnowledgeDeployment string `yaml:"knowledge_deployment"`
	KnowledgeModel      string `yaml:"knowledge_model"`
}

// CategorizerConfig holds language model categorization settings.
type CategorizerConfig struct {
	Disabled bool          `yaml:"disabled"` // keyword matching only
	Breaker  BreakerConfig `yaml:"breaker"`
}

// BreakerConfig holds circuit breaker settings.
type BreakerConfig struct {
	MaxFailures    uint32 `yaml:"max_failures"`
	OpenTimeoutSec int    `yaml:"open_timeout_sec"`
}

// CacheConfig holds category cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands environment variables in data, decodes it, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.RateLimitRPS > 0 && c.HTTP.RateLimitBurst <= 0 {
		c.HTTP.RateLimitBurst = 1
	}
	if c.Search.Index == "" {
		c.Search.Index = "index-arch-data"
	}
	if c.Search.SemanticConfig == "" {
		c.Search.SemanticConfig = "my-semantic-config"
	}
	if c.Search.Top <= 0 {
		c.Search.Top = 10
	}
	if c.Search.RerankerThreshold <= 0 {
		c.Search.RerankerThreshold = 2.5
	}
	if c.OpenAI.APIVersion == "" {
		c.OpenAI.APIVersion = "2024-12-01-preview"
	}
	if c.OpenAI.KnowledgeDeployment == "" {
		c.OpenAI.KnowledgeDeployment = c.OpenAI.Deployment
	}
	if c.OpenAI.KnowledgeModel == "" {
		c.OpenAI.KnowledgeModel = c.OpenAI.Model
	}
	if c.Categorizer.Breaker.MaxFailures == 0 {
		c.Categorizer.Breaker.MaxFailures = 3
	}
	if c.Categorizer.Breaker.OpenTimeoutSec <= 0 {
		c.Categorizer.Breaker.OpenTimeoutSec = 30
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 86400
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.Search.Endpoint == "" || c.Search.Endpoint == PlaceholderSearchEndpoint {
		return fmt.Errorf("search.endpoint is required (set AZURE_SEARCH_ENDPOINT)")
	}
	if c.OpenAI.Endpoint == "" || c.OpenAI.Endpoint == PlaceholderOpenAIEndpoint {
		return fmt.Errorf("openai.endpoint is required (set AZURE_OPENAI_ENDPOINT)")
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
	}
	if c.Cache.Enabled {
		for i, addr := range c.Cache.Addrs {
			if strings.TrimSpace(addr) == "" {
				return fmt.Errorf("cache.addrs[%d] is empty (set REDIS_ADDR)", i)
			}
		}
	}
	return nil
}

// ValidateAgentic checks the settings the knowledge agent needs.
func (c *Config) ValidateAgentic() error {
	if c.Search.AgentName == "" {
		return fmt.Errorf("search.agent_name is required (set AZURE_SEARCH_AGENT_NAME)")
	}
	if c.OpenAI.KnowledgeDeployment == "" {
		return fmt.Errorf("openai.knowledge_deployment is required (set AZURE_OPENAI_KNOWLEDGE_DEPLOYMENT)")
	}
	return nil
}

// ValidateHTTP checks the chat server settings.
func (c *Config) ValidateHTTP() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.RateLimitRPS < 0 {
		return fmt.Errorf("http.rate_limit_rps must be >= 0, got %v", c.HTTP.RateLimitRPS)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
