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

// Config holds the courserag service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Index      IndexConfig      `yaml:"index"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Cache      CacheConfig      `yaml:"cache"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// IndexConfig holds index artifact settings.
type IndexConfig struct {
	DataDir string `yaml:"data_dir"`
}

// RetrievalConfig holds default per-query retrieval parameters.
// Per-request values override these.
type RetrievalConfig struct {
	DefaultK       int     `yaml:"default_k"`
	PoolSize       int     `yaml:"pool_size"`
	FusionStrategy string  `yaml:"fusion_strategy"` // weighted, rrf
	FusionAlpha    float64 `yaml:"fusion_alpha"`
	FusionBeta     float64 `yaml:"fusion_beta"`
	RRFConstant    int     `yaml:"rrf_constant"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider         string `yaml:"provider"`
	APIKey           string `yaml:"api_key"`
	BaseURL          string `yaml:"base_url"`
	Model            string `yaml:"model"`
	Dimensions       int    `yaml:"dimensions"`
	QueryInstruction string `yaml:"query_instruction"`
}

// GenerationConfig holds answer-generation provider settings.
// An empty model disables generation (retrieval-only mode).
type GenerationConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
}

// CacheConfig holds the optional query-embedding cache settings.
// No addrs disables the cache.
type CacheConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLHours int      `yaml:"ttl_hours"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
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
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Index.DataDir == "" {
		c.Index.DataDir = "data"
	}
	if c.Retrieval.DefaultK <= 0 {
		c.Retrieval.DefaultK = 5
	}
	if c.Retrieval.PoolSize <= 0 {
		c.Retrieval.PoolSize = 50
	}
	if c.Retrieval.FusionStrategy == "" {
		c.Retrieval.FusionStrategy = "weighted"
	}
	if c.Retrieval.FusionAlpha == 0 && c.Retrieval.FusionBeta == 0 {
		c.Retrieval.FusionAlpha = 0.7
		c.Retrieval.FusionBeta = 0.3
	}
	if c.Retrieval.RRFConstant <= 0 {
		c.Retrieval.RRFConstant = 60
	}
	if c.Cache.TTLHours <= 0 {
		c.Cache.TTLHours = 24
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	switch c.Retrieval.FusionStrategy {
	case "weighted", "rrf":
		// ok
	default:
		return fmt.Errorf(
			"retrieval.fusion_strategy must be \"weighted\" or \"rrf\", got %q",
			c.Retrieval.FusionStrategy,
		)
	}
	if c.Retrieval.FusionAlpha < 0 || c.Retrieval.FusionBeta < 0 {
		return fmt.Errorf("retrieval fusion weights must be non-negative")
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
