// Package config loads the server and CLI configuration from a YAML file,
// an optional .env file and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Resolver ResolverConfig `yaml:"resolver"`
	Batch    BatchConfig    `yaml:"batch"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Host         string   `yaml:"host"`
	Port         int      `yaml:"port"`
	MaxBatchSize int      `yaml:"max_batch_size"`
	CORSOrigins  []string `yaml:"cors_origins"`
}

// Addr returns host:port for http.Server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Resolver modes.
const (
	ResolverDoHJSON = "doh-json"
	ResolverDoHWire = "doh-wire"
	ResolverSystem  = "system"
)

type ResolverConfig struct {
	Mode        string `yaml:"mode"`
	Endpoint    string `yaml:"endpoint"`
	TimeoutMS   int    `yaml:"timeout_ms"`
	Retries     int    `yaml:"retries"`
	FallbackToA *bool  `yaml:"fallback_to_a"`
}

func (c ResolverConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// FallbackEnabled reports whether the A-record fallback is on (default true).
func (c ResolverConfig) FallbackEnabled() bool {
	return c.FallbackToA == nil || *c.FallbackToA
}

type BatchConfig struct {
	GroupSize    int `yaml:"group_size"`
	GroupPauseMS int `yaml:"group_pause_ms"`
}

func (c BatchConfig) GroupPause() time.Duration {
	return time.Duration(c.GroupPauseMS) * time.Millisecond
}

// Cache types.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type CacheConfig struct {
	Type       string `yaml:"type"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	MaxEntries int    `yaml:"max_entries"`
	RedisURL   string `yaml:"redis_url"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads and parses the configuration file. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.setDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// A .env file in the working directory is loaded first, if present.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if err := envInt("SERVER_PORT", &cfg.Server.Port); err != nil {
		return nil, err
	}
	if err := envInt("VERIFIER_MAX_BATCH_SIZE", &cfg.Server.MaxBatchSize); err != nil {
		return nil, err
	}
	if v := os.Getenv("VERIFIER_CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("VERIFIER_RESOLVER"); v != "" {
		cfg.Resolver.Mode = v
	}
	if v := os.Getenv("VERIFIER_DOH_ENDPOINT"); v != "" {
		cfg.Resolver.Endpoint = v
	}
	if err := envInt("VERIFIER_DNS_TIMEOUT_MS", &cfg.Resolver.TimeoutMS); err != nil {
		return nil, err
	}
	if err := envInt("VERIFIER_GROUP_SIZE", &cfg.Batch.GroupSize); err != nil {
		return nil, err
	}
	if err := envInt("VERIFIER_GROUP_PAUSE_MS", &cfg.Batch.GroupPauseMS); err != nil {
		return nil, err
	}
	if v := os.Getenv("VERIFIER_CACHE"); v != "" {
		cfg.Cache.Type = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.RedisURL = v
		if os.Getenv("VERIFIER_CACHE") == "" {
			cfg.Cache.Type = CacheRedis
		}
	}
	if v := os.Getenv("VERIFIER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.MaxBatchSize == 0 {
		c.Server.MaxBatchSize = 10000
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Resolver.Mode == "" {
		c.Resolver.Mode = ResolverDoHJSON
	}
	if c.Resolver.TimeoutMS == 0 {
		c.Resolver.TimeoutMS = 3000
	}
	if c.Batch.GroupSize == 0 {
		c.Batch.GroupSize = 25
	}
	if c.Batch.GroupPauseMS == 0 {
		c.Batch.GroupPauseMS = 100
	}
	if c.Cache.Type == "" {
		c.Cache.Type = CacheMemory
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 3600
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 100000
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Resolver.Mode {
	case ResolverDoHJSON, ResolverDoHWire, ResolverSystem:
	default:
		return fmt.Errorf("config: unknown resolver mode %q", c.Resolver.Mode)
	}
	switch c.Cache.Type {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("config: cache type redis requires redis_url")
		}
	default:
		return fmt.Errorf("config: unknown cache type %q", c.Cache.Type)
	}
	if c.Server.MaxBatchSize < 1 {
		return fmt.Errorf("config: max_batch_size must be positive")
	}
	if c.Batch.GroupSize < 1 {
		return fmt.Errorf("config: group_size must be positive")
	}
	return nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", name, err)
	}
	*dst = n
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
