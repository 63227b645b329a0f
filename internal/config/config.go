package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server ServerConfig    `yaml:"server"`
	Log    LogConfig       `yaml:"log"`
	Pebble PebbleConfig    `yaml:"pebble"`
	Node   ChainConfig     `yaml:"node"`
	Cache  CacheConfig     `yaml:"cache"`
	Blocks BlocksConfig    `yaml:"blocks"`
	Pools  []PoolSignature `yaml:"pools"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// LogConfig represents the logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

// PebbleConfig represents the Pebble database configuration.
// An empty path disables the persistent summary store.
type PebbleConfig struct {
	Path string `yaml:"path"`
}

// ChainConfig represents the configuration for the chain node RPC
type ChainConfig struct {
	Host       string `yaml:"host"`
	User       string `yaml:"user"`
	Pass       string `yaml:"pass"`
	Cert       string `yaml:"cert"`
	DisableTLS bool   `yaml:"disable_tls"`
	HTTPMode   bool   `yaml:"http_mode"` // Use HTTP POST instead of WebSocket (for daemon-style nodes)
}

// CacheConfig bounds the in-memory block caches. Zero values keep the
// package defaults.
type CacheConfig struct {
	DetailSize  int `yaml:"detail_size"`
	SummarySize int `yaml:"summary_size"`
}

// BlocksConfig tunes the block listing endpoint
type BlocksConfig struct {
	ListLimit int `yaml:"list_limit"`
}

// PoolSignature is one entry of the static mining pool signature table.
// Order in the file is the match order.
type PoolSignature struct {
	Signature string `yaml:"signature"`
	PoolName  string `yaml:"pool_name"`
	URL       string `yaml:"url"`
}

// Load loads configuration from a YAML file and environment variables
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		Log: LogConfig{
			Level: "info",
			Env:   "development",
		},
		Blocks: BlocksConfig{
			ListLimit: 200,
		},
		Pools: DefaultPools(),
	}

	// Load from YAML file if it exists
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	cfg.loadEnv()

	return cfg, nil
}

// DefaultPools returns the built-in pool signature table, used when the
// config file does not provide one.
func DefaultPools() []PoolSignature {
	return []PoolSignature{
		{Signature: "zcash.flypool.org", PoolName: "Flypool", URL: "https://zcash.flypool.org"},
		{Signature: "pool.zcash.suprnova.cc", PoolName: "Suprnova", URL: "https://zec.suprnova.cc"},
		{Signature: "zec.nanopool.org", PoolName: "Nanopool", URL: "https://zec.nanopool.org"},
		{Signature: "luckpool.org", PoolName: "Luckpool", URL: "https://luckpool.org"},
		{Signature: "coinmine.pl", PoolName: "Coinmine", URL: "https://www2.coinmine.pl"},
		{Signature: "slushpool", PoolName: "Slush Pool", URL: "https://slushpool.com"},
	}
}

func (c *Config) loadEnv() {
	// Server config
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}

	// Log config
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		c.Log.Env = env
	}

	// Pebble config
	if path := os.Getenv("PEBBLE_PATH"); path != "" {
		c.Pebble.Path = path
	}

	// Node config
	if host := os.Getenv("NODE_HOST"); host != "" {
		c.Node.Host = host
	}
	if user := os.Getenv("NODE_USER"); user != "" {
		c.Node.User = user
	}
	if pass := os.Getenv("NODE_PASS"); pass != "" {
		c.Node.Pass = pass
	}
	if cert := os.Getenv("NODE_CERT"); cert != "" {
		c.Node.Cert = cert
	}
	if disableTLS := os.Getenv("NODE_DISABLE_TLS"); disableTLS != "" {
		c.Node.DisableTLS = disableTLS == "true" || disableTLS == "1"
	}
	if httpMode := os.Getenv("NODE_HTTP_MODE"); httpMode != "" {
		c.Node.HTTPMode = httpMode == "true" || httpMode == "1"
	}

	// Cache config
	if size := os.Getenv("CACHE_DETAIL_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			c.Cache.DetailSize = n
		}
	}
	if size := os.Getenv("CACHE_SUMMARY_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			c.Cache.SummarySize = n
		}
	}

	// Blocks config
	if limit := os.Getenv("BLOCKS_LIST_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			c.Blocks.ListLimit = n
		}
	}
}
