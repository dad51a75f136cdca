package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Events      EventsConfig      `yaml:"events"`
	DataSource  DataSourceConfig  `yaml:"datasource"`
	Recommender RecommenderConfig `yaml:"recommender"`
	Index       IndexConfig       `yaml:"index"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type DataSourceConfig struct {
	URL       string `yaml:"url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type RecommenderConfig struct {
	URL       string `yaml:"url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type IndexConfig struct {
	CacheTTLMs int `yaml:"cache_ttl_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) DataSourceTimeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutMs) * time.Millisecond
}

func (c *Config) RecommenderTimeout() time.Duration {
	return time.Duration(c.Recommender.TimeoutMs) * time.Millisecond
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Index.CacheTTLMs) * time.Millisecond
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		DataSource: DataSourceConfig{
			TimeoutMs: 10000,
		},
		Recommender: RecommenderConfig{
			URL:       "http://localhost:8710",
			TimeoutMs: 30000,
		},
		Index: IndexConfig{
			CacheTTLMs: 300000, // 5 minutes
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ATLAS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("ATLAS_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("ATLAS_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("ATLAS_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("ATLAS_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("ATLAS_DATASOURCE_URL"); v != "" {
		cfg.DataSource.URL = v
	}
	if v := os.Getenv("ATLAS_RECOMMENDER_URL"); v != "" {
		cfg.Recommender.URL = v
	}
	if v := os.Getenv("ATLAS_CACHE_TTL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Index.CacheTTLMs = n
		}
	}
	if v := os.Getenv("ATLAS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
