package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"FundMonitor/internal/domain/models"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORS            bool          `yaml:"cors"`
		CORSOrigins     []string      `yaml:"cors_origins"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Monitor struct {
		Indices         []models.IndexTarget `yaml:"indices"`
		Funds           []string             `yaml:"funds"`
		RefreshInterval int                  `yaml:"refresh_interval"`
		CacheTTL        time.Duration        `yaml:"cache_ttl"`
	} `yaml:"monitor"`
	Upstream struct {
		IndexURL     string        `yaml:"index_url"`
		FundURL      string        `yaml:"fund_url"`
		IndexTimeout time.Duration `yaml:"index_timeout"`
		FundTimeout  time.Duration `yaml:"fund_timeout"`
		UserAgent    string        `yaml:"user_agent"`
	} `yaml:"upstream"`
	Cache struct {
		Backend string `yaml:"backend"` // memory or redis
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		BatchTimeout time.Duration `yaml:"batch_timeout"`
		BufferSize   int           `yaml:"buffer_size"`
	} `yaml:"kafka"`
	RateLimit struct {
		Capacity     float64 `yaml:"capacity"`
		RefillPerSec float64 `yaml:"refill_per_sec"`
	} `yaml:"ratelimit"`
}

// Default returns a configuration that runs without a config file.
func Default() *Config {
	c := &Config{Environment: "development"}

	c.Server.Host = "0.0.0.0"
	c.Server.Port = 8080
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 30 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Server.CORS = true
	c.Server.CORSOrigins = []string{"*"}

	c.Log.Level = "info"
	c.Log.Format = "console"
	c.Log.Output = "stdout"

	c.Metrics.Enabled = true
	c.Metrics.Path = "/metrics"

	mc := models.DefaultMonitorConfig()
	c.Monitor.Indices = mc.Indices
	c.Monitor.Funds = mc.Funds
	c.Monitor.RefreshInterval = mc.RefreshInterval
	c.Monitor.CacheTTL = 30 * time.Second

	c.Upstream.IndexURL = "https://hq.sinajs.cn/list="
	c.Upstream.FundURL = "https://fundgz.1234567.com.cn/js/"
	c.Upstream.IndexTimeout = 10 * time.Second
	c.Upstream.FundTimeout = 8 * time.Second
	c.Upstream.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	c.Cache.Backend = "memory"
	c.Cache.Redis.Addr = "localhost:6379"
	c.Cache.Redis.Prefix = "fundmonitor"

	c.Kafka.Topic = "fundmonitor.cycles"
	c.Kafka.RequiredAcks = 1
	c.Kafka.Compression = "snappy"
	c.Kafka.BatchTimeout = 500 * time.Millisecond
	c.Kafka.BufferSize = 256

	c.RateLimit.Capacity = 10
	c.RateLimit.RefillPerSec = 5
	return c
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	return applyEnv(c)
}

// DefaultWithEnv is Default with environment overrides applied.
func DefaultWithEnv() (*Config, error) {
	return applyEnv(Default())
}

func applyEnv(c *Config) (*Config, error) {
	if v := os.Getenv("FM_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("FM_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("FM_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("FM_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("FM_CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("FM_REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("FM_KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("FM_FUNDS"); v != "" {
		c.Monitor.Funds = strings.Fields(v)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Monitor.RefreshInterval < models.MinRefreshInterval || c.Monitor.RefreshInterval > models.MaxRefreshInterval {
		return fmt.Errorf("monitor.refresh_interval must be in [%d,%d], got %d",
			models.MinRefreshInterval, models.MaxRefreshInterval, c.Monitor.RefreshInterval)
	}
	if c.Monitor.CacheTTL <= 0 {
		return fmt.Errorf("monitor.cache_ttl must be positive")
	}
	for i, t := range c.Monitor.Indices {
		if t.Name == "" || t.Code == "" {
			return fmt.Errorf("monitor.indices[%d] needs name and code", i)
		}
	}
	if c.Upstream.IndexURL == "" || c.Upstream.FundURL == "" {
		return fmt.Errorf("upstream.index_url and upstream.fund_url are required")
	}
	if c.Upstream.IndexTimeout <= 0 || c.Upstream.FundTimeout <= 0 {
		return fmt.Errorf("upstream timeouts must be positive")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required for the redis backend")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka.topic is required when kafka is enabled")
		}
	}
	return nil
}

// MonitorConfig is the initial watch list.
func (c *Config) MonitorConfig() models.MonitorConfig {
	return models.MonitorConfig{
		Indices:         append([]models.IndexTarget{}, c.Monitor.Indices...),
		Funds:           append([]string{}, c.Monitor.Funds...),
		RefreshInterval: c.Monitor.RefreshInterval,
	}
}
