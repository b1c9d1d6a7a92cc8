package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"StockCast/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Log         struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	MarketData struct {
		BaseURL      string        `yaml:"base_url"`
		UserAgent    string        `yaml:"user_agent"`
		Timeout      time.Duration `yaml:"timeout"`
		LookbackDays int           `yaml:"lookback_days"`
	} `yaml:"marketdata"`
	Features struct {
		Lags       int   `yaml:"lags"`
		SMAWindows []int `yaml:"sma_windows"`
		RSIWindow  int   `yaml:"rsi_window"`
		RawOHLCV   bool  `yaml:"raw_ohlcv"`
	} `yaml:"features"`
	Models struct {
		TestRatio float64 `yaml:"test_ratio"`
		Seed      int64   `yaml:"seed"`
		SVR       struct {
			C       float64 `yaml:"c"`
			Epsilon float64 `yaml:"epsilon"`
			Gamma   float64 `yaml:"gamma"`
		} `yaml:"svr"`
		Tree struct {
			MaxDepth int `yaml:"max_depth"`
		} `yaml:"tree"`
	} `yaml:"models"`
	Cache struct {
		Enabled bool          `yaml:"enabled"`
		TTL     time.Duration `yaml:"ttl"`
		Redis   struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	ClickHouse struct {
		Enabled      bool          `yaml:"enabled"`
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		AsyncInsert  bool          `yaml:"async_insert"`
		WaitForAsync bool          `yaml:"wait_for_async_insert"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		Async        bool          `yaml:"async"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.Server.Port = util.ParseIntDefault(os.Getenv("PORT"), c.Server.Port)
	c.MarketData.LookbackDays = util.ParseIntDefault(os.Getenv("LOOKBACK_DAYS"), c.MarketData.LookbackDays)
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		if ok {
			if p, err := strconv.Atoi(port); err == nil {
				c.Cache.Redis.Host = host
				c.Cache.Redis.Port = p
				c.Cache.Redis.Enabled = true
			}
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.MarketData.BaseURL == "" {
		c.MarketData.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.MarketData.UserAgent == "" {
		c.MarketData.UserAgent = "Mozilla/5.0"
	}
	if c.MarketData.Timeout == 0 {
		c.MarketData.Timeout = 30 * time.Second
	}
	if c.MarketData.LookbackDays == 0 {
		c.MarketData.LookbackDays = 150
	}
	if c.Features.Lags == 0 {
		c.Features.Lags = 5
	}
	if len(c.Features.SMAWindows) == 0 {
		c.Features.SMAWindows = []int{20, 50}
	}
	if c.Features.RSIWindow == 0 {
		c.Features.RSIWindow = 14
	}
	if c.Models.TestRatio == 0 {
		c.Models.TestRatio = 0.2
	}
	if c.Models.SVR.C == 0 {
		c.Models.SVR.C = 100
	}
	if c.Models.SVR.Epsilon == 0 {
		c.Models.SVR.Epsilon = 0.1
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Models.TestRatio <= 0 || c.Models.TestRatio >= 1 {
		return fmt.Errorf("models.test_ratio must be in (0, 1), got %v", c.Models.TestRatio)
	}
	if c.Features.Lags < 0 {
		return fmt.Errorf("features.lags must not be negative")
	}
	for _, w := range c.Features.SMAWindows {
		if w <= 0 {
			return fmt.Errorf("features.sma_windows entries must be positive, got %d", w)
		}
	}
	if c.Features.RSIWindow <= 0 {
		return fmt.Errorf("features.rsi_window must be positive")
	}
	if c.MarketData.LookbackDays < c.longestWindow() {
		return fmt.Errorf("marketdata.lookback_days (%d) must cover the longest feature window (%d)",
			c.MarketData.LookbackDays, c.longestWindow())
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers are required when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}

func (c *Config) longestWindow() int {
	longest := c.Features.Lags + 1
	if w := c.Features.RSIWindow + 2; w > longest {
		longest = w
	}
	for _, w := range c.Features.SMAWindows {
		if w+1 > longest {
			longest = w + 1
		}
	}
	return longest
}
