package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Engine struct {
		Weights struct {
			Trend      float64 `yaml:"trend"`
			News       float64 `yaml:"news"`
			Risk       float64 `yaml:"risk"`
			Volatility float64 `yaml:"volatility"`
		} `yaml:"weights"`
		Thresholds struct {
			BiasEpsilon float64 `yaml:"bias_epsilon"`
			Strong      float64 `yaml:"strong"`
			Moderate    float64 `yaml:"moderate"`
		} `yaml:"thresholds"`
	} `yaml:"engine"`
	MarketData struct {
		Provider          string        `yaml:"provider"`
		APIKey            string        `yaml:"api_key"`
		BaseURL           string        `yaml:"base_url"`
		Timeout           time.Duration `yaml:"timeout"`
		RequestsPerMinute int           `yaml:"requests_per_minute"`
	} `yaml:"market_data"`
	News struct {
		Provider string        `yaml:"provider"`
		APIKey   string        `yaml:"api_key"`
		BaseURL  string        `yaml:"base_url"`
		Timeout  time.Duration `yaml:"timeout"`
		Days     int           `yaml:"days"`
		PageSize int           `yaml:"page_size"`
	} `yaml:"news"`
	Narrative struct {
		Renderer string `yaml:"renderer"`
		OpenAI   struct {
			APIKey      string  `yaml:"api_key"`
			BaseURL     string  `yaml:"base_url"`
			Model       string  `yaml:"model"`
			Temperature float32 `yaml:"temperature"`
			MaxTokens   int     `yaml:"max_tokens"`
		} `yaml:"openai"`
	} `yaml:"narrative"`
	Cache struct {
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		TTL struct {
			Snapshot   time.Duration `yaml:"snapshot"`
			News       time.Duration `yaml:"news"`
			Assessment time.Duration `yaml:"assessment"`
		} `yaml:"ttl"`
	} `yaml:"cache"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
		BatchSize        int           `yaml:"batch_size"`
		BatchTimeout     time.Duration `yaml:"batch_timeout"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Warm struct {
		Enabled  bool          `yaml:"enabled"`
		Symbols  []string      `yaml:"symbols"`
		Interval time.Duration `yaml:"interval"`
		Workers  int           `yaml:"workers"`
	} `yaml:"warm"`
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

	c.applyEngineDefaults()

	// Validate required fields
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

	// Override with environment variables
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		c.MarketData.APIKey = v
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.News.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Narrative.OpenAI.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("WARM_SYMBOLS"); v != "" {
		c.Warm.Symbols = strings.Split(v, ",")
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.MarketData.Provider != "alphavantage" && c.MarketData.Provider != "mock" {
		return fmt.Errorf("market_data.provider must be 'alphavantage' or 'mock', got '%s'", c.MarketData.Provider)
	}
	if c.MarketData.Provider == "alphavantage" && c.MarketData.APIKey == "" {
		return fmt.Errorf("market_data.api_key is required for the alphavantage provider")
	}
	if c.News.Provider != "newsapi" && c.News.Provider != "mock" {
		return fmt.Errorf("news.provider must be 'newsapi' or 'mock', got '%s'", c.News.Provider)
	}
	if c.News.Provider == "newsapi" && c.News.APIKey == "" {
		return fmt.Errorf("news.api_key is required for the newsapi provider")
	}
	if c.Narrative.Renderer != "template" && c.Narrative.Renderer != "generative" {
		return fmt.Errorf("narrative.renderer must be 'template' or 'generative', got '%s'", c.Narrative.Renderer)
	}
	if c.Narrative.Renderer == "generative" && c.Narrative.OpenAI.APIKey == "" {
		return fmt.Errorf("narrative.openai.api_key is required for the generative renderer")
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if c.Warm.Enabled && len(c.Warm.Symbols) == 0 {
		return fmt.Errorf("warm.symbols cannot be empty when warming is enabled")
	}
	return nil
}

// applyEngineDefaults fills in the stock weights and thresholds when
// the respective block is absent. A partially filled block is left
// alone so validation can reject it.
func (c *Config) applyEngineDefaults() {
	w := &c.Engine.Weights
	if w.Trend == 0 && w.News == 0 && w.Risk == 0 && w.Volatility == 0 {
		w.Trend, w.News, w.Risk, w.Volatility = 0.35, 0.25, 0.20, 0.20
	}
	t := &c.Engine.Thresholds
	if t.BiasEpsilon == 0 && t.Strong == 0 && t.Moderate == 0 {
		t.BiasEpsilon, t.Strong, t.Moderate = 0.05, 0.5, 0.2
	}
}

func (c *Config) validateEngine() error {
	w := c.Engine.Weights
	for name, v := range map[string]float64{
		"trend": w.Trend, "news": w.News, "risk": w.Risk, "volatility": w.Volatility,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("engine.weights.%s must be within [0,1], got %v", name, v)
		}
	}
	sum := w.Trend + w.News + w.Risk + w.Volatility
	if math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("engine.weights must sum to 1.0, got %v", sum)
	}
	t := c.Engine.Thresholds
	if t.BiasEpsilon < 0 {
		return fmt.Errorf("engine.thresholds.bias_epsilon must be non-negative, got %v", t.BiasEpsilon)
	}
	if t.Moderate <= 0 || t.Strong <= t.Moderate {
		return fmt.Errorf("engine.thresholds require 0 < moderate < strong, got moderate=%v strong=%v", t.Moderate, t.Strong)
	}
	return nil
}
