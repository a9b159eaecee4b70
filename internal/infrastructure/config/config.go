package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// ConsoleConfig is the "console" section of config.yaml.
type ConsoleConfig struct {
	Profile  string         `mapstructure:"profile"`
	Origin   string         `mapstructure:"origin"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	API      APIConfig      `mapstructure:"api"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Redis    RedisConfig    `mapstructure:"redis"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
}

// DevAPIConfig is the "devapi" section of config.yaml.
type DevAPIConfig struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     string          `mapstructure:"store"` // memory, postgres or sqlite
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Seed      bool            `mapstructure:"seed"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	OutputFile string `mapstructure:"output_file"`
}

type APIConfig struct {
	BaseURL        string               `mapstructure:"base_url"`
	Token          string               `mapstructure:"token"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	RateLimit      float64              `mapstructure:"rate_limit"`
	BurstLimit     int                  `mapstructure:"burst_limit"`
	MaxRetries     int                  `mapstructure:"max_retries"`
	RetryInterval  time.Duration        `mapstructure:"retry_interval"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type CircuitBreakerConfig struct {
	MaxFailures  int           `mapstructure:"max_failures"`
	ResetTimeout time.Duration `mapstructure:"reset_timeout"`
}

type CacheConfig struct {
	StaleTime           time.Duration `mapstructure:"stale_time"`
	GCTime              time.Duration `mapstructure:"gc_time"`
	Retry               int           `mapstructure:"retry"`
	JanitorInterval     time.Duration `mapstructure:"janitor_interval"`
	PrefetchInterval    time.Duration `mapstructure:"prefetch_interval"`
	PrefetchConcurrency int           `mapstructure:"prefetch_concurrency"`
	PageSize            int           `mapstructure:"page_size"`
}

type RedisConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	Database    int           `mapstructure:"database"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
}

type RabbitMQConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Exchange         string `mapstructure:"exchange"`
	Queue            string `mapstructure:"queue"`
	PrefetchCount    int    `mapstructure:"prefetch_count"`
	MaxRetryAttempts int    `mapstructure:"max_retry_attempts"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	Username           string        `mapstructure:"username"`
	Password           string        `mapstructure:"password"`
	Database           string        `mapstructure:"database"`
	SSLMode            string        `mapstructure:"ssl_mode"`
	Path               string        `mapstructure:"path"`
	MaxOpenConnections int           `mapstructure:"max_open_connections"`
	MaxIdleConnections int           `mapstructure:"max_idle_connections"`
	ConnMaxLife        time.Duration `mapstructure:"conn_max_life"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	Issuer   string        `mapstructure:"issuer"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
	Required bool          `mapstructure:"required"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// LoadConsoleConfig reads the console section from config.yaml in dir (or its parent), after loading
// .env into the environment.
func LoadConsoleConfig(dir string) (*ConsoleConfig, error) {
	config := DefaultConsoleConfig()
	if err := load(dir, "console", config); err != nil {
		return nil, err
	}

	expandConsoleEnvVars(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

func LoadDevAPIConfig(dir string) (*DevAPIConfig, error) {
	config := DefaultDevAPIConfig()
	if err := load(dir, "devapi", config); err != nil {
		return nil, err
	}

	expandDevAPIEnvVars(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

func load(dir, section string, out any) error {
	if err := gotenv.Load(dir + "/../.env"); err != nil {
		_ = gotenv.Load(dir + "/.env")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.AddConfigPath(dir + "/..")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	if err := v.UnmarshalKey(section, out); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}
	return nil
}

func DefaultConsoleConfig() *ConsoleConfig {
	return &ConsoleConfig{
		Profile: "admin",
		Logging: LoggingConfig{Level: "info"},
		API: APIConfig{
			Timeout:       15 * time.Second,
			RateLimit:     10,
			BurstLimit:    20,
			RetryInterval: time.Second,
			CircuitBreaker: CircuitBreakerConfig{
				MaxFailures:  5,
				ResetTimeout: 30 * time.Second,
			},
		},
		Cache: CacheConfig{
			StaleTime:           5 * time.Minute,
			GCTime:              5 * time.Minute,
			Retry:               2,
			JanitorInterval:     time.Minute,
			PrefetchInterval:    10 * time.Minute,
			PrefetchConcurrency: 4,
			PageSize:            10,
		},
		Redis: RedisConfig{
			Host:        "localhost",
			Port:        6379,
			KeyPrefix:   "console:query:",
			SnapshotTTL: 24 * time.Hour,
		},
		RabbitMQ: RabbitMQConfig{
			Host:             "localhost",
			Port:             5672,
			Exchange:         "console.invalidations",
			PrefetchCount:    20,
			MaxRetryAttempts: 3,
		},
	}
}

func DefaultDevAPIConfig() *DevAPIConfig {
	return &DevAPIConfig{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8000,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Store: "memory",
		Database: DatabaseConfig{
			Port:               5432,
			SSLMode:            "disable",
			Path:               "devapi.db",
			MaxOpenConnections: 10,
			MaxIdleConnections: 5,
			ConnMaxLife:        time.Hour,
		},
		Auth:      AuthConfig{Issuer: "hotel-devapi", TokenTTL: 12 * time.Hour},
		RateLimit: RateLimitConfig{RequestsPerSecond: 20, Burst: 40},
		Logging:   LoggingConfig{Level: "info"},
	}
}

func expandConsoleEnvVars(config *ConsoleConfig) {
	config.Origin = os.ExpandEnv(config.Origin)

	config.API.BaseURL = os.ExpandEnv(config.API.BaseURL)
	config.API.Token = os.ExpandEnv(config.API.Token)

	config.Redis.Host = os.ExpandEnv(config.Redis.Host)
	config.Redis.Password = os.ExpandEnv(config.Redis.Password)

	config.RabbitMQ.Host = os.ExpandEnv(config.RabbitMQ.Host)
	config.RabbitMQ.Username = os.ExpandEnv(config.RabbitMQ.Username)
	config.RabbitMQ.Password = os.ExpandEnv(config.RabbitMQ.Password)
}

func expandDevAPIEnvVars(config *DevAPIConfig) {
	config.Server.Host = os.ExpandEnv(config.Server.Host)

	config.Database.Host = os.ExpandEnv(config.Database.Host)
	config.Database.Username = os.ExpandEnv(config.Database.Username)
	config.Database.Password = os.ExpandEnv(config.Database.Password)
	config.Database.Database = os.ExpandEnv(config.Database.Database)
	config.Database.Path = os.ExpandEnv(config.Database.Path)

	config.Auth.Secret = os.ExpandEnv(config.Auth.Secret)
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode)
}

func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *ConsoleConfig) Validate() error {
	if c.Profile != "admin" && c.Profile != "vendor" {
		return fmt.Errorf("unknown console profile: %q", c.Profile)
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}

	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		c.API.BaseURL = "https://" + c.API.BaseURL
	}
	if !strings.HasSuffix(c.API.BaseURL, "/") {
		c.API.BaseURL += "/"
	}

	if c.Cache.Retry < 0 {
		return fmt.Errorf("cache retry must not be negative: %d", c.Cache.Retry)
	}

	if c.Cache.StaleTime <= 0 || c.Cache.GCTime <= 0 {
		return fmt.Errorf("cache stale_time and gc_time must be positive")
	}

	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("redis host is required when redis is enabled")
	}

	if c.RabbitMQ.Enabled && c.RabbitMQ.Exchange == "" {
		return fmt.Errorf("rabbitmq exchange is required when rabbitmq is enabled")
	}
	return nil
}

func (c *DevAPIConfig) Validate() error {
	switch c.Store {
	case "memory":
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required")
		}
	default:
		return fmt.Errorf("unknown store: %q", c.Store)
	}

	if c.Auth.Required && c.Auth.Secret == "" {
		return fmt.Errorf("auth secret is required when auth is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	return nil
}
