package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/kosarica/feed-service/internal/fetch"
)

// Config holds the application configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Aggregation AggregationConfig `mapstructure:"aggregation"`
	Export      ExportConfig      `mapstructure:"export"`
	Fetch       FetchConfig       `mapstructure:"fetch"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port          int           `mapstructure:"port"`
	Host          string        `mapstructure:"host"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	MaxUploadSize int64         `mapstructure:"max_upload_size"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// RateLimitConfig holds the shared limit for internal routes
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// AuthConfig holds the service-to-service credentials
type AuthConfig struct {
	InternalAPIKey string `mapstructure:"internal_api_key"`
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Type     string `mapstructure:"type"`
	BasePath string `mapstructure:"base_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// AggregationConfig tunes the chunked aggregator
type AggregationConfig struct {
	ChunkSize  int `mapstructure:"chunk_size"`
	MaxWorkers int `mapstructure:"max_workers"`
}

// ExportConfig holds YML export settings
type ExportConfig struct {
	ShopName         string  `mapstructure:"shop_name"`
	ShopCompany      string  `mapstructure:"shop_company"`
	ShopURL          string  `mapstructure:"shop_url"`
	DefaultCurrency  string  `mapstructure:"default_currency"`
	DeliveryCost     float64 `mapstructure:"delivery_cost"`
	PlaceholderImage string  `mapstructure:"placeholder_image"`
	StrictParents    bool    `mapstructure:"strict_parents"`
}

// FetchConfig controls downloading feeds by URL
type FetchConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	MaxRetries        int           `mapstructure:"max_retries"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxSize           int64         `mapstructure:"max_size"`
}

// ClientConfig converts the settings into a fetch client configuration
func (c FetchConfig) ClientConfig() fetch.Config {
	fc := fetch.DefaultConfig()
	fc.RequestsPerSecond = c.RequestsPerSecond
	fc.MaxRetries = c.MaxRetries
	fc.Timeout = c.Timeout
	fc.MaxSize = c.MaxSize
	return fc
}

// TelemetryConfig holds OpenTelemetry exporter settings
type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	Environment string  `mapstructure:"environment"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

var globalConfig *Config

// Load loads the configuration from file, .env, and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// .env is optional
	if err := loadEnvFile(); err != nil {
		log.Debug().Err(err).Msg(".env file not loaded")
	}

	// FEED_SERVICE_AGGREGATION_CHUNK_SIZE overrides aggregation.chunk_size
	v.SetEnvPrefix("FEED_SERVICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	globalConfig = &cfg
	return &cfg, nil
}

// loadEnvFile loads the first .env found without overriding variables
// already present in the environment
func loadEnvFile() error {
	for _, dir := range []string{".", "./config"} {
		envFile := filepath.Join(dir, ".env")
		if _, err := os.Stat(envFile); err == nil {
			return godotenv.Load(envFile)
		}
	}
	return fmt.Errorf("no .env file found")
}

// bindEnvVars binds conventional unprefixed variables to config keys
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("database.url", "DATABASE_URL")

	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.host", "HOST")

	v.BindEnv("auth.internal_api_key", "INTERNAL_API_KEY")

	v.BindEnv("logging.level", "LOG_LEVEL")

	v.BindEnv("storage.base_path", "STORAGE_PATH")

	v.BindEnv("telemetry.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("telemetry.environment", "ENVIRONMENT")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.max_upload_size", 64<<20)
	v.SetDefault("server.session_ttl", 2*time.Hour)

	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.max_conn_lifetime", 1*time.Hour)
	v.SetDefault("database.max_conn_idle_time", 30*time.Minute)

	v.SetDefault("rate_limit.requests_per_second", 50)
	v.SetDefault("rate_limit.burst", 100)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.base_path", "./data")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)

	v.SetDefault("aggregation.chunk_size", 50)
	v.SetDefault("aggregation.max_workers", 0)

	v.SetDefault("export.shop_name", "Shop")
	v.SetDefault("export.shop_company", "Shop")
	v.SetDefault("export.shop_url", "https://example.com")
	v.SetDefault("export.default_currency", "UAH")
	v.SetDefault("export.delivery_cost", 0)
	v.SetDefault("export.placeholder_image", "")
	v.SetDefault("export.strict_parents", false)

	v.SetDefault("fetch.enabled", true)
	v.SetDefault("fetch.requests_per_second", 2)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.timeout", 60*time.Second)
	v.SetDefault("fetch.max_size", 64<<20)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "feed-service")
	v.SetDefault("telemetry.insecure", true)
	v.SetDefault("telemetry.sample_ratio", 1.0)
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// GetDatabaseURL returns the database URL from config or environment
func GetDatabaseURL() string {
	if cfg := Get(); cfg != nil && cfg.Database.URL != "" {
		return cfg.Database.URL
	}
	return os.Getenv("DATABASE_URL")
}
