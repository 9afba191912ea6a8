package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "TRADEPULSE"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Import    ImportConfig    `yaml:"import" envconfig:"IMPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"20"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"40"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// ImportConfig controls the import pipeline
type ImportConfig struct {
	DefaultPlatform string `yaml:"default_platform" envconfig:"DEFAULT_PLATFORM" default:"das-trader"`
	// SchemaFile optionally names a YAML file of extra platform schemas.
	SchemaFile     string        `yaml:"schema_file" envconfig:"SCHEMA_FILE"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	CacheTTL       time.Duration `yaml:"cache_ttl" envconfig:"CACHE_TTL" default:"5m"`
	CacheCleanup   time.Duration `yaml:"cache_cleanup" envconfig:"CACHE_CLEANUP" default:"10m"`
	// Timezone places trading dates, and with them time-of-day exports.
	Timezone string `yaml:"timezone" envconfig:"TIMEZONE" default:"UTC"`
}

// Location resolves the configured timezone.
func (c ImportConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME" default:"tradepulse-import"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
	EnableTracing  bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING" default:"false"`
	EnableMetrics  bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS" default:"true"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"stdout"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"prometheus"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1"`
}

// Load loads configuration from .env, environment variables and an optional
// config file. Environment variables take precedence over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envUnset reports whether TRADEPULSE_<key> is absent from the environment.
func envUnset(key string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + key)
	return !ok
}

func mergeValue[T comparable](dst *T, file T, key string) {
	var zero T
	if file != zero && envUnset(key) {
		*dst = file
	}
}

// mergeConfigs takes file values for every setting the environment leaves unset.
func mergeConfigs(file, env Config) Config {
	mergeValue(&env.Server.Port, file.Server.Port, "SERVER_PORT")
	mergeValue(&env.Server.ReadTimeout, file.Server.ReadTimeout, "SERVER_READ_TIMEOUT")
	mergeValue(&env.Server.WriteTimeout, file.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT")
	mergeValue(&env.Server.IdleTimeout, file.Server.IdleTimeout, "SERVER_IDLE_TIMEOUT")
	mergeValue(&env.Server.MaxHeaderBytes, file.Server.MaxHeaderBytes, "SERVER_MAX_HEADER_BYTES")
	mergeValue(&env.Server.ShutdownTimeout, file.Server.ShutdownTimeout, "SERVER_SHUTDOWN_TIMEOUT")

	if len(file.Security.AllowedOrigins) > 0 && envUnset("SECURITY_ALLOWED_ORIGINS") {
		env.Security.AllowedOrigins = file.Security.AllowedOrigins
	}
	mergeValue(&env.Security.RateLimit.RPS, file.Security.RateLimit.RPS, "SECURITY_RATE_LIMIT_RPS")
	mergeValue(&env.Security.RateLimit.Burst, file.Security.RateLimit.Burst, "SECURITY_RATE_LIMIT_BURST")

	mergeValue(&env.Logging.Level, file.Logging.Level, "LOGGING_LEVEL")
	mergeValue(&env.Logging.Output, file.Logging.Output, "LOGGING_OUTPUT")
	mergeValue(&env.Logging.FilePath, file.Logging.FilePath, "LOGGING_FILE_PATH")

	mergeValue(&env.Import.DefaultPlatform, file.Import.DefaultPlatform, "IMPORT_DEFAULT_PLATFORM")
	mergeValue(&env.Import.SchemaFile, file.Import.SchemaFile, "IMPORT_SCHEMA_FILE")
	mergeValue(&env.Import.MaxUploadBytes, file.Import.MaxUploadBytes, "IMPORT_MAX_UPLOAD_BYTES")
	mergeValue(&env.Import.CacheTTL, file.Import.CacheTTL, "IMPORT_CACHE_TTL")
	mergeValue(&env.Import.CacheCleanup, file.Import.CacheCleanup, "IMPORT_CACHE_CLEANUP")
	mergeValue(&env.Import.Timezone, file.Import.Timezone, "IMPORT_TIMEZONE")

	mergeValue(&env.Telemetry.ServiceName, file.Telemetry.ServiceName, "TELEMETRY_SERVICE_NAME")
	mergeValue(&env.Telemetry.Environment, file.Telemetry.Environment, "TELEMETRY_ENVIRONMENT")
	mergeValue(&env.Telemetry.TraceExporter, file.Telemetry.TraceExporter, "TELEMETRY_TRACE_EXPORTER")
	mergeValue(&env.Telemetry.MetricExporter, file.Telemetry.MetricExporter, "TELEMETRY_METRIC_EXPORTER")
	mergeValue(&env.Telemetry.SampleRatio, file.Telemetry.SampleRatio, "TELEMETRY_SAMPLE_RATIO")

	return env
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	// Structured output is always JSON
	c.Logging.Format = "json"

	switch c.Logging.Output {
	case "console", "stderr", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %s", c.Logging.Output)
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	if c.Import.DefaultPlatform == "" {
		return fmt.Errorf("import default platform is required")
	}

	if c.Import.MaxUploadBytes <= 0 {
		return fmt.Errorf("import max upload bytes must be positive")
	}

	if _, err := c.Import.Location(); err != nil {
		return fmt.Errorf("invalid import timezone %q: %w", c.Import.Timezone, err)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Import: ImportConfig{
			DefaultPlatform: "das-trader",
			MaxUploadBytes:  10 << 20, // 10MB
			CacheTTL:        5 * time.Minute,
			CacheCleanup:    10 * time.Minute,
			Timezone:        "UTC",
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "tradepulse-import",
			Environment:    "development",
			EnableMetrics:  true,
			TraceExporter:  "stdout",
			MetricExporter: "prometheus",
			SampleRatio:    1,
		},
	}
}
