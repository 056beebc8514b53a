package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string          `yaml:"environment" default:"development" validate:"oneof=development staging production test"`
	Server      ServerConfig    `yaml:"server"`
	Metrics     MetricsConfig   `yaml:"metrics"`
	Logger      LoggerConfig    `yaml:"logger"`
	Calendar    CalendarConfig  `yaml:"calendar"`
	Cache       CacheConfig     `yaml:"cache"`
	Kafka       KafkaConfig     `yaml:"kafka"`
	Upstream    UpstreamConfig  `yaml:"upstream"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Scheduler   SchedulerConfig `yaml:"scheduler"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"3000" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"15s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	CORSOrigins     []string      `yaml:"cors_origins" default:"[\"*\"]"`
}

type MetricsConfig struct {
	Disabled bool   `yaml:"disabled"`
	Path     string `yaml:"path" default:"/metrics" validate:"startswith=/"`
}

type LoggerConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"json" validate:"oneof=json console"`
	Output string `yaml:"output" default:"stdout"`
}

// CalendarConfig controls event generation. Offsets are pointers so an
// explicit 0 (UTC) survives defaulting.
type CalendarConfig struct {
	Timezone          string `yaml:"timezone" default:"UTC"`
	SourceOffsetHours *int   `yaml:"source_offset_hours" default:"-5" validate:"gte=-12,lte=14"`
	TargetOffsetHours *int   `yaml:"target_offset_hours" default:"9" validate:"gte=-12,lte=14"`
	Ordering          string `yaml:"ordering" default:"catalog" validate:"oneof=catalog chronological"`
	Tier              string `yaml:"tier" default:"high" validate:"oneof=high medium low"`
	CatalogFile       string `yaml:"catalog_file"`
}

// Location resolves Timezone; "Local" and IANA names are accepted.
func (c CalendarConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("calendar.timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

type CacheConfig struct {
	Driver        string      `yaml:"driver" default:"memory" validate:"oneof=memory redis"`
	MemoryMaxSize int         `yaml:"memory_max_size" default:"1000" validate:"gte=1"`
	Redis         RedisConfig `yaml:"redis"`
	TTL           FeedTTL     `yaml:"ttl"`
}

type RedisConfig struct {
	Host     string `yaml:"host" default:"localhost"`
	Port     int    `yaml:"port" default:"6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size" default:"10"`
	Prefix   string `yaml:"prefix" default:"findash"`
}

type FeedTTL struct {
	Crypto  time.Duration `yaml:"crypto" default:"60s"`
	News    time.Duration `yaml:"news" default:"300s"`
	Indexes time.Duration `yaml:"indexes" default:"60s"`
}

// KafkaConfig configures the error-log sink.
type KafkaConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Brokers        []string      `yaml:"brokers" validate:"required_if=Enabled true"`
	Topic          string        `yaml:"topic" default:"findash.logs"`
	Compression    string        `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
	FlushInterval  time.Duration `yaml:"flush_interval" default:"30s"`
	CountThreshold int           `yaml:"count_threshold" default:"100"`
	IncludeWarn    bool          `yaml:"include_warn"`
}

type UpstreamConfig struct {
	Timeout   time.Duration   `yaml:"timeout" default:"10s"`
	UserAgent string          `yaml:"user_agent" default:"Mozilla/5.0 (compatible; findash/1.0)"`
	FRED      FREDConfig      `yaml:"fred"`
	CoinGecko CoinGeckoConfig `yaml:"coingecko"`
	Yahoo     YahooConfig     `yaml:"yahoo"`
}

type FREDConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key" validate:"required_if=Enabled true"`
	BaseURL string `yaml:"base_url" default:"https://api.stlouisfed.org/fred" validate:"url"`
}

type CoinGeckoConfig struct {
	BaseURL       string  `yaml:"base_url" default:"https://api.coingecko.com/api/v3" validate:"url"`
	RatePerMinute float64 `yaml:"rate_per_minute" default:"30" validate:"gt=0"`
}

type YahooConfig struct {
	BaseURL string        `yaml:"base_url" default:"https://query1.finance.yahoo.com" validate:"url"`
	Indexes []IndexSymbol `yaml:"indexes" validate:"dive"`
}

type IndexSymbol struct {
	Symbol  string `yaml:"symbol" validate:"required"`
	Name    string `yaml:"name" validate:"required"`
	Country string `yaml:"country"`
}

// RateLimitConfig bounds requests per client IP on the market endpoints.
type RateLimitConfig struct {
	Disabled          bool          `yaml:"disabled"`
	RequestsPerSecond float64       `yaml:"requests_per_second" default:"5" validate:"gt=0"`
	Burst             int           `yaml:"burst" default:"20" validate:"gte=1"`
	IdleTTL           time.Duration `yaml:"idle_ttl" default:"10m"`
}

type SchedulerConfig struct {
	Disabled bool          `yaml:"disabled"`
	WarmSpec string        `yaml:"warm_spec" default:"@every 45s"`
	LockTTL  time.Duration `yaml:"lock_ttl" default:"30s"`
}

// envOverrides are applied over the YAML file when set. They carry no
// defaults so an unset variable never clobbers a file value.
type envOverrides struct {
	Environment  string   `envconfig:"APP_ENV"`
	Port         int      `envconfig:"PORT"`
	LogLevel     string   `envconfig:"LOG_LEVEL"`
	Timezone     string   `envconfig:"CALENDAR_TIMEZONE"`
	Ordering     string   `envconfig:"CALENDAR_ORDERING"`
	CatalogFile  string   `envconfig:"CALENDAR_CATALOG_FILE"`
	CacheDriver  string   `envconfig:"CACHE_DRIVER"`
	RedisHost    string   `envconfig:"REDIS_HOST"`
	RedisPort    int      `envconfig:"REDIS_PORT"`
	RedisPass    string   `envconfig:"REDIS_PASSWORD"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC"`
	FREDAPIKey   string   `envconfig:"FRED_API_KEY"`
}

var validate = validator.New()

// Load reads and parses a YAML configuration file. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	c, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if err := c.finish(); err != nil {
		return nil, err
	}
	return c, nil
}

func readFile(path string) (*Config, error) {
	var c Config
	if path == "" {
		return &c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads .env files (missing ones are skipped), the YAML file, then
// environment overrides.
func LoadWithEnv(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	c, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	env.apply(c)

	if err := c.finish(); err != nil {
		return nil, err
	}
	return c, nil
}

func (e envOverrides) apply(c *Config) {
	if e.Environment != "" {
		c.Environment = e.Environment
	}
	if e.Port != 0 {
		c.Server.Port = e.Port
	}
	if e.LogLevel != "" {
		c.Logger.Level = e.LogLevel
	}
	if e.Timezone != "" {
		c.Calendar.Timezone = e.Timezone
	}
	if e.Ordering != "" {
		c.Calendar.Ordering = e.Ordering
	}
	if e.CatalogFile != "" {
		c.Calendar.CatalogFile = e.CatalogFile
	}
	if e.CacheDriver != "" {
		c.Cache.Driver = e.CacheDriver
	}
	if e.RedisHost != "" {
		c.Cache.Redis.Host = e.RedisHost
	}
	if e.RedisPort != 0 {
		c.Cache.Redis.Port = e.RedisPort
	}
	if e.RedisPass != "" {
		c.Cache.Redis.Password = e.RedisPass
	}
	if len(e.KafkaBrokers) > 0 {
		c.Kafka.Brokers = e.KafkaBrokers
		c.Kafka.Enabled = true
	}
	if e.KafkaTopic != "" {
		c.Kafka.Topic = e.KafkaTopic
	}
	if e.FREDAPIKey != "" {
		c.Upstream.FRED.APIKey = e.FREDAPIKey
		c.Upstream.FRED.Enabled = true
	}
}

func (c *Config) finish() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("config defaults: %w", err)
	}
	if len(c.Upstream.Yahoo.Indexes) == 0 {
		c.Upstream.Yahoo.Indexes = DefaultIndexes()
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := c.Calendar.Location(); err != nil {
		return err
	}
	return nil
}

// DefaultIndexes are the Korean and US benchmarks shown on the dashboard.
func DefaultIndexes() []IndexSymbol {
	return []IndexSymbol{
		{Symbol: "^KS11", Name: "KOSPI", Country: "Korea"},
		{Symbol: "^KQ11", Name: "KOSDAQ", Country: "Korea"},
		{Symbol: "^IXIC", Name: "NASDAQ", Country: "USA"},
		{Symbol: "^GSPC", Name: "S&P 500", Country: "USA"},
		{Symbol: "^DJI", Name: "Dow Jones", Country: "USA"},
	}
}
