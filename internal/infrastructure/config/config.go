package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App    AppConfig
	Log    LogConfig
	HTTP   HTTPConfig
	Sheets SheetsConfig
	Cache  CacheConfig
	Dedup  DedupConfig
	Redis  RedisConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// SheetsConfig holds the remote spreadsheet settings
type SheetsConfig struct {
	SpreadsheetID      string
	CredentialsFile    string
	OrdersWorksheet    string
	DispatchWorksheet  string
	ProductsWorksheet  string
	CompaniesWorksheet string
	BrandsWorksheet    string
	RetryAttempts      int
}

// CacheConfig holds the full-sheet read memoization settings
type CacheConfig struct {
	TTL time.Duration
}

// DedupConfig holds the submission double-submit guard settings
type DedupConfig struct {
	Backend string // memory or redis
	Window  int    // bounded history size for the memory backend
	Horizon time.Duration
}

// RedisConfig holds Redis connection settings (dedup backend only)
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with ORDERS_ prefix (e.g., ORDERS_SHEETS_SPREADSHEET_ID)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("ORDERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:      v.GetString("sheets.spreadsheet_id"),
			CredentialsFile:    v.GetString("sheets.credentials_file"),
			OrdersWorksheet:    v.GetString("sheets.orders_worksheet"),
			DispatchWorksheet:  v.GetString("sheets.dispatch_worksheet"),
			ProductsWorksheet:  v.GetString("sheets.products_worksheet"),
			CompaniesWorksheet: v.GetString("sheets.companies_worksheet"),
			BrandsWorksheet:    v.GetString("sheets.brands_worksheet"),
			RetryAttempts:      v.GetInt("sheets.retry_attempts"),
		},
		Cache: CacheConfig{
			TTL: v.GetDuration("cache.ttl"),
		},
		Dedup: DedupConfig{
			Backend: v.GetString("dedup.backend"),
			Window:  v.GetInt("dedup.window"),
			Horizon: v.GetDuration("dedup.horizon"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "orderdesk-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8000"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// sheet round-trips with retries can take a while
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB, the payloads here are small
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 30
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.Sheets.CredentialsFile == "" {
		cfg.Sheets.CredentialsFile = "service_account.json"
	}
	if cfg.Sheets.OrdersWorksheet == "" {
		cfg.Sheets.OrdersWorksheet = "orders"
	}
	if cfg.Sheets.DispatchWorksheet == "" {
		cfg.Sheets.DispatchWorksheet = "dispatch"
	}
	if cfg.Sheets.ProductsWorksheet == "" {
		cfg.Sheets.ProductsWorksheet = "products"
	}
	if cfg.Sheets.CompaniesWorksheet == "" {
		cfg.Sheets.CompaniesWorksheet = "companies"
	}
	if cfg.Sheets.BrandsWorksheet == "" {
		cfg.Sheets.BrandsWorksheet = "brands"
	}
	if cfg.Sheets.RetryAttempts == 0 {
		cfg.Sheets.RetryAttempts = 3
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 15 * time.Second
	}
	if cfg.Dedup.Backend == "" {
		cfg.Dedup.Backend = "memory"
	}
	if cfg.Dedup.Window == 0 {
		cfg.Dedup.Window = 200
	}
	if cfg.Dedup.Horizon == 0 {
		cfg.Dedup.Horizon = 5 * time.Second
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Dedup.Backend != "memory" && c.Dedup.Backend != "redis" {
		return fmt.Errorf("dedup.backend must be \"memory\" or \"redis\", got %q", c.Dedup.Backend)
	}
	if c.Dedup.Window <= 0 {
		return fmt.Errorf("dedup.window must be positive")
	}
	if c.HTTP.RateLimitRequests <= 0 {
		return fmt.Errorf("http.rate_limit_requests must be positive")
	}
	if c.Sheets.RetryAttempts <= 0 {
		return fmt.Errorf("sheets.retry_attempts must be positive")
	}

	if c.App.Env == "production" {
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("sheets.spreadsheet_id is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}
