package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`

	// Supabase configuration
	SupabaseURL        string `yaml:"supabase_url"`
	SupabaseAnonKey    string `yaml:"supabase_anon_key"`
	SupabaseServiceKey string `yaml:"supabase_service_key"`
	MediaBucket        string `yaml:"media_bucket"`

	// Static lesson content
	ContentBaseURL string `yaml:"content_base_url"`
	ContentDir     string `yaml:"content_dir"`

	// Cache configuration
	CacheDir         string        `yaml:"cache_dir"`
	CacheTTL         time.Duration `yaml:"cache_ttl"`
	CacheQuotaBytes  int64         `yaml:"cache_quota_bytes"`
	CacheSchemaTag   string        `yaml:"cache_schema_tag"`
	PreloadPaths     []string      `yaml:"preload_paths"`
	PreloadSpacing   time.Duration `yaml:"preload_spacing"`
	EnableDirWatcher bool          `yaml:"enable_dir_watcher"`

	// Editing sessions
	AutoSaveIdle    time.Duration `yaml:"auto_save_idle"`
	SaveErrorWindow time.Duration `yaml:"save_error_window"`

	// Outbound requests
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Authentication
	JWTSecret string `yaml:"jwt_secret"`
	JWTIssuer string `yaml:"jwt_issuer"`

	// Logging and features
	LogLevel      string `yaml:"log_level"`
	EnableMetrics bool   `yaml:"enable_metrics"`
	EnableCORS    bool   `yaml:"enable_cors"`
}

// LoadConfig loads configuration from environment variables, optionally
// overlaid by a YAML file named in CONFIG_FILE. Environment variables win.
func LoadConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	cfg.overlayEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ServerAddress:   ":8080",
		Environment:     "development",
		MediaBucket:     "media",
		ContentBaseURL:  "http://localhost:3000",
		CacheDir:        ".cache/content",
		CacheTTL:        24 * time.Hour,
		CacheQuotaBytes: 5 << 20,
		CacheSchemaTag:  "v1",
		PreloadSpacing:  100 * time.Millisecond,
		AutoSaveIdle:    3 * time.Second,
		SaveErrorWindow: 3 * time.Second,
		RequestTimeout:  10 * time.Second,
		JWTIssuer:       "coursehub",
		LogLevel:        "info",
		EnableMetrics:   true,
		EnableCORS:      true,
	}
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) overlayEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)

	c.SupabaseURL = getEnv("SUPABASE_URL", c.SupabaseURL)
	c.SupabaseAnonKey = getEnv("SUPABASE_ANON_KEY", c.SupabaseAnonKey)
	c.SupabaseServiceKey = getEnv("SUPABASE_SERVICE_ROLE_KEY", c.SupabaseServiceKey)
	c.MediaBucket = getEnv("MEDIA_BUCKET", c.MediaBucket)

	c.ContentBaseURL = getEnv("CONTENT_BASE_URL", c.ContentBaseURL)
	c.ContentDir = getEnv("CONTENT_DIR", c.ContentDir)

	c.CacheDir = getEnv("CACHE_DIR", c.CacheDir)
	c.CacheTTL = getEnvDuration("CACHE_TTL", c.CacheTTL)
	c.CacheQuotaBytes = getEnvInt64("CACHE_QUOTA_BYTES", c.CacheQuotaBytes)
	c.CacheSchemaTag = getEnv("CACHE_SCHEMA_TAG", c.CacheSchemaTag)
	c.EnableDirWatcher = getEnvBool("ENABLE_DIR_WATCHER", c.EnableDirWatcher)

	c.AutoSaveIdle = getEnvDuration("AUTO_SAVE_IDLE", c.AutoSaveIdle)
	c.SaveErrorWindow = getEnvDuration("SAVE_ERROR_WINDOW", c.SaveErrorWindow)
	c.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.CacheQuotaBytes <= 0 {
		return fmt.Errorf("CACHE_QUOTA_BYTES must be positive")
	}
	if c.AutoSaveIdle <= 0 {
		return fmt.Errorf("AUTO_SAVE_IDLE must be positive")
	}

	if c.Environment == "production" {
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required in production")
		}
		if c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY is required in production")
		}
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt64 gets an integer environment variable with a default value
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
