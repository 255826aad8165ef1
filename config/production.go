// Package config provides configuration management and environment variable handling for the application
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ProductionConfig holds all configuration for production environment
type ProductionConfig struct {
	Database  DatabaseConfig  `json:"database"`
	Server    ServerConfig    `json:"server"`
	Security  SecurityConfig  `json:"security"`
	JWT       JWTConfig       `json:"jwt"`
	Chat      ChatConfig      `json:"chat"`
	Logging   LoggingConfig   `json:"logging"`
	Metrics   MetricsConfig   `json:"metrics"`
	Cache     CacheConfig     `json:"cache"`
	Scheduler SchedulerConfig `json:"scheduler"`
}

type DatabaseConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Name            string        `json:"name"`
	User            string        `json:"user"`
	Password        string        `json:"password"`
	SSLMode         string        `json:"ssl_mode"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
	SlowQueryLog    bool          `json:"slow_query_log"`
	SlowQueryTime   time.Duration `json:"slow_query_time"`
}

type ServerConfig struct {
	Host              string        `json:"host"`
	Port              int           `json:"port"`
	ReadTimeout       time.Duration `json:"read_timeout"`
	WriteTimeout      time.Duration `json:"write_timeout"`
	IdleTimeout       time.Duration `json:"idle_timeout"`
	ShutdownTimeout   time.Duration `json:"shutdown_timeout"`
	BodyLimit         int           `json:"body_limit"`
	EnableMetrics     bool          `json:"enable_metrics"`
	TrustedProxies    []string      `json:"trusted_proxies"`
	ProxyHeader       string        `json:"proxy_header"`
	EnableCompression bool          `json:"enable_compression"`
}

type SecurityConfig struct {
	// CORS
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	CORSMaxAge       int      `json:"cors_max_age"`

	// Rate Limiting
	AuthRateLimit   int           `json:"auth_rate_limit"`   // requests per minute
	GlobalRateLimit int           `json:"global_rate_limit"` // requests per minute
	RateLimitWindow time.Duration `json:"rate_limit_window"`

	// Password & Auth
	PasswordMinLength int `json:"password_min_length"`
	BcryptCost        int `json:"bcrypt_cost"`

	// Captcha
	CaptchaEnabled bool          `json:"captcha_enabled"`
	CaptchaTTL     time.Duration `json:"captcha_ttl"`
	CaptchaPadding int           `json:"captcha_padding"`
	CaptchaImgSize int           `json:"captcha_img_size"`
}

type JWTConfig struct {
	SecretKey       string        `json:"secret_key"`
	PrivateKey      string        `json:"private_key"`  // RSA private key in PEM format
	PublicKey       string        `json:"public_key"`   // RSA public key in PEM format
	UseRSAKeys      bool          `json:"use_rsa_keys"` // Whether to use RSA keys instead of secret key
	AccessTokenTTL  time.Duration `json:"access_token_ttl"`
	RefreshTokenTTL time.Duration `json:"refresh_token_ttl"`
	Issuer          string        `json:"issuer"`
	Audience        string        `json:"audience"`
}

type ChatConfig struct {
	BaseURL  string        `json:"base_url"`
	APIToken string        `json:"api_token"`
	Timeout  time.Duration `json:"timeout"`
}

type LoggingConfig struct {
	Level      string `json:"level"`  // debug, info, warn, error
	Format     string `json:"format"` // json, text
	Output     string `json:"output"` // stdout, file, both
	FilePath   string `json:"file_path"`
	MaxSize    int    `json:"max_size"` // MB
	MaxBackups int    `json:"max_backups"`
	MaxAge     int    `json:"max_age"` // days
	Compress   bool   `json:"compress"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type CacheConfig struct {
	Enabled        bool          `json:"enabled"`
	RedisURL       string        `json:"redis_url"`
	RedisDB        int           `json:"redis_db"`
	RedisPrefix    string        `json:"redis_prefix"`
	DefaultTTL     time.Duration `json:"default_ttl"`
	MatchStatusTTL time.Duration `json:"match_status_ttl"`
}

type SchedulerConfig struct {
	ChannelReconcileEnabled  bool          `json:"channel_reconcile_enabled"`
	ChannelReconcileInterval time.Duration `json:"channel_reconcile_interval"`
	ChannelReconcileBatch    int           `json:"channel_reconcile_batch"`
}

// LoadProductionConfig loads and validates configuration from environment variables
func LoadProductionConfig() (*ProductionConfig, error) {
	// Load environment variables from .env file
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &ProductionConfig{
		Database: DatabaseConfig{
			Host:            getEnvString("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnvString("DB_NAME", "postgres"),
			User:            getEnvString("DB_USER", "postgres"),
			Password:        getEnvString("DB_PASSWORD", ""),
			SSLMode:         getEnvString("DB_SSL_MODE", "require"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 15*time.Minute),
			SlowQueryLog:    getEnvBool("DB_SLOW_QUERY_LOG", true),
			SlowQueryTime:   getEnvDuration("DB_SLOW_QUERY_TIME", 1*time.Second),
		},
		Server: ServerConfig{
			Host:              getEnvString("SERVER_HOST", "0.0.0.0"),
			Port:              getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:       getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:      getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:       getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout:   getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			BodyLimit:         getEnvInt("SERVER_BODY_LIMIT", 4*1024*1024), // 4MB
			EnableMetrics:     getEnvBool("SERVER_ENABLE_METRICS", true),
			TrustedProxies:    getEnvStringSlice("SERVER_TRUSTED_PROXIES", []string{"127.0.0.1"}),
			ProxyHeader:       getEnvString("SERVER_PROXY_HEADER", "X-Real-IP"),
			EnableCompression: getEnvBool("SERVER_ENABLE_COMPRESSION", true),
		},
		Security: SecurityConfig{
			AllowedOrigins:    getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"https://vellena.app", "https://api.vellena.app"}),
			AllowedMethods:    getEnvStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:    getEnvStringSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}),
			AllowCredentials:  getEnvBool("CORS_ALLOW_CREDENTIALS", true),
			CORSMaxAge:        getEnvInt("CORS_MAX_AGE", 86400),
			AuthRateLimit:     getEnvInt("AUTH_RATE_LIMIT", 20),
			GlobalRateLimit:   getEnvInt("GLOBAL_RATE_LIMIT", 2000),
			RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", 1*time.Minute),
			PasswordMinLength: getEnvInt("PASSWORD_MIN_LENGTH", 8),
			BcryptCost:        getEnvInt("BCRYPT_COST", 12),
			CaptchaEnabled:    getEnvBool("CAPTCHA_ENABLED", true),
			CaptchaTTL:        getEnvDuration("CAPTCHA_TTL", 2*time.Minute),
			CaptchaPadding:    getEnvInt("CAPTCHA_PADDING", 10),
			CaptchaImgSize:    getEnvInt("CAPTCHA_IMG_SIZE", 220),
		},
		JWT: JWTConfig{
			SecretKey:       getEnvString("JWT_SECRET_KEY", ""),
			PrivateKey:      getEnvString("JWT_PRIVATE_KEY", ""),
			PublicKey:       getEnvString("JWT_PUBLIC_KEY", ""),
			UseRSAKeys:      getEnvBool("JWT_USE_RSA_KEYS", false),
			AccessTokenTTL:  getEnvDuration("JWT_ACCESS_TOKEN_TTL", 24*time.Hour),
			RefreshTokenTTL: getEnvDuration("JWT_REFRESH_TOKEN_TTL", 7*24*time.Hour),
			Issuer:          getEnvString("JWT_ISSUER", "vellena"),
			Audience:        getEnvString("JWT_AUDIENCE", "vellena-api"),
		},
		Chat: ChatConfig{
			BaseURL:  getEnvString("CHAT_BASE_URL", ""),
			APIToken: getEnvString("CHAT_API_TOKEN", ""),
			Timeout:  getEnvDuration("CHAT_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			Format:     getEnvString("LOG_FORMAT", "json"),
			Output:     getEnvString("LOG_OUTPUT", "stdout"),
			FilePath:   getEnvString("LOG_FILE_PATH", "/var/log/vellena/app.log"),
			MaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 10),
			MaxAge:     getEnvInt("LOG_MAX_AGE", 30),
			Compress:   getEnvBool("LOG_COMPRESS", true),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnvString("METRICS_PATH", "/metrics"),
		},
		Cache: CacheConfig{
			Enabled:        getEnvBool("CACHE_ENABLED", true),
			RedisURL:       getEnvString("CACHE_REDIS_URL", "redis://localhost:6379"),
			RedisDB:        getEnvInt("CACHE_REDIS_DB", 0),
			RedisPrefix:    getEnvString("CACHE_REDIS_PREFIX", "vellena:"),
			DefaultTTL:     getEnvDuration("CACHE_DEFAULT_TTL", 1*time.Hour),
			MatchStatusTTL: getEnvDuration("CACHE_MATCH_STATUS_TTL", 30*time.Second),
		},
		Scheduler: SchedulerConfig{
			ChannelReconcileEnabled:  getEnvBool("SCHEDULER_CHANNEL_RECONCILE_ENABLED", true),
			ChannelReconcileInterval: getEnvDuration("SCHEDULER_CHANNEL_RECONCILE_INTERVAL", 1*time.Minute),
			ChannelReconcileBatch:    getEnvInt("SCHEDULER_CHANNEL_RECONCILE_BATCH", 50),
		},
	}

	// Validate the loaded configuration
	if err := ValidateProductionConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadEnvFile loads environment variables from .env file if it exists
func loadEnvFile() error {
	envFile := ".env"

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		// .env file doesn't exist, continue with environment variables
		return nil
	}

	file, err := os.Open(envFile)
	if err != nil {
		return fmt.Errorf("failed to open .env file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.Contains(line, "=") {
			parts := strings.SplitN(line, "=", 2)
			if len(parts) == 2 {
				key := strings.TrimSpace(parts[0])
				value := strings.TrimSpace(parts[1])

				if (strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`)) ||
					(strings.HasPrefix(value, `'`) && strings.HasSuffix(value, `'`)) {
					value = value[1 : len(value)-1]
				}

				// Environment variables win over .env entries
				if os.Getenv(key) == "" {
					os.Setenv(key, value)
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading .env file: %w", err)
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		for _, item := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// ValidateProductionConfig validates the production configuration
func ValidateProductionConfig(cfg *ProductionConfig) error {
	var errors []string

	if cfg.Database.Host == "" {
		errors = append(errors, "DB_HOST is required")
	}
	if cfg.Database.Port <= 0 || cfg.Database.Port > 65535 {
		errors = append(errors, "DB_PORT must be between 1 and 65535")
	}
	if cfg.Database.Name == "" {
		errors = append(errors, "DB_NAME is required")
	}
	if cfg.Database.User == "" {
		errors = append(errors, "DB_USER is required")
	}
	if cfg.Database.Password == "" {
		errors = append(errors, "DB_PASSWORD is required")
	}

	if !cfg.JWT.UseRSAKeys {
		if cfg.JWT.SecretKey == "" {
			errors = append(errors, "JWT_SECRET_KEY is required")
		}
		if len(cfg.JWT.SecretKey) < 32 {
			errors = append(errors, "JWT_SECRET_KEY must be at least 32 characters long")
		}
	}
	if cfg.JWT.AccessTokenTTL <= 0 {
		errors = append(errors, "JWT_ACCESS_TOKEN_TTL must be positive")
	}
	if cfg.JWT.RefreshTokenTTL <= 0 {
		errors = append(errors, "JWT_REFRESH_TOKEN_TTL must be positive")
	}
	if cfg.JWT.Issuer == "" {
		errors = append(errors, "JWT_ISSUER is required")
	}
	if cfg.JWT.Audience == "" {
		errors = append(errors, "JWT_AUDIENCE is required")
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}
	if cfg.Server.ReadTimeout <= 0 {
		errors = append(errors, "SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		errors = append(errors, "SERVER_WRITE_TIMEOUT must be positive")
	}

	if cfg.Security.PasswordMinLength < 6 {
		errors = append(errors, "PASSWORD_MIN_LENGTH must be at least 6")
	}
	if cfg.Security.BcryptCost < 10 || cfg.Security.BcryptCost > 14 {
		errors = append(errors, "BCRYPT_COST must be between 10 and 14")
	}

	if cfg.Cache.Enabled && cfg.Cache.RedisURL == "" {
		errors = append(errors, "CACHE_REDIS_URL is required when cache is enabled")
	}

	if cfg.Scheduler.ChannelReconcileEnabled {
		if cfg.Scheduler.ChannelReconcileInterval <= 0 {
			errors = append(errors, "SCHEDULER_CHANNEL_RECONCILE_INTERVAL must be positive")
		}
		if cfg.Scheduler.ChannelReconcileBatch <= 0 {
			errors = append(errors, "SCHEDULER_CHANNEL_RECONCILE_BATCH must be positive")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}
