// Package config provides configuration loading, defaults, and validation for
// the H2Siting service and CLI.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

// ─────────────────────────────────────────────────────────────────────────────
// Section structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	// MaxUploadBytes caps multipart bodies on community posts.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// GRPCConfig holds the gRPC listener settings.
type GRPCConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Port            int           `mapstructure:"port"`
	Reflection      bool          `mapstructure:"reflection"`
	GracefulTimeout time.Duration `mapstructure:"graceful_timeout"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	PoolSize  int    `mapstructure:"pool_size"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// KafkaConfig holds event publishing settings. Disabled means events are dropped.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	TopicPrefix  string        `mapstructure:"topic_prefix"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
}

// MinIOConfig holds object storage settings for attachments and reports.
type MinIOConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	Endpoint          string `mapstructure:"endpoint"`
	AccessKeyID       string `mapstructure:"access_key_id"`
	SecretAccessKey   string `mapstructure:"secret_access_key"`
	UseSSL            bool   `mapstructure:"use_ssl"`
	AttachmentsBucket string `mapstructure:"attachments_bucket"`
	ReportsBucket     string `mapstructure:"reports_bucket"`
}

// OpenSearchConfig holds the optional community full-text index settings.
type OpenSearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

// GoogleOAuthConfig holds the Google sign-in client.
type GoogleOAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
	AuthURL      string `mapstructure:"auth_url"`
	TokenURL     string `mapstructure:"token_url"`
	UserInfoURL  string `mapstructure:"user_info_url"`
}

// AuthConfig holds session token and OAuth settings.
type AuthConfig struct {
	SessionSecret string            `mapstructure:"session_secret"`
	SessionTTL    time.Duration     `mapstructure:"session_ttl"`
	Issuer        string            `mapstructure:"issuer"`
	CookieSecure  bool              `mapstructure:"cookie_secure"`
	StateTTL      time.Duration     `mapstructure:"state_ttl"`
	Google        GoogleOAuthConfig `mapstructure:"google"`
}

// AssistantConfig holds the LLM and web-search collaborators.
type AssistantConfig struct {
	OpenRouterBaseURL string        `mapstructure:"openrouter_base_url"`
	OpenRouterAPIKey  string        `mapstructure:"openrouter_api_key"`
	Model             string        `mapstructure:"model"`
	LLMTimeout        time.Duration `mapstructure:"llm_timeout"`
	SearxngURL        string        `mapstructure:"searxng_url"`
	SearchTimeout     time.Duration `mapstructure:"search_timeout"`
	SearchCacheTTL    time.Duration `mapstructure:"search_cache_ttl"`
	MaxRetries        int           `mapstructure:"max_retries"`
}

// EngineConfig tunes the feasibility engine.
type EngineConfig struct {
	// CatalogPath overrides the embedded hub catalog when set.
	CatalogPath string `mapstructure:"catalog_path"`
	// Seed makes the feasibility perturbation reproducible when non-zero.
	Seed int64 `mapstructure:"seed"`
}

// RateLimitConfig bounds assistant traffic per client.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration object.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	GRPC       GRPCConfig       `mapstructure:"grpc"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
	OpenSearch OpenSearchConfig `mapstructure:"opensearch"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Assistant  AssistantConfig  `mapstructure:"assistant"`
	Engine     EngineConfig     `mapstructure:"engine"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Log        LogConfig        `mapstructure:"log"`
}

// NewDefaultConfig returns a Config holding only defaults.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if c.GRPC.Enabled && (c.GRPC.Port <= 0 || c.GRPC.Port > 65535) {
		return fmt.Errorf("config: grpc.port %d out of range", c.GRPC.Port)
	}
	if c.GRPC.Enabled && c.GRPC.Port == c.Server.Port {
		return fmt.Errorf("config: grpc.port must differ from server.port")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers is required when kafka is enabled")
	}
	if c.MinIO.Enabled && c.MinIO.Endpoint == "" {
		return fmt.Errorf("config: minio.endpoint is required when minio is enabled")
	}
	if c.OpenSearch.Enabled && len(c.OpenSearch.Addresses) == 0 {
		return fmt.Errorf("config: opensearch.addresses is required when opensearch is enabled")
	}
	if len(c.Auth.SessionSecret) < 32 {
		return fmt.Errorf("config: auth.session_secret must be at least 32 bytes")
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("config: auth.session_ttl must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("config: rate_limit requires positive requests_per_second and burst")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.Auth.Google.ClientID != "" && c.Auth.Google.ClientSecret != ""
}

// HTTPAddr is the listen address of the HTTP server.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

//Personal.AI order the ending
