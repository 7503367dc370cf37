package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost            = "0.0.0.0"
	DefaultServerPort            = 5000
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 120 * time.Second
	DefaultServerShutdownTimeout = 30 * time.Second
	DefaultMaxUploadBytes        = 16 << 20

	DefaultGRPCPort            = 9090
	DefaultGRPCGracefulTimeout = 10 * time.Second

	DefaultDBHost            = "localhost"
	DefaultDBPort            = 5432
	DefaultDBUser            = "h2siting"
	DefaultDBName            = "h2siting"
	DefaultDBSSLMode         = "disable"
	DefaultDBMaxOpenConns    = 25
	DefaultDBMaxIdleConns    = 10
	DefaultDBConnMaxLifetime = 30 * time.Minute
	DefaultMigrationsDir     = "migrations"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisPoolSize  = 10
	DefaultRedisKeyPrefix = "h2siting"

	DefaultKafkaBroker       = "localhost:9092"
	DefaultKafkaTopicPrefix  = "h2siting"
	DefaultKafkaBatchTimeout = 50 * time.Millisecond

	DefaultMinIOEndpoint          = "localhost:9000"
	DefaultMinIOAttachmentsBucket = "h2siting-attachments"
	DefaultMinIOReportsBucket     = "h2siting-reports"

	DefaultOpenSearchAddr  = "http://localhost:9200"
	DefaultOpenSearchIndex = "h2siting-communities"

	DefaultSessionSecret = "h2siting-development-session-secret-change-me"
	DefaultSessionTTL    = 24 * time.Hour
	DefaultIssuer        = "h2siting"
	DefaultStateTTL      = 10 * time.Minute
	DefaultGoogleAuthURL = "https://accounts.google.com/o/oauth2/auth"
	DefaultGoogleToken   = "https://oauth2.googleapis.com/token"
	DefaultGoogleUser    = "https://www.googleapis.com/oauth2/v2/userinfo"
	DefaultGoogleRedir   = "http://localhost:5000/auth/google/callback"

	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel             = "deepseek/deepseek-r1-0528:free"
	DefaultLLMTimeout        = 90 * time.Second
	DefaultSearxngURL        = "http://localhost:8888"
	DefaultSearchTimeout     = 10 * time.Second
	DefaultSearchCacheTTL    = 10 * time.Minute
	DefaultMaxRetries        = 2

	DefaultRateLimitRPS   = 1.0
	DefaultRateLimitBurst = 5

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with the default.
// Explicitly configured values are left unchanged.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}

	// ── gRPC ──────────────────────────────────────────────────────────────────
	if cfg.GRPC.Port == 0 {
		cfg.GRPC.Port = DefaultGRPCPort
	}
	if cfg.GRPC.GracefulTimeout == 0 {
		cfg.GRPC.GracefulTimeout = DefaultGRPCGracefulTimeout
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = DefaultDBUser
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = DefaultDBSSLMode
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = DefaultDBMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = DefaultDBMaxIdleConns
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = DefaultDBConnMaxLifetime
	}
	if cfg.Database.MigrationsDir == "" {
		cfg.Database.MigrationsDir = DefaultMigrationsDir
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.TopicPrefix == "" {
		cfg.Kafka.TopicPrefix = DefaultKafkaTopicPrefix
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = DefaultKafkaBatchTimeout
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.AttachmentsBucket == "" {
		cfg.MinIO.AttachmentsBucket = DefaultMinIOAttachmentsBucket
	}
	if cfg.MinIO.ReportsBucket == "" {
		cfg.MinIO.ReportsBucket = DefaultMinIOReportsBucket
	}

	// ── OpenSearch ────────────────────────────────────────────────────────────
	if len(cfg.OpenSearch.Addresses) == 0 {
		cfg.OpenSearch.Addresses = []string{DefaultOpenSearchAddr}
	}
	if cfg.OpenSearch.Index == "" {
		cfg.OpenSearch.Index = DefaultOpenSearchIndex
	}

	// ── Auth ──────────────────────────────────────────────────────────────────
	if cfg.Auth.SessionSecret == "" {
		cfg.Auth.SessionSecret = DefaultSessionSecret
	}
	if cfg.Auth.SessionTTL == 0 {
		cfg.Auth.SessionTTL = DefaultSessionTTL
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = DefaultIssuer
	}
	if cfg.Auth.StateTTL == 0 {
		cfg.Auth.StateTTL = DefaultStateTTL
	}
	if cfg.Auth.Google.AuthURL == "" {
		cfg.Auth.Google.AuthURL = DefaultGoogleAuthURL
	}
	if cfg.Auth.Google.TokenURL == "" {
		cfg.Auth.Google.TokenURL = DefaultGoogleToken
	}
	if cfg.Auth.Google.UserInfoURL == "" {
		cfg.Auth.Google.UserInfoURL = DefaultGoogleUser
	}
	if cfg.Auth.Google.RedirectURL == "" {
		cfg.Auth.Google.RedirectURL = DefaultGoogleRedir
	}

	// ── Assistant ─────────────────────────────────────────────────────────────
	if cfg.Assistant.OpenRouterBaseURL == "" {
		cfg.Assistant.OpenRouterBaseURL = DefaultOpenRouterBaseURL
	}
	if cfg.Assistant.Model == "" {
		cfg.Assistant.Model = DefaultModel
	}
	if cfg.Assistant.LLMTimeout == 0 {
		cfg.Assistant.LLMTimeout = DefaultLLMTimeout
	}
	if cfg.Assistant.SearxngURL == "" {
		cfg.Assistant.SearxngURL = DefaultSearxngURL
	}
	if cfg.Assistant.SearchTimeout == 0 {
		cfg.Assistant.SearchTimeout = DefaultSearchTimeout
	}
	if cfg.Assistant.SearchCacheTTL == 0 {
		cfg.Assistant.SearchCacheTTL = DefaultSearchCacheTTL
	}
	if cfg.Assistant.MaxRetries == 0 {
		cfg.Assistant.MaxRetries = DefaultMaxRetries
	}

	// ── Rate limit ────────────────────────────────────────────────────────────
	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = DefaultRateLimitRPS
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = DefaultRateLimitBurst
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stdout"}
	}
}

//Personal.AI order the ending
