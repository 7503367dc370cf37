package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "H2SITING"

// envKeys lists every key that may be supplied by environment alone. Viper's
// AutomaticEnv only resolves keys it already knows about during Unmarshal.
var envKeys = []string{
	"server.host", "server.port", "server.read_timeout", "server.write_timeout",
	"server.shutdown_timeout", "server.allowed_origins", "server.max_upload_bytes",
	"grpc.enabled", "grpc.port", "grpc.reflection", "grpc.graceful_timeout",
	"database.host", "database.port", "database.user", "database.password",
	"database.dbname", "database.sslmode", "database.max_open_conns",
	"database.max_idle_conns", "database.conn_max_lifetime",
	"database.migrations_dir", "database.auto_migrate",
	"redis.addr", "redis.password", "redis.db", "redis.pool_size", "redis.key_prefix",
	"kafka.enabled", "kafka.brokers", "kafka.topic_prefix", "kafka.batch_timeout",
	"minio.enabled", "minio.endpoint", "minio.access_key_id", "minio.secret_access_key",
	"minio.use_ssl", "minio.attachments_bucket", "minio.reports_bucket",
	"opensearch.enabled", "opensearch.addresses", "opensearch.username",
	"opensearch.password", "opensearch.index",
	"auth.session_secret", "auth.session_ttl", "auth.issuer", "auth.cookie_secure",
	"auth.state_ttl", "auth.google.client_id", "auth.google.client_secret",
	"auth.google.redirect_url", "auth.google.auth_url", "auth.google.token_url",
	"auth.google.user_info_url",
	"assistant.openrouter_base_url", "assistant.openrouter_api_key", "assistant.model",
	"assistant.llm_timeout", "assistant.searxng_url", "assistant.search_timeout",
	"assistant.search_cache_ttl", "assistant.max_retries",
	"engine.catalog_path", "engine.seed",
	"rate_limit.enabled", "rate_limit.requests_per_second", "rate_limit.burst",
	"log.level", "log.format", "log.output_paths",
}

// newViper builds a Viper instance with YAML file type, the H2SITING_ env
// prefix, and a "." → "_" key replacer so "database.host" resolves to
// H2SITING_DATABASE_HOST.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range envKeys {
		_ = v.BindEnv(k)
	}
	return v
}

// Load reads the YAML file at configPath, merges H2SITING_* overrides,
// applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from H2SITING_* environment variables only.
//
//	H2SITING_<SECTION>_<FIELD>   e.g.  H2SITING_DATABASE_HOST, H2SITING_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch invokes onChange with the re-parsed Config whenever configPath
// changes on disk. Invalid revisions are reported to onError, if set, and
// never reach onChange. Only the log level is hot-reloaded by the server.
func Watch(configPath string, onChange func(*Config), onError func(error)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig()

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

// MustLoad wraps Load and panics on any error.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
