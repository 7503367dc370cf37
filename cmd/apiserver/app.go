package main

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/H2Siting/internal/application/analysis"
	"github.com/turtacn/H2Siting/internal/application/assistant"
	"github.com/turtacn/H2Siting/internal/application/auth"
	"github.com/turtacn/H2Siting/internal/application/community"
	"github.com/turtacn/H2Siting/internal/application/events"
	"github.com/turtacn/H2Siting/internal/application/history"
	"github.com/turtacn/H2Siting/internal/config"
	domaincommunity "github.com/turtacn/H2Siting/internal/domain/community"
	"github.com/turtacn/H2Siting/internal/infrastructure/auth/google"
	"github.com/turtacn/H2Siting/internal/infrastructure/auth/password"
	"github.com/turtacn/H2Siting/internal/infrastructure/auth/session"
	"github.com/turtacn/H2Siting/internal/infrastructure/database/postgres"
	"github.com/turtacn/H2Siting/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/H2Siting/internal/infrastructure/database/redis"
	"github.com/turtacn/H2Siting/internal/infrastructure/llm/openrouter"
	"github.com/turtacn/H2Siting/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/H2Siting/internal/infrastructure/search/opensearch"
	"github.com/turtacn/H2Siting/internal/infrastructure/search/searxng"
	"github.com/turtacn/H2Siting/internal/infrastructure/storage/minio"
	grpcserver "github.com/turtacn/H2Siting/internal/interfaces/grpc"
	"github.com/turtacn/H2Siting/internal/interfaces/grpc/services"
	httpserver "github.com/turtacn/H2Siting/internal/interfaces/http"
	"github.com/turtacn/H2Siting/internal/interfaces/http/handlers"
	"github.com/turtacn/H2Siting/internal/interfaces/http/middleware"
)

const (
	eventSource      = "h2siting-api"
	migrationLockTTL = 2 * time.Minute
)

// application owns every long-lived dependency of the server.
type application struct {
	httpServer *httpserver.Server
	grpcServer *grpcserver.Server

	logger  logging.Logger
	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

func (a *application) onClose(name string, fn func() error) {
	a.closers = append(a.closers, namedCloser{name, fn})
}

// Close releases dependencies in reverse order of acquisition.
func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(); err != nil {
			a.logger.Warn("failed to close dependency", logging.String("dependency", c.name), logging.Err(err))
		}
	}
}

// infra holds the backing stores. Optional stores are nil when disabled.
type infra struct {
	db          *postgres.Connection
	communities domaincommunity.Repository
	redis       *redis.Client
	cache       redis.Cache
	publisher   events.Publisher
	attachments *minio.AttachmentStore
	reports     *minio.ReportArchive
	index       *opensearch.CommunityIndex
	checkers    []handlers.HealthChecker
}

func newApplication(ctx context.Context, cfg *config.Config, logger logging.Logger) (_ *application, err error) {
	app := &application{logger: logger}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "h2siting",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	metrics := prometheus.NewAppMetrics(collector)

	engine, err := analysis.NewEngine(cfg.Engine.CatalogPath, cfg.Engine.Seed)
	if err != nil {
		return nil, fmt.Errorf("feasibility catalog: %w", err)
	}

	in, err := app.openInfra(ctx, cfg, metrics, logger)
	if err != nil {
		return nil, err
	}

	users := repositories.NewPostgresUserRepo(in.db, logger)
	chats := repositories.NewPostgresChatRepo(in.db, logger)
	communities := in.communities

	authDeps := auth.Dependencies{
		Users:       users,
		Hasher:      password.NewHasher(password.DefaultIterations),
		Tokens:      session.NewManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL, cfg.Auth.Issuer),
		Revocations: redis.NewRevocationStore(in.redis, cfg.Redis.KeyPrefix+":"),
	}
	if cfg.GoogleEnabled() {
		authDeps.States = redis.NewStateStore(in.redis, cfg.Redis.KeyPrefix+":", cfg.Auth.StateTTL)
		authDeps.Google = google.NewProvider(google.Config{
			ClientID:     cfg.Auth.Google.ClientID,
			ClientSecret: cfg.Auth.Google.ClientSecret,
			RedirectURL:  cfg.Auth.Google.RedirectURL,
			AuthURL:      cfg.Auth.Google.AuthURL,
			TokenURL:     cfg.Auth.Google.TokenURL,
			UserInfoURL:  cfg.Auth.Google.UserInfoURL,
		})
	}
	authSvc := auth.NewService(authDeps, logger.Named("auth"))

	// The analysis service records its own event outcomes.
	var publisher events.Publisher = in.publisher
	if cfg.Kafka.Enabled {
		publisher = &meteredPublisher{next: in.publisher, metrics: metrics}
	}

	communityDeps := community.Dependencies{
		Repo:               communities,
		Cache:              newMeteredCache(in.cache, "community_stats", metrics),
		Publisher:          publisher,
		MaxAttachmentBytes: cfg.Server.MaxUploadBytes,
	}
	if in.index != nil {
		communityDeps.Index = in.index
	}
	if in.attachments != nil {
		communityDeps.Attachments = in.attachments
	}
	communitySvc := community.NewService(communityDeps, logger.Named("community"))

	historySvc := history.NewService(chats, logger.Named("history"))

	llm := openrouter.NewClient(openrouter.Config{
		BaseURL:    cfg.Assistant.OpenRouterBaseURL,
		APIKey:     cfg.Assistant.OpenRouterAPIKey,
		Model:      cfg.Assistant.Model,
		Timeout:    cfg.Assistant.LLMTimeout,
		MaxRetries: cfg.Assistant.MaxRetries,
	}, logger.Named("openrouter"), openrouter.WithObserver(llmObserver(metrics)))

	web := searxng.NewClient(cfg.Assistant.SearxngURL, cfg.Assistant.SearchTimeout, logger.Named("searxng")).
		WithObserver(metrics.RecordSearchCall)

	assistantDeps := assistant.Dependencies{
		LLM:       llm,
		Search:    searxng.NewCachedSearcher(web, newMeteredCache(in.cache, "web_search", metrics), cfg.Assistant.SearchCacheTTL, logger),
		History:   historySvc,
		Publisher: publisher,
	}
	if in.reports != nil {
		assistantDeps.Archive = in.reports
	}
	assistantSvc := assistant.NewService(assistantDeps, logger.Named("assistant"))

	analysisSvc := analysis.NewService(engine, in.publisher, metrics, logger.Named("analysis"))

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.Server.AllowedOrigins

	routerCfg := httpserver.RouterConfig{
		HealthHandler:    handlers.NewHealthHandler(config.Version, logger, in.checkers...),
		MapHandler:       handlers.NewMapHandler(analysisSvc, logger),
		AuthHandler:      handlers.NewAuthHandler(authSvc, cfg.Auth.CookieSecure, logger),
		CommunityHandler: handlers.NewCommunityHandler(communitySvc, cfg.Server.MaxUploadBytes, logger),
		AssistantHandler: handlers.NewAssistantHandler(assistantSvc, logger),
		HistoryHandler:   handlers.NewHistoryHandler(historySvc, logger),
		AuthMiddleware:   middleware.NewAuthMiddleware(authSvc, middleware.AuthConfig{}, logger),
		CORSMiddleware:   middleware.NewCORSMiddleware(cors),
		Logging:          middleware.DefaultLoggingConfig(),
		HTTPMetrics:      metrics,
		Logger:           logger,
		MetricsCollector: collector,
	}
	if cfg.RateLimit.Enabled {
		routerCfg.LLMRateLimiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		})
	}

	app.httpServer = httpserver.NewServer(cfg.HTTPAddr(), httpserver.NewRouter(routerCfg), httpserver.ServerConfig{
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logger)

	if cfg.GRPC.Enabled {
		app.grpcServer, err = grpcserver.NewServer(&cfg.GRPC,
			grpcserver.WithLogger(logger.Named("grpc")),
			grpcserver.WithMetrics(metrics),
		)
		if err != nil {
			return nil, fmt.Errorf("grpc: %w", err)
		}
		app.grpcServer.RegisterService(&services.FeasibilityServiceDesc, services.NewFeasibilityService(analysisSvc, logger))
	}

	return app, nil
}

// openInfra connects the stores. PostgreSQL and Redis are required; Kafka,
// MinIO and OpenSearch are used only when enabled.
func (a *application) openInfra(ctx context.Context, cfg *config.Config, metrics *prometheus.AppMetrics, logger logging.Logger) (*infra, error) {
	in := &infra{publisher: events.NopPublisher{}}

	db, err := postgres.NewConnection(postgres.FromConfig(cfg.Database), logger)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	a.onClose("postgres", db.Close)
	db.SetQueryObserver(dbObserver(metrics))
	in.db = db
	in.communities = repositories.NewPostgresCommunityRepo(db, logger)

	rc, err := redis.NewClient(&redis.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	a.onClose("redis", rc.Close)
	in.redis = rc
	in.cache = redis.NewRedisCache(rc, logger, redis.WithPrefix(cfg.Redis.KeyPrefix))
	in.checkers = append(in.checkers, db, rc)

	if cfg.Database.AutoMigrate {
		if err := migrateLocked(ctx, db, rc, cfg.Database.MigrationsDir, logger); err != nil {
			return nil, err
		}
	}

	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			BatchTimeout: cfg.Kafka.BatchTimeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("kafka: %w", err)
		}
		a.onClose("kafka", producer.Close)
		ensureTopics(ctx, cfg.Kafka, logger)
		in.publisher = kafka.NewEventPublisher(producer, cfg.Kafka.TopicPrefix, eventSource)
	}

	if cfg.MinIO.Enabled {
		mc, err := minio.NewMinIOClient(&minio.MinIOConfig{
			Endpoint:        cfg.MinIO.Endpoint,
			AccessKeyID:     cfg.MinIO.AccessKeyID,
			SecretAccessKey: cfg.MinIO.SecretAccessKey,
			UseSSL:          cfg.MinIO.UseSSL,
			Buckets: minio.BucketConfig{
				Attachments: cfg.MinIO.AttachmentsBucket,
				Reports:     cfg.MinIO.ReportsBucket,
			},
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("minio: %w", err)
		}
		a.onClose("minio", mc.Close)
		if err := mc.EnsureBuckets(ctx); err != nil {
			return nil, fmt.Errorf("minio buckets: %w", err)
		}
		repo := minio.NewMinIORepository(mc, logger)
		in.attachments = minio.NewAttachmentStore(repo, cfg.MinIO.AttachmentsBucket)
		in.reports = minio.NewReportArchive(repo, cfg.MinIO.ReportsBucket)
		in.checkers = append(in.checkers, mc)
	}

	if cfg.OpenSearch.Enabled {
		oc, err := opensearch.NewClient(opensearch.ClientConfig{
			Addresses: cfg.OpenSearch.Addresses,
			Username:  cfg.OpenSearch.Username,
			Password:  cfg.OpenSearch.Password,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("opensearch: %w", err)
		}
		a.onClose("opensearch", oc.Close)
		index := opensearch.NewCommunityIndex(oc, cfg.OpenSearch.Index, logger)
		if err := index.EnsureIndex(ctx, in.communities); err != nil {
			logger.Warn("community index unavailable, falling back to SQL search", logging.Err(err))
			metrics.RecordError("opensearch", "index_unavailable")
		} else {
			in.index = index
		}
		in.checkers = append(in.checkers, oc)
	}

	return in, nil
}

// migrateLocked applies migrations while holding a Redis lock so that only
// one replica migrates at a time.
func migrateLocked(ctx context.Context, db *postgres.Connection, rc *redis.Client, dir string, logger logging.Logger) error {
	lock := redis.NewMutex(rc, logger, "migrations", redis.WithLockTTL(migrationLockTTL), redis.WithRetry(60, time.Second))
	if err := lock.Lock(ctx); err != nil {
		return fmt.Errorf("migration lock: %w", err)
	}
	defer func() {
		if err := lock.Unlock(context.Background()); err != nil {
			logger.Warn("failed to release migration lock", logging.Err(err))
		}
	}()
	return db.RunMigrations(dir)
}

func ensureTopics(ctx context.Context, cfg config.KafkaConfig, logger logging.Logger) {
	tm, err := kafka.NewTopicManager(cfg.Brokers, logger)
	if err != nil {
		logger.Warn("kafka topic manager unavailable", logging.Err(err))
		return
	}
	defer tm.Close()
	if err := tm.EnsureTopics(ctx, cfg.TopicPrefix); err != nil {
		logger.Warn("failed to ensure kafka topics", logging.Err(err))
	}
}

//Personal.AI order the ending
