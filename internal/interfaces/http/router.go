package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/H2Siting/internal/interfaces/http/handlers"
	"github.com/turtacn/H2Siting/internal/interfaces/http/middleware"
)

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the complete HTTP route tree.
type RouterConfig struct {
	// Handlers
	HealthHandler    *handlers.HealthHandler
	MapHandler       *handlers.MapHandler
	AuthHandler      *handlers.AuthHandler
	CommunityHandler *handlers.CommunityHandler
	AssistantHandler *handlers.AssistantHandler
	HistoryHandler   *handlers.HistoryHandler

	// Middleware
	AuthMiddleware *middleware.AuthMiddleware
	CORSMiddleware *middleware.CORSMiddleware
	// LLMRateLimiter throttles the /LLM routes only.
	LLMRateLimiter *middleware.RateLimiter
	Logging        middleware.LoggingConfig
	HTTPMetrics    middleware.HTTPRecorder

	// Infrastructure
	Logger           logging.Logger
	MetricsCollector prometheus.MetricsCollector
}

// NewRouter constructs the complete HTTP route tree from the given configuration.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if cfg.CORSMiddleware != nil {
		r.Use(cfg.CORSMiddleware.Handler)
	}
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, cfg.Logging))
	}
	if cfg.HTTPMetrics != nil {
		r.Use(middleware.Metrics(cfg.HTTPMetrics))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.Handle("/metrics", cfg.MetricsCollector.Handler())
	}

	registerMapRoutes(r, cfg.MapHandler)
	registerPublicAuthRoutes(r, cfg.AuthHandler)

	r.Group(func(priv chi.Router) {
		if cfg.AuthMiddleware != nil {
			priv.Use(cfg.AuthMiddleware.Handler)
		}
		registerSessionRoutes(priv, cfg.AuthHandler)
		registerCommunityRoutes(priv, cfg.CommunityHandler)
		registerAssistantRoutes(priv, cfg.AssistantHandler, cfg.LLMRateLimiter)
		registerHistoryRoutes(priv, cfg.HistoryHandler)
	})

	return r
}

// registerMapRoutes mounts the feasibility engine under /map.
func registerMapRoutes(r chi.Router, h *handlers.MapHandler) {
	if h == nil {
		return
	}
	r.Route("/map", func(mr chi.Router) {
		mr.Get("/health", h.Health)
		mr.Post("/analyze", h.Analyze)
		mr.Get("/hubs", h.Hubs)
		mr.Get("/nearest", h.Nearest)
	})
}

func registerPublicAuthRoutes(r chi.Router, h *handlers.AuthHandler) {
	if h == nil {
		return
	}
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Get("/auth/google", h.GoogleLogin)
	r.Get("/auth/google/callback", h.GoogleCallback)
}

func registerSessionRoutes(r chi.Router, h *handlers.AuthHandler) {
	if h == nil {
		return
	}
	r.Get("/auth/logout", h.Logout)
	r.Post("/auth/logout", h.Logout)
	r.Post("/delete_user/{id}", h.DeleteUser)
}

// registerCommunityRoutes mounts community endpoints under /community.
func registerCommunityRoutes(r chi.Router, h *handlers.CommunityHandler) {
	if h == nil {
		return
	}
	r.Route("/community", func(cr chi.Router) {
		cr.Get("/", h.Overview)
		cr.Post("/join", h.Join)
		cr.Post("/post", h.CreatePost)
		cr.Get("/posts/mine", h.MyPosts)
		cr.Get("/{id}/posts", h.CommunityPosts)
		cr.Get("/files/*", h.File)
	})
}

// registerAssistantRoutes mounts the LLM endpoints under /LLM.
func registerAssistantRoutes(r chi.Router, h *handlers.AssistantHandler, limiter *middleware.RateLimiter) {
	if h == nil {
		return
	}
	r.Route("/LLM", func(lr chi.Router) {
		if limiter != nil {
			lr.Use(limiter.Handler)
		}
		lr.Post("/generate-report", h.GenerateReport)
		lr.Post("/ask-question", h.AskQuestion)
		lr.Post("/chat", h.Chat)
	})
}

// registerHistoryRoutes mounts chat history endpoints under /history/api.
func registerHistoryRoutes(r chi.Router, h *handlers.HistoryHandler) {
	if h == nil {
		return
	}
	r.Route("/history/api", func(hr chi.Router) {
		hr.Get("/sessions", h.Sessions)
		hr.Get("/session/{id}", h.Messages)
		hr.Delete("/session/{id}", h.DeleteSession)
	})
}

//Personal.AI order the ending
