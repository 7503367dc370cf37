package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/turtacn/H2Siting/internal/infrastructure/auth/session"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
)

// SessionCookie is the cookie carrying the session token for browser clients.
const SessionCookie = "session"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const claimsContextKey contextKey = iota

// TokenVerifier validates session tokens.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*session.Claims, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	// SkipPaths are paths that bypass authentication entirely.
	SkipPaths []string
}

// AuthMiddleware resolves the session token of a request into claims.
type AuthMiddleware struct {
	verifier TokenVerifier
	config   AuthConfig
	logger   logging.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(verifier TokenVerifier, config AuthConfig, logger logging.Logger) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, config: config, logger: logger}
}

// Handler enforces authentication. Requests without a valid token receive
// 401 Unauthorized.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.shouldSkip(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token := ExtractToken(r)
		if token == "" {
			writeUnauthorized(w, "You must be logged in.")
			return
		}

		claims, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			m.logger.Warn("session token rejected",
				logging.String("path", r.URL.Path), logging.Err(err))
			msg := "invalid session"
			if errors.IsCode(err, errors.ErrCodeTokenExpired) {
				msg = "session expired"
			}
			writeUnauthorized(w, msg)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// Optional attaches claims when a valid token is present and lets anonymous
// requests through.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := ExtractToken(r); token != "" {
			if claims, err := m.verifier.Verify(r.Context(), token); err == nil {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) shouldSkip(path string) bool {
	for _, skip := range m.config.SkipPaths {
		if path == skip || strings.HasPrefix(path, skip+"/") {
			return true
		}
	}
	return false
}

// ExtractToken returns the bearer token of r, falling back to the session
// cookie.
func ExtractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *session.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ContextGetClaims retrieves the session claims from ctx, nil when anonymous.
func ContextGetClaims(ctx context.Context) *session.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*session.Claims)
	return claims
}

// ContextGetUserID returns the signed-in user id, 0 when anonymous.
func ContextGetUserID(ctx context.Context) int64 {
	if claims := ContextGetClaims(ctx); claims != nil {
		return claims.UserID
	}
	return 0
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("WWW-Authenticate", `Bearer realm="h2siting"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

//Personal.AI order the ending
