package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/turtacn/H2Siting/internal/testutil"
)

func statusHandler(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	})
}

func TestRequestLogging_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
		msg    string
	}{
		{http.StatusOK, "info", "HTTP request completed"},
		{http.StatusBadRequest, "warn", "HTTP request completed with client error"},
		{http.StatusBadGateway, "error", "HTTP request completed with server error"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			logger := testutil.NewMockLogger()
			h := RequestLogging(logger, DefaultLoggingConfig())(statusHandler(tt.status))

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/map/analyze", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.True(t, logger.HasMessage(tt.level, tt.msg))
		})
	}
}

func TestRequestLogging_SkipsProbes(t *testing.T) {
	logger := testutil.NewMockLogger()
	h := RequestLogging(logger, DefaultLoggingConfig())(statusHandler(http.StatusOK))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Empty(t, logger.GetMessages())
}

func TestRequestLogging_Slow(t *testing.T) {
	logger := testutil.NewMockLogger()
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
	})
	h := RequestLogging(logger, LoggingConfig{SlowThreshold: time.Millisecond})(slow)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/LLM/chat", nil))

	assert.True(t, logger.HasMessage("warn", "HTTP request completed (slow)"))
}

type mockHTTPRecorder struct {
	mock.Mock
}

func (m *mockHTTPRecorder) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.Called(method, path, statusCode, duration)
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	rec := new(mockHTTPRecorder)
	rec.On("RecordHTTPRequest", http.MethodGet, "/history/api/session/{id}", http.StatusNoContent, mock.AnythingOfType("time.Duration")).Once()

	r := chi.NewRouter()
	r.Use(Metrics(rec))
	r.Get("/history/api/session/{id}", statusHandler(http.StatusNoContent).ServeHTTP)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/history/api/session/42", nil))

	rec.AssertExpectations(t)
}

func TestMetrics_Unmatched(t *testing.T) {
	rec := new(mockHTTPRecorder)
	rec.On("RecordHTTPRequest", http.MethodGet, "unmatched", http.StatusOK, mock.AnythingOfType("time.Duration")).Once()

	Metrics(rec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	rec.AssertExpectations(t)
}

//Personal.AI order the ending
