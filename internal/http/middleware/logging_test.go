package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fourloop/sourceflow/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogging_LogsRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	handler := middleware.Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/requests", nil))

	requestID := w.Header().Get(middleware.RequestIDHeader)
	_, err := uuid.Parse(requestID)
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, requestID, fields["request_id"])
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/requests", fields["path"])
	assert.Equal(t, int64(http.StatusCreated), fields["status_code"])
	assert.Equal(t, int64(5), fields["response_size"])
}

func TestLogging_KeepsIncomingRequestID(t *testing.T) {
	handler := middleware.Logging(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/requests", nil)
	req.Header.Set(middleware.RequestIDHeader, id)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get(middleware.RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/requests", nil)
	req.Header.Set(middleware.RequestIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(middleware.RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	handler := middleware.Recovery(zap.New(core), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/requests", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Recovered from panic", logs.All()[0].Message)
	assert.Equal(t, "boom", logs.All()[0].ContextMap()["panic"])
	assert.Equal(t, int64(http.StatusInternalServerError), logs.All()[0].ContextMap()["status_code"])
}

func TestRecovery_RendersPageAndLogsAccess(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	errorPage := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<h1>Something went wrong</h1>"))
	}

	chain := middleware.Logging(log)(middleware.Recovery(log, errorPage)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	w := httptest.NewRecorder()
	chain.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/requests/1", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Something went wrong")

	require.Equal(t, 2, logs.Len())
	panicLine, accessLine := logs.All()[0], logs.All()[1]
	assert.Equal(t, "Recovered from panic", panicLine.Message)
	assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), panicLine.ContextMap()["request_id"])
	assert.Equal(t, int64(http.StatusInternalServerError), accessLine.ContextMap()["status_code"])
	assert.Equal(t, "/requests/1", accessLine.ContextMap()["path"])
}

func TestMetrics_PassesThrough(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.Metrics)
	r.Get("/requests/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/requests/12", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
