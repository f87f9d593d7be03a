package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/account-service/internal/api/middleware"
	"github.com/phrazzld/account-service/internal/api/shared"
	"github.com/phrazzld/account-service/internal/platform/logger"
)

func TestTrace(t *testing.T) {
	logs, log := logger.NewTestLogger(t)

	var seenTraceID string
	handler := chimw.RequestID(middleware.Trace(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTraceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "req-42", seenTraceID)
	assert.Equal(t, "req-42", rec.Header().Get("X-Trace-Id"))

	handlerEntry := logs.Find(t, "inside handler")
	completed := logs.Find(t, "request completed")
	assert.Equal(t, "req-42", handlerEntry["trace_id"])
	assert.Equal(t, float64(http.StatusTeapot), completed["status"])
}

func TestTrace_GeneratesIDWithoutRequestID(t *testing.T) {
	_, log := logger.NewTestLogger(t)

	var seenTraceID string
	handler := middleware.Trace(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTraceID = shared.GetTraceID(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, seenTraceID)
}
