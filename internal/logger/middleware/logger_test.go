package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glocomx/auth-service/internal/middlewares"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		expectedLevel zapcore.Level
	}{
		{name: "success is info", status: http.StatusOK, expectedLevel: zapcore.InfoLevel},
		{name: "client error is warn", status: http.StatusConflict, expectedLevel: zapcore.WarnLevel},
		{name: "server error is error", status: http.StatusInsufficientStorage, expectedLevel: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			handler := middlewares.RequestIDMiddleware(LoggerMiddleware(zap.New(core))(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
				}),
			))

			req := httptest.NewRequest(http.MethodPost, "/api/user/register", nil)
			req.Header.Set("X-Request-ID", "req-1")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.expectedLevel, entry.Level)
			fields := entry.ContextMap()
			assert.Equal(t, "req-1", fields["request_id"])
			assert.Equal(t, "/api/user/register", fields["path"])
			assert.Equal(t, int64(tt.status), fields["status"])
		})
	}
}

func TestLoggerMiddleware_DefaultStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	handler := LoggerMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/user/me", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(http.StatusOK), logs.All()[0].ContextMap()["status"])
}
