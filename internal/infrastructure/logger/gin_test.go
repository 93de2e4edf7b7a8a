package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveLogged(t *testing.T, level zapcore.Level, handler gin.HandlerFunc, method, target string, setup ...gin.HandlerFunc) (*httptest.ResponseRecorder, *observer.ObservedLogs) {
	t.Helper()

	core, recorded := observer.New(level)
	router := gin.New()
	for _, mw := range setup {
		router.Use(mw)
	}
	router.Use(GinMiddleware(zap.New(core)))
	router.Handle(method, "/route", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)
	return w, recorded
}

func requestEntry(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()

	entries := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	return entries[0]
}

func TestGinMiddleware_LogsRequest(t *testing.T) {
	w, recorded := serveLogged(t, zapcore.InfoLevel, func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"id": 1})
	}, http.MethodPost, "/route")

	assert.Equal(t, http.StatusCreated, w.Code)

	entry := requestEntry(t, recorded)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "latency")
	assert.Contains(t, fields, "client_ip")
	assert.Contains(t, fields, "body_size")
	assert.Contains(t, fields, "method")
	assert.Contains(t, fields, "path")
	assert.NotContains(t, fields, "query")
	assert.EqualValues(t, http.StatusCreated, fields["status"])
	assert.Equal(t, http.MethodPost, fields["method"])
	assert.Equal(t, "/route", fields["path"])
}

func TestGinMiddleware_StatusLevels(t *testing.T) {
	cases := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"2xx info", http.StatusOK, zapcore.InfoLevel},
		{"4xx warn", http.StatusBadRequest, zapcore.WarnLevel},
		{"5xx error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, recorded := serveLogged(t, zapcore.DebugLevel, func(c *gin.Context) {
				c.JSON(tc.status, gin.H{})
			}, http.MethodGet, "/route")

			assert.Equal(t, tc.level, requestEntry(t, recorded).Level)
		})
	}
}

func TestGinMiddleware_PropagatesRequestID(t *testing.T) {
	_, recorded := serveLogged(t, zapcore.InfoLevel, func(c *gin.Context) {
		c.Status(http.StatusOK)
	}, http.MethodGet, "/route", func(c *gin.Context) {
		c.Set("request_id", "req-123")
		c.Next()
	})

	fields := requestEntry(t, recorded).ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
}

func TestGinMiddleware_QueryLoggedWhenPresent(t *testing.T) {
	_, recorded := serveLogged(t, zapcore.InfoLevel, func(c *gin.Context) {
		c.Status(http.StatusOK)
	}, http.MethodGet, "/route?q=widgets&page=1")

	fields := requestEntry(t, recorded).ContextMap()
	require.Contains(t, fields, "query")
	assert.Contains(t, fields["query"], "q=widgets")
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, req)
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	entries := recorded.FilterMessage("Panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])
}

func TestGetGinLogger(t *testing.T) {
	var scoped *zap.Logger

	_, _ = serveLogged(t, zapcore.InfoLevel, func(c *gin.Context) {
		scoped = GetGinLogger(c)
		c.Status(http.StatusOK)
	}, http.MethodGet, "/route")

	assert.NotNil(t, scoped)
}

func TestGetGinLogger_FallsBackToNop(t *testing.T) {
	router := gin.New()

	var scoped *zap.Logger
	router.GET("/bare", func(c *gin.Context) {
		scoped = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bare", nil))

	require.NotNil(t, scoped)
	assert.NotPanics(t, func() {
		scoped.Info("noop")
	})
}
