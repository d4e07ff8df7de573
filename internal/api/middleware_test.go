package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/room-booking-backend/internal/logging"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func get(r http.Handler, path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDPropagates(t *testing.T) {
	r := newEngine(RequestID())

	w := get(r, "/ping", RequestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = get(r, "/ping")
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestRequestLoggerAttachesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	var fromCtx *slog.Logger
	r := newEngine(RequestID(), RequestLogger(logger))
	r.GET("/ctx", func(c *gin.Context) {
		fromCtx = logging.FromContext(c.Request.Context())
		c.Status(http.StatusTeapot)
	})

	get(r, "/ctx", RequestIDHeader, "req-1")

	require.NotNil(t, fromCtx)
	assert.NotSame(t, slog.Default(), fromCtx)
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestRecoveryWritesErrorBody(t *testing.T) {
	r := newEngine(Recovery())

	w := get(r, "/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":{"message":"Internal server error"}}`, w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	r := newEngine(rl.Limit())

	assert.Equal(t, http.StatusOK, get(r, "/ping").Code)
	assert.Equal(t, http.StatusOK, get(r, "/ping").Code)

	w := get(r, "/ping")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":{"message":"Too many requests"}}`, w.Body.String())
}

func TestRateLimiterIsPerClient(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	a := rl.getLimiter("10.0.0.1")
	assert.True(t, a.Allow())
	assert.False(t, a.Allow())

	b := rl.getLimiter("10.0.0.2")
	assert.True(t, b.Allow())
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	now := time.Date(2026, 1, 19, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.getLimiter("10.0.0.1")
	require.Len(t, rl.visitors, 1)

	now = now.Add(rl.idleTTL + time.Second)
	rl.getLimiter("10.0.0.2")

	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

func TestCorsConfig(t *testing.T) {
	dev, ok := corsConfig(false, "")
	require.True(t, ok)
	assert.True(t, dev.AllowAllOrigins)

	prod, ok := corsConfig(true, "https://a.example, https://b.example")
	require.True(t, ok)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, prod.AllowOrigins)

	_, ok = corsConfig(true, " ")
	assert.False(t, ok)
}
