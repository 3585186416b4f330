package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/prometheus"
)

func observedLogger() (logging.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logging.NewLoggerFromCore(core), logs
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRequestLoggingLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, logs := observedLogger()

	r := gin.New()
	r.Use(RequestLogging(logger, LoggingConfig{}))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	serve(r, http.MethodGet, "/ok")
	serve(r, http.MethodGet, "/missing")
	serve(r, http.MethodGet, "/broken")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "request served", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)

	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/ok", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
}

func TestRequestLoggingSkipsConfiguredPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, logs := observedLogger()

	r := gin.New()
	r.Use(RequestLogging(logger, LoggingConfig{SkipPaths: []string{"/healthz"}}))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/healthz")
	assert.Zero(t, logs.Len())
}

func TestRequestLoggingSlowRequestWarns(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, logs := observedLogger()

	r := gin.New()
	r.Use(RequestLogging(logger, LoggingConfig{SlowThreshold: time.Nanosecond}))
	r.GET("/slow", func(c *gin.Context) {
		time.Sleep(time.Millisecond)
		c.Status(http.StatusOK)
	})

	serve(r, http.MethodGet, "/slow")
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "slow request", entries[0].Message)
}

func TestMetricsInstrumentsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "molparse_test"},
		logging.NewNopLogger())
	require.NoError(t, err)
	m := prometheus.NewAppMetrics(c)

	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/molecules/:id", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/molecules/abc")
	serve(r, http.MethodGet, "/molecules/def")
	serve(r, http.MethodGet, "/nowhere")

	scrapeRec := httptest.NewRecorder()
	c.Handler().ServeHTTP(scrapeRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(scrapeRec.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `route="/molecules/:id"`)
	assert.Contains(t, text, `route="unmatched"`)
	assert.Contains(t, text, "http_requests_total")
}

func TestMetricsNilIsPassthrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ok").Code)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(DefaultCORSConfig()))
	r.POST("/parse", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/parse", nil)
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORSRestrictedOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := CORSConfig{
		AllowOrigins: []string{"https://app.example.com"},
		AllowMethods: []string{"GET"},
	}
	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	allowed := httptest.NewRequest(http.MethodGet, "/ok", nil)
	allowed.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, allowed)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	denied := httptest.NewRequest(http.MethodGet, "/ok", nil)
	denied.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, denied)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
