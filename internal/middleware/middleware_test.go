package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/finovate_app/internal/core/domain"
	"github.com/SscSPs/finovate_app/internal/middleware"
	"github.com/SscSPs/finovate_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "finovate-test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(logger *slog.Logger, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger))
	r.Use(extra...)
	r.GET("/whoami", func(c *gin.Context) {
		identity, ok := middleware.GetIdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		middleware.GetLoggerFromContext(c).Info("handled")
		c.JSON(http.StatusOK, gin.H{"userID": identity.UserID, "role": identity.Role})
	})
	return r
}

func TestStructuredLogging_InjectsRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	r := newRouter(logger)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.Contains(t, buf.String(), `"msg":"Request completed"`)
}

func TestStructuredLogging_GeneratesRequestID(t *testing.T) {
	r := newRouter(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestGetLoggerFromCtx_Absent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, middleware.GetLoggerFromCtx(req.Context()))

	logger := slog.Default()
	assert.Same(t, logger, middleware.GetLoggerFromCtx(middleware.WithLogger(req.Context(), logger)))
}

func TestAuthMiddleware(t *testing.T) {
	var buf bytes.Buffer
	r := newRouter(slog.New(slog.NewJSONHandler(&buf, nil)), middleware.AuthMiddleware(testSecret, testIssuer))

	valid, err := utils.GenerateIdentityToken(domain.Identity{UserID: "user-7", Role: domain.RoleAdmin}, testSecret, time.Hour, testIssuer)
	require.NoError(t, err)
	expired, err := utils.GenerateIdentityToken(domain.Identity{UserID: "user-7"}, testSecret, -time.Minute, testIssuer)
	require.NoError(t, err)
	foreign, err := utils.GenerateIdentityToken(domain.Identity{UserID: "user-7"}, "other-secret", time.Hour, testIssuer)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, `{"userID":"user-7","role":"admin"}`},
		{"missing header", "", http.StatusUnauthorized, `{"error":"Authorization header required"}`},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, `{"error":"Authorization header format must be Bearer {token}"}`},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, `{"error":"Token has expired"}`},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized, `{"error":"Invalid token"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
		})
	}
	assert.Contains(t, buf.String(), `"user_id":"user-7"`, "the handler logs through the enriched logger")
}

func TestRateLimit(t *testing.T) {
	limiter, err := middleware.NewRateLimiter("2-M")
	require.NoError(t, err)
	r := newRouter(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), middleware.RateLimit(limiter))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	_, err = middleware.NewRateLimiter("lots")
	assert.Error(t, err)
}

func TestCORS(t *testing.T) {
	r := newRouter(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), middleware.CORS([]string{"https://app.example.com"}))

	req := httptest.NewRequest(http.MethodOptions, "/whoami", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMetrics(t *testing.T) {
	metrics := middleware.NewMetrics()
	r := newRouter(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), metrics.Middleware())
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/whoami", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",route="/whoami",status="200"} 2`)
	assert.Contains(t, body, `http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.Contains(t, body, "http_request_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}
