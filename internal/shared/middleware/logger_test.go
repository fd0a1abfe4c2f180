package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = orig })
	return &buf
}

func TestLoggerTagsRequests(t *testing.T) {
	buf := captureLog(t)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), Logger())
	router.GET("/api/v1/import-products/logs", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/import-products/logs?limit=5", nil)
	req.Header.Set("X-Request-ID", "req-123")
	router.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-123"`)
	assert.Contains(t, out, `"method":"GET"`)
	assert.Contains(t, out, `"path":"/api/v1/import-products/logs?limit=5"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"level":"info"`)
}

func TestLoggerLevelFollowsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		status int
		level  string
	}{
		{"server error", http.StatusInternalServerError, "error"},
		{"client error", http.StatusTooManyRequests, "warn"},
		{"success", http.StatusNoContent, "info"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := captureLog(t)

			router := gin.New()
			router.Use(Logger())
			router.GET("/x", func(c *gin.Context) { c.Status(tc.status) })

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Contains(t, buf.String(), `"level":"`+tc.level+`"`)
		})
	}
}
