package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"modkeeper/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), MetricsMiddleware())
	r.GET("/ok", func(c *gin.Context) { c.String(200, c.GetString("request_id")) })
	r.GET("/fail", func(c *gin.Context) { c.Status(500) })
	return r
}

func TestRequestIDGenerated(t *testing.T) {
	r := newEngine()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ok", nil))

	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, w.Body.String())
}

func TestRequestIDPropagated(t *testing.T) {
	r := newEngine()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestMetricsMiddlewareCounts(t *testing.T) {
	r := newEngine()
	requests := services.GetTotalRequestCount()
	errs := services.GetTotalErrorCount()

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/ok", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/fail", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, requests+3, services.GetTotalRequestCount())
	assert.Equal(t, errs+2, services.GetTotalErrorCount())
}
