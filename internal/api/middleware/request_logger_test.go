package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggerRouter() (*gin.Engine, *test.Hook) {
	gin.SetMode(gin.TestMode)
	l, hook := test.NewNullLogger()

	r := gin.New()
	r.Use(RequestLogger(l))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/tenders", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Set("company_id", "co-1")
		c.Status(http.StatusOK)
	})
	return r, hook
}

func TestRequestLoggerIdentityFields(t *testing.T) {
	r, hook := loggerRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/tenders", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "user-1", entry.Data["user_id"])
	assert.Equal(t, "co-1", entry.Data["company_id"])
	assert.Equal(t, "/api/tenders", entry.Data["path"])
	assert.NotEmpty(t, entry.Data["request_id"])
}

func TestRequestLoggerSkipsHealth(t *testing.T) {
	r, hook := loggerRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, hook.Entries)
}

func TestRequestLoggerPropagatesIncomingID(t *testing.T) {
	r, hook := loggerRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/tenders", nil)
	req.Header.Set("X-Request-Id", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-Id"))
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "req-42", hook.LastEntry().Data["request_id"])
}
