package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ApplyOutcome("created")
		m.DecisionOutcome("accepted", "ok")
		m.NotificationDelivered("redis", errors.New("down"))
		m.StoreError("unavailable")
	})
	assert.Nil(t, m.Registry())
}

func TestCounters(t *testing.T) {
	m := New()

	m.ApplyOutcome("created")
	m.ApplyOutcome("created")
	m.ApplyOutcome("duplicate")
	m.NotificationDelivered("nats", nil)
	m.NotificationDelivered("nats", errors.New("no responders"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.applications.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.applications.WithLabelValues("duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("nats", "error")))
}

func TestGinMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/projects/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/42", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/projects/:id", "GET", "204")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "labmatch_http_requests_total"))
}
