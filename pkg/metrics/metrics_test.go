package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/arnavshah/timetable-api-go/pkg/models"
)

func TestObserveGeneration(t *testing.T) {
	m := New()

	m.ObserveGeneration(12, []models.Warning{
		{Code: models.WarnPeriodOvercommit},
		{Code: models.WarnPeriodOvercommit},
		{Code: models.WarnStudyShortfall},
	}, time.Millisecond)
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.warnings.WithLabelValues(string(models.WarnPeriodOvercommit))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues("engine")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues("cache")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/admin/usage/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/usage/7", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues(http.MethodGet, "/admin/usage/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues(http.MethodGet, "unmatched", "404")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.Nil(t, m.Registry())
	m.ObserveGeneration(1, nil, 0)
	m.RecordCacheLookup(true)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
