package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arnavshah/timetable-api-go/pkg/models"
)

// Metrics owns a private registry with HTTP and schedule generation collectors.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	generations        *prometheus.CounterVec
	generationDuration prometheus.Histogram
	blocks             prometheus.Histogram
	warnings           *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
}

// New registers the collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	generations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_generations_total",
		Help: "Schedules returned, by source",
	}, []string{"source"})

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_generation_duration_seconds",
		Help:    "Time spent in the generation engine",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
	})

	blocks := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_blocks",
		Help:    "Blocks per generated week",
		Buckets: prometheus.LinearBuckets(0, 20, 10),
	})

	warnings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_warnings_total",
		Help: "Warnings emitted by the generation engine, by code",
	}, []string{"code"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_cache_lookups_total",
		Help: "Schedule cache lookups, by result",
	}, []string{"result"})

	registry.MustRegister(
		requestDuration, requestTotal,
		generations, generationDuration, blocks, warnings, cacheLookups,
		collectors.NewGoCollector(),
	)

	return &Metrics{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		generations:        generations,
		generationDuration: generationDuration,
		blocks:             blocks,
		warnings:           warnings,
		cacheLookups:       cacheLookups,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry is exposed for tests and for callers adding their own collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records one finished request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveGeneration records an engine run and the warnings it produced.
func (m *Metrics) ObserveGeneration(blocks int, warnings []models.Warning, duration time.Duration) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues("engine").Inc()
	m.generationDuration.Observe(duration.Seconds())
	m.blocks.Observe(float64(blocks))
	for _, w := range warnings {
		m.warnings.WithLabelValues(string(w.Code)).Inc()
	}
}

// RecordCacheLookup counts a hit or miss; hits also count as served generations.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		m.generations.WithLabelValues("cache").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// Middleware observes every request under its route template so path
// parameters do not explode label cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
