package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	pathKey    = tag.MustNewKey("path")
	agentKey   = tag.MustNewKey("useragent")
	sceneKey   = tag.MustNewKey("scene")
	outcomeKey = tag.MustNewKey("outcome")
)

// Render outcomes recorded by the renders counter
const (
	outcomeRendered  = "rendered"
	outcomeCached    = "cached"
	outcomeCancelled = "cancelled"
	outcomeFailed    = "failed"
)

// MetricsWrapper counts handled requests and finished renders
type MetricsWrapper struct {
	requestCount     *stats.Int64Measure
	requestCountView *view.View
	renderCount      *stats.Int64Measure
	renderCountView  *view.View

	logger zerolog.Logger
	inner  http.Handler
}

// NewMetricsWrapper wraps inner with request counting
func NewMetricsWrapper(inner http.Handler, logger zerolog.Logger) *MetricsWrapper {
	m := &MetricsWrapper{logger: logger, inner: inner}

	m.requestCount = stats.Int64("requests", "", stats.UnitDimensionless)
	m.requestCountView = &view.View{
		Name:        "requests",
		Description: "Counter of requests that have been handled",

		TagKeys: []tag.Key{pathKey, agentKey},

		Measure:     m.requestCount,
		Aggregation: view.Count(),
	}

	m.renderCount = stats.Int64("renders", "", stats.UnitDimensionless)
	m.renderCountView = &view.View{
		Name:        "renders",
		Description: "Counter of renders by scene and outcome",

		TagKeys: []tag.Key{sceneKey, outcomeKey},

		Measure:     m.renderCount,
		Aggregation: view.Count(),
	}

	return m
}

// RegisterMetrics registers the views with opencensus
func (m *MetricsWrapper) RegisterMetrics() error {
	return view.Register(m.requestCountView, m.renderCountView)
}

func (m *MetricsWrapper) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.inner.ServeHTTP(w, r)

	m.logger.Debug().
		Str("path", r.URL.Path).
		Strs("useragent", r.Header["User-Agent"]).
		Str("remoteaddr", r.RemoteAddr).
		Msg("Served")

	stats.RecordWithOptions(
		r.Context(),
		stats.WithTags(
			tag.Insert(pathKey, r.URL.Path),
			tag.Insert(agentKey, strings.Join(r.Header["User-Agent"], "|")),
		),
		stats.WithMeasurements(m.requestCount.M(1)))
}

// RecordRender counts one finished render
func (m *MetricsWrapper) RecordRender(ctx context.Context, sceneName, outcome string) {
	stats.RecordWithOptions(
		ctx,
		stats.WithTags(
			tag.Insert(sceneKey, sceneName),
			tag.Insert(outcomeKey, outcome),
		),
		stats.WithMeasurements(m.renderCount.M(1)))
}
