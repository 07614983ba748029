package prometheus

import (
	"strconv"
	"time"
)

// RadialMetrics holds the metric families exported by the radial filter
// service.  It satisfies the radial package's Metrics sink.
type RadialMetrics struct {
	// Radial core
	ForwardTotal    CounterVec
	ForwardDuration HistogramVec
	PairsTotal      CounterVec
	MaskedPairs     CounterVec
	ForwardErrors   CounterVec
	Parameters      GaugeVec

	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
}

// Default Buckets
var (
	DefaultForwardDurationBuckets = []float64{.00001, .0001, .0005, .001, .005, .01, .05, .1, .5, 1}
	DefaultHTTPDurationBuckets    = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
)

// NewRadialMetrics registers every family on collector.
func NewRadialMetrics(collector MetricsCollector) *RadialMetrics {
	return &RadialMetrics{
		ForwardTotal:    collector.RegisterCounter("forward_total", "Radial forward evaluations", "level"),
		ForwardDuration: collector.RegisterHistogram("forward_duration_seconds", "Radial forward duration", DefaultForwardDurationBuckets, "level"),
		PairsTotal:      collector.RegisterCounter("pairs_total", "Distance pairs evaluated", "level"),
		MaskedPairs:     collector.RegisterCounter("masked_pairs_total", "Distance pairs excluded by the effective mask", "level"),
		ForwardErrors:   collector.RegisterCounter("forward_errors_total", "Failed radial forward evaluations", "level", "code"),
		Parameters:      collector.RegisterGauge("parameters", "Learnable scalars per CG level", "level"),

		HTTPRequestsTotal:   collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code"),
		HTTPRequestDuration: collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path"),
	}
}

func levelLabel(level int) string {
	if level < 0 {
		return "bank"
	}
	return strconv.Itoa(level)
}

// RecordForward counts one successful evaluation of a level.
func (m *RadialMetrics) RecordForward(level int, pairs, masked int, duration time.Duration) {
	l := levelLabel(level)
	m.ForwardTotal.WithLabelValues(l).Inc()
	m.ForwardDuration.WithLabelValues(l).Observe(duration.Seconds())
	m.PairsTotal.WithLabelValues(l).Add(float64(pairs))
	m.MaskedPairs.WithLabelValues(l).Add(float64(masked))
}

// RecordForwardError counts a failed evaluation.  A negative level marks a
// failure before any level ran.
func (m *RadialMetrics) RecordForwardError(level int, code string) {
	m.ForwardErrors.WithLabelValues(levelLabel(level), code).Inc()
}

// RecordParameters publishes a level's learnable scalar count.
func (m *RadialMetrics) RecordParameters(level int, count int) {
	m.Parameters.WithLabelValues(levelLabel(level)).Set(float64(count))
}

// RecordHTTPRequest counts one served request.
func (m *RadialMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

//Personal.AI order the ending
