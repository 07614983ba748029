package radial

import (
	"math/rand"
	"strings"
	"time"

	"github.com/turtacn/molrad/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molrad/pkg/errors"
)

// ---------------------------------------------------------------------------
// Precision and device
// ---------------------------------------------------------------------------

// Precision selects the floating-point width parameters and outputs are
// rounded to.  Arithmetic always runs in float64.
type Precision string

const (
	PrecisionFloat32 Precision = "float"
	PrecisionFloat64 Precision = "double"
)

// ParsePrecision accepts "float"/"float32" and "double"/"float64".
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(s) {
	case "float", "float32", "":
		return PrecisionFloat32, nil
	case "double", "float64":
		return PrecisionFloat64, nil
	default:
		return "", errors.New(errors.CodeUnsupportedBackend, "unsupported precision").WithDetail(s)
	}
}

func (p Precision) round(x float64) float64 {
	if p == PrecisionFloat32 {
		return float64(float32(x))
	}
	return x
}

func (p Precision) roundAll(xs []float64) {
	if p != PrecisionFloat32 {
		return
	}
	for i, x := range xs {
		xs[i] = float64(float32(x))
	}
}

// Device names the compute unit evaluators are placed on.
type Device string

const DeviceCPU Device = "cpu"

// ParseDevice accepts "cpu"; every other device is rejected.
func ParseDevice(s string) (Device, error) {
	switch strings.ToLower(s) {
	case "cpu", "":
		return DeviceCPU, nil
	default:
		return "", errors.New(errors.CodeUnsupportedBackend, "unsupported device").WithDetail(s)
	}
}

// ---------------------------------------------------------------------------
// Metrics
// ---------------------------------------------------------------------------

// Metrics receives per-level telemetry from forward evaluations.
type Metrics interface {
	RecordForward(level int, pairs, masked int, duration time.Duration)
	RecordForwardError(level int, code string)
	RecordParameters(level int, count int)
}

type noopMetrics struct{}

func (noopMetrics) RecordForward(int, int, int, time.Duration) {}
func (noopMetrics) RecordForwardError(int, string)             {}
func (noopMetrics) RecordParameters(int, int)                  {}

// NewNoopMetrics returns a Metrics that discards everything.
func NewNoopMetrics() Metrics { return noopMetrics{} }

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	logger    logging.Logger
	metrics   Metrics
	precision Precision
	device    Device
	rng       *rand.Rand
	level     int
	mix       bool
}

// Option customises evaluator and bank construction.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger:    logging.NewNopLogger(),
		metrics:   noopMetrics{},
		precision: PrecisionFloat64,
		device:    DeviceCPU,
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(1))
	}
	return o
}

// WithLogger injects a structured logger.  nil keeps the no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics injects a metrics sink.  nil keeps the no-op sink.
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithPrecision selects float32 or float64 rounding.
func WithPrecision(p Precision) Option {
	return func(o *options) { o.precision = p }
}

// WithDevice selects the compute device.
func WithDevice(d Device) Option {
	return func(o *options) { o.device = d }
}

// WithSeed seeds the generator used to initialise mixing weights.
func WithSeed(seed int64) Option {
	return func(o *options) { o.rng = rand.New(rand.NewSource(seed)) }
}

// WithRand supplies the generator used to initialise mixing weights.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rng = r
		}
	}
}

// WithLevel sets the CG level index an evaluator reports in logs, metrics
// and parameter names.  FilterBank sets it for every level it builds.
func WithLevel(level int) Option {
	return func(o *options) { o.level = level }
}

// WithMixing sets the mixing flag NewFilterBankFromLists gives every level.
// Evaluators and FilterBankConfig carry their own flag and ignore it.
func WithMixing(mix bool) Option {
	return func(o *options) { o.mix = mix }
}

func (o *options) validate() error {
	switch o.precision {
	case PrecisionFloat32, PrecisionFloat64:
	default:
		return errors.New(errors.CodeUnsupportedBackend, "unsupported precision").WithDetail(string(o.precision))
	}
	if o.device != DeviceCPU {
		return errors.New(errors.CodeUnsupportedBackend, "unsupported device").WithDetail(string(o.device))
	}
	return nil
}

//Personal.AI order the ending
