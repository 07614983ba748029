// Package radial generates the learnable radial functions that modulate the
// spherical-harmonic convolution filters of an equivariant molecular network.
//
// A BasisEvaluator owns one CG level's trigonometric/power basis
//
//	φ_{t,p}(r) = r^-p · sin(2π·n_t·r + φ_t),  p = 0..rpow,  t = 0..2(trig_basis+1)-1
//
// with learnable frequencies n_t and phases φ_t, evaluates it over a batch of
// distances under a validity mask, and optionally mixes the result into a
// fixed channel count per angular order.  A FilterBank holds one evaluator per
// CG level and fans a shared distance batch out to all of them.
//
// Every output is shaped batch + (channels, 2).  The trailing pair is the
// real/imaginary-like component consumed by the spherical-harmonic product.
package radial

import (
	"fmt"
	"math"
	"time"

	"github.com/turtacn/molrad/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molrad/pkg/errors"
	"github.com/turtacn/molrad/pkg/types/tensor"
)

// BasisSet is the (trig_basis, rpow) pair sizing the raw basis.
type BasisSet struct {
	TrigBasis int `json:"trig_basis" yaml:"trig_basis"`
	RPow      int `json:"rpow" yaml:"rpow"`
}

// Validate requires at least one trig harmonic and one non-trivial power.
func (b BasisSet) Validate() error {
	if b.TrigBasis <= 0 {
		return errors.NewConfigurationError("basis_set.trig_basis must be > 0").
			WithDetail(fmt.Sprintf("got %d", b.TrigBasis))
	}
	if b.RPow <= 0 {
		return errors.NewConfigurationError("basis_set.rpow must be > 0").
			WithDetail(fmt.Sprintf("got %d", b.RPow))
	}
	return nil
}

// NumRad returns (trig_basis+1)*(rpow+1), the number of (·, 2) basis pairs
// and the input width of a mixing map.
func (b BasisSet) NumRad() int { return (b.TrigBasis + 1) * (b.RPow + 1) }

// Width returns the raw basis cardinality 2*NumRad.
func (b BasisSet) Width() int { return 2 * b.NumRad() }

func (b BasisSet) String() string { return fmt.Sprintf("(%d, %d)", b.TrigBasis, b.RPow) }

// ---------------------------------------------------------------------------
// Mixing variants
// ---------------------------------------------------------------------------

// mixing is either mixed (one Linear per angular order) or unmixed.  It is
// chosen once at construction.
type mixing interface {
	channels(numRad int) int
	apply(raw *tensor.Dense, batch tensor.Shape, orders int) ([]*tensor.Dense, error)
	parameters() []*Parameter
}

type unmixed struct{}

func (unmixed) channels(numRad int) int { return numRad }

// apply hands every order its own copy of the raw basis.
func (unmixed) apply(raw *tensor.Dense, _ tensor.Shape, orders int) ([]*tensor.Dense, error) {
	out := make([]*tensor.Dense, orders)
	for l := range out {
		out[l] = raw.Clone()
	}
	return out, nil
}

func (unmixed) parameters() []*Parameter { return nil }

type mixed struct {
	numChannels int
	linears     []*Linear
}

func (m *mixed) channels(int) int { return m.numChannels }

func (m *mixed) apply(raw *tensor.Dense, batch tensor.Shape, orders int) ([]*tensor.Dense, error) {
	n := batch.Size()
	out := make([]*tensor.Dense, orders)
	for l, lin := range m.linears {
		data, err := lin.applyPaired(raw.Data(), n)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, fmt.Sprintf("mixing order %d", l))
		}
		d, err := tensor.New(batch.Append(m.numChannels, 2), data)
		if err != nil {
			return nil, err
		}
		out[l] = d
	}
	return out, nil
}

func (m *mixed) parameters() []*Parameter {
	ps := make([]*Parameter, 0, 2*len(m.linears))
	for _, lin := range m.linears {
		ps = append(ps, lin.Parameters()...)
	}
	return ps
}

// ---------------------------------------------------------------------------
// BasisEvaluator
// ---------------------------------------------------------------------------

// BasisEvaluator holds one CG level's learnable radial basis.
type BasisEvaluator struct {
	maxSH int
	basis BasisSet
	level int

	frequencies *Parameter
	phases      *Parameter
	mix         mixing

	precision Precision
	logger    logging.Logger
	metrics   Metrics
}

// NewBasisEvaluator builds an evaluator for angular orders 0..maxSH.  With
// mix set, one Linear per order maps the NumRad basis pairs to numChannels
// output pairs; otherwise numChannels is ignored and every order reports the
// raw basis.  Invalid settings fail with a configuration error and a nil
// evaluator.
func NewBasisEvaluator(maxSH int, basis BasisSet, numChannels int, mix bool, opts ...Option) (*BasisEvaluator, error) {
	o := buildOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}
	if err := basis.Validate(); err != nil {
		return nil, err
	}
	if maxSH < 0 {
		return nil, errors.NewConfigurationError("max_sh must be >= 0").WithDetail(fmt.Sprintf("got %d", maxSH))
	}
	if mix && numChannels <= 0 {
		return nil, errors.NewConfigurationError("num_channels must be > 0 when mixing").
			WithDetail(fmt.Sprintf("got %d", numChannels))
	}

	prefix := fmt.Sprintf("level%d", o.level)
	nt := basis.TrigBasis + 1
	freq := make([]float64, 2*nt)
	phase := make([]float64, 2*nt)
	for t := 0; t < nt; t++ {
		freq[t] = float64(t)
		freq[nt+t] = float64(t)
		phase[nt+t] = o.precision.round(math.Pi / 2)
	}

	e := &BasisEvaluator{
		maxSH:       maxSH,
		basis:       basis,
		level:       o.level,
		frequencies: newParameter(prefix+".frequencies", tensor.Shape{2 * nt}, freq),
		phases:      newParameter(prefix+".phases", tensor.Shape{2 * nt}, phase),
		mix:         unmixed{},
		precision:   o.precision,
		logger:      o.logger,
		metrics:     o.metrics,
	}

	if mix {
		m := &mixed{numChannels: numChannels, linears: make([]*Linear, maxSH+1)}
		for l := range m.linears {
			m.linears[l] = NewLinear(fmt.Sprintf("%s.mix.l%d", prefix, l), basis.NumRad(), 2*numChannels, o.rng, o.precision)
		}
		e.mix = m
	}

	o.metrics.RecordParameters(e.level, e.ParameterCount())
	return e, nil
}

// MaxSH returns the highest angular order produced.
func (e *BasisEvaluator) MaxSH() int { return e.maxSH }

// BasisSet returns the (trig_basis, rpow) pair.
func (e *BasisEvaluator) BasisSet() BasisSet { return e.basis }

// Level returns the CG level index the evaluator reports under.
func (e *BasisEvaluator) Level() int { return e.level }

// Mixed reports whether per-order mixing maps are allocated.
func (e *BasisEvaluator) Mixed() bool {
	_, ok := e.mix.(*mixed)
	return ok
}

// Channels returns the per-order output width.
func (e *BasisEvaluator) Channels() int { return e.mix.channels(e.basis.NumRad()) }

// RadialTypes returns the output width of every order 0..MaxSH.
func (e *BasisEvaluator) RadialTypes() []int {
	types := make([]int, e.maxSH+1)
	for l := range types {
		types[l] = e.Channels()
	}
	return types
}

// Frequencies returns the learnable frequency parameter.
func (e *BasisEvaluator) Frequencies() *Parameter { return e.frequencies }

// Phases returns the learnable phase parameter.
func (e *BasisEvaluator) Phases() *Parameter { return e.phases }

// Linears returns the per-order mixing maps, or nil when unmixed.
func (e *BasisEvaluator) Linears() []*Linear {
	if m, ok := e.mix.(*mixed); ok {
		return m.linears
	}
	return nil
}

// Parameters lists every learnable parameter: frequencies, phases, then the
// weight and bias of each order's mixing map.
func (e *BasisEvaluator) Parameters() []*Parameter {
	ps := []*Parameter{e.frequencies, e.phases}
	return append(ps, e.mix.parameters()...)
}

// ParameterCount returns the number of learnable scalars.
func (e *BasisEvaluator) ParameterCount() int {
	n := 0
	for _, p := range e.Parameters() {
		n += p.Len()
	}
	return n
}

// ZeroGrad clears every parameter gradient.
func (e *BasisEvaluator) ZeroGrad() {
	for _, p := range e.Parameters() {
		p.ZeroGrad()
	}
}

// Basis evaluates the raw basis, shaped batch + (NumRad, 2), without mixing.
func (e *BasisEvaluator) Basis(distances *tensor.Dense, mask *tensor.Mask) (*tensor.Dense, error) {
	eff, err := EffectiveMask(distances, mask)
	if err != nil {
		return nil, err
	}
	raw := e.rawBasis(distances, eff)
	e.precision.roundAll(raw.Data())
	return raw, nil
}

func (e *BasisEvaluator) rawBasis(distances *tensor.Dense, eff *tensor.Mask) *tensor.Dense {
	powers := MaskedPowers(distances, eff, e.basis.RPow)
	trig := MaskedTrig(distances, eff, e.frequencies.Value, e.phases.Value)
	return outerBasis(powers, trig, distances.Shape())
}

// Forward evaluates the radial functions for every angular order.  The
// result has MaxSH+1 tensors, indexed by order, each shaped
// distances.Shape() + (Channels(), 2).  A mask that cannot be broadcast to
// the distance shape fails with a shape mismatch.
func (e *BasisEvaluator) Forward(distances *tensor.Dense, mask *tensor.Mask) ([]*tensor.Dense, error) {
	eff, err := EffectiveMask(distances, mask)
	if err != nil {
		e.metrics.RecordForwardError(e.level, errors.GetCode(err).String())
		return nil, err
	}
	return e.forward(distances, eff)
}

// forward runs with a precomputed effective mask.
func (e *BasisEvaluator) forward(distances *tensor.Dense, eff *tensor.Mask) ([]*tensor.Dense, error) {
	start := time.Now()
	batch := distances.Shape()

	raw := e.rawBasis(distances, eff)
	out, err := e.mix.apply(raw, batch, e.maxSH+1)
	if err != nil {
		e.metrics.RecordForwardError(e.level, errors.GetCode(err).String())
		return nil, err
	}
	for _, t := range out {
		e.precision.roundAll(t.Data())
	}

	pairs := batch.Size()
	masked := pairs - eff.Count()
	elapsed := time.Since(start)
	e.metrics.RecordForward(e.level, pairs, masked, elapsed)
	e.logger.Debug("radial forward",
		logging.Int("level", e.level),
		logging.Ints("shape", batch.Ints()),
		logging.Int("pairs", pairs),
		logging.Int("masked", masked),
		logging.Duration("elapsed", elapsed),
	)
	return out, nil
}

//Personal.AI order the ending
