package radial

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/turtacn/molrad/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molrad/pkg/errors"
	"github.com/turtacn/molrad/pkg/types/tensor"
)

// LevelConfig sizes one CG level.
type LevelConfig struct {
	MaxSH       int      `json:"max_sh"`
	BasisSet    BasisSet `json:"basis_set"`
	NumChannels int      `json:"num_channels"`
	Mix         bool     `json:"mix"`
}

// FilterBankConfig lists one LevelConfig per CG level.
type FilterBankConfig struct {
	NumLevels int           `json:"num_levels"`
	Levels    []LevelConfig `json:"levels"`
}

// Validate checks the level count only; per-level settings are checked when
// each evaluator is built.
func (c FilterBankConfig) Validate() error {
	if c.NumLevels < 1 {
		return errors.NewConfigurationError("num_cg_levels must be >= 1").
			WithDetail(fmt.Sprintf("got %d", c.NumLevels))
	}
	if len(c.Levels) != c.NumLevels {
		return errors.NewConfigurationError("per-level settings must have num_cg_levels entries").
			WithDetail(fmt.Sprintf("got %d, want %d", len(c.Levels), c.NumLevels))
	}
	return nil
}

// FilterBank owns one BasisEvaluator per CG level.
type FilterBank struct {
	id        string
	levels    []*BasisEvaluator
	logger    logging.Logger
	metrics   Metrics
	precision Precision
}

// NewFilterBank builds every level in order.  The first failing level aborts
// construction; its error keeps the original code and names the level.
func NewFilterBank(cfg FilterBankConfig, opts ...Option) (*FilterBank, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	b := &FilterBank{
		id:        id,
		levels:    make([]*BasisEvaluator, cfg.NumLevels),
		logger:    o.logger.Named("radial").With(logging.String("bank_id", id)),
		metrics:   o.metrics,
		precision: o.precision,
	}

	for i, lc := range cfg.Levels {
		levelOpts := append(append([]Option(nil), opts...),
			WithLevel(i), WithRand(o.rng), WithLogger(b.logger))
		e, err := NewBasisEvaluator(lc.MaxSH, lc.BasisSet, lc.NumChannels, lc.Mix, levelOpts...)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, fmt.Sprintf("level %d", i))
		}
		b.levels[i] = e
	}

	b.logger.Info("radial filter bank constructed",
		logging.Int("levels", len(b.levels)),
		logging.String("precision", string(b.precision)),
		logging.Int("parameters", b.ParameterCount()),
	)
	return b, nil
}

// NewFilterBankFromLists builds a bank from parallel per-level lists.  The
// basis set is shared by every level, and the mixing flag comes from
// WithMixing and applies to every level.
func NewFilterBankFromLists(maxSH []int, basis BasisSet, numChannels []int, numLevels int, opts ...Option) (*FilterBank, error) {
	if numLevels < 1 {
		return nil, errors.NewConfigurationError("num_cg_levels must be >= 1").
			WithDetail(fmt.Sprintf("got %d", numLevels))
	}
	if len(maxSH) != numLevels || len(numChannels) != numLevels {
		return nil, errors.NewConfigurationError("max_sh and num_channels must each have num_cg_levels entries").
			WithDetail(fmt.Sprintf("lengths %d/%d, want %d", len(maxSH), len(numChannels), numLevels))
	}
	mix := buildOptions(opts).mix

	cfg := FilterBankConfig{NumLevels: numLevels, Levels: make([]LevelConfig, numLevels)}
	for i := range cfg.Levels {
		cfg.Levels[i] = LevelConfig{MaxSH: maxSH[i], BasisSet: basis, NumChannels: numChannels[i], Mix: mix}
	}
	return NewFilterBank(cfg, opts...)
}

// ID returns the bank's unique identifier.
func (b *FilterBank) ID() string { return b.id }

// Precision returns the rounding mode every level was built with.
func (b *FilterBank) Precision() Precision { return b.precision }

// NumLevels returns the number of CG levels.
func (b *FilterBank) NumLevels() int { return len(b.levels) }

// Level returns the evaluator for CG level i.
func (b *FilterBank) Level(i int) (*BasisEvaluator, error) {
	if i < 0 || i >= len(b.levels) {
		return nil, errors.NotFound("no such level").WithDetail(fmt.Sprintf("level %d of %d", i, len(b.levels)))
	}
	return b.levels[i], nil
}

// Levels returns the evaluators in level order.
func (b *FilterBank) Levels() []*BasisEvaluator {
	out := make([]*BasisEvaluator, len(b.levels))
	copy(out, b.levels)
	return out
}

// RadialTypes returns, per level, the channel count of every angular order.
func (b *FilterBank) RadialTypes() [][]int {
	out := make([][]int, len(b.levels))
	for i, e := range b.levels {
		out[i] = e.RadialTypes()
	}
	return out
}

// NumRadialChannels returns the channel count of order 0 at level 0.
func (b *FilterBank) NumRadialChannels() int { return b.levels[0].Channels() }

// Parameters lists every level's parameters in level order.
func (b *FilterBank) Parameters() []*Parameter {
	var ps []*Parameter
	for _, e := range b.levels {
		ps = append(ps, e.Parameters()...)
	}
	return ps
}

// ParameterCount returns the number of learnable scalars across all levels.
func (b *FilterBank) ParameterCount() int {
	n := 0
	for _, e := range b.levels {
		n += e.ParameterCount()
	}
	return n
}

// ZeroGrad clears the gradients of every level.
func (b *FilterBank) ZeroGrad() {
	for _, e := range b.levels {
		e.ZeroGrad()
	}
}

// Forward evaluates every level on the same distances and mask.  The
// effective mask is computed once and shared.  Result i holds level i's
// per-order tensors.
func (b *FilterBank) Forward(distances *tensor.Dense, mask *tensor.Mask) ([][]*tensor.Dense, error) {
	eff, err := EffectiveMask(distances, mask)
	if err != nil {
		b.metrics.RecordForwardError(-1, errors.GetCode(err).String())
		return nil, err
	}
	return b.ForwardMasked(distances, eff)
}

// ForwardMasked is Forward for a caller that already holds the effective
// mask returned by EffectiveMask for these distances.  eff must have the
// distances' shape; it is not broadcast or re-derived.
func (b *FilterBank) ForwardMasked(distances *tensor.Dense, eff *tensor.Mask) ([][]*tensor.Dense, error) {
	if distances == nil || eff == nil || !eff.Shape().Equal(distances.Shape()) {
		err := errors.NewShapeMismatchError("effective mask must match distances shape")
		if distances != nil && eff != nil {
			err = err.WithDetail(fmt.Sprintf("mask %s, distances %s", eff.Shape(), distances.Shape()))
		}
		b.metrics.RecordForwardError(-1, errors.GetCode(err).String())
		return nil, err
	}
	out := make([][]*tensor.Dense, len(b.levels))
	for i, e := range b.levels {
		r, err := e.forward(distances, eff)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, fmt.Sprintf("level %d forward", i))
		}
		out[i] = r
	}
	return out, nil
}

// Describe renders a one-line-per-level summary.
func (b *FilterBank) Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "RadialFilterBank %s (%d levels, %s)\n", b.id, len(b.levels), b.precision)
	for i, e := range b.levels {
		fmt.Fprintf(&sb, "  level %d: max_sh=%d basis=%s mix=%t channels=%d params=%d\n",
			i, e.MaxSH(), e.BasisSet(), e.Mixed(), e.Channels(), e.ParameterCount())
	}
	return sb.String()
}

//Personal.AI order the ending
