// Package filters is the application service in front of the radial filter
// bank.  It turns flat request payloads into tensors, evaluates them against
// the current bank and lets the bank be replaced at runtime.
package filters

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/molrad/internal/config"
	"github.com/turtacn/molrad/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molrad/internal/intelligence/radial"
	"github.com/turtacn/molrad/pkg/errors"
	"github.com/turtacn/molrad/pkg/types/tensor"
)

// DefaultBatchConcurrency bounds EvaluateBatch when the caller passes 0.
const DefaultBatchConcurrency = 4

// EvaluateRequest is a flat, row-major distance batch with an optional mask.
// Shape defaults to [len(Distances)].  MaskShape defaults to Shape when the
// mask covers every pair and to [len(Mask)] otherwise, so a per-pair-axis
// mask broadcasts over the leading axes.
type EvaluateRequest struct {
	Distances []float64 `json:"distances"`
	Shape     []int     `json:"shape,omitempty"`
	Mask      []bool    `json:"mask,omitempty"`
	MaskShape []int     `json:"mask_shape,omitempty"`
}

// OrderOutput is one angular order's radial tensor.
type OrderOutput struct {
	Order  int       `json:"order"`
	Shape  []int     `json:"shape"`
	Values []float64 `json:"values"`
}

// LevelOutput holds one CG level's per-order tensors.
type LevelOutput struct {
	Level  int           `json:"level"`
	Orders []OrderOutput `json:"orders"`
}

// EvaluateResult is the bank's output for one request.
type EvaluateResult struct {
	BankID string        `json:"bank_id"`
	Pairs  int           `json:"pairs"`
	Masked int           `json:"masked"`
	Levels []LevelOutput `json:"levels"`
}

// LevelDescription summarises one level.
type LevelDescription struct {
	Level       int   `json:"level"`
	MaxSH       int   `json:"max_sh"`
	TrigBasis   int   `json:"trig_basis"`
	RPow        int   `json:"rpow"`
	Mix         bool  `json:"mix"`
	Channels    int   `json:"channels"`
	BasisWidth  int   `json:"basis_width"`
	RadialTypes []int `json:"radial_types"`
	Parameters  int   `json:"parameters"`
}

// Description summarises the whole bank.
type Description struct {
	BankID            string             `json:"bank_id"`
	NumLevels         int                `json:"num_levels"`
	Precision         string             `json:"precision"`
	NumRadialChannels int                `json:"num_radial_channels"`
	RadialTypes       [][]int            `json:"radial_types"`
	Parameters        int                `json:"parameters"`
	Levels            []LevelDescription `json:"levels"`
}

// Service evaluates requests against the current bank.  The bank pointer is
// swapped atomically, so a request sees either the old or the new bank.
type Service struct {
	bank     atomic.Pointer[radial.FilterBank]
	logger   logging.Logger
	maxPairs int
}

// NewService wraps bank.  maxPairs <= 0 disables the request size limit.
func NewService(bank *radial.FilterBank, maxPairs int, logger logging.Logger) (*Service, error) {
	if bank == nil {
		return nil, errors.NewConfigurationError("filter bank is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Service{logger: logger, maxPairs: maxPairs}
	s.bank.Store(bank)
	return s, nil
}

// NewBankFromConfig builds a bank from the radial config section.
func NewBankFromConfig(cfg config.RadialConfig, logger logging.Logger, metrics radial.Metrics) (*radial.FilterBank, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, radial.WithLogger(logger), radial.WithMetrics(metrics))
	return radial.NewFilterBank(cfg.FilterBankConfig(), opts...)
}

// Bank returns the current bank.
func (s *Service) Bank() *radial.FilterBank { return s.bank.Load() }

// Swap installs bank and returns the previous one.  nil is ignored.
func (s *Service) Swap(bank *radial.FilterBank) *radial.FilterBank {
	if bank == nil {
		return s.bank.Load()
	}
	old := s.bank.Swap(bank)
	s.logger.Info("radial filter bank swapped",
		logging.String("old_bank_id", old.ID()),
		logging.String("new_bank_id", bank.ID()),
	)
	return old
}

// Describe summarises the current bank.
func (s *Service) Describe() Description {
	return Describe(s.Bank())
}

// Describe summarises bank.
func Describe(bank *radial.FilterBank) Description {
	d := Description{
		BankID:            bank.ID(),
		NumLevels:         bank.NumLevels(),
		Precision:         string(bank.Precision()),
		NumRadialChannels: bank.NumRadialChannels(),
		RadialTypes:       bank.RadialTypes(),
		Parameters:        bank.ParameterCount(),
	}
	for _, e := range bank.Levels() {
		b := e.BasisSet()
		d.Levels = append(d.Levels, LevelDescription{
			Level:       e.Level(),
			MaxSH:       e.MaxSH(),
			TrigBasis:   b.TrigBasis,
			RPow:        b.RPow,
			Mix:         e.Mixed(),
			Channels:    e.Channels(),
			BasisWidth:  b.Width(),
			RadialTypes: e.RadialTypes(),
			Parameters:  e.ParameterCount(),
		})
	}
	return d
}

// Tensors converts the flat request into a distance tensor and an optional
// mask.
func (r EvaluateRequest) Tensors() (*tensor.Dense, *tensor.Mask, error) {
	shape := tensor.Shape(r.Shape)
	if len(shape) == 0 {
		shape = tensor.Shape{len(r.Distances)}
	}
	d, err := tensor.New(shape, r.Distances)
	if err != nil {
		return nil, nil, err
	}
	if r.Mask == nil {
		return d, nil, nil
	}

	maskShape := tensor.Shape(r.MaskShape)
	if len(maskShape) == 0 {
		if len(r.Mask) == shape.Size() {
			maskShape = shape
		} else {
			maskShape = tensor.Shape{len(r.Mask)}
		}
	}
	m, err := tensor.NewMask(maskShape, r.Mask)
	if err != nil {
		return nil, nil, err
	}
	return d, m, nil
}

// Evaluate runs one request through the current bank.
func (s *Service) Evaluate(ctx context.Context, req EvaluateRequest) (*EvaluateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.maxPairs > 0 && len(req.Distances) > s.maxPairs {
		return nil, errors.InvalidParam("too many distance pairs").
			WithDetail(fmt.Sprintf("got %d, limit %d", len(req.Distances), s.maxPairs))
	}
	d, m, err := req.Tensors()
	if err != nil {
		return nil, err
	}

	bank := s.Bank()
	eff, err := radial.EffectiveMask(d, m)
	if err != nil {
		return nil, err
	}
	out, err := bank.ForwardMasked(d, eff)
	if err != nil {
		return nil, err
	}

	res := &EvaluateResult{
		BankID: bank.ID(),
		Pairs:  d.Size(),
		Masked: d.Size() - eff.Count(),
		Levels: make([]LevelOutput, len(out)),
	}
	for i, lvl := range out {
		orders := make([]OrderOutput, len(lvl))
		for l, t := range lvl {
			orders[l] = OrderOutput{Order: l, Shape: t.Shape().Ints(), Values: t.Data()}
		}
		res.Levels[i] = LevelOutput{Level: i, Orders: orders}
	}
	return res, nil
}

// EvaluateBatch evaluates reqs with at most concurrency in flight and
// returns results in request order.  The first failure cancels the rest and
// is returned with its request index.
func (s *Service) EvaluateBatch(ctx context.Context, reqs []EvaluateRequest, concurrency int) ([]*EvaluateResult, error) {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}
	results := make([]*EvaluateResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range reqs {
		i := i
		g.Go(func() error {
			res, err := s.Evaluate(gctx, reqs[i])
			if err != nil {
				return errors.Wrap(err, errors.CodeUnknown, fmt.Sprintf("request %d", i))
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

//Personal.AI order the ending
