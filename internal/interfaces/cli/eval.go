package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/molrad/internal/application/filters"
	"github.com/turtacn/molrad/pkg/errors"
)

type evalOptions struct {
	distances []float64
	shape     []int
	mask      []bool
	maskShape []int
}

// evalView renders an evaluation result.  Text and table output summarise
// each order; json carries the full values.
type evalView struct {
	*filters.EvaluateResult
}

func (v evalView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "bank %s: %d pairs, %d masked", v.BankID, v.Pairs, v.Masked)
	for _, l := range v.Levels {
		for _, o := range l.Orders {
			fmt.Fprintf(&sb, "\n  level %d order %d: shape=%v %s", l.Level, o.Order, o.Shape, summarize(o.Values))
		}
	}
	return sb.String()
}

func (v evalView) TableHeaders() []string {
	return []string{"LEVEL", "ORDER", "SHAPE", "MIN", "MAX"}
}

func (v evalView) TableRows() [][]string {
	var rows [][]string
	for _, l := range v.Levels {
		for _, o := range l.Orders {
			lo, hi := bounds(o.Values)
			rows = append(rows, []string{
				strconv.Itoa(l.Level),
				strconv.Itoa(o.Order),
				joinInts(o.Shape),
				strconv.FormatFloat(lo, 'g', 6, 64),
				strconv.FormatFloat(hi, 'g', 6, 64),
			})
		}
	}
	return rows
}

func bounds(xs []float64) (lo, hi float64) {
	for i, x := range xs {
		if i == 0 || x < lo {
			lo = x
		}
		if i == 0 || x > hi {
			hi = x
		}
	}
	return lo, hi
}

func summarize(xs []float64) string {
	if len(xs) == 0 {
		return "empty"
	}
	lo, hi := bounds(xs)
	return fmt.Sprintf("min=%.6g max=%.6g", lo, hi)
}

// NewEvalCmd creates the eval command.
func NewEvalCmd() *cobra.Command {
	opts := &evalOptions{}
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate the configured filter bank on a distance batch",
		Example: `  molrad eval --distances 0.5,1.0,0,2.0 --shape 2,2
  molrad eval --distances 1,2,3 --mask true,false,true -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.Float64SliceVar(&opts.distances, "distances", nil, "pairwise distances, row-major")
	f.IntSliceVar(&opts.shape, "shape", nil, "batch shape (default: [len(distances)])")
	f.BoolSliceVar(&opts.mask, "mask", nil, "pair mask, broadcast over the batch shape")
	f.IntSliceVar(&opts.maskShape, "mask-shape", nil, "mask shape")
	_ = cmd.MarkFlagRequired("distances")
	return cmd
}

func runEval(cmd *cobra.Command, opts *evalOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if len(opts.distances) == 0 {
		return errors.InvalidParam("--distances must not be empty")
	}

	req := filters.EvaluateRequest{
		Distances: opts.distances,
		Shape:     opts.shape,
		Mask:      opts.mask,
		MaskShape: opts.maskShape,
	}

	var res *filters.EvaluateResult
	if cliCtx.Client != nil {
		res, err = cliCtx.Client.Filters().Evaluate(cmd.Context(), req)
	} else {
		res, err = evalLocal(cmd.Context(), cliCtx, req)
	}
	if err != nil {
		return err
	}
	return PrintResult(cmd, evalView{res})
}

func evalLocal(ctx context.Context, cliCtx *CLIContext, req filters.EvaluateRequest) (*filters.EvaluateResult, error) {
	bank, err := filters.NewBankFromConfig(cliCtx.Config.Radial, cliCtx.Logger, nil)
	if err != nil {
		return nil, err
	}
	svc, err := filters.NewService(bank, cliCtx.Config.Server.MaxPairs, cliCtx.Logger)
	if err != nil {
		return nil, err
	}
	return svc.Evaluate(ctx, req)
}

//Personal.AI order the ending
