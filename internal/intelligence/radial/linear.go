package radial

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/turtacn/molrad/pkg/types/tensor"
)

// Linear is an affine map from In inputs to Out outputs with weight (Out, In)
// and bias (Out).  Weights and bias start uniform in ±1/sqrt(In).
type Linear struct {
	In, Out int
	Weight  *Parameter
	Bias    *Parameter
}

// NewLinear allocates a Linear whose parameters are named prefix.weight and
// prefix.bias.
func NewLinear(prefix string, in, out int, rng *rand.Rand, prec Precision) *Linear {
	bound := 1 / math.Sqrt(float64(in))
	w := make([]float64, out*in)
	for i := range w {
		w[i] = prec.round((2*rng.Float64() - 1) * bound)
	}
	b := make([]float64, out)
	for i := range b {
		b[i] = prec.round((2*rng.Float64() - 1) * bound)
	}
	return &Linear{
		In:     in,
		Out:    out,
		Weight: newParameter(prefix+".weight", tensor.Shape{out, in}, w),
		Bias:   newParameter(prefix+".bias", tensor.Shape{out}, b),
	}
}

// applyPaired mixes n rows of (In, 2) pairs, laid out flat as raw[n][In][2],
// into n rows of (Out/2, 2).  Component k of output channel c reads only
// component k of the inputs, through weight row 2c+k:
//
//	out[i][c][k] = Σ_r W[2c+k][r]·raw[i][r][k] + b[2c+k]
func (l *Linear) applyPaired(raw []float64, n int) ([]float64, error) {
	if len(raw) != n*l.In*2 {
		return nil, fmt.Errorf("linear: input length %d, want %d", len(raw), n*l.In*2)
	}
	out := make([]float64, n*l.Out)
	if n == 0 {
		return out, nil
	}

	w := mat.NewDense(l.Out, l.In, l.Weight.Value)
	bias := l.Bias.Value
	x := mat.NewDense(l.In, n, nil)
	var y mat.Dense
	for k := 0; k < 2; k++ {
		for i := 0; i < n; i++ {
			row := raw[i*l.In*2 : (i+1)*l.In*2]
			for r := 0; r < l.In; r++ {
				x.Set(r, i, row[2*r+k])
			}
		}
		y.Mul(w, x)
		for i := 0; i < n; i++ {
			for o := k; o < l.Out; o += 2 {
				out[i*l.Out+o] = y.At(o, i) + bias[o]
			}
		}
		y.Reset()
	}
	return out, nil
}

// Parameters returns weight and bias.
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.Weight, l.Bias}
}

//Personal.AI order the ending
