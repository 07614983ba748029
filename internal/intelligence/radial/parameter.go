package radial

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/turtacn/molrad/pkg/errors"
	"github.com/turtacn/molrad/pkg/types/tensor"
)

// GradHook is invoked after every gradient accumulation with the increment
// that was added.
type GradHook func(p *Parameter, grad []float64)

// Parameter is a learnable array.  Value and Grad share Shape and are plain
// slices so any optimiser can read and update them between forward calls.
type Parameter struct {
	Name  string
	Shape tensor.Shape
	Value []float64
	Grad  []float64

	hooks []GradHook
}

func newParameter(name string, shape tensor.Shape, value []float64) *Parameter {
	return &Parameter{
		Name:  name,
		Shape: shape.Clone(),
		Value: value,
		Grad:  make([]float64, len(value)),
	}
}

// Len returns the number of scalar entries.
func (p *Parameter) Len() int { return len(p.Value) }

// Tensor returns a Dense view over Value.
func (p *Parameter) Tensor() *tensor.Dense {
	d, _ := tensor.New(p.Shape, p.Value)
	return d
}

// RegisterHook adds h to the hooks run by AccumulateGrad.
func (p *Parameter) RegisterHook(h GradHook) {
	if h != nil {
		p.hooks = append(p.hooks, h)
	}
}

// AccumulateGrad adds grad into Grad and then runs the registered hooks.
func (p *Parameter) AccumulateGrad(grad []float64) error {
	if len(grad) != len(p.Grad) {
		return errors.NewShapeMismatchError("gradient length does not match parameter").
			WithDetail(fmt.Sprintf("%s: got %d want %d", p.Name, len(grad), len(p.Grad)))
	}
	floats.Add(p.Grad, grad)
	for _, h := range p.hooks {
		h(p, grad)
	}
	return nil
}

// ZeroGrad clears the accumulated gradient.
func (p *Parameter) ZeroGrad() {
	for i := range p.Grad {
		p.Grad[i] = 0
	}
}

//Personal.AI order the ending
