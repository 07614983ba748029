package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/turtacn/molrad/pkg/errors"
)

// Dense is a row-major float64 tensor.
type Dense struct {
	shape Shape
	data  []float64
}

// New wraps data in a Dense of the given shape.  The slice is used directly,
// not copied; len(data) must equal shape.Size().
func New(shape Shape, data []float64) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(data) != shape.Size() {
		return nil, errors.NewShapeMismatchError("data length does not match shape").
			WithDetail(fmt.Sprintf("len=%d shape=%s size=%d", len(data), shape, shape.Size()))
	}
	return &Dense{shape: shape.Clone(), data: data}, nil
}

// FromSlice builds a rank-1 Dense holding a copy of values.
func FromSlice(values []float64) *Dense {
	data := make([]float64, len(values))
	copy(data, values)
	return &Dense{shape: Shape{len(values)}, data: data}
}

// Zeros allocates a zero-filled Dense.  It panics on a negative extent, like
// make does.
func Zeros(shape Shape) *Dense {
	return &Dense{shape: shape.Clone(), data: make([]float64, shape.Size())}
}

// Shape returns a copy of the tensor's shape.
func (d *Dense) Shape() Shape { return d.shape.Clone() }

// Size returns the element count.
func (d *Dense) Size() int { return len(d.data) }

// Data exposes the backing slice.  Writes through it mutate the tensor.
func (d *Dense) Data() []float64 { return d.data }

// offset converts a multi-index into a flat offset.
func (d *Dense) offset(idx []int) (int, error) {
	if len(idx) != len(d.shape) {
		return 0, errors.NewShapeMismatchError("index rank does not match tensor rank").
			WithDetail(fmt.Sprintf("index=%v shape=%s", idx, d.shape))
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= d.shape[i] {
			return 0, errors.NewShapeMismatchError("index out of range").
				WithDetail(fmt.Sprintf("index=%v shape=%s", idx, d.shape))
		}
		off = off*d.shape[i] + v
	}
	return off, nil
}

// At returns the element at idx.
func (d *Dense) At(idx ...int) (float64, error) {
	off, err := d.offset(idx)
	if err != nil {
		return 0, err
	}
	return d.data[off], nil
}

// Set writes v at idx.
func (d *Dense) Set(v float64, idx ...int) error {
	off, err := d.offset(idx)
	if err != nil {
		return err
	}
	d.data[off] = v
	return nil
}

// Reshape returns a view with a new shape sharing the same backing data.
func (d *Dense) Reshape(shape Shape) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.Size() != len(d.data) {
		return nil, errors.NewShapeMismatchError("reshape changes element count").
			WithDetail(fmt.Sprintf("from=%s to=%s", d.shape, shape))
	}
	return &Dense{shape: shape.Clone(), data: d.data}, nil
}

// Clone returns a deep copy.
func (d *Dense) Clone() *Dense {
	data := make([]float64, len(d.data))
	copy(data, d.data)
	return &Dense{shape: d.shape.Clone(), data: data}
}

// Row returns the contiguous slice of trailing-axis values at flat outer index
// i, treating the tensor as (Size/last, last).  The slice aliases the tensor.
func (d *Dense) Row(i int) []float64 {
	last := 1
	if len(d.shape) > 0 {
		last = d.shape[len(d.shape)-1]
	}
	return d.data[i*last : (i+1)*last]
}

// EqualApprox reports whether d and o have the same shape and all elements
// agree within tol.
func (d *Dense) EqualApprox(o *Dense, tol float64) bool {
	if d == nil || o == nil {
		return d == o
	}
	if !d.shape.Equal(o.shape) {
		return false
	}
	return floats.EqualApprox(d.data, o.data, tol)
}

func (d *Dense) String() string {
	return fmt.Sprintf("Dense%s%v", d.shape, d.data)
}

//Personal.AI order the ending
