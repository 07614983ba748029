package tensor

import (
	"fmt"

	"github.com/turtacn/molrad/pkg/errors"
)

// Mask is a row-major boolean tensor.
type Mask struct {
	shape Shape
	data  []bool
}

// NewMask wraps data in a Mask of the given shape.  The slice is used
// directly; len(data) must equal shape.Size().
func NewMask(shape Shape, data []bool) (*Mask, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(data) != shape.Size() {
		return nil, errors.NewShapeMismatchError("mask length does not match shape").
			WithDetail(fmt.Sprintf("len=%d shape=%s size=%d", len(data), shape, shape.Size()))
	}
	return &Mask{shape: shape.Clone(), data: data}, nil
}

// Full returns a Mask of the given shape with every entry set to v.
func Full(shape Shape, v bool) *Mask {
	data := make([]bool, shape.Size())
	if v {
		for i := range data {
			data[i] = true
		}
	}
	return &Mask{shape: shape.Clone(), data: data}
}

// Shape returns a copy of the mask's shape.
func (m *Mask) Shape() Shape { return m.shape.Clone() }

// Data exposes the backing slice.
func (m *Mask) Data() []bool { return m.data }

// Count returns the number of true entries.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.data {
		if v {
			n++
		}
	}
	return n
}

// BroadcastTo expands m to target following NumPy rules: shapes are aligned
// on their trailing axes, missing leading axes are added, and an axis of
// extent 1 stretches to any extent.  The target itself is never expanded; a
// mask that would need to grow the target fails with a shape mismatch.
// When the shapes already agree m is returned unchanged.
func (m *Mask) BroadcastTo(target Shape) (*Mask, error) {
	if m.shape.Equal(target) {
		return m, nil
	}
	if len(m.shape) > len(target) {
		return nil, broadcastError(m.shape, target)
	}

	// Left-pad the mask shape with ones to the target rank.
	pad := len(target) - len(m.shape)
	src := make(Shape, len(target))
	for i := range src {
		if i < pad {
			src[i] = 1
		} else {
			src[i] = m.shape[i-pad]
		}
	}
	for i := range target {
		if src[i] != target[i] && src[i] != 1 {
			return nil, broadcastError(m.shape, target)
		}
	}

	srcStrides := src.Strides()
	for i := range src {
		if src[i] == 1 {
			srcStrides[i] = 0
		}
	}

	out := make([]bool, target.Size())
	idx := make([]int, len(target))
	for flat := range out {
		off := 0
		for i, v := range idx {
			off += v * srcStrides[i]
		}
		out[flat] = m.data[off]
		// Advance the row-major multi-index.
		for ax := len(idx) - 1; ax >= 0; ax-- {
			idx[ax]++
			if idx[ax] < target[ax] {
				break
			}
			idx[ax] = 0
		}
	}
	return &Mask{shape: target.Clone(), data: out}, nil
}

func broadcastError(from, to Shape) error {
	return errors.NewShapeMismatchError("mask cannot be broadcast to distance shape").
		WithDetail(fmt.Sprintf("mask=%s distances=%s", from, to))
}

//Personal.AI order the ending
