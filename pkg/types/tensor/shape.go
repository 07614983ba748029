// Package tensor defines the row-major dense containers exchanged between the
// radial filter core and its callers: Dense for real-valued tensors
// (distance batches, radial functions) and Mask for boolean validity masks.
//
// Both types are plain values over Go slices.  They carry no device or
// autograd state; the radial core reads them and returns freshly allocated
// results.
package tensor

import (
	"fmt"
	"math"
	"strings"

	"github.com/turtacn/molrad/pkg/errors"
)

// Shape lists the extent of every axis, outermost first.  A nil or empty
// Shape denotes a scalar with exactly one element.
type Shape []int

// Size returns the number of elements a tensor of this shape holds.
func (s Shape) Size() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Rank returns the number of axes.
func (s Shape) Rank() int { return len(s) }

// Clone returns an independent copy of s.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// Equal reports whether s and o describe the same extents.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Append returns a new Shape with dims appended after s, leaving s untouched.
func (s Shape) Append(dims ...int) Shape {
	out := make(Shape, 0, len(s)+len(dims))
	out = append(out, s...)
	return append(out, dims...)
}

// Validate rejects negative extents and shapes whose element count does not
// fit in an int.  Size is only meaningful for a shape that validates.
func (s Shape) Validate() error {
	empty := false
	for i, d := range s {
		if d < 0 {
			return errors.NewShapeMismatchError("negative extent").
				WithDetail(fmt.Sprintf("axis %d of %s", i, s))
		}
		if d == 0 {
			empty = true
		}
	}
	if empty {
		return nil
	}
	n := 1
	for i, d := range s {
		if n > math.MaxInt/d {
			return errors.NewShapeMismatchError("shape size overflows int").
				WithDetail(fmt.Sprintf("axis %d of %s", i, s))
		}
		n *= d
	}
	return nil
}

// Strides returns row-major element strides for s.
func (s Shape) Strides() []int {
	strides := make([]int, len(s))
	step := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = step
		step *= s[i]
	}
	return strides
}

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = fmt.Sprint(d)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Ints returns s as a plain []int, for logging and JSON.
func (s Shape) Ints() []int { return []int(s.Clone()) }

//Personal.AI order the ending
