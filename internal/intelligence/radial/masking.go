package radial

import (
	"math"

	"github.com/turtacn/molrad/pkg/errors"
	"github.com/turtacn/molrad/pkg/types/tensor"
)

// EffectiveMask combines the caller's validity mask with distance > 0.  The
// mask is broadcast to the distance shape first; a nil mask marks every pair
// as externally valid.  Zero distances (self pairs), negative distances,
// NaN and +Inf are always excluded.
func EffectiveMask(distances *tensor.Dense, mask *tensor.Mask) (*tensor.Mask, error) {
	if distances == nil {
		return nil, errors.NewShapeMismatchError("distances are required")
	}
	shape := distances.Shape()
	var valid []bool
	if mask != nil {
		b, err := mask.BroadcastTo(shape)
		if err != nil {
			return nil, err
		}
		valid = b.Data()
	}

	d := distances.Data()
	out := make([]bool, len(d))
	for i, r := range d {
		out[i] = r > 0 && !math.IsInf(r, 1) && (valid == nil || valid[i])
	}
	return tensor.NewMask(shape, out)
}

// MaskedPowers returns r^-p for p = 0..rpow stacked on a new trailing axis.
// Positions where eff is false hold exactly 0 and the power is never
// evaluated there.
func MaskedPowers(distances *tensor.Dense, eff *tensor.Mask, rpow int) *tensor.Dense {
	width := rpow + 1
	out := tensor.Zeros(distances.Shape().Append(width))
	data := out.Data()
	valid := eff.Data()
	for i, r := range distances.Data() {
		if !valid[i] {
			continue
		}
		row := data[i*width : (i+1)*width]
		for p := range row {
			row[p] = math.Pow(r, -float64(p))
		}
	}
	return out
}

// MaskedTrig returns sin(2π·r·freq[t] + phase[t]) on a new trailing axis of
// width len(freq).  Positions where eff is false hold exactly 0.
func MaskedTrig(distances *tensor.Dense, eff *tensor.Mask, freq, phase []float64) *tensor.Dense {
	width := len(freq)
	out := tensor.Zeros(distances.Shape().Append(width))
	data := out.Data()
	valid := eff.Data()
	for i, r := range distances.Data() {
		if !valid[i] {
			continue
		}
		row := data[i*width : (i+1)*width]
		for t := range row {
			row[t] = math.Sin(2*math.Pi*r*freq[t] + phase[t])
		}
	}
	return out
}

// outerBasis multiplies the trig axis (outer) with the power axis (inner) per
// pair and lays the product out as (numRad, 2): flat index t*P + p, read in
// consecutive pairs.
func outerBasis(powers, trig *tensor.Dense, batch tensor.Shape) *tensor.Dense {
	pw := powers.Shape()
	tw := trig.Shape()
	p := pw[len(pw)-1]
	t := tw[len(tw)-1]
	width := p * t

	out := tensor.Zeros(batch.Append(width/2, 2))
	data := out.Data()
	n := batch.Size()
	for i := 0; i < n; i++ {
		prow := powers.Row(i)
		trow := trig.Row(i)
		orow := data[i*width : (i+1)*width]
		for ti, tv := range trow {
			for pi, pv := range prow {
				orow[ti*p+pi] = tv * pv
			}
		}
	}
	return out
}

//Personal.AI order the ending
