package radial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molrad/pkg/errors"
	"github.com/turtacn/molrad/pkg/types/tensor"
)

func mustDense(t *testing.T, shape tensor.Shape, data []float64) *tensor.Dense {
	t.Helper()
	d, err := tensor.New(shape, data)
	require.NoError(t, err)
	return d
}

func mustMask(t *testing.T, shape tensor.Shape, data []bool) *tensor.Mask {
	t.Helper()
	m, err := tensor.NewMask(shape, data)
	require.NoError(t, err)
	return m
}

func TestEffectiveMask_NilMaskUsesDistanceOnly(t *testing.T) {
	d := mustDense(t, tensor.Shape{4}, []float64{0, 1.5, -1, 3})
	eff, err := EffectiveMask(d, nil)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, false, true}, eff.Data())
}

func TestEffectiveMask_ExcludesNonFinite(t *testing.T) {
	d := mustDense(t, tensor.Shape{4}, []float64{math.Inf(1), math.NaN(), math.Inf(-1), 2})
	eff, err := EffectiveMask(d, nil)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false, true}, eff.Data())

	trig := MaskedTrig(d, eff, []float64{0, 1, 0, 1}, []float64{0, 0, math.Pi / 2, math.Pi / 2})
	for i, v := range trig.Data() {
		assert.False(t, math.IsNaN(v), "trig[%d] is NaN", i)
	}
	powers := MaskedPowers(d, eff, 2)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0.5, 0.25}, powers.Data())
}

func TestEffectiveMask_BroadcastsExternalMask(t *testing.T) {
	d := mustDense(t, tensor.Shape{2, 3}, []float64{1, 2, 0, 4, 5, 6})
	m := mustMask(t, tensor.Shape{3}, []bool{true, false, true})

	eff, err := EffectiveMask(d, m)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, eff.Shape())
	assert.Equal(t, []bool{true, false, false, true, false, true}, eff.Data())
}

func TestEffectiveMask_ShapeMismatch(t *testing.T) {
	d := mustDense(t, tensor.Shape{2, 3}, make([]float64, 6))
	m := mustMask(t, tensor.Shape{2}, []bool{true, true})

	eff, err := EffectiveMask(d, m)
	assert.Nil(t, eff)
	assert.True(t, errors.IsShapeMismatchError(err))
}

func TestEffectiveMask_NilDistances(t *testing.T) {
	_, err := EffectiveMask(nil, nil)
	assert.True(t, errors.IsShapeMismatchError(err))
}

func TestMaskedPowers_ZeroWhereMasked(t *testing.T) {
	d := mustDense(t, tensor.Shape{3}, []float64{0, 2, 4})
	eff := mustMask(t, tensor.Shape{3}, []bool{false, true, false})

	p := MaskedPowers(d, eff, 2)
	assert.Equal(t, tensor.Shape{3, 3}, p.Shape())
	assert.Equal(t, []float64{0, 0, 0}, p.Row(0))
	assert.InDeltaSlice(t, []float64{1, 0.5, 0.25}, p.Row(1), 1e-15)
	assert.Equal(t, []float64{0, 0, 0}, p.Row(2))
	for _, v := range p.Data() {
		assert.False(t, math.IsInf(v, 0) || math.IsNaN(v))
	}
}

func TestMaskedTrig_ZeroWhereMasked(t *testing.T) {
	d := mustDense(t, tensor.Shape{2}, []float64{0.25, 0})
	eff, err := EffectiveMask(d, nil)
	require.NoError(t, err)

	freq := []float64{0, 1, 0, 1}
	phase := []float64{0, 0, math.Pi / 2, math.Pi / 2}
	tr := MaskedTrig(d, eff, freq, phase)

	assert.Equal(t, tensor.Shape{2, 4}, tr.Shape())
	assert.InDeltaSlice(t, []float64{0, 1, 1, 0}, tr.Row(0), 1e-12)
	assert.Equal(t, []float64{0, 0, 0, 0}, tr.Row(1))
}

func TestOuterBasis_TrigOuterPowerInner(t *testing.T) {
	powers := mustDense(t, tensor.Shape{1, 2}, []float64{1, 10})
	trig := mustDense(t, tensor.Shape{1, 4}, []float64{1, 2, 3, 4})

	raw := outerBasis(powers, trig, tensor.Shape{1})
	assert.Equal(t, tensor.Shape{1, 4, 2}, raw.Shape())
	assert.Equal(t, []float64{1, 10, 2, 20, 3, 30, 4, 40}, raw.Data())
}

//Personal.AI order the ending
