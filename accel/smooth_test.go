package accel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinearScalesBothAxes(t *testing.T) {
	f := NewLinear(2.0)
	dx, dy := 3.0, -4.0
	f.Apply(&dx, &dy, 0)
	assert.Equal(t, 6.0, dx)
	assert.Equal(t, -8.0, dy)
}

func TestNullIsIdentity(t *testing.T) {
	var f Filter = Null{}
	dx, dy := 5.0, 7.0
	f.Apply(&dx, &dy, 0)
	assert.Equal(t, 5.0, dx)
	assert.Equal(t, 7.0, dy)
}

func TestSmoothSimpleProfileMonotonicAndBounded(t *testing.T) {
	prev := SmoothSimpleProfile(0)
	for _, v := range []float64{0.05, 0.1, 0.2, 1, 2, 4, 10, 100} {
		f := SmoothSimpleProfile(v)
		assert.GreaterOrEqual(t, f, prev-1e-9)
		assert.LessOrEqual(t, f, maxFactor)
		prev = f
	}
}

func TestSmoothAccelScalesNonzeroVelocity(t *testing.T) {
	s := NewSmooth(nil, 400)
	dx, dy := 10.0, 0.0
	s.Apply(&dx, &dy, 10)
	assert.NotEqual(t, 0.0, dx)
}

func TestSmoothAcceleratorResolutionScaling(t *testing.T) {
	// A device at the reference resolution should read as moving faster
	// in reference units than one at twice that resolution for the same
	// raw delta, pushing the profile further up its curve.
	low := NewSmooth(func(v float64) float64 { return v }, 400)
	high := NewSmooth(func(v float64) float64 { return v }, 800)

	dxLow, dyLow := 10.0, 0.0
	low.Apply(&dxLow, &dyLow, 10)

	dxHigh, dyHigh := 10.0, 0.0
	high.Apply(&dxHigh, &dyHigh, 10)

	assert.Greater(t, dxLow, dxHigh)
}
