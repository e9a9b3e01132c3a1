package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwoVector_PolarCartesianRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		angle float64
		mag   float64
	}{
		{0, 10},
		{90, 5},
		{180, 1},
		{270, 3.5},
		{45, 7.2},
		{359, 2},
	}
	for _, tc := range cases {
		v := FromPolarDeg(tc.angle, tc.mag)
		assert.InDelta(t, tc.angle, v.AngleDeg(), 1e-9)
		assert.InDelta(t, tc.mag, v.Mag(), 1e-9)

		roundTrip := FromPolarDeg(v.AngleDeg(), v.Mag())
		assert.InDelta(t, v.X, roundTrip.X, 1e-9)
		assert.InDelta(t, v.Y, roundTrip.Y, 1e-9)
	}
}

func TestTwoVector_AddSub(t *testing.T) {
	t.Parallel()

	a := FromCartesian(3, 4)
	b := FromCartesian(1, 2)

	sum := a.Add(b)
	assert.Equal(t, TwoVector{X: 4, Y: 6}, sum)

	diff := a.Sub(b)
	assert.Equal(t, TwoVector{X: 2, Y: 2}, diff)
}

func TestTwoVector_ScaleDiv(t *testing.T) {
	t.Parallel()

	v := FromCartesian(2, 4)
	assert.Equal(t, TwoVector{X: 6, Y: 12}, v.Scale(3))
	assert.Equal(t, TwoVector{X: 1, Y: 2}, v.Div(2))
}

func TestTwoVector_Dot(t *testing.T) {
	t.Parallel()

	a := FromCartesian(1, 0)
	b := FromCartesian(0, 1)
	assert.Zero(t, a.Dot(b))

	c := FromCartesian(2, 3)
	d := FromCartesian(4, 5)
	assert.Equal(t, 2*4+3*5, int(c.Dot(d)))
}

func TestTwoVector_Rotate(t *testing.T) {
	t.Parallel()

	north := FromPolarDeg(0, 1)
	east := north.RotateDeg(90)
	assert.InDelta(t, 90, east.AngleDeg(), 1e-9)
	assert.InDelta(t, 1, east.Mag(), 1e-9)
}

func TestTwoVector_Unit(t *testing.T) {
	t.Parallel()

	v := FromCartesian(3, 4)
	unit, err := v.Unit()
	require.NoError(t, err)
	assert.InDelta(t, 1, unit.Mag(), 1e-9)
}

func TestTwoVector_Unit_ZeroMagnitude(t *testing.T) {
	t.Parallel()

	v := FromCartesian(0, 0)
	_, err := v.Unit()
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTwoVector_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, FromCartesian(1, 2).IsValid())
	assert.False(t, FromCartesian(math.NaN(), 2).IsValid())
	assert.False(t, FromCartesian(1, math.Inf(-1)).IsValid())
}
