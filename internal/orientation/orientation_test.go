package orientation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrientation_Normalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   Orientation
		roll float64
		pit  float64
		hdg  float64
	}{
		{"already normalized", Orientation{Roll: 10, Pitch: -10, Heading: 90}, 10, -10, 90},
		{"roll over 180", Orientation{Roll: 190, Pitch: 0, Heading: 0}, -170, 0, 0},
		{"roll under -180", Orientation{Roll: -190, Pitch: 0, Heading: 0}, 170, 0, 0},
		{"heading negative", Orientation{Roll: 0, Pitch: 0, Heading: -10}, 0, 0, 350},
		{"heading over 360", Orientation{Roll: 0, Pitch: 0, Heading: 370}, 0, 0, 10},
		{"pitch boundary 180", Orientation{Roll: 0, Pitch: 180, Heading: 0}, 0, -180, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := tc.in.Normalize()
			assert.InDelta(t, tc.roll, got.Roll, 1e-9)
			assert.InDelta(t, tc.pit, got.Pitch, 1e-9)
			assert.InDelta(t, tc.hdg, got.Heading, 1e-9)
		})
	}
}

// normalize is idempotent.
func TestOrientation_Normalize_Idempotent(t *testing.T) {
	t.Parallel()

	samples := []Orientation{
		{Roll: 400, Pitch: -500, Heading: 720},
		{Roll: -181, Pitch: 181, Heading: -1},
		{Roll: 0, Pitch: 0, Heading: 0},
	}
	for _, o := range samples {
		once := o.Normalize()
		twice := once.Normalize()
		assert.Equal(t, once, twice)
	}
}

func TestOrientation_HeadingError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		heading float64
		target  float64
		want    float64
	}{
		{0, 90, 90},
		{350, 10, 20},
		{10, 350, -20},
		{0, 180, -180},
		{90, 0, -90},
	}
	for _, tc := range cases {
		o := Orientation{Heading: tc.heading}
		got := o.HeadingError(tc.target)
		assert.InDelta(t, tc.want, got, 1e-9)
	}
}

// makeTrue(makeMag(O)) == O at a stable declination.
func TestOrientation_MakeTrue_MakeMag_RoundTrip(t *testing.T) {
	t.Parallel()

	o := Orientation{Heading: 45, Magnetic: false, Declination: 12.5}
	roundTrip := o.MakeMag().MakeTrue()

	assert.InDelta(t, o.Heading, roundTrip.Heading, 1e-9)
	assert.Equal(t, o.Magnetic, roundTrip.Magnetic)
}

func TestOrientation_MakeTrue_NoOpWhenAlreadyTrue(t *testing.T) {
	t.Parallel()

	o := Orientation{Heading: 45, Magnetic: false, Declination: 12.5}
	got := o.MakeTrue()
	assert.Equal(t, o, got)
}

func TestOrientation_MakeMag_NoOpWhenAlreadyMag(t *testing.T) {
	t.Parallel()

	o := Orientation{Heading: 45, Magnetic: true, Declination: 12.5}
	got := o.MakeMag()
	assert.Equal(t, o, got)
}

func TestOrientation_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Orientation{Roll: 1, Pitch: 2, Heading: 3}.IsValid())
	assert.False(t, Orientation{Heading: 1.0 / zero()}.IsValid())
}

func zero() float64 { return 0 }
