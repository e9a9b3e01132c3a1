// Package orientation tracks the boat's pitch/roll/heading with explicit
// magnetic-vs-true tagging and a cached declination model.
package orientation

import (
	"math"
	"time"
)

// Orientation is a pitch/roll/heading sample. Magnetic reports whether
// Heading is relative to magnetic north (true otherwise); Declination is
// the signed angle (degrees) last computed for the sample's location and
// date, used by MakeTrue/MakeMag. RecordTime is when the sample was
// taken, used by Fresh to detect a stalled IMU link.
type Orientation struct {
	Roll        float64
	Pitch       float64
	Heading     float64
	Magnetic    bool
	Declination float64
	RecordTime  time.Time
}

// Fresh reports whether the sample's RecordTime is within window of now.
func (o Orientation) Fresh(now time.Time, window time.Duration) bool {
	if o.RecordTime.IsZero() {
		return false
	}
	return now.Sub(o.RecordTime) <= window
}

// IsValid reports whether all angular fields are finite.
func (o Orientation) IsValid() bool {
	return !math.IsNaN(o.Roll) && !math.IsInf(o.Roll, 0) &&
		!math.IsNaN(o.Pitch) && !math.IsInf(o.Pitch, 0) &&
		!math.IsNaN(o.Heading) && !math.IsInf(o.Heading, 0)
}

// normAxis folds v into [min, max) using the period (max - min), matching
// the original normAxis(val, max, min) fmod-based folding.
func normAxis(v, max, min float64) float64 {
	period := max - min
	m := math.Mod(v-min, period)
	if m < 0 {
		m += period
	}
	return m + min
}

// Normalize folds Roll and Pitch into [-180,180] and Heading into
// [0,360). It is idempotent: Normalize(Normalize(o)) == Normalize(o).
func (o Orientation) Normalize() Orientation {
	o.Roll = normAxis(o.Roll, 180, -180)
	o.Pitch = normAxis(o.Pitch, 180, -180)
	o.Heading = normAxis(o.Heading, 360, 0)
	return o
}

// HeadingError returns (target - heading) folded into [-180,180).
func (o Orientation) HeadingError(targetHeading float64) float64 {
	return normAxis(targetHeading-o.Heading, 180, -180)
}

// WrapSigned folds an angle in degrees into [-180,180], the convention
// used for helm and bearing errors throughout the control loop.
func WrapSigned(v float64) float64 {
	return normAxis(v, 180, -180)
}

// MakeTrue converts a magnetic-tagged orientation to true by adding the
// cached declination. A no-op if already true-tagged.
func (o Orientation) MakeTrue() Orientation {
	if !o.Magnetic {
		return o
	}
	o.Heading = normAxis(o.Heading+o.Declination, 360, 0)
	o.Magnetic = false
	return o
}

// MakeMag converts a true-tagged orientation to magnetic by subtracting
// the cached declination. A no-op if already magnetic-tagged.
func (o Orientation) MakeMag() Orientation {
	if o.Magnetic {
		return o
	}
	o.Heading = normAxis(o.Heading-o.Declination, 360, 0)
	o.Magnetic = true
	return o
}
