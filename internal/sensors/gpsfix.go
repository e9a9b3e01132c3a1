// Package sensors holds the immutable, timestamped snapshot types produced
// by the boat's input collaborators: GPS fixes, AIS contacts, orientation
// samples, analog channels, and RC frames.
package sensors

import (
	"time"

	"github.com/saltwater-robotics/boatcore/internal/geo"
)

// FixMode is the GPS fix quality reported by the upstream daemon.
type FixMode int

const (
	FixNone FixMode = iota
	FixNoFix
	Fix2D
	Fix3D
)

func (m FixMode) String() string {
	switch m {
	case FixNoFix:
		return "NOFIX"
	case Fix2D:
		return "2D"
	case Fix3D:
		return "3D"
	default:
		return "NONE"
	}
}

// GPSFix is a single GPS sample with its error bounds, as delivered by
// the upstream GPS daemon's TPV class.
type GPSFix struct {
	RecordTime time.Time
	GPSTime    time.Time
	Mode       FixMode
	Fix        geo.Location
	Track      float64
	Speed      float64
	Altitude   float64
	Climb      float64

	// Error bounds, all in the daemon's native units.
	EPX float64
	EPY float64
	EPT float64
	EPD float64
	EPS float64
	EPV float64
	EPC float64

	Device   string
	FixValid bool
}

// IsValid reports whether the fix is usable: FixValid is set, Speed is
// non-negative, and Track is within [-180,360].
func (f GPSFix) IsValid() bool {
	if !f.FixValid {
		return false
	}
	if f.Speed < 0 {
		return false
	}
	if f.Track < -180 || f.Track > 360 {
		return false
	}
	return f.Fix.IsValid()
}

// Fresh reports whether the fix's RecordTime is within window of now.
func (f GPSFix) Fresh(now time.Time, window time.Duration) bool {
	if f.RecordTime.IsZero() {
		return false
	}
	return now.Sub(f.RecordTime) <= window
}
