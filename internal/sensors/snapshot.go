package sensors

import (
	"time"

	"github.com/saltwater-robotics/boatcore/internal/orientation"
)

// RCFrame is a single RC receiver sample: a vector of channels plus the
// edge-detected arm button.
type RCFrame struct {
	Timestamp    time.Time
	Throttle     float64 // normalized [-1,1]
	Rudder       float64 // normalized [-1,1]
	CourseTarget float64 // degrees, used by RC COURSE sub-mode
	ModeSelect   string  // RC sub-mode name requested by the operator
	ArmEdge      bool    // rising edge of the physical arm button
	DisarmEdge   bool    // rising edge of the physical disarm button
}

// Fresh reports whether the frame's Timestamp is within window of now.
func (f RCFrame) Fresh(now time.Time, window time.Duration) bool {
	if f.Timestamp.IsZero() {
		return false
	}
	return now.Sub(f.Timestamp) <= window
}

// AnalogMap is a channel-name to scaled-value reading, e.g.
// "mot_i", "mot_v", "charge_v", "charge_i", "battery_mon".
type AnalogMap map[string]float64

// Get returns the named channel's value and whether it was present.
func (m AnalogMap) Get(name string) (float64, bool) {
	v, ok := m[name]
	return v, ok
}

// BatteryVoltage is the conventional channel name for the low-battery
// detector's input.
const BatteryVoltage = "battery_mon"

// Snapshot is the point-in-time, read-only bundle of sensor state that a
// single control-loop tick reads.
type Snapshot struct {
	GPSFix      GPSFix
	Orientation orientation.Orientation
	Analog      AnalogMap
	RC          RCFrame
	Timestamp   time.Time
}
