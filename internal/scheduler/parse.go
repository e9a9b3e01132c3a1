package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/saltwater-robotics/boatcore/internal/orientation"
	"github.com/saltwater-robotics/boatcore/internal/sensors"
)

// parseRCFrame decodes one line from the RC receiver board:
// "throttle,rudder,course_target,mode_select,arm_edge,disarm_edge"
// where throttle/rudder are normalized [-1,1], course_target is degrees,
// mode_select is the RC sub-mode name requested by the operator, and
// arm_edge/disarm_edge are "0" or "1".
func parseRCFrame(line string, now time.Time) (sensors.RCFrame, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 6 {
		return sensors.RCFrame{}, fmt.Errorf("scheduler: expected 6 RC fields, got %d", len(fields))
	}
	throttle, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return sensors.RCFrame{}, fmt.Errorf("scheduler: parse RC throttle: %w", err)
	}
	rudder, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return sensors.RCFrame{}, fmt.Errorf("scheduler: parse RC rudder: %w", err)
	}
	courseTarget, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return sensors.RCFrame{}, fmt.Errorf("scheduler: parse RC course target: %w", err)
	}
	armEdge, err := parseBoolFlag(fields[4])
	if err != nil {
		return sensors.RCFrame{}, fmt.Errorf("scheduler: parse RC arm edge: %w", err)
	}
	disarmEdge, err := parseBoolFlag(fields[5])
	if err != nil {
		return sensors.RCFrame{}, fmt.Errorf("scheduler: parse RC disarm edge: %w", err)
	}
	return sensors.RCFrame{
		Timestamp:    now,
		Throttle:     throttle,
		Rudder:       rudder,
		CourseTarget: courseTarget,
		ModeSelect:   strings.TrimSpace(fields[3]),
		ArmEdge:      armEdge,
		DisarmEdge:   disarmEdge,
	}, nil
}

// parseOrientation decodes one line from the inertial/magnetic sensor:
// "roll,pitch,heading,magnetic" where magnetic is "0" (true-tagged) or
// "1" (magnetic-tagged). RecordTime is set to now. Declination is left
// zero; runIMU applies the cached model value before publishing.
func parseOrientation(line string, now time.Time) (orientation.Orientation, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 4 {
		return orientation.Orientation{}, fmt.Errorf("scheduler: expected 4 IMU fields, got %d", len(fields))
	}
	roll, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return orientation.Orientation{}, fmt.Errorf("scheduler: parse IMU roll: %w", err)
	}
	pitch, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return orientation.Orientation{}, fmt.Errorf("scheduler: parse IMU pitch: %w", err)
	}
	heading, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return orientation.Orientation{}, fmt.Errorf("scheduler: parse IMU heading: %w", err)
	}
	magnetic, err := parseBoolFlag(fields[3])
	if err != nil {
		return orientation.Orientation{}, fmt.Errorf("scheduler: parse IMU magnetic flag: %w", err)
	}
	return orientation.Orientation{Roll: roll, Pitch: pitch, Heading: heading, Magnetic: magnetic, RecordTime: now}, nil
}

// parseAnalogMap decodes one line from the ADC board: comma-separated
// "channel=value" pairs, e.g. "mot_i=1.2,battery_mon=12.4".
func parseAnalogMap(line string) (sensors.AnalogMap, error) {
	out := make(sensors.AnalogMap)
	for _, pair := range strings.Split(line, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("scheduler: malformed ADC channel %q", pair)
		}
		v, err := strconv.ParseFloat(kv[1], 64)
		if err != nil {
			return nil, fmt.Errorf("scheduler: parse ADC channel %q: %w", kv[0], err)
		}
		out[kv[0]] = v
	}
	return out, nil
}

func parseBoolFlag(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("scheduler: expected 0 or 1, got %q", s)
	}
}
