package actuators

import (
	"fmt"
	"time"
)

// Horn is the horn relay's digital output.
type Horn struct {
	driver RelayWriter
}

// NewHorn wraps a relay driver as the horn output.
func NewHorn(driver RelayWriter) *Horn {
	return &Horn{driver: driver}
}

// Set asserts or de-asserts the horn relay.
func (h *Horn) Set(on bool) error {
	if err := h.driver.SetRelay(RelayHorn, on); err != nil {
		return fmt.Errorf("actuators: horn: %w", err)
	}
	return nil
}

// ServoEnable is the relay that must be asserted before the rudder
// servo will move.
type ServoEnable struct {
	driver RelayWriter
}

// NewServoEnable wraps a relay driver as the servo-enable output.
func NewServoEnable(driver RelayWriter) *ServoEnable {
	return &ServoEnable{driver: driver}
}

// Set asserts or de-asserts the servo-enable relay.
func (s *ServoEnable) Set(on bool) error {
	if err := s.driver.SetRelay(RelayServoEn, on); err != nil {
		return fmt.Errorf("actuators: servo enable: %w", err)
	}
	return nil
}

// DisarmLine pulses the mechanical disarm relay for a configured
// duration to assert disarm.
type DisarmLine struct {
	driver RelayWriter
	clock  Clock
	pulse  time.Duration
}

// NewDisarmLine builds a DisarmLine asserting disarm for pulse duration
// (e.g. 50ms) per Pulse call.
func NewDisarmLine(driver RelayWriter, clock Clock, pulse time.Duration) *DisarmLine {
	return &DisarmLine{driver: driver, clock: clock, pulse: pulse}
}

// Pulse asserts the disarm relay, records the assertion deadline, and
// returns it so the scheduler can de-assert on a later tick without
// blocking CTRL for the pulse duration.
func (d *DisarmLine) Pulse() (time.Time, error) {
	if err := d.driver.SetRelay(RelayDisarm, true); err != nil {
		return time.Time{}, fmt.Errorf("actuators: disarm pulse assert: %w", err)
	}
	return d.clock.Now().Add(d.pulse), nil
}

// Release de-asserts the disarm relay; the scheduler calls this once the
// deadline returned by Pulse has elapsed.
func (d *DisarmLine) Release() error {
	if err := d.driver.SetRelay(RelayDisarm, false); err != nil {
		return fmt.Errorf("actuators: disarm pulse release: %w", err)
	}
	return nil
}
