package actuators

import (
	"fmt"
	"sync"
)

// Rudder wraps a ServoWriter, clamping commanded positions to a
// configured band. Repeated writes of the same value are forwarded
// without tracking: the hardware layer de-duplicates them and never
// fails on a repeat, per the write contract.
type Rudder struct {
	driver ServoWriter
	min    float64
	max    float64

	mu   sync.Mutex
	last float64
}

// NewRudder builds a Rudder clamped to [min, max] degrees.
func NewRudder(driver ServoWriter, min, max float64) *Rudder {
	return &Rudder{driver: driver, min: min, max: max}
}

// Write clamps deg to [min, max] and commands the servo.
func (r *Rudder) Write(deg float64) error {
	clamped := deg
	if clamped < r.min {
		clamped = r.min
	}
	if clamped > r.max {
		clamped = r.max
	}
	if err := r.driver.SetPosition(clamped); err != nil {
		return fmt.Errorf("actuators: rudder write: %w", err)
	}
	r.mu.Lock()
	r.last = clamped
	r.mu.Unlock()
	return nil
}

// Position returns the last successfully commanded rudder angle.
func (r *Rudder) Position() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Min returns the configured minimum rudder angle.
func (r *Rudder) Min() float64 { return r.min }

// Max returns the configured maximum rudder angle.
func (r *Rudder) Max() float64 { return r.max }
