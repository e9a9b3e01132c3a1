// Package helm implements the PID controller that turns a heading error
// into a rudder command for the autonomous and RC "course" sub-modes.
package helm

import (
	"time"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/saltwater-robotics/boatcore/internal/orientation"
)

// Gains holds the proportional, integral, and derivative coefficients.
// Gains may be updated between ticks without restarting the controller;
// the integrator is rescaled so the output stays continuous.
type Gains struct {
	Kp, Ki, Kd float64
}

// PID is a heading-error controller producing a rudder command clamped to
// [Min, Max]. It is not safe for concurrent use; callers own the single
// thread that calls Compute for a given instance.
type PID struct {
	min, max float64
	period   time.Duration

	gains      Gains
	integrator float64
	prevError  float64
	hasPrev    bool
}

// New returns a PID with the given output limits and control-loop period.
// Gains may be set afterward with SetGains.
func New(min, max float64, period time.Duration) *PID {
	return &PID{min: min, max: max, period: period}
}

// SetGains updates the controller gains. The integrator accumulator is
// stored without Ki applied; when Ki changes, it is rescaled by the ratio
// of old to new Ki so Ki*integrator — the integral term's contribution to
// the output — stays continuous across the change.
func (p *PID) SetGains(g Gains) {
	if p.gains.Ki != 0 && g.Ki != 0 && g.Ki != p.gains.Ki {
		p.integrator *= p.gains.Ki / g.Ki
	}
	p.gains = g
}

// Gains returns the controller's current gains.
func (p *PID) Gains() Gains {
	return p.gains
}

// Reset clears the integrator and derivative history, e.g. when a
// sub-mode is entered fresh and should not inherit a stale error history.
func (p *PID) Reset() {
	p.integrator = 0
	p.prevError = 0
	p.hasPrev = false
}

// Compute advances the controller by one sample given the current heading
// and target bearing, both in degrees, and returns the clamped rudder
// command in the controller's output range.
//
// elapsed is the wall-clock time since the previous call. If it exceeds
// more than one configured period, the tick is treated as a catch-up tick:
// the integrator is frozen and the derivative term is zeroed for that
// sample, since the elapsed interval no longer reflects a single
// consistent sample period.
func (p *PID) Compute(heading, target float64, elapsed time.Duration) float64 {
	headingErr := orientation.WrapSigned(target - heading)

	catchUp := p.hasPrev && elapsed > p.period
	dt := p.period.Seconds()

	proportional := p.gains.Kp * headingErr

	// p.integrator accumulates the raw error-sum (Ki not applied) so a
	// later gain change can rescale it without discarding history.
	candidateSum := p.integrator + headingErr*dt
	candidateContribution := p.gains.Ki * candidateSum
	unclamped := proportional + candidateContribution
	if !catchUp {
		sameSignSaturation := (unclamped > p.max && headingErr > 0) ||
			(unclamped < p.min && headingErr < 0)
		if !sameSignSaturation {
			p.integrator = candidateSum
		}
	}

	derivative := 0.0
	if p.hasPrev && !catchUp && dt > 0 {
		derivative = p.gains.Kd * (headingErr - p.prevError) / dt
	}

	out := proportional + p.gains.Ki*p.integrator + derivative
	out = scalar.Clamp(out, p.min, p.max)

	p.prevError = headingErr
	p.hasPrev = true

	return out
}
