// Package modes implements the tagged-variant state machines that
// replace the original deep class hierarchy: a top-level Boat state, the
// Nav sub-mode it forwards to, and the Auto/RC sub-modes those own. A
// single Controller owns one instance of each and is driven by the CTRL
// loop's fixed-period Tick.
package modes

import (
	"fmt"
	"time"

	"github.com/saltwater-robotics/boatcore/internal/actuators"
	"github.com/saltwater-robotics/boatcore/internal/boatstate"
	"github.com/saltwater-robotics/boatcore/internal/config"
	"github.com/saltwater-robotics/boatcore/internal/geo"
	"github.com/saltwater-robotics/boatcore/internal/helm"
	"github.com/saltwater-robotics/boatcore/internal/monitoring"
	"github.com/saltwater-robotics/boatcore/internal/orientation"
	"github.com/saltwater-robotics/boatcore/internal/sensors"
	"github.com/saltwater-robotics/boatcore/internal/timeutil"
)

// Outputs bundles the actuator handles a Controller commands. CTRL is
// the only tick-driven writer of any of these.
type Outputs struct {
	Rudder      *actuators.Rudder
	Throttle    *actuators.Throttle
	Horn        *actuators.Horn
	ServoEnable *actuators.ServoEnable
	Disarm      *actuators.DisarmLine
}

// lostSignal names which timeout drove a NOSIGNAL entry, so recovery
// can be detected on the matching input.
type lostSignal int

const (
	signalNone lostSignal = iota
	signalShore
	signalRC
)

// Controller runs the Boat/Nav/Auto/RC state machines against one
// BoatState, reading sensor snapshots with a non-blocking try-lock and
// falling back to its own previously cached copy on contention, per the
// CTRL concurrency model.
type Controller struct {
	state *boatstate.BoatState
	cfg   *config.BoatConfig
	clock timeutil.Clock
	out   Outputs
	helm  *helm.PID

	cachedGPS         sensors.GPSFix
	cachedOrientation orientation.Orientation
	cachedRC          sensors.RCFrame
	cachedAnalog      sensors.AnalogMap

	lastHelmTick time.Time

	armEdgeSince    time.Time
	disarmEdgeSince time.Time

	disarmReleaseAt time.Time

	priorModes       boatstate.Modes
	pendingArmedTest bool

	pendingBoatMode *boatstate.BoatMode
	pendingNavMode  *boatstate.NavMode
	pendingAutoMode *boatstate.AutoMode
	pendingHome     *geo.Location

	savedModes *boatstate.Modes
	lost       lostSignal
}

// NewController builds a Controller for state, using cfg for every
// tunable threshold and clock as the time source for dwell/timeout
// bookkeeping.
func NewController(state *boatstate.BoatState, cfg *config.BoatConfig, clock timeutil.Clock, out Outputs) *Controller {
	if g := state.Gains(); g == (boatstate.PIDGains{}) {
		state.SetGains(boatstate.PIDGains{Kp: cfg.GetKp(), Ki: cfg.GetKi(), Kd: cfg.GetKd()})
	}
	return &Controller{
		state: state,
		cfg:   cfg,
		clock: clock,
		out:   out,
		helm:  helm.New(cfg.GetRudderMin(), cfg.GetRudderMax(), cfg.GetFramePeriod()),
	}
}

// RequestArmedTest records that an ARMEDTEST command has arrived. It
// only takes effect the next time SELFTEST completes successfully.
func (c *Controller) RequestArmedTest() {
	c.pendingArmedTest = true
}

// RequestBoatMode queues a shore-issued top-level mode change. CTRL is
// still the only writer of BoatState's mode fields: the request is
// applied at the start of the next Tick, not by the caller.
func (c *Controller) RequestBoatMode(m boatstate.BoatMode) {
	c.pendingBoatMode = &m
}

// RequestNavMode queues a shore-issued Nav sub-mode change, applied the
// same way as RequestBoatMode.
func (c *Controller) RequestNavMode(m boatstate.NavMode) {
	c.pendingNavMode = &m
}

// RequestAutoMode queues a shore-issued Auto sub-mode change, applied
// the same way as RequestBoatMode.
func (c *Controller) RequestAutoMode(m boatstate.AutoMode) {
	c.pendingAutoMode = &m
}

// RequestHome queues a new home/launch point, applied at the start of
// the next Tick.
func (c *Controller) RequestHome(l geo.Location) {
	c.pendingHome = &l
}

// applyPendingRequests installs any mode or home-point changes queued
// by RequestBoatMode/RequestNavMode/RequestAutoMode/RequestHome since
// the last Tick. Called once per Tick, before the Boat state switch, so
// BoatState's mode setters remain exclusively CTRL-driven.
func (c *Controller) applyPendingRequests(now time.Time) {
	if c.pendingBoatMode != nil {
		c.state.SetBoatMode(*c.pendingBoatMode)
		c.pendingBoatMode = nil
	}
	if c.pendingNavMode != nil {
		c.state.SetNavMode(*c.pendingNavMode)
		c.pendingNavMode = nil
	}
	if c.pendingAutoMode != nil {
		c.state.SetAutoMode(*c.pendingAutoMode)
		c.pendingAutoMode = nil
	}
	if c.pendingHome != nil {
		c.state.SetLaunchPoint(*c.pendingHome)
		c.pendingHome = nil
	}
}

// Tick advances the state machine by one CTRL period. It never blocks:
// sensor reads are try-lock with fallback to the Controller's own last
// successfully read snapshot.
func (c *Controller) Tick() {
	now := c.clock.Now()
	c.refreshSnapshots()
	c.releaseDisarmIfDue(now)
	c.applyPendingRequests(now)

	gains := c.state.Gains()
	c.helm.SetGains(helm.Gains{Kp: gains.Kp, Ki: gains.Ki, Kd: gains.Kd})

	m := c.state.Modes()
	switch m.Boat {
	case boatstate.BoatNone, boatstate.BoatStart:
		c.state.SetBoatMode(boatstate.BoatSelftest)
		c.state.SetSelftestSince(now)
	case boatstate.BoatSelftest:
		c.tickSelftest(now)
	case boatstate.BoatDisarmed:
		c.tickDisarmed(now)
	case boatstate.BoatFault:
		c.tickFault(now)
	case boatstate.BoatArmedTest:
		c.tickArmedTest(now)
	case boatstate.BoatNoSignal:
		c.tickNoSignal(now)
	default: // BoatArmed, BoatManual, BoatWaypoint, BoatReturn
		c.tickArmedFamily(now, m)
	}
}

func (c *Controller) refreshSnapshots() {
	if v, ok := c.state.GPSFix.TryGet(); ok {
		c.cachedGPS = v
	}
	if v, ok := c.state.Orientation.TryGet(); ok {
		c.cachedOrientation = v
	}
	if v, ok := c.state.RC.TryGet(); ok {
		c.cachedRC = v
	}
	if v, ok := c.state.Analog.TryGet(); ok {
		c.cachedAnalog = v
	}
}

func (c *Controller) releaseDisarmIfDue(now time.Time) {
	if c.disarmReleaseAt.IsZero() || now.Before(c.disarmReleaseAt) {
		return
	}
	c.out.Disarm.Release()
	c.disarmReleaseAt = time.Time{}
}

func (c *Controller) pulseDisarm(now time.Time) {
	deadline, err := c.out.Disarm.Pulse()
	if err != nil {
		c.reportActuatorErr(err)
		return
	}
	c.disarmReleaseAt = deadline
}

func (c *Controller) zeroOutputs() {
	c.reportActuatorErr(c.out.Throttle.SetLevel(0))
	c.reportActuatorErr(c.out.Rudder.Write(0))
	c.reportActuatorErr(c.out.ServoEnable.Set(false))
}

// reportActuatorErr records a hardware fault for a failed actuator
// write. The fault clears the same way FaultLowBattery does: an
// operator-issued ResetFault once the underlying relay/servo problem is
// cleared.
func (c *Controller) reportActuatorErr(err error) {
	if err == nil {
		return
	}
	c.state.Faults.Insert(boatstate.FaultHardware)
	monitoring.Logf("modes: %v", fmt.Errorf("%w: %v", boatstate.ErrHardwareFault, err))
}

// tickInterval returns the elapsed time since the previous helm
// computation, seeding it with the configured frame period on the
// first call so the initial sample is not treated as a catch-up tick.
func (c *Controller) tickInterval(now time.Time) time.Duration {
	if c.lastHelmTick.IsZero() {
		c.lastHelmTick = now
		return c.cfg.GetFramePeriod()
	}
	d := now.Sub(c.lastHelmTick)
	c.lastHelmTick = now
	return d
}

// armEdgeConfirmed debounces the RC arm button: ArmEdge must read true
// continuously for at least ArmButtonDwell before the edge is honored.
func (c *Controller) armEdgeConfirmed(now time.Time) bool {
	if !c.cachedRC.ArmEdge {
		c.armEdgeSince = time.Time{}
		return false
	}
	if c.armEdgeSince.IsZero() {
		c.armEdgeSince = now
	}
	return now.Sub(c.armEdgeSince) >= c.cfg.GetArmButtonDwell()
}

// disarmEdgeConfirmed applies the same dwell debounce to the disarm
// button.
func (c *Controller) disarmEdgeConfirmed(now time.Time) bool {
	if !c.cachedRC.DisarmEdge {
		c.disarmEdgeSince = time.Time{}
		return false
	}
	if c.disarmEdgeSince.IsZero() {
		c.disarmEdgeSince = now
	}
	return now.Sub(c.disarmEdgeSince) >= c.cfg.GetArmButtonDwell()
}

func headingTo(from, to geo.Location) (bearing, distance float64, ok bool) {
	b, err := from.Bearing(to, geo.GreatCircle)
	if err != nil {
		return 0, 0, false
	}
	d, err := from.Distance(to, geo.GreatCircle)
	if err != nil {
		return 0, 0, false
	}
	return b, d, true
}
