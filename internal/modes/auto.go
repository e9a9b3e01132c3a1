package modes

import (
	"time"

	"github.com/saltwater-robotics/boatcore/internal/boatstate"
	"github.com/saltwater-robotics/boatcore/internal/geo"
)

// tickAuto dispatches to the active Auto sub-mode law.
func (c *Controller) tickAuto(now time.Time, m boatstate.Modes) {
	switch m.Auto {
	case boatstate.AutoWaypoint:
		c.tickWaypointLaw(now)
	case boatstate.AutoReturn:
		c.tickReturnLaw(now)
	case boatstate.AutoAnchor:
		c.tickAnchorLaw(now)
	default: // AutoIdle, AutoNone
		c.idleAuto()
	}
}

// idleAuto zeroes the helm and throttle the same as zeroOutputs, but
// leaves the servo enable relay asserted: Auto IDLE holds the rudder
// servo ready, unlike RC IDLE which de-energizes it.
func (c *Controller) idleAuto() {
	c.reportActuatorErr(c.out.Throttle.SetLevel(0))
	c.reportActuatorErr(c.out.Rudder.Write(0))
	c.reportActuatorErr(c.out.ServoEnable.Set(true))
}

// tickWaypointLaw steers toward the current waypoint, advancing or
// branching to RETURN/ANCHOR on arrival per the waypoint's action. An
// exhausted list holds station at the current fix, same as an explicit
// STOP action.
func (c *Controller) tickWaypointLaw(now time.Time) {
	wp, ok := c.state.Waypoints.Current()
	if !ok {
		c.enterAnchor(c.cachedGPS.Fix)
		return
	}

	bearing, dist, ok := headingTo(c.cachedGPS.Fix, wp.Location)
	if !ok {
		c.zeroOutputs()
		return
	}

	c.steerToward(now, bearing)

	if dist <= c.cfg.GetWaypointAccuracyMeters() {
		switch wp.Action {
		case boatstate.ActionContinue:
			c.state.Waypoints.Advance()
		case boatstate.ActionHome:
			c.enterReturn()
		default: // ActionStop
			c.enterAnchor(wp.Location)
		}
	}
}

// tickReturnLaw steers toward the launch point with the same control
// law as WAYPOINT, anchoring on arrival.
func (c *Controller) tickReturnLaw(now time.Time) {
	target := c.state.LaunchPoint()
	bearing, dist, ok := headingTo(c.cachedGPS.Fix, target)
	if !ok {
		c.zeroOutputs()
		return
	}

	c.steerToward(now, bearing)

	if dist <= c.cfg.GetWaypointAccuracyMeters() {
		c.enterAnchor(target)
	}
}

// tickAnchorLaw holds station within HoldRadiusMeters of the anchor
// point, steering back in only once it has drifted outside the radius.
func (c *Controller) tickAnchorLaw(now time.Time) {
	anchor := c.state.AnchorPoint()
	bearing, dist, ok := headingTo(c.cachedGPS.Fix, anchor)
	if !ok {
		c.zeroOutputs()
		return
	}

	if dist <= c.cfg.GetHoldRadiusMeters() {
		c.zeroOutputs()
		return
	}
	c.steerToward(now, bearing)
}

// steerToward commands the helm and a fixed station-keeping throttle
// level toward the given true bearing.
func (c *Controller) steerToward(now time.Time, bearing float64) {
	c.reportActuatorErr(c.out.ServoEnable.Set(true))
	out := c.helm.Compute(c.cachedOrientation.Heading, bearing, c.tickInterval(now))
	c.reportActuatorErr(c.out.Rudder.Write(out))
	c.reportActuatorErr(c.out.Throttle.SetLevel(c.cfg.GetAutoDefaultThrottle()))
}

// enterAnchor fixes point as the anchor point and drops into ANCHOR.
// There is no named Boat-level alias for Nav=AUTONOMOUS/Auto=ANCHOR, so
// the Boat mode falls back to the generic ARMED.
func (c *Controller) enterAnchor(point geo.Location) {
	c.state.SetAnchorPoint(point)
	c.state.SetModes(boatstate.Modes{Boat: boatstate.BoatArmed, Nav: boatstate.NavAutonomous, Auto: boatstate.AutoAnchor})
	c.helm.Reset()
}
