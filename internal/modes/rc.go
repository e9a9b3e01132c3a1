package modes

import (
	"math"
	"time"

	"github.com/saltwater-robotics/boatcore/internal/boatstate"
	"github.com/saltwater-robotics/boatcore/internal/config"
)

// tickRC drives the RC sub-modes (IDLE, RUDDER, COURSE, FAILSAFE). A
// frame older than the base RC freshness window degrades the sub-mode
// to FAILSAFE even though the boat stays armed; a frame older still
// than RC_SENSE_TIMEOUT is handled one level up, as a boat-level
// NOSIGNAL transition.
func (c *Controller) tickRC(now time.Time, m boatstate.Modes) {
	if m.RC != boatstate.RCFailsafe && !c.cachedRC.Fresh(now, c.cfg.GetRCFreshWindow()) {
		c.state.SetRCMode(boatstate.RCFailsafe)
		m.RC = boatstate.RCFailsafe
	}

	switch m.RC {
	case boatstate.RCRudder:
		c.reportActuatorErr(c.out.ServoEnable.Set(true))
		c.reportActuatorErr(c.out.Rudder.Write(rudderFromRC(c.cachedRC.Rudder, c.cfg)))
		c.reportActuatorErr(c.out.Throttle.SetLevel(throttleLevelFromRC(c.cachedRC.Throttle, c.cfg)))
	case boatstate.RCCourse:
		c.reportActuatorErr(c.out.ServoEnable.Set(true))
		target := courseFromRC(c.cachedRC.CourseTarget)
		out := c.helm.Compute(c.cachedOrientation.Heading, target, c.tickInterval(now))
		c.reportActuatorErr(c.out.Rudder.Write(out))
		c.reportActuatorErr(c.out.Throttle.SetLevel(throttleLevelFromRC(c.cachedRC.Throttle, c.cfg)))
	case boatstate.RCFailsafe:
		c.zeroOutputs()
		if c.cachedRC.Fresh(now, c.cfg.GetRCSenseTimeout()) {
			c.state.SetRCMode(boatstate.RCIdle)
		}
	default: // RCIdle, RCNone
		c.zeroOutputs()
	}
}

// rudderFromRC scales a normalized [-1,1] RC rudder channel to the
// configured rudder travel, the same convention as RUDDER_MAX*channel.
func rudderFromRC(channel float64, cfg *config.BoatConfig) float64 {
	return channel * cfg.GetRudderMax()
}

// throttleLevelFromRC scales a normalized [-1,1] RC throttle channel to
// an integer throttle level, rounding to the nearest step.
func throttleLevelFromRC(channel float64, cfg *config.BoatConfig) int {
	return int(math.Round(channel * float64(cfg.GetThrottleMax())))
}

// courseFromRC folds the RC course-target channel, in degrees, onto a
// full-circle heading in [0,360).
func courseFromRC(channel float64) float64 {
	h := math.Mod(channel, 360)
	if h < 0 {
		h += 360
	}
	return h
}
