package modes

import (
	"time"

	"github.com/saltwater-robotics/boatcore/internal/boatstate"
	"github.com/saltwater-robotics/boatcore/internal/monitoring"
	"github.com/saltwater-robotics/boatcore/internal/sensors"
)

// tickSelftest evaluates GPS and shore/telemetry freshness (the two
// inputs required to arm) and RC/IMU freshness (tracked as faults but
// not required to arm: an RC-absent launch is routine, and IMU
// freshness is enforced by blockingFault once DISARMED is reached).
// Faults are inserted or removed every tick so the fault set always
// reflects the current input state.
func (c *Controller) tickSelftest(now time.Time) {
	c.zeroOutputs()
	if c.state.SelftestSince().IsZero() {
		c.state.SetSelftestSince(now)
	}

	gpsFresh := c.cachedGPS.Fresh(now, c.cfg.GetGPSFreshWindow()) && c.cachedGPS.IsValid()
	shoreFresh := now.Sub(c.state.LastContact()) <= c.cfg.GetShoreTimeout()
	rcFresh := c.cachedRC.Fresh(now, c.cfg.GetRCFreshWindow())
	imuFresh := c.cachedOrientation.Fresh(now, c.cfg.GetIMUFreshWindow())

	setFault(c.state, boatstate.FaultNoGNSS, !gpsFresh)
	setFault(c.state, boatstate.FaultNoShore, !shoreFresh)
	setFault(c.state, boatstate.FaultNoRC, !rcFresh)
	setFault(c.state, boatstate.FaultIMU, !imuFresh)

	if gpsFresh && shoreFresh {
		c.state.SetSelftestSince(time.Time{})
		switch {
		case c.pendingArmedTest:
			c.pendingArmedTest = false
			c.state.SetBoatMode(boatstate.BoatArmedTest)
		case c.priorModes.Auto == boatstate.AutoWaypoint:
			c.enterWaypoint()
		case c.priorModes.Auto == boatstate.AutoReturn:
			c.enterReturn()
		default:
			c.state.SetBoatMode(boatstate.BoatDisarmed)
		}
		return
	}

	if now.Sub(c.state.SelftestSince()) > c.cfg.GetSelftestDelay() {
		onlyShoreStale := !shoreFresh && gpsFresh
		if onlyShoreStale {
			c.state.SetModes(boatstate.Modes{
				Boat: boatstate.BoatNoSignal,
				Nav:  boatstate.NavAutonomous,
				Auto: boatstate.AutoReturn,
			})
			c.lost = signalShore
			c.helm.Reset()
		} else {
			monitoring.Logf("modes: selftest delay exceeded, faults=%v -> FAULT", c.state.Faults.Strings())
			c.state.SetBoatMode(boatstate.BoatFault)
			c.pulseDisarm(now)
		}
	}
}

func setFault(state *boatstate.BoatState, fault string, present bool) {
	if present {
		state.Faults.Insert(fault)
	} else {
		state.Faults.Remove(fault)
	}
}

// blockingFault reports whether state carries a fault that is not the
// benign RC-absent bookkeeping SELFTEST tracks: DISARMED and ARMED both
// only react to these.
func blockingFault(state *boatstate.BoatState) bool {
	return state.Faults.Has(boatstate.FaultNoGNSS) ||
		state.Faults.Has(boatstate.FaultNoShore) ||
		state.Faults.Has(boatstate.FaultIMU) ||
		state.Faults.Has(boatstate.FaultLowBattery) ||
		state.Faults.Has(boatstate.FaultHardware)
}

func (c *Controller) tickDisarmed(now time.Time) {
	c.zeroOutputs()
	if blockingFault(c.state) {
		c.priorModes = c.state.Modes()
		c.state.SetBoatMode(boatstate.BoatFault)
		c.pulseDisarm(now)
		return
	}
	if c.armEdgeConfirmed(now) {
		c.state.SetBoatMode(boatstate.BoatArmed)
		c.helm.Reset()
	}
}

// tickFault holds until the fault set is cleared by an external reset
// (the command dispatcher's ResetFault handler), then re-runs SELFTEST
// rather than assuming the inputs are still good.
func (c *Controller) tickFault(now time.Time) {
	c.zeroOutputs()
	if c.state.Faults.Count() == 0 {
		c.state.SetBoatMode(boatstate.BoatSelftest)
		c.state.SetSelftestSince(now)
	}
}

// tickArmedTest allows bench-test commands (issued out of band by the
// command dispatcher) to drive actuators directly; Tick itself neither
// commands nor zeroes outputs here so a manually-set position holds.
func (c *Controller) tickArmedTest(now time.Time) {
	if c.disarmEdgeConfirmed(now) {
		c.state.SetBoatMode(boatstate.BoatDisarmed)
		c.zeroOutputs()
	}
}

// tickArmedFamily covers BoatArmed and its named aliases BoatManual,
// BoatWaypoint, BoatReturn: all four are "armed, forwarding to Nav",
// differing only in which Nav/Auto/RC combination they were entered
// with.
func (c *Controller) tickArmedFamily(now time.Time, m boatstate.Modes) {
	if c.disarmEdgeConfirmed(now) {
		c.state.SetBoatMode(boatstate.BoatDisarmed)
		c.zeroOutputs()
		return
	}

	if v, ok := c.cachedAnalog.Get(sensors.BatteryVoltage); ok && v < c.cfg.GetBatteryLowVolts() {
		monitoring.Logf("modes: battery %.2fV below %.2fV threshold -> DISARMED", v, c.cfg.GetBatteryLowVolts())
		c.state.Faults.Insert(boatstate.FaultLowBattery)
		c.state.SetBoatMode(boatstate.BoatDisarmed)
		c.zeroOutputs()
		c.pulseDisarm(now)
		return
	}

	shoreFresh := now.Sub(c.state.LastContact()) <= c.cfg.GetShoreTimeout()
	if !shoreFresh {
		c.state.Faults.Insert(boatstate.FaultNoShore)
		c.enterNoSignal(m, signalShore)
		return
	}
	c.state.Faults.Remove(boatstate.FaultNoShore)

	rcDominant := m.Nav == boatstate.NavRC
	if rcDominant {
		rcFresh := !c.state.LastRC().IsZero() && now.Sub(c.state.LastRC()) <= c.cfg.GetRCSenseTimeout()
		if !rcFresh {
			c.state.Faults.Insert(boatstate.FaultNoRC)
			c.enterNoSignal(m, signalRC)
			return
		}
		c.state.Faults.Remove(boatstate.FaultNoRC)
	}

	setFault(c.state, boatstate.FaultIMU, !c.cachedOrientation.Fresh(now, c.cfg.GetIMUFreshWindow()))

	if c.state.Faults.Has(boatstate.FaultIMU) || c.state.Faults.Has(boatstate.FaultHardware) {
		c.state.SetBoatMode(boatstate.BoatFault)
		c.zeroOutputs()
		c.pulseDisarm(now)
		return
	}

	switch m.Nav {
	case boatstate.NavRC:
		c.tickRC(now, m)
	case boatstate.NavAutonomous:
		c.tickAuto(now, m)
	default:
		c.zeroOutputs()
	}
}

func (c *Controller) enterNoSignal(m boatstate.Modes, kind lostSignal) {
	if c.savedModes == nil {
		saved := m
		c.savedModes = &saved
		monitoring.Logf("modes: signal loss (kind=%d) from %s -> NOSIGNAL/RETURN", kind, m.Boat)
	}
	c.lost = kind
	c.state.SetModes(boatstate.Modes{
		Boat: boatstate.BoatNoSignal,
		Nav:  boatstate.NavAutonomous,
		Auto: boatstate.AutoReturn,
	})
	c.helm.Reset()
}

// tickNoSignal drives the autonomous return law toward the launch point
// and restores the saved mode set once the input that triggered the
// loss is fresh again.
func (c *Controller) tickNoSignal(now time.Time) {
	var recovered bool
	switch c.lost {
	case signalShore:
		recovered = now.Sub(c.state.LastContact()) <= c.cfg.GetShoreTimeout()
	case signalRC:
		recovered = !c.state.LastRC().IsZero() && now.Sub(c.state.LastRC()) <= c.cfg.GetRCSenseTimeout()
	}

	if recovered && c.savedModes != nil {
		c.state.Faults.Remove(boatstate.FaultNoShore)
		c.state.Faults.Remove(boatstate.FaultNoRC)
		c.state.SetModes(*c.savedModes)
		c.savedModes = nil
		c.lost = signalNone
		c.helm.Reset()
		return
	}

	c.tickReturnLaw(now)
}

func (c *Controller) enterWaypoint() {
	c.state.SetModes(boatstate.Modes{Boat: boatstate.BoatWaypoint, Nav: boatstate.NavAutonomous, Auto: boatstate.AutoWaypoint})
	c.helm.Reset()
}

func (c *Controller) enterReturn() {
	c.state.SetModes(boatstate.Modes{Boat: boatstate.BoatReturn, Nav: boatstate.NavAutonomous, Auto: boatstate.AutoReturn})
	c.helm.Reset()
}
