package boatstate

// BoatMode is the top-level operating mode of the vessel.
type BoatMode int

const (
	BoatNone BoatMode = iota
	BoatStart
	BoatSelftest
	BoatDisarmed
	BoatFault
	BoatArmed
	BoatManual
	BoatWaypoint
	BoatNoSignal
	BoatReturn
	BoatArmedTest
)

var boatModeNames = [...]string{
	"NONE", "START", "SELFTEST", "DISARMED", "FAULT", "ARMED",
	"MANUAL", "WAYPOINT", "NOSIGNAL", "RETURN", "ARMEDTEST",
}

func (m BoatMode) String() string {
	if int(m) < 0 || int(m) >= len(boatModeNames) {
		return "NONE"
	}
	return boatModeNames[m]
}

// ParseBoatMode resolves a mode name to its BoatMode, for the command
// protocol's SetMode handler. The ok result is false for unknown names.
func ParseBoatMode(name string) (BoatMode, bool) {
	for i, n := range boatModeNames {
		if n == name {
			return BoatMode(i), true
		}
	}
	return BoatNone, false
}

// NavMode is the navigation sub-mode nested under an armed Boat mode.
type NavMode int

const (
	NavNone NavMode = iota
	NavIdle
	NavFault
	NavRC
	NavAutonomous
)

var navModeNames = [...]string{"NONE", "IDLE", "FAULT", "RC", "AUTONOMOUS"}

func (m NavMode) String() string {
	if int(m) < 0 || int(m) >= len(navModeNames) {
		return "NONE"
	}
	return navModeNames[m]
}

// ParseNavMode resolves a mode name to its NavMode.
func ParseNavMode(name string) (NavMode, bool) {
	for i, n := range navModeNames {
		if n == name {
			return NavMode(i), true
		}
	}
	return NavNone, false
}

// AutoMode is the autonomous navigation sub-mode nested under Nav=AUTONOMOUS.
type AutoMode int

const (
	AutoNone AutoMode = iota
	AutoIdle
	AutoWaypoint
	AutoReturn
	AutoAnchor
)

var autoModeNames = [...]string{"NONE", "IDLE", "WAYPOINT", "RETURN", "ANCHOR"}

func (m AutoMode) String() string {
	if int(m) < 0 || int(m) >= len(autoModeNames) {
		return "NONE"
	}
	return autoModeNames[m]
}

// ParseAutoMode resolves a mode name to its AutoMode.
func ParseAutoMode(name string) (AutoMode, bool) {
	for i, n := range autoModeNames {
		if n == name {
			return AutoMode(i), true
		}
	}
	return AutoNone, false
}

// RCMode is the RC sub-mode nested under Nav=RC.
type RCMode int

const (
	RCNone RCMode = iota
	RCIdle
	RCRudder
	RCCourse
	RCFailsafe
)

var rcModeNames = [...]string{"NONE", "IDLE", "RUDDER", "COURSE", "FAILSAFE"}

func (m RCMode) String() string {
	if int(m) < 0 || int(m) >= len(rcModeNames) {
		return "NONE"
	}
	return rcModeNames[m]
}

// ParseRCMode resolves a mode name to its RCMode.
func ParseRCMode(name string) (RCMode, bool) {
	for i, n := range rcModeNames {
		if n == name {
			return RCMode(i), true
		}
	}
	return RCNone, false
}

// Modes is a point-in-time snapshot of all four mode levels, used for
// telemetry ("Mode" topic: boat:nav:auto:rc) and for restoring a prior
// mode on NOSIGNAL recovery.
type Modes struct {
	Boat BoatMode
	Nav  NavMode
	Auto AutoMode
	RC   RCMode
}
