package boatstate

import (
	"sync"
	"time"

	"github.com/saltwater-robotics/boatcore/internal/geo"
	"github.com/saltwater-robotics/boatcore/internal/orientation"
	"github.com/saltwater-robotics/boatcore/internal/sensors"
)

// PIDGains is the helm's (Kp, Ki, Kd) gain triple. BoatState holds the
// live value; the helm reads it every tick so SetPID commands take
// effect without a restart.
type PIDGains struct {
	Kp float64
	Ki float64
	Kd float64
}

// BoatState is the process-wide control context: current modes, the
// latest sensor snapshots, the fault set, the waypoint list, launch and
// anchor points, PID gains, and the pending command queue. It is
// created once at start-up and lives for the process.
type BoatState struct {
	GPSFix      *Guarded[sensors.GPSFix]
	Orientation *Guarded[orientation.Orientation]
	RC          *Guarded[sensors.RCFrame]
	Analog      *Guarded[sensors.AnalogMap]
	AIS         *Guarded[sensors.AISTable]

	Faults    *FaultSet
	Waypoints *WaypointList
	Commands  *CommandQueue

	modeMu sync.Mutex
	modes  Modes

	pointMu     sync.Mutex
	launchPoint geo.Location
	anchorPoint geo.Location

	gainMu sync.Mutex
	gains  PIDGains

	contactMu    sync.Mutex
	lastContact  time.Time // last shore/telemetry traffic
	lastRC       time.Time
	lastFix      time.Time
	selftestSince time.Time
}

// NewBoatState builds an empty BoatState ready for the scheduler to
// attach input threads and actuators to.
func NewBoatState() *BoatState {
	return &BoatState{
		GPSFix:      NewGuarded(sensors.GPSFix{}),
		Orientation: NewGuarded(orientation.Orientation{}),
		RC:          NewGuarded(sensors.RCFrame{}),
		Analog:      NewGuarded(sensors.AnalogMap{}),
		AIS:         NewGuarded(sensors.AISTable{}),
		Faults:      NewFaultSet(),
		Waypoints:   NewWaypointList(),
		Commands:    NewCommandQueue(),
	}
}

// Modes returns a snapshot of all four mode levels.
func (s *BoatState) Modes() Modes {
	s.modeMu.Lock()
	defer s.modeMu.Unlock()
	return s.modes
}

// SetBoatMode transitions the top-level mode. Only CTRL may call this.
func (s *BoatState) SetBoatMode(m BoatMode) {
	s.modeMu.Lock()
	defer s.modeMu.Unlock()
	s.modes.Boat = m
}

// SetNavMode transitions the nav sub-mode. Only CTRL may call this.
func (s *BoatState) SetNavMode(m NavMode) {
	s.modeMu.Lock()
	defer s.modeMu.Unlock()
	s.modes.Nav = m
}

// SetAutoMode transitions the auto sub-mode. Only CTRL may call this.
func (s *BoatState) SetAutoMode(m AutoMode) {
	s.modeMu.Lock()
	defer s.modeMu.Unlock()
	s.modes.Auto = m
}

// SetRCMode transitions the RC sub-mode. Only CTRL may call this.
func (s *BoatState) SetRCMode(m RCMode) {
	s.modeMu.Lock()
	defer s.modeMu.Unlock()
	s.modes.RC = m
}

// SetModes transitions all four levels atomically, used when entering
// an armed state (e.g. ARMED with Nav=AUTONOMOUS, Auto=WAYPOINT) or
// restoring a prior mode set on NOSIGNAL recovery.
func (s *BoatState) SetModes(m Modes) {
	s.modeMu.Lock()
	defer s.modeMu.Unlock()
	s.modes = m
}

// LaunchPoint returns the recorded launch location.
func (s *BoatState) LaunchPoint() geo.Location {
	s.pointMu.Lock()
	defer s.pointMu.Unlock()
	return s.launchPoint
}

// SetLaunchPoint records the launch location, per the SetHome command.
func (s *BoatState) SetLaunchPoint(l geo.Location) {
	s.pointMu.Lock()
	defer s.pointMu.Unlock()
	s.launchPoint = l
}

// AnchorPoint returns the point ANCHOR mode is holding station around.
func (s *BoatState) AnchorPoint() geo.Location {
	s.pointMu.Lock()
	defer s.pointMu.Unlock()
	return s.anchorPoint
}

// SetAnchorPoint fixes the anchor point, set on entry to ANCHOR mode.
func (s *BoatState) SetAnchorPoint(l geo.Location) {
	s.pointMu.Lock()
	defer s.pointMu.Unlock()
	s.anchorPoint = l
}

// Gains returns the current PID gain triple.
func (s *BoatState) Gains() PIDGains {
	s.gainMu.Lock()
	defer s.gainMu.Unlock()
	return s.gains
}

// SetGains updates the PID gain triple, per the SetPID command.
func (s *BoatState) SetGains(g PIDGains) {
	s.gainMu.Lock()
	defer s.gainMu.Unlock()
	s.gains = g
}

// MarkContact records the time of the most recent shore/telemetry
// traffic, used by the SELFTEST and SHORE_TIMEOUT checks.
func (s *BoatState) MarkContact(t time.Time) {
	s.contactMu.Lock()
	defer s.contactMu.Unlock()
	s.lastContact = t
}

// LastContact returns the time of the most recent shore/telemetry
// traffic.
func (s *BoatState) LastContact() time.Time {
	s.contactMu.Lock()
	defer s.contactMu.Unlock()
	return s.lastContact
}

// MarkRC records the time of the most recent RC frame, used by
// RC_SENSE_TIMEOUT checks independent of RC's own freshness window.
func (s *BoatState) MarkRC(t time.Time) {
	s.contactMu.Lock()
	defer s.contactMu.Unlock()
	s.lastRC = t
}

// LastRC returns the time of the most recent RC frame.
func (s *BoatState) LastRC() time.Time {
	s.contactMu.Lock()
	defer s.contactMu.Unlock()
	return s.lastRC
}

// MarkFix records the time of the most recent GPS fix.
func (s *BoatState) MarkFix(t time.Time) {
	s.contactMu.Lock()
	defer s.contactMu.Unlock()
	s.lastFix = t
}

// LastFix returns the time of the most recent GPS fix.
func (s *BoatState) LastFix() time.Time {
	s.contactMu.Lock()
	defer s.contactMu.Unlock()
	return s.lastFix
}

// SelftestSince returns when the boat entered SELFTEST, used to detect
// SELFTEST_DELAY expiry.
func (s *BoatState) SelftestSince() time.Time {
	s.contactMu.Lock()
	defer s.contactMu.Unlock()
	return s.selftestSince
}

// SetSelftestSince records the SELFTEST entry time.
func (s *BoatState) SetSelftestSince(t time.Time) {
	s.contactMu.Lock()
	defer s.contactMu.Unlock()
	s.selftestSince = t
}
