package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltwater-robotics/boatcore/internal/actuators"
	"github.com/saltwater-robotics/boatcore/internal/boatstate"
	"github.com/saltwater-robotics/boatcore/internal/commands"
	"github.com/saltwater-robotics/boatcore/internal/config"
	"github.com/saltwater-robotics/boatcore/internal/geo"
	"github.com/saltwater-robotics/boatcore/internal/modes"
	"github.com/saltwater-robotics/boatcore/internal/sensors"
	"github.com/saltwater-robotics/boatcore/internal/timeutil"
)

type nullDriver struct{}

func (nullDriver) SetRelay(name string, on bool) error { return nil }
func (nullDriver) SetPosition(deg float64) error       { return nil }

func newTestScheduler(t *testing.T) (*Scheduler, *boatstate.BoatState, *timeutil.MockClock) {
	t.Helper()
	state := boatstate.NewBoatState()
	cfg := config.EmptyBoatConfig()
	clock := timeutil.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	var driver nullDriver

	out := modes.Outputs{
		Rudder:      actuators.NewRudder(driver, cfg.GetRudderMin(), cfg.GetRudderMax()),
		Throttle:    actuators.NewThrottle(driver, clock, cfg.GetThrottleMin(), cfg.GetThrottleMax(), cfg.GetThrottleDwell()),
		Horn:        actuators.NewHorn(driver),
		ServoEnable: actuators.NewServoEnable(driver),
		Disarm:      actuators.NewDisarmLine(driver, clock, cfg.GetDisarmPulse()),
	}
	ctrl := modes.NewController(state, cfg, clock, out)
	dispatcher := commands.NewDispatcher(&commands.Context{State: state, Controller: ctrl})

	s := New(state, cfg, clock, ctrl, dispatcher, nil, nil, Inputs{})
	return s, state, clock
}

func TestScheduler_RunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestScheduler(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}

func TestScheduler_CtrlTicksAdvanceBoatMode(t *testing.T) {
	t.Parallel()

	s, state, clock := newTestScheduler(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.runCtrl(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		clock.Advance(s.cfg.GetFramePeriod())
		return state.Modes().Boat == boatstate.BoatSelftest
	}, time.Second, time.Millisecond)

	cancel()
	<-done
}

func TestScheduler_OnFixPublishesAndMarksFresh(t *testing.T) {
	t.Parallel()

	s, state, clock := newTestScheduler(t)
	fix := sensors.GPSFix{Fix: geo.NewLocation(47.0, -122.0), FixValid: true, RecordTime: clock.Now()}
	s.onFix(fix)

	got, ok := state.GPSFix.TryGet()
	require.True(t, ok)
	assert.Equal(t, 47.0, got.Fix.Lat)
	assert.Equal(t, clock.Now(), state.LastFix())
}

func TestScheduler_OnAISUpsertsContact(t *testing.T) {
	t.Parallel()

	s, state, _ := newTestScheduler(t)
	s.onAIS(sensors.AISContact{MMSI: 42, Fix: geo.NewLocation(1, 2)})

	table := state.AIS.Get()
	contact, ok := table[42]
	require.True(t, ok)
	assert.Equal(t, 1.0, contact.Fix.Lat)
}

func TestParseRCFrame_ValidLine(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	frame, err := parseRCFrame("0.5,-0.25,90,COURSE,1,0", now)
	require.NoError(t, err)
	assert.Equal(t, 0.5, frame.Throttle)
	assert.Equal(t, -0.25, frame.Rudder)
	assert.Equal(t, 90.0, frame.CourseTarget)
	assert.Equal(t, "COURSE", frame.ModeSelect)
	assert.True(t, frame.ArmEdge)
	assert.False(t, frame.DisarmEdge)
}

func TestParseRCFrame_WrongFieldCount(t *testing.T) {
	t.Parallel()

	_, err := parseRCFrame("0.5,0.1", time.Now())
	assert.Error(t, err)
}

func TestParseOrientation_ValidLine(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	o, err := parseOrientation("1.5,-2.5,88.0,1", now)
	require.NoError(t, err)
	assert.Equal(t, 1.5, o.Roll)
	assert.Equal(t, -2.5, o.Pitch)
	assert.Equal(t, 88.0, o.Heading)
	assert.True(t, o.Magnetic)
	assert.Equal(t, now, o.RecordTime)
}

func TestParseAnalogMap_ValidLine(t *testing.T) {
	t.Parallel()

	m, err := parseAnalogMap("mot_i=1.2,battery_mon=12.4")
	require.NoError(t, err)
	v, ok := m.Get("battery_mon")
	require.True(t, ok)
	assert.Equal(t, 12.4, v)
}

func TestParseAnalogMap_MalformedPairErrors(t *testing.T) {
	t.Parallel()

	_, err := parseAnalogMap("mot_i")
	assert.Error(t, err)
}
