package actuators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltwater-robotics/boatcore/internal/timeutil"
)

func TestThrottle_SetLevel_RejectsOutOfRange(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Now())
	th := NewThrottle(newRecordingDriver(), clock, -5, 5, 50*time.Millisecond)

	err := th.SetLevel(6)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestThrottle_SetLevel_ZeroClearsAllRelays(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Now())
	driver := newRecordingDriver()
	th := NewThrottle(driver, clock, -5, 5, 50*time.Millisecond)

	require.NoError(t, th.SetLevel(0))
	assert.False(t, driver.relayState(RelayRed))
	assert.False(t, driver.relayState(RelayWhite))
	assert.False(t, driver.relayState(RelayYellow))
}

func TestThrottle_SetLevel_CombinationTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		level  int
		expect map[string]bool
	}{
		{1, map[string]bool{RelayRed: true, RelayWhite: false, RelayYellow: false}},
		{2, map[string]bool{RelayRed: false, RelayWhite: true, RelayYellow: false}},
		{3, map[string]bool{RelayRed: false, RelayWhite: false, RelayYellow: true}},
		{4, map[string]bool{RelayRed: true, RelayWhite: true, RelayYellow: false}},
		{5, map[string]bool{RelayRed: false, RelayWhite: true, RelayYellow: true}},
	}
	clock := timeutil.NewMockClock(time.Now())
	for _, tc := range cases {
		driver := newRecordingDriver()
		th := NewThrottle(driver, clock, -5, 5, 50*time.Millisecond)
		require.NoError(t, th.SetLevel(tc.level))
		for relay, want := range tc.expect {
			assert.Equal(t, want, driver.relayState(relay), "level %d relay %s", tc.level, relay)
		}
		assert.False(t, driver.relayState(RelayDir), "forward direction for positive level")
	}
}

func TestThrottle_SetLevel_NegativeAssertsDirection(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Now())
	driver := newRecordingDriver()
	th := NewThrottle(driver, clock, -5, 5, 50*time.Millisecond)

	require.NoError(t, th.SetLevel(-2))
	assert.True(t, driver.relayState(RelayDir))
	assert.True(t, driver.relayState(RelayWhite))
}

func TestThrottle_SignReversal_ForcesDwellAtZero(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Now())
	driver := newRecordingDriver()
	dwell := 50 * time.Millisecond
	th := NewThrottle(driver, clock, -5, 5, dwell)

	require.NoError(t, th.SetLevel(3))
	assert.True(t, driver.relayState(RelayYellow))

	// Reversing sign should force zero immediately, not the new level.
	require.NoError(t, th.SetLevel(-3))
	assert.False(t, driver.relayState(RelayYellow))
	assert.False(t, driver.relayState(RelayRed))
	assert.False(t, driver.relayState(RelayWhite))

	// Still within the dwell window: requesting -3 again stays at zero.
	clock.Advance(dwell / 2)
	require.NoError(t, th.SetLevel(-3))
	assert.False(t, driver.relayState(RelayYellow))

	// After the dwell elapses, the new level is realized.
	clock.Advance(dwell)
	require.NoError(t, th.SetLevel(-3))
	assert.True(t, driver.relayState(RelayDir))
	assert.True(t, driver.relayState(RelayYellow))
}

func TestThrottle_Position_ReportsLastRealizedLevel(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Now())
	dwell := 50 * time.Millisecond
	th := NewThrottle(newRecordingDriver(), clock, -5, 5, dwell)
	assert.Equal(t, 0, th.Position())

	require.NoError(t, th.SetLevel(3))
	assert.Equal(t, 3, th.Position())

	// A sign reversal realizes zero during the dwell window.
	require.NoError(t, th.SetLevel(-3))
	assert.Equal(t, 0, th.Position())
}

func TestThrottle_SameSignNoReversal_NoDwell(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Now())
	driver := newRecordingDriver()
	th := NewThrottle(driver, clock, -5, 5, 50*time.Millisecond)

	require.NoError(t, th.SetLevel(1))
	require.NoError(t, th.SetLevel(4))
	assert.True(t, driver.relayState(RelayRed))
	assert.True(t, driver.relayState(RelayWhite))
}
