package orientation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltwater-robotics/boatcore/internal/geo"
	"github.com/saltwater-robotics/boatcore/internal/timeutil"
)

func TestDeclinationModel_Update_CachesWithinWindow(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	model := NewDeclinationModel(clock, 5*time.Minute)
	loc := geo.NewLocation(47.5, -122.3)

	first, err := model.Update(loc)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	second, err := model.Update(loc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDeclinationModel_Update_RefreshesAfterWindow(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	model := NewDeclinationModel(clock, time.Minute)
	loc := geo.NewLocation(47.5, -122.3)

	_, err := model.Update(loc)
	require.NoError(t, err)
	firstUpdate := model.lastUpdate

	clock.Advance(2 * time.Minute)
	_, err = model.Update(loc)
	require.NoError(t, err)

	assert.True(t, model.lastUpdate.After(firstUpdate))
}

func TestDeclinationModel_Update_RefreshesOnLocationChange(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	model := NewDeclinationModel(clock, time.Hour)

	_, err := model.Update(geo.NewLocation(47.5, -122.3))
	require.NoError(t, err)

	d2, err := model.Update(geo.NewLocation(10, 10))
	require.NoError(t, err)
	assert.NotZero(t, d2)
}

func TestDeclinationModel_Update_InvalidLocationLeavesCacheUnchanged(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	model := NewDeclinationModel(clock, time.Minute)

	good, err := model.Update(geo.NewLocation(47.5, -122.3))
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	unchanged, err := model.Update(geo.NewLocation(200, 200))
	require.ErrorIs(t, err, ErrDeclinationUnavailable)
	assert.Equal(t, good, unchanged)
}

func TestDeclinationModel_Current_BeforeFirstUpdate(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Now())
	model := NewDeclinationModel(clock, time.Minute)
	assert.Zero(t, model.Current())
}
