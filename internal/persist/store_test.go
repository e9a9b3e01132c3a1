package persist

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltwater-robotics/boatcore/internal/boatstate"
	"github.com/saltwater-robotics/boatcore/internal/geo"
	"github.com/saltwater-robotics/boatcore/internal/sensors"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boatcore.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_MigratesToLatestVersion(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	version, dirty, err := s.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)
}

func TestInsertGPSFix_AssignsMonotonicRowID(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	fix := sensors.GPSFix{
		GPSTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Mode:    sensors.Fix3D,
		Fix:     geo.NewLocation(47.5, -122.3),
		Track:   90,
		Speed:   2.5,
	}

	id1, err := s.InsertGPSFix(fix)
	require.NoError(t, err)
	id2, err := s.InsertGPSFix(fix)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	recent, err := s.RecentGPSFixes(10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, id2, recent[0].ID)
	assert.InDelta(t, 47.5, recent[0].Fix.Lat, 1e-9)
}

func TestInsertStateSnapshot_RecordsFaultsJoined(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	modes := boatstate.Modes{
		Boat: boatstate.BoatWaypoint,
		Nav:  boatstate.NavAutonomous,
		Auto: boatstate.AutoWaypoint,
	}
	id, err := s.InsertStateSnapshot(modes, []string{boatstate.FaultNoRC})
	require.NoError(t, err)
	assert.Positive(t, id)

	var boatMode, faults string
	row := s.QueryRow("SELECT boat_mode, faults FROM boat_state_log WHERE state_id = ?", id)
	require.NoError(t, row.Scan(&boatMode, &faults))
	assert.Equal(t, "WAYPOINT", boatMode)
	assert.Equal(t, boatstate.FaultNoRC, faults)
}

func TestInsertCommand_RoundTripsArgs(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	cmd := boatstate.NewCommand("SetPID", map[string]float64{"kp": 1.5})
	require.NoError(t, s.InsertCommand(cmd))

	var name, argsJSON string
	row := s.QueryRow("SELECT name, args_json FROM command_log WHERE command_id = ?", cmd.ID.String())
	require.NoError(t, row.Scan(&name, &argsJSON))
	assert.Equal(t, "SetPID", name)
	assert.Contains(t, argsJSON, "1.5")
}

func TestInsertHealth_Persists(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	id, err := s.InsertHealth(12.4)
	require.NoError(t, err)

	var volts float64
	row := s.QueryRow("SELECT battery_volts FROM health_log WHERE health_id = ?", id)
	require.NoError(t, row.Scan(&volts))
	assert.Equal(t, 12.4, volts)
}

func TestInsertAISContact_Persists(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	contact := sensors.AISContact{
		MMSI: 123456789,
		Fix:  geo.NewLocation(47.6, -122.4),
		Name: "SOUNDER",
	}
	id, err := s.InsertAISContact(contact)
	require.NoError(t, err)
	assert.Positive(t, id)
}
