// Package persist is the boat's on-disk record of everything CTRL saw
// and decided: GPS fixes, AIS contacts, mode transitions, battery
// health, and the commands that were dispatched. It is write-mostly;
// nothing on the control path reads it back.
package persist

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/saltwater-robotics/boatcore/internal/boatstate"
	"github.com/saltwater-robotics/boatcore/internal/geo"
	"github.com/saltwater-robotics/boatcore/internal/sensors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a sqlite database holding the boat's persisted history.
type Store struct {
	*sql.DB
}

// applyPragmas sets the sqlite PRAGMAs this single-writer, many-reader
// workload wants: WAL so the admin routes can query concurrently with
// CTRL's writes, a busy timeout so a momentary lock conflict blocks
// instead of failing outright.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("persist: exec %q: %w", p, err)
		}
	}
	return nil
}

// Open opens (creating if necessary) the sqlite database at path and
// migrates it to the latest schema version.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("persist: open %s: %w", path, err)
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	store := &Store{db}
	if err := store.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// InsertGPSFix logs one GPS fix and returns its monotonic rowid.
func (s *Store) InsertGPSFix(fix sensors.GPSFix) (int64, error) {
	res, err := s.Exec(
		`INSERT INTO gps_fix_log (fix_time, lat, lon, mode, track, speed, altitude, device)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		fix.GPSTime, fix.Fix.Lat, fix.Fix.Lon, int(fix.Mode), fix.Track, fix.Speed, fix.Altitude, fix.Device,
	)
	if err != nil {
		return 0, fmt.Errorf("persist: insert gps fix: %w", err)
	}
	return res.LastInsertId()
}

// InsertAISContact logs one AIS contact observation.
func (s *Store) InsertAISContact(c sensors.AISContact) (int64, error) {
	res, err := s.Exec(
		`INSERT INTO ais_contact_log (mmsi, lat, lon, course, speed, name) VALUES (?, ?, ?, ?, ?, ?)`,
		c.MMSI, c.Fix.Lat, c.Fix.Lon, c.Course, c.Speed, c.Name,
	)
	if err != nil {
		return 0, fmt.Errorf("persist: insert ais contact: %w", err)
	}
	return res.LastInsertId()
}

// InsertStateSnapshot logs the boat's current Boat/Nav/Auto/RC mode
// tuple along with the active fault set, rendered as a comma-joined
// string.
func (s *Store) InsertStateSnapshot(m boatstate.Modes, faults []string) (int64, error) {
	res, err := s.Exec(
		`INSERT INTO boat_state_log (boat_mode, nav_mode, auto_mode, rc_mode, faults) VALUES (?, ?, ?, ?, ?)`,
		m.Boat.String(), m.Nav.String(), m.Auto.String(), m.RC.String(), joinFaults(faults),
	)
	if err != nil {
		return 0, fmt.Errorf("persist: insert state snapshot: %w", err)
	}
	return res.LastInsertId()
}

// InsertHealth logs a battery voltage sample.
func (s *Store) InsertHealth(batteryVolts float64) (int64, error) {
	res, err := s.Exec(`INSERT INTO health_log (battery_volts) VALUES (?)`, batteryVolts)
	if err != nil {
		return 0, fmt.Errorf("persist: insert health: %w", err)
	}
	return res.LastInsertId()
}

// InsertCommand logs a dispatched command for audit/replay.
func (s *Store) InsertCommand(cmd boatstate.Command) error {
	argsJSON, err := json.Marshal(cmd.Args)
	if err != nil {
		return fmt.Errorf("persist: marshal command args: %w", err)
	}
	_, err = s.Exec(`INSERT INTO command_log (command_id, name, args_json) VALUES (?, ?, ?)`,
		cmd.ID.String(), cmd.Name, string(argsJSON))
	if err != nil {
		return fmt.Errorf("persist: insert command: %w", err)
	}
	return nil
}

// GPSFixRecord is one logged row from gps_fix_log.
type GPSFixRecord struct {
	ID         int64
	RecordedAt time.Time
	Fix        geo.Location
}

// RecentGPSFixes returns up to limit of the most recently logged GPS
// fixes, newest first.
func (s *Store) RecentGPSFixes(limit int) ([]GPSFixRecord, error) {
	rows, err := s.Query(
		`SELECT fix_id, recorded_at, lat, lon FROM gps_fix_log ORDER BY fix_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("persist: query recent gps fixes: %w", err)
	}
	defer rows.Close()

	var out []GPSFixRecord
	for rows.Next() {
		var rec GPSFixRecord
		if err := rows.Scan(&rec.ID, &rec.RecordedAt, &rec.Fix.Lat, &rec.Fix.Lon); err != nil {
			return nil, fmt.Errorf("persist: scan gps fix: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func joinFaults(faults []string) string {
	out := ""
	for i, f := range faults {
		if i > 0 {
			out += ","
		}
		out += f
	}
	return out
}
