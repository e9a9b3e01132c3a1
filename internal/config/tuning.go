package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/saltwater-robotics/boatcore/internal/security"
)

// DefaultConfigPath is the path to the canonical tuning defaults file,
// overridable by the BOATCORE_CONFIG environment variable.
const DefaultConfigPath = "config/boatcore.defaults.json"

// ConfigPathEnvVar names the environment variable that overrides
// DefaultConfigPath.
const ConfigPathEnvVar = "BOATCORE_CONFIG"

// BoatConfig is the root tuning configuration for the control core.
// Every field is an optional pointer so a partial JSON file can override
// only what it names; Get* accessors fall back to a compiled-in default
// for any field left nil.
type BoatConfig struct {
	// Helm PID gains.
	Kp *float64 `json:"kp,omitempty"`
	Ki *float64 `json:"ki,omitempty"`
	Kd *float64 `json:"kd,omitempty"`

	// Actuator limits.
	RudderMin     *float64 `json:"rudder_min,omitempty"`
	RudderMax     *float64 `json:"rudder_max,omitempty"`
	ThrottleMin   *int     `json:"throttle_min,omitempty"`
	ThrottleMax   *int     `json:"throttle_max,omitempty"`
	ThrottleDwell *string  `json:"throttle_dwell,omitempty"`
	DisarmPulse   *string  `json:"disarm_pulse,omitempty"`

	// Navigation accuracies.
	WaypointAccuracyMeters *float64 `json:"waypoint_accuracy_meters,omitempty"`
	HoldRadiusMeters       *float64 `json:"hold_radius_meters,omitempty"`
	AutoDefaultThrottle    *int     `json:"auto_default_throttle,omitempty"`

	// Freshness windows.
	GPSFreshWindow *string `json:"gps_fresh_window,omitempty"`
	IMUFreshWindow *string `json:"imu_fresh_window,omitempty"`
	RCFreshWindow  *string `json:"rc_fresh_window,omitempty"`
	ShoreTimeout   *string `json:"shore_timeout,omitempty"`
	RCSenseTimeout *string `json:"rc_sense_timeout,omitempty"`
	SelftestDelay  *string `json:"selftest_delay,omitempty"`
	ArmButtonDwell *string `json:"arm_button_dwell,omitempty"`

	// Battery and AIS.
	BatteryLowVolts  *float64 `json:"battery_low_volts,omitempty"`
	AISPruneAgeSecs  *string  `json:"ais_prune_age,omitempty"`
	AISPruneDistance *float64 `json:"ais_prune_distance_nmi,omitempty"`

	// Scheduler.
	FramePeriod     *string `json:"frame_period,omitempty"`
	CommandsPerTick *int    `json:"commands_per_tick,omitempty"`
	GuardedSetWait  *string `json:"guarded_set_wait,omitempty"`

	// Serial collaborators.
	ActuatorBoardPort *string `json:"actuator_board_port,omitempty"`
	ActuatorBoardBaud *int    `json:"actuator_board_baud,omitempty"`
	GPSDPort          *string `json:"gpsd_port,omitempty"`

	// Storage and telemetry surface.
	StoragePath         *string `json:"storage_path,omitempty"`
	TelemetryListenAddr *string `json:"telemetry_listen_addr,omitempty"`
	DumpDir             *string `json:"dump_dir,omitempty"`
}

// EmptyBoatConfig returns a BoatConfig with every field nil, so every
// accessor falls back to its compiled-in default.
func EmptyBoatConfig() *BoatConfig {
	return &BoatConfig{}
}

// LoadBoatConfig loads a BoatConfig from a JSON file. The path must have
// a .json extension, must resolve under the working directory or the
// system temp directory (config files don't live outside the repo/deploy
// tree or a test's scratch dir), and the file must be under 1MB. Fields
// absent from the file keep their compiled-in defaults, so partial
// configs are safe.
func LoadBoatConfig(path string) (*BoatConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}
	if err := security.ValidateExportPath(cleanPath); err != nil {
		return nil, fmt.Errorf("config file path rejected: %w", err)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyBoatConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ResolveConfigPath returns the BOATCORE_CONFIG environment override if
// set, otherwise DefaultConfigPath.
func ResolveConfigPath() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	return DefaultConfigPath
}

// Validate checks that any set fields hold sane values.
func (c *BoatConfig) Validate() error {
	if c.RudderMin != nil && c.RudderMax != nil && *c.RudderMin > *c.RudderMax {
		return fmt.Errorf("rudder_min (%f) must not exceed rudder_max (%f)", *c.RudderMin, *c.RudderMax)
	}
	if c.ThrottleMin != nil && c.ThrottleMax != nil && *c.ThrottleMin > *c.ThrottleMax {
		return fmt.Errorf("throttle_min (%d) must not exceed throttle_max (%d)", *c.ThrottleMin, *c.ThrottleMax)
	}
	if c.WaypointAccuracyMeters != nil && *c.WaypointAccuracyMeters < 0 {
		return fmt.Errorf("waypoint_accuracy_meters must be non-negative, got %f", *c.WaypointAccuracyMeters)
	}
	if c.HoldRadiusMeters != nil && *c.HoldRadiusMeters < 0 {
		return fmt.Errorf("hold_radius_meters must be non-negative, got %f", *c.HoldRadiusMeters)
	}
	if c.BatteryLowVolts != nil && *c.BatteryLowVolts < 0 {
		return fmt.Errorf("battery_low_volts must be non-negative, got %f", *c.BatteryLowVolts)
	}
	durationFields := map[string]*string{
		"throttle_dwell":   c.ThrottleDwell,
		"disarm_pulse":     c.DisarmPulse,
		"gps_fresh_window": c.GPSFreshWindow,
		"imu_fresh_window": c.IMUFreshWindow,
		"rc_fresh_window":  c.RCFreshWindow,
		"shore_timeout":    c.ShoreTimeout,
		"rc_sense_timeout": c.RCSenseTimeout,
		"selftest_delay":   c.SelftestDelay,
		"arm_button_dwell": c.ArmButtonDwell,
		"ais_prune_age":    c.AISPruneAgeSecs,
		"frame_period":     c.FramePeriod,
	}
	for name, v := range durationFields {
		if v != nil && *v != "" {
			if _, err := time.ParseDuration(*v); err != nil {
				return fmt.Errorf("invalid %s %q: %w", name, *v, err)
			}
		}
	}
	return nil
}

func durationOrDefault(v *string, def time.Duration) time.Duration {
	if v == nil || *v == "" {
		return def
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return def
	}
	return d
}

// GetKp returns the proportional helm gain, default 1.0.
func (c *BoatConfig) GetKp() float64 {
	if c.Kp == nil {
		return 1.0
	}
	return *c.Kp
}

// GetKi returns the integral helm gain, default 0.0.
func (c *BoatConfig) GetKi() float64 {
	if c.Ki == nil {
		return 0.0
	}
	return *c.Ki
}

// GetKd returns the derivative helm gain, default 0.1.
func (c *BoatConfig) GetKd() float64 {
	if c.Kd == nil {
		return 0.1
	}
	return *c.Kd
}

// GetRudderMin returns the minimum rudder command in degrees, default -30.
func (c *BoatConfig) GetRudderMin() float64 {
	if c.RudderMin == nil {
		return -30.0
	}
	return *c.RudderMin
}

// GetRudderMax returns the maximum rudder command in degrees, default 30.
func (c *BoatConfig) GetRudderMax() float64 {
	if c.RudderMax == nil {
		return 30.0
	}
	return *c.RudderMax
}

// GetThrottleMin returns the minimum throttle level, default -5.
func (c *BoatConfig) GetThrottleMin() int {
	if c.ThrottleMin == nil {
		return -5
	}
	return *c.ThrottleMin
}

// GetThrottleMax returns the maximum throttle level, default 5.
func (c *BoatConfig) GetThrottleMax() int {
	if c.ThrottleMax == nil {
		return 5
	}
	return *c.ThrottleMax
}

// GetThrottleDwell returns the minimum dwell at zero when the throttle
// sign reverses, default 500ms.
func (c *BoatConfig) GetThrottleDwell() time.Duration {
	return durationOrDefault(c.ThrottleDwell, 500*time.Millisecond)
}

// GetDisarmPulse returns the disarm relay pulse duration, default 50ms.
func (c *BoatConfig) GetDisarmPulse() time.Duration {
	return durationOrDefault(c.DisarmPulse, 50*time.Millisecond)
}

// GetWaypointAccuracyMeters returns the arrival radius for a waypoint,
// default 10m.
func (c *BoatConfig) GetWaypointAccuracyMeters() float64 {
	if c.WaypointAccuracyMeters == nil {
		return 10.0
	}
	return *c.WaypointAccuracyMeters
}

// GetHoldRadiusMeters returns the anchor hold radius, default 15m.
func (c *BoatConfig) GetHoldRadiusMeters() float64 {
	if c.HoldRadiusMeters == nil {
		return 15.0
	}
	return *c.HoldRadiusMeters
}

// GetAutoDefaultThrottle returns the cruise throttle level used by the
// autonomous waypoint/return sub-modes, default 3.
func (c *BoatConfig) GetAutoDefaultThrottle() int {
	if c.AutoDefaultThrottle == nil {
		return 3
	}
	return *c.AutoDefaultThrottle
}

// GetGPSFreshWindow returns the maximum GPS fix age considered fresh,
// default 5s.
func (c *BoatConfig) GetGPSFreshWindow() time.Duration {
	return durationOrDefault(c.GPSFreshWindow, 5*time.Second)
}

// GetIMUFreshWindow returns the maximum orientation sample age considered
// fresh, default 2s.
func (c *BoatConfig) GetIMUFreshWindow() time.Duration {
	return durationOrDefault(c.IMUFreshWindow, 2*time.Second)
}

// GetRCFreshWindow returns the maximum RC frame age considered fresh,
// default 1s.
func (c *BoatConfig) GetRCFreshWindow() time.Duration {
	return durationOrDefault(c.RCFreshWindow, time.Second)
}

// GetShoreTimeout returns how long the shore/telemetry link may go stale
// before NOSIGNAL, default 30s.
func (c *BoatConfig) GetShoreTimeout() time.Duration {
	return durationOrDefault(c.ShoreTimeout, 30*time.Second)
}

// GetRCSenseTimeout returns how long an RC-dominant mode waits for a
// fresh RC frame before NOSIGNAL/FAILSAFE, default 2s.
func (c *BoatConfig) GetRCSenseTimeout() time.Duration {
	return durationOrDefault(c.RCSenseTimeout, 2*time.Second)
}

// GetSelftestDelay returns the maximum time SELFTEST may take before
// giving up, default 30s.
func (c *BoatConfig) GetSelftestDelay() time.Duration {
	return durationOrDefault(c.SelftestDelay, 30*time.Second)
}

// GetArmButtonDwell returns the minimum hold time for an arm/disarm edge
// to register, default 200ms.
func (c *BoatConfig) GetArmButtonDwell() time.Duration {
	return durationOrDefault(c.ArmButtonDwell, 200*time.Millisecond)
}

// GetBatteryLowVolts returns the low-battery threshold, default 11.5V.
func (c *BoatConfig) GetBatteryLowVolts() float64 {
	if c.BatteryLowVolts == nil {
		return 11.5
	}
	return *c.BatteryLowVolts
}

// GetAISPruneAge returns the maximum AIS contact age before pruning,
// default 600s.
func (c *BoatConfig) GetAISPruneAge() time.Duration {
	return durationOrDefault(c.AISPruneAgeSecs, 600*time.Second)
}

// GetAISPruneDistanceMeters returns the maximum AIS contact distance
// before pruning, default 10nmi expressed in meters.
func (c *BoatConfig) GetAISPruneDistanceMeters() float64 {
	if c.AISPruneDistance == nil {
		return 10 * 1852.0
	}
	return *c.AISPruneDistance * 1852.0
}

// GetFramePeriod returns the control loop's fixed tick period, default
// 500ms.
func (c *BoatConfig) GetFramePeriod() time.Duration {
	return durationOrDefault(c.FramePeriod, 500*time.Millisecond)
}

// GetCommandsPerTick returns how many pending shore commands CTRL drains
// per Tick, default 0 (drain the entire queue every tick).
func (c *BoatConfig) GetCommandsPerTick() int {
	if c.CommandsPerTick == nil {
		return 0
	}
	return *c.CommandsPerTick
}

// GetGuardedSetWait returns how long a sensor goroutine retries
// publishing into a Guarded[T] before giving up on a contended write,
// default 50ms.
func (c *BoatConfig) GetGuardedSetWait() time.Duration {
	return durationOrDefault(c.GuardedSetWait, 50*time.Millisecond)
}

// GetActuatorBoardPort returns the serial device path for the relay/servo
// board, default "/dev/ttyACM0".
func (c *BoatConfig) GetActuatorBoardPort() string {
	if c.ActuatorBoardPort == nil {
		return "/dev/ttyACM0"
	}
	return *c.ActuatorBoardPort
}

// GetActuatorBoardBaud returns the actuator board's baud rate, default
// 57600.
func (c *BoatConfig) GetActuatorBoardBaud() int {
	if c.ActuatorBoardBaud == nil {
		return 57600
	}
	return *c.ActuatorBoardBaud
}

// GetGPSDPort returns the gpsd stream address, default
// "localhost:2947".
func (c *BoatConfig) GetGPSDPort() string {
	if c.GPSDPort == nil {
		return "localhost:2947"
	}
	return *c.GPSDPort
}

// GetStoragePath returns the sqlite database path for persisted state,
// default "boatcore.db".
func (c *BoatConfig) GetStoragePath() string {
	if c.StoragePath == nil {
		return "boatcore.db"
	}
	return *c.StoragePath
}

// GetTelemetryListenAddr returns the address the telemetry/command HTTP
// surface binds to, default ":8765".
func (c *BoatConfig) GetTelemetryListenAddr() string {
	if c.TelemetryListenAddr == nil {
		return ":8765"
	}
	return *c.TelemetryListenAddr
}

// GetDumpDir returns the directory diagnostic dump commands write
// into. Empty means "no directory configured" — handlers fall back to
// returning dump content inline instead of writing to disk.
func (c *BoatConfig) GetDumpDir() string {
	if c.DumpDir == nil {
		return ""
	}
	return *c.DumpDir
}
