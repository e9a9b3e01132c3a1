// Package telemetry is the boat's HTTP surface: shore sends commands in,
// the boat publishes its current state, waypoint list, and tracked AIS
// contacts out. It only ever enqueues onto BoatState's command FIFO; it
// never touches actuators or the mode machinery directly.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/saltwater-robotics/boatcore/internal/actuators"
	"github.com/saltwater-robotics/boatcore/internal/boatstate"
	"github.com/saltwater-robotics/boatcore/internal/commands"
	"github.com/saltwater-robotics/boatcore/internal/httputil"
	"github.com/saltwater-robotics/boatcore/internal/monitoring"
	"github.com/saltwater-robotics/boatcore/internal/persist"
	"github.com/saltwater-robotics/boatcore/internal/sensors"
	"github.com/saltwater-robotics/boatcore/internal/version"
)

// allowedCommands is the full set of verbs the command endpoint accepts;
// anything else is rejected before it ever reaches the queue.
var allowedCommands = map[string]bool{
	"SetMode": true, "SetNavMode": true, "SetAutoMode": true,
	"SetHome": true, "SetWaypoint": true, "SetWaypointAction": true,
	"SetPID": true, "FetchWaypoints": true, "PushPath": true,
	"DumpPathKML": true, "DumpWaypointKML": true, "DumpObstacleKML": true,
	"DumpAIS": true, "ReverseShell": true, "ResetFault": true, "ARMEDTEST": true,
}

// Server is the shore-facing HTTP endpoint. Its actuator handles are
// only read for /state positions: command bodies are parsed and pushed
// onto state.Commands,
// and results/telemetry are read back out of state and the dispatcher's
// ResultStore.
type Server struct {
	state    *boatstate.BoatState
	results  *commands.ResultStore
	store    *persist.Store
	mux      *http.ServeMux
	rudder   *actuators.Rudder
	throttle *actuators.Throttle
}

// NewServer builds a Server over state. results is optional: when nil,
// the /result endpoint always reports not-found. store is optional:
// when nil, admin routes are not attached. rudder/throttle are optional:
// when nil, /state reports their position fields as zero.
func NewServer(state *boatstate.BoatState, results *commands.ResultStore, store *persist.Store, rudder *actuators.Rudder, throttle *actuators.Throttle) *Server {
	return &Server{state: state, results: results, store: store, rudder: rudder, throttle: throttle}
}

// ServeMux returns the handler tree, building it on first use so a
// caller can attach additional routes (e.g. persist's admin routes)
// before Start is called.
func (s *Server) ServeMux() *http.ServeMux {
	if s.mux != nil {
		return s.mux
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/command", s.handleCommand)
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/waypoints", s.handleWaypoints)
	mux.HandleFunc("/ais", s.handleAIS)
	mux.HandleFunc("/result/", s.handleResult)
	mux.HandleFunc("/healthz", s.handleHealthz)
	if s.store != nil {
		if err := s.store.AttachAdminRoutes(mux); err != nil {
			monitoring.Logf("telemetry: admin routes not attached: %v", err)
		}
	}
	s.mux = mux
	return mux
}

// commandEnvelope is the wire shape POSTed to /command: a verb name and
// opaque, verb-specific arguments, pushed onto the FIFO unparsed and
// interpreted later by internal/commands' dispatcher.
type commandEnvelope struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

type commandAccepted struct {
	ID string `json:"id"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	var env commandEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid command body: %v", err))
		return
	}
	if !allowedCommands[env.Name] {
		httputil.BadRequest(w, fmt.Sprintf("unknown command %q", env.Name))
		return
	}
	args := env.Args
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	cmd := boatstate.NewCommand(env.Name, args)
	s.state.Commands.Push(cmd)
	s.state.MarkContact(time.Now())
	httputil.WriteJSON(w, http.StatusAccepted, commandAccepted{ID: cmd.ID.String()})
}

// stateDTO is the /state reply shape: the four mode levels, active
// faults, launch/anchor points, PID gains, and the navigation/actuator
// telemetry topics published alongside them.
type stateDTO struct {
	Boat              string   `json:"boat_mode"`
	Nav               string   `json:"nav_mode"`
	Auto              string   `json:"auto_mode"`
	RC                string   `json:"rc_mode"`
	Faults            []string `json:"faults"`
	LaunchLat         float64  `json:"launch_lat"`
	LaunchLon         float64  `json:"launch_lon"`
	Kp                float64  `json:"kp"`
	Ki                float64  `json:"ki"`
	Kd                float64  `json:"kd"`
	LastFixAgo        float64  `json:"last_fix_seconds_ago"`
	LastRCAgo         float64  `json:"last_rc_seconds_ago"`
	SpeedLocation     float64  `json:"speed_location"`
	Bearing           float64  `json:"bearing"`
	MagneticHeading   bool     `json:"magnetic_heading"`
	GPSCourse         float64  `json:"gps_course"`
	BatteryVoltage    float64  `json:"battery_voltage"`
	RudderPosition    float64  `json:"rudder_position"`
	ThrottlePosition  int      `json:"throttle_position"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	m := s.state.Modes()
	launch := s.state.LaunchPoint()
	gains := s.state.Gains()
	fix := s.state.GPSFix.Get()
	o := s.state.Orientation.Get()
	analog := s.state.Analog.Get()
	batteryVoltage, _ := analog.Get(sensors.BatteryVoltage)
	now := time.Now()

	var rudderPos float64
	if s.rudder != nil {
		rudderPos = s.rudder.Position()
	}
	var throttlePos int
	if s.throttle != nil {
		throttlePos = s.throttle.Position()
	}

	httputil.WriteJSONOK(w, stateDTO{
		Boat: m.Boat.String(), Nav: m.Nav.String(), Auto: m.Auto.String(), RC: m.RC.String(),
		Faults:           s.state.Faults.Strings(),
		LaunchLat:        launch.Lat,
		LaunchLon:        launch.Lon,
		Kp:               gains.Kp,
		Ki:               gains.Ki,
		Kd:               gains.Kd,
		LastFixAgo:       now.Sub(s.state.LastFix()).Seconds(),
		LastRCAgo:        now.Sub(s.state.LastRC()).Seconds(),
		SpeedLocation:    fix.Speed,
		Bearing:          o.Heading,
		MagneticHeading:  o.Magnetic,
		GPSCourse:        fix.Track,
		BatteryVoltage:   batteryVoltage,
		RudderPosition:   rudderPos,
		ThrottlePosition: throttlePos,
	})
}

func (s *Server) handleWaypoints(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	all := s.state.Waypoints.All()
	type wp struct {
		Lat    float64 `json:"lat"`
		Lon    float64 `json:"lon"`
		Action string  `json:"action"`
	}
	out := make([]wp, len(all))
	for i, w2 := range all {
		out[i] = wp{Lat: w2.Location.Lat, Lon: w2.Location.Lon, Action: w2.Action.String()}
	}
	httputil.WriteJSONOK(w, out)
}

func (s *Server) handleAIS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	table := s.state.AIS.Get()
	type contact struct {
		MMSI int     `json:"mmsi"`
		Name string  `json:"name"`
		Lat  float64 `json:"lat"`
		Lon  float64 `json:"lon"`
	}
	out := make([]contact, 0, len(table))
	for _, c := range table {
		out = append(out, contact{MMSI: c.MMSI, Name: c.Name, Lat: c.Fix.Lat, Lon: c.Fix.Lon})
	}
	httputil.WriteJSONOK(w, out)
}

// handleResult serves the reply of a previously dispatched command,
// keyed by the correlation ID /command returned. A command with no
// reply (most mutating verbs) or one still pending reports 404.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/result/")
	if id == "" {
		httputil.BadRequest(w, "missing command id")
		return
	}
	if s.results == nil {
		httputil.NotFound(w, "no result available")
		return
	}
	result, ok := s.results.Take(id)
	if !ok {
		httputil.NotFound(w, "result not ready or unknown command id")
		return
	}
	httputil.WriteJSONOK(w, result)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]string{
		"status":     "ok",
		"version":    version.Version,
		"git_sha":    version.GitSHA,
		"build_time": version.BuildTime,
	})
}

// loggingMiddleware logs method, path, status, and duration for every
// request, the same fields the teacher's LoggingMiddleware records.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf("telemetry: %s %s %d %s", r.Method, r.URL.Path, lrw.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Start runs the HTTP server on listen until ctx is cancelled, then
// shuts it down gracefully with a bounded timeout.
func (s *Server) Start(ctx context.Context, listen string) error {
	server := &http.Server{
		Addr:    listen,
		Handler: loggingMiddleware(s.ServeMux()),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("telemetry: shutdown error: %v", err)
			if cerr := server.Close(); cerr != nil {
				return cerr
			}
		}
		return nil
	case err := <-errCh:
		return err
	}
}
