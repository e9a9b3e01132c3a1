package commands

import (
	"encoding/json"
	"fmt"

	"github.com/saltwater-robotics/boatcore/internal/boatstate"
	"github.com/saltwater-robotics/boatcore/internal/geo"
	"github.com/saltwater-robotics/boatcore/internal/sensors"
)

type modeArgs struct {
	Mode string `json:"mode"`
}

func handleSetMode(ctx *Context, raw json.RawMessage) (any, error) {
	var a modeArgs
	if err := decodeArgs(raw, &a); err != nil {
		return nil, err
	}
	m, ok := boatstate.ParseBoatMode(a.Mode)
	if !ok {
		return nil, fmt.Errorf("commands: unknown boat mode %q", a.Mode)
	}
	ctx.Controller.RequestBoatMode(m)
	return nil, nil
}

func handleSetNavMode(ctx *Context, raw json.RawMessage) (any, error) {
	var a modeArgs
	if err := decodeArgs(raw, &a); err != nil {
		return nil, err
	}
	m, ok := boatstate.ParseNavMode(a.Mode)
	if !ok {
		return nil, fmt.Errorf("commands: unknown nav mode %q", a.Mode)
	}
	ctx.Controller.RequestNavMode(m)
	return nil, nil
}

func handleSetAutoMode(ctx *Context, raw json.RawMessage) (any, error) {
	var a modeArgs
	if err := decodeArgs(raw, &a); err != nil {
		return nil, err
	}
	m, ok := boatstate.ParseAutoMode(a.Mode)
	if !ok {
		return nil, fmt.Errorf("commands: unknown auto mode %q", a.Mode)
	}
	ctx.Controller.RequestAutoMode(m)
	return nil, nil
}

// setHomeArgs is deliberately all-pointer: an empty {} body means "use
// the current GPS fix", matching the command protocol's SetHome
// either-or argument shape.
type setHomeArgs struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

func handleSetHome(ctx *Context, raw json.RawMessage) (any, error) {
	var a setHomeArgs
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("commands: decode SetHome args: %w", err)
		}
	}
	if a.Lat != nil && a.Lon != nil {
		loc := geo.NewLocation(*a.Lat, *a.Lon)
		if !loc.IsValid() {
			return nil, fmt.Errorf("commands: invalid home location %v,%v", *a.Lat, *a.Lon)
		}
		ctx.Controller.RequestHome(loc)
		return nil, nil
	}
	fix := ctx.State.GPSFix.Get()
	if !fix.Fix.IsValid() {
		return nil, fmt.Errorf("commands: no current GPS fix to use as home")
	}
	ctx.Controller.RequestHome(fix.Fix)
	return nil, nil
}

type waypointIndexArgs struct {
	Index int `json:"index"`
}

func handleSetWaypoint(ctx *Context, raw json.RawMessage) (any, error) {
	var a waypointIndexArgs
	if err := decodeArgs(raw, &a); err != nil {
		return nil, err
	}
	if !ctx.State.Waypoints.SetIndex(a.Index) {
		return nil, fmt.Errorf("commands: waypoint index %d out of range", a.Index)
	}
	return nil, nil
}

type waypointActionArgs struct {
	Index  int    `json:"index"`
	Action string `json:"action"`
}

func handleSetWaypointAction(ctx *Context, raw json.RawMessage) (any, error) {
	var a waypointActionArgs
	if err := decodeArgs(raw, &a); err != nil {
		return nil, err
	}
	action, ok := boatstate.ParseWaypointAction(a.Action)
	if !ok {
		return nil, fmt.Errorf("commands: unknown waypoint action %q", a.Action)
	}
	if !ctx.State.Waypoints.SetAction(a.Index, action) {
		return nil, fmt.Errorf("commands: waypoint index %d out of range", a.Index)
	}
	return nil, nil
}

type pidArgs struct {
	Kp float64 `json:"kp"`
	Ki float64 `json:"ki"`
	Kd float64 `json:"kd"`
}

func handleSetPID(ctx *Context, raw json.RawMessage) (any, error) {
	var a pidArgs
	if err := decodeArgs(raw, &a); err != nil {
		return nil, err
	}
	ctx.State.SetGains(boatstate.PIDGains{Kp: a.Kp, Ki: a.Ki, Kd: a.Kd})
	return nil, nil
}

// waypointDTO is the wire shape FetchWaypoints replies with.
type waypointDTO struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Action string  `json:"action"`
}

func handleFetchWaypoints(ctx *Context, _ json.RawMessage) (any, error) {
	all := ctx.State.Waypoints.All()
	out := make([]waypointDTO, len(all))
	for i, w := range all {
		out[i] = waypointDTO{Lat: w.Location.Lat, Lon: w.Location.Lon, Action: w.Action.String()}
	}
	return out, nil
}

type pushPathArgs struct {
	Path [][2]float64 `json:"path"`
}

// handlePushPath replaces the waypoint list with path, each point
// taking ActionContinue except the last, which takes ActionStop so the
// boat holds station on arrival unless a later SetWaypointAction
// overrides it.
func handlePushPath(ctx *Context, raw json.RawMessage) (any, error) {
	var a pushPathArgs
	if err := decodeArgs(raw, &a); err != nil {
		return nil, err
	}
	if len(a.Path) == 0 {
		return nil, fmt.Errorf("commands: PushPath requires at least one point")
	}
	waypoints := make([]boatstate.Waypoint, len(a.Path))
	for i, p := range a.Path {
		loc := geo.NewLocation(p[0], p[1])
		if !loc.IsValid() {
			return nil, fmt.Errorf("commands: invalid path point %v", p)
		}
		action := boatstate.ActionContinue
		if i == len(a.Path)-1 {
			action = boatstate.ActionStop
		}
		waypoints[i] = boatstate.Waypoint{Location: loc, Action: action}
	}
	ctx.State.Waypoints.SetAll(waypoints)
	return nil, nil
}

func handleDumpPathKML(ctx *Context, raw json.RawMessage) (any, error) {
	return writeDump(ctx, raw, "path.kml", waypointsToPathKML(ctx.State.Waypoints.All()))
}

func handleDumpWaypointKML(ctx *Context, raw json.RawMessage) (any, error) {
	return writeDump(ctx, raw, "waypoints.kml", waypointsToKML(ctx.State.Waypoints.All()))
}

// handleDumpObstacleKML treats every currently tracked AIS contact as
// an obstacle.
func handleDumpObstacleKML(ctx *Context, raw json.RawMessage) (any, error) {
	table := ctx.State.AIS.Get()
	contacts := make([]sensors.AISContact, 0, len(table))
	for _, c := range table {
		contacts = append(contacts, c)
	}
	return writeDump(ctx, raw, "obstacles.kml", aisToKML(contacts))
}

func handleDumpAIS(ctx *Context, raw json.RawMessage) (any, error) {
	table := ctx.State.AIS.Get()
	out := make([]aisDTO, 0, len(table))
	for _, c := range table {
		out = append(out, aisDTO{
			MMSI:  c.MMSI,
			Name:  c.Name,
			Lat:   c.Fix.Lat,
			Lon:   c.Fix.Lon,
			Speed: c.Speed,
		})
	}
	encoded, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("commands: encode AIS dump: %w", err)
	}
	return writeDump(ctx, raw, "ais.json", string(encoded))
}

type aisDTO struct {
	MMSI  int     `json:"mmsi"`
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Speed float64 `json:"speed"`
}

// ReverseShell is accepted only while the boat cannot be underway, so a
// stuck maintenance session can never block an armed vessel from
// responding to its own safety logic.
func handleReverseShell(ctx *Context, _ json.RawMessage) (any, error) {
	m := ctx.State.Modes().Boat
	if m != boatstate.BoatDisarmed && m != boatstate.BoatArmedTest {
		return nil, fmt.Errorf("commands: ReverseShell refused in mode %s", m)
	}
	// TODO: hand off to the supervisor's maintenance tunnel once that
	// service exists; for now this only records that the request was
	// accepted.
	return nil, nil
}

func handleResetFault(ctx *Context, _ json.RawMessage) (any, error) {
	ctx.State.Faults.Clear()
	return nil, nil
}

func handleArmedTest(ctx *Context, _ json.RawMessage) (any, error) {
	ctx.Controller.RequestArmedTest()
	return nil, nil
}
