// Package commands implements the static name-to-handler dispatch table
// that drains BoatState's command FIFO: one handler per verb in the
// shore/operator command protocol, each taking the raw argument JSON
// and mutating BoatState or producing a result for a later telemetry
// publish.
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/saltwater-robotics/boatcore/internal/boatstate"
	"github.com/saltwater-robotics/boatcore/internal/fsutil"
	"github.com/saltwater-robotics/boatcore/internal/modes"
	"github.com/saltwater-robotics/boatcore/internal/monitoring"
	"github.com/saltwater-robotics/boatcore/internal/persist"
)

// Handler executes one command against ctx, returning a result to be
// published (nil if the command has no reply) or an error.
type Handler func(ctx *Context, args json.RawMessage) (any, error)

// Context bundles the collaborators a handler may need. Store is
// optional: when nil, executed commands are not logged to persistence;
// no handler reads from it. FS and
// DumpDir are likewise optional: when DumpDir is empty, Dump* handlers
// return their KML/JSON content inline instead of writing it to disk.
type Context struct {
	State      *boatstate.BoatState
	Controller *modes.Controller
	Store      *persist.Store
	FS         fsutil.FileSystem
	DumpDir    string
}

// Dispatcher holds the static command-name-to-handler table and the
// results of the last execution of any non-mutating ("dump"/"fetch")
// command, for telemetry to pick up.
type Dispatcher struct {
	ctx      *Context
	handlers map[string]Handler
	results  *ResultStore
}

// NewDispatcher builds a Dispatcher wired to ctx and registers every
// known command verb.
func NewDispatcher(ctx *Context) *Dispatcher {
	d := &Dispatcher{
		ctx:     ctx,
		results: NewResultStore(),
	}
	d.handlers = map[string]Handler{
		"SetMode":           handleSetMode,
		"SetNavMode":        handleSetNavMode,
		"SetAutoMode":       handleSetAutoMode,
		"SetHome":           handleSetHome,
		"SetWaypoint":       handleSetWaypoint,
		"SetWaypointAction": handleSetWaypointAction,
		"SetPID":            handleSetPID,
		"FetchWaypoints":    handleFetchWaypoints,
		"PushPath":          handlePushPath,
		"DumpPathKML":       handleDumpPathKML,
		"DumpWaypointKML":   handleDumpWaypointKML,
		"DumpObstacleKML":   handleDumpObstacleKML,
		"DumpAIS":           handleDumpAIS,
		"ReverseShell":      handleReverseShell,
		"ResetFault":        handleResetFault,
		"ARMEDTEST":         handleArmedTest,
	}
	return d
}

// Results returns the store handlers write their replies into.
func (d *Dispatcher) Results() *ResultStore {
	return d.results
}

// Drain pops up to n commands from the queue (n<=0 drains all) and
// executes each in arrival order. An unknown command name, or a
// handler error, is logged and the command dropped; the rest of the
// batch still runs.
func (d *Dispatcher) Drain(n int) {
	for _, cmd := range d.ctx.State.Commands.PopN(n) {
		d.execute(cmd)
	}
}

func (d *Dispatcher) execute(cmd boatstate.Command) {
	h, ok := d.handlers[cmd.Name]
	if !ok {
		monitoring.Logf("commands: unknown command %q dropped", cmd.Name)
		return
	}
	raw, ok := cmd.Args.(json.RawMessage)
	if !ok {
		raw = json.RawMessage("{}")
	}
	result, err := h(d.ctx, raw)
	if err != nil {
		monitoring.Logf("commands: %s (id=%s) failed: %v", cmd.Name, cmd.ID, err)
		if d.ctx.Store != nil {
			_ = d.ctx.Store.InsertCommand(cmd)
		}
		return
	}
	if d.ctx.Store != nil {
		_ = d.ctx.Store.InsertCommand(cmd)
	}
	if result != nil {
		d.results.Put(cmd.ID.String(), result)
	}
}

func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("commands: empty arguments")
	}
	return json.Unmarshal(raw, v)
}
