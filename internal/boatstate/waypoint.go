package boatstate

import (
	"sync"

	"github.com/saltwater-robotics/boatcore/internal/geo"
)

// WaypointAction names what the boat should do on arrival at a waypoint.
type WaypointAction int

const (
	ActionStop WaypointAction = iota
	ActionHome
	ActionContinue
)

func (a WaypointAction) String() string {
	switch a {
	case ActionHome:
		return "HOME"
	case ActionContinue:
		return "CONTINUE"
	default:
		return "STOP"
	}
}

// ParseWaypointAction resolves an action name from the command protocol.
func ParseWaypointAction(name string) (WaypointAction, bool) {
	switch name {
	case "STOP":
		return ActionStop, true
	case "HOME":
		return ActionHome, true
	case "CONTINUE":
		return ActionContinue, true
	default:
		return ActionStop, false
	}
}

// Waypoint is a location annotated with the action to take on arrival.
type Waypoint struct {
	Location geo.Location
	Action   WaypointAction
}

// WaypointList is the ordered sequence of waypoints with a current index.
type WaypointList struct {
	mu    sync.Mutex
	items []Waypoint
	next  int
}

// NewWaypointList returns an empty waypoint list.
func NewWaypointList() *WaypointList {
	return &WaypointList{}
}

// SetAll replaces the waypoint list and resets the index to 0.
func (w *WaypointList) SetAll(items []Waypoint) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = append([]Waypoint(nil), items...)
	w.next = 0
}

// All returns a copy of the full waypoint list.
func (w *WaypointList) All() []Waypoint {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Waypoint, len(w.items))
	copy(out, w.items)
	return out
}

// Len returns the number of waypoints.
func (w *WaypointList) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// Current returns the waypoint at the current index and whether the
// list is exhausted (index has run past the end).
func (w *WaypointList) Current() (Waypoint, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.next < 0 || w.next >= len(w.items) {
		return Waypoint{}, false
	}
	return w.items[w.next], true
}

// Advance moves to the next waypoint index.
func (w *WaypointList) Advance() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.next++
}

// SetIndex jumps directly to index, per the SetWaypoint command.
func (w *WaypointList) SetIndex(index int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if index < 0 || index >= len(w.items) {
		return false
	}
	w.next = index
	return true
}

// SetAction updates the action of the waypoint at index, per the
// SetWaypointAction command.
func (w *WaypointList) SetAction(index int, action WaypointAction) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if index < 0 || index >= len(w.items) {
		return false
	}
	w.items[index].Action = action
	return true
}
