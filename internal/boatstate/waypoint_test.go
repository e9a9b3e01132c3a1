package boatstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltwater-robotics/boatcore/internal/geo"
)

func TestWaypointList_CurrentAndAdvance(t *testing.T) {
	t.Parallel()

	w := NewWaypointList()
	w.SetAll([]Waypoint{
		{Location: geo.NewLocation(1, 1), Action: ActionContinue},
		{Location: geo.NewLocation(2, 2), Action: ActionStop},
	})

	cur, ok := w.Current()
	require.True(t, ok)
	assert.Equal(t, geo.NewLocation(1, 1), cur.Location)

	w.Advance()
	cur, ok = w.Current()
	require.True(t, ok)
	assert.Equal(t, geo.NewLocation(2, 2), cur.Location)

	w.Advance()
	_, ok = w.Current()
	assert.False(t, ok, "list should be exhausted")
}

func TestWaypointList_SetIndex(t *testing.T) {
	t.Parallel()

	w := NewWaypointList()
	w.SetAll([]Waypoint{
		{Location: geo.NewLocation(1, 1)},
		{Location: geo.NewLocation(2, 2)},
	})

	assert.True(t, w.SetIndex(1))
	cur, ok := w.Current()
	require.True(t, ok)
	assert.Equal(t, geo.NewLocation(2, 2), cur.Location)

	assert.False(t, w.SetIndex(5))
}

func TestWaypointList_SetAction(t *testing.T) {
	t.Parallel()

	w := NewWaypointList()
	w.SetAll([]Waypoint{{Location: geo.NewLocation(1, 1), Action: ActionStop}})

	assert.True(t, w.SetAction(0, ActionHome))
	cur, _ := w.Current()
	assert.Equal(t, ActionHome, cur.Action)

	assert.False(t, w.SetAction(9, ActionHome))
}

func TestWaypointAction_ParseRoundTrip(t *testing.T) {
	t.Parallel()

	for _, a := range []WaypointAction{ActionStop, ActionHome, ActionContinue} {
		parsed, ok := ParseWaypointAction(a.String())
		assert.True(t, ok)
		assert.Equal(t, a, parsed)
	}

	_, ok := ParseWaypointAction("BOGUS")
	assert.False(t, ok)
}
