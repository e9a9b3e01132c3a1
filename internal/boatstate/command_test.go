package boatstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandQueue_PushPop_FIFO(t *testing.T) {
	t.Parallel()

	q := NewCommandQueue()
	q.Push(NewCommand("SetMode", nil))
	q.Push(NewCommand("SetHome", nil))

	first, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "SetMode", first.Name)

	second, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "SetHome", second.Name)

	_, ok = q.Pop()
	assert.False(t, ok)
}

// after a push followed by popping one command, the queue length decreases by 1.
func TestCommandQueue_PopN_DecreasesLen(t *testing.T) {
	t.Parallel()

	q := NewCommandQueue()
	q.Push(NewCommand("SetMode", nil))
	before := q.Len()

	popped := q.PopN(1)
	assert.Len(t, popped, 1)
	assert.Equal(t, before-1, q.Len())
}

func TestCommandQueue_PopN_DrainsAllWhenZeroOrNegative(t *testing.T) {
	t.Parallel()

	q := NewCommandQueue()
	q.Push(NewCommand("A", nil))
	q.Push(NewCommand("B", nil))
	q.Push(NewCommand("C", nil))

	popped := q.PopN(0)
	assert.Len(t, popped, 3)
	assert.Zero(t, q.Len())
}

func TestCommandQueue_PopN_MoreThanAvailable(t *testing.T) {
	t.Parallel()

	q := NewCommandQueue()
	q.Push(NewCommand("A", nil))

	popped := q.PopN(10)
	assert.Len(t, popped, 1)
}

func TestNewCommand_UniqueIDs(t *testing.T) {
	t.Parallel()

	a := NewCommand("SetMode", nil)
	b := NewCommand("SetMode", nil)
	assert.NotEqual(t, a.ID, b.ID)
}
