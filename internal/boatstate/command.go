package boatstate

import (
	"sync"

	"github.com/google/uuid"
)

// Command is a single parsed instruction from the shore link or an
// operator console. ID is a correlation identifier for logging and
// diagnostic dumps; it has no wire representation.
type Command struct {
	ID   uuid.UUID
	Name string
	Args any
}

// NewCommand builds a Command with a fresh correlation ID.
func NewCommand(name string, args any) Command {
	return Command{ID: uuid.New(), Name: name, Args: args}
}

// CommandQueue is the MPSC FIFO of pending commands: any number of
// telemetry producers push, only CTRL pops.
type CommandQueue struct {
	mu    sync.Mutex
	items []Command
}

// NewCommandQueue returns an empty queue.
func NewCommandQueue() *CommandQueue {
	return &CommandQueue{}
}

// Push enqueues cmd at the tail.
func (q *CommandQueue) Push(cmd Command) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, cmd)
}

// Pop removes and returns the head command. ok is false if the queue is
// empty.
func (q *CommandQueue) Pop() (Command, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Command{}, false
	}
	cmd := q.items[0]
	q.items = q.items[1:]
	return cmd, true
}

// PopN removes and returns up to n commands in arrival order. Passing
// n <= 0 drains the entire queue, matching the scheduler's default of
// draining all pending commands per tick.
func (q *CommandQueue) PopN(n int) []Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n <= 0 || n > len(q.items) {
		n = len(q.items)
	}
	out := make([]Command, n)
	copy(out, q.items[:n])
	q.items = q.items[n:]
	return out
}

// Len returns the number of pending commands.
func (q *CommandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
