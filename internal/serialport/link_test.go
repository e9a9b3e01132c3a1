package serialport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink_Monitor_ScansLines(t *testing.T) {
	t.Parallel()

	port := NewMockPort([]byte("line one\nline two\n"))
	link := NewLink(port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- link.Monitor(ctx) }()

	select {
	case got := <-link.Lines():
		assert.Equal(t, "line one", got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for first line")
	}

	select {
	case got := <-link.Lines():
		assert.Equal(t, "line two", got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for second line")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Monitor did not exit after cancellation")
	}
}

func TestLink_SendLine_WritesToPort(t *testing.T) {
	t.Parallel()

	port := NewMockPort(nil)
	link := NewLink(port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go link.Monitor(ctx)

	link.SendLine([]byte("ping"))

	assert.Eventually(t, func() bool {
		return len(port.Written()) > 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.Equal(t, [][]byte{[]byte("ping")}, port.Written())
}

func TestLink_Close_ClosesPort(t *testing.T) {
	t.Parallel()

	port := NewMockPort(nil)
	link := NewLink(port)
	require.NoError(t, link.Close())
	assert.True(t, port.Closed())
}
