package serialport

import (
	"bufio"
	"context"
	"io"

	"go.bug.st/serial"

	"github.com/saltwater-robotics/boatcore/internal/monitoring"
)

// Port is a transport a Link can monitor: a readable, writable, closable
// byte stream. go.bug.st/serial's serial.Port satisfies it.
type Port interface {
	io.ReadWriteCloser
}

// Link wraps a Port with a non-blocking line-oriented monitor loop: it
// scans inbound lines onto Lines() while draining a write queue fed by
// SendLine, so a single goroutine owns the underlying descriptor.
type Link struct {
	port     Port
	lines    chan string
	commands chan []byte
}

// NewLink wraps an already-open Port.
func NewLink(port Port) *Link {
	return &Link{
		port:     port,
		lines:    make(chan string),
		commands: make(chan []byte, 16),
	}
}

// Open opens the named serial device with the given options and wraps it
// in a Link.
func Open(path string, opts Options) (*Link, error) {
	mode, err := opts.Mode()
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, err
	}
	return NewLink(port), nil
}

// Lines returns the channel of scanned inbound lines.
func (l *Link) Lines() <-chan string {
	return l.lines
}

// SendLine queues data to be written to the port by Monitor.
func (l *Link) SendLine(data []byte) {
	l.commands <- data
}

// Close closes the underlying port.
func (l *Link) Close() error {
	return l.port.Close()
}

// Monitor runs the read/write loop until ctx is cancelled or the
// underlying stream ends. Only one goroutine may call Monitor for a
// given Link.
func (l *Link) Monitor(ctx context.Context) error {
	scan := bufio.NewScanner(l.port)

	for {
		select {
		case <-ctx.Done():
			return nil
		case data := <-l.commands:
			if _, err := l.port.Write(data); err != nil {
				monitoring.Logf("serialport: write error: %v", err)
			}
		default:
			if !scan.Scan() {
				return scan.Err()
			}
			line := scan.Text()
			select {
			case l.lines <- line:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
