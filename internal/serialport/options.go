// Package serialport provides the concrete go.bug.st/serial-backed
// transport shared by the RC receiver, rudder/relay actuator board, and
// the ARMEDTEST bench console, plus a mock for tests.
package serialport

import (
	"fmt"

	"go.bug.st/serial"
)

// Options configures a serial link. The zero value is invalid; call
// Normalize to fill in defaults.
type Options struct {
	BaudRate int
	DataBits int
	StopBits int    // 1 or 2
	Parity   string // "none", "odd", "even"
}

// DefaultOptions returns the link defaults used by the boat's onboard
// peripherals: 8N1 at 57600 baud.
func DefaultOptions() Options {
	return Options{BaudRate: 57600, DataBits: 8, StopBits: 1, Parity: "none"}
}

// Normalize fills zero fields with DefaultOptions' values and validates
// the result.
func (o Options) Normalize() (Options, error) {
	def := DefaultOptions()
	if o.BaudRate == 0 {
		o.BaudRate = def.BaudRate
	}
	if o.DataBits == 0 {
		o.DataBits = def.DataBits
	}
	if o.StopBits == 0 {
		o.StopBits = def.StopBits
	}
	if o.Parity == "" {
		o.Parity = def.Parity
	}

	if o.BaudRate <= 0 {
		return o, fmt.Errorf("serialport: invalid baud rate %d", o.BaudRate)
	}
	if o.DataBits < 5 || o.DataBits > 8 {
		return o, fmt.Errorf("serialport: invalid data bits %d", o.DataBits)
	}
	if o.StopBits != 1 && o.StopBits != 2 {
		return o, fmt.Errorf("serialport: invalid stop bits %d", o.StopBits)
	}
	switch o.Parity {
	case "none", "odd", "even":
	default:
		return o, fmt.Errorf("serialport: invalid parity %q", o.Parity)
	}
	return o, nil
}

// Mode converts Options to go.bug.st/serial's wire format.
func (o Options) Mode() (*serial.Mode, error) {
	norm, err := o.Normalize()
	if err != nil {
		return nil, err
	}

	mode := &serial.Mode{BaudRate: norm.BaudRate, DataBits: norm.DataBits}
	switch norm.StopBits {
	case 2:
		mode.StopBits = serial.TwoStopBits
	default:
		mode.StopBits = serial.OneStopBit
	}
	switch norm.Parity {
	case "odd":
		mode.Parity = serial.OddParity
	case "even":
		mode.Parity = serial.EvenParity
	default:
		mode.Parity = serial.NoParity
	}
	return mode, nil
}
