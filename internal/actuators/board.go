package actuators

import (
	"fmt"

	"github.com/saltwater-robotics/boatcore/internal/serialport"
)

// SerialBoard realizes RelayWriter and ServoWriter over a serialport.Link
// to the onboard relay/servo controller board, using a small ASCII
// command protocol: "RELAY <name> <ON|OFF>\n" and "SERVO <deg>\n".
type SerialBoard struct {
	link *serialport.Link
}

// NewSerialBoard wraps an already-open Link as a SerialBoard.
func NewSerialBoard(link *serialport.Link) *SerialBoard {
	return &SerialBoard{link: link}
}

// SetRelay sends a RELAY command for the named relay.
func (b *SerialBoard) SetRelay(name string, on bool) error {
	state := "OFF"
	if on {
		state = "ON"
	}
	b.link.SendLine([]byte(fmt.Sprintf("RELAY %s %s\n", name, state)))
	return nil
}

// SetPosition sends a SERVO command with the target angle.
func (b *SerialBoard) SetPosition(deg float64) error {
	b.link.SendLine([]byte(fmt.Sprintf("SERVO %.2f\n", deg)))
	return nil
}
