package boatstate

import "errors"

// Error taxonomy. Concrete errors wrap one of these sentinels with
// fmt.Errorf("...: %w", err) and are checked with errors.Is/errors.As.
var (
	// ErrInvalidInput marks a malformed sensor snapshot or command.
	// Logged and discarded; causes no state change.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStaleSnapshot marks a sensor reading older than its freshness
	// window. Inserts the corresponding fault identifier; causes a
	// state transition only if the enclosing mode's rule requires it.
	ErrStaleSnapshot = errors.New("stale snapshot")

	// ErrHardwareFault marks an actuator or driver failure. Inserts a
	// fault identifier; transitions to FAULT if committed in an armed
	// mode.
	ErrHardwareFault = errors.New("hardware fault")

	// ErrLogicalGuardTripped marks an arm/disarm or battery-low guard
	// assertion.
	ErrLogicalGuardTripped = errors.New("logical guard tripped")

	// ErrUnrecoverable marks an initialization failure. The program
	// exits non-zero.
	ErrUnrecoverable = errors.New("unrecoverable")
)
