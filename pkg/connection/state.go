package connection

// State represents the connection lifecycle state.
type State uint8

const (
	// StateIdle indicates no connection has been requested yet, or an
	// initial connect attempt failed.
	StateIdle State = iota

	// StateConnecting indicates a connect attempt is in flight.
	StateConnecting

	// StateConnected indicates an active connection.
	StateConnected

	// StateReconnecting indicates automatic reconnection after a drop.
	StateReconnecting

	// StateClosed indicates an explicit disconnect or an exhausted
	// reconnection window. Connect may be called again to resume.
	StateClosed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateReconnecting:
		return "RECONNECTING"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}
