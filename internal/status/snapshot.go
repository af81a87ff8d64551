// internal/status/snapshot.go
package status

// Snapshot is what the status writer is allowed to deliver.
// No logic, no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
}

// Derive builds a snapshot from session liveness.
// The network is reported first: a bus cannot be up without it.
func Derive(networkUp, busUp bool, secondsInError uint16) Snapshot {
	switch {
	case !networkUp:
		return Snapshot{Health: HealthError, LastErrorCode: ErrorNetworkDown, SecondsInError: secondsInError}
	case !busUp:
		return Snapshot{Health: HealthError, LastErrorCode: ErrorBusDown, SecondsInError: secondsInError}
	default:
		return Snapshot{Health: HealthOK, LastErrorCode: ErrorNone}
	}
}
