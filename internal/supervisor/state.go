// internal/supervisor/state.go
package supervisor

// Phase is the lifecycle of one session kind.
type Phase uint8

const (
	Disconnected Phase = iota
	Connecting
	Connected
)

func (p Phase) String() string {
	switch p {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// State is the gateway connection state.
// Invariant: Bus is Connecting or Connected only while Network is Connected.
type State struct {
	Network Phase
	Bus     Phase
}

// Up reports whether both sessions are connected.
func (s State) Up() bool {
	return s.Network == Connected && s.Bus == Connected
}
