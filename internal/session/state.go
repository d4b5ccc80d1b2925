package session

// State of the join lifecycle. Error is reachable from any step that fails
// and resolves back to Idle on retry or dismissal.
type State int

const (
	StateIdle State = iota
	StateExtracting
	StateResolving
	StateFetchingCredential
	StateOpeningSurface
	StateActive
	StateClosing
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExtracting:
		return "extracting"
	case StateResolving:
		return "resolving"
	case StateFetchingCredential:
		return "fetching_credential"
	case StateOpeningSurface:
		return "opening_surface"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
