package app

// State represents the current application state.
type State int

const (
	StateIdle      State = iota // Feed is paused; entries arrive only on demand
	StateStreaming              // Generator appends an entry every tick
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}
