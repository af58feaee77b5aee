package engine

// State tracks a feature through the per-feature pipeline. Done and Failed
// are terminal; a feature may move to Failed from any non-terminal state.
type State int

const (
	StatePending State = iota
	StateWindowComputed
	StateDataFetched
	StateRasterized
	StateAggregated
	StateDone
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "Pending"
	case StateWindowComputed:
		return "WindowComputed"
	case StateDataFetched:
		return "DataFetched"
	case StateRasterized:
		return "Rasterized"
	case StateAggregated:
		return "Aggregated"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transition is allowed.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// CanTransition reports whether moving from s to next is a legal pipeline
// step: one forward step at a time, or Failed from any non-terminal state.
func (s State) CanTransition(next State) bool {
	if s.Terminal() {
		return false
	}
	if next == StateFailed {
		return true
	}
	return next == s+1
}

// tracker enforces pipeline ordering for one feature.
type tracker struct {
	state State
}

// advance moves to next, panicking on an illegal transition. Transitions are
// driven only by the worker pipeline, so a violation is a programming error,
// not an input error.
func (t *tracker) advance(next State) {
	if !t.state.CanTransition(next) {
		panic("illegal state transition " + t.state.String() + " -> " + next.String())
	}
	t.state = next
}
