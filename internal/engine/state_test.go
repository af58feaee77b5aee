package engine

import (
	"testing"
)

func TestStateTransitions(t *testing.T) {
	pipeline := []State{
		StatePending, StateWindowComputed, StateDataFetched,
		StateRasterized, StateAggregated, StateDone,
	}
	for i := 0; i < len(pipeline)-1; i++ {
		if !pipeline[i].CanTransition(pipeline[i+1]) {
			t.Errorf("Expected %v -> %v to be legal", pipeline[i], pipeline[i+1])
		}
	}

	// Failed is reachable from every non-terminal state.
	for _, s := range pipeline[:len(pipeline)-1] {
		if !s.CanTransition(StateFailed) {
			t.Errorf("Expected %v -> Failed to be legal", s)
		}
	}
}

func TestStateTerminal(t *testing.T) {
	for _, s := range []State{StateDone, StateFailed} {
		if !s.Terminal() {
			t.Errorf("Expected %v to be terminal", s)
		}
		for _, next := range []State{StatePending, StateDataFetched, StateDone, StateFailed} {
			if s.CanTransition(next) {
				t.Errorf("Expected no transition out of terminal %v, got %v allowed", s, next)
			}
		}
	}
}

func TestStateNoSkipping(t *testing.T) {
	if StatePending.CanTransition(StateDataFetched) {
		t.Error("Pipeline must not skip WindowComputed")
	}
	if StateWindowComputed.CanTransition(StateAggregated) {
		t.Error("Pipeline must not skip fetch and rasterize")
	}
	if StateDataFetched.CanTransition(StateWindowComputed) {
		t.Error("Pipeline must not move backwards")
	}
}

func TestStateString(t *testing.T) {
	names := map[State]string{
		StatePending:        "Pending",
		StateWindowComputed: "WindowComputed",
		StateDataFetched:    "DataFetched",
		StateRasterized:     "Rasterized",
		StateAggregated:     "Aggregated",
		StateDone:           "Done",
		StateFailed:         "Failed",
	}
	for s, want := range names {
		if s.String() != want {
			t.Errorf("Expected %q, got %q", want, s.String())
		}
	}
}
