package phase

import "fmt"

type RoundStateKind int

const (
	RoundIdle RoundStateKind = iota
	RoundActive
	RoundComplete
)

func (k RoundStateKind) String() string {
	switch k {
	case RoundIdle:
		return "idle"
	case RoundActive:
		return "round_active"
	case RoundComplete:
		return "round_complete"
	default:
		return "unknown"
	}
}

// RoundState is the thread-level sequencer state:
// IDLE -> ROUND_ACTIVE(n) -> ROUND_COMPLETE(n) -> ROUND_ACTIVE(n+1) -> ...
type RoundState struct {
	Kind   RoundStateKind
	Number int
}

func (s RoundState) String() string {
	if s.Kind == RoundIdle {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s(%d)", s.Kind, s.Number)
}

// NextRound is the only round number a new round may take.
func (s RoundState) NextRound() int {
	if s.Kind == RoundIdle {
		return 0
	}
	return s.Number + 1
}
