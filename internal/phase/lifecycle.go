package phase

import "time"

type LifecycleKind int

const (
	Idle LifecycleKind = iota
	CreatingThread
	// Queued holds a prepared message that could not start its round yet.
	Queued
	// AwaitingStream is armed when a round starts and no participant has
	// begun responding.
	AwaitingStream
	Regenerating
	Streaming
	// StartFailed is the recoverable error reached when the stream never
	// started within the stream-start timeout.
	StartFailed
)

func (k LifecycleKind) String() string {
	switch k {
	case Idle:
		return "idle"
	case CreatingThread:
		return "creating_thread"
	case Queued:
		return "queued"
	case AwaitingStream:
		return "awaiting_stream"
	case Regenerating:
		return "regenerating"
	case Streaming:
		return "streaming"
	case StartFailed:
		return "start_failed"
	default:
		return "unknown"
	}
}

// PendingMessage is a user message waiting for its round to start.
type PendingMessage struct {
	Text  string
	Files []string
}

// Lifecycle is the single input-gating state of a thread. Exactly one kind is
// active at a time so every blocking check derives from one value.
type Lifecycle struct {
	Kind    LifecycleKind
	Round   int
	Since   time.Time
	Pending *PendingMessage
	Err     string
}

func (l Lifecycle) BlocksInput() bool {
	switch l.Kind {
	case CreatingThread, Queued, AwaitingStream, Regenerating, Streaming:
		return true
	}
	return false
}

// WaitingToStart reports whether the lifecycle is waiting on the stream
// starter and is therefore subject to the stream-start timeout.
func (l Lifecycle) WaitingToStart() bool {
	return l.Kind == AwaitingStream || l.Kind == Regenerating
}

func (l Lifecycle) StartTimedOut(now time.Time, t Thresholds) bool {
	return l.WaitingToStart() && Exceeded(l.Since, now, t.StreamStart)
}

func IdleLifecycle() Lifecycle {
	return Lifecycle{Kind: Idle}
}
