package phase

import (
	"sort"
	"sync"
	"time"
)

type DeadlineKind string

const (
	PreSearchDeadline   DeadlineKind = "pre_search"
	AnalysisDeadline    DeadlineKind = "analysis"
	StreamStartDeadline DeadlineKind = "stream_start"
)

type Deadline struct {
	Kind  DeadlineKind
	Round int
}

// Tracker keeps the armed escape deadlines of one thread. Arming a deadline
// that is already armed resets it; disarming is a no-op when nothing is
// armed.
type Tracker struct {
	mu        sync.Mutex
	deadlines map[Deadline]time.Time
}

func NewTracker() *Tracker {
	return &Tracker{deadlines: make(map[Deadline]time.Time)}
}

func (t *Tracker) Arm(d Deadline, start time.Time, limit time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deadlines[d] = start.Add(limit)
}

func (t *Tracker) Disarm(d Deadline) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.deadlines, d)
}

func (t *Tracker) Armed(d Deadline) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.deadlines[d]
	return ok
}

// Deadlines lists every armed deadline.
func (t *Tracker) Deadlines() []Deadline {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Deadline, 0, len(t.deadlines))
	for d := range t.deadlines {
		out = append(out, d)
	}
	return out
}

func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deadlines = make(map[Deadline]time.Time)
}

// Expired returns the deadlines strictly passed at now, ordered by round and
// kind. They stay armed until disarmed.
func (t *Tracker) Expired(now time.Time) []Deadline {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []Deadline
	for d, at := range t.deadlines {
		if now.After(at) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}
