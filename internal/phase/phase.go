// Package phase holds the per-round sub-phase state machines: pre-search,
// analysis, and the round lifecycle that gates user input.
package phase

import (
	"time"

	"github.com/s21platform/roundtable-service/internal/model"
)

const (
	DefaultPreSearchTimeout   = 120 * time.Second
	DefaultAnalysisTimeout    = 60 * time.Second
	DefaultStreamStartTimeout = 30 * time.Second
)

// Thresholds are the escape timeouts. Every comparison is strictly greater
// than: an elapsed time equal to the threshold never forces a transition.
type Thresholds struct {
	PreSearch   time.Duration
	Analysis    time.Duration
	StreamStart time.Duration
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		PreSearch:   DefaultPreSearchTimeout,
		Analysis:    DefaultAnalysisTimeout,
		StreamStart: DefaultStreamStartTimeout,
	}
}

// WithDefaults fills zero thresholds with the defaults.
func (t Thresholds) WithDefaults() Thresholds {
	d := DefaultThresholds()
	if t.PreSearch <= 0 {
		t.PreSearch = d.PreSearch
	}
	if t.Analysis <= 0 {
		t.Analysis = d.Analysis
	}
	if t.StreamStart <= 0 {
		t.StreamStart = d.StreamStart
	}
	return t
}

// Exceeded reports whether more than limit has passed since start.
func Exceeded(start, now time.Time, limit time.Duration) bool {
	if start.IsZero() {
		return false
	}
	return now.Sub(start) > limit
}

// Rank orders statuses so that writes only move forward. Both terminal
// statuses share the top rank.
func Rank(s model.Status) int {
	switch s {
	case model.StatusPending:
		return 0
	case model.StatusStreaming:
		return 1
	case model.StatusComplete, model.StatusFailed:
		return 2
	}
	return -1
}

// CanAdvance reports whether a write moving from -> to is allowed. A terminal
// status is final: only a rewrite of the same status passes.
func CanAdvance(from, to model.Status) bool {
	if from.Terminal() {
		return from == to
	}
	return Rank(to) >= Rank(from)
}

// CanReplacePreSearch is CanAdvance with one exception: a completion forced by
// the timeout gives way to the real terminal result.
func CanReplacePreSearch(cur model.PreSearch, to model.Status) bool {
	if cur.ForcedComplete && to.Terminal() {
		return true
	}
	return CanAdvance(cur.Status, to)
}

// PreSearchTimedOut reports whether a streaming pre-search must be forced to
// complete.
func PreSearchTimedOut(ps model.PreSearch, now time.Time, t Thresholds) bool {
	return ps.Status == model.StatusStreaming && Exceeded(ps.CreatedAt, now, t.PreSearch)
}

// PreSearchSettled reports whether participant turns may proceed past the
// pre-search, counting a pending timeout as completion.
func PreSearchSettled(ps model.PreSearch, now time.Time, t Thresholds) bool {
	return ps.Status.Terminal() || PreSearchTimedOut(ps, now, t)
}

// AnalysisTimedOut reports whether a streaming or ready analysis has been in
// its phase for longer than the analysis threshold. Placeholders never time
// out: they are still waiting for participant messages. A ready analysis is
// timed only once every participant finished.
func AnalysisTimedOut(a model.Analysis, now time.Time, t Thresholds) bool {
	switch a.Status {
	case model.StatusStreaming:
		return Exceeded(a.PhaseStart(), now, t.Analysis)
	case model.StatusPending:
		return !a.IsPlaceholder() && Exceeded(a.PhaseStart(), now, t.Analysis)
	}
	return false
}

// AnalysisSettled treats a timed-out analysis as complete for readiness
// purposes. The stored status is left untouched.
func AnalysisSettled(a model.Analysis, now time.Time, t Thresholds) bool {
	return a.Status.Terminal() || AnalysisTimedOut(a, now, t)
}
