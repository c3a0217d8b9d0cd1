// Package readiness derives the boolean gates other layers poll after every
// write. Nothing here mutates state; every answer is a function of a
// registry snapshot, the current time and the configured thresholds.
package readiness

import (
	"time"

	"github.com/s21platform/roundtable-service/internal/model"
	"github.com/s21platform/roundtable-service/internal/phase"
	"github.com/s21platform/roundtable-service/internal/registry"
)

type Evaluator struct {
	thresholds phase.Thresholds
}

func New(t phase.Thresholds) Evaluator {
	return Evaluator{thresholds: t.WithDefaults()}
}

func (e Evaluator) Thresholds() phase.Thresholds {
	return e.thresholds
}

// CanStartParticipantTurn is true when the round has no pre-search or the
// pre-search is terminal. A streaming pre-search past its timeout counts as
// complete.
func (e Evaluator) CanStartParticipantTurn(s registry.State, round int, now time.Time) bool {
	ps, ok := s.PreSearch(round)
	if !ok {
		return true
	}
	return phase.PreSearchSettled(ps, now, e.thresholds)
}

// AllParticipantsResponded is true when every expected participant index has
// an assistant message, finished or not.
func (e Evaluator) AllParticipantsResponded(s registry.State, round int) bool {
	expected := s.ExpectedParticipants(round)
	if len(expected) == 0 {
		return false
	}
	got := s.AssistantMessages(round)
	for i := range expected {
		if _, ok := got[i]; !ok {
			return false
		}
	}
	return true
}

// AllParticipantsFinished additionally requires a finish marker on every
// expected participant message.
func (e Evaluator) AllParticipantsFinished(s registry.State, round int) bool {
	if !e.AllParticipantsResponded(s, round) {
		return false
	}
	got := s.AssistantMessages(round)
	for i := range s.ExpectedParticipants(round) {
		if !got[i].IsFinished() {
			return false
		}
	}
	return true
}

// ParticipantMessageIDs lists the expected participant message ids in turn
// order, or nil when a participant has not responded yet.
func (e Evaluator) ParticipantMessageIDs(s registry.State, round int) []string {
	if !e.AllParticipantsResponded(s, round) {
		return nil
	}
	got := s.AssistantMessages(round)
	expected := s.ExpectedParticipants(round)
	ids := make([]string, len(expected))
	for i := range expected {
		ids[i] = got[i].ID
	}
	return ids
}

// CanStartAnalysis is true when the analysis is a ready pending entry and
// every participant has finished.
func (e Evaluator) CanStartAnalysis(s registry.State, round int) bool {
	if s.Thread.AnalysisDisabled || s.Rounds[round].Stopped {
		return false
	}
	a, ok := s.Analysis(round)
	if !ok || a.Status != model.StatusPending || a.IsPlaceholder() {
		return false
	}
	return e.AllParticipantsFinished(s, round)
}

// analysisSettled counts a stopped round as settled: stopping never creates an
// analysis from an incomplete set.
func (e Evaluator) analysisSettled(s registry.State, round int, now time.Time) bool {
	if s.Thread.AnalysisDisabled || s.Rounds[round].Stopped {
		return true
	}
	a, ok := s.Analysis(round)
	if !ok {
		return false
	}
	return phase.AnalysisSettled(a, now, e.thresholds)
}

// RoundComplete is true when the round was stopped, or every expected
// participant finished and the analysis settled.
func (e Evaluator) RoundComplete(s registry.State, round int, now time.Time) bool {
	if s.Rounds[round].Stopped {
		return true
	}
	return e.AllParticipantsFinished(s, round) && e.analysisSettled(s, round, now)
}

// CanNavigateAwayFromOverview requires a slug, a settled analysis for the
// current round and a settled pre-search.
func (e Evaluator) CanNavigateAwayFromOverview(s registry.State, now time.Time) bool {
	if s.Thread.Slug == "" {
		return false
	}
	if s.RoundState.Kind == phase.RoundIdle {
		return false
	}
	round := s.RoundState.Number

	if !e.analysisSettled(s, round, now) {
		return false
	}
	if ps, ok := s.PreSearch(round); ok && !phase.PreSearchSettled(ps, now, e.thresholds) {
		return false
	}
	return true
}

// IsInputBlocked derives from the single lifecycle value: streaming, thread
// creation, waiting to start, a queued message and regeneration all block.
func (e Evaluator) IsInputBlocked(s registry.State) bool {
	return s.Lifecycle.BlocksInput()
}

func (e Evaluator) CanSendNextMessage(s registry.State) bool {
	if e.IsInputBlocked(s) {
		return false
	}
	return s.RoundState.Kind != phase.RoundActive
}

// IncompleteRounds lists rounds with a user message whose expected
// participants have not all finished, excluding stopped rounds.
func (e Evaluator) IncompleteRounds(s registry.State) []int {
	var out []int
	for _, n := range s.RoundNumbers() {
		if s.Rounds[n].Stopped {
			continue
		}
		if _, ok := s.UserMessage(n); !ok {
			continue
		}
		if !e.AllParticipantsFinished(s, n) {
			out = append(out, n)
		}
	}
	return out
}

// NextParticipant is the lowest expected participant index without a
// finished message, or -1.
func (e Evaluator) NextParticipant(s registry.State, round int) int {
	got := s.AssistantMessages(round)
	for i := range s.ExpectedParticipants(round) {
		if m, ok := got[i]; !ok || !m.IsFinished() {
			return i
		}
	}
	return -1
}

// ConfigMismatch reports whether messages already stored for the round were
// produced by participants other than the ones now expected at their index.
func (e Evaluator) ConfigMismatch(s registry.State, round int) bool {
	expected := s.ExpectedParticipants(round)
	if len(expected) == 0 {
		return true
	}
	for idx, m := range s.AssistantMessages(round) {
		if idx >= len(expected) {
			return true
		}
		p := expected[idx]
		if m.ParticipantID != "" && m.ParticipantID != p.ID {
			return true
		}
		if m.ParticipantID == "" && m.ModelID != "" && m.ModelID != p.ModelID {
			return true
		}
	}
	return false
}
