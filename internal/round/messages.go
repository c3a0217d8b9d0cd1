package round

import (
	"fmt"

	"github.com/s21platform/roundtable-service/internal/model"
	"github.com/s21platform/roundtable-service/internal/phase"
	"github.com/s21platform/roundtable-service/internal/registry"
)

// Initialize loads the persisted thread. Calling it again for the same thread
// merges instead of resetting, so redundant hydration is harmless; a
// different thread id replaces everything.
func (s *Store) Initialize(h model.Hydration) error {
	if h.Thread.ID == "" {
		return s.reject("initialize", ErrNoThread)
	}

	return s.write(func(tx *registry.Tx) error {
		st := tx.State()
		if st.Initialized && st.Thread.ID != h.Thread.ID {
			s.logger.Info(fmt.Sprintf("replacing thread %s with %s", st.Thread.ID, h.Thread.ID))
			s.resetThread(tx)
		}

		tx.SetThread(h.Thread)
		if len(h.Participants) > 0 {
			tx.SetParticipants(h.Participants)
		}
		tx.UpsertMessages(h.Messages)
		for _, ps := range h.PreSearches {
			tx.UpsertPreSearch(ps)
		}
		for _, a := range h.Analyses {
			tx.UpsertAnalysis(a)
		}
		tx.SetInitialized()
		return nil
	})
}

// SetMessages reconciles a batch from any source: resynchronization polls,
// server confirmations or replays. It is safe to call redundantly and out of
// order.
func (s *Store) SetMessages(batch []model.Message) {
	_ = s.write(func(tx *registry.Tx) error {
		tx.UpsertMessages(batch)
		return nil
	})
}

// ApplyDelta records one participant stream delta, creating the message on
// its first delta.
func (s *Store) ApplyDelta(d StreamDelta) {
	_ = s.write(func(tx *registry.Tx) error {
		st := tx.State()
		msg := model.Message{
			ID:               d.MessageID,
			ThreadID:         st.Thread.ID,
			Role:             model.RoleAssistant,
			RoundNumber:      d.RoundNumber,
			ParticipantIndex: model.IntPtr(d.ParticipantIndex),
			ParticipantID:    d.ParticipantID,
			ModelID:          d.ModelID,
			Parts:            d.Parts,
			FinishReason:     d.FinishReason,
			HasError:         d.HasError,
			ErrorMessage:     d.ErrorMessage,
		}
		if msg.ID == "" && st.Thread.ID != "" && d.RoundNumber >= 0 && d.ParticipantIndex >= 0 {
			msg.ID = model.ParticipantMessageID(st.Thread.ID, d.RoundNumber, d.ParticipantIndex)
		}

		expected := st.ExpectedParticipants(d.RoundNumber)
		if d.ParticipantIndex >= 0 && d.ParticipantIndex < len(expected) {
			p := expected[d.ParticipantIndex]
			if msg.ParticipantID == "" {
				msg.ParticipantID = p.ID
			}
			if msg.ModelID == "" {
				msg.ModelID = p.ModelID
			}
		}
		if msg.HasError && msg.FinishReason == "" {
			msg.FinishReason = "error"
		}

		tx.UpsertMessages([]model.Message{msg})
		return nil
	})
}

// CompleteStreaming is called by the stream producer once participant
// streaming for the round ended. Finalized messages are left as they are.
func (s *Store) CompleteStreaming() {
	_ = s.write(func(tx *registry.Tx) error {
		l := tx.State().Lifecycle
		switch l.Kind {
		case phase.AwaitingStream, phase.Regenerating, phase.Streaming:
			s.logger.Info(fmt.Sprintf("streaming complete for round %d", l.Round))
			tx.SetLifecycle(phase.IdleLifecycle())
		}
		return nil
	})
}

// StopStreaming cancels the in-flight round. Streaming messages are finalized
// with the stop marker, finished messages are untouched, and an analysis that
// has not started is dropped unless every participant had already finished.
func (s *Store) StopStreaming() {
	_ = s.write(func(tx *registry.Tx) error {
		st := tx.State()
		n, ok := s.inFlightRound(st)
		if !ok {
			return nil
		}

		complete := s.eval.AllParticipantsFinished(st, n)
		for _, m := range st.AssistantMessages(n) {
			if m.IsFinished() {
				continue
			}
			m = m.Clone()
			m.FinishReason = model.FinishReasonStop
			tx.ReplaceMessage(m)
		}

		if a, ok := st.Analysis(n); ok && !complete && a.Status == model.StatusPending {
			tx.RemoveAnalysis(n)
		}

		r, ok := st.Rounds[n]
		if !ok {
			r = model.Round{Number: n, Participants: st.ExpectedParticipants(n), StartedAt: tx.Now()}
		}
		r = r.Clone()
		r.Stopped = true
		tx.SetRound(r)
		tx.SetLifecycle(phase.IdleLifecycle())

		s.logger.Info(fmt.Sprintf("round %d stopped", n))
		return nil
	})
}

func (s *Store) inFlightRound(st registry.State) (int, bool) {
	switch st.Lifecycle.Kind {
	case phase.AwaitingStream, phase.Regenerating, phase.Streaming:
		return st.Lifecycle.Round, true
	}
	if st.RoundState.Kind == phase.RoundActive {
		return st.RoundState.Number, true
	}
	return 0, false
}
