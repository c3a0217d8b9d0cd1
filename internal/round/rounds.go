package round

import (
	"errors"
	"fmt"
	"strings"

	"github.com/s21platform/roundtable-service/internal/model"
	"github.com/s21platform/roundtable-service/internal/phase"
	"github.com/s21platform/roundtable-service/internal/registry"
)

// StartRound begins round n without a user message, for collaborators that
// create the user message themselves.
func (s *Store) StartRound(n int) error {
	err := s.write(func(tx *registry.Tx) error {
		return s.startRound(tx, n, "")
	})
	if err != nil {
		return s.reject("start round", err)
	}
	return nil
}

// startRound snapshots the enabled participants, creates the analysis
// placeholder and the pending pre-search, and arms the stream-start wait.
func (s *Store) startRound(tx *registry.Tx, n int, question string) error {
	st := tx.State()
	switch {
	case st.Thread.ID == "":
		return ErrNoThread
	case st.ConfigChangePending:
		return ErrConfigChangePending
	case st.RoundState.Kind == phase.RoundActive:
		return ErrRoundInFlight
	case n < st.RoundState.NextRound():
		return ErrRoundRegression
	}

	participants := st.Participants.Enabled()
	if len(participants) == 0 {
		return ErrNoParticipants
	}

	now := tx.Now()
	tx.SetRound(model.Round{Number: n, Participants: participants, StartedAt: now})
	tx.SetRoundState(phase.RoundState{Kind: phase.RoundActive, Number: n})

	if !st.Thread.AnalysisDisabled {
		tx.UpsertAnalysis(model.Analysis{
			ID:           model.AnalysisID(st.Thread.ID, n),
			ThreadID:     st.Thread.ID,
			RoundNumber:  n,
			Status:       model.StatusPending,
			UserQuestion: question,
			CreatedAt:    now,
		})
	}
	if st.Thread.EnableWebSearch {
		tx.UpsertPreSearch(model.PreSearch{
			ID:          model.PreSearchID(st.Thread.ID, n),
			ThreadID:    st.Thread.ID,
			RoundNumber: n,
			Status:      model.StatusPending,
			UserQuery:   question,
			CreatedAt:   now,
		})
	}
	tx.SetLifecycle(phase.Lifecycle{Kind: phase.AwaitingStream, Round: n, Since: now})

	s.logger.Info(fmt.Sprintf("round %d started with %d participants", n, len(participants)))
	return nil
}

// PrepareForNewMessage inserts the optimistic user message and starts the
// next round. While a configuration change awaits confirmation the message
// is queued instead and released by MergeChangelog.
func (s *Store) PrepareForNewMessage(text string, files []string) (Prepared, error) {
	var out Prepared
	err := s.write(func(tx *registry.Tx) error {
		st := tx.State()
		switch {
		case st.Thread.ID == "":
			return ErrNoThread
		case st.Lifecycle.BlocksInput():
			return ErrInputBlocked
		case st.RoundState.Kind == phase.RoundActive:
			return ErrRoundInFlight
		}

		if st.ConfigChangePending {
			tx.SetLifecycle(phase.Lifecycle{
				Kind:    phase.Queued,
				Round:   st.RoundState.NextRound(),
				Since:   tx.Now(),
				Pending: &phase.PendingMessage{Text: text, Files: append([]string(nil), files...)},
			})
			out = Prepared{Round: st.RoundState.NextRound(), Queued: true}
			s.logger.Info("message queued until configuration change is confirmed")
			return nil
		}

		var err error
		out, err = s.sendMessage(tx, text, files)
		return err
	})
	if err != nil {
		return Prepared{}, s.reject("prepare message", err)
	}
	return out, nil
}

func (s *Store) sendMessage(tx *registry.Tx, text string, files []string) (Prepared, error) {
	st := tx.State()
	n := st.RoundState.NextRound()
	if err := s.startRound(tx, n, text); err != nil {
		return Prepared{}, err
	}

	parts := make([]model.Part, 0, len(files)+1)
	if strings.TrimSpace(text) != "" {
		parts = append(parts, model.Part{Type: model.TextPartType, Text: text})
	}
	for _, url := range files {
		parts = append(parts, model.Part{Type: model.FilePartType, URL: url})
	}

	id := model.OptimisticID(s.newID())
	tx.UpsertMessages([]model.Message{{
		ID:           id,
		ThreadID:     st.Thread.ID,
		Role:         model.RoleUser,
		RoundNumber:  n,
		Parts:        parts,
		IsOptimistic: true,
	}})
	return Prepared{Round: n, MessageID: id}, nil
}

// Regenerate reruns the latest round: its participant messages and analysis
// are discarded and participants are snapshotted again. The round number does
// not change.
func (s *Store) Regenerate() (int, error) {
	var n int
	err := s.write(func(tx *registry.Tx) error {
		st := tx.State()
		switch {
		case st.Thread.ID == "":
			return ErrNoThread
		case st.RoundState.Kind == phase.RoundIdle:
			return ErrNothingToRegenerate
		case st.Lifecycle.BlocksInput():
			return ErrInputBlocked
		case st.ConfigChangePending:
			return ErrConfigChangePending
		}

		n = st.RoundState.Number
		user, ok := st.UserMessage(n)
		if !ok {
			return ErrNothingToRegenerate
		}
		participants := st.Participants.Enabled()
		if len(participants) == 0 {
			return ErrNoParticipants
		}

		tx.RemoveMessages(func(m model.Message) bool {
			return m.RoundNumber == n && m.Role == model.RoleAssistant
		})
		tx.RemoveAnalysis(n)

		now := tx.Now()
		tx.SetRound(model.Round{Number: n, Participants: participants, StartedAt: now})
		tx.SetRoundState(phase.RoundState{Kind: phase.RoundActive, Number: n})
		if !st.Thread.AnalysisDisabled {
			tx.UpsertAnalysis(model.Analysis{
				ID:           model.AnalysisID(st.Thread.ID, n),
				ThreadID:     st.Thread.ID,
				RoundNumber:  n,
				Status:       model.StatusPending,
				UserQuestion: user.Text(),
				CreatedAt:    now,
			})
		}
		tx.SetLifecycle(phase.Lifecycle{Kind: phase.Regenerating, Round: n, Since: now})

		s.logger.Info(fmt.Sprintf("regenerating round %d", n))
		return nil
	})
	if err != nil {
		return 0, s.reject("regenerate", err)
	}
	return n, nil
}

// RequestConfigChange blocks the next round until the applied configuration
// is confirmed with MergeChangelog.
func (s *Store) RequestConfigChange() {
	_ = s.write(func(tx *registry.Tx) error {
		tx.SetConfigChangePending(true)
		return nil
	})
}

// MergeChangelog applies the confirmed participant configuration, clears the
// pending flag and releases a queued message. A nil list keeps the current
// configuration.
func (s *Store) MergeChangelog(participants []model.Participant) {
	_ = s.write(func(tx *registry.Tx) error {
		if participants != nil {
			tx.SetParticipants(participants)
		}
		tx.SetConfigChangePending(false)

		l := tx.State().Lifecycle
		if l.Kind != phase.Queued || l.Pending == nil {
			return nil
		}
		tx.SetLifecycle(phase.IdleLifecycle())
		if _, err := s.sendMessage(tx, l.Pending.Text, l.Pending.Files); err != nil {
			s.metrics.Rejected("queued message")
			s.logger.Warn(fmt.Sprintf("queued message could not start its round: %v", err))
			tx.SetLifecycle(phase.Lifecycle{Kind: phase.StartFailed, Round: l.Round, Since: tx.Now(), Err: err.Error()})
		}
		return nil
	})
}

// ResumeIncompleteRound decides whether a round left incomplete by a reload
// can continue. A ready decision arms the stream-start wait; every blocked
// decision leaves state unchanged.
func (s *Store) ResumeIncompleteRound() ResumeDecision {
	var d ResumeDecision
	_ = s.write(func(tx *registry.Tx) error {
		d = s.resume(tx)
		return nil
	})
	if d.Status.Blocked() {
		s.metrics.Rejected("resume")
		s.logger.Warn(fmt.Sprintf("resume of round %d blocked: %s", d.Round, d.Status))
	}
	return d
}

func (s *Store) resume(tx *registry.Tx) ResumeDecision {
	st := tx.State()
	incomplete := s.eval.IncompleteRounds(st)
	if len(incomplete) == 0 {
		return ResumeDecision{Status: ResumeNothing, NextParticipant: -1}
	}

	n := incomplete[len(incomplete)-1]
	d := ResumeDecision{Round: n, IncompleteRounds: incomplete, NextParticipant: -1}
	switch {
	case st.ConfigChangePending:
		d.Status = ResumeBlockedConfigPending
		return d
	case len(incomplete) > 1:
		d.Status = ResumeBlockedAmbiguous
		return d
	case st.Lifecycle.BlocksInput():
		d.Status = ResumeBlockedInFlight
		return d
	case s.eval.ConfigMismatch(st, n):
		d.Status = ResumeBlockedConfigMismatch
		return d
	}

	now := tx.Now()
	if _, ok := st.Rounds[n]; !ok {
		tx.SetRound(model.Round{Number: n, Participants: st.ExpectedParticipants(n), StartedAt: now})
	}
	if _, ok := st.Analysis(n); !ok && !st.Thread.AnalysisDisabled {
		user, _ := st.UserMessage(n)
		tx.UpsertAnalysis(model.Analysis{
			ID:           model.AnalysisID(st.Thread.ID, n),
			ThreadID:     st.Thread.ID,
			RoundNumber:  n,
			Status:       model.StatusPending,
			UserQuestion: user.Text(),
			CreatedAt:    now,
		})
	}
	tx.SetRoundState(phase.RoundState{Kind: phase.RoundActive, Number: n})
	tx.SetLifecycle(phase.Lifecycle{Kind: phase.AwaitingStream, Round: n, Since: now})

	d.Status = ResumeReady
	d.NextParticipant = s.eval.NextParticipant(tx.State(), n)
	d.CanStartParticipantTurn = s.eval.CanStartParticipantTurn(tx.State(), n, now)
	s.logger.Info(fmt.Sprintf("resuming round %d at participant %d", n, d.NextParticipant))
	return d
}

// BeginThreadCreation blocks input while the thread is being created.
func (s *Store) BeginThreadCreation() error {
	err := s.write(func(tx *registry.Tx) error {
		if tx.State().Lifecycle.BlocksInput() {
			return ErrInputBlocked
		}
		tx.SetLifecycle(phase.Lifecycle{Kind: phase.CreatingThread, Round: -1, Since: tx.Now()})
		return nil
	})
	if err != nil {
		return s.reject("create thread", err)
	}
	return nil
}

func (s *Store) CompleteThreadCreation(thread model.Thread, participants []model.Participant) error {
	if thread.ID == "" {
		return s.reject("complete thread creation", ErrNoThread)
	}
	return s.write(func(tx *registry.Tx) error {
		tx.SetThread(thread)
		tx.SetParticipants(participants)
		tx.SetInitialized()
		if tx.State().Lifecycle.Kind == phase.CreatingThread {
			tx.SetLifecycle(phase.IdleLifecycle())
		}
		return nil
	})
}

// FailThreadCreation surfaces the failure as a recoverable error state that
// no longer blocks input.
func (s *Store) FailThreadCreation(reason string) {
	_ = s.write(func(tx *registry.Tx) error {
		if tx.State().Lifecycle.Kind != phase.CreatingThread {
			return nil
		}
		tx.SetLifecycle(phase.Lifecycle{Kind: phase.StartFailed, Round: -1, Since: tx.Now(), Err: reason})
		return nil
	})
}

// UpdateThread applies thread metadata arriving after creation, such as the
// generated slug and title. Empty fields keep their stored values.
func (s *Store) UpdateThread(t model.Thread) error {
	return s.write(func(tx *registry.Tx) error {
		cur := tx.State().Thread
		if cur.ID == "" {
			return ErrNoThread
		}
		if t.ID != "" && t.ID != cur.ID {
			return fmt.Errorf("thread id mismatch: %s != %s", t.ID, cur.ID)
		}
		if t.Slug != "" {
			cur.Slug = t.Slug
		}
		if t.Title != "" {
			cur.Title = t.Title
		}
		if t.Mode != "" {
			cur.Mode = t.Mode
		}
		tx.SetThread(cur)
		return nil
	})
}

// ResetForNavigation drops all thread state when the user leaves the thread.
func (s *Store) ResetForNavigation() {
	_ = s.write(func(tx *registry.Tx) error {
		s.resetThread(tx)
		return nil
	})
}

// resetThread clears entities, armed deadlines and the forced-deadline memory.
func (s *Store) resetThread(tx *registry.Tx) {
	tx.Reset()
	s.tracker.Reset()
	for d := range s.forced {
		delete(s.forced, d)
	}
}

// CheckTimeouts applies the escape transitions that are due: a stuck
// pre-search is stored as complete, an overdue analysis counts as settled for
// readiness, and a stream that never started becomes a recoverable error.
func (s *Store) CheckTimeouts() []phase.Deadline {
	var fired []phase.Deadline
	_ = s.write(func(tx *registry.Tx) error {
		now := tx.Now()
		t := s.eval.Thresholds()
		for _, d := range s.tracker.Expired(now) {
			st := tx.State()
			switch d.Kind {
			case phase.PreSearchDeadline:
				ps, ok := st.PreSearch(d.Round)
				if !ok || !phase.PreSearchTimedOut(ps, now, t) {
					continue
				}
				ps.Status = model.StatusComplete
				ps.ForcedComplete = true
				ps.CompletedAt = &now
				tx.UpsertPreSearch(ps)
				s.logger.Warn(fmt.Sprintf("pre-search for round %d forced complete after %s", d.Round, t.PreSearch))
			case phase.AnalysisDeadline:
				a, ok := st.Analysis(d.Round)
				if !ok || !phase.AnalysisTimedOut(a, now, t) {
					continue
				}
				s.logger.Warn(fmt.Sprintf("analysis for round %d treated as complete after %s", d.Round, t.Analysis))
			case phase.StreamStartDeadline:
				l := st.Lifecycle
				if l.Round != d.Round || !l.StartTimedOut(now, t) {
					continue
				}
				tx.SetLifecycle(phase.Lifecycle{
					Kind:  phase.StartFailed,
					Round: l.Round,
					Since: now,
					Err:   fmt.Sprintf("streaming did not start within %s", t.StreamStart),
				})
				s.logger.Warn(fmt.Sprintf("round %d did not start streaming within %s", d.Round, t.StreamStart))
			}
			s.tracker.Disarm(d)
			s.forced[d] = true
			s.metrics.Forced(string(d.Kind))
			fired = append(fired, d)
		}
		return nil
	})
	return fired
}

// IsRejection reports whether err is one of the guarded entry point
// rejections.
func IsRejection(err error) bool {
	for _, target := range []error{
		ErrNoThread, ErrNoParticipants, ErrConfigChangePending, ErrRoundInFlight,
		ErrRoundRegression, ErrInputBlocked, ErrNothingToRegenerate, ErrUnknownParticipant,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
