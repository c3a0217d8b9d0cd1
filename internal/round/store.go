// Package round drives the per-thread round lifecycle. Store is the single
// entry point for stream deltas, resynchronization batches, status pushes and
// user actions; every call validates its preconditions and then writes the
// registry in one transaction.
package round

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/roundtable-service/internal/model"
	"github.com/s21platform/roundtable-service/internal/phase"
	"github.com/s21platform/roundtable-service/internal/readiness"
	"github.com/s21platform/roundtable-service/internal/registry"
)

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithThresholds(t phase.Thresholds) Option {
	return func(s *Store) {
		s.eval = readiness.New(t)
	}
}

func WithMetrics(m Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

func WithIDGenerator(next func() string) Option {
	return func(s *Store) {
		s.newID = next
	}
}

type Store struct {
	reg     *registry.Registry
	eval    readiness.Evaluator
	tracker *phase.Tracker
	now     func() time.Time
	newID   func() string
	logger  logger_lib.LoggerInterface
	metrics Metrics

	// forced remembers deadlines already handled so an analysis that stays
	// past its timeout is reported once.
	forced map[phase.Deadline]bool
}

func New(logger logger_lib.LoggerInterface, opts ...Option) *Store {
	s := &Store{
		eval:    readiness.New(phase.DefaultThresholds()),
		tracker: phase.NewTracker(),
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  logger,
		metrics: nopMetrics{},
		forced:  make(map[phase.Deadline]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reg = registry.New(
		registry.WithClock(s.now),
		registry.WithDropHook(func(kind string) {
			s.metrics.Dropped(kind)
			s.logger.Warn(fmt.Sprintf("dropped malformed %s", kind))
		}),
	)
	return s
}

func (s *Store) Snapshot() registry.State {
	return s.reg.Snapshot()
}

// Subscribe registers fn for every committed change together with the
// readiness computed at commit time.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	return s.reg.Subscribe(func(st registry.State) {
		fn(st, s.readinessOf(st, s.now()))
	})
}

func (s *Store) readinessOf(st registry.State, now time.Time) Readiness {
	return Readiness{
		InputBlocked: s.eval.IsInputBlocked(st),
		CanNavigate:  s.eval.CanNavigateAwayFromOverview(st, now),
		CanSendNext:  s.eval.CanSendNextMessage(st),
	}
}

func (s *Store) Readiness() Readiness {
	return s.readinessOf(s.reg.Snapshot(), s.now())
}

func (s *Store) CanStartParticipantTurn(round int) bool {
	return s.eval.CanStartParticipantTurn(s.reg.Snapshot(), round, s.now())
}

func (s *Store) AllParticipantsResponded(round int) bool {
	return s.eval.AllParticipantsResponded(s.reg.Snapshot(), round)
}

func (s *Store) CanStartAnalysis(round int) bool {
	return s.eval.CanStartAnalysis(s.reg.Snapshot(), round)
}

func (s *Store) CanNavigateAwayFromOverview() bool {
	return s.eval.CanNavigateAwayFromOverview(s.reg.Snapshot(), s.now())
}

func (s *Store) IsInputBlocked() bool {
	return s.eval.IsInputBlocked(s.reg.Snapshot())
}

func (s *Store) CanSendNextMessage() bool {
	return s.eval.CanSendNextMessage(s.reg.Snapshot())
}

// write runs fn and the derived bookkeeping in one registry transaction.
func (s *Store) write(fn func(tx *registry.Tx) error) error {
	return s.reg.Update(func(tx *registry.Tx) error {
		if err := fn(tx); err != nil {
			return err
		}
		s.settle(tx)
		return nil
	})
}

func (s *Store) reject(command string, err error) error {
	s.metrics.Rejected(command)
	s.logger.Warn(fmt.Sprintf("%s rejected: %v", command, err))
	return err
}

// settle brings derived state in line with the entities: missing and
// placeholder analyses become ready, the lifecycle and round state advance,
// and the escape deadlines follow the current phases.
func (s *Store) settle(tx *registry.Tx) {
	s.ensureAnalysis(tx)
	s.promoteAnalyses(tx)
	s.markAnalysesReady(tx)
	s.advanceLifecycle(tx)
	s.advanceRoundState(tx)
	s.syncDeadlines(tx.State())
}

// ensureAnalysis creates the ready analysis of the latest round when its
// participants all responded but no analysis exists, as after hydrating a
// finished round whose analysis was never stored.
func (s *Store) ensureAnalysis(tx *registry.Tx) {
	st := tx.State()
	n := st.LatestRound()
	if n < 0 || st.Thread.AnalysisDisabled || st.Thread.ID == "" || st.Rounds[n].Stopped {
		return
	}
	if _, ok := st.Analysis(n); ok {
		return
	}
	user, ok := st.UserMessage(n)
	if !ok {
		return
	}
	ids := s.eval.ParticipantMessageIDs(st, n)
	if ids == nil {
		return
	}
	tx.UpsertAnalysis(model.Analysis{
		ID:                    model.AnalysisID(st.Thread.ID, n),
		ThreadID:              st.Thread.ID,
		RoundNumber:           n,
		Status:                model.StatusPending,
		UserQuestion:          user.Text(),
		ParticipantMessageIDs: ids,
		CreatedAt:             tx.Now(),
	})
	s.logger.Info(fmt.Sprintf("created missing analysis for round %d", n))
}

func (s *Store) promoteAnalyses(tx *registry.Tx) {
	st := tx.State()
	for n, a := range st.Analyses {
		if !a.IsPlaceholder() || st.Rounds[n].Stopped {
			continue
		}
		ids := s.eval.ParticipantMessageIDs(st, n)
		if ids == nil {
			continue
		}
		tx.UpsertAnalysis(model.Analysis{
			RoundNumber:           n,
			Status:                a.Status,
			ParticipantMessageIDs: ids,
		})
		s.logger.Info(fmt.Sprintf("analysis for round %d is ready with %d participant messages", n, len(ids)))
	}
}

// markAnalysesReady starts the clock of a ready analysis once its last
// participant finished.
func (s *Store) markAnalysesReady(tx *registry.Tx) {
	st := tx.State()
	for n, a := range st.Analyses {
		if a.Status != model.StatusPending || a.IsPlaceholder() || !a.ReadyAt.IsZero() {
			continue
		}
		if !s.eval.AllParticipantsFinished(st, n) {
			continue
		}
		tx.UpsertAnalysis(model.Analysis{
			RoundNumber:           n,
			Status:                a.Status,
			ParticipantMessageIDs: a.ParticipantMessageIDs,
			ReadyAt:               tx.Now(),
		})
	}
}

func (s *Store) advanceLifecycle(tx *registry.Tx) {
	st := tx.State()
	l := st.Lifecycle
	switch l.Kind {
	case phase.AwaitingStream, phase.Regenerating, phase.StartFailed:
		if l.Kind == phase.StartFailed && l.Round < 0 {
			return
		}
		if s.eval.AllParticipantsFinished(st, l.Round) {
			tx.SetLifecycle(phase.IdleLifecycle())
			return
		}
		if len(st.AssistantMessages(l.Round)) > 0 {
			tx.SetLifecycle(phase.Lifecycle{Kind: phase.Streaming, Round: l.Round, Since: tx.Now()})
		}
	case phase.Streaming:
		if s.eval.AllParticipantsFinished(st, l.Round) {
			tx.SetLifecycle(phase.IdleLifecycle())
		}
	}
}

func (s *Store) advanceRoundState(tx *registry.Tx) {
	st := tx.State()
	rs := st.RoundState
	latest := st.LatestRound()

	if latest >= 0 && (rs.Kind == phase.RoundIdle || latest > rs.Number) {
		rs = phase.RoundState{Kind: phase.RoundActive, Number: latest}
	}
	if rs.Kind == phase.RoundActive && s.eval.RoundComplete(st, rs.Number, tx.Now()) {
		rs.Kind = phase.RoundComplete
	}
	if rs != st.RoundState {
		s.logger.Info(fmt.Sprintf("round state %s -> %s", st.RoundState, rs))
	}
	tx.SetRoundState(rs)
}

func (s *Store) syncDeadlines(st registry.State) {
	t := s.eval.Thresholds()
	want := make(map[phase.Deadline]time.Time)

	for n, ps := range st.PreSearches {
		if ps.Status == model.StatusStreaming {
			want[phase.Deadline{Kind: phase.PreSearchDeadline, Round: n}] = ps.CreatedAt
		}
	}
	for n, a := range st.Analyses {
		if a.Status == model.StatusStreaming || (a.Status == model.StatusPending && !a.ReadyAt.IsZero()) {
			want[phase.Deadline{Kind: phase.AnalysisDeadline, Round: n}] = a.PhaseStart()
		}
	}
	if st.Lifecycle.WaitingToStart() {
		want[phase.Deadline{Kind: phase.StreamStartDeadline, Round: st.Lifecycle.Round}] = st.Lifecycle.Since
	}

	for _, d := range s.tracker.Deadlines() {
		if _, ok := want[d]; !ok {
			s.tracker.Disarm(d)
		}
	}
	for d := range s.forced {
		if _, ok := want[d]; !ok {
			delete(s.forced, d)
		}
	}
	for d, start := range want {
		if s.forced[d] {
			continue
		}
		if !s.tracker.Armed(d) {
			s.logger.Info(fmt.Sprintf("%s deadline armed for round %d", d.Kind, d.Round))
		}
		switch d.Kind {
		case phase.PreSearchDeadline:
			s.tracker.Arm(d, start, t.PreSearch)
		case phase.AnalysisDeadline:
			s.tracker.Arm(d, start, t.Analysis)
		case phase.StreamStartDeadline:
			s.tracker.Arm(d, start, t.StreamStart)
		}
	}
}

type nopMetrics struct{}

func (nopMetrics) Dropped(string)  {}
func (nopMetrics) Rejected(string) {}
func (nopMetrics) Forced(string)   {}
