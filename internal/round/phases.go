package round

import (
	"fmt"

	"github.com/s21platform/roundtable-service/internal/model"
	"github.com/s21platform/roundtable-service/internal/phase"
	"github.com/s21platform/roundtable-service/internal/registry"
)

// AddPreSearch upserts the round's pre-search. Status never moves back once
// terminal.
func (s *Store) AddPreSearch(ps model.PreSearch) {
	_ = s.write(func(tx *registry.Tx) error {
		st := tx.State()
		if ps.ThreadID == "" {
			ps.ThreadID = st.Thread.ID
		}
		if ps.ID == "" && st.Thread.ID != "" {
			ps.ID = model.PreSearchID(st.Thread.ID, ps.RoundNumber)
		}
		tx.UpsertPreSearch(ps)
		return nil
	})
}

func (s *Store) UpdatePreSearchStatus(round int, u StatusUpdate) {
	_ = s.write(func(tx *registry.Tx) error {
		cur, ok := tx.State().PreSearch(round)
		if !ok {
			cur = model.PreSearch{RoundNumber: round}
		}
		next := cur
		next.Status = u.Status
		next.SearchData = u.Data
		next.ErrorMessage = u.ErrorMessage
		next.ForcedComplete = false
		if u.Status.Terminal() {
			at := tx.Now()
			next.CompletedAt = &at
		}
		if !ok {
			next.ThreadID = tx.State().Thread.ID
			if next.ThreadID != "" {
				next.ID = model.PreSearchID(next.ThreadID, round)
			}
		}
		if ok && !phase.CanReplacePreSearch(cur, u.Status) {
			s.logger.Warn(fmt.Sprintf("ignoring pre-search status %s for round %d: already %s", u.Status, round, cur.Status))
			return nil
		}
		tx.UpsertPreSearch(next)
		return nil
	})
}

// SetAnalysis upserts a server-confirmed analysis. An existing analysis for the
// round is updated in place, keeping its id.
func (s *Store) SetAnalysis(a model.Analysis) {
	_ = s.write(func(tx *registry.Tx) error {
		if a.ThreadID == "" {
			a.ThreadID = tx.State().Thread.ID
		}
		tx.UpsertAnalysis(a)
		return nil
	})
}

func (s *Store) UpdateAnalysisStatus(round int, u StatusUpdate) {
	_ = s.write(func(tx *registry.Tx) error {
		st := tx.State()
		cur, ok := st.Analysis(round)
		if ok && !phase.CanAdvance(cur.Status, u.Status) {
			s.logger.Warn(fmt.Sprintf("ignoring analysis status %s for round %d: already %s", u.Status, round, cur.Status))
			return nil
		}
		if ok && u.Status == model.StatusStreaming && !s.eval.CanStartAnalysis(st, round) {
			s.logger.Warn(fmt.Sprintf("analysis for round %d started streaming before all participants finished", round))
		}

		next := model.Analysis{
			RoundNumber:  round,
			ThreadID:     st.Thread.ID,
			Status:       u.Status,
			AnalysisData: u.Data,
			ErrorMessage: u.ErrorMessage,
		}
		if !ok && st.Thread.ID != "" {
			next.ID = model.AnalysisID(st.Thread.ID, round)
		}
		tx.UpsertAnalysis(next)
		return nil
	})
}
