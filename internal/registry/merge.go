package registry

import (
	"time"

	"github.com/s21platform/roundtable-service/internal/model"
	"github.com/s21platform/roundtable-service/internal/phase"
)

func validMessage(m model.Message) bool {
	if m.ID == "" || m.RoundNumber < 0 {
		return false
	}
	switch m.Role {
	case model.RoleUser:
		return true
	case model.RoleAssistant:
		return m.Index() >= 0
	}
	return false
}

func validPreSearch(ps model.PreSearch) bool {
	return ps.RoundNumber >= 0 && ps.Status.Valid()
}

func validAnalysis(a model.Analysis) bool {
	return a.RoundNumber >= 0 && a.Status.Valid()
}

func validParticipant(p model.Participant) bool {
	return p.ID != "" && p.ModelID != ""
}

// mergePreSearch applies a keyed upsert. Status moves forward only;
// a stale write below the stored rank is ignored entirely.
func mergePreSearch(cur, in model.PreSearch) model.PreSearch {
	if !phase.CanReplacePreSearch(cur, in.Status) {
		return cur
	}

	out := cur
	if out.ID == "" {
		out.ID = in.ID
	}
	if out.ThreadID == "" {
		out.ThreadID = in.ThreadID
	}
	if out.UserQuery == "" {
		out.UserQuery = in.UserQuery
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = in.CreatedAt
	}

	out.Status = in.Status
	if in.SearchData != nil {
		out.SearchData = in.SearchData
	}
	if in.ErrorMessage != "" {
		out.ErrorMessage = in.ErrorMessage
	}
	if in.CompletedAt != nil {
		out.CompletedAt = in.CompletedAt
	}
	if in.Status != cur.Status || cur.ForcedComplete {
		out.ForcedComplete = in.ForcedComplete
	}
	return out
}

// mergeAnalysis updates an analysis in place. Its id never changes and a
// ready analysis never falls back to a placeholder.
func mergeAnalysis(cur, in model.Analysis, now time.Time) model.Analysis {
	out := cur.Clone()
	if out.ID == "" {
		out.ID = in.ID
	}
	if out.ThreadID == "" {
		out.ThreadID = in.ThreadID
	}
	if out.UserQuestion == "" {
		out.UserQuestion = in.UserQuestion
	}

	if cur.IsPlaceholder() && !in.IsPlaceholder() {
		out.ParticipantMessageIDs = append([]string(nil), in.ParticipantMessageIDs...)
		out.StatusChangedAt = now
	}
	if out.ReadyAt.IsZero() && !in.ReadyAt.IsZero() && !out.IsPlaceholder() {
		out.ReadyAt = in.ReadyAt
	}

	if !phase.CanAdvance(cur.Status, in.Status) {
		return out
	}
	if in.Status != cur.Status {
		out.Status = in.Status
		out.StatusChangedAt = now
	}
	if in.AnalysisData != nil {
		out.AnalysisData = in.AnalysisData
	}
	if in.ErrorMessage != "" {
		out.ErrorMessage = in.ErrorMessage
	}
	if in.CompletedAt != nil {
		out.CompletedAt = in.CompletedAt
	}
	if out.Status.Terminal() && out.CompletedAt == nil {
		at := now
		out.CompletedAt = &at
	}
	return out
}
