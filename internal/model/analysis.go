package model

import (
	"encoding/json"
	"time"
)

type Analysis struct {
	ID                    string          `db:"id" json:"id"`
	ThreadID              string          `db:"thread_id" json:"thread_id"`
	RoundNumber           int             `db:"round_number" json:"round_number"`
	Status                Status          `db:"status" json:"status"`
	UserQuestion          string          `db:"user_question" json:"user_question"`
	ParticipantMessageIDs []string        `db:"-" json:"participant_message_ids"`
	AnalysisData          json.RawMessage `db:"-" json:"analysis_data,omitempty"`
	ErrorMessage          string          `db:"error_message" json:"error_message,omitempty"`
	CreatedAt             time.Time       `db:"created_at" json:"created_at"`
	// StatusChangedAt is when the analysis entered its current phase
	// (ready, streaming or terminal). Zero falls back to CreatedAt.
	StatusChangedAt time.Time `db:"-" json:"status_changed_at"`
	// ReadyAt is when every participant of the round had finished. It stays
	// zero while any participant is still streaming.
	ReadyAt     time.Time  `db:"-" json:"ready_at,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// IsPlaceholder reports whether the analysis was created before its
// participant messages existed.
func (a Analysis) IsPlaceholder() bool {
	return len(a.ParticipantMessageIDs) == 0
}

// PhaseStart is when the timeout clock of the current phase started. A
// pending analysis is timed from ReadyAt.
func (a Analysis) PhaseStart() time.Time {
	if a.Status == StatusPending {
		return a.ReadyAt
	}
	if a.StatusChangedAt.IsZero() {
		return a.CreatedAt
	}
	return a.StatusChangedAt
}

func (a Analysis) Clone() Analysis {
	c := a
	c.ParticipantMessageIDs = append([]string(nil), a.ParticipantMessageIDs...)
	return c
}
