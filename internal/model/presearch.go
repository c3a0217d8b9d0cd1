package model

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusStreaming Status = "streaming"
	StatusComplete  Status = "complete"
	StatusFailed    Status = "failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusStreaming, StatusComplete, StatusFailed:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

type PreSearch struct {
	ID           string          `db:"id" json:"id"`
	ThreadID     string          `db:"thread_id" json:"thread_id"`
	RoundNumber  int             `db:"round_number" json:"round_number"`
	Status       Status          `db:"status" json:"status"`
	UserQuery    string          `db:"user_query" json:"user_query"`
	SearchData   json.RawMessage `db:"-" json:"search_data,omitempty"`
	ErrorMessage string          `db:"error_message" json:"error_message,omitempty"`
	// ForcedComplete marks a completion written by the timeout rather than the
	// search itself.
	ForcedComplete bool       `db:"-" json:"forced_complete,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	CompletedAt    *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}
