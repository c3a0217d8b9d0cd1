package model

import "time"

type Thread struct {
	ID               string    `db:"id" json:"id"`
	Slug             string    `db:"slug" json:"slug"`
	Title            string    `db:"title" json:"title"`
	Mode             string    `db:"mode" json:"mode"`
	EnableWebSearch  bool      `db:"enable_web_search" json:"enable_web_search"`
	AnalysisDisabled bool      `db:"analysis_disabled" json:"analysis_disabled"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// Round is the snapshot taken when a round starts. Later configuration edits
// never touch it.
type Round struct {
	Number       int           `json:"number"`
	Participants []Participant `json:"participants"`
	StartedAt    time.Time     `json:"started_at"`
	Stopped      bool          `json:"stopped"`
}

func (r Round) Clone() Round {
	c := r
	c.Participants = append([]Participant(nil), r.Participants...)
	return c
}

// Hydration is the initial load handed over by the persistence layer.
type Hydration struct {
	Thread       Thread
	Participants []Participant
	Messages     []Message
	PreSearches  []PreSearch
	Analyses     []Analysis
}
