package round

import (
	"encoding/json"

	"github.com/s21platform/roundtable-service/internal/model"
	"github.com/s21platform/roundtable-service/internal/registry"
)

// StreamDelta is one partial or final participant message from the stream
// producer. Parts are cumulative: each delta carries the content so far.
type StreamDelta struct {
	MessageID        string
	RoundNumber      int
	ParticipantIndex int
	ParticipantID    string
	ModelID          string
	Parts            []model.Part
	FinishReason     string
	HasError         bool
	ErrorMessage     string
}

type Prepared struct {
	Round     int
	MessageID string
	// Queued is set when the message is held until a pending configuration
	// change is confirmed.
	Queued bool
}

type ResumeStatus string

const (
	ResumeNothing               ResumeStatus = "nothing"
	ResumeReady                 ResumeStatus = "ready"
	ResumeBlockedConfigPending  ResumeStatus = "blocked_config_pending"
	ResumeBlockedConfigMismatch ResumeStatus = "blocked_config_mismatch"
	ResumeBlockedInFlight       ResumeStatus = "blocked_in_flight"
	ResumeBlockedAmbiguous      ResumeStatus = "blocked_ambiguous"
)

func (s ResumeStatus) Blocked() bool {
	switch s {
	case ResumeBlockedConfigPending, ResumeBlockedConfigMismatch, ResumeBlockedInFlight, ResumeBlockedAmbiguous:
		return true
	}
	return false
}

type ResumeDecision struct {
	Status           ResumeStatus
	Round            int
	NextParticipant  int
	IncompleteRounds []int
	// CanStartParticipantTurn is false while the round's pre-search is
	// still running; the stream starter must wait for it.
	CanStartParticipantTurn bool
}

type StatusUpdate struct {
	Status       model.Status
	Data         json.RawMessage
	ErrorMessage string
}

type Readiness struct {
	InputBlocked bool
	CanNavigate  bool
	CanSendNext  bool
}

type Subscriber func(registry.State, Readiness)
