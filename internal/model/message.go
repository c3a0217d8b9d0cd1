package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type PartType string

const (
	TextPartType PartType = "text"
	FilePartType PartType = "file"
)

// FinishReasonStop is written onto messages that were still streaming when the
// round was stopped by the user.
const FinishReasonStop = "stop"

type Part struct {
	Type PartType `json:"type"`
	Text string   `json:"text,omitempty"`
	URL  string   `json:"url,omitempty"`
}

func (p Part) empty() bool {
	switch p.Type {
	case FilePartType:
		return p.URL == ""
	default:
		return strings.TrimSpace(p.Text) == ""
	}
}

type Message struct {
	ID               string    `db:"id" json:"id"`
	ThreadID         string    `db:"thread_id" json:"thread_id"`
	Role             Role      `db:"role" json:"role"`
	RoundNumber      int       `db:"round_number" json:"round_number"`
	ParticipantIndex *int      `db:"participant_index" json:"participant_index,omitempty"`
	ParticipantID    string    `db:"participant_id" json:"participant_id,omitempty"`
	ModelID          string    `db:"model_id" json:"model_id,omitempty"`
	Parts            []Part    `db:"-" json:"parts"`
	FinishReason     string    `db:"finish_reason" json:"finish_reason,omitempty"`
	IsOptimistic     bool      `db:"-" json:"is_optimistic,omitempty"`
	HasError         bool      `db:"has_error" json:"has_error,omitempty"`
	ErrorMessage     string    `db:"error_message" json:"error_message,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// IsFinished reports whether a terminal finish marker has arrived.
func (m Message) IsFinished() bool {
	return m.FinishReason != ""
}

func (m Message) HasContent() bool {
	for _, p := range m.Parts {
		if !p.empty() {
			return true
		}
	}
	return false
}

// ContentLen is the size of the message content, used to keep streaming
// content from shrinking.
func (m Message) ContentLen() int {
	n := 0
	for _, p := range m.Parts {
		n += len(p.Text) + len(p.URL)
	}
	return n
}

// Index returns the participant index, or -1 for user messages and messages
// that lack one.
func (m Message) Index() int {
	if m.ParticipantIndex == nil {
		return -1
	}
	return *m.ParticipantIndex
}

func (m Message) Text() string {
	var b strings.Builder
	for _, p := range m.Parts {
		if p.Type == TextPartType {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

func (m Message) Clone() Message {
	c := m
	if m.ParticipantIndex != nil {
		idx := *m.ParticipantIndex
		c.ParticipantIndex = &idx
	}
	if m.Parts != nil {
		c.Parts = append([]Part(nil), m.Parts...)
	}
	return c
}

func IntPtr(v int) *int {
	return &v
}
