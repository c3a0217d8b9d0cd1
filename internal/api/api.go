// Package api holds the request and response bodies of the REST surface.
package api

import (
	"encoding/json"
	"time"
)

type Error struct {
	Error string `json:"error"`
}

type Part struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

type Message struct {
	Id               string    `json:"id"`
	Role             string    `json:"role"`
	RoundNumber      int       `json:"round_number"`
	ParticipantIndex *int      `json:"participant_index,omitempty"`
	ParticipantId    string    `json:"participant_id,omitempty"`
	ModelId          string    `json:"model_id,omitempty"`
	Parts            []Part    `json:"parts"`
	FinishReason     string    `json:"finish_reason,omitempty"`
	IsOptimistic     bool      `json:"is_optimistic,omitempty"`
	HasError         bool      `json:"has_error,omitempty"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type Participant struct {
	Id        string `json:"id"`
	ModelId   string `json:"model_id"`
	Role      string `json:"role,omitempty"`
	Priority  int    `json:"priority"`
	IsEnabled bool   `json:"is_enabled"`
}

type Thread struct {
	Id               string `json:"id"`
	Slug             string `json:"slug,omitempty"`
	Title            string `json:"title,omitempty"`
	Mode             string `json:"mode,omitempty"`
	EnableWebSearch  bool   `json:"enable_web_search"`
	AnalysisDisabled bool   `json:"analysis_disabled"`
}

type PreSearch struct {
	Id             string          `json:"id"`
	RoundNumber    int             `json:"round_number"`
	Status         string          `json:"status"`
	UserQuery      string          `json:"user_query,omitempty"`
	SearchData     json.RawMessage `json:"search_data,omitempty"`
	ErrorMessage   string          `json:"error_message,omitempty"`
	ForcedComplete bool            `json:"forced_complete,omitempty"`
}

type Analysis struct {
	Id                    string          `json:"id"`
	RoundNumber           int             `json:"round_number"`
	Status                string          `json:"status"`
	UserQuestion          string          `json:"user_question,omitempty"`
	ParticipantMessageIds []string        `json:"participant_message_ids"`
	AnalysisData          json.RawMessage `json:"analysis_data,omitempty"`
	ErrorMessage          string          `json:"error_message,omitempty"`
}

type Readiness struct {
	InputBlocked bool `json:"input_blocked"`
	CanNavigate  bool `json:"can_navigate"`
	CanSendNext  bool `json:"can_send_next"`
}

type ThreadStateResponse struct {
	Version             uint64        `json:"version"`
	Thread              Thread        `json:"thread"`
	Participants        []Participant `json:"participants"`
	Messages            []Message     `json:"messages"`
	PreSearches         []PreSearch   `json:"pre_searches"`
	Analyses            []Analysis    `json:"analyses"`
	RoundState          string        `json:"round_state"`
	RoundNumber         int           `json:"round_number"`
	Lifecycle           string        `json:"lifecycle"`
	LifecycleError      string        `json:"lifecycle_error,omitempty"`
	ConfigChangePending bool          `json:"config_change_pending"`
	Readiness           Readiness     `json:"readiness"`
}

type CreateThreadRequest struct {
	Thread       Thread        `json:"thread"`
	Participants []Participant `json:"participants"`
}

type UpdateThreadRequest struct {
	Slug  string `json:"slug,omitempty"`
	Title string `json:"title,omitempty"`
	Mode  string `json:"mode,omitempty"`
}

type SetMessagesRequest struct {
	Messages []Message `json:"messages"`
}

type StreamDeltaRequest struct {
	MessageId        string `json:"message_id,omitempty"`
	RoundNumber      int    `json:"round_number"`
	ParticipantIndex int    `json:"participant_index"`
	ParticipantId    string `json:"participant_id,omitempty"`
	ModelId          string `json:"model_id,omitempty"`
	Parts            []Part `json:"parts"`
	FinishReason     string `json:"finish_reason,omitempty"`
	HasError         bool   `json:"has_error,omitempty"`
	ErrorMessage     string `json:"error_message,omitempty"`
}

type PrepareMessageRequest struct {
	Content string   `json:"content"`
	Files   []string `json:"files,omitempty"`
}

type PrepareMessageResponse struct {
	RoundNumber int    `json:"round_number"`
	MessageId   string `json:"message_id,omitempty"`
	Queued      bool   `json:"queued"`
}

type StartRoundRequest struct {
	RoundNumber int `json:"round_number"`
}

type RegenerateResponse struct {
	RoundNumber int `json:"round_number"`
}

type ResumeResponse struct {
	Status                  string `json:"status"`
	RoundNumber             int    `json:"round_number"`
	NextParticipant         int    `json:"next_participant"`
	IncompleteRounds        []int  `json:"incomplete_rounds,omitempty"`
	CanStartParticipantTurn bool   `json:"can_start_participant_turn"`
}

type StatusUpdateRequest struct {
	Status       string          `json:"status"`
	Data         json.RawMessage `json:"data,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

type SetParticipantsRequest struct {
	Participants []Participant `json:"participants"`
}

type ReorderParticipantsRequest struct {
	Ids []string `json:"ids"`
}

type MergeChangelogRequest struct {
	Participants []Participant `json:"participants,omitempty"`
}

type TimeoutsResponse struct {
	Fired int `json:"fired"`
}

type GetThreadSubscribeTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	Channel   string `json:"channel"`
}

type GetConnectAccessTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}
