package model

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

type CentrifugoEvent struct {
	Method string      `json:"method"`
	Params interface{} `json:"params"`
}

type CentrifugoEventParams struct {
	Channel string     `json:"channel"`
	Data    RoundEvent `json:"data"`
}

type CentrifugoReply struct {
	Error *CentrifugoError `json:"error,omitempty"`
}

type CentrifugoError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *CentrifugoError) Error() string {
	return fmt.Sprintf("centrifugo error %d: %s", e.Code, e.Message)
}

// RoundEvent is the realtime projection of a thread's state after a write.
type RoundEvent struct {
	ThreadID            string `json:"thread_id"`
	Version             uint64 `json:"version"`
	RoundState          string `json:"round_state"`
	RoundNumber         int    `json:"round_number"`
	Lifecycle           string `json:"lifecycle"`
	LifecycleError      string `json:"lifecycle_error,omitempty"`
	MessageCount        int    `json:"message_count"`
	InputBlocked        bool   `json:"input_blocked"`
	CanNavigate         bool   `json:"can_navigate"`
	CanSendNext         bool   `json:"can_send_next"`
	ConfigChangePending bool   `json:"config_change_pending"`
}

type CentrifugoConnectClaims struct {
	jwt.RegisteredClaims
}

type CentrifugoSubscribeClaims struct {
	jwt.RegisteredClaims

	Channel string `json:"channel"`
	Client  string `json:"client,omitempty"`

	UserID   string `json:"user_id"`
	ThreadID string `json:"thread_id"`
}

const roundChannelPrefix = "round:"

// RoundChannel is the realtime channel carrying the round events of a thread.
func RoundChannel(threadID string) string {
	return roundChannelPrefix + threadID
}
