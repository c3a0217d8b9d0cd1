package model

import (
	"fmt"
	"strconv"
	"strings"
)

const optimisticPrefix = "optimistic-"

func UserMessageID(threadID string, round int) string {
	return fmt.Sprintf("%s_r%d_user", threadID, round)
}

func ParticipantMessageID(threadID string, round, index int) string {
	return fmt.Sprintf("%s_r%d_p%d", threadID, round, index)
}

func PreSearchID(threadID string, round int) string {
	return fmt.Sprintf("%s_r%d_presearch", threadID, round)
}

func AnalysisID(threadID string, round int) string {
	return fmt.Sprintf("%s_r%d_analysis", threadID, round)
}

func OptimisticID(suffix string) string {
	return optimisticPrefix + suffix
}

func IsOptimisticID(id string) bool {
	return strings.HasPrefix(id, optimisticPrefix)
}

// MessageKey is the parsed form of a deterministic message id.
type MessageKey struct {
	ThreadID         string
	RoundNumber      int
	Role             Role
	ParticipantIndex int
}

// ParseMessageID splits a deterministic id of the form
// {threadId}_r{round}_{p{index}|user}. Thread ids may themselves contain
// underscores, so the id is parsed from the right.
func ParseMessageID(id string) (MessageKey, bool) {
	last := strings.LastIndex(id, "_")
	if last <= 0 || last == len(id)-1 {
		return MessageKey{}, false
	}
	head, tail := id[:last], id[last+1:]

	sep := strings.LastIndex(head, "_r")
	if sep <= 0 {
		return MessageKey{}, false
	}
	round, err := strconv.Atoi(head[sep+2:])
	if err != nil || round < 0 {
		return MessageKey{}, false
	}

	key := MessageKey{ThreadID: head[:sep], RoundNumber: round, ParticipantIndex: -1}
	switch {
	case tail == "user":
		key.Role = RoleUser
	case strings.HasPrefix(tail, "p"):
		idx, err := strconv.Atoi(tail[1:])
		if err != nil || idx < 0 {
			return MessageKey{}, false
		}
		key.Role = RoleAssistant
		key.ParticipantIndex = idx
	default:
		return MessageKey{}, false
	}
	return key, true
}
