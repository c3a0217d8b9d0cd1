package model

import "sort"

type ParticipantList []Participant

type Participant struct {
	ID        string `db:"id" json:"id"`
	ModelID   string `db:"model_id" json:"model_id"`
	Role      string `db:"role" json:"role"`
	Priority  int    `db:"priority" json:"priority"`
	IsEnabled bool   `db:"is_enabled" json:"is_enabled"`
}

// Normalize orders participants by priority and rewrites priorities to a
// contiguous 0..n-1 range. Ties keep their incoming order.
func (l ParticipantList) Normalize() ParticipantList {
	out := append(ParticipantList(nil), l...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	for i := range out {
		out[i].Priority = i
	}
	return out
}

// Enabled returns the enabled participants in turn order. A participant's
// position in this list is the participant index carried by its messages.
func (l ParticipantList) Enabled() ParticipantList {
	var out ParticipantList
	for _, p := range l.Normalize() {
		if p.IsEnabled {
			out = append(out, p)
		}
	}
	return out
}
