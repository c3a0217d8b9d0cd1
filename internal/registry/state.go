package registry

import (
	"sort"

	"github.com/s21platform/roundtable-service/internal/model"
	"github.com/s21platform/roundtable-service/internal/phase"
)

// State is an immutable snapshot of one thread. Values handed out by the
// registry are deep copies; mutating them has no effect on the registry.
type State struct {
	Version     uint64
	Initialized bool

	Thread       model.Thread
	Participants model.ParticipantList
	Messages     []model.Message
	PreSearches  map[int]model.PreSearch
	Analyses     map[int]model.Analysis
	Rounds       map[int]model.Round

	RoundState          phase.RoundState
	Lifecycle           phase.Lifecycle
	ConfigChangePending bool

	// Dropped counts malformed entries rejected since the last reset.
	Dropped int
}

func emptyState() State {
	return State{
		PreSearches: make(map[int]model.PreSearch),
		Analyses:    make(map[int]model.Analysis),
		Rounds:      make(map[int]model.Round),
		Lifecycle:   phase.IdleLifecycle(),
	}
}

func (s State) Clone() State {
	c := s
	c.Participants = append(model.ParticipantList(nil), s.Participants...)

	c.Messages = make([]model.Message, len(s.Messages))
	for i, m := range s.Messages {
		c.Messages[i] = m.Clone()
	}

	c.PreSearches = make(map[int]model.PreSearch, len(s.PreSearches))
	for k, v := range s.PreSearches {
		c.PreSearches[k] = v
	}
	c.Analyses = make(map[int]model.Analysis, len(s.Analyses))
	for k, v := range s.Analyses {
		c.Analyses[k] = v.Clone()
	}
	c.Rounds = make(map[int]model.Round, len(s.Rounds))
	for k, v := range s.Rounds {
		c.Rounds[k] = v.Clone()
	}

	if s.Lifecycle.Pending != nil {
		p := *s.Lifecycle.Pending
		p.Files = append([]string(nil), p.Files...)
		c.Lifecycle.Pending = &p
	}
	return c
}

func (s State) UserMessage(round int) (model.Message, bool) {
	for _, m := range s.Messages {
		if m.RoundNumber == round && m.Role == model.RoleUser {
			return m, true
		}
	}
	return model.Message{}, false
}

// AssistantMessages indexes the round's assistant messages by participant
// index.
func (s State) AssistantMessages(round int) map[int]model.Message {
	out := make(map[int]model.Message)
	for _, m := range s.Messages {
		if m.RoundNumber == round && m.Role == model.RoleAssistant {
			out[m.Index()] = m
		}
	}
	return out
}

func (s State) PreSearch(round int) (model.PreSearch, bool) {
	ps, ok := s.PreSearches[round]
	return ps, ok
}

func (s State) Analysis(round int) (model.Analysis, bool) {
	a, ok := s.Analyses[round]
	return a, ok
}

// ExpectedParticipants is the participant set a round must hear from: the
// snapshot taken when the round started, or the current enabled
// configuration for rounds that predate this session.
func (s State) ExpectedParticipants(round int) model.ParticipantList {
	if r, ok := s.Rounds[round]; ok {
		return r.Participants
	}
	return s.Participants.Enabled()
}

// LatestRound is the highest round number holding any entity, or -1.
func (s State) LatestRound() int {
	latest := -1
	for _, n := range s.RoundNumbers() {
		if n > latest {
			latest = n
		}
	}
	return latest
}

// RoundNumbers lists every round holding a message, round snapshot,
// pre-search or analysis, ascending.
func (s State) RoundNumbers() []int {
	seen := make(map[int]struct{})
	for _, m := range s.Messages {
		seen[m.RoundNumber] = struct{}{}
	}
	for n := range s.Rounds {
		seen[n] = struct{}{}
	}
	for n := range s.PreSearches {
		seen[n] = struct{}{}
	}
	for n := range s.Analyses {
		seen[n] = struct{}{}
	}

	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
