package readiness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/s21platform/roundtable-service/internal/model"
	"github.com/s21platform/roundtable-service/internal/phase"
	"github.com/s21platform/roundtable-service/internal/registry"
)

var now = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func participants() model.ParticipantList {
	return model.ParticipantList{
		{ID: "p1", ModelID: "gpt", Priority: 0, IsEnabled: true},
		{ID: "p2", ModelID: "claude", Priority: 1, IsEnabled: true},
	}
}

func reply(round, idx int, participantID, finish string) model.Message {
	return model.Message{
		ID:               model.ParticipantMessageID("t", round, idx),
		Role:             model.RoleAssistant,
		RoundNumber:      round,
		ParticipantIndex: model.IntPtr(idx),
		ParticipantID:    participantID,
		Parts:            []model.Part{{Type: model.TextPartType, Text: "answer"}},
		FinishReason:     finish,
	}
}

func question(round int) model.Message {
	return model.Message{
		ID:          model.UserMessageID("t", round),
		Role:        model.RoleUser,
		RoundNumber: round,
		Parts:       []model.Part{{Type: model.TextPartType, Text: "q"}},
	}
}

func state(msgs ...model.Message) registry.State {
	return registry.State{
		Thread:       model.Thread{ID: "t", Slug: "slug"},
		Participants: participants(),
		Messages:     msgs,
		PreSearches:  map[int]model.PreSearch{},
		Analyses:     map[int]model.Analysis{},
		Rounds:       map[int]model.Round{},
		RoundState:   phase.RoundState{Kind: phase.RoundActive, Number: 0},
	}
}

func TestEvaluator_CanStartParticipantTurn(t *testing.T) {
	t.Parallel()

	e := New(phase.Thresholds{})

	t.Run("no_pre_search", func(t *testing.T) {
		assert.True(t, e.CanStartParticipantTurn(state(), 0, now))
	})

	t.Run("pending_pre_search_waits", func(t *testing.T) {
		s := state()
		s.PreSearches[0] = model.PreSearch{RoundNumber: 0, Status: model.StatusPending, CreatedAt: now.Add(-time.Hour)}
		assert.False(t, e.CanStartParticipantTurn(s, 0, now))
	})

	t.Run("streaming_timeout_boundary", func(t *testing.T) {
		s := state()
		s.PreSearches[0] = model.PreSearch{RoundNumber: 0, Status: model.StatusStreaming, CreatedAt: now}
		assert.False(t, e.CanStartParticipantTurn(s, 0, now.Add(120000*time.Millisecond)))
		assert.True(t, e.CanStartParticipantTurn(s, 0, now.Add(120001*time.Millisecond)))
	})

	t.Run("failed_pre_search_proceeds", func(t *testing.T) {
		s := state()
		s.PreSearches[0] = model.PreSearch{RoundNumber: 0, Status: model.StatusFailed}
		assert.True(t, e.CanStartParticipantTurn(s, 0, now))
	})
}

func TestEvaluator_Participants(t *testing.T) {
	t.Parallel()

	e := New(phase.Thresholds{})

	t.Run("responded_but_streaming", func(t *testing.T) {
		s := state(question(0), reply(0, 0, "p1", "stop"), reply(0, 1, "p2", ""))
		assert.True(t, e.AllParticipantsResponded(s, 0))
		assert.False(t, e.AllParticipantsFinished(s, 0))
		assert.Equal(t, 1, e.NextParticipant(s, 0))
		assert.Equal(t, []string{"t_r0_p0", "t_r0_p1"}, e.ParticipantMessageIDs(s, 0))
	})

	t.Run("missing_participant", func(t *testing.T) {
		s := state(question(0), reply(0, 0, "p1", "stop"))
		assert.False(t, e.AllParticipantsResponded(s, 0))
		assert.Nil(t, e.ParticipantMessageIDs(s, 0))
	})

	t.Run("snapshot_wins_over_live_config", func(t *testing.T) {
		s := state(question(0), reply(0, 0, "p1", "stop"))
		s.Rounds[0] = model.Round{Number: 0, Participants: participants()[:1]}
		assert.True(t, e.AllParticipantsFinished(s, 0))
		assert.Equal(t, -1, e.NextParticipant(s, 0))
	})

	t.Run("no_participants", func(t *testing.T) {
		s := state()
		s.Participants = nil
		assert.False(t, e.AllParticipantsResponded(s, 0))
	})
}

func TestEvaluator_CanStartAnalysis(t *testing.T) {
	t.Parallel()

	e := New(phase.Thresholds{})
	finished := []model.Message{question(0), reply(0, 0, "p1", "stop"), reply(0, 1, "p2", "stop")}

	t.Run("ready", func(t *testing.T) {
		s := state(finished...)
		s.Analyses[0] = model.Analysis{RoundNumber: 0, Status: model.StatusPending, ParticipantMessageIDs: []string{"t_r0_p0", "t_r0_p1"}}
		assert.True(t, e.CanStartAnalysis(s, 0))
	})

	t.Run("placeholder", func(t *testing.T) {
		s := state(finished...)
		s.Analyses[0] = model.Analysis{RoundNumber: 0, Status: model.StatusPending}
		assert.False(t, e.CanStartAnalysis(s, 0))
	})

	t.Run("already_streaming", func(t *testing.T) {
		s := state(finished...)
		s.Analyses[0] = model.Analysis{RoundNumber: 0, Status: model.StatusStreaming, ParticipantMessageIDs: []string{"x"}}
		assert.False(t, e.CanStartAnalysis(s, 0))
	})

	t.Run("stopped_round", func(t *testing.T) {
		s := state(finished...)
		s.Analyses[0] = model.Analysis{RoundNumber: 0, Status: model.StatusPending, ParticipantMessageIDs: []string{"x"}}
		s.Rounds[0] = model.Round{Number: 0, Participants: participants(), Stopped: true}
		assert.False(t, e.CanStartAnalysis(s, 0))
	})
}

func TestEvaluator_CanNavigateAwayFromOverview(t *testing.T) {
	t.Parallel()

	e := New(phase.Thresholds{})

	complete := func() registry.State {
		s := state(question(0), reply(0, 0, "p1", "stop"), reply(0, 1, "p2", "stop"))
		s.Analyses[0] = model.Analysis{RoundNumber: 0, Status: model.StatusComplete}
		return s
	}

	t.Run("complete", func(t *testing.T) {
		assert.True(t, e.CanNavigateAwayFromOverview(complete(), now))
	})

	t.Run("no_slug", func(t *testing.T) {
		s := complete()
		s.Thread.Slug = ""
		assert.False(t, e.CanNavigateAwayFromOverview(s, now))
	})

	t.Run("idle", func(t *testing.T) {
		s := complete()
		s.RoundState = phase.RoundState{}
		assert.False(t, e.CanNavigateAwayFromOverview(s, now))
	})

	t.Run("failed_analysis_settles", func(t *testing.T) {
		s := complete()
		s.Analyses[0] = model.Analysis{RoundNumber: 0, Status: model.StatusFailed}
		assert.True(t, e.CanNavigateAwayFromOverview(s, now))
	})

	t.Run("streaming_analysis_boundary", func(t *testing.T) {
		s := complete()
		s.Analyses[0] = model.Analysis{RoundNumber: 0, Status: model.StatusStreaming, StatusChangedAt: now}
		assert.False(t, e.CanNavigateAwayFromOverview(s, now.Add(60000*time.Millisecond)))
		assert.True(t, e.CanNavigateAwayFromOverview(s, now.Add(60001*time.Millisecond)))
	})

	t.Run("pre_search_running", func(t *testing.T) {
		s := complete()
		s.PreSearches[0] = model.PreSearch{RoundNumber: 0, Status: model.StatusStreaming, CreatedAt: now}
		assert.False(t, e.CanNavigateAwayFromOverview(s, now.Add(time.Second)))
	})

	t.Run("analysis_disabled", func(t *testing.T) {
		s := complete()
		delete(s.Analyses, 0)
		s.Thread.AnalysisDisabled = true
		assert.True(t, e.CanNavigateAwayFromOverview(s, now))
	})

	t.Run("missing_analysis", func(t *testing.T) {
		s := complete()
		delete(s.Analyses, 0)
		assert.False(t, e.CanNavigateAwayFromOverview(s, now))
	})
	t.Run("stopped_round_without_analysis", func(t *testing.T) {
		s := state(question(0), reply(0, 0, "p1", model.FinishReasonStop))
		s.Rounds[0] = model.Round{Number: 0, Participants: participants(), Stopped: true}
		assert.True(t, e.CanNavigateAwayFromOverview(s, now))
	})

	t.Run("ready_analysis_while_participant_streams", func(t *testing.T) {
		s := state(question(0), reply(0, 0, "p1", "stop"), reply(0, 1, "p2", ""))
		s.Analyses[0] = model.Analysis{RoundNumber: 0, Status: model.StatusPending, ParticipantMessageIDs: []string{"t_r0_p0", "t_r0_p1"}, StatusChangedAt: now}
		assert.False(t, e.CanNavigateAwayFromOverview(s, now.Add(time.Hour)))
	})
}

func TestEvaluator_Input(t *testing.T) {
	t.Parallel()

	e := New(phase.Thresholds{})

	s := state()
	s.Lifecycle = phase.Lifecycle{Kind: phase.Streaming}
	assert.True(t, e.IsInputBlocked(s))
	assert.False(t, e.CanSendNextMessage(s))

	s.Lifecycle = phase.Lifecycle{Kind: phase.StartFailed}
	assert.False(t, e.IsInputBlocked(s))
	assert.False(t, e.CanSendNextMessage(s), "round 0 is still active")

	s.RoundState = phase.RoundState{Kind: phase.RoundComplete, Number: 0}
	assert.True(t, e.CanSendNextMessage(s))
}

func TestEvaluator_RoundComplete(t *testing.T) {
	t.Parallel()

	e := New(phase.Thresholds{})

	s := state(question(0), reply(0, 0, "p1", "stop"))
	assert.False(t, e.RoundComplete(s, 0, now))

	s.Rounds[0] = model.Round{Number: 0, Stopped: true}
	assert.True(t, e.RoundComplete(s, 0, now))
}

func TestEvaluator_IncompleteRounds(t *testing.T) {
	t.Parallel()

	e := New(phase.Thresholds{})

	s := state(
		question(0), reply(0, 0, "p1", "stop"), reply(0, 1, "p2", "stop"),
		question(1), reply(1, 0, "p1", "stop"),
		question(2),
	)
	assert.Equal(t, []int{1, 2}, e.IncompleteRounds(s))

	s.Rounds[2] = model.Round{Number: 2, Participants: participants(), Stopped: true}
	assert.Equal(t, []int{1}, e.IncompleteRounds(s))
}

func TestEvaluator_ConfigMismatch(t *testing.T) {
	t.Parallel()

	e := New(phase.Thresholds{})

	assert.False(t, e.ConfigMismatch(state(question(0), reply(0, 0, "p1", "stop")), 0))
	assert.True(t, e.ConfigMismatch(state(question(0), reply(0, 0, "p2", "stop")), 0))
	assert.True(t, e.ConfigMismatch(state(question(0), reply(0, 5, "p1", "")), 0))

	byModel := reply(0, 1, "", "stop")
	byModel.ModelID = "gpt"
	assert.True(t, e.ConfigMismatch(state(question(0), byModel), 0))
}
