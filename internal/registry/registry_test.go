package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s21platform/roundtable-service/internal/model"
)

var now = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func clock() func() time.Time {
	return func() time.Time { return now }
}

func reply(round, idx int, text, finish string) model.Message {
	return model.Message{
		ID:               model.ParticipantMessageID("t", round, idx),
		ThreadID:         "t",
		Role:             model.RoleAssistant,
		RoundNumber:      round,
		ParticipantIndex: model.IntPtr(idx),
		Parts:            []model.Part{{Type: model.TextPartType, Text: text}},
		FinishReason:     finish,
	}
}

func TestRegistry_UpsertMessages(t *testing.T) {
	t.Parallel()

	t.Run("one_notification_per_write", func(t *testing.T) {
		r := New(WithClock(clock()))

		var seen []uint64
		r.Subscribe(func(s State) {
			seen = append(seen, s.Version)
		})

		r.UpsertMessages([]model.Message{reply(0, 0, "a", ""), reply(0, 1, "b", "")})
		assert.Equal(t, []uint64{1}, seen)

		snap := r.Snapshot()
		require.Len(t, snap.Messages, 2)
		assert.Equal(t, now, snap.Messages[0].CreatedAt)
	})

	t.Run("redundant_write_is_silent", func(t *testing.T) {
		r := New(WithClock(clock()))
		batch := []model.Message{reply(0, 0, "a", "stop")}
		r.UpsertMessages(batch)

		notified := 0
		r.Subscribe(func(State) { notified++ })

		r.UpsertMessages(batch)
		assert.Zero(t, notified)
		assert.Equal(t, uint64(1), r.Snapshot().Version)
	})

	t.Run("created_at_kept_on_update", func(t *testing.T) {
		current := now
		r := New(WithClock(func() time.Time { return current }))

		r.UpsertMessages([]model.Message{reply(0, 0, "a", "")})
		current = now.Add(time.Minute)
		r.UpsertMessages([]model.Message{reply(0, 0, "ab", "")})

		snap := r.Snapshot()
		assert.Equal(t, now, snap.Messages[0].CreatedAt)
		assert.Equal(t, "ab", snap.Messages[0].Text())
	})

	t.Run("malformed_dropped_and_counted", func(t *testing.T) {
		var dropped []string
		r := New(WithDropHook(func(kind string) { dropped = append(dropped, kind) }))

		noIndex := reply(0, 0, "x", "")
		noIndex.ParticipantIndex = nil
		r.UpsertMessages([]model.Message{
			{Role: model.RoleUser},
			noIndex,
			reply(0, 1, "ok", ""),
		})

		snap := r.Snapshot()
		assert.Len(t, snap.Messages, 1)
		assert.Equal(t, 2, snap.Dropped)
		assert.Equal(t, []string{"message", "message"}, dropped)
	})
}

func TestRegistry_Snapshot(t *testing.T) {
	t.Parallel()

	r := New()
	r.UpsertMessages([]model.Message{reply(0, 0, "a", "")})

	snap := r.Snapshot()
	snap.Messages[0].Parts[0].Text = "mutated"
	snap.Analyses[3] = model.Analysis{}

	again := r.Snapshot()
	assert.Equal(t, "a", again.Messages[0].Text())
	assert.Empty(t, again.Analyses)
}

func TestRegistry_Unsubscribe(t *testing.T) {
	t.Parallel()

	r := New()
	calls := 0
	unsubscribe := r.Subscribe(func(State) { calls++ })

	r.UpsertMessages([]model.Message{reply(0, 0, "a", "")})
	unsubscribe()
	r.UpsertMessages([]model.Message{reply(0, 1, "b", "")})

	assert.Equal(t, 1, calls)
}

func TestRegistry_Update(t *testing.T) {
	t.Parallel()

	t.Run("error_discards", func(t *testing.T) {
		r := New()
		err := r.Update(func(tx *Tx) error {
			tx.UpsertMessages([]model.Message{reply(0, 0, "a", "")})
			return assert.AnError
		})

		assert.ErrorIs(t, err, assert.AnError)
		assert.Empty(t, r.Snapshot().Messages)
		assert.Zero(t, r.Snapshot().Version)
	})

	t.Run("many_changes_one_version", func(t *testing.T) {
		r := New()
		err := r.Update(func(tx *Tx) error {
			tx.SetThread(model.Thread{ID: "t"})
			tx.SetParticipants([]model.Participant{{ID: "p", ModelID: "m", IsEnabled: true}})
			tx.UpsertMessages([]model.Message{reply(0, 0, "a", "")})
			tx.SetInitialized()
			return nil
		})

		require.NoError(t, err)
		snap := r.Snapshot()
		assert.Equal(t, uint64(1), snap.Version)
		assert.True(t, snap.Initialized)
	})
}

func TestRegistry_UpsertPreSearch(t *testing.T) {
	t.Parallel()

	r := New(WithClock(clock()))

	r.UpsertPreSearch(model.PreSearch{ID: "ps", RoundNumber: 0, Status: model.StatusComplete, SearchData: []byte(`{"a":1}`)})
	r.UpsertPreSearch(model.PreSearch{ID: "ps", RoundNumber: 0, Status: model.StatusStreaming})

	ps, ok := r.Snapshot().PreSearch(0)
	require.True(t, ok)
	assert.Equal(t, model.StatusComplete, ps.Status)
	assert.JSONEq(t, `{"a":1}`, string(ps.SearchData))

	r.UpsertPreSearch(model.PreSearch{ID: "ps", RoundNumber: 0, Status: model.StatusFailed, ErrorMessage: "late"})
	ps, _ = r.Snapshot().PreSearch(0)
	assert.Equal(t, model.StatusComplete, ps.Status)
	assert.Empty(t, ps.ErrorMessage)

	r.UpsertPreSearch(model.PreSearch{ID: "forced", RoundNumber: 2, Status: model.StatusComplete, ForcedComplete: true})
	r.UpsertPreSearch(model.PreSearch{RoundNumber: 2, Status: model.StatusFailed, ErrorMessage: "search backend down"})
	ps, _ = r.Snapshot().PreSearch(2)
	assert.Equal(t, model.StatusFailed, ps.Status)
	assert.False(t, ps.ForcedComplete)
	assert.Equal(t, "forced", ps.ID)

	r.UpsertPreSearch(model.PreSearch{RoundNumber: -1, Status: model.StatusPending})
	r.UpsertPreSearch(model.PreSearch{RoundNumber: 1, Status: "done"})
	assert.Equal(t, 2, r.Snapshot().Dropped)
}

func TestRegistry_UpsertAnalysis(t *testing.T) {
	t.Parallel()

	t.Run("placeholder_promoted_in_place", func(t *testing.T) {
		current := now
		r := New(WithClock(func() time.Time { return current }))

		r.UpsertAnalysis(model.Analysis{ID: "placeholder", RoundNumber: 0, Status: model.StatusPending})
		current = now.Add(time.Second)
		r.UpsertAnalysis(model.Analysis{ID: "server", RoundNumber: 0, Status: model.StatusPending, ParticipantMessageIDs: []string{"a", "b"}})

		a, ok := r.Snapshot().Analysis(0)
		require.True(t, ok)
		assert.Equal(t, "placeholder", a.ID)
		assert.Equal(t, []string{"a", "b"}, a.ParticipantMessageIDs)
		assert.False(t, a.IsPlaceholder())
		assert.Equal(t, now.Add(time.Second), a.StatusChangedAt)
	})

	t.Run("never_regresses", func(t *testing.T) {
		r := New(WithClock(clock()))

		r.UpsertAnalysis(model.Analysis{ID: "a", RoundNumber: 0, Status: model.StatusPending, ParticipantMessageIDs: []string{"x"}})
		r.UpsertAnalysis(model.Analysis{RoundNumber: 0, Status: model.StatusComplete})
		r.UpsertAnalysis(model.Analysis{RoundNumber: 0, Status: model.StatusPending})

		a, _ := r.Snapshot().Analysis(0)
		assert.Equal(t, model.StatusComplete, a.Status)
		assert.Equal(t, []string{"x"}, a.ParticipantMessageIDs)
		require.NotNil(t, a.CompletedAt)
		assert.Equal(t, now, *a.CompletedAt)
	})

	t.Run("terminal_is_final", func(t *testing.T) {
		r := New(WithClock(clock()))

		r.UpsertAnalysis(model.Analysis{ID: "a", RoundNumber: 0, Status: model.StatusPending, ParticipantMessageIDs: []string{"x"}})
		r.UpsertAnalysis(model.Analysis{RoundNumber: 0, Status: model.StatusFailed, ErrorMessage: "boom"})
		r.UpsertAnalysis(model.Analysis{RoundNumber: 0, Status: model.StatusComplete, AnalysisData: []byte(`{}`)})

		a, _ := r.Snapshot().Analysis(0)
		assert.Equal(t, model.StatusFailed, a.Status)
		assert.Equal(t, "boom", a.ErrorMessage)
		assert.Nil(t, a.AnalysisData)
	})

	t.Run("ready_at_kept_once_set", func(t *testing.T) {
		r := New(WithClock(clock()))

		r.UpsertAnalysis(model.Analysis{ID: "a", RoundNumber: 0, Status: model.StatusPending})
		r.UpsertAnalysis(model.Analysis{RoundNumber: 0, Status: model.StatusPending, ReadyAt: now})
		a, _ := r.Snapshot().Analysis(0)
		assert.True(t, a.ReadyAt.IsZero())

		r.UpsertAnalysis(model.Analysis{RoundNumber: 0, Status: model.StatusPending, ParticipantMessageIDs: []string{"x"}, ReadyAt: now})
		r.UpsertAnalysis(model.Analysis{RoundNumber: 0, Status: model.StatusPending, ReadyAt: now.Add(time.Hour)})
		a, _ = r.Snapshot().Analysis(0)
		assert.Equal(t, now, a.ReadyAt)
	})
}

func TestTx_SetParticipants(t *testing.T) {
	t.Parallel()

	r := New()
	r.SetParticipants([]model.Participant{
		{ID: "b", ModelID: "m2", Priority: 5, IsEnabled: true},
		{ID: "a", ModelID: "m1", Priority: 2, IsEnabled: true},
		{ID: "", ModelID: "m3"},
	})

	snap := r.Snapshot()
	require.Len(t, snap.Participants, 2)
	assert.Equal(t, "a", snap.Participants[0].ID)
	assert.Equal(t, 0, snap.Participants[0].Priority)
	assert.Equal(t, 1, snap.Participants[1].Priority)
	assert.Equal(t, 1, snap.Dropped)
}

func TestTx_RemoveAndReplace(t *testing.T) {
	t.Parallel()

	r := New()
	r.UpsertMessages([]model.Message{reply(0, 0, "a", ""), reply(0, 1, "b", "")})

	err := r.Update(func(tx *Tx) error {
		assert.Equal(t, 1, tx.RemoveMessages(func(m model.Message) bool { return m.Index() == 1 }))

		stopped := tx.State().Messages[0].Clone()
		stopped.FinishReason = model.FinishReasonStop
		assert.True(t, tx.ReplaceMessage(stopped))
		assert.False(t, tx.ReplaceMessage(stopped))
		return nil
	})
	require.NoError(t, err)

	snap := r.Snapshot()
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, model.FinishReasonStop, snap.Messages[0].FinishReason)
}

func TestState_RoundNumbers(t *testing.T) {
	t.Parallel()

	r := New()
	r.UpsertMessages([]model.Message{reply(2, 0, "a", "")})
	r.UpsertPreSearch(model.PreSearch{RoundNumber: 0, Status: model.StatusPending})
	r.UpsertAnalysis(model.Analysis{RoundNumber: 1, Status: model.StatusPending})

	snap := r.Snapshot()
	assert.Equal(t, []int{0, 1, 2}, snap.RoundNumbers())
	assert.Equal(t, 2, snap.LatestRound())
}
