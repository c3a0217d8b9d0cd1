// Package registry holds the canonical collections of one thread: messages,
// pre-searches, analyses, participants and round snapshots.
//
// Every write goes through a transaction. A transaction that changes state
// bumps the version and notifies subscribers exactly once, synchronously,
// before the write call returns. Malformed entries are dropped and counted,
// never rejected with an error.
package registry

import (
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/s21platform/roundtable-service/internal/model"
	"github.com/s21platform/roundtable-service/internal/phase"
	"github.com/s21platform/roundtable-service/internal/reconcile"
)

type Subscriber func(State)

// DropHook observes every dropped entry; kind is one of "message",
// "pre_search", "analysis" or "participant".
type DropHook func(kind string)

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func WithDropHook(hook DropHook) Option {
	return func(r *Registry) {
		r.onDrop = hook
	}
}

type Registry struct {
	mu      sync.Mutex
	state   State
	subs    map[int]Subscriber
	nextSub int
	now     func() time.Time
	onDrop  DropHook
}

func New(opts ...Option) *Registry {
	r := &Registry{
		state: emptyState(),
		subs:  make(map[int]Subscriber),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}

// Subscribe registers fn for every committed change. Subscribers run while
// the write is still in progress and must not call back into the registry.
func (r *Registry) Subscribe(fn Subscriber) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

// Update runs fn against a working copy of the state. The copy is committed
// when fn returns nil and something changed; otherwise it is discarded.
func (r *Registry) Update(fn func(tx *Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &Tx{state: r.state.Clone(), now: r.now(), onDrop: r.onDrop}
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.changed {
		return nil
	}

	tx.state.Version = r.state.Version + 1
	r.state = tx.state

	ids := make([]int, 0, len(r.subs))
	for id := range r.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		r.subs[id](r.state.Clone())
	}
	return nil
}

func (r *Registry) UpsertMessages(batch []model.Message) {
	_ = r.Update(func(tx *Tx) error {
		tx.UpsertMessages(batch)
		return nil
	})
}

func (r *Registry) UpsertPreSearch(ps model.PreSearch) {
	_ = r.Update(func(tx *Tx) error {
		tx.UpsertPreSearch(ps)
		return nil
	})
}

func (r *Registry) UpsertAnalysis(a model.Analysis) {
	_ = r.Update(func(tx *Tx) error {
		tx.UpsertAnalysis(a)
		return nil
	})
}

func (r *Registry) SetParticipants(list []model.Participant) {
	_ = r.Update(func(tx *Tx) error {
		tx.SetParticipants(list)
		return nil
	})
}

// Tx is a write transaction over a working copy of the state.
type Tx struct {
	state   State
	now     time.Time
	changed bool
	onDrop  DropHook
}

// State exposes the working copy. Callers must treat it as read-only and
// write through the Tx methods.
func (tx *Tx) State() State {
	return tx.state
}

func (tx *Tx) Now() time.Time {
	return tx.now
}

func (tx *Tx) drop(kind string) {
	tx.state.Dropped++
	tx.changed = true
	if tx.onDrop != nil {
		tx.onDrop(kind)
	}
}

// UpsertMessages reconciles batch into the message set and returns how many
// entries were well-formed.
func (tx *Tx) UpsertMessages(batch []model.Message) int {
	created := make(map[string]time.Time, len(tx.state.Messages))
	for _, m := range tx.state.Messages {
		created[m.ID] = m.CreatedAt
	}

	valid := make([]model.Message, 0, len(batch))
	for _, m := range batch {
		if !validMessage(m) {
			tx.drop("message")
			continue
		}
		if m.CreatedAt.IsZero() {
			if at, ok := created[m.ID]; ok {
				m.CreatedAt = at
			} else {
				m.CreatedAt = tx.now
				created[m.ID] = tx.now
			}
		}
		valid = append(valid, m)
	}
	if len(valid) == 0 {
		return 0
	}

	merged := reconcile.Merge(tx.state.Messages, valid)
	if !reflect.DeepEqual(merged, tx.state.Messages) {
		tx.state.Messages = merged
		tx.changed = true
	}
	return len(valid)
}

// RemoveMessages deletes every message matching pred and returns the count.
func (tx *Tx) RemoveMessages(pred func(model.Message) bool) int {
	kept := tx.state.Messages[:0:0]
	removed := 0
	for _, m := range tx.state.Messages {
		if pred(m) {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	if removed > 0 {
		tx.state.Messages = kept
		tx.changed = true
	}
	return removed
}

// ReplaceMessage overwrites the stored message with the same id, bypassing
// the reconciler. It is used for local finalization, never for incoming data.
func (tx *Tx) ReplaceMessage(m model.Message) bool {
	for i, cur := range tx.state.Messages {
		if cur.ID != m.ID {
			continue
		}
		if reflect.DeepEqual(cur, m) {
			return false
		}
		tx.state.Messages[i] = m.Clone()
		tx.changed = true
		return true
	}
	return false
}

func (tx *Tx) UpsertPreSearch(ps model.PreSearch) bool {
	if !validPreSearch(ps) {
		tx.drop("pre_search")
		return false
	}
	if ps.CreatedAt.IsZero() {
		ps.CreatedAt = tx.now
	}

	next := ps
	if cur, ok := tx.state.PreSearches[ps.RoundNumber]; ok {
		next = mergePreSearch(cur, ps)
		if reflect.DeepEqual(cur, next) {
			return false
		}
	}
	tx.state.PreSearches[ps.RoundNumber] = next
	tx.changed = true
	return true
}

func (tx *Tx) UpsertAnalysis(a model.Analysis) bool {
	if !validAnalysis(a) {
		tx.drop("analysis")
		return false
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = tx.now
	}

	next := a.Clone()
	if cur, ok := tx.state.Analyses[a.RoundNumber]; ok {
		next = mergeAnalysis(cur, a, tx.now)
		if reflect.DeepEqual(cur, next) {
			return false
		}
	}
	tx.state.Analyses[a.RoundNumber] = next
	tx.changed = true
	return true
}

func (tx *Tx) RemoveAnalysis(round int) bool {
	if _, ok := tx.state.Analyses[round]; !ok {
		return false
	}
	delete(tx.state.Analyses, round)
	tx.changed = true
	return true
}

// SetParticipants replaces the live configuration. Priorities are
// renormalized to 0..n-1; round snapshots are not touched.
func (tx *Tx) SetParticipants(list []model.Participant) {
	valid := make(model.ParticipantList, 0, len(list))
	for _, p := range list {
		if !validParticipant(p) {
			tx.drop("participant")
			continue
		}
		valid = append(valid, p)
	}
	next := valid.Normalize()
	if len(next) == 0 && len(tx.state.Participants) == 0 {
		return
	}
	if !reflect.DeepEqual(next, tx.state.Participants) {
		tx.state.Participants = next
		tx.changed = true
	}
}

func (tx *Tx) SetThread(t model.Thread) {
	if tx.state.Thread != t {
		tx.state.Thread = t
		tx.changed = true
	}
}

func (tx *Tx) SetInitialized() {
	if !tx.state.Initialized {
		tx.state.Initialized = true
		tx.changed = true
	}
}

func (tx *Tx) SetRound(r model.Round) {
	if cur, ok := tx.state.Rounds[r.Number]; ok && reflect.DeepEqual(cur, r) {
		return
	}
	tx.state.Rounds[r.Number] = r.Clone()
	tx.changed = true
}

func (tx *Tx) SetRoundState(s phase.RoundState) {
	if tx.state.RoundState != s {
		tx.state.RoundState = s
		tx.changed = true
	}
}

func (tx *Tx) SetLifecycle(l phase.Lifecycle) {
	if !reflect.DeepEqual(tx.state.Lifecycle, l) {
		tx.state.Lifecycle = l
		tx.changed = true
	}
}

func (tx *Tx) SetConfigChangePending(pending bool) {
	if tx.state.ConfigChangePending != pending {
		tx.state.ConfigChangePending = pending
		tx.changed = true
	}
}

// Reset clears everything except the version counter.
func (tx *Tx) Reset() {
	tx.state = emptyState()
	tx.changed = true
}
