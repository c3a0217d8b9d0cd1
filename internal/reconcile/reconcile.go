// Package reconcile merges incoming message batches into the canonical
// message set of a thread.
//
// Merge is deterministic and idempotent: feeding the same batch twice, or the
// pieces of one update set in any order, converges on the same result. The
// only order-dependent rule is last-writer-wins between two equally rich
// versions of a message.
package reconcile

import (
	"sort"

	"github.com/s21platform/roundtable-service/internal/model"
)

type entry struct {
	msg model.Message
	// seq is the arrival order of the version currently held.
	seq int
}

// Merge returns the canonical message set produced by applying incoming on top
// of existing. Neither input is modified.
func Merge(existing, incoming []model.Message) []model.Message {
	entries := make([]entry, 0, len(existing)+len(incoming))
	byID := make(map[string]int, len(existing)+len(incoming))
	seq := 0

	put := func(m model.Message) {
		seq++
		if i, ok := byID[m.ID]; ok {
			if Prefer(entries[i].msg, m) {
				entries[i] = entry{msg: m.Clone(), seq: seq}
			}
			return
		}
		if m.Role == model.RoleUser && !m.IsOptimistic {
			if i := optimisticUser(entries, m.RoundNumber); i >= 0 {
				delete(byID, entries[i].msg.ID)
				entries[i] = entry{msg: m.Clone(), seq: seq}
				byID[m.ID] = i
				return
			}
		}
		byID[m.ID] = len(entries)
		entries = append(entries, entry{msg: m.Clone(), seq: seq})
	}

	for _, m := range existing {
		put(m)
	}
	for _, m := range incoming {
		put(m)
	}

	entries = dedupeSlots(entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return Less(entries[i].msg, entries[j].msg)
	})

	out := make([]model.Message, len(entries))
	for i, e := range entries {
		out[i] = e.msg
	}
	return out
}

// Prefer reports whether incoming should replace current, which shares its id.
// Incoming wins unless it is worse:
//   - it has no content while current is finished with content;
//   - current is finished and incoming is a stale streaming delta;
//   - both are streaming and incoming carries less content.
func Prefer(current, incoming model.Message) bool {
	if current.IsFinished() {
		if !incoming.IsFinished() {
			return false
		}
		if !incoming.HasContent() && current.HasContent() {
			return false
		}
		return true
	}
	if !incoming.IsFinished() && incoming.ContentLen() < current.ContentLen() {
		return false
	}
	return true
}

// Less is the canonical order: round ascending, the user message first, then
// assistants by participant index.
func Less(a, b model.Message) bool {
	if a.RoundNumber != b.RoundNumber {
		return a.RoundNumber < b.RoundNumber
	}
	if a.Role != b.Role {
		return a.Role == model.RoleUser
	}
	return a.Index() < b.Index()
}

func optimisticUser(entries []entry, round int) int {
	for i, e := range entries {
		if e.msg.Role == model.RoleUser && e.msg.IsOptimistic && e.msg.RoundNumber == round {
			return i
		}
	}
	return -1
}

type slot struct {
	round int
	role  model.Role
	index int
}

func slotOf(m model.Message) slot {
	s := slot{round: m.RoundNumber, role: m.Role, index: -1}
	if m.Role == model.RoleAssistant {
		s.index = m.Index()
	}
	return s
}

// dedupeSlots keeps one message per (round, user) and per (round, participant
// index). A confirmed user message beats an optimistic one and the most recent
// confirmation beats older ones. Competing assistant versions resolve through
// Prefer, falling back to the most recent arrival.
func dedupeSlots(entries []entry) []entry {
	winner := make(map[slot]int, len(entries))
	for i, e := range entries {
		s := slotOf(e.msg)
		j, ok := winner[s]
		if !ok || beats(e, entries[j]) {
			winner[s] = i
		}
	}
	if len(winner) == len(entries) {
		return entries
	}

	out := entries[:0:0]
	for i, e := range entries {
		if winner[slotOf(e.msg)] == i {
			out = append(out, e)
		}
	}
	return out
}

func beats(challenger, holder entry) bool {
	c, h := challenger.msg, holder.msg
	if c.Role == model.RoleUser {
		if c.IsOptimistic != h.IsOptimistic {
			return !c.IsOptimistic
		}
		return challenger.seq > holder.seq
	}

	cBetter, hBetter := Prefer(h, c), Prefer(c, h)
	if cBetter != hBetter {
		return cBetter
	}
	return challenger.seq > holder.seq
}
