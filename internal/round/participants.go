package round

import (
	"github.com/s21platform/roundtable-service/internal/model"
	"github.com/s21platform/roundtable-service/internal/registry"
)

// Participant edits change the live configuration only. Rounds already
// started keep the snapshot taken at their start.

func (s *Store) SetParticipants(list []model.Participant) {
	_ = s.write(func(tx *registry.Tx) error {
		tx.SetParticipants(list)
		return nil
	})
}

// AddParticipant appends p at the end of the turn order.
func (s *Store) AddParticipant(p model.Participant) {
	_ = s.write(func(tx *registry.Tx) error {
		list := append(model.ParticipantList(nil), tx.State().Participants...)
		p.Priority = len(list)
		tx.SetParticipants(append(list, p))
		return nil
	})
}

func (s *Store) RemoveParticipant(id string) error {
	err := s.write(func(tx *registry.Tx) error {
		cur := tx.State().Participants
		list := make(model.ParticipantList, 0, len(cur))
		for _, p := range cur {
			if p.ID != id {
				list = append(list, p)
			}
		}
		if len(list) == len(cur) {
			return ErrUnknownParticipant
		}
		tx.SetParticipants(list)
		return nil
	})
	if err != nil {
		return s.reject("remove participant", err)
	}
	return nil
}

// UpdateParticipant replaces the participant with the same id, keeping its
// place in the turn order.
func (s *Store) UpdateParticipant(p model.Participant) error {
	err := s.write(func(tx *registry.Tx) error {
		list := append(model.ParticipantList(nil), tx.State().Participants...)
		for i := range list {
			if list[i].ID == p.ID {
				p.Priority = list[i].Priority
				list[i] = p
				tx.SetParticipants(list)
				return nil
			}
		}
		return ErrUnknownParticipant
	})
	if err != nil {
		return s.reject("update participant", err)
	}
	return nil
}

// ReorderParticipants sets the turn order to ids. Participants missing from
// ids keep their relative order after the listed ones.
func (s *Store) ReorderParticipants(ids []string) error {
	err := s.write(func(tx *registry.Tx) error {
		cur := tx.State().Participants
		byID := make(map[string]model.Participant, len(cur))
		for _, p := range cur {
			byID[p.ID] = p
		}

		list := make(model.ParticipantList, 0, len(cur))
		placed := make(map[string]bool, len(ids))
		for _, id := range ids {
			p, ok := byID[id]
			if !ok {
				return ErrUnknownParticipant
			}
			if placed[id] {
				continue
			}
			placed[id] = true
			list = append(list, p)
		}
		for _, p := range cur {
			if !placed[p.ID] {
				list = append(list, p)
			}
		}
		for i := range list {
			list[i].Priority = i
		}
		tx.SetParticipants(list)
		return nil
	})
	if err != nil {
		return s.reject("reorder participants", err)
	}
	return nil
}
