package validator

import (
	"fmt"
	"strings"

	"github.com/s21platform/roundtable-service/internal/api"
	"github.com/s21platform/roundtable-service/internal/model"
)

const maxContentLength = 32000

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) ValidatePrepareMessage(req *api.PrepareMessageRequest) error {
	if strings.TrimSpace(req.Content) == "" && len(req.Files) == 0 {
		return fmt.Errorf("content cannot be empty")
	}

	if len([]rune(req.Content)) > maxContentLength {
		return fmt.Errorf("content exceeds maximum length of %d characters", maxContentLength)
	}

	for _, f := range req.Files {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("file url cannot be empty")
		}
	}

	return nil
}

func (v *Validator) ValidateStreamDelta(req *api.StreamDeltaRequest) error {
	if req.RoundNumber < 0 {
		return fmt.Errorf("round_number must not be negative")
	}

	if req.ParticipantIndex < 0 {
		return fmt.Errorf("participant_index must not be negative")
	}

	if req.MessageId != "" && model.IsOptimisticID(req.MessageId) {
		return fmt.Errorf("message_id '%s' is reserved for user messages", req.MessageId)
	}

	if err := validateDeltaMessageID(req); err != nil {
		return err
	}

	return validateParts(req.Parts)
}

// validateDeltaMessageID checks a deterministic message id against the round
// and participant it claims to stream. Ids of any other form pass.
func validateDeltaMessageID(req *api.StreamDeltaRequest) error {
	if req.MessageId == "" {
		return nil
	}
	key, ok := model.ParseMessageID(req.MessageId)
	if !ok {
		return nil
	}
	if key.Role != model.RoleAssistant {
		return fmt.Errorf("message_id '%s' is reserved for user messages", req.MessageId)
	}
	if key.RoundNumber != req.RoundNumber || key.ParticipantIndex != req.ParticipantIndex {
		return fmt.Errorf("message_id '%s' does not match round %d participant %d", req.MessageId, req.RoundNumber, req.ParticipantIndex)
	}
	return nil
}

func (v *Validator) ValidateStatusUpdate(req *api.StatusUpdateRequest) error {
	if !model.Status(req.Status).Valid() {
		return fmt.Errorf("status '%s' is not supported", req.Status)
	}

	if model.Status(req.Status) == model.StatusFailed && strings.TrimSpace(req.ErrorMessage) == "" {
		return fmt.Errorf("error_message is required for failed status")
	}

	return nil
}

func (v *Validator) ValidateParticipants(req *api.SetParticipantsRequest) error {
	seen := make(map[string]struct{}, len(req.Participants))
	for _, p := range req.Participants {
		if strings.TrimSpace(p.Id) == "" {
			return fmt.Errorf("participant id is required")
		}

		if strings.TrimSpace(p.ModelId) == "" {
			return fmt.Errorf("participant %s has no model_id", p.Id)
		}

		if _, ok := seen[p.Id]; ok {
			return fmt.Errorf("participant %s is listed twice", p.Id)
		}
		seen[p.Id] = struct{}{}
	}

	return nil
}

func validateParts(parts []api.Part) error {
	for i, p := range parts {
		switch model.PartType(p.Type) {
		case model.TextPartType:
		case model.FilePartType:
			if p.URL == "" {
				return fmt.Errorf("part %d: file part requires url", i)
			}
		default:
			return fmt.Errorf("part %d: type '%s' is not supported", i, p.Type)
		}
	}

	return nil
}
