package rest

import (
	"github.com/s21platform/roundtable-service/internal/api"
	"github.com/s21platform/roundtable-service/internal/model"
	"github.com/s21platform/roundtable-service/internal/registry"
	"github.com/s21platform/roundtable-service/internal/round"
)

func toModelParts(parts []api.Part) []model.Part {
	out := make([]model.Part, len(parts))
	for i, p := range parts {
		out[i] = model.Part{Type: model.PartType(p.Type), Text: p.Text, URL: p.URL}
	}
	return out
}

func toAPIParts(parts []model.Part) []api.Part {
	out := make([]api.Part, len(parts))
	for i, p := range parts {
		out[i] = api.Part{Type: string(p.Type), Text: p.Text, URL: p.URL}
	}
	return out
}

func toModelMessage(threadID string, m api.Message) model.Message {
	return model.Message{
		ID:               m.Id,
		ThreadID:         threadID,
		Role:             model.Role(m.Role),
		RoundNumber:      m.RoundNumber,
		ParticipantIndex: m.ParticipantIndex,
		ParticipantID:    m.ParticipantId,
		ModelID:          m.ModelId,
		Parts:            toModelParts(m.Parts),
		FinishReason:     m.FinishReason,
		IsOptimistic:     m.IsOptimistic,
		HasError:         m.HasError,
		ErrorMessage:     m.ErrorMessage,
		CreatedAt:        m.CreatedAt,
	}
}

func toModelParticipants(list []api.Participant) []model.Participant {
	out := make([]model.Participant, len(list))
	for i, p := range list {
		out[i] = model.Participant{
			ID:        p.Id,
			ModelID:   p.ModelId,
			Role:      p.Role,
			Priority:  p.Priority,
			IsEnabled: p.IsEnabled,
		}
	}
	return out
}

func toModelThread(t api.Thread) model.Thread {
	return model.Thread{
		ID:               t.Id,
		Slug:             t.Slug,
		Title:            t.Title,
		Mode:             t.Mode,
		EnableWebSearch:  t.EnableWebSearch,
		AnalysisDisabled: t.AnalysisDisabled,
	}
}

func toStreamDelta(req api.StreamDeltaRequest) round.StreamDelta {
	return round.StreamDelta{
		MessageID:        req.MessageId,
		RoundNumber:      req.RoundNumber,
		ParticipantIndex: req.ParticipantIndex,
		ParticipantID:    req.ParticipantId,
		ModelID:          req.ModelId,
		Parts:            toModelParts(req.Parts),
		FinishReason:     req.FinishReason,
		HasError:         req.HasError,
		ErrorMessage:     req.ErrorMessage,
	}
}

func toStatusUpdate(req api.StatusUpdateRequest) round.StatusUpdate {
	return round.StatusUpdate{
		Status:       model.Status(req.Status),
		Data:         req.Data,
		ErrorMessage: req.ErrorMessage,
	}
}

func toThreadState(st registry.State, r round.Readiness) api.ThreadStateResponse {
	resp := api.ThreadStateResponse{
		Version: st.Version,
		Thread: api.Thread{
			Id:               st.Thread.ID,
			Slug:             st.Thread.Slug,
			Title:            st.Thread.Title,
			Mode:             st.Thread.Mode,
			EnableWebSearch:  st.Thread.EnableWebSearch,
			AnalysisDisabled: st.Thread.AnalysisDisabled,
		},
		Participants:        make([]api.Participant, len(st.Participants)),
		Messages:            make([]api.Message, len(st.Messages)),
		PreSearches:         make([]api.PreSearch, 0, len(st.PreSearches)),
		Analyses:            make([]api.Analysis, 0, len(st.Analyses)),
		RoundState:          st.RoundState.Kind.String(),
		RoundNumber:         st.RoundState.Number,
		Lifecycle:           st.Lifecycle.Kind.String(),
		LifecycleError:      st.Lifecycle.Err,
		ConfigChangePending: st.ConfigChangePending,
		Readiness: api.Readiness{
			InputBlocked: r.InputBlocked,
			CanNavigate:  r.CanNavigate,
			CanSendNext:  r.CanSendNext,
		},
	}

	for i, p := range st.Participants {
		resp.Participants[i] = api.Participant{
			Id:        p.ID,
			ModelId:   p.ModelID,
			Role:      p.Role,
			Priority:  p.Priority,
			IsEnabled: p.IsEnabled,
		}
	}

	for i, m := range st.Messages {
		resp.Messages[i] = api.Message{
			Id:               m.ID,
			Role:             string(m.Role),
			RoundNumber:      m.RoundNumber,
			ParticipantIndex: m.ParticipantIndex,
			ParticipantId:    m.ParticipantID,
			ModelId:          m.ModelID,
			Parts:            toAPIParts(m.Parts),
			FinishReason:     m.FinishReason,
			IsOptimistic:     m.IsOptimistic,
			HasError:         m.HasError,
			ErrorMessage:     m.ErrorMessage,
			CreatedAt:        m.CreatedAt,
		}
	}

	for _, n := range st.RoundNumbers() {
		if ps, ok := st.PreSearch(n); ok {
			resp.PreSearches = append(resp.PreSearches, api.PreSearch{
				Id:             ps.ID,
				RoundNumber:    ps.RoundNumber,
				Status:         string(ps.Status),
				UserQuery:      ps.UserQuery,
				SearchData:     ps.SearchData,
				ErrorMessage:   ps.ErrorMessage,
				ForcedComplete: ps.ForcedComplete,
			})
		}
		if a, ok := st.Analysis(n); ok {
			resp.Analyses = append(resp.Analyses, api.Analysis{
				Id:                    a.ID,
				RoundNumber:           a.RoundNumber,
				Status:                string(a.Status),
				UserQuestion:          a.UserQuestion,
				ParticipantMessageIds: a.ParticipantMessageIDs,
				AnalysisData:          a.AnalysisData,
				ErrorMessage:          a.ErrorMessage,
			})
		}
	}

	return resp
}
