package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"

	"github.com/s21platform/roundtable-service/internal/model"
)

type messageRow struct {
	ID               string         `db:"id"`
	ThreadID         string         `db:"thread_id"`
	Role             string         `db:"role"`
	RoundNumber      int            `db:"round_number"`
	ParticipantIndex sql.NullInt64  `db:"participant_index"`
	ParticipantID    string         `db:"participant_id"`
	ModelID          string         `db:"model_id"`
	Parts            types.JSONText `db:"parts"`
	FinishReason     string         `db:"finish_reason"`
	HasError         bool           `db:"has_error"`
	ErrorMessage     string         `db:"error_message"`
	CreatedAt        time.Time      `db:"created_at"`
}

func (r messageRow) toModel() (model.Message, error) {
	msg := model.Message{
		ID:            r.ID,
		ThreadID:      r.ThreadID,
		Role:          model.Role(r.Role),
		RoundNumber:   r.RoundNumber,
		ParticipantID: r.ParticipantID,
		ModelID:       r.ModelID,
		FinishReason:  r.FinishReason,
		HasError:      r.HasError,
		ErrorMessage:  r.ErrorMessage,
		CreatedAt:     r.CreatedAt,
	}
	if r.ParticipantIndex.Valid {
		msg.ParticipantIndex = model.IntPtr(int(r.ParticipantIndex.Int64))
	}
	if len(r.Parts) > 0 {
		if err := r.Parts.Unmarshal(&msg.Parts); err != nil {
			return model.Message{}, fmt.Errorf("failed to decode parts of message %s: %v", r.ID, err)
		}
	}
	return msg, nil
}

type preSearchRow struct {
	ID           string         `db:"id"`
	ThreadID     string         `db:"thread_id"`
	RoundNumber  int            `db:"round_number"`
	Status       string         `db:"status"`
	UserQuery    string         `db:"user_query"`
	SearchData   types.JSONText `db:"search_data"`
	ErrorMessage string         `db:"error_message"`
	CreatedAt    time.Time      `db:"created_at"`
	CompletedAt  *time.Time     `db:"completed_at"`
}

func (r preSearchRow) toModel() model.PreSearch {
	return model.PreSearch{
		ID:           r.ID,
		ThreadID:     r.ThreadID,
		RoundNumber:  r.RoundNumber,
		Status:       model.Status(r.Status),
		UserQuery:    r.UserQuery,
		SearchData:   rawOrNil(r.SearchData),
		ErrorMessage: r.ErrorMessage,
		CreatedAt:    r.CreatedAt,
		CompletedAt:  r.CompletedAt,
	}
}

type analysisRow struct {
	ID                    string         `db:"id"`
	ThreadID              string         `db:"thread_id"`
	RoundNumber           int            `db:"round_number"`
	Status                string         `db:"status"`
	UserQuestion          string         `db:"user_question"`
	ParticipantMessageIDs types.JSONText `db:"participant_message_ids"`
	AnalysisData          types.JSONText `db:"analysis_data"`
	ErrorMessage          string         `db:"error_message"`
	CreatedAt             time.Time      `db:"created_at"`
	CompletedAt           *time.Time     `db:"completed_at"`
}

func (r analysisRow) toModel() (model.Analysis, error) {
	a := model.Analysis{
		ID:           r.ID,
		ThreadID:     r.ThreadID,
		RoundNumber:  r.RoundNumber,
		Status:       model.Status(r.Status),
		UserQuestion: r.UserQuestion,
		AnalysisData: rawOrNil(r.AnalysisData),
		ErrorMessage: r.ErrorMessage,
		CreatedAt:    r.CreatedAt,
		CompletedAt:  r.CompletedAt,
	}
	if ids := rawOrNil(r.ParticipantMessageIDs); ids != nil {
		if err := json.Unmarshal(ids, &a.ParticipantMessageIDs); err != nil {
			return model.Analysis{}, fmt.Errorf("failed to decode participant ids of analysis %s: %v", r.ID, err)
		}
	}
	return a, nil
}
