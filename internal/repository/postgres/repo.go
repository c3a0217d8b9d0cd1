package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/s21platform/roundtable-service/internal/config"
	"github.com/s21platform/roundtable-service/internal/model"
)

type Repository struct {
	connection *sqlx.DB
}

func New(cfg *config.Config) *Repository {
	conStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.Host, cfg.Postgres.Port)

	conn, err := sqlx.Connect("postgres", conStr)
	if err != nil {
		log.Fatal("error connect: ", err)
	}

	return &Repository{
		connection: conn,
	}
}

func (r *Repository) Close() {
	_ = r.connection.Close()
}

// LoadThread reads everything the round store needs to hydrate a thread.
func (r *Repository) LoadThread(ctx context.Context, threadID string) (*model.Hydration, error) {
	thread, err := r.getThread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	participants, err := r.getParticipants(ctx, threadID)
	if err != nil {
		return nil, err
	}

	messages, err := r.getMessages(ctx, threadID)
	if err != nil {
		return nil, err
	}

	preSearches, err := r.getPreSearches(ctx, threadID)
	if err != nil {
		return nil, err
	}

	analyses, err := r.getAnalyses(ctx, threadID)
	if err != nil {
		return nil, err
	}

	return &model.Hydration{
		Thread:       *thread,
		Participants: participants,
		Messages:     messages,
		PreSearches:  preSearches,
		Analyses:     analyses,
	}, nil
}

func (r *Repository) getThread(ctx context.Context, threadID string) (*model.Thread, error) {
	query, args, err := sq.Select(
		"id",
		"slug",
		"title",
		"mode",
		"enable_web_search",
		"analysis_disabled",
		"created_at",
	).
		From("chat_thread").
		Where(sq.Eq{"id": threadID}).
		Where(sq.Eq{"deleted_at": nil}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var thread model.Thread
	err = r.connection.GetContext(ctx, &thread, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get thread: %v", err)
	}

	return &thread, nil
}

func (r *Repository) getParticipants(ctx context.Context, threadID string) ([]model.Participant, error) {
	query, args, err := sq.Select("id", "model_id", "role", "priority", "is_enabled").
		From("chat_participant").
		Where(sq.Eq{"thread_id": threadID}).
		OrderBy("priority ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var participants model.ParticipantList
	err = r.connection.SelectContext(ctx, &participants, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %v", err)
	}

	return participants, nil
}

func (r *Repository) getMessages(ctx context.Context, threadID string) ([]model.Message, error) {
	query, args, err := sq.Select(
		"id",
		"thread_id",
		"role",
		"round_number",
		"participant_index",
		"COALESCE(participant_id, '') AS participant_id",
		"COALESCE(model_id, '') AS model_id",
		"parts",
		"COALESCE(finish_reason, '') AS finish_reason",
		"has_error",
		"COALESCE(error_message, '') AS error_message",
		"created_at",
	).
		From("chat_message").
		Where(sq.Eq{"thread_id": threadID}).
		Where(sq.Eq{"deleted_at": nil}).
		OrderBy("round_number ASC", "created_at ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var rows []messageRow
	err = r.connection.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %v", err)
	}

	messages := make([]model.Message, 0, len(rows))
	for _, row := range rows {
		msg, err := row.toModel()
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

func (r *Repository) getPreSearches(ctx context.Context, threadID string) ([]model.PreSearch, error) {
	query, args, err := sq.Select(
		"id",
		"thread_id",
		"round_number",
		"status",
		"user_query",
		"search_data",
		"COALESCE(error_message, '') AS error_message",
		"created_at",
		"completed_at",
	).
		From("chat_pre_search").
		Where(sq.Eq{"thread_id": threadID}).
		OrderBy("round_number ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var rows []preSearchRow
	err = r.connection.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get pre-searches: %v", err)
	}

	out := make([]model.PreSearch, len(rows))
	for i, row := range rows {
		out[i] = row.toModel()
	}

	return out, nil
}

func (r *Repository) getAnalyses(ctx context.Context, threadID string) ([]model.Analysis, error) {
	query, args, err := sq.Select(
		"id",
		"thread_id",
		"round_number",
		"status",
		"user_question",
		"participant_message_ids",
		"analysis_data",
		"COALESCE(error_message, '') AS error_message",
		"created_at",
		"completed_at",
	).
		From("chat_moderator_analysis").
		Where(sq.Eq{"thread_id": threadID}).
		OrderBy("round_number ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var rows []analysisRow
	err = r.connection.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get analyses: %v", err)
	}

	out := make([]model.Analysis, 0, len(rows))
	for _, row := range rows {
		a, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, nil
}

func rawOrNil(b []byte) json.RawMessage {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	return json.RawMessage(b)
}
