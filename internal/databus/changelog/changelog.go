// Package changelog consumes participant configuration changes that the
// backend has persisted and releases the rounds waiting on them.
package changelog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/roundtable-service/internal/config"
	"github.com/s21platform/roundtable-service/internal/model"
)

type Event struct {
	ThreadID     string              `json:"thread_id"`
	Participants []model.Participant `json:"participants"`
}

type Handler struct {
	merger Merger
}

func New(merger Merger) *Handler {
	return &Handler{merger: merger}
}

// Handler is registered on the kafka consumer. Malformed events are logged
// and acknowledged so they do not block the partition.
func (h *Handler) Handler(ctx context.Context, in []byte) error {
	logger := logger_lib.FromContext(ctx, config.KeyLogger)
	logger.AddFuncName("ChangelogHandler")

	ev, err := decode(in)
	if err != nil {
		logger.Warn(fmt.Sprintf("skip changelog message: %v", err))
		return nil
	}

	if !h.merger.MergeChangelog(ev.ThreadID, ev.Participants) {
		logger.Info(fmt.Sprintf("changelog for thread %s ignored: thread is not live", ev.ThreadID))
		return nil
	}

	logger.Info(fmt.Sprintf("changelog merged for thread %s", ev.ThreadID))
	return nil
}

func decode(in []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(in, &ev); err != nil {
		return Event{}, fmt.Errorf("failed to decode changelog event: %v", err)
	}
	if ev.ThreadID == "" {
		return Event{}, errors.New("changelog event without thread id")
	}
	return ev, nil
}
