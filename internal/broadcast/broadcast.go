package broadcast

import (
	"context"
	"fmt"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/roundtable-service/internal/model"
	"github.com/s21platform/roundtable-service/internal/registry"
	"github.com/s21platform/roundtable-service/internal/round"
)

type envelope struct {
	channel string
	event   model.RoundEvent
}

// Broadcaster forwards every store notification to the realtime channel of
// its thread. Notifications are queued without blocking the writer; when
// the queue is full the event is dropped, and the next one carries the
// newer version anyway.
type Broadcaster struct {
	publisher Publisher
	logger    logger_lib.LoggerInterface
	queue     chan envelope
}

func New(publisher Publisher, logger logger_lib.LoggerInterface, buffer int) *Broadcaster {
	if buffer <= 0 {
		buffer = 1
	}
	return &Broadcaster{
		publisher: publisher,
		logger:    logger,
		queue:     make(chan envelope, buffer),
	}
}

func (b *Broadcaster) Attach(threadID string, store *round.Store) (detach func()) {
	return store.Subscribe(func(st registry.State, r round.Readiness) {
		select {
		case b.queue <- envelope{channel: model.RoundChannel(threadID), event: Event(threadID, st, r)}:
		default:
			b.logger.Warn(fmt.Sprintf("dropping round event v%d for thread %s: queue full", st.Version, threadID))
		}
	})
}

// Run publishes queued events until ctx is done.
func (b *Broadcaster) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case env := <-b.queue:
			if err := b.publisher.Publish(ctx, env.channel, env.event); err != nil {
				b.logger.Error(fmt.Sprintf("failed to publish round event to %s: %v", env.channel, err))
			}
		}
	}
}

func Event(threadID string, st registry.State, r round.Readiness) model.RoundEvent {
	return model.RoundEvent{
		ThreadID:            threadID,
		Version:             st.Version,
		RoundState:          st.RoundState.Kind.String(),
		RoundNumber:         st.RoundState.Number,
		Lifecycle:           st.Lifecycle.Kind.String(),
		LifecycleError:      st.Lifecycle.Err,
		MessageCount:        len(st.Messages),
		InputBlocked:        r.InputBlocked,
		CanNavigate:         r.CanNavigate,
		CanSendNext:         r.CanSendNext,
		ConfigChangePending: st.ConfigChangePending,
	}
}
