package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/roundtable-service/internal/model"
	"github.com/s21platform/roundtable-service/internal/round"
)

// Threads owns one round store per live thread. Stores are created on first
// use and dropped on Release.
type Threads struct {
	mu       sync.Mutex
	stores   map[string]*round.Store
	logger   logger_lib.LoggerInterface
	opts     []round.Option
	onCreate []func(threadID string, store *round.Store)
}

func New(logger logger_lib.LoggerInterface, opts ...round.Option) *Threads {
	return &Threads{
		stores: make(map[string]*round.Store),
		logger: logger,
		opts:   opts,
	}
}

// OnCreate registers fn for every store created afterwards.
func (t *Threads) OnCreate(fn func(threadID string, store *round.Store)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onCreate = append(t.onCreate, fn)
}

func (t *Threads) Store(threadID string) *round.Store {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.stores[threadID]; ok {
		return s
	}
	s := round.New(t.logger, t.opts...)
	t.stores[threadID] = s
	for _, fn := range t.onCreate {
		fn(threadID, s)
	}
	return s
}

func (t *Threads) Lookup(threadID string) (*round.Store, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.stores[threadID]
	return s, ok
}

// Release resets the thread's store and forgets it.
func (t *Threads) Release(threadID string) {
	t.mu.Lock()
	s, ok := t.stores[threadID]
	delete(t.stores, threadID)
	t.mu.Unlock()

	if ok {
		s.ResetForNavigation()
	}
}

// MergeChangelog forwards a persisted configuration change to the live store
// of threadID. It reports false when the thread is not live.
func (t *Threads) MergeChangelog(threadID string, participants []model.Participant) bool {
	s, ok := t.Lookup(threadID)
	if !ok {
		return false
	}
	s.MergeChangelog(participants)
	return true
}

func (t *Threads) IDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]string, 0, len(t.stores))
	for id := range t.stores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CheckTimeouts runs the escape transitions of every live thread and returns
// how many fired.
func (t *Threads) CheckTimeouts() int {
	fired := 0
	for _, id := range t.IDs() {
		s, ok := t.Lookup(id)
		if !ok {
			continue
		}
		for _, d := range s.CheckTimeouts() {
			t.logger.Warn(fmt.Sprintf("thread %s: %s deadline of round %d fired", id, d.Kind, d.Round))
			fired++
		}
	}
	return fired
}

// RunWatchdog calls CheckTimeouts every interval until ctx is done.
func (t *Threads) RunWatchdog(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t.CheckTimeouts()
		}
	}
}
