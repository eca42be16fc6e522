package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/esports-hub/internal/domain/match"
	"github.com/riskibarqy/esports-hub/internal/domain/notify"
	"github.com/riskibarqy/esports-hub/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/esports-hub/internal/platform/logging"
)

var fixedNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func newSeededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	store.Load(memory.DemoSeed(fixedNow))
	return store
}

func createMatch(t *testing.T, store *memory.Store, m match.Match) {
	t.Helper()
	if m.Team1ID == "" {
		m.Team1ID, m.Team2ID = "team-sentinels", "team-fnatic"
	}
	if m.Status == "" {
		m.Status = match.StatusUpcoming
	}
	m.CreatedAt, m.UpdatedAt = fixedNow, fixedNow
	if err := store.Matches().Create(context.Background(), m); err != nil {
		t.Fatalf("create match %s: %v", m.ID, err)
	}
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg notify.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func (p *recordingPublisher) Messages() []notify.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notify.Message(nil), p.messages...)
}

type recordingInvalidator struct {
	mu   sync.Mutex
	keys []string
}

func (r *recordingInvalidator) Delete(_ context.Context, keys ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, keys...)
}

func (r *recordingInvalidator) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.keys...)
}

func fixedClock() func() time.Time {
	return func() time.Time { return fixedNow }
}

func intPtr(v int) *int {
	return &v
}

var testLogger = logging.NewNop()
