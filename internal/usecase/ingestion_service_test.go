package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/esports-hub/internal/domain/event"
	"github.com/riskibarqy/esports-hub/internal/domain/match"
	"github.com/riskibarqy/esports-hub/internal/domain/notify"
	"github.com/riskibarqy/esports-hub/internal/domain/storage"
	"github.com/riskibarqy/esports-hub/internal/domain/team"
	cacherepo "github.com/riskibarqy/esports-hub/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/esports-hub/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/esports-hub/internal/platform/cache"
)

type sequenceIDs struct {
	prefix string
	next   int
}

func (g *sequenceIDs) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next), nil
}

func newIngestionService(store storage.Store, publisher notify.Publisher) *IngestionService {
	svc := NewIngestionService(store, &sequenceIDs{prefix: "id"}, &sequenceIDs{prefix: "ing"}, publisher, testLogger, 0)
	svc.now = fixedClock()
	return svc
}

func completedRecord(externalID string) IngestRecord {
	return IngestRecord{
		ExternalID: externalID,
		EventName:  "Championship 2026",
		Team1Name:  "Sentinels",
		Team2Name:  "Kanga Esports",
		Team1Score: intPtr(2),
		Team2Score: intPtr(1),
		Status:     "completed",
		Format:     "bo3",
		Maps: []IngestMap{
			{Name: "Tokyo 2099", Team1Score: 3, Team2Score: 1, Winner: "team1", GameMode: "domination"},
			{Name: "Yggsgard", Team1Score: 2, Team2Score: 3, Winner: "team2"},
			{Name: "Klyntar", Team1Score: 3, Team2Score: 0, Winner: "team1"},
		},
		Players: []IngestPlayer{
			{Name: "TenZ", Team: "team1", Hero: "Psylocke", Stats: map[string]any{"eliminations": float64(24), "deaths": float64(6)}},
			{Name: "Kanga Jett", Team: "team2", Stats: map[string]any{"kills": "11", "first_bloods": float64(2)}},
		},
	}
}

func TestIngestionService_IngestBatch_CreatesRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newSeededStore(t)
	publisher := &recordingPublisher{}
	svc := newIngestionService(store, publisher)

	result, err := svc.IngestBatch(ctx, []IngestRecord{completedRecord("ext-1")})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.RequestID == "" || result.Summary.Processed != 1 || result.Summary.Failed != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if !result.Processed[0].Created {
		t.Fatalf("expected new match on first delivery")
	}

	m, ok, _ := store.Matches().GetByExternalID(ctx, "ext-1")
	if !ok {
		t.Fatalf("match not persisted")
	}
	if m.EventID != memory.EventIDChampionship {
		t.Fatalf("expected event resolved by name, got %q", m.EventID)
	}
	if m.Status != match.StatusCompleted || m.Team1Score != 2 || m.Team2Score != 1 || m.WinnerID != m.Team1ID {
		t.Fatalf("unexpected match state %+v", m)
	}
	if m.IngestionRequestID != result.RequestID {
		t.Fatalf("match not tagged with request id")
	}

	created, ok, _ := store.Teams().GetByName(ctx, "Kanga Esports")
	if !ok || created.Country != team.UnknownCountry || created.Region != team.UnknownRegion || created.Status != team.StatusActive {
		t.Fatalf("expected placeholder team, got %+v", created)
	}

	maps, _ := store.Matches().ListMaps(ctx, m.ID)
	if len(maps) != 3 || maps[0].Number != 1 || maps[0].Status != match.MapStatusCompleted || maps[0].GameMode != match.GameModeDomination {
		t.Fatalf("unexpected maps %+v", maps)
	}
	if maps[1].WinnerID != m.Team2ID {
		t.Fatalf("map 2 winner should map to team2, got %q", maps[1].WinnerID)
	}

	stats, _ := store.PlayerStats().ListByMatch(ctx, m.ID)
	if len(stats) != 2 || stats[0].Eliminations != 24 || stats[1].Eliminations != 11 || stats[1].TeamID != m.Team2ID {
		t.Fatalf("unexpected player stats %+v", stats)
	}
	if _, ok := stats[1].Extra["first_bloods"]; !ok {
		t.Fatalf("expected unknown stat kept in extra")
	}

	if msgs := publisher.Messages(); len(msgs) != 1 || msgs[0].Topic != notify.MatchTopic(m.ID) {
		t.Fatalf("expected one match notification, got %+v", msgs)
	}
}

func TestIngestionService_IngestBatch_Idempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newSeededStore(t)
	svc := newIngestionService(store, nil)
	batch := []IngestRecord{completedRecord("ext-1"), completedRecord("ext-2")}

	first, err := svc.IngestBatch(ctx, batch)
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}

	batch[0].Maps = batch[0].Maps[:2]
	batch[0].Team1Score, batch[0].Team2Score = intPtr(1), intPtr(1)
	batch[0].Status = "live"
	second, err := svc.IngestBatch(ctx, batch)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}

	for i := range batch {
		if first.Processed[i].MatchID != second.Processed[i].MatchID {
			t.Fatalf("record %d: match id changed between deliveries", i)
		}
		if second.Processed[i].Created {
			t.Fatalf("record %d: second delivery must update in place", i)
		}
	}

	tagged, err := svc.GetIngestionStatus(ctx, second.RequestID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(tagged) != 2 {
		t.Fatalf("expected 2 matches under the second request, got %d", len(tagged))
	}
	if _, err := svc.GetIngestionStatus(ctx, first.RequestID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("first request id should be superseded, got %v", err)
	}

	m, _, _ := store.Matches().GetByExternalID(ctx, "ext-1")
	maps, _ := store.Matches().ListMaps(ctx, m.ID)
	if len(maps) != 2 {
		t.Fatalf("maps must be replaced wholesale, got %d", len(maps))
	}
	if m.Status != match.StatusLive || m.WinnerID != "" || m.CompletedAt != nil {
		t.Fatalf("expected match reopened as live, got %+v", m)
	}
	teams := 0
	for _, name := range []string{"Sentinels", "Kanga Esports"} {
		if _, ok, _ := store.Teams().GetByName(ctx, name); ok {
			teams++
		}
	}
	if teams != 2 {
		t.Fatalf("expected teams reused, found %d", teams)
	}
}

func TestIngestionService_IngestBatch_PartialFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newSeededStore(t)
	svc := newIngestionService(store, nil)

	bad := completedRecord("ext-bad")
	bad.Team1Name = ""
	result, err := svc.IngestBatch(ctx, []IngestRecord{bad, completedRecord("ext-good")})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Summary.Processed != 1 || result.Summary.Failed != 1 {
		t.Fatalf("unexpected summary %+v", result.Summary)
	}
	if result.Errors[0].Index != 0 || result.Errors[0].Status != RecordStatusFailed {
		t.Fatalf("expected failure at index 0, got %+v", result.Errors[0])
	}
	if len(result.Errors[0].Fields) == 0 || result.Errors[0].Fields[0].Field != "team1_name" {
		t.Fatalf("expected team1_name field error, got %+v", result.Errors[0].Fields)
	}
	if result.Processed[0].Index != 1 {
		t.Fatalf("expected success at index 1, got %+v", result.Processed[0])
	}
}

func TestIngestionService_IngestBatch_AllFailedRollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newSeededStore(t)
	svc := newIngestionService(store, nil)

	// The first record creates a team before its score check fails.
	overflow := completedRecord("ext-overflow")
	overflow.Team1Score = intPtr(5)
	missing := completedRecord("ext-missing")
	missing.Team2Name = "  "

	result, err := svc.IngestBatch(ctx, []IngestRecord{overflow, missing})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), result.RequestID) {
		t.Fatalf("error should carry the request id: %v", err)
	}
	if result.Summary.Failed != 2 || result.Summary.Processed != 0 {
		t.Fatalf("unexpected summary %+v", result.Summary)
	}
	if _, ok, _ := store.Teams().GetByName(ctx, "Kanga Esports"); ok {
		t.Fatalf("failed batch left a team behind")
	}
}

func TestIngestionService_IngestBatch_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(r *IngestRecord)
		wantField string
	}{
		{name: "same team twice", mutate: func(r *IngestRecord) { r.Team2Name = "sentinels" }, wantField: "team2_name"},
		{name: "long team name", mutate: func(r *IngestRecord) { r.Team1Name = strings.Repeat("x", 256) }, wantField: "team1_name"},
		{name: "unknown status", mutate: func(r *IngestRecord) { r.Status = "finished" }, wantField: "status"},
		{name: "unknown format", mutate: func(r *IngestRecord) { r.Format = "bo9" }, wantField: "format"},
		{name: "too many maps for format", mutate: func(r *IngestRecord) {
			r.Format = "bo1"
		}, wantField: "maps"},
		{name: "map without name", mutate: func(r *IngestRecord) { r.Maps[1].Name = "" }, wantField: "maps[1].name"},
		{name: "bad map winner", mutate: func(r *IngestRecord) { r.Maps[0].Winner = "home" }, wantField: "maps[0].winner"},
		{name: "bad player side", mutate: func(r *IngestRecord) { r.Players[0].Team = "red" }, wantField: "players[0].team"},
		{name: "unknown event id", mutate: func(r *IngestRecord) { r.EventID = "evt-missing" }, wantField: "event_id"},
		{name: "completed without threshold", mutate: func(r *IngestRecord) {
			r.Team1Score, r.Team2Score = intPtr(1), intPtr(1)
			r.Maps = r.Maps[:2]
		}, wantField: "status"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newIngestionService(newSeededStore(t), nil)
			rec := completedRecord("ext-1")
			tc.mutate(&rec)

			result, err := svc.IngestBatch(context.Background(), []IngestRecord{rec})
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if len(result.Errors) != 1 {
				t.Fatalf("expected one record error, got %+v", result.Errors)
			}
			fields := result.Errors[0].Fields
			if len(fields) == 0 || fields[0].Field != tc.wantField {
				t.Fatalf("expected field %s, got %+v", tc.wantField, fields)
			}
		})
	}
}

func TestIngestionService_IngestBatch_DerivesScoreFromMaps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newSeededStore(t)
	svc := newIngestionService(store, nil)

	rec := completedRecord("ext-1")
	rec.Team1Score, rec.Team2Score = nil, nil
	if _, err := svc.IngestBatch(ctx, []IngestRecord{rec}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	m, _, _ := store.Matches().GetByExternalID(ctx, "ext-1")
	if m.Team1Score != 2 || m.Team2Score != 1 || m.WinnerID != m.Team1ID {
		t.Fatalf("expected 2-1 derived from maps, got %+v", m)
	}
}

func TestIngestionService_IngestBatch_CreatesEvent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newSeededStore(t)
	svc := newIngestionService(store, nil)

	scheduled := fixedNow.Add(-3 * time.Hour)
	rec := completedRecord("ext-1")
	rec.EventName = "Regional Cup"
	rec.ScheduledAt = &scheduled
	if _, err := svc.IngestBatch(ctx, []IngestRecord{rec}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	e, ok, _ := store.Events().GetByName(ctx, "Regional Cup")
	if !ok {
		t.Fatalf("expected event created")
	}
	if e.Status != event.StatusOngoing || !e.StartDate.Equal(scheduled) || !e.EndDate.Equal(fixedNow.Add(24*time.Hour)) {
		t.Fatalf("unexpected auto-created event %+v", e)
	}
}

func TestIngestionService_IngestBatch_RefreshesCachedLiveEvents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := newSeededStore(t)
	store := cacherepo.NewStore(base, cache.NewStore(time.Minute))
	svc := newIngestionService(store, nil)

	before, err := store.Events().ListLive(ctx)
	if err != nil || len(before) != 1 {
		t.Fatalf("list live: %v %+v", err, before)
	}

	rec := completedRecord("ext-1")
	rec.EventName = "Regional Cup"
	if _, err := svc.IngestBatch(ctx, []IngestRecord{rec}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	after, err := store.Events().ListLive(ctx)
	if err != nil {
		t.Fatalf("list live: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("expected auto-created event in cached live list, got %+v", after)
	}
}

func TestIngestionService_IngestBatch_ResolvesTeamsIgnoringCase(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newSeededStore(t)
	svc := newIngestionService(store, nil)

	rec := completedRecord("ext-case")
	rec.Team1Name = "SENTINELS"
	rec.Team2Name = "fnatic"
	if _, err := svc.IngestBatch(ctx, []IngestRecord{rec}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	m, ok, _ := store.Matches().GetByExternalID(ctx, "ext-case")
	if !ok {
		t.Fatalf("match not persisted")
	}
	if m.Team2ID != "team-fnatic" {
		t.Fatalf("expected seeded Fnatic reused, got team %s", m.Team2ID)
	}
	if got, _, _ := store.Teams().GetByID(ctx, m.Team1ID); got.Name != "Sentinels" {
		t.Fatalf("expected seeded Sentinels reused, got %+v", got)
	}
}

func TestIngestionService_IngestBatch_BatchLimits(t *testing.T) {
	t.Parallel()

	svc := newIngestionService(newSeededStore(t), nil)
	if _, err := svc.IngestBatch(context.Background(), nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected empty batch rejected, got %v", err)
	}

	records := make([]IngestRecord, DefaultIngestMaxBatch+1)
	for i := range records {
		records[i] = completedRecord(fmt.Sprintf("ext-%d", i))
	}
	if _, err := svc.IngestBatch(context.Background(), records); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected oversized batch rejected, got %v", err)
	}
}

func TestIngestionService_GetIngestionStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newIngestionService(newSeededStore(t), nil)

	result, err := svc.IngestBatch(ctx, []IngestRecord{completedRecord("ext-1")})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	got, err := svc.GetIngestionStatus(ctx, result.RequestID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(got) != 1 || got[0].Team1Name != "Sentinels" || got[0].Team2Name != "Kanga Esports" {
		t.Fatalf("unexpected status rows %+v", got)
	}

	if _, err := svc.GetIngestionStatus(ctx, "ing_unknown"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetIngestionStatus(ctx, " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestIngestionService_Health(t *testing.T) {
	t.Parallel()

	svc := newIngestionService(newSeededStore(t), nil)
	if err := svc.Health(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := svc.Health(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled ping, got %v", err)
	}
}
