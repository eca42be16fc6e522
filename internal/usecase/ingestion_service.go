package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/riskibarqy/esports-hub/internal/domain/event"
	"github.com/riskibarqy/esports-hub/internal/domain/match"
	"github.com/riskibarqy/esports-hub/internal/domain/notify"
	"github.com/riskibarqy/esports-hub/internal/domain/player"
	"github.com/riskibarqy/esports-hub/internal/domain/playerstats"
	"github.com/riskibarqy/esports-hub/internal/domain/storage"
	"github.com/riskibarqy/esports-hub/internal/domain/team"
	"github.com/riskibarqy/esports-hub/internal/platform/id"
	"github.com/riskibarqy/esports-hub/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultIngestMaxBatch = 100
	maxNameLength         = 255
	maxSourceScore        = 999
	maxIngestMaps         = 7
	unknownTeamName       = "Unknown"

	SideTeam1 = "team1"
	SideTeam2 = "team2"
	SideDraw  = "draw"

	RecordStatusSuccess = "success"
	RecordStatusFailed  = "failed"
)

type IngestMap struct {
	Name       string
	GameMode   string
	Team1Score int
	Team2Score int
	Winner     string
}

type IngestPlayer struct {
	Name  string
	Team  string
	Hero  string
	Stats map[string]any
}

// IngestRecord is one externally reported match.
type IngestRecord struct {
	ExternalID  string
	EventID     string
	EventName   string
	Team1Name   string
	Team2Name   string
	Team1Score  *int
	Team2Score  *int
	Status      string
	Format      string
	ScheduledAt *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	Maps        []IngestMap
	Players     []IngestPlayer
}

type IngestRecordResult struct {
	Index      int
	MatchID    string
	ExternalID string
	Status     string
	Created    bool
	Error      string
	Fields     []FieldError
}

type IngestSummary struct {
	Total     int
	Processed int
	Failed    int
}

type IngestResult struct {
	RequestID string
	Summary   IngestSummary
	Processed []IngestRecordResult
	Errors    []IngestRecordResult
}

type IngestedMatch struct {
	Match     match.Match
	Team1Name string
	Team2Name string
}

// errNothingIngested rolls the batch back when every record failed.
var errNothingIngested = errors.New("no matches could be processed")

type IngestionService struct {
	store      storage.Store
	ids        id.Generator
	requestIDs id.Generator
	publisher  notify.Publisher
	logger     *logging.Logger
	maxBatch   int
	now        func() time.Time
}

func NewIngestionService(store storage.Store, ids, requestIDs id.Generator, publisher notify.Publisher, logger *logging.Logger, maxBatch int) *IngestionService {
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if maxBatch <= 0 {
		maxBatch = DefaultIngestMaxBatch
	}
	return &IngestionService{
		store:      store,
		ids:        ids,
		requestIDs: requestIDs,
		publisher:  publisher,
		logger:     logger,
		maxBatch:   maxBatch,
		now:        time.Now,
	}
}

// IngestBatch processes each record inside its own savepoint. The batch
// commits when at least one record succeeded; otherwise everything rolls
// back and the per-record errors come back with an invalid input error.
func (s *IngestionService) IngestBatch(ctx context.Context, records []IngestRecord) (IngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestBatch", attribute.Int("batch.size", len(records)))
	defer span.End()

	if len(records) == 0 {
		return IngestResult{}, invalidf("matches: at least one record is required")
	}
	if len(records) > s.maxBatch {
		return IngestResult{}, invalidf("matches: at most %d records per request, got %d", s.maxBatch, len(records))
	}

	requestID, err := s.requestIDs.NewID()
	if err != nil {
		return IngestResult{}, fmt.Errorf("generate ingestion request id: %w", err)
	}
	span.SetAttributes(attribute.String("ingest.request_id", requestID))

	result := IngestResult{
		RequestID: requestID,
		Summary:   IngestSummary{Total: len(records)},
	}
	var ingested []match.Match

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		now := s.now().UTC()
		for i, rec := range records {
			var (
				m       match.Match
				created bool
			)
			spErr := tx.Savepoint(ctx, fmt.Sprintf("ingest_record_%d", i), func(ctx context.Context) error {
				var err error
				m, created, err = s.ingestRecord(ctx, tx, rec, requestID, now)
				return err
			})
			if spErr != nil {
				if errors.Is(spErr, ErrDependencyUnavailable) || errors.Is(spErr, context.Canceled) || errors.Is(spErr, context.DeadlineExceeded) {
					return spErr
				}
				result.Errors = append(result.Errors, IngestRecordResult{
					Index:      i,
					ExternalID: rec.ExternalID,
					Status:     RecordStatusFailed,
					Error:      spErr.Error(),
					Fields:     FieldErrors(spErr),
				})
				s.logger.WarnContext(ctx, "match ingestion record failed",
					"request_id", requestID,
					"index", i,
					"external_id", rec.ExternalID,
					"error", spErr,
				)
				continue
			}

			ingested = append(ingested, m)
			result.Processed = append(result.Processed, IngestRecordResult{
				Index:      i,
				MatchID:    m.ID,
				ExternalID: rec.ExternalID,
				Status:     RecordStatusSuccess,
				Created:    created,
			})
		}
		if len(result.Processed) == 0 {
			return errNothingIngested
		}
		return nil
	})

	result.Summary.Processed = len(result.Processed)
	result.Summary.Failed = len(result.Errors)

	if errors.Is(err, errNothingIngested) {
		return result, fmt.Errorf("%w: %s (request_id=%s)", ErrInvalidInput, errNothingIngested.Error(), requestID)
	}
	if err != nil {
		recordSpanError(span, err)
		return IngestResult{}, err
	}

	s.logger.InfoContext(ctx, "match ingestion completed",
		"request_id", requestID,
		"processed", result.Summary.Processed,
		"errors", result.Summary.Failed,
		"total_matches", result.Summary.Total,
	)
	for _, m := range ingested {
		s.publisher.Publish(ctx, notify.Message{
			Topic: notify.MatchTopic(m.ID),
			Type:  notify.TypeMatchScoreUpdated,
			Payload: map[string]any{
				"match_id":    m.ID,
				"team1_score": m.Team1Score,
				"team2_score": m.Team2Score,
				"status":      m.Status,
				"winner_id":   m.WinnerID,
			},
		})
	}
	return result, nil
}

func (s *IngestionService) ingestRecord(ctx context.Context, tx storage.Tx, rec IngestRecord, requestID string, now time.Time) (match.Match, bool, error) {
	format, status, err := validateRecord(rec)
	if err != nil {
		return match.Match{}, false, err
	}

	team1, err := s.findOrCreateTeam(ctx, tx, rec.Team1Name, now)
	if err != nil {
		return match.Match{}, false, err
	}
	team2, err := s.findOrCreateTeam(ctx, tx, rec.Team2Name, now)
	if err != nil {
		return match.Match{}, false, err
	}

	eventID, err := s.resolveEvent(ctx, tx, rec, now)
	if err != nil {
		return match.Match{}, false, err
	}

	var (
		m      match.Match
		exists bool
	)
	if externalID := strings.TrimSpace(rec.ExternalID); externalID != "" {
		m, exists, err = tx.Matches().GetByExternalID(ctx, externalID)
		if err != nil {
			return match.Match{}, false, storageErr("get match by external id", err)
		}
	}
	if !exists {
		matchID, err := s.ids.NewID()
		if err != nil {
			return match.Match{}, false, fmt.Errorf("generate match id: %w", err)
		}
		m = match.Match{ID: matchID, ExternalID: strings.TrimSpace(rec.ExternalID), CreatedAt: now}
	}

	m.EventID = eventID
	m.Team1ID, m.Team2ID = team1.ID, team2.ID
	m.Format = format.Name
	m.Status = status
	m.WinnerID = ""
	m.ScheduledAt, m.StartedAt, m.CompletedAt = rec.ScheduledAt, rec.StartedAt, rec.CompletedAt
	m.IngestionRequestID = requestID
	m.UpdatedAt = now

	maps := buildIngestMaps(m, rec.Maps, now)
	if err := applyIngestScore(&m, format, rec, maps, now); err != nil {
		return match.Match{}, false, err
	}
	if len(maps) > 0 {
		m.CurrentMap = len(maps)
		m.CurrentMapStatus = match.MapStatusCompleted
	}

	if exists {
		err = tx.Matches().Update(ctx, m)
	} else {
		err = tx.Matches().Create(ctx, m)
	}
	if err != nil {
		return match.Match{}, false, storageErr("save match", err)
	}

	if len(maps) > 0 {
		if err := tx.Matches().ReplaceMaps(ctx, m.ID, maps); err != nil {
			return match.Match{}, false, storageErr("replace maps", err)
		}
	}
	if len(rec.Players) > 0 {
		stats, err := s.buildPlayerStats(ctx, tx, m.ID, rec.Players, team1.ID, team2.ID, now)
		if err != nil {
			return match.Match{}, false, err
		}
		if err := tx.PlayerStats().ReplaceForMatch(ctx, m.ID, stats); err != nil {
			return match.Match{}, false, storageErr("replace player stats", err)
		}
	}

	return m, !exists, nil
}

func validateRecord(rec IngestRecord) (match.Format, string, error) {
	verr := &ValidationError{}
	checkName := func(field, value string, required bool) {
		value = strings.TrimSpace(value)
		switch {
		case value == "" && required:
			verr.Add(field, "is required")
		case utf8.RuneCountInString(value) > maxNameLength:
			verr.Add(field, "must be at most %d characters", maxNameLength)
		}
	}

	checkName("id", rec.ExternalID, false)
	checkName("event_name", rec.EventName, false)
	checkName("team1_name", rec.Team1Name, true)
	checkName("team2_name", rec.Team2Name, true)
	if t1, t2 := strings.TrimSpace(rec.Team1Name), strings.TrimSpace(rec.Team2Name); t1 != "" && strings.EqualFold(t1, t2) {
		verr.Add("team2_name", "must differ from team1_name")
	}
	for field, score := range map[string]*int{"team1_score": rec.Team1Score, "team2_score": rec.Team2Score} {
		if score != nil && (*score < 0 || *score > maxSourceScore) {
			verr.Add(field, "must be between 0 and %d", maxSourceScore)
		}
	}

	status := match.NormalizeStatus(rec.Status)
	if status == "" {
		verr.Add("status", "is required")
	} else if !match.IsValidStatus(status) {
		verr.Add("status", "must be one of upcoming, live, completed, cancelled, postponed")
	}

	format := match.ResolveFormat(match.FormatBo3)
	if strings.TrimSpace(rec.Format) != "" {
		f, ok := match.ParseFormat(rec.Format)
		if !ok {
			verr.Add("format", "must be one of bo1, bo3, bo5, bo7")
		} else {
			format = f
		}
	}

	if len(rec.Maps) > maxIngestMaps {
		verr.Add("maps", "must contain at most %d maps", maxIngestMaps)
	} else if len(rec.Maps) > format.MaxMaps {
		verr.Add("maps", "%s format allows at most %d maps", format.Name, format.MaxMaps)
	}
	for i, mp := range rec.Maps {
		field := fmt.Sprintf("maps[%d]", i)
		checkName(field+".name", mp.Name, true)
		if mp.Team1Score < 0 || mp.Team2Score < 0 {
			verr.Add(field+".score", "must not be negative")
		}
		switch strings.ToLower(strings.TrimSpace(mp.Winner)) {
		case "", SideTeam1, SideTeam2, SideDraw:
		default:
			verr.Add(field+".winner", "must be one of team1, team2, draw")
		}
		if strings.TrimSpace(mp.GameMode) != "" {
			if _, ok := match.NormalizeGameMode(mp.GameMode); !ok {
				verr.Add(field+".game_mode", "%s: %q", match.ErrUnknownGameMode.Error(), mp.GameMode)
			}
		}
	}
	for i, p := range rec.Players {
		field := fmt.Sprintf("players[%d]", i)
		checkName(field+".name", p.Name, true)
		checkName(field+".hero", p.Hero, false)
		switch strings.ToLower(strings.TrimSpace(p.Team)) {
		case SideTeam1, SideTeam2:
		default:
			verr.Add(field+".team", "must be team1 or team2")
		}
	}

	if !verr.Empty() {
		return match.Format{}, "", verr
	}
	return format, status, nil
}

// applyIngestScore writes the reported series score. A completed record
// whose score stays below the threshold falls back to counting map wins.
func applyIngestScore(m *match.Match, format match.Format, rec IngestRecord, maps []match.Map, now time.Time) error {
	t1, t2 := derefInt(rec.Team1Score), derefInt(rec.Team2Score)
	reached := func(a, b int) bool { return a == format.WinThreshold || b == format.WinThreshold }

	below := t1 < format.WinThreshold && t2 < format.WinThreshold
	if m.Status == match.StatusCompleted && below && len(maps) > 0 {
		if w1, w2 := match.CountMapWins(maps, m.Team1ID, m.Team2ID); reached(w1, w2) {
			t1, t2 = w1, w2
		}
	}
	if err := format.ValidateSeriesScore(t1, t2); err != nil {
		return ruleErr("series_score", err)
	}

	switch {
	case m.Status == match.StatusCompleted && !reached(t1, t2):
		return ruleErr("status", fmt.Errorf("completed match must reach %d map wins for %s format, got %d-%d", format.WinThreshold, format.Name, t1, t2))
	case m.Status == match.StatusCompleted, reached(t1, t2) && (m.Status == match.StatusLive || m.Status == match.StatusUpcoming):
		if err := m.ApplySeriesScore(format, t1, t2, now); err != nil {
			return ruleErr("series_score", err)
		}
	default:
		m.Team1Score, m.Team2Score = t1, t2
		m.CompletedAt = nil
	}
	return nil
}

func buildIngestMaps(m match.Match, inputs []IngestMap, now time.Time) []match.Map {
	out := make([]match.Map, 0, len(inputs))
	for i, in := range inputs {
		mp := match.Map{
			MatchID:    m.ID,
			Number:     i + 1,
			Name:       strings.TrimSpace(in.Name),
			Team1Score: in.Team1Score,
			Team2Score: in.Team2Score,
			Status:     match.MapStatusCompleted,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if mode, ok := match.NormalizeGameMode(in.GameMode); ok {
			mp.GameMode = mode
		}
		switch strings.ToLower(strings.TrimSpace(in.Winner)) {
		case SideTeam1:
			mp.WinnerID = m.Team1ID
		case SideTeam2:
			mp.WinnerID = m.Team2ID
		}
		out = append(out, mp)
	}
	return out
}

func (s *IngestionService) buildPlayerStats(ctx context.Context, tx storage.Tx, matchID string, players []IngestPlayer, team1ID, team2ID string, now time.Time) ([]playerstats.MatchStat, error) {
	stats := make([]playerstats.MatchStat, 0, len(players))
	for _, in := range players {
		teamID := team1ID
		if strings.EqualFold(strings.TrimSpace(in.Team), SideTeam2) {
			teamID = team2ID
		}

		name := strings.TrimSpace(in.Name)
		p, ok, err := tx.Players().GetByName(ctx, name)
		if err != nil {
			return nil, storageErr("get player by name", err)
		}
		if !ok {
			playerID, err := s.ids.NewID()
			if err != nil {
				return nil, fmt.Errorf("generate player id: %w", err)
			}
			p = player.Placeholder(playerID, name, teamID)
			p.CreatedAt = now
			if err := tx.Players().Create(ctx, p); err != nil {
				return nil, storageErr("create player", err)
			}
		}

		stat := playerstats.MatchStat{
			MatchID:  matchID,
			PlayerID: p.ID,
			TeamID:   teamID,
			Hero:     strings.TrimSpace(in.Hero),
		}
		stat.ApplyRaw(in.Stats)
		stats = append(stats, stat)
	}
	return stats, nil
}

func (s *IngestionService) findOrCreateTeam(ctx context.Context, tx storage.Tx, name string, now time.Time) (team.Team, error) {
	name = strings.TrimSpace(name)
	t, ok, err := tx.Teams().GetByName(ctx, name)
	if err != nil {
		return team.Team{}, storageErr("get team by name", err)
	}
	if ok {
		return t, nil
	}

	teamID, err := s.ids.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}
	t = team.Placeholder(teamID, name)
	t.CreatedAt = now
	if err := tx.Teams().Create(ctx, t); err != nil {
		return team.Team{}, storageErr("create team", err)
	}
	return t, nil
}

// resolveEvent prefers an explicit event id, then find-or-create by name.
func (s *IngestionService) resolveEvent(ctx context.Context, tx storage.Tx, rec IngestRecord, now time.Time) (string, error) {
	if eventID := strings.TrimSpace(rec.EventID); eventID != "" {
		_, ok, err := tx.Events().GetByID(ctx, eventID)
		if err != nil {
			return "", storageErr("get event", err)
		}
		if !ok {
			return "", ruleErr("event_id", fmt.Errorf("event %s does not exist", eventID))
		}
		return eventID, nil
	}

	name := strings.TrimSpace(rec.EventName)
	if name == "" {
		return "", nil
	}
	e, ok, err := tx.Events().GetByName(ctx, name)
	if err != nil {
		return "", storageErr("get event by name", err)
	}
	if ok {
		return e.ID, nil
	}

	eventID, err := s.ids.NewID()
	if err != nil {
		return "", fmt.Errorf("generate event id: %w", err)
	}
	start := now
	if rec.ScheduledAt != nil {
		start = *rec.ScheduledAt
	}
	end := now.Add(24 * time.Hour)
	if rec.CompletedAt != nil {
		end = *rec.CompletedAt
	}
	e = event.Event{
		ID:        eventID,
		Name:      name,
		Status:    event.StatusOngoing,
		Format:    event.FormatTournament,
		StartDate: &start,
		EndDate:   &end,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.Events().Create(ctx, e); err != nil {
		return "", storageErr("create event", err)
	}
	return e.ID, nil
}

func (s *IngestionService) GetIngestionStatus(ctx context.Context, requestID string) ([]IngestedMatch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.GetIngestionStatus", attribute.String("ingest.request_id", requestID))
	defer span.End()

	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return nil, invalidf("request id is required")
	}

	matches, err := s.store.Matches().ListByIngestionRequest(ctx, requestID)
	if err != nil {
		recordSpanError(span, err)
		return nil, storageErr("list matches by request", err)
	}
	if len(matches) == 0 {
		return nil, notFoundf("no matches found for request_id=%s", requestID)
	}

	names := make(map[string]string)
	out := make([]IngestedMatch, 0, len(matches))
	for _, m := range matches {
		item := IngestedMatch{Match: m}
		for _, ref := range []struct {
			id   string
			dest *string
		}{{m.Team1ID, &item.Team1Name}, {m.Team2ID, &item.Team2Name}} {
			name, cached := names[ref.id]
			if !cached {
				t, ok, err := s.store.Teams().GetByID(ctx, ref.id)
				if err != nil {
					return nil, storageErr("get team", err)
				}
				name = unknownTeamName
				if ok {
					name = t.Name
				}
				names[ref.id] = name
			}
			*ref.dest = name
		}
		out = append(out, item)
	}
	return out, nil
}

// Health reports whether the backing store is reachable.
func (s *IngestionService) Health(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Health")
	defer span.End()

	if err := s.store.Ping(ctx); err != nil {
		recordSpanError(span, err)
		return storageErr("ping store", err)
	}
	return nil
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
