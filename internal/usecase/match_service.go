package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/esports-hub/internal/domain/event"
	"github.com/riskibarqy/esports-hub/internal/domain/match"
	"github.com/riskibarqy/esports-hub/internal/domain/notify"
	"github.com/riskibarqy/esports-hub/internal/domain/playerstats"
	"github.com/riskibarqy/esports-hub/internal/domain/storage"
	"github.com/riskibarqy/esports-hub/internal/domain/team"
	"github.com/riskibarqy/esports-hub/internal/platform/logging"
	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel/attribute"
)

// MapInput is one map row of a series update, keyed by Number.
type MapInput struct {
	Number      int
	Name        string
	GameMode    string
	Team1Score  int
	Team2Score  int
	Team1Rounds *int
	Team2Rounds *int
	Status      string
	WinnerID    string
}

type SeriesUpdate struct {
	Team1Score int
	Team2Score int
	CurrentMap *int
	Maps       []MapInput
}

type MapUpdate struct {
	Team1Score  int
	Team2Score  int
	Team1Rounds *int
	Team2Rounds *int
	Status      string
	WinnerID    string
	GameMode    string
}

type MatchDetail struct {
	Match       match.Match
	Format      match.Format
	Team1       *team.Team
	Team2       *team.Team
	Winner      *team.Team
	Event       *event.Event
	Maps        []match.Map
	CurrentMap  *match.Map
	NextMap     *match.Map
	PlayerStats []playerstats.MatchStat
}

type LiveSnapshot struct {
	Match      match.Match
	Format     match.Format
	Maps       []match.Map
	CurrentMap *match.Map
	NextMap    *match.Map
	IsLive     bool
}

// MatchService keeps series score, map rows and match status consistent.
type MatchService struct {
	store     storage.Store
	publisher notify.Publisher
	logger    *logging.Logger
	now       func() time.Time
}

func NewMatchService(store storage.Store, publisher notify.Publisher, logger *logging.Logger) *MatchService {
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *MatchService) GetMatch(ctx context.Context, matchID string) (MatchDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatch", attribute.String("match.id", matchID))
	defer span.End()

	m, maps, err := s.loadMatch(ctx, s.store, matchID)
	if err != nil {
		recordSpanError(span, err)
		return MatchDetail{}, err
	}

	detail := MatchDetail{
		Match:  m,
		Format: match.ResolveFormat(m.Format),
		Maps:   maps,
	}
	detail.CurrentMap, detail.NextMap = match.Progress(maps)

	// Related rows are independent reads; load them side by side.
	var (
		wg                        conc.WaitGroup
		team1, team2, winner      *team.Team
		ev                        *event.Event
		stats                     []playerstats.MatchStat
		team1Err, team2Err, evErr error
		winnerErr, statsErr       error
	)
	wg.Go(func() { team1, team1Err = s.lookupTeam(ctx, m.Team1ID) })
	wg.Go(func() { team2, team2Err = s.lookupTeam(ctx, m.Team2ID) })
	wg.Go(func() { winner, winnerErr = s.lookupTeam(ctx, m.WinnerID) })
	wg.Go(func() { ev, evErr = s.lookupEvent(ctx, m.EventID) })
	wg.Go(func() {
		stats, statsErr = s.store.PlayerStats().ListByMatch(ctx, m.ID)
	})
	wg.Wait()

	for _, err := range []error{team1Err, team2Err, winnerErr, evErr, statsErr} {
		if err != nil {
			recordSpanError(span, err)
			return MatchDetail{}, storageErr("load match relations", err)
		}
	}

	detail.Team1, detail.Team2, detail.Winner, detail.Event = team1, team2, winner, ev
	detail.PlayerStats = stats
	return detail, nil
}

// UpdateSeries writes the authoritative series score plus any supplied map
// rows in one transaction.
func (s *MatchService) UpdateSeries(ctx context.Context, matchID string, in SeriesUpdate) (match.Match, []match.Map, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.UpdateSeries", attribute.String("match.id", matchID))
	defer span.End()

	var (
		updated match.Match
		maps    []match.Map
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		m, existing, err := s.loadMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		format := match.ResolveFormat(m.Format)
		now := s.now().UTC()

		byNumber := make(map[int]match.Map, len(existing))
		for _, mp := range existing {
			byNumber[mp.Number] = mp
		}

		touched, err := s.applyMapInputs(m, format, in.Maps, byNumber, now)
		if err != nil {
			return err
		}

		if err := m.ApplySeriesScore(format, in.Team1Score, in.Team2Score, now); err != nil {
			return ruleErr("series_score", err)
		}
		if in.CurrentMap != nil {
			if *in.CurrentMap != 0 {
				if err := format.ValidateMapNumber(*in.CurrentMap); err != nil {
					return ruleErr("current_map", err)
				}
			}
			m.CurrentMap = *in.CurrentMap
		}
		if len(touched) > 0 {
			m.CurrentMapStatus = match.DeriveCurrentMapStatus(touched)
			if match.HasLiveMap(touched) && m.Status != match.StatusCompleted {
				m.MarkLive(now)
			}
		}
		m.UpdatedAt = now

		for _, mp := range touched {
			if err := tx.Matches().UpsertMap(ctx, mp); err != nil {
				return storageErr("upsert map", err)
			}
		}
		if err := tx.Matches().Update(ctx, m); err != nil {
			return storageErr("update match", err)
		}

		all := make([]match.Map, 0, len(byNumber))
		for _, mp := range byNumber {
			all = append(all, mp)
		}
		updated, maps = m, match.SortMaps(all)
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		return match.Match{}, nil, err
	}

	s.logger.InfoContext(ctx, "match series updated",
		"match_id", updated.ID,
		"score", fmt.Sprintf("%d-%d", updated.Team1Score, updated.Team2Score),
		"status", updated.Status,
	)
	s.publishScore(ctx, updated, maps)
	return updated, maps, nil
}

// applyMapInputs validates every input before any row is changed and
// returns the touched maps in input order.
func (s *MatchService) applyMapInputs(m match.Match, format match.Format, inputs []MapInput, byNumber map[int]match.Map, now time.Time) ([]match.Map, error) {
	verr := &ValidationError{}
	seen := make(map[int]struct{}, len(inputs))
	for i, in := range inputs {
		field := fmt.Sprintf("maps[%d]", i)
		if err := format.ValidateMapNumber(in.Number); err != nil {
			verr.Add(field+".map_number", "%s", err.Error())
		}
		if _, dup := seen[in.Number]; dup {
			verr.Add(field+".map_number", "%s: %d", match.ErrDuplicateMapNumber.Error(), in.Number)
		}
		seen[in.Number] = struct{}{}
		if in.Team1Score < 0 || in.Team2Score < 0 {
			verr.Add(field+".score", "%s", match.ErrNegativeScore.Error())
		}
		if in.WinnerID != "" && !m.HasTeam(in.WinnerID) {
			verr.Add(field+".winner_id", "%s", match.ErrInvalidMapWinner.Error())
		}
		if st := match.NormalizeStatus(in.Status); st != "" && !match.IsValidMapStatus(st) {
			verr.Add(field+".status", "%s: %q", match.ErrInvalidMapStatus.Error(), in.Status)
		}
		if strings.TrimSpace(in.GameMode) != "" {
			if _, ok := match.NormalizeGameMode(in.GameMode); !ok {
				verr.Add(field+".game_mode", "%s: %q", match.ErrUnknownGameMode.Error(), in.GameMode)
			}
		}
	}
	if !verr.Empty() {
		return nil, verr
	}

	touched := make([]match.Map, 0, len(inputs))
	for _, in := range inputs {
		mp, ok := byNumber[in.Number]
		if !ok {
			mp = match.Map{MatchID: m.ID, Number: in.Number, Status: match.MapStatusUpcoming, CreatedAt: now}
		}
		if name := strings.TrimSpace(in.Name); name != "" {
			mp.Name = name
		}
		if mode, ok := match.NormalizeGameMode(in.GameMode); ok {
			mp.GameMode = mode
		}
		mp.Team1Score, mp.Team2Score = in.Team1Score, in.Team2Score
		if in.Team1Rounds != nil {
			mp.Team1Rounds = in.Team1Rounds
		}
		if in.Team2Rounds != nil {
			mp.Team2Rounds = in.Team2Rounds
		}
		if in.WinnerID != "" {
			mp.WinnerID = in.WinnerID
		}
		if st := match.NormalizeStatus(in.Status); st != "" {
			mp.ApplyStatus(st, now)
		}
		mp.UpdatedAt = now
		byNumber[in.Number] = mp
		touched = append(touched, mp)
	}
	return touched, nil
}

// UpdateMap upserts one map. A completed map makes the series score a
// recount of completed map wins rather than a caller-supplied value.
func (s *MatchService) UpdateMap(ctx context.Context, matchID string, mapNumber int, in MapUpdate) (match.Match, match.Map, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.UpdateMap",
		attribute.String("match.id", matchID),
		attribute.Int("map.number", mapNumber),
	)
	defer span.End()

	status := match.NormalizeStatus(in.Status)
	if !match.IsValidMapStatus(status) {
		return match.Match{}, match.Map{}, ruleErr("status", fmt.Errorf("%w: %q", match.ErrInvalidMapStatus, in.Status))
	}

	var (
		updated match.Match
		result  match.Map
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		m, maps, err := s.loadMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		format := match.ResolveFormat(m.Format)
		now := s.now().UTC()

		byNumber := make(map[int]match.Map, len(maps))
		for _, mp := range maps {
			byNumber[mp.Number] = mp
		}
		touched, err := s.applyMapInputs(m, format, []MapInput{{
			Number:      mapNumber,
			GameMode:    in.GameMode,
			Team1Score:  in.Team1Score,
			Team2Score:  in.Team2Score,
			Team1Rounds: in.Team1Rounds,
			Team2Rounds: in.Team2Rounds,
			Status:      status,
			WinnerID:    in.WinnerID,
		}}, byNumber, now)
		if err != nil {
			return err
		}
		mp := touched[0]
		if err := tx.Matches().UpsertMap(ctx, mp); err != nil {
			return storageErr("upsert map", err)
		}

		all := make([]match.Map, 0, len(byNumber))
		for _, item := range byNumber {
			all = append(all, item)
		}
		all = match.SortMaps(all)

		if status == match.MapStatusCompleted {
			t1, t2 := match.CountMapWins(all, m.Team1ID, m.Team2ID)
			if err := m.ApplySeriesScore(format, t1, t2, now); err != nil {
				return ruleErr("series_score", err)
			}
		}
		if status == match.MapStatusLive {
			m.MarkLive(now)
		}
		m.CurrentMap = mapNumber
		m.CurrentMapStatus = mp.Status
		if current, _ := match.Progress(all); current != nil {
			m.CurrentMap, m.CurrentMapStatus = current.Number, current.Status
		}
		m.UpdatedAt = now
		if err := tx.Matches().Update(ctx, m); err != nil {
			return storageErr("update match", err)
		}

		updated, result = m, mp
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		return match.Match{}, match.Map{}, err
	}

	s.publisher.Publish(ctx, notify.Message{
		Topic: notify.MatchTopic(updated.ID),
		Type:  notify.TypeMatchMapUpdated,
		Payload: map[string]any{
			"match_id":    updated.ID,
			"map_number":  result.Number,
			"map_status":  result.Status,
			"team1_score": result.Team1Score,
			"team2_score": result.Team2Score,
			"series":      []int{updated.Team1Score, updated.Team2Score},
			"status":      updated.Status,
		},
	})
	return updated, result, nil
}

// GetLiveSnapshot is a read-only projection for polling clients.
func (s *MatchService) GetLiveSnapshot(ctx context.Context, matchID string) (LiveSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetLiveSnapshot", attribute.String("match.id", matchID))
	defer span.End()

	m, maps, err := s.loadMatch(ctx, s.store, matchID)
	if err != nil {
		recordSpanError(span, err)
		return LiveSnapshot{}, err
	}

	snap := LiveSnapshot{
		Match:  m,
		Format: match.ResolveFormat(m.Format),
		Maps:   maps,
		IsLive: m.Status == match.StatusLive || match.HasLiveMap(maps),
	}
	snap.CurrentMap, snap.NextMap = match.Progress(maps)
	return snap, nil
}

func (s *MatchService) loadMatch(ctx context.Context, repos storage.Repositories, matchID string) (match.Match, []match.Map, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, nil, invalidf("match id is required")
	}

	m, ok, err := repos.Matches().GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, nil, storageErr("get match", err)
	}
	if !ok {
		return match.Match{}, nil, notFoundf("match=%s", matchID)
	}

	maps, err := repos.Matches().ListMaps(ctx, matchID)
	if err != nil {
		return match.Match{}, nil, storageErr("list maps", err)
	}
	return m, match.SortMaps(maps), nil
}

func (s *MatchService) lookupTeam(ctx context.Context, teamID string) (*team.Team, error) {
	if teamID == "" {
		return nil, nil
	}
	t, ok, err := s.store.Teams().GetByID(ctx, teamID)
	if err != nil || !ok {
		return nil, err
	}
	return &t, nil
}

func (s *MatchService) lookupEvent(ctx context.Context, eventID string) (*event.Event, error) {
	if eventID == "" {
		return nil, nil
	}
	e, ok, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil || !ok {
		return nil, err
	}
	return &e, nil
}

func (s *MatchService) publishScore(ctx context.Context, m match.Match, maps []match.Map) {
	s.publisher.Publish(ctx, notify.Message{
		Topic: notify.MatchTopic(m.ID),
		Type:  notify.TypeMatchScoreUpdated,
		Payload: map[string]any{
			"match_id":           m.ID,
			"team1_score":        m.Team1Score,
			"team2_score":        m.Team2Score,
			"status":             m.Status,
			"winner_id":          m.WinnerID,
			"current_map":        m.CurrentMap,
			"current_map_status": m.CurrentMapStatus,
			"maps_count":         len(maps),
		},
	})
}
