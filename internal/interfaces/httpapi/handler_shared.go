package httpapi

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/esports-hub/internal/domain/event"
	"github.com/riskibarqy/esports-hub/internal/domain/match"
	"github.com/riskibarqy/esports-hub/internal/domain/playerstats"
	"github.com/riskibarqy/esports-hub/internal/domain/team"
	"github.com/riskibarqy/esports-hub/internal/domain/vote"
	"github.com/riskibarqy/esports-hub/internal/usecase"
)

type mapScoreRequest struct {
	MapNumber   int    `json:"map_number" validate:"required,min=1,max=7"`
	Name        string `json:"name" validate:"omitempty,max=255"`
	GameMode    string `json:"game_mode"`
	Team1Score  int    `json:"team1_score" validate:"min=0"`
	Team2Score  int    `json:"team2_score" validate:"min=0"`
	Team1Rounds *int   `json:"team1_rounds,omitempty" validate:"omitempty,min=0"`
	Team2Rounds *int   `json:"team2_rounds,omitempty" validate:"omitempty,min=0"`
	Status      string `json:"status"`
	WinnerID    string `json:"winner_id"`
}

type updateMatchScoreRequest struct {
	Team1Score *int              `json:"series_score_team1" validate:"required,min=0"`
	Team2Score *int              `json:"series_score_team2" validate:"required,min=0"`
	CurrentMap *int              `json:"current_map,omitempty" validate:"omitempty,min=1"`
	Maps       []mapScoreRequest `json:"maps,omitempty" validate:"omitempty,max=7,dive"`
}

type updateMapRequest struct {
	Team1Score  *int   `json:"team1_score" validate:"required,min=0"`
	Team2Score  *int   `json:"team2_score" validate:"required,min=0"`
	Team1Rounds *int   `json:"team1_rounds,omitempty" validate:"omitempty,min=0"`
	Team2Rounds *int   `json:"team2_rounds,omitempty" validate:"omitempty,min=0"`
	Status      string `json:"status" validate:"required"`
	WinnerID    string `json:"winner_id"`
	GameMode    string `json:"game_mode"`
}

type setEventStatusRequest struct {
	Status   string `json:"status" validate:"required"`
	Featured *bool  `json:"featured,omitempty"`
}

type batchEventStatusItem struct {
	EventID  string `json:"id" validate:"required"`
	Status   string `json:"status" validate:"required"`
	Featured *bool  `json:"featured,omitempty"`
}

type batchEventStatusRequest struct {
	Events []batchEventStatusItem `json:"events" validate:"required,min=1,dive"`
}

// Record level rules live in the ingestion service so one bad record does
// not reject the whole batch.
type ingestMatchesRequest struct {
	Matches []ingestMatchRecord `json:"matches" validate:"required"`
}

// Feeds send the external key as id; external_id is accepted as an alias.
type ingestMatchRecord struct {
	ID          string               `json:"id"`
	ExternalID  string               `json:"external_id"`
	EventID     string               `json:"event_id"`
	EventName   string               `json:"event_name"`
	Team1Name   string               `json:"team1_name"`
	Team2Name   string               `json:"team2_name"`
	Team1Score  *int                 `json:"team1_score,omitempty"`
	Team2Score  *int                 `json:"team2_score,omitempty"`
	Status      string               `json:"status"`
	Format      string               `json:"format"`
	ScheduledAt *time.Time           `json:"scheduled_at,omitempty"`
	StartedAt   *time.Time           `json:"started_at,omitempty"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
	Maps        []ingestMapRecord    `json:"maps,omitempty"`
	Players     []ingestPlayerRecord `json:"players,omitempty"`
}

type ingestMapRecord struct {
	Name       string `json:"name"`
	GameMode   string `json:"game_mode"`
	Team1Score int    `json:"team1_score"`
	Team2Score int    `json:"team2_score"`
	Winner     string `json:"winner"`
}

type ingestPlayerRecord struct {
	Name  string         `json:"name"`
	Team  string         `json:"team"`
	Hero  string         `json:"hero"`
	Stats map[string]any `json:"stats,omitempty"`
}

type voteRequest struct {
	VotableType string `json:"votable_type" validate:"required"`
	VotableID   string `json:"votable_id" validate:"required"`
	VoteType    string `json:"vote_type" validate:"required"`
}

type matchDTO struct {
	ID                 string  `json:"id"`
	ExternalID         string  `json:"external_id,omitempty"`
	EventID            string  `json:"event_id,omitempty"`
	Team1ID            string  `json:"team1_id"`
	Team2ID            string  `json:"team2_id"`
	Format             string  `json:"format"`
	Status             string  `json:"status"`
	Team1Score         int     `json:"team1_score"`
	Team2Score         int     `json:"team2_score"`
	WinnerID           string  `json:"winner_id,omitempty"`
	CurrentMap         int     `json:"current_map"`
	CurrentMapStatus   string  `json:"current_map_status,omitempty"`
	IngestionRequestID string  `json:"ingestion_request_id,omitempty"`
	ScheduledAt        *string `json:"scheduled_at,omitempty"`
	StartedAt          *string `json:"started_at,omitempty"`
	CompletedAt        *string `json:"completed_at,omitempty"`
	UpdatedAt          string  `json:"updated_at"`
}

type mapDTO struct {
	MapNumber       int     `json:"map_number"`
	Name            string  `json:"name,omitempty"`
	GameMode        string  `json:"game_mode,omitempty"`
	Team1Score      int     `json:"team1_score"`
	Team2Score      int     `json:"team2_score"`
	Team1Rounds     *int    `json:"team1_rounds,omitempty"`
	Team2Rounds     *int    `json:"team2_rounds,omitempty"`
	Status          string  `json:"status"`
	WinnerID        string  `json:"winner_id,omitempty"`
	StartedAt       *string `json:"started_at,omitempty"`
	EndedAt         *string `json:"ended_at,omitempty"`
	DurationSeconds int     `json:"duration_seconds,omitempty"`
}

type teamSummaryDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	Region  string `json:"region,omitempty"`
}

type eventDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Status    string  `json:"status"`
	Featured  bool    `json:"featured"`
	Format    string  `json:"format,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

type formatDetailsDTO struct {
	Format       string `json:"format"`
	MaxMaps      int    `json:"max_maps"`
	WinCondition string `json:"win_condition"`
}

type playerStatDTO struct {
	PlayerID          string         `json:"player_id"`
	TeamID            string         `json:"team_id,omitempty"`
	Hero              string         `json:"hero,omitempty"`
	HeroRole          string         `json:"hero_role,omitempty"`
	TimePlayedSeconds int            `json:"time_played_seconds"`
	Eliminations      int            `json:"eliminations"`
	Assists           int            `json:"assists"`
	Deaths            int            `json:"deaths"`
	DamageDealt       int            `json:"damage_dealt"`
	DamageTaken       int            `json:"damage_taken"`
	HealingDone       int            `json:"healing_done"`
	DamageBlocked     int            `json:"damage_blocked"`
	KDA               float64        `json:"kda"`
	Extra             map[string]any `json:"extra,omitempty"`
}

type matchDetailDTO struct {
	Match         matchDTO         `json:"match"`
	Team1         *teamSummaryDTO  `json:"team1,omitempty"`
	Team2         *teamSummaryDTO  `json:"team2,omitempty"`
	Winner        *teamSummaryDTO  `json:"winner,omitempty"`
	Event         *eventDTO        `json:"event,omitempty"`
	Maps          []mapDTO         `json:"maps"`
	CurrentMap    *mapDTO          `json:"current_map,omitempty"`
	NextMap       *mapDTO          `json:"next_map,omitempty"`
	FormatDetails formatDetailsDTO `json:"format_details"`
	PlayerStats   []playerStatDTO  `json:"player_stats"`
}

type matchScoreDTO struct {
	Match matchDTO `json:"match"`
	Maps  []mapDTO `json:"maps"`
}

type mapUpdateDTO struct {
	Match matchDTO `json:"match"`
	Map   mapDTO   `json:"map"`
}

type liveSnapshotDTO struct {
	Match         matchDTO         `json:"match"`
	Maps          []mapDTO         `json:"maps"`
	CurrentMap    *mapDTO          `json:"current_map,omitempty"`
	NextMap       *mapDTO          `json:"next_map,omitempty"`
	FormatDetails formatDetailsDTO `json:"format_details"`
	IsLive        bool             `json:"is_live"`
}

type statusChangeDTO struct {
	Event     eventDTO `json:"event"`
	OldStatus string   `json:"old_status"`
	NewStatus string   `json:"new_status"`
}

type liveEventsDTO struct {
	FeaturedLive *eventDTO  `json:"featured_live"`
	LiveEvents   []eventDTO `json:"live_events"`
	TotalLive    int        `json:"total_live"`
}

type autoPromoteDTO struct {
	Started   int `json:"started"`
	Completed int `json:"completed"`
}

type ingestSummaryDTO struct {
	Total     int `json:"total_matches"`
	Processed int `json:"processed"`
	Failed    int `json:"errors"`
}

type ingestRecordDTO struct {
	Index      int                  `json:"index"`
	MatchID    string               `json:"match_id,omitempty"`
	ExternalID string               `json:"external_id,omitempty"`
	Status     string               `json:"status"`
	Created    bool                 `json:"created"`
	Error      string               `json:"error,omitempty"`
	Fields     []usecase.FieldError `json:"fields,omitempty"`
}

type ingestResponse struct {
	Success          bool              `json:"success"`
	RequestID        string            `json:"request_id,omitempty"`
	Message          string            `json:"message,omitempty"`
	Summary          ingestSummaryDTO  `json:"summary"`
	ProcessedMatches []ingestRecordDTO `json:"processed_matches"`
	Errors           []ingestRecordDTO `json:"errors"`
}

type ingestedMatchDTO struct {
	MatchID     string  `json:"match_id"`
	ExternalID  string  `json:"external_id,omitempty"`
	Team1Name   string  `json:"team1_name"`
	Team2Name   string  `json:"team2_name"`
	Team1Score  int     `json:"team1_score"`
	Team2Score  int     `json:"team2_score"`
	Status      string  `json:"status"`
	ScheduledAt *string `json:"scheduled_at,omitempty"`
	CompletedAt *string `json:"completed_at,omitempty"`
}

type ingestStatusDTO struct {
	RequestID    string             `json:"request_id"`
	TotalMatches int                `json:"total_matches"`
	Matches      []ingestedMatchDTO `json:"matches"`
}

type voteCountsDTO struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
	Total     int `json:"total"`
	Score     int `json:"score"`
}

type voteResultDTO struct {
	Action   string        `json:"action"`
	Counts   voteCountsDTO `json:"vote_counts"`
	UserVote string        `json:"user_vote,omitempty"`
	Score    int           `json:"score"`
}

func matchToDTO(ctx context.Context, m match.Match) matchDTO {
	ctx, span := startSpan(ctx, "httpapi.matchToDTO")
	defer span.End()

	return matchDTO{
		ID:                 m.ID,
		ExternalID:         m.ExternalID,
		EventID:            m.EventID,
		Team1ID:            m.Team1ID,
		Team2ID:            m.Team2ID,
		Format:             match.ResolveFormat(m.Format).Name,
		Status:             m.Status,
		Team1Score:         m.Team1Score,
		Team2Score:         m.Team2Score,
		WinnerID:           m.WinnerID,
		CurrentMap:         m.CurrentMap,
		CurrentMapStatus:   m.CurrentMapStatus,
		IngestionRequestID: m.IngestionRequestID,
		ScheduledAt:        formatOptionalTime(m.ScheduledAt),
		StartedAt:          formatOptionalTime(m.StartedAt),
		CompletedAt:        formatOptionalTime(m.CompletedAt),
		UpdatedAt:          m.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func mapToDTO(mp match.Map) mapDTO {
	return mapDTO{
		MapNumber:       mp.Number,
		Name:            mp.Name,
		GameMode:        mp.GameMode,
		Team1Score:      mp.Team1Score,
		Team2Score:      mp.Team2Score,
		Team1Rounds:     mp.Team1Rounds,
		Team2Rounds:     mp.Team2Rounds,
		Status:          mp.Status,
		WinnerID:        mp.WinnerID,
		StartedAt:       formatOptionalTime(mp.StartedAt),
		EndedAt:         formatOptionalTime(mp.EndedAt),
		DurationSeconds: mp.DurationSeconds,
	}
}

func mapsToDTO(maps []match.Map) []mapDTO {
	out := make([]mapDTO, 0, len(maps))
	for _, mp := range maps {
		out = append(out, mapToDTO(mp))
	}
	return out
}

func optionalMapToDTO(mp *match.Map) *mapDTO {
	if mp == nil {
		return nil
	}
	dto := mapToDTO(*mp)
	return &dto
}

func teamToSummaryDTO(t *team.Team) *teamSummaryDTO {
	if t == nil {
		return nil
	}
	return &teamSummaryDTO{ID: t.ID, Name: t.Name, Country: t.Country, Region: t.Region}
}

func eventToDTO(e event.Event) eventDTO {
	return eventDTO{
		ID:        e.ID,
		Name:      e.Name,
		Status:    e.Status,
		Featured:  e.Featured,
		Format:    e.Format,
		StartDate: formatOptionalTime(e.StartDate),
		EndDate:   formatOptionalTime(e.EndDate),
	}
}

func formatDetailsToDTO(f match.Format) formatDetailsDTO {
	return formatDetailsDTO{
		Format:       f.Name,
		MaxMaps:      f.MaxMaps,
		WinCondition: f.WinCondition(),
	}
}

func playerStatToDTO(s playerstats.MatchStat) playerStatDTO {
	return playerStatDTO{
		PlayerID:          s.PlayerID,
		TeamID:            s.TeamID,
		Hero:              s.Hero,
		HeroRole:          s.HeroRole,
		TimePlayedSeconds: s.TimePlayedSeconds,
		Eliminations:      s.Eliminations,
		Assists:           s.Assists,
		Deaths:            s.Deaths,
		DamageDealt:       s.DamageDealt,
		DamageTaken:       s.DamageTaken,
		HealingDone:       s.HealingDone,
		DamageBlocked:     s.DamageBlocked,
		KDA:               s.KDA(),
		Extra:             s.Extra,
	}
}

func matchDetailToDTO(ctx context.Context, d usecase.MatchDetail) matchDetailDTO {
	ctx, span := startSpan(ctx, "httpapi.matchDetailToDTO")
	defer span.End()

	out := matchDetailDTO{
		Match:         matchToDTO(ctx, d.Match),
		Team1:         teamToSummaryDTO(d.Team1),
		Team2:         teamToSummaryDTO(d.Team2),
		Winner:        teamToSummaryDTO(d.Winner),
		Maps:          mapsToDTO(d.Maps),
		CurrentMap:    optionalMapToDTO(d.CurrentMap),
		NextMap:       optionalMapToDTO(d.NextMap),
		FormatDetails: formatDetailsToDTO(d.Format),
		PlayerStats:   make([]playerStatDTO, 0, len(d.PlayerStats)),
	}
	if d.Event != nil {
		ev := eventToDTO(*d.Event)
		out.Event = &ev
	}
	for _, s := range d.PlayerStats {
		out.PlayerStats = append(out.PlayerStats, playerStatToDTO(s))
	}
	return out
}

func liveSnapshotToDTO(ctx context.Context, s usecase.LiveSnapshot) liveSnapshotDTO {
	return liveSnapshotDTO{
		Match:         matchToDTO(ctx, s.Match),
		Maps:          mapsToDTO(s.Maps),
		CurrentMap:    optionalMapToDTO(s.CurrentMap),
		NextMap:       optionalMapToDTO(s.NextMap),
		FormatDetails: formatDetailsToDTO(s.Format),
		IsLive:        s.IsLive,
	}
}

func statusChangeToDTO(c usecase.StatusChange) statusChangeDTO {
	return statusChangeDTO{
		Event:     eventToDTO(c.Event),
		OldStatus: c.OldStatus,
		NewStatus: c.NewStatus,
	}
}

func ingestRecordsToDTO(items []usecase.IngestRecordResult) []ingestRecordDTO {
	out := make([]ingestRecordDTO, 0, len(items))
	for _, item := range items {
		out = append(out, ingestRecordDTO{
			Index:      item.Index,
			MatchID:    item.MatchID,
			ExternalID: item.ExternalID,
			Status:     item.Status,
			Created:    item.Created,
			Error:      item.Error,
			Fields:     item.Fields,
		})
	}
	return out
}

func (rec ingestMatchRecord) externalKey() string {
	if id := strings.TrimSpace(rec.ID); id != "" {
		return id
	}
	return rec.ExternalID
}

func ingestRecordFromRequest(rec ingestMatchRecord) usecase.IngestRecord {
	out := usecase.IngestRecord{
		ExternalID:  rec.externalKey(),
		EventID:     rec.EventID,
		EventName:   rec.EventName,
		Team1Name:   rec.Team1Name,
		Team2Name:   rec.Team2Name,
		Team1Score:  rec.Team1Score,
		Team2Score:  rec.Team2Score,
		Status:      rec.Status,
		Format:      rec.Format,
		ScheduledAt: rec.ScheduledAt,
		StartedAt:   rec.StartedAt,
		CompletedAt: rec.CompletedAt,
		Maps:        make([]usecase.IngestMap, 0, len(rec.Maps)),
		Players:     make([]usecase.IngestPlayer, 0, len(rec.Players)),
	}
	for _, mp := range rec.Maps {
		out.Maps = append(out.Maps, usecase.IngestMap{
			Name:       mp.Name,
			GameMode:   mp.GameMode,
			Team1Score: mp.Team1Score,
			Team2Score: mp.Team2Score,
			Winner:     mp.Winner,
		})
	}
	for _, p := range rec.Players {
		out.Players = append(out.Players, usecase.IngestPlayer{
			Name:  p.Name,
			Team:  p.Team,
			Hero:  p.Hero,
			Stats: p.Stats,
		})
	}
	return out
}

func voteCountsToDTO(c vote.Counts) voteCountsDTO {
	return voteCountsDTO{
		Upvotes:   c.Upvotes,
		Downvotes: c.Downvotes,
		Total:     c.Total(),
		Score:     c.Score(),
	}
}

func formatOptionalTime(v *time.Time) *string {
	if v == nil {
		return nil
	}
	out := v.UTC().Format(time.RFC3339)
	return &out
}
