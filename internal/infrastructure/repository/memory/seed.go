package memory

import (
	"time"

	"github.com/riskibarqy/esports-hub/internal/domain/event"
	"github.com/riskibarqy/esports-hub/internal/domain/match"
	"github.com/riskibarqy/esports-hub/internal/domain/team"
)

const (
	EventIDChampionship  = "evt-championship-2026"
	EventIDOpenQualifier = "evt-open-qualifier-2026"
)

// Seed is a fixture set loaded into a fresh store for local runs.
type Seed struct {
	Teams   []team.Team
	Events  []event.Event
	Matches []match.Match
	Maps    []match.Map
}

// Load replaces the store contents with seed.
func (s *Store) Load(seed Seed) {
	data := newDataset()
	for _, t := range seed.Teams {
		data.teams[t.ID] = t
	}
	for _, e := range seed.Events {
		data.events[e.ID] = e
	}
	for _, m := range seed.Matches {
		data.matches[m.ID] = m
	}
	for _, mp := range seed.Maps {
		if data.maps[mp.MatchID] == nil {
			data.maps[mp.MatchID] = make(map[int]match.Map)
		}
		data.maps[mp.MatchID][mp.Number] = mp
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.commit(data)
}

func DemoSeed(now time.Time) Seed {
	started := now.Add(-26 * time.Hour)
	ends := now.Add(72 * time.Hour)
	qualifierStart := now.Add(2 * time.Hour)
	kickoff := now.Add(-40 * time.Minute)
	mapStart := now.Add(-35 * time.Minute)

	return Seed{
		Teams: []team.Team{
			{ID: "team-sentinels", Name: "Sentinels", Country: "US", Region: "NA", Status: team.StatusActive, CreatedAt: started},
			{ID: "team-fnatic", Name: "Fnatic", Country: "GB", Region: "EU", Status: team.StatusActive, CreatedAt: started},
			{ID: "team-rrq", Name: "Rex Regum Qeon", Country: "ID", Region: "SEA", Status: team.StatusActive, CreatedAt: started},
			{ID: "team-paper-rex", Name: "Paper Rex", Country: "SG", Region: "SEA", Status: team.StatusActive, CreatedAt: started},
		},
		Events: []event.Event{
			{
				ID:        EventIDChampionship,
				Name:      "Championship 2026",
				Status:    event.StatusOngoing,
				Featured:  true,
				Format:    event.FormatTournament,
				StartDate: &started,
				EndDate:   &ends,
				CreatedAt: started,
				UpdatedAt: started,
			},
			{
				ID:        EventIDOpenQualifier,
				Name:      "Open Qualifier 2026",
				Status:    event.StatusUpcoming,
				Format:    event.FormatTournament,
				StartDate: &qualifierStart,
				CreatedAt: started,
				UpdatedAt: started,
			},
		},
		Matches: []match.Match{
			{
				ID:               "match-sen-fnc",
				EventID:          EventIDChampionship,
				Team1ID:          "team-sentinels",
				Team2ID:          "team-fnatic",
				Format:           match.FormatBo3,
				Status:           match.StatusLive,
				CurrentMap:       1,
				CurrentMapStatus: match.MapStatusLive,
				ScheduledAt:      &kickoff,
				StartedAt:        &mapStart,
				CreatedAt:        started,
				UpdatedAt:        mapStart,
			},
			{
				ID:          "match-rrq-prx",
				EventID:     EventIDChampionship,
				Team1ID:     "team-rrq",
				Team2ID:     "team-paper-rex",
				Format:      match.FormatBo5,
				Status:      match.StatusUpcoming,
				ScheduledAt: &ends,
				CreatedAt:   started,
				UpdatedAt:   started,
			},
		},
		Maps: []match.Map{
			{MatchID: "match-sen-fnc", Number: 1, Name: "Tokyo 2099", GameMode: match.GameModeDomination, Status: match.MapStatusLive, StartedAt: &mapStart, CreatedAt: mapStart, UpdatedAt: mapStart},
			{MatchID: "match-sen-fnc", Number: 2, Name: "Yggsgard", GameMode: match.GameModeConvoy, Status: match.MapStatusUpcoming, CreatedAt: mapStart, UpdatedAt: mapStart},
			{MatchID: "match-sen-fnc", Number: 3, Name: "Klyntar", GameMode: match.GameModeConvergence, Status: match.MapStatusUpcoming, CreatedAt: mapStart, UpdatedAt: mapStart},
		},
	}
}
