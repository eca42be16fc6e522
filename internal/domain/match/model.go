package match

import (
	"strings"
	"time"
)

const (
	StatusUpcoming  = "upcoming"
	StatusLive      = "live"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusPostponed = "postponed"
)

const (
	MapStatusUpcoming  = "upcoming"
	MapStatusLive      = "live"
	MapStatusCompleted = "completed"
	MapStatusPaused    = "paused"
)

const (
	GameModeDomination  = "Domination"
	GameModeConvoy      = "Convoy"
	GameModeConvergence = "Convergence"
)

// Match is a best-of-N series between two teams.
type Match struct {
	ID                 string
	ExternalID         string
	EventID            string
	Team1ID            string
	Team2ID            string
	Format             string
	Status             string
	Team1Score         int
	Team2Score         int
	WinnerID           string
	CurrentMap         int
	CurrentMapStatus   string
	IngestionRequestID string
	ScheduledAt        *time.Time
	StartedAt          *time.Time
	CompletedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Map is one game inside a series. Number is unique per match.
type Map struct {
	MatchID         string
	Number          int
	Name            string
	GameMode        string
	Team1Score      int
	Team2Score      int
	Team1Rounds     *int
	Team2Rounds     *int
	Status          string
	WinnerID        string
	StartedAt       *time.Time
	EndedAt         *time.Time
	DurationSeconds int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NormalizeStatus(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusUpcoming, StatusLive, StatusCompleted, StatusCancelled, StatusPostponed:
		return true
	default:
		return false
	}
}

func IsValidMapStatus(status string) bool {
	switch status {
	case MapStatusUpcoming, MapStatusLive, MapStatusCompleted, MapStatusPaused:
		return true
	default:
		return false
	}
}

// NormalizeGameMode returns the canonical spelling of a game mode, or false
// when the mode is unknown.
func NormalizeGameMode(value string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "domination":
		return GameModeDomination, true
	case "convoy":
		return GameModeConvoy, true
	case "convergence":
		return GameModeConvergence, true
	default:
		return "", false
	}
}

func (m Match) HasTeam(teamID string) bool {
	return teamID != "" && (teamID == m.Team1ID || teamID == m.Team2ID)
}
