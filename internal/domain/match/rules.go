package match

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrScoreExceedsThreshold = errors.New("series score exceeds win threshold")
	ErrNegativeScore         = errors.New("score cannot be negative")
	ErrAmbiguousWinner       = errors.New("both teams reached the win threshold")
	ErrMapNumberOutOfRange   = errors.New("map number out of range")
	ErrDuplicateMapNumber    = errors.New("duplicate map number")
	ErrInvalidMapWinner      = errors.New("map winner is not a team of this match")
	ErrInvalidMapStatus      = errors.New("invalid map status")
	ErrUnknownGameMode       = errors.New("unknown game mode")
)

func (f Format) ValidateSeriesScore(team1, team2 int) error {
	if team1 < 0 || team2 < 0 {
		return fmt.Errorf("%w: team1=%d team2=%d", ErrNegativeScore, team1, team2)
	}
	if team1 > f.WinThreshold || team2 > f.WinThreshold {
		return fmt.Errorf("%w: series score cannot exceed %d for %s format", ErrScoreExceedsThreshold, f.WinThreshold, f.Name)
	}
	if team1 == f.WinThreshold && team2 == f.WinThreshold {
		return fmt.Errorf("%w: %d-%d in %s format", ErrAmbiguousWinner, team1, team2, f.Name)
	}
	return nil
}

func (f Format) ValidateMapNumber(number int) error {
	if number < 1 || number > f.MaxMaps {
		return fmt.Errorf("%w: map %d, %s allows 1..%d", ErrMapNumberOutOfRange, number, f.Name, f.MaxMaps)
	}
	return nil
}

// ApplySeriesScore writes the series score and derives the match status.
// Reaching the threshold completes the match; dropping below it reopens a
// completed match as live.
func (m *Match) ApplySeriesScore(f Format, team1, team2 int, now time.Time) error {
	if err := f.ValidateSeriesScore(team1, team2); err != nil {
		return err
	}

	m.Team1Score = team1
	m.Team2Score = team2

	switch {
	case team1 == f.WinThreshold || team2 == f.WinThreshold:
		m.Status = StatusCompleted
		m.WinnerID = m.Team1ID
		if team2 > team1 {
			m.WinnerID = m.Team2ID
		}
		if m.StartedAt == nil {
			m.StartedAt = timePtr(now)
		}
		if m.CompletedAt == nil {
			m.CompletedAt = timePtr(now)
		}
	case m.Status == StatusCompleted:
		m.Status = StatusLive
		m.WinnerID = ""
		m.CompletedAt = nil
	case team1+team2 > 0:
		m.MarkLive(now)
	}

	return nil
}

// MarkLive moves an upcoming or postponed match to live.
func (m *Match) MarkLive(now time.Time) {
	if m.Status != StatusUpcoming && m.Status != StatusPostponed {
		return
	}
	m.Status = StatusLive
	if m.StartedAt == nil {
		m.StartedAt = timePtr(now)
	}
}

// ApplyStatus records map timestamps. Start and end are only written once.
func (mp *Map) ApplyStatus(status string, now time.Time) {
	mp.Status = status
	switch status {
	case MapStatusLive:
		if mp.StartedAt == nil {
			mp.StartedAt = timePtr(now)
		}
	case MapStatusCompleted:
		if mp.EndedAt != nil {
			return
		}
		mp.EndedAt = timePtr(now)
		if mp.StartedAt != nil {
			mp.DurationSeconds = int(mp.EndedAt.Sub(*mp.StartedAt).Seconds())
		}
	}
}

// CountMapWins counts completed maps won by each side.
func CountMapWins(maps []Map, team1ID, team2ID string) (int, int) {
	var team1, team2 int
	for _, mp := range maps {
		if mp.Status != MapStatusCompleted {
			continue
		}
		switch mp.WinnerID {
		case "":
		case team1ID:
			team1++
		case team2ID:
			team2++
		}
	}
	return team1, team2
}

// DeriveCurrentMapStatus reports live if any map is live, then upcoming,
// then completed.
func DeriveCurrentMapStatus(maps []Map) string {
	if len(maps) == 0 {
		return ""
	}
	hasUpcoming := false
	for _, mp := range maps {
		switch mp.Status {
		case MapStatusLive:
			return MapStatusLive
		case MapStatusUpcoming:
			hasUpcoming = true
		}
	}
	if hasUpcoming {
		return MapStatusUpcoming
	}
	return MapStatusCompleted
}

// Progress returns the live map and the lowest-numbered upcoming map.
func Progress(maps []Map) (current *Map, next *Map) {
	sorted := SortMaps(maps)
	for i := range sorted {
		mp := sorted[i]
		switch mp.Status {
		case MapStatusLive:
			if current == nil {
				current = &mp
			}
		case MapStatusUpcoming:
			if next == nil {
				next = &mp
			}
		}
	}
	return current, next
}

func HasLiveMap(maps []Map) bool {
	for _, mp := range maps {
		if mp.Status == MapStatusLive {
			return true
		}
	}
	return false
}

func SortMaps(maps []Map) []Map {
	out := append([]Map(nil), maps...)
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func timePtr(t time.Time) *time.Time {
	return &t
}
