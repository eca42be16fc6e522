package playerstats

import (
	"math"
	"strconv"
	"strings"
)

// MatchStat is one player's line for one match.
type MatchStat struct {
	MatchID           string
	PlayerID          string
	TeamID            string
	Hero              string
	HeroRole          string
	TimePlayedSeconds int
	Eliminations      int
	Assists           int
	Deaths            int
	DamageDealt       int
	DamageTaken       int
	HealingDone       int
	DamageBlocked     int
	// Extra keeps feed values without a dedicated column.
	Extra map[string]any
}

// KDA is (eliminations + assists) / max(deaths, 1).
func (s MatchStat) KDA() float64 {
	deaths := s.Deaths
	if deaths < 1 {
		deaths = 1
	}
	return math.Round(float64(s.Eliminations+s.Assists)/float64(deaths)*100) / 100
}

// ApplyRaw copies known numeric keys into columns and keeps the rest in Extra.
func (s *MatchStat) ApplyRaw(raw map[string]any) {
	for key, value := range raw {
		normalized := strings.ToLower(strings.TrimSpace(key))
		target := s.column(normalized)
		if target == nil {
			if normalized == "hero_role" {
				if str, ok := value.(string); ok {
					s.HeroRole = strings.TrimSpace(str)
					continue
				}
			}
			if s.Extra == nil {
				s.Extra = make(map[string]any)
			}
			s.Extra[key] = value
			continue
		}
		if n, ok := toInt(value); ok {
			*target = n
			continue
		}
		if s.Extra == nil {
			s.Extra = make(map[string]any)
		}
		s.Extra[key] = value
	}
}

func (s *MatchStat) column(key string) *int {
	switch key {
	case "time_played_seconds":
		return &s.TimePlayedSeconds
	case "eliminations", "kills":
		return &s.Eliminations
	case "assists":
		return &s.Assists
	case "deaths":
		return &s.Deaths
	case "damage_dealt", "damage":
		return &s.DamageDealt
	case "damage_taken":
		return &s.DamageTaken
	case "healing_done", "healing":
		return &s.HealingDone
	case "damage_blocked":
		return &s.DamageBlocked
	default:
		return nil
	}
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	default:
		return 0, false
	}
}
