package playerstats

import "testing"

func TestApplyRaw(t *testing.T) {
	var s MatchStat
	s.ApplyRaw(map[string]any{
		"eliminations":  float64(21),
		"deaths":        "4",
		"assists":       7,
		"hero_role":     "duelist",
		"final_blows":   float64(9),
		"damage_dealt":  "n/a",
	})

	if s.Eliminations != 21 || s.Deaths != 4 || s.Assists != 7 {
		t.Fatalf("unexpected columns: %+v", s)
	}
	if s.HeroRole != "duelist" {
		t.Fatalf("expected hero role duelist, got %q", s.HeroRole)
	}
	if _, ok := s.Extra["final_blows"]; !ok {
		t.Fatalf("expected unknown key kept in extra")
	}
	if got, _ := s.Extra["damage_dealt"].(string); got != "n/a" {
		t.Fatalf("expected non-numeric known key kept in extra, got %v", s.Extra["damage_dealt"])
	}
	if got := s.KDA(); got != 7 {
		t.Fatalf("expected kda 7, got %v", got)
	}
}
