package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/esports-hub/internal/domain/match"
	"github.com/riskibarqy/esports-hub/internal/domain/storage"
)

type MatchRepository struct {
	a access
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	var (
		item match.Match
		ok   bool
	)
	r.a.read(func(d *dataset) {
		item, ok = d.matches[matchID]
	})
	return item, ok, nil
}

func (r *MatchRepository) GetByExternalID(_ context.Context, externalID string) (match.Match, bool, error) {
	var (
		item match.Match
		ok   bool
	)
	if externalID == "" {
		return item, false, nil
	}
	r.a.read(func(d *dataset) {
		for _, m := range d.matches {
			if m.ExternalID == externalID {
				item, ok = m, true
				return
			}
		}
	})
	return item, ok, nil
}

func (r *MatchRepository) ListByIngestionRequest(_ context.Context, requestID string) ([]match.Match, error) {
	var out []match.Match
	r.a.read(func(d *dataset) {
		for _, m := range d.matches {
			if m.IngestionRequestID == requestID {
				out = append(out, m)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) error {
	return r.a.write(func(d *dataset) error {
		if _, exists := d.matches[m.ID]; exists {
			return fmt.Errorf("%w: match %s already exists", storage.ErrConflict, m.ID)
		}
		if m.ExternalID != "" {
			for _, other := range d.matches {
				if other.ExternalID == m.ExternalID {
					return fmt.Errorf("%w: external id %s already ingested", storage.ErrConflict, m.ExternalID)
				}
			}
		}
		d.matches[m.ID] = m
		return nil
	})
}

func (r *MatchRepository) Update(_ context.Context, m match.Match) error {
	return r.a.write(func(d *dataset) error {
		if _, exists := d.matches[m.ID]; !exists {
			return fmt.Errorf("update match %s: no such row", m.ID)
		}
		d.matches[m.ID] = m
		return nil
	})
}

func (r *MatchRepository) ListMaps(_ context.Context, matchID string) ([]match.Map, error) {
	var out []match.Map
	r.a.read(func(d *dataset) {
		for _, mp := range d.maps[matchID] {
			out = append(out, mp)
		}
	})
	return match.SortMaps(out), nil
}

func (r *MatchRepository) UpsertMap(_ context.Context, mp match.Map) error {
	return r.a.write(func(d *dataset) error {
		if _, exists := d.matches[mp.MatchID]; !exists {
			return fmt.Errorf("upsert map: match %s does not exist", mp.MatchID)
		}
		byNumber := d.maps[mp.MatchID]
		if byNumber == nil {
			byNumber = make(map[int]match.Map)
			d.maps[mp.MatchID] = byNumber
		}
		if prev, ok := byNumber[mp.Number]; ok && mp.CreatedAt.IsZero() {
			mp.CreatedAt = prev.CreatedAt
		}
		byNumber[mp.Number] = mp
		return nil
	})
}

func (r *MatchRepository) ReplaceMaps(_ context.Context, matchID string, maps []match.Map) error {
	return r.a.write(func(d *dataset) error {
		if _, exists := d.matches[matchID]; !exists {
			return fmt.Errorf("replace maps: match %s does not exist", matchID)
		}
		byNumber := make(map[int]match.Map, len(maps))
		for _, mp := range maps {
			if _, dup := byNumber[mp.Number]; dup {
				return fmt.Errorf("%w: map %d listed twice", storage.ErrConflict, mp.Number)
			}
			mp.MatchID = matchID
			byNumber[mp.Number] = mp
		}
		d.maps[matchID] = byNumber
		return nil
	})
}
