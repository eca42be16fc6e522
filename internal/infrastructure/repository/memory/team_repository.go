package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/esports-hub/internal/domain/storage"
	"github.com/riskibarqy/esports-hub/internal/domain/team"
)

type TeamRepository struct {
	a access
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	var (
		item team.Team
		ok   bool
	)
	r.a.read(func(d *dataset) {
		item, ok = d.teams[teamID]
	})
	return item, ok, nil
}

func (r *TeamRepository) GetByName(_ context.Context, name string) (team.Team, bool, error) {
	var (
		item team.Team
		ok   bool
	)
	name = strings.TrimSpace(name)
	r.a.read(func(d *dataset) {
		for _, t := range d.teams {
			if strings.EqualFold(t.Name, name) {
				item, ok = t, true
				return
			}
		}
	})
	return item, ok, nil
}

func (r *TeamRepository) Create(_ context.Context, t team.Team) error {
	if err := t.Validate(); err != nil {
		return err
	}
	return r.a.write(func(d *dataset) error {
		if _, exists := d.teams[t.ID]; exists {
			return fmt.Errorf("%w: team %s already exists", storage.ErrConflict, t.ID)
		}
		for _, other := range d.teams {
			if strings.EqualFold(other.Name, t.Name) {
				return fmt.Errorf("%w: team name %q taken", storage.ErrConflict, t.Name)
			}
		}
		d.teams[t.ID] = t
		return nil
	})
}
