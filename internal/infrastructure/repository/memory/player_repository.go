package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/esports-hub/internal/domain/player"
	"github.com/riskibarqy/esports-hub/internal/domain/storage"
)

type PlayerRepository struct {
	a access
}

func (r *PlayerRepository) GetByName(_ context.Context, name string) (player.Player, bool, error) {
	var (
		item player.Player
		ok   bool
	)
	name = strings.TrimSpace(name)
	r.a.read(func(d *dataset) {
		for _, p := range d.players {
			if strings.EqualFold(p.Name, name) {
				item, ok = p, true
				return
			}
		}
	})
	return item, ok, nil
}

func (r *PlayerRepository) Create(_ context.Context, p player.Player) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return r.a.write(func(d *dataset) error {
		if _, exists := d.players[p.ID]; exists {
			return fmt.Errorf("%w: player %s already exists", storage.ErrConflict, p.ID)
		}
		d.players[p.ID] = p
		return nil
	})
}
