package player

import (
	"fmt"
	"time"
)

const (
	RolePlayer     = "player"
	UnknownCountry = "Unknown"
)

// Player is a competitor registered on a team.
type Player struct {
	ID        string
	TeamID    string
	Name      string
	Role      string
	Country   string
	CreatedAt time.Time
}

func Placeholder(id, name, teamID string) Player {
	return Player{
		ID:      id,
		TeamID:  teamID,
		Name:    name,
		Role:    RolePlayer,
		Country: UnknownCountry,
	}
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}

	return nil
}
