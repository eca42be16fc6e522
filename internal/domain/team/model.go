package team

import (
	"fmt"
	"time"
)

const (
	StatusActive   = "active"
	UnknownCountry = "Unknown"
	UnknownRegion  = "Unknown"
)

// Team is an esports organisation taking part in matches.
type Team struct {
	ID        string
	Name      string
	Country   string
	Region    string
	Status    string
	CreatedAt time.Time
}

// Placeholder builds the team recorded when an ingested match references an
// unknown name.
func Placeholder(id, name string) Team {
	return Team{
		ID:      id,
		Name:    name,
		Country: UnknownCountry,
		Region:  UnknownRegion,
		Status:  StatusActive,
	}
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
