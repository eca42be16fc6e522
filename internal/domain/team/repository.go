package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	GetByName(ctx context.Context, name string) (Team, bool, error)
	Create(ctx context.Context, t Team) error
}
