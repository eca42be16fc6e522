package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	GetByName(ctx context.Context, name string) (Player, bool, error)
	Create(ctx context.Context, p Player) error
}
