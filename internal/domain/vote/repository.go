package vote

import "context"

// Repository describes vote persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, userID string, target Target) (Vote, bool, error)
	Upsert(ctx context.Context, v Vote) error
	Delete(ctx context.Context, userID string, target Target) error
	Counts(ctx context.Context, target Target) (Counts, error)
}
