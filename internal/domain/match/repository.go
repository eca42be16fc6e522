package match

import "context"

// Repository describes match and map persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	GetByExternalID(ctx context.Context, externalID string) (Match, bool, error)
	ListByIngestionRequest(ctx context.Context, requestID string) ([]Match, error)
	Create(ctx context.Context, m Match) error
	Update(ctx context.Context, m Match) error
	ListMaps(ctx context.Context, matchID string) ([]Map, error)
	UpsertMap(ctx context.Context, mp Map) error
	ReplaceMaps(ctx context.Context, matchID string, maps []Map) error
}
