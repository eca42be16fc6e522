package playerstats

import "context"

// Repository describes player stat persistence needs from use cases.
type Repository interface {
	ListByMatch(ctx context.Context, matchID string) ([]MatchStat, error)
	// ReplaceForMatch drops the match's existing stat lines and writes stats.
	ReplaceForMatch(ctx context.Context, matchID string, stats []MatchStat) error
}
