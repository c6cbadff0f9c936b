package repository

import (
	"context"
	"time"

	"github.com/yourusername/puckline/internal/models"
)

// GameRepository manages the historical game corpus
type GameRepository interface {
	// UpsertBatch stores final games, updating scores for rows that were
	// ingested before the result settled. Returns the number of rows written.
	UpsertBatch(ctx context.Context, games []*models.HistoricalGame) (int, error)

	// GetByDateRange retrieves games played within [start, end], oldest first
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.HistoricalGame, error)

	// GetRecentByTeam retrieves a team's most recent games, newest first
	GetRecentByTeam(ctx context.Context, team string, limit int) ([]*models.HistoricalGame, error)

	// Count returns the corpus size
	Count(ctx context.Context) (int, error)
}

// StandingsRepository manages league table snapshots
type StandingsRepository interface {
	// UpsertBatch stores one day's standings rows
	UpsertBatch(ctx context.Context, standings []models.Standing) error

	// GetLatest retrieves the most recent standings row per team
	GetLatest(ctx context.Context) ([]models.Standing, error)
}
