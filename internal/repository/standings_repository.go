package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/puckline/internal/database"
	"github.com/yourusername/puckline/internal/models"
)

// PostgresStandingsRepository implements StandingsRepository for PostgreSQL
type PostgresStandingsRepository struct {
	db *database.DB
}

// NewPostgresStandingsRepository creates a new standings repository.
func NewPostgresStandingsRepository(db *database.DB) StandingsRepository {
	return &PostgresStandingsRepository{db: db}
}

// UpsertBatch stores one day's standings rows
func (r *PostgresStandingsRepository) UpsertBatch(ctx context.Context, standings []models.Standing) error {
	if len(standings) == 0 {
		return nil
	}

	query := `
		INSERT INTO standings (team, as_of, games_played, wins, losses, ot_losses,
		                       points, points_pct, goals_for_pg, goals_against_pg)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (team, as_of) DO UPDATE SET
			games_played = EXCLUDED.games_played,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			ot_losses = EXCLUDED.ot_losses,
			points = EXCLUDED.points,
			points_pct = EXCLUDED.points_pct,
			goals_for_pg = EXCLUDED.goals_for_pg,
			goals_against_pg = EXCLUDED.goals_against_pg
	`

	batch := &pgx.Batch{}
	for _, s := range standings {
		batch.Queue(query,
			s.Team, s.AsOf, s.GamesPlayed, s.Wins, s.Losses, s.OTLosses,
			s.Points, s.PointsPct, s.GoalsForPG, s.GoalsAgainstPG,
		)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	for range standings {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert standing: %w", err)
		}
	}

	return nil
}

// GetLatest retrieves the most recent standings row per team.
func (r *PostgresStandingsRepository) GetLatest(ctx context.Context) ([]models.Standing, error) {
	query := `
		SELECT DISTINCT ON (team)
			team, as_of, games_played, wins, losses, ot_losses,
			points, points_pct, goals_for_pg, goals_against_pg
		FROM standings
		ORDER BY team, as_of DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest standings: %w", err)
	}
	defer rows.Close()

	var standings []models.Standing
	for rows.Next() {
		var s models.Standing
		err := rows.Scan(
			&s.Team, &s.AsOf, &s.GamesPlayed, &s.Wins, &s.Losses, &s.OTLosses,
			&s.Points, &s.PointsPct, &s.GoalsForPG, &s.GoalsAgainstPG,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		standings = append(standings, s)
	}

	return standings, rows.Err()
}
