package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/puckline/internal/database"
	"github.com/yourusername/puckline/internal/models"
)

const errScanGame = "failed to scan game: %w"

const gameColumns = "id, source_id, game_date, home_team, away_team, home_score, away_score, created_at"

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository.
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

// UpsertBatch stores final games keyed by the provider's game ID. A game
// re-fetched after ingestion keeps its row identity; only scores change.
func (r *PostgresGameRepository) UpsertBatch(ctx context.Context, games []*models.HistoricalGame) (int, error) {
	if len(games) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO games (id, source_id, game_date, home_team, away_team, home_score, away_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (source_id) DO UPDATE SET
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score
	`

	batch := &pgx.Batch{}
	for _, game := range games {
		id := game.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		batch.Queue(query,
			id, game.SourceID, game.Date, game.HomeTeam, game.AwayTeam,
			game.HomeScore, game.AwayScore,
		)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	stored := 0
	for range games {
		tag, err := results.Exec()
		if err != nil {
			return stored, fmt.Errorf("failed to upsert game: %w", err)
		}
		stored += int(tag.RowsAffected())
	}

	return stored, nil
}

// GetByDateRange retrieves games played within [start, end], oldest first.
func (r *PostgresGameRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.HistoricalGame, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM games
		WHERE game_date >= $1 AND game_date <= $2
		ORDER BY game_date ASC, source_id ASC
	`, gameColumns)

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by date range: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetRecentByTeam retrieves a team's most recent games, newest first.
func (r *PostgresGameRepository) GetRecentByTeam(ctx context.Context, team string, limit int) ([]*models.HistoricalGame, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM games
		WHERE home_team = $1 OR away_team = $1
		ORDER BY game_date DESC, source_id DESC
		LIMIT $2
	`, gameColumns)

	rows, err := r.db.Query(ctx, query, team, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent games for %s: %w", team, err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// Count returns the corpus size.
func (r *PostgresGameRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM games").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return count, nil
}

func scanGames(rows pgx.Rows) ([]*models.HistoricalGame, error) {
	var games []*models.HistoricalGame
	for rows.Next() {
		game := &models.HistoricalGame{}
		err := rows.Scan(
			&game.ID, &game.SourceID, &game.Date, &game.HomeTeam, &game.AwayTeam,
			&game.HomeScore, &game.AwayScore, &game.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}
