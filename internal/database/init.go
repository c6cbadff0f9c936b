package database

import (
	"context"
	"fmt"

	"github.com/yourusername/puckline/internal/config"
)

// Schema for the forecasting corpus. Games are immutable once final; the
// upsert path only corrects scores for rows ingested before they settled.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS games (
	id UUID PRIMARY KEY,
	source_id BIGINT NOT NULL UNIQUE,
	game_date DATE NOT NULL,
	home_team CHAR(3) NOT NULL,
	away_team CHAR(3) NOT NULL,
	home_score INT NOT NULL,
	away_score INT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_games_date ON games (game_date);
CREATE INDEX IF NOT EXISTS idx_games_home_team ON games (home_team, game_date);
CREATE INDEX IF NOT EXISTS idx_games_away_team ON games (away_team, game_date);

CREATE TABLE IF NOT EXISTS standings (
	team CHAR(3) NOT NULL,
	as_of DATE NOT NULL,
	games_played INT NOT NULL,
	wins INT NOT NULL,
	losses INT NOT NULL,
	ot_losses INT NOT NULL,
	points INT NOT NULL,
	points_pct DOUBLE PRECISION NOT NULL,
	goals_for_pg DOUBLE PRECISION NOT NULL,
	goals_against_pg DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (team, as_of)
);

CREATE INDEX IF NOT EXISTS idx_standings_as_of ON standings (as_of);
`

// Initialize creates a database connection pool and ensures the corpus
// schema exists.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure corpus schema: %w", err)
	}

	return db, nil
}
