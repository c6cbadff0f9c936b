package repository

import (
	"fmt"

	"github.com/yourusername/puckline/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Games     GameRepository
	Standings StandingsRepository
}

// NewRepositories creates and returns all repository implementations.
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Games:     NewPostgresGameRepository(db),
		Standings: NewPostgresStandingsRepository(db),
	}, nil
}
