package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/puckline/internal/forecast"
	"github.com/yourusername/puckline/internal/models"
	"github.com/yourusername/puckline/internal/repository"
)

// CorpusBuilder assembles the read-only forecasting corpus from the stored
// games and the latest standings snapshot.
type CorpusBuilder struct {
	games        repository.GameRepository
	standings    repository.StandingsRepository
	lookbackDays int
	formGames    int
}

// NewCorpusBuilder creates a new corpus builder.
func NewCorpusBuilder(games repository.GameRepository, standings repository.StandingsRepository,
	lookbackDays, formGames int) *CorpusBuilder {

	if lookbackDays <= 0 {
		lookbackDays = 120
	}
	if formGames <= 0 {
		formGames = 10
	}
	return &CorpusBuilder{
		games:        games,
		standings:    standings,
		lookbackDays: lookbackDays,
		formGames:    formGames,
	}
}

// Build loads the lookback window of games and blends each team's standing
// with its recent form into the fixed profile snapshot.
func (b *CorpusBuilder) Build(ctx context.Context) (*forecast.Corpus, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -b.lookbackDays)

	stored, err := b.games.GetByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus games: %w", err)
	}

	games := make([]models.HistoricalGame, 0, len(stored))
	for _, g := range stored {
		games = append(games, *g)
	}

	standings, err := b.standings.GetLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load standings: %w", err)
	}

	profiles := make(map[string]models.TeamProfile, len(standings))
	for _, standing := range standings {
		recent, err := b.games.GetRecentByTeam(ctx, standing.Team, b.formGames)
		if err != nil {
			return nil, fmt.Errorf("failed to load recent form for %s: %w", standing.Team, err)
		}
		form := formFromGames(standing.Team, recent)
		profiles[standing.Team] = models.BuildProfile(standing.Team, standing, form)
	}

	return &forecast.Corpus{Games: games, Profiles: profiles}, nil
}

// formFromGames summarizes a team's recent results. An empty slice yields a
// zero-game form, which BuildProfile replaces with the league prior.
func formFromGames(team string, games []*models.HistoricalGame) models.TeamForm {
	if len(games) == 0 {
		return models.TeamForm{Team: team}
	}

	wins, goalsFor, goalsAgainst := 0, 0, 0
	for _, g := range games {
		if g.HomeTeam == team {
			goalsFor += g.HomeScore
			goalsAgainst += g.AwayScore
			if g.HomeWin() {
				wins++
			}
		} else {
			goalsFor += g.AwayScore
			goalsAgainst += g.HomeScore
			if !g.HomeWin() {
				wins++
			}
		}
	}

	n := float64(len(games))
	return models.TeamForm{
		Team:           team,
		Games:          len(games),
		WinPct:         float64(wins) / n,
		GoalsForPG:     float64(goalsFor) / n,
		GoalsAgainstPG: float64(goalsAgainst) / n,
	}
}
