package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yourusername/puckline/internal/datasource"
	"github.com/yourusername/puckline/internal/logger"
	"github.com/yourusername/puckline/internal/metrics"
	"github.com/yourusername/puckline/internal/models"
	"github.com/yourusername/puckline/internal/repository"
)

// IngestionService builds the forecasting corpus: it walks a lookback
// window day by day, keeps final regular-season games, and refreshes the
// standings snapshot.
type IngestionService struct {
	source       datasource.GameSource
	games        repository.GameRepository
	standings    repository.StandingsRepository
	validate     *validator.Validate
	stats        *IngestionStats
	logger       *logger.IngestLogger
	lookbackDays int
	batchSize    int
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(
	source datasource.GameSource,
	games repository.GameRepository,
	standings repository.StandingsRepository,
	ingestLogger *logger.IngestLogger,
	lookbackDays int,
	batchSize int,
) *IngestionService {
	if lookbackDays <= 0 {
		lookbackDays = 120
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	return &IngestionService{
		source:       source,
		games:        games,
		standings:    standings,
		validate:     validator.New(),
		stats:        NewIngestionStats(),
		logger:       ingestLogger,
		lookbackDays: lookbackDays,
		batchSize:    batchSize,
	}
}

// SyncHistory fetches completed games from the lookback window and upserts
// them into the corpus. A day that fails to fetch is logged and skipped;
// only cancellation stops the walk.
func (s *IngestionService) SyncHistory(ctx context.Context) (*IngestionStats, error) {
	s.stats.Reset()
	startTime := time.Now()
	today := time.Now().UTC().Truncate(24 * time.Hour)

	for i := s.lookbackDays; i >= 1; i-- {
		select {
		case <-ctx.Done():
			s.stats.Duration = time.Since(startTime)
			return s.stats, fmt.Errorf("%w: %v", models.ErrRunAborted, ctx.Err())
		default:
		}

		day := today.AddDate(0, 0, -i)
		results, err := s.source.FetchScores(ctx, day)
		if err != nil {
			s.stats.RecordError()
			s.logger.WithField("date", day.Format("2006-01-02")).WithError(err).Warn("Skipping day")
			continue
		}

		games := s.finalGames(results)
		stored, err := s.storeGames(ctx, games)
		if err != nil {
			s.stats.RecordError()
			s.logger.WithField("date", day.Format("2006-01-02")).WithError(err).Warn("Failed to store day")
		}

		s.stats.RecordDay(len(results), len(games), stored)
		s.logger.LogDaySync(day, len(results), len(games), stored)
	}

	s.stats.Duration = time.Since(startTime)
	metrics.RecordIngestedGames(s.stats.Stored())
	s.logger.LogIngestComplete(s.lookbackDays, s.stats.Stored(), s.stats.Duration)

	return s.stats, nil
}

// SyncStandings refreshes the standings snapshot as of today.
func (s *IngestionService) SyncStandings(ctx context.Context) error {
	asOf := time.Now().UTC().Truncate(24 * time.Hour)
	rows, err := s.source.FetchStandings(ctx, asOf)
	if err != nil {
		return fmt.Errorf("failed to fetch standings: %w", err)
	}

	if err := s.standings.UpsertBatch(ctx, rows); err != nil {
		return fmt.Errorf("failed to store standings: %w", err)
	}

	s.logger.LogStandingsSync(len(rows), asOf)
	return nil
}

// finalGames keeps settled regular-season results and derives corpus rows.
// Rows that fail model validation are dropped, not fatal.
func (s *IngestionService) finalGames(results []datasource.GameResult) []*models.HistoricalGame {
	var games []*models.HistoricalGame
	for _, res := range results {
		if !res.Final() || !res.RegularSeason() {
			continue
		}

		game := &models.HistoricalGame{
			ID:        uuid.New(),
			SourceID:  res.SourceID,
			Date:      res.Date,
			HomeTeam:  res.HomeTeam,
			AwayTeam:  res.AwayTeam,
			HomeScore: res.HomeScore,
			AwayScore: res.AwayScore,
		}
		if err := s.validate.Struct(game); err != nil {
			s.stats.RecordValidationError()
			s.logger.WithField("source_id", res.SourceID).WithError(err).Warn("Dropping invalid game")
			continue
		}
		games = append(games, game)
	}
	return games
}

// storeGames upserts in batches so one oversized day cannot blow a single
// round trip.
func (s *IngestionService) storeGames(ctx context.Context, games []*models.HistoricalGame) (int, error) {
	stored := 0
	for start := 0; start < len(games); start += s.batchSize {
		end := start + s.batchSize
		if end > len(games) {
			end = len(games)
		}
		n, err := s.games.UpsertBatch(ctx, games[start:end])
		stored += n
		if err != nil {
			return stored, err
		}
	}
	return stored, nil
}

// GetStats returns current ingestion stats.
func (s *IngestionService) GetStats() *IngestionStats {
	return s.stats
}
