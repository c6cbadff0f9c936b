package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/puckline/internal/bankroll"
	"github.com/yourusername/puckline/internal/config"
	"github.com/yourusername/puckline/internal/datasource"
	"github.com/yourusername/puckline/internal/logger"
	"github.com/yourusername/puckline/internal/models"
	"github.com/yourusername/puckline/internal/pipeline"
	"github.com/yourusername/puckline/internal/snapshot"
)

// AnalysisService runs one full analysis: build the corpus, fetch today's
// odds, forecast and score every game, publish the snapshot, and size a
// staking plan for the qualifying bets.
type AnalysisService struct {
	odds     datasource.OddsSource
	corpus   *CorpusBuilder
	pipeline *pipeline.Pipeline
	writer   *snapshot.Writer
	logger   *logger.AnalysisLogger
	cfg      config.AnalysisConfig
}

// NewAnalysisService creates a new analysis service.
func NewAnalysisService(
	odds datasource.OddsSource,
	corpusBuilder *CorpusBuilder,
	pipe *pipeline.Pipeline,
	writer *snapshot.Writer,
	analysisLogger *logger.AnalysisLogger,
	cfg config.AnalysisConfig,
) *AnalysisService {
	return &AnalysisService{
		odds:     odds,
		corpus:   corpusBuilder,
		pipeline: pipe,
		writer:   writer,
		logger:   analysisLogger,
		cfg:      cfg,
	}
}

// Run executes one analysis pass. A cancelled run still publishes the
// partial snapshot before the abort error is returned.
func (s *AnalysisService) Run(ctx context.Context) (*snapshot.Snapshot, *bankroll.Plan, error) {
	started := time.Now()

	corpus, err := s.corpus.Build(ctx)
	if err != nil {
		return nil, nil, err
	}

	slate, err := s.odds.FetchOdds(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch odds: %w", err)
	}

	inputs := make([]pipeline.GameInput, 0, len(slate))
	for _, game := range slate {
		inputs = append(inputs, pipeline.GameInput{
			Matchup: game.Matchup,
			Quotes:  game.Quotes,
		})
	}

	s.logger.LogRunStart(len(inputs), corpus.Size(), s.cfg.Stake, s.cfg.Conservative)

	snap, runErr := s.pipeline.Run(ctx, corpus, inputs)
	if runErr != nil && !errors.Is(runErr, models.ErrRunAborted) {
		return nil, nil, runErr
	}
	snap.DaysBack = s.corpus.lookbackDays
	snap.MinEdge = s.cfg.MinEdge

	for _, analysis := range snap.GamesAnalyzed {
		s.logger.LogGameForecast(analysis.Game, analysis.BlendedProbs.HomeWinProb,
			analysis.BlendedProbs.Confidence, analysis.SimilarGames, analysis.BetCount)
	}
	for _, rec := range snap.Recommendations {
		s.logger.LogRecommendation(rec.Pick, rec.Game, rec.Book, string(rec.Grade),
			rec.Odds, rec.Edge, rec.EV, rec.Confidence)
	}

	if err := s.writer.Write(snap); err != nil {
		return snap, nil, err
	}

	var plan *bankroll.Plan
	if s.cfg.Bankroll > 0 && len(snap.Recommendations) > 0 {
		built := bankroll.BuildPlan(decimal.NewFromFloat(s.cfg.Bankroll), s.cfg.KellyFraction, snap.Recommendations)
		plan = &built
	}

	s.logger.LogRunComplete(len(snap.GamesAnalyzed), len(snap.Recommendations),
		snap.Partial, s.cfg.SnapshotPath, time.Since(started))

	return snap, plan, runErr
}
