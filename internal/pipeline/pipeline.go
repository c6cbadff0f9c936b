package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/puckline/internal/blend"
	"github.com/yourusername/puckline/internal/edge"
	"github.com/yourusername/puckline/internal/forecast"
	"github.com/yourusername/puckline/internal/metrics"
	"github.com/yourusername/puckline/internal/models"
	"github.com/yourusername/puckline/internal/oddsmath"
	"github.com/yourusername/puckline/internal/snapshot"
)

// GameInput is one scheduled game and every quote collected for it.
type GameInput struct {
	Matchup models.Matchup
	Quotes  []models.MarketQuote
}

// Options tunes a run.
type Options struct {
	// Stake is the flat amount recorded on the snapshot and evaluated per bet.
	Stake float64
	// MaxRecommendations truncates the ranked list when positive.
	MaxRecommendations int
	// Workers bounds the fan-out across matchups. Zero means one worker per
	// matchup.
	Workers int
}

// Pipeline runs the full analysis for one slate of games: forecast each
// matchup from the corpus, normalize its quotes, blend, score every line,
// and assemble the snapshot. Matchups are independent, so they fan out
// across workers; the corpus is shared read-only.
type Pipeline struct {
	forecaster *forecast.Forecaster
	normalizer *oddsmath.Normalizer
	blender    *blend.Blender
	engine     *edge.Engine
	opts       Options
	logger     *logrus.Logger
}

// New assembles a Pipeline from its stages.
func New(forecaster *forecast.Forecaster, normalizer *oddsmath.Normalizer,
	blender *blend.Blender, engine *edge.Engine, opts Options, logger *logrus.Logger) (*Pipeline, error) {

	if forecaster == nil || normalizer == nil || blender == nil || engine == nil {
		return nil, fmt.Errorf("all pipeline stages are required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	if opts.Stake <= 0 {
		opts.Stake = 1.0
	}
	return &Pipeline{
		forecaster: forecaster,
		normalizer: normalizer,
		blender:    blender,
		engine:     engine,
		opts:       opts,
		logger:     logger,
	}, nil
}

// gameResult is one matchup's completed analysis, reassembled in input order.
type gameResult struct {
	analysis snapshot.GameAnalysis
	recs     []models.Recommendation
	ok       bool
}

// Run analyzes the slate and returns the snapshot. An empty corpus is the
// one fatal precondition. Cancellation mid-run returns the completed games
// as a partial snapshot alongside ErrRunAborted.
func (p *Pipeline) Run(ctx context.Context, corpus *forecast.Corpus, games []GameInput) (*snapshot.Snapshot, error) {
	if corpus == nil || corpus.Size() == 0 {
		return nil, fmt.Errorf("%w: no historical games to forecast from", models.ErrEmptyCorpus)
	}

	started := time.Now()
	metrics.UpdateCorpusSize(corpus.Size())

	p.logger.WithFields(logrus.Fields{
		"games":  len(games),
		"corpus": corpus.Size(),
	}).Info("Starting analysis run")

	results := make([]gameResult, len(games))

	workers := p.opts.Workers
	if workers <= 0 || workers > len(games) {
		workers = len(games)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.analyzeGame(corpus, games[i])
			}
		}()
	}

	aborted := false
dispatch:
	for i := range games {
		select {
		case <-ctx.Done():
			aborted = true
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	snap := p.assemble(results)
	snap.Partial = aborted
	snap.HistoricalGames = corpus.Size()

	metrics.UpdateLastRunRecommendations(len(snap.Recommendations))
	metrics.RecordRun(time.Since(started).Seconds())

	if aborted {
		metrics.RecordRunAborted()
		p.logger.WithField("completed", len(snap.GamesAnalyzed)).Warn("Run aborted, emitting partial snapshot")
		return snap, fmt.Errorf("%w: %v", models.ErrRunAborted, ctx.Err())
	}

	p.logger.WithFields(logrus.Fields{
		"games":    len(snap.GamesAnalyzed),
		"bets":     len(snap.Recommendations),
		"duration": time.Since(started),
	}).Info("Analysis run complete")
	return snap, nil
}

// analyzeGame runs the per-matchup stages. Every failure is contained: a
// game that cannot be analyzed is dropped from the snapshot, never fatal.
func (p *Pipeline) analyzeGame(corpus *forecast.Corpus, game GameInput) gameResult {
	started := time.Now()
	log := p.logger.WithField("game", game.Matchup.Label())

	market, err := p.normalizer.Normalize(game.Matchup, game.Quotes)
	if err != nil {
		log.WithError(err).Warn("Skipping game without usable quotes")
		return gameResult{}
	}

	model := p.forecaster.Forecast(game.Matchup, corpus, market.TotalLine, market.SpreadLine)

	blended, err := p.blender.Blend(game.Matchup, model, market)
	if err != nil {
		log.WithError(err).Warn("Skipping game with incompatible forecasts")
		return gameResult{}
	}
	for range blended.SkippedMarkets {
		metrics.RecordMarketSkipped()
	}

	// Consensus used every book; bets are placed at the best available price.
	recs := p.engine.EvaluateGame(game.Matchup, blended, oddsmath.BestQuotes(game.Quotes))
	for _, rec := range recs {
		metrics.RecordRecommendation(string(rec.Grade))
	}
	metrics.RecordGameAnalyzed(time.Since(started).Seconds())

	return gameResult{
		analysis: snapshot.NewGameAnalysis(game.Matchup, model, market, blended, len(recs)),
		recs:     recs,
		ok:       true,
	}
}

// assemble builds the snapshot from per-game results, preserving input order
// for games and ranking recommendations across the whole slate.
func (p *Pipeline) assemble(results []gameResult) *snapshot.Snapshot {
	snap := &snapshot.Snapshot{
		Timestamp:       time.Now().UTC(),
		Stake:           p.opts.Stake,
		GamesAnalyzed:   make([]snapshot.GameAnalysis, 0, len(results)),
		Recommendations: []models.Recommendation{},
	}

	var all []models.Recommendation
	for _, r := range results {
		if !r.ok {
			continue
		}
		snap.GamesAnalyzed = append(snap.GamesAnalyzed, r.analysis)
		all = append(all, r.recs...)
	}
	snap.Recommendations = edge.Rank(all, p.opts.MaxRecommendations)
	return snap
}
