// Package logger provides analysis-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AnalysisLogger provides dedicated logging for analysis runs.
type AnalysisLogger struct {
	*logrus.Entry
}

// NewAnalysisLogger creates a new analysis logger.
func NewAnalysisLogger(baseLogger *logrus.Logger) *AnalysisLogger {
	return &AnalysisLogger{
		Entry: baseLogger.WithField("component", "analysis"),
	}
}

// LogRunStart logs the beginning of an analysis run.
func (al *AnalysisLogger) LogRunStart(games, corpusSize int, stake float64, conservative bool) {
	al.WithFields(logrus.Fields{
		"games":        games,
		"corpus_size":  corpusSize,
		"stake":        stake,
		"conservative": conservative,
	}).Info("Analysis run started")
}

// LogGameForecast logs one matchup's forecast outcome.
func (al *AnalysisLogger) LogGameForecast(game string, homeWinProb, confidence float64, similarGames, bets int) {
	al.WithFields(logrus.Fields{
		"game":          game,
		"home_win_prob": homeWinProb,
		"confidence":    confidence,
		"n_similar":     similarGames,
		"n_bets":        bets,
	}).Info("Game forecast completed")
}

// LogRecommendation logs a qualifying bet.
func (al *AnalysisLogger) LogRecommendation(pick, game, book, grade string, odds int, edge, ev, confidence float64) {
	al.WithFields(logrus.Fields{
		"pick":       pick,
		"game":       game,
		"book":       book,
		"grade":      grade,
		"odds":       odds,
		"edge":       edge,
		"ev":         ev,
		"confidence": confidence,
	}).Info("Bet recommended")
}

// LogRunComplete logs the end of a run and where the snapshot landed.
func (al *AnalysisLogger) LogRunComplete(games, bets int, partial bool, snapshotPath string, duration time.Duration) {
	al.WithFields(logrus.Fields{
		"games":         games,
		"bets":          bets,
		"partial":       partial,
		"snapshot_path": snapshotPath,
		"duration_ms":   duration.Milliseconds(),
	}).Info("Analysis run completed")
}
