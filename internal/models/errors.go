package models

import "errors"

// Custom errors
var (
	// ErrInvalidQuote marks a malformed or missing price. The affected
	// market/book pair is skipped; the run continues.
	ErrInvalidQuote = errors.New("invalid quote")

	// ErrIncompatibleForecast marks a model/market side-set mismatch. The
	// market is skipped for that matchup.
	ErrIncompatibleForecast = errors.New("incompatible forecast")

	// ErrEmptyCorpus is the one fatal precondition: no historical games to
	// forecast from. Reported before any forecasting begins.
	ErrEmptyCorpus = errors.New("historical game corpus is empty")

	// ErrRunAborted signals caller-level cancellation. Matchups completed
	// before the abort may still be emitted as a partial snapshot.
	ErrRunAborted = errors.New("analysis run aborted")

	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key violation")
)
