// Package logger provides ingestion-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// IngestLogger provides dedicated logging for corpus ingestion.
type IngestLogger struct {
	*logrus.Entry
}

// NewIngestLogger creates a new ingestion logger.
func NewIngestLogger(baseLogger *logrus.Logger) *IngestLogger {
	return &IngestLogger{
		Entry: baseLogger.WithField("component", "ingest"),
	}
}

// LogDaySync logs one day's schedule sync.
func (il *IngestLogger) LogDaySync(date time.Time, fetched, final, stored int) {
	il.WithFields(logrus.Fields{
		"date":    date.Format("2006-01-02"),
		"fetched": fetched,
		"final":   final,
		"stored":  stored,
	}).Info("Schedule day synced")
}

// LogStandingsSync logs a standings refresh.
func (il *IngestLogger) LogStandingsSync(teams int, asOf time.Time) {
	il.WithFields(logrus.Fields{
		"teams": teams,
		"as_of": asOf.Format("2006-01-02"),
	}).Info("Standings synced")
}

// LogIngestComplete logs the end of an ingestion run.
func (il *IngestLogger) LogIngestComplete(days, games int, duration time.Duration) {
	il.WithFields(logrus.Fields{
		"days":        days,
		"games":       games,
		"duration_ms": duration.Milliseconds(),
	}).Info("Ingestion completed")
}
