package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionStats tracks statistics about one corpus sync
type IngestionStats struct {
	mu               sync.RWMutex
	StartTime        time.Time
	Duration         time.Duration
	DaysScanned      int
	GamesFetched     int
	GamesFinal       int
	GamesStored      int
	ValidationErrors int
	Errors           int
}

// NewIngestionStats creates a new stats tracker.
func NewIngestionStats() *IngestionStats {
	return &IngestionStats{
		StartTime: time.Now(),
	}
}

// Reset resets all counters
func (m *IngestionStats) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.DaysScanned = 0
	m.GamesFetched = 0
	m.GamesFinal = 0
	m.GamesStored = 0
	m.ValidationErrors = 0
	m.Errors = 0
}

// RecordDay accumulates one day's fetch outcome
func (m *IngestionStats) RecordDay(fetched, final, stored int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DaysScanned++
	m.GamesFetched += fetched
	m.GamesFinal += final
	m.GamesStored += stored
}

// RecordError increments error count
func (m *IngestionStats) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// RecordValidationError increments validation error count
func (m *IngestionStats) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// Stored returns the number of games written this sync.
func (m *IngestionStats) Stored() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.GamesStored
}

// String returns a formatted string representation of stats.
func (m *IngestionStats) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fmt.Sprintf(
		"IngestionStats{Days=%d, Fetched=%d, Final=%d, Stored=%d, ValidationErrors=%d, Errors=%d, Duration=%v}",
		m.DaysScanned,
		m.GamesFetched,
		m.GamesFinal,
		m.GamesStored,
		m.ValidationErrors,
		m.Errors,
		m.Duration,
	)
}
