package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Writer persists snapshots to disk atomically: the JSON is staged in a
// temporary file and renamed over the target, so a reader never observes a
// half-written snapshot.
type Writer struct {
	path   string
	logger *logrus.Logger
}

// NewWriter creates a Writer targeting the given path.
func NewWriter(path string, logger *logrus.Logger) *Writer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Writer{path: path, logger: logger}
}

// Write serializes the snapshot and swaps it into place.
func (w *Writer) Write(snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("failed to stage snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}

	w.logger.WithFields(logrus.Fields{
		"path":    w.path,
		"games":   len(snap.GamesAnalyzed),
		"bets":    len(snap.Recommendations),
		"partial": snap.Partial,
	}).Info("Snapshot written")
	return nil
}
