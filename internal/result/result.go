package result

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// RunRecord captures one batch execution for a solver. It is informational
// only: aggregation always re-reads the seed logs, never this record.
type RunRecord struct {
	RunID  string           `json:"run_id"`
	Solver string           `json:"solver"`
	RanAt  time.Time        `json:"ran_at"`
	Scores map[string]int64 `json:"scores"`
	Total  int64            `json:"total"`
}

// NewRunID returns a fresh identifier for a batch execution.
func NewRunID() string {
	return uuid.NewString()
}

// SolverDir returns the per-solver output directory under the output root.
func SolverDir(outputRoot, solver string) string {
	return filepath.Join(outputRoot, solver)
}

// OutPath returns the judge stdout capture file for a seed.
func OutPath(dir string, seed int) string {
	return filepath.Join(dir, strconv.Itoa(seed)+".out")
}

// LogPath returns the judge stderr capture file for a seed. The score line
// is extracted from this file.
func LogPath(dir string, seed int) string {
	return filepath.Join(dir, strconv.Itoa(seed)+".log")
}

// WriteRunRecord persists the record as run.json in the solver directory.
func WriteRunRecord(dir string, rec *RunRecord) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating solver dir: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling run record: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "run.json"), data, 0o644)
}

// ReadRunRecord loads a run.json written by WriteRunRecord.
func ReadRunRecord(path string) (*RunRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run record: %w", err)
	}
	var rec RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing run record: %w", err)
	}
	return &rec, nil
}
