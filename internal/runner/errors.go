package runner

import (
	"errors"
	"fmt"
)

// ErrSolverNotFound reports a solver identifier that resolved to no binary.
// It is raised before any seed runs.
var ErrSolverNotFound = errors.New("solver binary not found")

// TimeoutError reports a judge process that exceeded the per-seed budget.
type TimeoutError struct {
	Seed int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("judge timed out for seed %d", e.Seed)
}

// JudgeError reports a judge process that exited with a non-zero status.
type JudgeError struct {
	Seed     int
	ExitCode int
}

func (e *JudgeError) Error() string {
	return fmt.Sprintf("judge exited with status code %d for seed %d", e.ExitCode, e.Seed)
}
