package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"seedbench/internal/provision"
	"seedbench/internal/result"
	"seedbench/internal/sandbox"
)

// Runner executes seeds end to end: input provisioning, judge invocation
// with stdio captured to per-seed files, and score extraction.
type Runner struct {
	JudgePath string
	Timeout   time.Duration
	Workers   int

	Provisioner *provision.Provisioner
	Sandbox     *sandbox.Runner // nil runs the judge directly on the host
	Log         *zap.SugaredLogger
}

func (r *Runner) logger() *zap.SugaredLogger {
	if r.Log == nil {
		return zap.NewNop().Sugar()
	}
	return r.Log
}

// RunSeed runs the judge once for seed and returns the extracted score.
// The seed's .out and .log files are left behind in outDir even when the
// run fails after they were created.
func (r *Runner) RunSeed(ctx context.Context, solverPath string, seed int, outDir string) (int64, error) {
	inputPath, err := r.Provisioner.EnsureInput(ctx, seed)
	if err != nil {
		return 0, err
	}

	outPath := result.OutPath(outDir, seed)
	logPath := result.LogPath(outDir, seed)

	if r.Sandbox != nil {
		return r.runSandboxed(ctx, solverPath, seed, inputPath, outPath, logPath)
	}

	input, err := os.Open(inputPath)
	if err != nil {
		return 0, err
	}
	defer input.Close()

	outFile, err := os.Create(outPath)
	if err != nil {
		return 0, err
	}
	defer outFile.Close()

	logFile, err := os.Create(logPath)
	if err != nil {
		return 0, err
	}
	defer logFile.Close()

	runCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	// The judge inherits the capture files as its own stdout/stderr, so no
	// pump goroutines can outlive a killed process.
	cmd := exec.CommandContext(runCtx, r.JudgePath, solverPath)
	cmd.Stdin = input
	cmd.Stdout = outFile
	cmd.Stderr = logFile

	r.logger().Debugw("running judge", "seed", seed, "solver", solverPath)
	if err := cmd.Run(); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			r.logger().Warnw("judge timed out", "seed", seed)
			return 0, &TimeoutError{Seed: seed}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return 0, &JudgeError{Seed: seed, ExitCode: exitErr.ExitCode()}
		}
		return 0, err
	}

	return r.scoreFromLog(logPath)
}

// runSandboxed executes the judge inside a container with the same
// stdio-to-file contract and error mapping as the host path.
func (r *Runner) runSandboxed(ctx context.Context, solverPath string, seed int, inputPath, outPath, logPath string) (int64, error) {
	// Pre-create the capture files so they exist as bind targets and survive
	// even when the container never starts.
	for _, p := range []string{outPath, logPath} {
		f, err := os.Create(p)
		if err != nil {
			return 0, err
		}
		f.Close()
	}

	res, err := r.Sandbox.RunJudge(ctx, &sandbox.JudgeOpts{
		JudgePath:  r.JudgePath,
		SolverPath: solverPath,
		InputPath:  inputPath,
		OutPath:    outPath,
		LogPath:    logPath,
		Timeout:    r.Timeout,
	})
	if err != nil {
		return 0, err
	}
	if res.TimedOut {
		r.logger().Warnw("judge timed out", "seed", seed, "sandbox", r.Sandbox.Image)
		return 0, &TimeoutError{Seed: seed}
	}
	if res.ExitCode != 0 {
		return 0, &JudgeError{Seed: seed, ExitCode: res.ExitCode}
	}

	return r.scoreFromLog(logPath)
}

func (r *Runner) scoreFromLog(logPath string) (int64, error) {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return 0, err
	}
	return ExtractScore(string(data)), nil
}
