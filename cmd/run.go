package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"seedbench/internal/config"
	"seedbench/internal/logging"
	"seedbench/internal/provision"
	"seedbench/internal/report"
	"seedbench/internal/result"
	"seedbench/internal/runner"
	"seedbench/internal/sandbox"
)

var flagSeed int

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <solver>",
		Short: "Run a solver across the seed battery",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolver,
	}
	cmd.Flags().IntVar(&flagSeed, "seed", 0, "run a single seed instead of the full battery")
	return cmd
}

func runSolver(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	log := logging.New(cfg.Log.File, cfg.Log.Level)
	defer log.Sync()

	solver := args[0]
	solverPath := cfg.SolverPath(solver)
	if info, err := os.Stat(solverPath); err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s is not a file", runner.ErrSolverNotFound, solverPath)
	}

	seeds := cfg.SeedList()
	outDir := result.SolverDir(cfg.Paths.OutputDir, solver)
	if cmd.Flags().Changed("seed") {
		seeds = []int{flagSeed}
	} else if err := os.RemoveAll(outDir); err != nil {
		return fmt.Errorf("clearing %s: %w", outDir, err)
	}

	r := newRunner(cfg, log)
	log.Infow("starting batch", "solver", solver, "seeds", len(seeds), "workers", r.Workers)
	scores, err := r.RunBatch(context.Background(), solverPath, seeds, outDir)
	if err != nil {
		return err
	}

	var total int64
	byStem := make(map[string]int64, len(scores))
	for _, s := range scores {
		fmt.Printf("%d: %d\n", s.Seed, s.Score)
		total += s.Score
		byStem[strconv.Itoa(s.Seed)] = s.Score
	}
	if len(scores) > 1 {
		fmt.Printf("Total score: %d\n", total)
	}

	rec := &result.RunRecord{
		RunID:  result.NewRunID(),
		Solver: solver,
		RanAt:  time.Now().UTC(),
		Scores: byStem,
		Total:  total,
	}
	if err := result.WriteRunRecord(outDir, rec); err != nil {
		log.Warnw("writing run record", "error", err)
	}

	if err := report.Update(cfg.Paths.OutputDir, cfg.Paths.OverviewTemplate, cfg.Paths.Overview); err != nil {
		return err
	}
	abs, err := filepath.Abs(cfg.Paths.Overview)
	if err != nil {
		abs = cfg.Paths.Overview
	}
	fmt.Printf("Overview: file://%s\n", abs)
	return nil
}

func newRunner(cfg *config.Config, log *zap.SugaredLogger) *runner.Runner {
	var sb *sandbox.Runner
	if cfg.Sandbox.Image != "" {
		sb = &sandbox.Runner{
			Image:         cfg.Sandbox.Image,
			CPULimit:      cfg.Sandbox.CPULimit,
			MemoryLimitMB: cfg.Sandbox.MemoryLimitMB,
		}
	}
	return &runner.Runner{
		JudgePath:   cfg.Paths.Judge,
		Timeout:     cfg.Timeout(),
		Workers:     cfg.Workers,
		Provisioner: provision.New(cfg.Paths.Generator, cfg.Paths.InputDir, log.Named("provision")),
		Sandbox:     sb,
		Log:         log.Named("runner"),
	}
}
