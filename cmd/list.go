package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"seedbench/internal/config"
	"seedbench/internal/result"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List solver binaries and recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			fmt.Println("Solvers:")
			entries, _ := os.ReadDir(cfg.Paths.BinDir)
			for _, e := range entries {
				name := e.Name()
				if e.IsDir() || !strings.HasPrefix(name, "solver_") {
					continue
				}
				fmt.Printf("  - %s\n", strings.TrimPrefix(name, "solver_"))
			}

			fmt.Println("\nRecorded runs:")
			dirs, _ := os.ReadDir(cfg.Paths.OutputDir)
			for _, d := range dirs {
				if !d.IsDir() {
					continue
				}
				line := "  - " + d.Name()
				recPath := filepath.Join(result.SolverDir(cfg.Paths.OutputDir, d.Name()), "run.json")
				if rec, err := result.ReadRunRecord(recPath); err == nil {
					line += fmt.Sprintf(" (%d seeds, total %d, %s)",
						len(rec.Scores), rec.Total, rec.RanAt.Format(time.RFC3339))
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}
