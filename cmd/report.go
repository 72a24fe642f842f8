package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"seedbench/internal/config"
	"seedbench/internal/report"
)

var flagFormat string

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Rebuild the overview from stored results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if err := report.Update(cfg.Paths.OutputDir, cfg.Paths.OverviewTemplate, cfg.Paths.Overview); err != nil {
				return err
			}
			return report.Render(cfg.Paths.OutputDir, flagFormat, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&flagFormat, "format", "table", "output format (table, markdown, json)")
	return cmd
}
