package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "seedbench",
		Short: "Benchmark harness for scored solver binaries",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "seedbench.yaml", "config file path")
	root.AddCommand(newRunCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newListCmd())
	return root
}
