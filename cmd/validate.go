package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evroute/config"
	coremetrics "github.com/kilianp07/evroute/core/metrics"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate the configuration",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if _, err := cfg.Planner(); err != nil {
		return err
	}
	sinks := make([]string, len(cfg.Metrics.Sinks))
	for i, s := range cfg.Metrics.Sinks {
		sinks[i] = s.Type
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "configuration ok")
	fmt.Fprintf(out, "  objective: %s\n", cfg.Objective.Mode)
	fmt.Fprintf(out, "  storage:   %s\n", cfg.Storage.Backend)
	fmt.Fprintf(out, "  sinks:     [%s] (available: %s)\n", strings.Join(sinks, ", "), strings.Join(coremetrics.SinkTypes(), ", "))
	return nil
}
