package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evroute/app"
	"github.com/kilianp07/evroute/qa/scenarios"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Plan every scenario of a directory and check its expectations",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	all, err := scenarios.LoadDir(args[0])
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return fmt.Errorf("no scenarios in %s", args[0])
	}
	return withService(func(ctx context.Context, svc *app.Service) error {
		failed := 0
		for _, r := range svc.RunBatch(ctx, all) {
			state := "ok"
			if r.Err != nil {
				state = "FAIL: " + r.Err.Error()
				failed++
			}
			stops := "-"
			if r.Result.Selected != nil {
				stops = fmt.Sprint(r.Result.Selected.ChargeStops)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-28s %-16s stops=%s %s\n", r.Scenario, r.Result.Status, stops, state)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d scenarios failed", failed, len(all))
		}
		return nil
	})
}
