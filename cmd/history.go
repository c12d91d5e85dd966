package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evroute/app"
	"github.com/kilianp07/evroute/core/plans"
)

var (
	histQuery plans.PlanQuery
	histSince time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored plan runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&histQuery.RunID, "run-id", "", "only this run")
	f.StringVar(&histQuery.Scenario, "scenario", "", "only this scenario")
	f.StringVar(&histQuery.Status, "status", "", "only runs with this status")
	f.StringVar(&histQuery.StationID, "station", "", "only runs whose selected plan charges at this station")
	f.IntVar(&histQuery.Limit, "limit", 20, "most recent runs to show; 0 for all")
	f.DurationVar(&histSince, "since", 0, "only runs younger than this")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	q := histQuery
	if histSince > 0 {
		q.Start = time.Now().Add(-histSince)
	}
	return withService(func(ctx context.Context, svc *app.Service) error {
		recs, err := svc.History(ctx, q)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, r := range recs {
			line := fmt.Sprintf("%s  %s  %-24s %-16s plans=%d", r.Timestamp.Format(time.RFC3339), r.RunID, r.Scenario, r.Status, len(r.Frontier))
			if r.Selected != nil {
				line += fmt.Sprintf(" selected: %.2f h %.2f EUR %.1f kg stops=%d",
					r.Selected.TotalTimeH, r.Selected.TotalCostEUR, r.Selected.TotalCO2Kg, r.Selected.ChargeStops)
			}
			fmt.Fprintln(out, line)
		}
		return nil
	})
}
