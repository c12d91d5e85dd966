package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evroute/app"
	"github.com/kilianp07/evroute/core/model"
	"github.com/kilianp07/evroute/core/planner"
	"github.com/kilianp07/evroute/pkg/export"
	"github.com/kilianp07/evroute/qa/scenarios"
)

var (
	planFormat string
	planOut    string
)

var planCmd = &cobra.Command{
	Use:   "plan <scenario.yaml>",
	Short: "Plan the charging stops of one trip",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planFormat, "format", "f", "table", "output format: table, json, csv or stops-csv")
	planCmd.Flags().StringVarP(&planOut, "out", "o", "", "write output to file instead of stdout")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	sc, err := scenarios.Load(args[0])
	if err != nil {
		return err
	}
	return withService(func(ctx context.Context, svc *app.Service) error {
		_, res, err := svc.Plan(ctx, sc)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if planOut != "" {
			f, err := os.Create(planOut)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if err := writePlans(w, planFormat, res); err != nil {
			return err
		}
		return res.Err()
	})
}

func writePlans(w io.Writer, format string, res planner.Result) error {
	plans := res.Frontier
	if res.Selected != nil && format != "table" {
		plans = []model.RoutePlan{*res.Selected}
	}
	switch strings.ToLower(format) {
	case "json":
		return export.WriteJSON(w, plans)
	case "csv":
		return export.WriteCSV(w, plans)
	case "stops-csv":
		return export.WriteStopsCSV(w, plans)
	case "table":
		return writeTable(w, res)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func writeTable(w io.Writer, res planner.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "run %s: %s, %d plan(s), %d labels\n", res.RunID, res.Status, len(res.Frontier), res.Stats.LabelsCreated)
	fmt.Fprintln(tw, "\tPLAN\tSTOPS\tTIME h\tCOST EUR\tCO2 kg\tFINAL SOC")
	for _, p := range res.Frontier {
		mark := ""
		if res.Selected != nil && res.Selected.ID == p.ID {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%.2f\t%.1f\t%.3f\n",
			mark, p.ID, p.ChargeStops, p.TotalTimeH, p.TotalCostEUR, p.TotalCO2Kg, p.FinalSoC)
	}
	if res.Selected != nil {
		fmt.Fprintln(tw, "\nselected stops:")
		for _, d := range res.Selected.Decisions() {
			fmt.Fprintf(tw, "  %s\t%.3f -> %.3f\t%s\t%.1f kWh\n",
				d.StationID, d.ArrivalSoC, d.TargetSoC, d.Duration.Round(time.Minute), d.GridKWh)
		}
	}
	return tw.Flush()
}
