package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evroute/app"
	"github.com/kilianp07/evroute/infra/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve metrics and the plan history API until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	return withService(func(ctx context.Context, svc *app.Service) error {
		if svc.Store == nil {
			return errors.New("serve needs a plan store (storage.backend)")
		}
		logger.New("main").Infof("running until interrupted")
		<-ctx.Done()
		return nil
	})
}
