package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dokzlo13/fuelswitch/internal/app"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var resetState bool

	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Run an editor session script",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(opts.cfg, opts.configPath)
			if err != nil {
				log.Error().Err(err).Msg("Failed to create application")
				return err
			}

			if resetState {
				log.Info().Msg("Clearing saved craft (--reset-state)")
				if err := application.ClearSavedCrafts(); err != nil {
					log.Warn().Err(err).Msg("Failed to clear saved craft")
				}
			}

			application.Start(app.SignalContext())

			var script string
			if len(args) == 1 {
				script = args[0]
			}
			runErr := application.RunScript(script)
			if runErr != nil {
				log.Error().Err(runErr).Msg("Session script failed")
			}

			if err := application.Stop(); err != nil {
				log.Error().Err(err).Msg("Error during shutdown")
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&resetState, "reset-state", false, "Clear saved craft on startup")
	return cmd
}
