package main

import (
	"zsports/sports-history/internal/config"
	"zsports/sports-history/internal/logging"
	"zsports/sports-history/internal/plot"
	"zsports/sports-history/internal/storage"

	"github.com/spf13/cobra"
)

// app carries what every subcommand needs after the root pre-run.
type app struct {
	configPath string
	logLevel   string
	cfg        config.Config
	theme      plot.Theme
}

func newRootCmd() *cobra.Command {
	a := &app{theme: plot.DefaultTheme()}

	root := &cobra.Command{
		Use:           "sportsctl",
		Short:         "Personal sports data toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(a.configPath)
			if err != nil {
				return err
			}
			if a.logLevel != "" {
				cfg.Log.Level = a.logLevel
			}
			logging.Setup(logging.SetupParams{
				LogFileName:   cfg.Log.File,
				LogToStdout:   true,
				LogLevel:      cfg.Log.Level,
				LogFormatJSON: cfg.Log.JSON,
			})
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", ".", "directory with config.yaml and .env")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level")

	root.AddCommand(
		newIntervalsCmd(a),
		newStorageCmd(a),
		newStravaCmd(a),
		newPolarCmd(a),
		newPublishCmd(a),
		newAdminCmd(a),
	)
	return root
}

func (a *app) storage() (storage.FileStorage, error) {
	if err := a.cfg.ValidateStorage(); err != nil {
		return nil, err
	}
	return storage.NewS3Storage(a.cfg.Hetzner, a.cfg.Paths.DataRoot)
}
