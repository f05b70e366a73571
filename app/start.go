package app

import (
	"github.com/spf13/cobra"

	"github.com/expresCocina/Italia-atalear/internal/config"
	"github.com/expresCocina/Italia-atalear/internal/daemon"
	"github.com/expresCocina/Italia-atalear/internal/logger"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	rootCmd.AddCommand(startCmd)
}

var (
	devMode bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the Italia Atelier web service",
		PreRun: func(_ *cobra.Command, _ []string) {
			if cfg, err = config.ReadConfig(configPath); err != nil {
				panic(err)
			}

			if devMode {
				cfg.DevMode = true
				cfg.Log.Console.Enabled = true
				cfg.Log.Console.UseConsoleWriter = true
			}

			if err = logger.Init(cfg.Log); err != nil {
				panic(err)
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			d := daemon.New(&cfg)

			go d.WaitShutdown()

			return d.Start()
		},
	}
)
