// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/expresCocina/Italia-atalear/internal/config"
)

var (
	cfg config.Config
	err error

	configPath string // Path to the configuration directory

	rootCmd = &cobra.Command{
		Use:   "italia-atelier",
		Short: "Italia Atelier is the backend service of the boutique storefront",
		Long: `Italia Atelier is the backend service of the tailoring boutique
storefront: site settings, product catalog, asset uploads, admin
accounts and the conversion-event relay.`,
		Args: cobra.OnlyValidArgs,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "Path to the configuration directory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
