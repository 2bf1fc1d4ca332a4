package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/nupack/internal/config"
)

var (
	// setupConfigPath to the configuration YAML file being written.
	setupConfigPath string

	// setupPackagesDir is an optional override for the packages folder.
	setupPackagesDir string

	// setupCmd writes the settings file used by the other subcommands.
	setupCmd = &cobra.Command{
		Use:   "setup <install-root>",
		Short: "Write the settings file for an install root",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg := &config.Config{
				InstallRoot:    args[0],
				PackagesFolder: setupPackagesDir,
				LogLevel:       logLevel,
			}

			return config.Save(setupConfigPath, cfg)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	setupCmd.Flags().StringVarP(&setupConfigPath,
		"config", "c", config.DefaultConfigFilename, "path to configuration file")
	setupCmd.Flags().StringVarP(&setupPackagesDir,
		"packages-dir", "p", "", "packages folder (defaults to <install-root>/packages)")

	rootCmd.AddCommand(setupCmd)
}
