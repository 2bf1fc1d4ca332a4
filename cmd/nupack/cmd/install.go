package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/oshokin/nupack/internal/config"
	"github.com/oshokin/nupack/internal/service/installer"
)

var (
	// installConfigPath to the configuration YAML file.
	installConfigPath string

	// installRoot overrides the install root from the settings file.
	installRoot string

	// installCmd unpacks a full package bundle into the install root.
	installCmd = &cobra.Command{
		Use:   "install <bundle>",
		Short: "Install a full package bundle into the install root",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			root := installRoot
			if root == "" {
				cfg, err := config.Load(installConfigPath)
				if err != nil {
					return err
				}

				root = cfg.InstallRoot
			}

			bar := progressbar.NewOptions(100,
				progressbar.OptionFullWidth(),
				progressbar.OptionSetDescription("installing"),
				progressbar.OptionShowCount(),
				progressbar.OptionThrottle(100*time.Millisecond),
			)

			options := &installer.Options{
				BundlePath:  args[0],
				InstallRoot: root,
				Progress: func(percent int) error {
					if err := ctx.Err(); err != nil {
						return err
					}

					return bar.Set(percent)
				},
			}

			if err := installer.Run(ctx, options); err != nil {
				return err
			}

			return bar.Finish()
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	installCmd.Flags().StringVarP(&installConfigPath,
		"config", "c", config.DefaultConfigFilename, "path to configuration file")
	installCmd.Flags().StringVarP(&installRoot,
		"root", "r", "", "install root (overrides the configuration file)")

	rootCmd.AddCommand(installCmd)
}
