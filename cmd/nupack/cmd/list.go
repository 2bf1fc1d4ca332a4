package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/nupack/internal/config"
	"github.com/oshokin/nupack/internal/pkgname"
	"github.com/oshokin/nupack/internal/repository/packages"
)

var (
	// listConfigPath to the configuration YAML file.
	listConfigPath string

	// listPackagesDir overrides the packages folder from the settings file.
	listPackagesDir string

	// listCmd prints the release artifacts found in the packages folder. With
	// an application id argument it prints only the latest full package.
	listCmd = &cobra.Command{
		Use:   "list [app-id]",
		Short: "List release artifacts in the packages folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			dir := listPackagesDir
			if dir == "" {
				cfg, err := config.Load(listConfigPath)
				if err != nil {
					return err
				}

				dir = cfg.PackagesFolder
			}

			repo := packages.NewDirectoryRepository(dir)
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				latest, err := repo.FindLatestFull(ctx, args[0])
				if err != nil {
					return err
				}

				fmt.Fprintln(out, formatArtifact(latest))

				return nil
			}

			infos, err := repo.List(ctx)
			if err != nil {
				return err
			}

			for _, info := range infos {
				fmt.Fprintln(out, formatArtifact(info))
			}

			return nil
		},
	}
)

// formatArtifact renders one artifact line for the list output.
func formatArtifact(info *pkgname.FileNameInfo) string {
	kind := "full"
	if info.IsDelta {
		kind = "delta"
	}

	parts := []string{info.Name, info.Version.String(), kind}

	if info.OS != "" {
		rid := info.OS
		if info.OSMinVersion != "" {
			rid += info.OSMinVersion
		}

		parts = append(parts, rid)
	}

	if info.Arch != "" {
		parts = append(parts, info.Arch)
	}

	return strings.Join(parts, "  ")
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	listCmd.Flags().StringVarP(&listConfigPath,
		"config", "c", config.DefaultConfigFilename, "path to configuration file")
	listCmd.Flags().StringVarP(&listPackagesDir,
		"dir", "d", "", "packages folder (overrides the configuration file)")

	rootCmd.AddCommand(listCmd)
}
