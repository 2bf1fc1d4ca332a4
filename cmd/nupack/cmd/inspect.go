package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/nupack/internal/service/inspector"
)

// inspectCmd summarizes a bundle without extracting it.
var inspectCmd = &cobra.Command{
	Use:   "inspect <bundle>",
	Short: "Show the manifest and contents summary of a package bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		report, err := inspector.Run(ctx, &inspector.Options{BundlePath: args[0]})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		m := report.Manifest

		fmt.Fprintf(out, "id:           %s\n", m.ID)
		fmt.Fprintf(out, "version:      %s\n", m.Version)
		fmt.Fprintf(out, "title:        %s\n", m.Title)

		if m.Authors != "" {
			fmt.Fprintf(out, "authors:      %s\n", m.Authors)
		}

		fmt.Fprintf(out, "main exe:     %s\n", m.MainExe)
		fmt.Fprintf(out, "os:           %s", m.OS)

		if m.OSMinVersion != "" {
			fmt.Fprintf(out, " >= %s", m.OSMinVersion)
		}

		fmt.Fprintln(out)

		if m.MachineArchitecture != "" {
			fmt.Fprintf(out, "architecture: %s\n", m.MachineArchitecture)
		}

		fmt.Fprintf(out, "entries:      %d\n", report.EntryCount)
		fmt.Fprintf(out, "compressed:   %d bytes\n", report.CompressedSize)
		fmt.Fprintf(out, "uncompressed: %d bytes\n", report.UncompressedSize)
		fmt.Fprintf(out, "splash image: %t\n", report.HasSplash)

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(inspectCmd)
}
