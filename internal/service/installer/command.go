package installer

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/nupack/internal/bundle"
	"github.com/oshokin/nupack/internal/fsutil"
	"github.com/oshokin/nupack/internal/logger"
)

var (
	errBundlePathRequired  = errors.New("bundle path must be provided")
	errInstallRootRequired = errors.New("install root must be provided")
)

// directoryPermissions is used for the install layout directories.
const directoryPermissions = 0o755

// Options are inputs accepted by the installer entry point.
type Options struct {
	// BundlePath is the full package artifact to install.
	BundlePath string
	// InstallRoot is the directory under which the application is laid out.
	InstallRoot string
	// Progress receives integer percentages during payload extraction. It
	// may be nil. Returning a non-nil error aborts the installation.
	Progress func(percent int) error
}

// Run installs a bundle: it unpacks the payload into the current directory,
// keeps a verbatim copy of the package next to it for later delta
// computation, and registers the uninstall entry where the OS supports one.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "installer")

	if opts == nil || opts.BundlePath == "" {
		return errBundlePathRequired
	}

	if opts.InstallRoot == "" {
		return errInstallRootRequired
	}

	b, err := bundle.Open(ctx, opts.BundlePath)
	if err != nil {
		return err
	}

	defer func() {
		_ = b.Close()
	}()

	m, err := b.ReadManifest()
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Installing package",
		"id", m.ID, "version", m.Version.String(), "title", m.Title)

	currentPath := m.CurrentPath(opts.InstallRoot)
	if err = fsutil.MkdirAll(currentPath, directoryPermissions); err != nil {
		return err
	}

	if err = b.ExtractPayload(ctx, currentPath, opts.Progress); err != nil {
		return fmt.Errorf("extract payload: %w", err)
	}

	// Keep the original artifact for later delta-patch base computation.
	packagesPath := m.PackagesPath(opts.InstallRoot)
	if err = fsutil.MkdirAll(packagesPath, directoryPermissions); err != nil {
		return err
	}

	targetPackage := m.TargetPackagePath(opts.InstallRoot)
	if err = b.CopyTo(ctx, targetPackage); err != nil {
		return fmt.Errorf("store package copy: %w", err)
	}

	if err = m.WriteUninstallEntry(opts.InstallRoot); err != nil {
		return fmt.Errorf("write uninstall entry: %w", err)
	}

	logger.InfoKV(ctx, "Package installed",
		"id", m.ID, "version", m.Version.String(), "root", opts.InstallRoot)

	return nil
}
