package inspector

import (
	"context"
	"errors"

	"github.com/oshokin/nupack/internal/bundle"
	"github.com/oshokin/nupack/internal/logger"
	"github.com/oshokin/nupack/internal/manifest"
)

var errBundlePathRequired = errors.New("bundle path must be provided")

// Options are inputs accepted by the inspector entry point.
type Options struct {
	// BundlePath is the package artifact to inspect.
	BundlePath string
}

// Report summarizes a bundle without extracting it.
type Report struct {
	// Manifest is the decoded, validated package manifest.
	Manifest *manifest.Manifest
	// EntryCount is the number of entries in the archive.
	EntryCount int
	// CompressedSize and UncompressedSize are best-effort byte totals.
	CompressedSize   uint64
	UncompressedSize uint64
	// HasSplash reports whether a usable splash image is present.
	HasSplash bool
}

// Run opens a bundle, validates its manifest and returns a summary.
func Run(ctx context.Context, opts *Options) (*Report, error) {
	ctx = logger.WithName(ctx, "inspector")

	if opts == nil || opts.BundlePath == "" {
		return nil, errBundlePathRequired
	}

	b, err := bundle.Open(ctx, opts.BundlePath)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = b.Close()
	}()

	m, err := b.ReadManifest()
	if err != nil {
		return nil, err
	}

	compressed, uncompressed := b.CalculateSize()

	report := &Report{
		Manifest:         m,
		EntryCount:       b.Len(),
		CompressedSize:   compressed,
		UncompressedSize: uncompressed,
		HasSplash:        len(b.SplashBytes(ctx)) > 0,
	}

	logger.InfoKV(ctx, "Inspected bundle",
		"id", m.ID,
		"version", m.Version.String(),
		"entries", report.EntryCount,
		"uncompressed_bytes", report.UncompressedSize)

	return report, nil
}
