package packages

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oshokin/nupack/internal/bundle"
	"github.com/oshokin/nupack/internal/logger"
	"github.com/oshokin/nupack/internal/manifest"
	"github.com/oshokin/nupack/internal/pkgname"
)

// Repository defines lookup operations over stored release artifacts.
type Repository interface {
	List(ctx context.Context) ([]*pkgname.FileNameInfo, error)
	FindLatestFull(ctx context.Context, name string) (*pkgname.FileNameInfo, error)
}

// DirectoryRepository indexes a packages directory by parsing artifact
// filenames; archives are never opened during listing.
type DirectoryRepository struct {
	// path is the directory scanned for *.nupkg artifacts.
	path string
}

// ErrNotFound is returned when no artifact satisfies a lookup.
var ErrNotFound = errors.New("package not found")

// NewDirectoryRepository creates a repository over the provided directory.
func NewDirectoryRepository(path string) *DirectoryRepository {
	return &DirectoryRepository{
		path: filepath.Clean(path),
	}
}

// List returns all recognized release artifacts in the directory, sorted by
// ascending semantic version. Files whose names do not match the release
// grammar are skipped with a debug log line.
func (r *DirectoryRepository) List(ctx context.Context) ([]*pkgname.FileNameInfo, error) {
	entries, err := os.ReadDir(r.path)
	if err != nil {
		return nil, fmt.Errorf("read packages directory: %w", err)
	}

	infos := make([]*pkgname.FileNameInfo, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, ok := pkgname.ParsePath(filepath.Join(r.path, entry.Name()))
		if !ok {
			logger.Debugf(ctx, "Skipping non-package file %q", entry.Name())
			continue
		}

		infos = append(infos, info)
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].Version.LessThan(infos[j].Version)
	})

	return infos, nil
}

// FindLatestFull returns the newest full (non-delta) artifact for the named
// package. The name comparison is case-insensitive, matching the grammar's
// treatment of the rest of the filename.
func (r *DirectoryRepository) FindLatestFull(ctx context.Context, name string) (*pkgname.FileNameInfo, error) {
	infos, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var latest *pkgname.FileNameInfo

	for _, info := range infos {
		if info.IsDelta || !strings.EqualFold(info.Name, name) {
			continue
		}

		// List is version-ascending, so the last match is the newest.
		latest = info
	}

	if latest == nil {
		return nil, fmt.Errorf("full package for %s: %w", name, ErrNotFound)
	}

	return latest, nil
}

// LoadManifest opens the artifact behind an indexed entry and decodes its
// package manifest.
func (r *DirectoryRepository) LoadManifest(ctx context.Context, info *pkgname.FileNameInfo) (*manifest.Manifest, error) {
	b, err := bundle.Open(ctx, info.SourcePath)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = b.Close()
	}()

	return b.ReadManifest()
}
