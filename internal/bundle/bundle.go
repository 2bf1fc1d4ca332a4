package bundle

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/oshokin/nupack/internal/fsutil"
	"github.com/oshokin/nupack/internal/logger"
	"github.com/oshokin/nupack/internal/manifest"
)

// Well-known entry names within a bundle.
const (
	// manifestSuffix marks the package manifest entry at the bundle root.
	manifestSuffix = ".nuspec"
	// updaterSuffix marks the self-updater binary, which is handled by the
	// installer separately and never extracted with the payload.
	updaterSuffix = "Squirrel.exe"
	// splashNameToken marks the optional, purely cosmetic splash image.
	splashNameToken = "splashimage"

	// defaultDirPerm and defaultFilePerm are used for extracted content.
	defaultDirPerm  os.FileMode = 0o755
	defaultFilePerm os.FileMode = 0o644
)

// Content-root and obsolete-artifact patterns, compiled once.
var (
	// libPrefix matches the lib/<single-path-segment>/ content root; only
	// entries under it are installable payload.
	libPrefix = regexp.MustCompile(`lib[\\/][^\\/]*[\\/]`)
	// stubSuffix matches deprecated execution-stub artifacts, always skipped.
	stubSuffix = regexp.MustCompile(`_ExecutionStub\.exe$`)
)

var (
	// ErrMissingManifest is returned when a bundle has no nuspec entry.
	ErrMissingManifest = errors.New("this installer is missing a package manifest (.nuspec), please contact the application author")
	// errEntryNotFound is returned when no entry satisfies a predicate.
	errEntryNotFound = errors.New("could not find file in bundle")
	// errEntryIndex is returned for an out-of-range entry index.
	errEntryIndex = errors.New("entry index out of range")
)

// Bundle is an exclusive, read-only handle over one package archive. It is
// backed either by a file on disk (remembering its path for verbatim copies)
// or by an in-memory byte range. Concurrent use from multiple goroutines is
// not supported; callers must serialize access.
type Bundle struct {
	reader *zip.Reader
	// file is the open backing file; nil for memory-backed bundles.
	file *os.File
	// path is the backing file path; empty for memory-backed bundles.
	path string
	// data is the retained byte range; nil for file-backed bundles.
	data []byte
}

// Open loads a bundle from a file on disk. The open is retried on transient
// failures and the path is remembered so the original artifact can later be
// copied verbatim next to the unpacked install.
func Open(ctx context.Context, path string) (*Bundle, error) {
	logger.Debugf(ctx, "Loading bundle from file %q", path)

	file, err := fsutil.OpenFile(path)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()

		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	reader, err := zip.NewReader(file, info.Size())
	if err != nil {
		_ = file.Close()

		return nil, fmt.Errorf("read bundle %s: %w", path, err)
	}

	return &Bundle{
		reader: reader,
		file:   file,
		path:   path,
	}, nil
}

// FromBytes wraps an in-memory byte range as a bundle. The range is retained
// for the lifetime of the handle so it can be re-serialized verbatim.
func FromBytes(data []byte) (*Bundle, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read bundle from memory: %w", err)
	}

	return &Bundle{
		reader: reader,
		data:   data,
	}, nil
}

// Close releases the backing file, if any.
func (b *Bundle) Close() error {
	if b.file == nil {
		return nil
	}

	return b.file.Close()
}

// Len returns the number of entries in the bundle.
func (b *Bundle) Len() int {
	return len(b.reader.File)
}

// FileNames returns the names of all entries in archive order.
// The list is complete or the call fails; there is no partial result.
func (b *Bundle) FileNames() ([]string, error) {
	names := make([]string, 0, len(b.reader.File))
	for _, f := range b.reader.File {
		names = append(names, f.Name)
	}

	return names, nil
}

// CalculateSize sums compressed and uncompressed sizes across all readable
// entries. It is a best-effort estimate: entries whose headers cannot be
// interpreted are excluded rather than failing the call.
func (b *Bundle) CalculateSize() (compressed, uncompressed uint64) {
	for _, f := range b.reader.File {
		compressed += f.CompressedSize64
		uncompressed += f.UncompressedSize64
	}

	return compressed, uncompressed
}

// FindEntry returns the index of the first entry, in archive order, whose
// name satisfies the predicate.
func (b *Bundle) FindEntry(predicate func(name string) bool) (int, bool) {
	for i, f := range b.reader.File {
		if predicate(f.Name) {
			return i, true
		}
	}

	return 0, false
}

// ExtractEntry reads the entry at index fully into memory and writes it to
// the destination path, creating missing parent directories. Directory
// creation and the final write are retried on transient failures.
func (b *Bundle) ExtractEntry(ctx context.Context, index int, destination string) error {
	logger.Debugf(ctx, "Extracting bundle entry to path: %s", destination)

	if index < 0 || index >= len(b.reader.File) {
		return fmt.Errorf("extract to %s: %w", destination, errEntryIndex)
	}

	if err := fsutil.MkdirAll(filepath.Dir(destination), defaultDirPerm); err != nil {
		return fmt.Errorf("extract to %s: %w", destination, err)
	}

	contents, err := b.readEntry(index)
	if err != nil {
		return fmt.Errorf("extract to %s: %w", destination, err)
	}

	if err = fsutil.WriteFile(destination, contents, defaultFilePerm); err != nil {
		return fmt.Errorf("extract to %s: %w", destination, err)
	}

	return nil
}

// ExtractMatching extracts the first entry satisfying the predicate to the
// destination and returns its index. It fails when no entry matches.
func (b *Bundle) ExtractMatching(ctx context.Context, predicate func(name string) bool, destination string) (int, error) {
	index, found := b.FindEntry(predicate)
	if !found {
		return 0, errEntryNotFound
	}

	if err := b.ExtractEntry(ctx, index, destination); err != nil {
		return 0, err
	}

	return index, nil
}

// ReadManifest locates the nuspec entry, decodes it and returns the
// validated manifest. A bundle without a nuspec entry is rejected with a
// user-facing error.
func (b *Bundle) ReadManifest() (*manifest.Manifest, error) {
	index, found := b.FindEntry(isManifestEntry)
	if !found {
		return nil, ErrMissingManifest
	}

	contents, err := b.readEntry(index)
	if err != nil {
		return nil, fmt.Errorf("read package manifest: %w", err)
	}

	return manifest.Decode(string(contents))
}

// SplashBytes returns the splash image contents, or nil when the bundle has
// none. The splash is cosmetic: any failure (entry absent, unreadable or
// empty) degrades to nil rather than an error so it can never block an
// installation.
func (b *Bundle) SplashBytes(ctx context.Context) []byte {
	index, found := b.FindEntry(func(name string) bool {
		return strings.Contains(name, splashNameToken)
	})
	if !found {
		logger.Warn(ctx, "Could not find splash image in bundle")
		return nil
	}

	contents, err := b.readEntry(index)
	if err != nil || len(contents) == 0 {
		logger.Warn(ctx, "Could not read splash image from bundle")
		return nil
	}

	return contents
}

// ExtractPayload unpacks the bundle's installable content under targetRoot.
//
// The nuspec entry is extracted first as the version marker; a bundle
// without one fails before any content file is written. The self-updater
// entry, entries outside the lib/<dir>/ content root, directory entries and
// obsolete execution stubs are skipped with a log line only. Every entry,
// skipped or extracted, advances the progress callback with an integer
// percentage in [0,100); a non-nil callback error aborts the extraction.
func (b *Bundle) ExtractPayload(ctx context.Context, targetRoot string, progress func(percent int) error) error {
	names, err := b.FileNames()
	if err != nil {
		return err
	}

	total := len(names)
	logger.Infof(ctx, "Extracting %d app files to current directory...", total)

	markerPath := filepath.Join(targetRoot, manifest.VersionMarkerName)
	if _, err = b.ExtractMatching(ctx, isManifestEntry, markerPath); err != nil {
		return fmt.Errorf("this package is missing a nuspec manifest: %w", err)
	}

	updaterIndex, hasUpdater := b.FindEntry(func(name string) bool {
		return strings.HasSuffix(name, updaterSuffix)
	})

	for i, name := range names {
		if err = b.extractPayloadEntry(ctx, i, name, targetRoot, hasUpdater && i == updaterIndex); err != nil {
			return err
		}

		if progress != nil {
			if err = progress(i * 100 / total); err != nil {
				return fmt.Errorf("extraction canceled at %q: %w", name, err)
			}
		}
	}

	return nil
}

// extractPayloadEntry extracts one content entry, or logs why it is skipped.
func (b *Bundle) extractPayloadEntry(ctx context.Context, index int, name, targetRoot string, isUpdater bool) error {
	if isUpdater || !libPrefix.MatchString(name) ||
		strings.HasSuffix(name, "/") || strings.HasSuffix(name, `\`) {
		logger.Infof(ctx, "    %d Skipped %q", index, name)
		return nil
	}

	// Strip only the first lib/<dir>/ segment; deeper lib/ folders are
	// legitimate payload paths.
	loc := libPrefix.FindStringIndex(name)
	relative := name[:loc[0]] + name[loc[1]:]

	if stubSuffix.MatchString(relative) {
		logger.Infof(ctx, "    %d Skipped Stub (obsolete) %q", index, name)
		return nil
	}

	destination := filepath.Join(targetRoot, filepath.FromSlash(relative))
	logger.Infof(ctx, "    %d Extracting %q to %q", index, name, destination)

	return b.ExtractEntry(ctx, index, destination)
}

// CopyTo writes the original bundle verbatim to the destination: file-backed
// bundles copy the backing file, memory-backed ones write the retained bytes.
func (b *Bundle) CopyTo(ctx context.Context, destination string) error {
	logger.Debugf(ctx, "Copying bundle to %q", destination)

	if b.path != "" {
		return fsutil.CopyFile(b.path, destination, defaultFilePerm)
	}

	return fsutil.WriteFile(destination, b.data, defaultFilePerm)
}

// readEntry reads the entry at index fully into memory.
func (b *Bundle) readEntry(index int) ([]byte, error) {
	entry := b.reader.File[index]

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %s: %w", entry.Name, err)
	}

	defer func() {
		_ = rc.Close()
	}()

	contents, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read entry %s: %w", entry.Name, err)
	}

	return contents, nil
}

// isManifestEntry matches the package manifest entry.
func isManifestEntry(name string) bool {
	return strings.HasSuffix(name, manifestSuffix)
}
