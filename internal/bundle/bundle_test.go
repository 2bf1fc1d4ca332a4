package bundle

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testManifest = `<?xml version="1.0" encoding="utf-8"?>
<package>
  <metadata>
    <id>MyCoolApp</id>
    <version>1.2.3</version>
    <authors>Example Corp</authors>
    <mainExe>MyCoolApp.exe</mainExe>
  </metadata>
</package>`

// zipEntry is one named file to place into a test bundle, in order.
type zipEntry struct {
	name string
	body string
	dir  bool
}

// buildZip renders the entries into an in-memory zip archive.
func buildZip(t *testing.T, entries []zipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer

	w := zip.NewWriter(&buf)
	for _, e := range entries {
		if e.dir {
			_, err := w.Create(e.name)
			require.NoError(t, err)

			continue
		}

		f, err := w.Create(e.name)
		require.NoError(t, err)

		_, err = f.Write([]byte(e.body))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())

	return buf.Bytes()
}

// payloadEntries is a representative bundle layout: manifest, updater,
// content files, an obsolete stub, a directory entry and an out-of-root file.
func payloadEntries() []zipEntry {
	return []zipEntry{
		{name: "MyCoolApp.nuspec", body: testManifest},
		{name: "lib/net45/", dir: true},
		{name: "lib/net45/MyCoolApp.exe", body: "main executable"},
		{name: "lib/net45/assets/strings.json", body: `{"hello":"world"}`},
		{name: "lib/net45/MyCoolApp_ExecutionStub.exe", body: "obsolete stub"},
		{name: "lib/net45/Squirrel.exe", body: "self updater"},
		{name: "README.md", body: "not payload"},
	}
}

// TestReadManifest decodes the nuspec entry of a memory-backed bundle.
func TestReadManifest(t *testing.T) {
	t.Parallel()

	b, err := FromBytes(buildZip(t, payloadEntries()))
	require.NoError(t, err)

	defer func() {
		require.NoError(t, b.Close())
	}()

	m, err := b.ReadManifest()
	require.NoError(t, err)
	require.Equal(t, "MyCoolApp", m.ID)
	require.Equal(t, "1.2.3", m.Version.String())
	require.Equal(t, "MyCoolApp.exe", m.MainExe)
}

// TestReadManifest_Missing reports a user-facing error for a manifest-less bundle.
func TestReadManifest_Missing(t *testing.T) {
	t.Parallel()

	b, err := FromBytes(buildZip(t, []zipEntry{
		{name: "lib/net45/MyCoolApp.exe", body: "main executable"},
	}))
	require.NoError(t, err)

	_, err = b.ReadManifest()
	require.ErrorIs(t, err, ErrMissingManifest)
}

// TestExtractPayload unpacks content files, skips everything else and
// reports monotonic progress once per entry.
func TestExtractPayload(t *testing.T) {
	t.Parallel()

	entries := payloadEntries()

	b, err := FromBytes(buildZip(t, entries))
	require.NoError(t, err)

	root := t.TempDir()

	var percents []int

	err = b.ExtractPayload(context.Background(), root, func(percent int) error {
		percents = append(percents, percent)
		return nil
	})
	require.NoError(t, err)

	// Content files, plus the manifest copy as the version marker.
	require.FileExists(t, filepath.Join(root, "MyCoolApp.exe"))
	require.FileExists(t, filepath.Join(root, "assets", "strings.json"))
	require.FileExists(t, filepath.Join(root, "sq.version"))

	marker, err := os.ReadFile(filepath.Join(root, "sq.version"))
	require.NoError(t, err)
	require.Equal(t, testManifest, string(marker))

	// Skipped: the self-updater, the stub and anything outside lib/<dir>/.
	require.NoFileExists(t, filepath.Join(root, "Squirrel.exe"))
	require.NoFileExists(t, filepath.Join(root, "MyCoolApp_ExecutionStub.exe"))
	require.NoFileExists(t, filepath.Join(root, "README.md"))
	require.NoFileExists(t, filepath.Join(root, "MyCoolApp.nuspec"))

	// One callback per entry, non-decreasing, strictly below 100.
	require.Len(t, percents, len(entries))

	last := -1
	for _, p := range percents {
		require.GreaterOrEqual(t, p, last)
		require.Less(t, p, 100)

		last = p
	}
}

// TestExtractPayload_NestedLibFolder keeps lib/ directories that appear
// deeper in an entry path: only the leading lib/<dir>/ segment is stripped.
func TestExtractPayload_NestedLibFolder(t *testing.T) {
	t.Parallel()

	b, err := FromBytes(buildZip(t, []zipEntry{
		{name: "MyCoolApp.nuspec", body: testManifest},
		{name: "lib/net45/lib/v2/data.bin", body: "payload"},
	}))
	require.NoError(t, err)

	root := t.TempDir()
	require.NoError(t, b.ExtractPayload(context.Background(), root, nil))

	require.FileExists(t, filepath.Join(root, "lib", "v2", "data.bin"))
	require.NoFileExists(t, filepath.Join(root, "data.bin"))
}

// TestExtractPayload_MissingManifest fails before writing any content file.
func TestExtractPayload_MissingManifest(t *testing.T) {
	t.Parallel()

	b, err := FromBytes(buildZip(t, []zipEntry{
		{name: "lib/net45/MyCoolApp.exe", body: "main executable"},
	}))
	require.NoError(t, err)

	root := t.TempDir()

	err = b.ExtractPayload(context.Background(), root, nil)
	require.Error(t, err)
	require.NoFileExists(t, filepath.Join(root, "MyCoolApp.exe"))
	require.NoFileExists(t, filepath.Join(root, "sq.version"))
}

// TestExtractPayload_CallbackAbort propagates a cancellation raised from the
// progress callback as an extraction error.
func TestExtractPayload_CallbackAbort(t *testing.T) {
	t.Parallel()

	b, err := FromBytes(buildZip(t, payloadEntries()))
	require.NoError(t, err)

	errStop := errors.New("stop requested")

	err = b.ExtractPayload(context.Background(), t.TempDir(), func(int) error {
		return errStop
	})
	require.ErrorIs(t, err, errStop)
}

// TestSplashBytes covers present, absent and empty splash entries.
func TestSplashBytes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	b, err := FromBytes(buildZip(t, []zipEntry{
		{name: "MyCoolApp.nuspec", body: testManifest},
		{name: "splashimage.png", body: "png bytes"},
	}))
	require.NoError(t, err)
	require.Equal(t, []byte("png bytes"), b.SplashBytes(ctx))

	b, err = FromBytes(buildZip(t, []zipEntry{
		{name: "MyCoolApp.nuspec", body: testManifest},
	}))
	require.NoError(t, err)
	require.Nil(t, b.SplashBytes(ctx))

	b, err = FromBytes(buildZip(t, []zipEntry{
		{name: "splashimage.png", body: ""},
	}))
	require.NoError(t, err)
	require.Nil(t, b.SplashBytes(ctx))
}

// TestCalculateSize sums entry sizes across the archive.
func TestCalculateSize(t *testing.T) {
	t.Parallel()

	b, err := FromBytes(buildZip(t, []zipEntry{
		{name: "a.txt", body: "aaaa"},
		{name: "b.txt", body: "bbbbbb"},
	}))
	require.NoError(t, err)

	compressed, uncompressed := b.CalculateSize()
	require.Equal(t, uint64(10), uncompressed)
	require.NotZero(t, compressed)
}

// TestEntryEnumeration checks Len, FileNames order and FindEntry.
func TestEntryEnumeration(t *testing.T) {
	t.Parallel()

	entries := payloadEntries()

	b, err := FromBytes(buildZip(t, entries))
	require.NoError(t, err)
	require.Equal(t, len(entries), b.Len())

	names, err := b.FileNames()
	require.NoError(t, err)
	require.Len(t, names, len(entries))

	for i, e := range entries {
		require.Equal(t, e.name, names[i])
	}

	index, found := b.FindEntry(isManifestEntry)
	require.True(t, found)
	require.Equal(t, 0, index)

	_, found = b.FindEntry(func(name string) bool { return name == "nope" })
	require.False(t, found)
}

// TestExtractMatching_NotFound reports a descriptive error when nothing matches.
func TestExtractMatching_NotFound(t *testing.T) {
	t.Parallel()

	b, err := FromBytes(buildZip(t, payloadEntries()))
	require.NoError(t, err)

	_, err = b.ExtractMatching(context.Background(), func(string) bool { return false }, filepath.Join(t.TempDir(), "out"))
	require.ErrorIs(t, err, errEntryNotFound)
}

// TestOpenAndCopyTo exercises the file-backed constructor and verbatim copy.
func TestOpenAndCopyTo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	raw := buildZip(t, payloadEntries())

	dir := t.TempDir()
	src := filepath.Join(dir, "MyCoolApp-1.2.3-full.nupkg")
	require.NoError(t, os.WriteFile(src, raw, 0o600))

	b, err := Open(ctx, src)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, b.Close())
	}()

	require.Equal(t, len(payloadEntries()), b.Len())

	dst := filepath.Join(dir, "copy.nupkg")
	require.NoError(t, b.CopyTo(ctx, dst))

	copied, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, raw, copied)
}

// TestCopyTo_MemoryBacked re-serializes the retained byte range.
func TestCopyTo_MemoryBacked(t *testing.T) {
	t.Parallel()

	raw := buildZip(t, payloadEntries())

	b, err := FromBytes(raw)
	require.NoError(t, err)

	dst := filepath.Join(t.TempDir(), "copy.nupkg")
	require.NoError(t, b.CopyTo(context.Background(), dst))

	copied, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, raw, copied)
}

// TestOpen_MissingFile surfaces a not-found error without retry delays.
func TestOpen_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing.nupkg"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestFromBytes_NotAnArchive rejects garbage input.
func TestFromBytes_NotAnArchive(t *testing.T) {
	t.Parallel()

	_, err := FromBytes([]byte("definitely not a zip"))
	require.Error(t, err)
}
