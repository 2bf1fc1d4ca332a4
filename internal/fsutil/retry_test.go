package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRetry_TransientErrorEventuallySucceeds verifies the op is re-run until it passes.
func TestRetry_TransientErrorEventuallySucceeds(t *testing.T) {
	t.Parallel()

	attempts := 0
	errLocked := errors.New("file is locked")

	err := Retry(func() error {
		attempts++
		if attempts < 3 {
			return errLocked
		}

		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

// TestRetry_PermanentErrorNotRetried verifies missing-path errors surface immediately.
func TestRetry_PermanentErrorNotRetried(t *testing.T) {
	t.Parallel()

	attempts := 0

	err := Retry(func() error {
		attempts++

		return os.ErrNotExist
	})
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Equal(t, 1, attempts)
}

// TestRetry_ExhaustsBoundedAttempts verifies retries stop after the bound.
func TestRetry_ExhaustsBoundedAttempts(t *testing.T) {
	t.Parallel()

	attempts := 0
	errLocked := errors.New("file is locked")

	err := Retry(func() error {
		attempts++

		return errLocked
	})
	require.ErrorIs(t, err, errLocked)
	require.Equal(t, maxRetries+1, attempts)
}

// TestCopyFile_Roundtrip copies a file and compares contents.
func TestCopyFile_Roundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	want := []byte("bundle bytes")
	require.NoError(t, os.WriteFile(src, want, 0o600))

	require.NoError(t, CopyFile(src, dst, 0o600))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

// TestOpenFile_Missing surfaces a not-found error without retry delays.
func TestOpenFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.nupkg"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
