package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// maxRetries bounds how many times a transient failure is retried.
	maxRetries = 5

	// retryDelay is the pause between retry attempts.
	retryDelay = 100 * time.Millisecond
)

// Retry runs op, retrying transient filesystem failures (locked files, brief
// unavailability) a bounded number of times with a short constant delay.
// Missing-path and permission errors are treated as permanent and surface
// immediately.
func Retry(op func() error) error {
	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(retryDelay), maxRetries)

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}

		if isPermanent(err) {
			return backoff.Permanent(err)
		}

		return err
	}, policy)
}

// isPermanent reports whether the error class cannot be fixed by waiting.
func isPermanent(err error) bool {
	return errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, os.ErrInvalid)
}

// OpenFile opens the file for reading, retrying transient failures.
func OpenFile(path string) (*os.File, error) {
	var file *os.File

	err := Retry(func() error {
		var openErr error

		file, openErr = os.Open(filepath.Clean(path))

		return openErr
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return file, nil
}

// MkdirAll creates the directory and any missing parents, retrying transient failures.
func MkdirAll(path string, perm os.FileMode) error {
	if err := Retry(func() error {
		return os.MkdirAll(path, perm)
	}); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}

	return nil
}

// WriteFile writes data to the path, retrying transient failures.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := Retry(func() error {
		return os.WriteFile(path, data, perm)
	}); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// CopyFile copies src to dst verbatim, retrying transient failures.
// Each attempt restarts the copy from the beginning.
func CopyFile(src, dst string, perm os.FileMode) error {
	if err := Retry(func() error {
		return copyOnce(src, dst, perm)
	}); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}

	return nil
}

// copyOnce performs a single copy attempt.
func copyOnce(src, dst string, perm os.FileMode) error {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}

	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(filepath.Clean(dst), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()

		return err
	}

	return out.Close()
}
