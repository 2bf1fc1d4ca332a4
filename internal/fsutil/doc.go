// Package fsutil wraps filesystem operations that may fail transiently
// (sharing violations, files briefly locked by scanners) in a bounded
// constant-delay retry loop. Permission and missing-path errors are never
// retried.
package fsutil
