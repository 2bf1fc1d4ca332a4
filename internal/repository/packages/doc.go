// Package packages indexes a directory of release artifacts (*.nupkg) by
// parsing their filenames, without opening each archive. It answers "which
// versions are available" and "which full package is newest" for the
// installer's planning layer.
package packages
