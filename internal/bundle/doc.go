// Package bundle provides read-only access to a package archive: locating
// entries by predicate, decoding the embedded manifest, selective and bulk
// extraction with progress reporting, and verbatim copies of the original
// artifact. A bundle may be backed by a file on disk or an in-memory byte
// range; everything else depends only on the archive index.
package bundle
