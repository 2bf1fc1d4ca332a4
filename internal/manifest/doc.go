// Package manifest models the package manifest (nuspec) embedded in a
// bundle: a streaming XML decoder with required-field validation, canonical
// install-time path computation, and the OS-conditional uninstall
// registration helpers.
package manifest
