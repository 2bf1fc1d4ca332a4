// Package installer orchestrates installing one full package bundle: payload
// extraction into the current directory, a verbatim package copy into the
// packages directory, and the OS uninstall registration.
package installer
