// Package pkgname parses release artifact filenames of the form
// <name>[-.]<major>.<minor>.<patch>[-<prerelease>][-<os>[<osver>]][-<arch>]-{full|delta}.nupkg
// into structured metadata. Parsing is pure string work with no I/O, so a
// directory of artifacts can be indexed without opening each archive.
package pkgname
