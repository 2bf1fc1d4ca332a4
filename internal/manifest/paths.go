package manifest

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// VersionMarkerName is the manifest copy written into the current directory
// during extraction; it records which build is installed.
const VersionMarkerName = "sq.version"

// UpdateExePath returns the path of the self-updater executable under the
// install root.
func (m *Manifest) UpdateExePath(root string) string {
	return filepath.Join(root, "Update.exe")
}

// MainExePath returns the path of the installed main executable, at its
// manifest-declared location relative to the current build directory.
func (m *Manifest) MainExePath(root string) string {
	if runtime.GOOS == "darwin" {
		return filepath.Join(root, "Contents", "MacOS", m.MainExe)
	}

	return filepath.Join(root, "current", m.MainExe)
}

// PackagesPath returns the directory storing full and delta package files.
// On macOS packages are staged under a conventional temporary layout keyed
// by package id; the path is computed only, never created here.
func (m *Manifest) PackagesPath(root string) string {
	if runtime.GOOS == "darwin" {
		return filepath.Join("/tmp", "nupack", m.ID, "packages")
	}

	return filepath.Join(root, "packages")
}

// CurrentPath returns the directory holding the unpacked latest build.
// On macOS the install root is the app bundle itself.
func (m *Manifest) CurrentPath(root string) string {
	if runtime.GOOS == "darwin" {
		return root
	}

	return filepath.Join(root, "current")
}

// VersionMarkerPath returns the location of the installed build's manifest copy.
func (m *Manifest) VersionMarkerPath(root string) string {
	if runtime.GOOS == "darwin" {
		return filepath.Join(root, "Contents", "MacOS", VersionMarkerName)
	}

	return filepath.Join(root, "current", VersionMarkerName)
}

// TargetPackagePath returns where the full package for this exact build is
// kept, in the canonical <id>-<version>-full.nupkg form.
func (m *Manifest) TargetPackagePath(root string) string {
	return filepath.Join(m.PackagesPath(root), fmt.Sprintf("%s-%s-full.nupkg", m.ID, m.Version))
}
