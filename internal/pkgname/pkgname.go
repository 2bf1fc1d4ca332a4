package pkgname

import (
	"path/filepath"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// Grammar pieces, compiled once. The version-start anchor deliberately takes
// the first qualifying major.minor pair in the stripped filename; downstream
// tooling depends on that boundary, so it must not be changed to last-match.
var (
	suffixFull   = regexp.MustCompile(`(?i)-full\.nupkg$`)
	suffixDelta  = regexp.MustCompile(`(?i)-delta\.nupkg$`)
	versionStart = regexp.MustCompile(`[\.-](0|[1-9]\d*)\.(0|[1-9]\d*)($|[^\d])`)
	ridSuffix    = regexp.MustCompile(`(?i)(-(?P<os>osx|win)\.?(?P<ver>[\d\.]+)?)?(?:-(?P<arch>x64|x86|arm64))?$`)
)

// Submatch positions within ridSuffix, resolved once.
var (
	ridOSIndex   = ridSuffix.SubexpIndex("os")
	ridVerIndex  = ridSuffix.SubexpIndex("ver")
	ridArchIndex = ridSuffix.SubexpIndex("arch")
)

// FileNameInfo carries the package metadata encoded in a release artifact's
// filename: <name>[-.]<version>[-<os><osver>][-<arch>]-{full|delta}.nupkg.
type FileNameInfo struct {
	// Name is the package identifier portion of the filename.
	Name string
	// Version is the embedded semantic version, including any prerelease part.
	Version *semver.Version
	// IsDelta is true for differential packages, false for full ones.
	IsDelta bool
	// OS is the optional runtime OS tag ("win" or "osx"), empty when absent.
	OS string
	// OSMinVersion is the optional minimum OS version run after the OS tag.
	OSMinVersion string
	// Arch is the optional architecture tag (x64, x86 or arm64), empty when absent.
	Arch string
	// SourcePath is the originating filesystem path. It is populated by
	// ParsePath, not by the grammar itself.
	SourcePath string
}

// Parse extracts package metadata from a release artifact filename.
// It returns false when the name does not match the full grammar: a
// case-insensitive -full.nupkg or -delta.nupkg suffix, a strict
// major.minor version anchor and a valid semantic version.
func Parse(fileName string) (*FileNameInfo, bool) {
	full := suffixFull.MatchString(fileName)
	delta := suffixDelta.MatchString(fileName)

	if !full && !delta {
		return nil, false
	}

	var nameAndVer string
	if full {
		nameAndVer = suffixFull.ReplaceAllString(fileName, "")
	} else {
		nameAndVer = suffixDelta.ReplaceAllString(fileName, "")
	}

	anchor := versionStart.FindStringIndex(nameAndVer)
	if anchor == nil {
		return nil, false
	}

	info := &FileNameInfo{
		Name:    nameAndVer[:anchor[0]],
		IsDelta: delta,
	}

	// Skip the anchor delimiter; the rest is version text plus an optional
	// trailing RID group.
	verAndRID := nameAndVer[anchor[0]+1:]

	// The RID pattern is fully optional and anchored to the end, so it always
	// matches (possibly zero-length at the very end of the string).
	rid := ridSuffix.FindStringSubmatchIndex(verAndRID)

	version, err := semver.StrictNewVersion(verAndRID[:rid[0]])
	if err != nil {
		return nil, false
	}

	info.Version = version
	info.OS = submatch(verAndRID, rid, ridOSIndex)
	info.OSMinVersion = submatch(verAndRID, rid, ridVerIndex)
	info.Arch = submatch(verAndRID, rid, ridArchIndex)

	return info, true
}

// ParsePath parses the base name of the provided path and records the path
// itself as the artifact's source.
func ParsePath(path string) (*FileNameInfo, bool) {
	info, ok := Parse(filepath.Base(path))
	if !ok {
		return nil, false
	}

	info.SourcePath = path

	return info, true
}

// submatch returns the captured text of group n, or "" when it did not participate.
func submatch(s string, idx []int, n int) string {
	if n < 0 || idx[2*n] < 0 {
		return ""
	}

	return s[idx[2*n]:idx[2*n+1]]
}
