package manifest

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Manifest describes a package: identity, version and entry point. It is
// decoded from the nuspec XML document at the root of a bundle and is
// immutable once returned by Decode.
type Manifest struct {
	// ID is the unique package identifier.
	ID string
	// Version is the package's semantic version.
	Version *semver.Version
	// Title is the human-readable name; defaults to ID when absent.
	Title string
	// Authors is the publisher string shown in uninstall registrations.
	Authors string
	// Description is free-form package text.
	Description string
	// MachineArchitecture is the declared target architecture.
	MachineArchitecture string
	// RuntimeDependencies is an opaque string interpreted by collaborators.
	RuntimeDependencies string
	// MainExe is the main executable path relative to the current directory.
	MainExe string
	// OS is empty or exactly "win".
	OS string
	// OSMinVersion is the declared minimum OS version.
	OSMinVersion string
}

// ValidationError reports an authoring mistake in the package manifest.
// Its message is suitable for direct display to an end user.
type ValidationError struct {
	// Field is the manifest field that failed validation.
	Field string
	// Message is the user-facing description of the problem.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// zeroVersion marks a manifest whose <version> element was never set.
var zeroVersion = semver.New(0, 0, 0, "", "")

// Decode parses a nuspec XML document into a validated Manifest.
//
// The scan is a single pass over the token stream with a stack of open
// element names: character data is assigned to the field matching the
// innermost open element, unknown elements are ignored for forward
// compatibility, and the last occurrence of a repeated element wins.
// A structural XML error aborts the scan; validation then runs against the
// partial result, so callers always see a field-level validation error
// rather than a raw parse error.
func Decode(xmlText string) (*Manifest, error) {
	m := &Manifest{Version: zeroVersion}
	decoder := xml.NewDecoder(strings.NewReader(xmlText))

	var open []string

	for {
		token, err := decoder.Token()
		if err != nil {
			// EOF ends the scan normally; a structural error aborts it.
			// Either way the fields filled so far go through validation below.
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			open = append(open, t.Name.Local)
		case xml.EndElement:
			if len(open) > 0 {
				open = open[:len(open)-1]
			}
		case xml.CharData:
			if len(open) == 0 {
				continue
			}

			text := string(t)
			if strings.TrimSpace(text) == "" {
				continue
			}

			if err := m.assign(open[len(open)-1], text); err != nil {
				return nil, err
			}
		}
	}

	if err := m.validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// assign stores element text into the field named by the innermost open element.
func (m *Manifest) assign(element, text string) error {
	switch element {
	case "id":
		m.ID = text
	case "version":
		version, err := semver.StrictNewVersion(text)
		if err != nil {
			return fmt.Errorf("parse manifest version %q: %w", text, err)
		}

		m.Version = version
	case "title":
		m.Title = text
	case "authors":
		m.Authors = text
	case "description":
		m.Description = text
	case "machineArchitecture":
		m.MachineArchitecture = text
	case "runtimeDependencies":
		m.RuntimeDependencies = text
	case "mainExe":
		m.MainExe = text
	case "os":
		m.OS = text
	case "osMinVersion":
		m.OSMinVersion = text
	}

	return nil
}

// validate applies the required-field checks in order; the first failure wins.
func (m *Manifest) validate() error {
	if m.ID == "" {
		return &ValidationError{
			Field:   "id",
			Message: "missing 'id' in package manifest, please contact the application author",
		}
	}

	if m.OS != "" && m.OS != "win" {
		return &ValidationError{
			Field:   "os",
			Message: fmt.Sprintf("unsupported 'os' in package manifest (%s), please contact the application author", m.OS),
		}
	}

	if m.Version == nil || m.Version.Equal(zeroVersion) {
		return &ValidationError{
			Field:   "version",
			Message: "missing 'version' in package manifest, please contact the application author",
		}
	}

	if m.MainExe == "" {
		return &ValidationError{
			Field:   "mainExe",
			Message: "missing 'mainExe' in package manifest, please contact the application author",
		}
	}

	if m.Title == "" {
		m.Title = m.ID
	}

	return nil
}
