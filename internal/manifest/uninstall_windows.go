//go:build windows

package manifest

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"golang.org/x/sys/windows/registry"
)

// uninstallKeyPath is the per-user uninstall registration root.
const uninstallKeyPath = `Software\Microsoft\Windows\CurrentVersion\Uninstall`

// WriteUninstallEntry creates or overwrites the uninstall registration for
// this package, keyed by its id. The entry disallows modify and repair; only
// the normal and quiet uninstall command lines are offered.
func (m *Manifest) WriteUninstallEntry(root string) error {
	updaterPath := m.UpdateExePath(root)

	folderSize, err := directorySize(root)
	if err != nil {
		return fmt.Errorf("estimate install size: %w", err)
	}

	parent, _, err := registry.CreateKey(registry.CURRENT_USER, uninstallKeyPath, registry.CREATE_SUB_KEY)
	if err != nil {
		return fmt.Errorf("open uninstall root key: %w", err)
	}

	defer func() {
		_ = parent.Close()
	}()

	app, _, err := registry.CreateKey(parent, m.ID, registry.ALL_ACCESS)
	if err != nil {
		return fmt.Errorf("create uninstall key for %s: %w", m.ID, err)
	}

	defer func() {
		_ = app.Close()
	}()

	displayVersion := fmt.Sprintf("%d.%d.%d", m.Version.Major(), m.Version.Minor(), m.Version.Patch())

	stringValues := map[string]string{
		"DisplayIcon":          m.MainExePath(root),
		"DisplayName":          m.Title,
		"DisplayVersion":       displayVersion,
		"InstallDate":          time.Now().Format("20060102"),
		"InstallLocation":      root,
		"Publisher":            m.Authors,
		"QuietUninstallString": fmt.Sprintf("\"%s\" --uninstall --silent", updaterPath),
		"UninstallString":      fmt.Sprintf("\"%s\" --uninstall", updaterPath),
	}

	for name, value := range stringValues {
		if err = app.SetStringValue(name, value); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}

	dwordValues := map[string]uint32{
		"EstimatedSize": uint32(folderSize / 1024),
		"NoModify":      1,
		"NoRepair":      1,
		"Language":      0x0409,
	}

	for name, value := range dwordValues {
		if err = app.SetDWordValue(name, value); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}

	return nil
}

// RemoveUninstallEntry deletes the uninstall registration keyed by this
// package's id.
func (m *Manifest) RemoveUninstallEntry() error {
	if err := registry.DeleteKey(registry.CURRENT_USER, uninstallKeyPath+`\`+m.ID); err != nil {
		return fmt.Errorf("delete uninstall key for %s: %w", m.ID, err)
	}

	return nil
}

// directorySize returns the total size in bytes of all files under root.
func directorySize(root string) (uint64, error) {
	var total uint64

	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		total += uint64(info.Size())

		return nil
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}
