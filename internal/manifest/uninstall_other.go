//go:build !windows

package manifest

// WriteUninstallEntry is a no-op on platforms without a system uninstall registry.
func (m *Manifest) WriteUninstallEntry(_ string) error {
	return nil
}

// RemoveUninstallEntry is a no-op on platforms without a system uninstall registry.
func (m *Manifest) RemoveUninstallEntry() error {
	return nil
}
