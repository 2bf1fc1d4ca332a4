package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds installation parameters shared by the nupack subcommands.
type Config struct {
	// InstallRoot is the directory under which the application is laid out
	// (packages folder, current build, uninstall registration).
	InstallRoot string `yaml:"install_root"`
	// PackagesFolder is the directory scanned for release artifacts. When
	// empty it defaults to <install_root>/packages.
	PackagesFolder string `yaml:"packages_folder"`
	// LogLevel is the minimum level for console logging (debug, info, ...).
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for installer settings.
	DefaultConfigFilename = "nupack-settings.yaml"

	// DefaultLogLevel is used when the settings file does not specify one.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInstallRootRequired is returned when the install root is missing.
	errInstallRootRequired = errors.New("install root must be provided")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.InstallRoot == "" {
		return errInstallRootRequired
	}

	if !filepath.IsAbs(cfg.InstallRoot) {
		return fmt.Errorf("install root %q is not an absolute path", cfg.InstallRoot)
	}

	// Default the packages folder next to the installed build.
	if cfg.PackagesFolder == "" {
		cfg.PackagesFolder = filepath.Join(cfg.InstallRoot, "packages")
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	return nil
}
