// pkg/receipt/receipt.go - the install record: everything one install run
// created, persisted so the uninstaller removes exactly that and nothing else.

package receipt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the sidecar receipt written into the install root.
const FileName = "install-receipt.yaml"

// Record tracks the artifacts created by a single install run. Paths outside
// the install root are never recorded as files; shortcuts and registry keys
// are tracked explicitly instead.
type Record struct {
	AppName       string   `yaml:"app_name"`
	Version       string   `yaml:"version"`
	InstallPath   string   `yaml:"install_path"`
	DeployedFiles []string `yaml:"deployed_files"`
	Shortcuts     []string `yaml:"shortcuts,omitempty"`
	RegistryKeys  []string `yaml:"registry_keys,omitempty"`
	// Processes lists the executable names the uninstaller must stop
	// before it can delete the install root.
	Processes   []string `yaml:"processes,omitempty"`
	InstalledAt string   `yaml:"installed_at"`
}

// New returns an empty record rooted at installPath.
func New(appName, version, installPath string) *Record {
	return &Record{
		AppName:     appName,
		Version:     version,
		InstallPath: filepath.Clean(installPath),
		InstalledAt: time.Now().Format(time.RFC3339),
	}
}

// AddFile records a deployed file. Paths outside the install root are
// rejected: the uninstaller deletes the whole root and must not be steered
// anywhere else.
func (r *Record) AddFile(path string) error {
	clean := filepath.Clean(path)
	if !isUnder(clean, r.InstallPath) {
		return fmt.Errorf("refusing to record %s: outside install root %s", clean, r.InstallPath)
	}
	r.DeployedFiles = append(r.DeployedFiles, clean)
	return nil
}

// AddShortcut records a created shortcut link.
func (r *Record) AddShortcut(linkPath string) {
	r.Shortcuts = append(r.Shortcuts, filepath.Clean(linkPath))
}

// AddRegistryKey records a registry key written during install.
func (r *Record) AddRegistryKey(key string) {
	r.RegistryKeys = append(r.RegistryKeys, key)
}

// Path returns the sidecar file location for this record.
func (r *Record) Path() string {
	return filepath.Join(r.InstallPath, FileName)
}

// Save persists the record into the install root.
func (r *Record) Save() error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("serializing install receipt: %w", err)
	}
	if err := os.MkdirAll(r.InstallPath, 0755); err != nil {
		return fmt.Errorf("creating install root for receipt: %w", err)
	}
	if err := os.WriteFile(r.Path(), data, 0644); err != nil {
		return fmt.Errorf("writing install receipt: %w", err)
	}
	return nil
}

// Load reads the receipt from an install root.
func Load(installPath string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(installPath, FileName))
	if err != nil {
		return nil, fmt.Errorf("reading install receipt: %w", err)
	}
	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing install receipt: %w", err)
	}
	if r.InstallPath == "" {
		r.InstallPath = filepath.Clean(installPath)
	}
	return &r, nil
}

// Delete removes the sidecar file; a missing file is not an error.
func (r *Record) Delete() error {
	err := os.Remove(r.Path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// isUnder reports whether path is root itself or inside it. The parent
// check is separator-aware so a base name like "..data" stays in-root.
func isUnder(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}
