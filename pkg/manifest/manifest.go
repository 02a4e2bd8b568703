// pkg/manifest/manifest.go - the declarative install manifest.

package manifest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	version "github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

// Shortcuts selects which launcher links the installer creates.
type Shortcuts struct {
	Desktop   bool `yaml:"desktop"`
	StartMenu bool `yaml:"start_menu"`
}

// Manifest describes one application install: metadata, the payload tree and
// the artifacts to create around it. Immutable once loaded.
type Manifest struct {
	AppName           string    `yaml:"app_name"`
	Version           string    `yaml:"version"`
	Publisher         string    `yaml:"publisher"`
	Executable        string    `yaml:"executable"` // relative to the install root
	SourceTree        string    `yaml:"source_tree"`
	InstallRoot       string    `yaml:"install_root,omitempty"`
	Icon              string    `yaml:"icon,omitempty"` // relative to the install root
	MinimumOSVersion  string    `yaml:"minimum_os_version,omitempty"`
	Shortcuts         Shortcuts `yaml:"shortcuts"`
	BlockingProcesses []string  `yaml:"blocking_processes,omitempty"`

	// Optional PowerShell hook scripts, relative to the manifest.
	PreInstallScript  string `yaml:"pre_install,omitempty"`
	PostInstallScript string `yaml:"post_install,omitempty"`
}

// ValidationError reports a manifest that cannot drive an install. It is
// always fatal and raised before any filesystem mutation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid manifest: %s", e.Reason)
}

// Load reads and validates a manifest file. Relative source_tree paths are
// resolved against the manifest's own directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("parsing %s: %v", path, err)}
	}

	base := filepath.Dir(path)
	if !filepath.IsAbs(m.SourceTree) && m.SourceTree != "" {
		m.SourceTree = filepath.Join(base, m.SourceTree)
	}
	if !filepath.IsAbs(m.PreInstallScript) && m.PreInstallScript != "" {
		m.PreInstallScript = filepath.Join(base, m.PreInstallScript)
	}
	if !filepath.IsAbs(m.PostInstallScript) && m.PostInstallScript != "" {
		m.PostInstallScript = filepath.Join(base, m.PostInstallScript)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the loaded manifest against the rules an install depends on.
func (m *Manifest) Validate() error {
	if m.AppName == "" {
		return &ValidationError{Reason: "app_name is required"}
	}
	if m.Executable == "" {
		return &ValidationError{Reason: "executable is required"}
	}
	if isAbsolutePath(m.Executable) {
		return &ValidationError{Reason: "executable must be relative to the install root"}
	}
	if m.SourceTree == "" {
		return &ValidationError{Reason: "source_tree is required"}
	}

	info, err := os.Stat(m.SourceTree)
	if err != nil || !info.IsDir() {
		return &ValidationError{Reason: fmt.Sprintf("source_tree %s is not a directory", m.SourceTree)}
	}
	empty, err := treeIsEmpty(m.SourceTree)
	if err != nil {
		return &ValidationError{Reason: fmt.Sprintf("reading source_tree %s: %v", m.SourceTree, err)}
	}
	if empty {
		return &ValidationError{Reason: fmt.Sprintf("source_tree %s contains no files", m.SourceTree)}
	}

	if m.Version != "" {
		if _, err := version.NewVersion(m.Version); err != nil {
			return &ValidationError{Reason: fmt.Sprintf("version %q is not parseable: %v", m.Version, err)}
		}
	}
	if m.MinimumOSVersion != "" {
		if _, err := version.NewVersion(m.MinimumOSVersion); err != nil {
			return &ValidationError{Reason: fmt.Sprintf("minimum_os_version %q is not parseable: %v", m.MinimumOSVersion, err)}
		}
	}
	return nil
}

// ExecutableName returns the bare image name of the target executable, used
// for process matching.
func (m *Manifest) ExecutableName() string {
	return filepath.Base(m.Executable)
}

// DisplayName is the name shown in uninstall listings and shortcuts.
func (m *Manifest) DisplayName() string {
	return m.AppName
}

// isAbsolutePath recognizes Windows drive-letter and rooted paths on any
// build platform, so manifests validate the same everywhere.
func isAbsolutePath(p string) bool {
	if filepath.IsAbs(p) {
		return true
	}
	if strings.HasPrefix(p, `\`) || strings.HasPrefix(p, "/") {
		return true
	}
	if len(p) >= 2 && p[1] == ':' {
		c := p[0]
		return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	}
	return false
}

// treeIsEmpty reports whether dir contains no regular files at any depth.
func treeIsEmpty(dir string) (bool, error) {
	empty := true
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			empty = false
			return filepath.SkipAll
		}
		return nil
	})
	return empty, err
}
