// Package appstate determines whether the application is already
// installed and what the installer should do about it.
package appstate

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-version"

	"github.com/a-kowalenko/aeromedia-setup/pkg/logging"
	"github.com/a-kowalenko/aeromedia-setup/pkg/regentry"
	"github.com/a-kowalenko/aeromedia-setup/pkg/store"
	buildversion "github.com/a-kowalenko/aeromedia-setup/pkg/version"
)

// fileVersion is swapped out by tests.
var fileVersion = ExecutableVersion

// Action is the decision for an install run against the current state.
type Action int

const (
	// ActionInstall means nothing is installed yet.
	ActionInstall Action = iota
	// ActionUpgrade means an older version is installed.
	ActionUpgrade
	// ActionReinstall means the same version is already installed.
	ActionReinstall
	// ActionDowngrade means a newer version is installed. Refused unless
	// the operator forces it.
	ActionDowngrade
)

func (a Action) String() string {
	switch a {
	case ActionInstall:
		return "install"
	case ActionUpgrade:
		return "upgrade"
	case ActionReinstall:
		return "reinstall"
	case ActionDowngrade:
		return "downgrade"
	}
	return "unknown"
}

// Installed describes the currently registered installation.
type Installed struct {
	Version     string
	InstallPath string
}

// Detect looks up the application's uninstall entry and reports what is
// installed, if anything. When the entry carries no version, the version
// resource of the deployed executable (executable, relative to the
// install location) stands in for it.
func Detect(st store.Store, appName, executable string) (*Installed, bool) {
	entry, ok := regentry.Read(st, appName)
	if !ok {
		return nil, false
	}
	installed := &Installed{
		Version:     entry.DisplayVersion,
		InstallPath: entry.InstallLocation,
	}
	if installed.Version == "" && installed.InstallPath != "" && executable != "" {
		if v := fileVersion(filepath.Join(installed.InstallPath, executable)); v != "" {
			// File versions are four-part; trailing zero segments carry
			// no meaning for the compare.
			installed.Version = buildversion.Normalize(v)
			logging.Debug("Using executable file version",
				"app", appName, "version", installed.Version)
		}
	}
	return installed, true
}

// Decide compares the installed version against targetVersion. A nil
// installed means a fresh install. Unparseable recorded versions fall
// back to upgrade so a corrupt entry never bricks the installer.
func Decide(installed *Installed, targetVersion string) (Action, error) {
	if installed == nil {
		return ActionInstall, nil
	}
	if targetVersion == "" || installed.Version == "" {
		return ActionUpgrade, nil
	}
	target, err := version.NewVersion(targetVersion)
	if err != nil {
		return ActionInstall, fmt.Errorf("parsing target version %q: %w", targetVersion, err)
	}
	current, err := version.NewVersion(installed.Version)
	if err != nil {
		return ActionUpgrade, nil
	}
	switch {
	case current.Equal(target):
		return ActionReinstall, nil
	case current.GreaterThan(target):
		return ActionDowngrade, nil
	default:
		return ActionUpgrade, nil
	}
}
