// Package lifecycle drives the end-to-end install and uninstall runs,
// tying the manifest, process guard, deployer, registry and shortcut
// layers together.
package lifecycle

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/a-kowalenko/aeromedia-setup/pkg/appstate"
	"github.com/a-kowalenko/aeromedia-setup/pkg/config"
	"github.com/a-kowalenko/aeromedia-setup/pkg/deploy"
	"github.com/a-kowalenko/aeromedia-setup/pkg/facts"
	"github.com/a-kowalenko/aeromedia-setup/pkg/guard"
	"github.com/a-kowalenko/aeromedia-setup/pkg/hooks"
	"github.com/a-kowalenko/aeromedia-setup/pkg/logging"
	"github.com/a-kowalenko/aeromedia-setup/pkg/manifest"
	"github.com/a-kowalenko/aeromedia-setup/pkg/progress"
	"github.com/a-kowalenko/aeromedia-setup/pkg/receipt"
	"github.com/a-kowalenko/aeromedia-setup/pkg/regentry"
	"github.com/a-kowalenko/aeromedia-setup/pkg/shortcut"
	"github.com/a-kowalenko/aeromedia-setup/pkg/store"
)

// InstallOptions carries everything an install run needs. Store, Guard
// and Reporter are injectable so tests can run without a registry or
// live processes.
type InstallOptions struct {
	Manifest *manifest.Manifest
	Config   *config.Configuration
	Store    store.Store
	Guard    *guard.Guard
	Reporter progress.Reporter

	// CheckOnly reports what would happen without touching the system.
	CheckOnly bool
	// Force allows reinstalling the same version and downgrading.
	Force bool
	// UninstallerSource is the uninstaller binary to stage into the
	// install root. Empty skips staging.
	UninstallerSource string
	// SkipOSCheck bypasses the minimum OS version gate.
	SkipOSCheck bool
}

// InstallResult summarizes a completed or skipped install run.
type InstallResult struct {
	Action        appstate.Action
	InstallPath   string
	FilesDeployed int
	// Skipped is set when the same version was already installed and
	// nothing was changed.
	Skipped bool
}

// Install runs the full install sequence: validate, preflight, stop
// blocking processes, deploy files, stage the uninstaller, create
// shortcuts and register the uninstall entry. The receipt is saved even
// when deployment fails partway so a later uninstall can clean up.
func Install(opts InstallOptions) (*InstallResult, error) {
	m := opts.Manifest
	cfg := opts.Config
	rep := opts.Reporter
	if rep == nil {
		rep = progress.Nop{}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	installPath := installPathFor(m, cfg)
	result := &InstallResult{InstallPath: installPath}

	host := facts.Collect()
	logging.Info("Host preflight",
		"os", host.OSCaption,
		"os_version", host.OSVersion,
		"model", host.Model)
	if !opts.SkipOSCheck {
		ok, err := host.MeetsMinimumOS(m.MinimumOSVersion)
		if err != nil {
			logging.Warn("Minimum OS check inconclusive, continuing", "error", err)
		} else if !ok {
			return nil, fmt.Errorf("host OS %s is older than required %s",
				host.OSVersion, m.MinimumOSVersion)
		}
	}

	installed, _ := appstate.Detect(opts.Store, m.AppName, m.Executable)
	action, err := appstate.Decide(installed, m.Version)
	if err != nil {
		return nil, err
	}
	result.Action = action
	switch action {
	case appstate.ActionReinstall:
		if !opts.Force {
			logging.Info("Version already installed, nothing to do",
				"app", m.AppName, "version", m.Version)
			rep.Message(fmt.Sprintf("%s %s is already installed", m.DisplayName(), m.Version))
			result.Skipped = true
			return result, nil
		}
	case appstate.ActionDowngrade:
		if !opts.Force {
			return nil, fmt.Errorf("installed version %s is newer than %s, refusing downgrade",
				installed.Version, m.Version)
		}
	}

	if opts.CheckOnly {
		rep.Message(fmt.Sprintf("Would %s %s %s to %s",
			action, m.DisplayName(), m.Version, installPath))
		result.Skipped = true
		return result, nil
	}

	rep.Message(fmt.Sprintf("Installing %s %s", m.DisplayName(), m.Version))
	rep.Percent(-1)

	if err := stopBlockingProcesses(opts.Guard, blockingNames(m), cfg.KillTimeout()); err != nil {
		return nil, err
	}

	if err := hooks.Run(m.PreInstallScript, "pre-install"); err != nil {
		return nil, err
	}

	rec := receipt.New(m.AppName, m.Version, installPath)
	rec.Processes = blockingNames(m)

	rep.Detail("Copying files")
	if err := deploy.Deploy(m.SourceTree, installPath, rec); err != nil {
		savePartialReceipt(rec)
		return nil, err
	}
	result.FilesDeployed = len(rec.DeployedFiles)
	rep.Percent(60)

	if opts.UninstallerSource != "" {
		if err := stageUninstaller(opts.UninstallerSource, installPath, rec); err != nil {
			logging.Warn("Failed to stage uninstaller", "error", err)
		}
	}

	if err := createShortcuts(m, installPath, rec, rep); err != nil {
		savePartialReceipt(rec)
		return nil, err
	}
	rep.Percent(80)

	rep.Detail("Registering uninstall entry")
	key, err := regentry.Write(opts.Store, m, installPath, deployedSizeKB(rec))
	if err != nil {
		savePartialReceipt(rec)
		return nil, err
	}
	rec.AddRegistryKey(key)

	if err := rec.Save(); err != nil {
		return nil, fmt.Errorf("saving install receipt: %w", err)
	}

	// The payload is fully in place; a failing post-install script is
	// reported but does not undo the install.
	if err := hooks.Run(m.PostInstallScript, "post-install"); err != nil {
		logging.Warn("Post-install script failed", "error", err)
		rep.Error(err)
	}

	rep.Percent(100)
	rep.Message(fmt.Sprintf("%s %s installed", m.DisplayName(), m.Version))
	logging.Info("Install complete",
		"app", m.AppName,
		"version", m.Version,
		"path", installPath,
		"files", result.FilesDeployed)
	return result, nil
}

// savePartialReceipt persists whatever landed before an aborted install
// so the uninstaller can back it out.
func savePartialReceipt(rec *receipt.Record) {
	if err := rec.Save(); err != nil {
		logging.Error("Failed to save partial receipt", "error", err)
	}
}

func installPathFor(m *manifest.Manifest, cfg *config.Configuration) string {
	if m.InstallRoot != "" {
		return m.InstallRoot
	}
	return cfg.InstallRoot
}

// blockingNames returns the process names to stop before deployment.
// The payload executable is always included.
func blockingNames(m *manifest.Manifest) []string {
	names := make([]string, 0, len(m.BlockingProcesses)+1)
	names = append(names, m.ExecutableName())
	for _, p := range m.BlockingProcesses {
		if p != m.ExecutableName() {
			names = append(names, p)
		}
	}
	return names
}

func stopBlockingProcesses(g *guard.Guard, names []string, timeout time.Duration) error {
	for _, name := range names {
		if !g.IsRunning(name) {
			continue
		}
		logging.Info("Stopping blocking process", "process", name)
		if err := g.Terminate(name, timeout); err != nil {
			return fmt.Errorf("stopping %s: %w", name, err)
		}
	}
	return nil
}

// stageUninstaller copies the uninstaller binary into the install root
// so the registered UninstallString resolves.
func stageUninstaller(source, installPath string, rec *receipt.Record) error {
	dst := filepath.Join(installPath, regentry.UninstallerName)
	data, err := os.ReadFile(source)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0755); err != nil {
		return err
	}
	return rec.AddFile(dst)
}

func createShortcuts(m *manifest.Manifest, installPath string, rec *receipt.Record, rep progress.Reporter) error {
	if !m.Shortcuts.Desktop && !m.Shortcuts.StartMenu {
		return nil
	}
	rep.Detail("Creating shortcuts")
	link := shortcut.Link{
		Name:       m.DisplayName(),
		Target:     filepath.Join(installPath, m.Executable),
		WorkingDir: installPath,
	}
	if m.Icon != "" {
		link.Icon = filepath.Join(installPath, m.Icon)
	}
	if m.Shortcuts.Desktop {
		path := shortcut.DesktopPath(m.DisplayName())
		if err := shortcut.Create(link, path); err != nil {
			return fmt.Errorf("creating desktop shortcut: %w", err)
		}
		rec.AddShortcut(path)
	}
	if m.Shortcuts.StartMenu {
		path := shortcut.StartMenuPath(m.DisplayName())
		if err := shortcut.Create(link, path); err != nil {
			return fmt.Errorf("creating start menu shortcut: %w", err)
		}
		rec.AddShortcut(path)
	}
	return nil
}

// deployedSizeKB sums the sizes of everything recorded so far.
func deployedSizeKB(rec *receipt.Record) int {
	var total int64
	for _, f := range rec.DeployedFiles {
		if fi, err := os.Stat(f); err == nil {
			total += fi.Size()
		}
	}
	return int(total / 1024)
}
