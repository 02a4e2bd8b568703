package lifecycle

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/a-kowalenko/aeromedia-setup/pkg/config"
	"github.com/a-kowalenko/aeromedia-setup/pkg/deploy"
	"github.com/a-kowalenko/aeromedia-setup/pkg/guard"
	"github.com/a-kowalenko/aeromedia-setup/pkg/logging"
	"github.com/a-kowalenko/aeromedia-setup/pkg/progress"
	"github.com/a-kowalenko/aeromedia-setup/pkg/receipt"
	"github.com/a-kowalenko/aeromedia-setup/pkg/regentry"
	"github.com/a-kowalenko/aeromedia-setup/pkg/shortcut"
	"github.com/a-kowalenko/aeromedia-setup/pkg/store"
)

// UninstallOptions carries everything an uninstall run needs.
type UninstallOptions struct {
	AppName  string
	Config   *config.Configuration
	Store    store.Store
	Guard    *guard.Guard
	Reporter progress.Reporter

	// InstallPath overrides the path recorded in the registry or
	// receipt. Normally left empty.
	InstallPath string
	// SelfPath is the running uninstaller binary when it lives inside
	// the install root. It cannot be deleted while running, so it is
	// skipped and scheduled for removal at the next boot.
	SelfPath string
}

// StepError records a cleanup step that failed. The run continues past
// it so later steps still get their chance.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("%s: %v", e.Step, e.Err) }
func (e *StepError) Unwrap() error { return e.Err }

// CleanupError aggregates every failed step of an uninstall run.
type CleanupError struct {
	Steps []*StepError
}

func (e *CleanupError) Error() string {
	parts := make([]string, len(e.Steps))
	for i, s := range e.Steps {
		parts[i] = s.Error()
	}
	return fmt.Sprintf("%d cleanup step(s) failed: %s", len(e.Steps), strings.Join(parts, "; "))
}

// UninstallResult summarizes what an uninstall run achieved.
type UninstallResult struct {
	// FilesRemoved is true when the install root no longer exists. The
	// uninstall counts as successful when this holds, even if auxiliary
	// cleanup steps failed.
	FilesRemoved bool
	// NothingFound is true when no installation could be located. The
	// run still sweeps up any leftover shortcuts and registry entry.
	NothingFound bool
	StepsFailed  []*StepError
}

// Uninstall tears the installation down in order: stop the application,
// delete the deployed files, remove shortcuts, then the registry entry.
// Every step runs even when earlier ones fail; the failures come back
// aggregated in a CleanupError.
func Uninstall(opts UninstallOptions) (*UninstallResult, error) {
	rep := opts.Reporter
	if rep == nil {
		rep = progress.Nop{}
	}
	result := &UninstallResult{}

	fail := func(step string, err error) {
		se := &StepError{Step: step, Err: err}
		result.StepsFailed = append(result.StepsFailed, se)
		logging.Error("Cleanup step failed", "step", step, "error", err)
		rep.Error(se)
	}

	installPath, rec := locateInstall(opts)
	if installPath == "" {
		// Nothing to tear down. Running the uninstaller against a clean
		// machine, or a second time in a row, succeeds; any stray
		// shortcuts or registry entry are still swept up.
		logging.Info("No installation found, nothing to remove", "app", opts.AppName)
		rep.Message(fmt.Sprintf("%s is not installed", opts.AppName))
		result.NothingFound = true
		result.FilesRemoved = true
		for _, link := range shortcutPaths(nil, opts.AppName) {
			if err := shortcut.Remove(link); err != nil {
				fail("remove shortcuts", err)
			}
		}
		if err := regentry.Remove(opts.Store, opts.AppName); err != nil {
			fail("remove registry entry", err)
		}
		if len(result.StepsFailed) > 0 {
			return result, &CleanupError{Steps: result.StepsFailed}
		}
		return result, nil
	}
	rep.Message(fmt.Sprintf("Removing %s", opts.AppName))

	// Stopping the application is best effort. A survivor makes the file
	// removal fail, which is the error that actually matters.
	for _, name := range processNames(rec, opts.AppName) {
		if !opts.Guard.IsRunning(name) {
			continue
		}
		rep.Detail(fmt.Sprintf("Stopping %s", name))
		if err := opts.Guard.Terminate(name, opts.Config.KillTimeout()); err != nil {
			if errors.Is(err, guard.ErrStillRunning) {
				logging.Warn("Process survived termination", "process", name)
			} else {
				fail("stop processes", err)
			}
		}
	}

	rep.Detail("Removing files")
	if err := removeFiles(installPath, opts.SelfPath); err != nil {
		fail("remove files", err)
	} else {
		result.FilesRemoved = true
	}

	rep.Detail("Removing shortcuts")
	for _, link := range shortcutPaths(rec, opts.AppName) {
		if err := shortcut.Remove(link); err != nil {
			fail("remove shortcuts", err)
		}
	}

	rep.Detail("Removing registry entry")
	if err := regentry.Remove(opts.Store, opts.AppName); err != nil {
		fail("remove registry entry", err)
	}

	if len(result.StepsFailed) > 0 {
		return result, &CleanupError{Steps: result.StepsFailed}
	}
	rep.Message(fmt.Sprintf("%s removed", opts.AppName))
	logging.Info("Uninstall complete", "app", opts.AppName, "path", installPath)
	return result, nil
}

// removeFiles deletes the install root. When the running uninstaller
// sits inside it, everything else is removed now and the binary plus
// the emptied root are handed to the OS for deletion at reboot.
func removeFiles(installPath, selfPath string) error {
	selfInside := selfPath != "" && isWithin(selfPath, installPath)
	if !selfInside {
		return deploy.RemoveRoot(installPath)
	}
	if err := deploy.RemoveRootExcept(installPath, selfPath); err != nil {
		return err
	}
	if err := deploy.ScheduleRemoveOnReboot(selfPath); err != nil {
		return fmt.Errorf("scheduling uninstaller removal: %w", err)
	}
	if err := deploy.ScheduleRemoveOnReboot(installPath); err != nil {
		logging.Warn("Could not schedule install root removal", "path", installPath, "error", err)
	}
	logging.Info("Uninstaller scheduled for removal at next boot", "path", selfPath)
	return nil
}

func isWithin(path, root string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// locateInstall resolves the install root and its receipt. Explicit
// option first, then the registry entry, then nothing. A missing or
// corrupt receipt is tolerated; the whole-root removal covers it.
func locateInstall(opts UninstallOptions) (string, *receipt.Record) {
	installPath := opts.InstallPath
	if installPath == "" {
		if entry, ok := regentry.Read(opts.Store, opts.AppName); ok {
			installPath = entry.InstallLocation
		}
	}
	if installPath == "" {
		return "", nil
	}
	rec, err := receipt.Load(installPath)
	if err != nil {
		logging.Debug("No readable install receipt", "path", installPath, "error", err)
		return installPath, nil
	}
	return installPath, rec
}

func processNames(rec *receipt.Record, appName string) []string {
	if rec != nil && len(rec.Processes) > 0 {
		return rec.Processes
	}
	// Without a receipt, fall back to the conventional executable name.
	return []string{appName + ".exe"}
}

func shortcutPaths(rec *receipt.Record, appName string) []string {
	if rec != nil && len(rec.Shortcuts) > 0 {
		return rec.Shortcuts
	}
	return []string{
		shortcut.DesktopPath(appName),
		shortcut.StartMenuPath(appName),
	}
}
