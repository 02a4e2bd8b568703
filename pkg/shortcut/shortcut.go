// Package shortcut creates and removes the application's .lnk files on
// the all-users desktop and start menu.
package shortcut

import (
	"os"
	"path/filepath"
)

// Link describes a shortcut to create.
type Link struct {
	// Name is the display name, without the .lnk extension.
	Name string
	// Target is the absolute path of the executable the link opens.
	Target string
	// WorkingDir is the directory the target starts in. Defaults to the
	// target's directory when empty.
	WorkingDir string
	// Icon is an optional absolute path to the icon file.
	Icon string
}

// DesktopPath returns the all-users desktop .lnk path for name.
func DesktopPath(name string) string {
	public := os.Getenv("PUBLIC")
	if public == "" {
		public = `C:\Users\Public`
	}
	return filepath.Join(public, "Desktop", name+".lnk")
}

// StartMenuPath returns the all-users start menu .lnk path for name.
func StartMenuPath(name string) string {
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return filepath.Join(programData, `Microsoft\Windows\Start Menu\Programs`, name+".lnk")
}

// Remove deletes the shortcut at path. Missing files are not errors so
// cleanup can run repeatedly.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
