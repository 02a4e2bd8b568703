//go:build windows

package shortcut

import (
	"fmt"
	"path/filepath"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// Create writes the .lnk file at path via the WScript.Shell COM object.
// COM is initialized per call; the shell scripting host tolerates an
// already-initialized apartment.
func Create(l Link, path string) error {
	ole.CoInitialize(0)
	defer ole.CoUninitialize()

	shellObject, err := oleutil.CreateObject("WScript.Shell")
	if err != nil {
		return fmt.Errorf("creating WScript.Shell: %w", err)
	}
	defer shellObject.Release()

	shell, err := shellObject.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return fmt.Errorf("querying shell dispatch: %w", err)
	}
	defer shell.Release()

	cs, err := oleutil.CallMethod(shell, "CreateShortcut", path)
	if err != nil {
		return fmt.Errorf("creating shortcut object for %s: %w", path, err)
	}
	link := cs.ToIDispatch()
	defer link.Release()

	workingDir := l.WorkingDir
	if workingDir == "" {
		workingDir = filepath.Dir(l.Target)
	}
	if _, err := oleutil.PutProperty(link, "TargetPath", l.Target); err != nil {
		return fmt.Errorf("setting shortcut target: %w", err)
	}
	if _, err := oleutil.PutProperty(link, "WorkingDirectory", workingDir); err != nil {
		return fmt.Errorf("setting shortcut working directory: %w", err)
	}
	if l.Icon != "" {
		if _, err := oleutil.PutProperty(link, "IconLocation", l.Icon); err != nil {
			return fmt.Errorf("setting shortcut icon: %w", err)
		}
	}

	if _, err := oleutil.CallMethod(link, "Save"); err != nil {
		return fmt.Errorf("saving shortcut %s: %w", path, err)
	}
	return nil
}
