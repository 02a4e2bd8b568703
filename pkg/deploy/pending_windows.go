//go:build windows

package deploy

import (
	"golang.org/x/sys/windows"
)

// ScheduleRemoveOnReboot asks the OS to delete path at the next boot.
// This is the standard way out for a running uninstaller binary.
func ScheduleRemoveOnReboot(path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	return windows.MoveFileEx(p, nil, windows.MOVEFILE_DELAY_UNTIL_REBOOT)
}
