//go:build !windows

package deploy

import "os"

// ScheduleRemoveOnReboot deletes immediately; nothing holds open
// executables locked on these platforms.
func ScheduleRemoveOnReboot(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
