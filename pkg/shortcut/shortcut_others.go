//go:build !windows

package shortcut

import (
	"github.com/a-kowalenko/aeromedia-setup/pkg/logging"
)

// Create is a no-op outside Windows. The .lnk format and the shell COM
// interfaces only exist there.
func Create(l Link, path string) error {
	logging.Debug("Skipping shortcut creation on this platform", "path", path)
	return nil
}
