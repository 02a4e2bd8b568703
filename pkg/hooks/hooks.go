// Package hooks runs the optional PowerShell scripts an install package
// ships alongside its manifest.
package hooks

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/a-kowalenko/aeromedia-setup/pkg/logging"
)

// execCommand is swapped out by tests.
var execCommand = exec.Command

// Run executes the PowerShell script at scriptPath and logs its output
// line by line. A missing script is a no-op; a non-zero exit is an error.
func Run(scriptPath, displayName string) error {
	if scriptPath == "" {
		return nil
	}
	if _, err := os.Stat(scriptPath); os.IsNotExist(err) {
		logging.Debug("Hook script not present", "hook", displayName, "path", scriptPath)
		return nil
	}

	cmd := execCommand(
		powershellBinary(),
		"-NoLogo",
		"-NoProfile",
		"-NonInteractive",
		"-Command", fmt.Sprintf(`& "%s" 2>&1`, scriptPath),
	)
	cmd.Dir = filepath.Dir(scriptPath)

	outputBytes, err := cmd.CombinedOutput()
	for _, line := range strings.Split(string(outputBytes), "\n") {
		txt := trimOutputLine(line)
		if txt == "" {
			continue
		}
		logging.Info(txt, "hook", displayName)
	}

	if err != nil {
		return fmt.Errorf("%s script failed: %w", displayName, err)
	}
	logging.Info("Hook script completed", "hook", displayName)
	return nil
}

// trimOutputLine strips surrounding whitespace and the UTF-8 byte order
// mark PowerShell prepends to redirected output.
func trimOutputLine(line string) string {
	txt := strings.TrimSpace(line)
	return strings.TrimPrefix(txt, "\uFEFF")
}

// powershellBinary prefers PowerShell 7 and falls back to the built-in
// Windows PowerShell.
func powershellBinary() string {
	if _, err := exec.LookPath("pwsh.exe"); err == nil {
		return "pwsh.exe"
	}
	return "powershell.exe"
}
