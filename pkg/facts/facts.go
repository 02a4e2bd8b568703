// Package facts gathers the host information the installer checks
// before deploying anything.
package facts

import (
	"fmt"

	"github.com/hashicorp/go-version"
)

// System describes the machine the installer is running on.
type System struct {
	OSCaption    string
	OSVersion    string
	Model        string
	Manufacturer string
}

// MeetsMinimumOS reports whether the host OS version satisfies minimum.
// An empty minimum always passes.
func (s System) MeetsMinimumOS(minimum string) (bool, error) {
	if minimum == "" {
		return true, nil
	}
	min, err := version.NewVersion(minimum)
	if err != nil {
		return false, fmt.Errorf("parsing minimum OS version %q: %w", minimum, err)
	}
	if s.OSVersion == "" {
		return false, fmt.Errorf("host OS version unknown")
	}
	host, err := version.NewVersion(s.OSVersion)
	if err != nil {
		return false, fmt.Errorf("parsing host OS version %q: %w", s.OSVersion, err)
	}
	return host.GreaterThanOrEqual(min), nil
}
