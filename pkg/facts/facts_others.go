//go:build !windows

package facts

import "runtime"

// Collect returns minimal facts on platforms without WMI.
func Collect() System {
	return System{OSCaption: runtime.GOOS}
}
