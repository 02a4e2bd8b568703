//go:build windows

package facts

import (
	"github.com/yusufpapurcu/wmi"

	"github.com/a-kowalenko/aeromedia-setup/pkg/logging"
)

type win32OperatingSystem struct {
	Caption string `wmi:"Caption"`
	Version string `wmi:"Version"`
}

type win32ComputerSystem struct {
	Model        string `wmi:"Model"`
	Manufacturer string `wmi:"Manufacturer"`
}

// Collect queries WMI for the host facts. Failures degrade to empty
// fields so a broken WMI service never blocks an install by itself.
func Collect() System {
	var s System

	var oses []win32OperatingSystem
	if err := wmi.Query("SELECT Caption, Version FROM Win32_OperatingSystem", &oses); err != nil {
		logging.Warn("Failed to query operating system information", "error", err)
	} else if len(oses) > 0 {
		s.OSCaption = oses[0].Caption
		s.OSVersion = oses[0].Version
	}

	var systems []win32ComputerSystem
	if err := wmi.Query("SELECT Model, Manufacturer FROM Win32_ComputerSystem", &systems); err != nil {
		logging.Warn("Failed to query computer system information", "error", err)
	} else if len(systems) > 0 {
		s.Model = systems[0].Model
		s.Manufacturer = systems[0].Manufacturer
	}

	return s
}
