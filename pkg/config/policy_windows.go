// pkg/config/policy_windows.go - registry-backed policy overrides.

package config

import (
	"strconv"

	"golang.org/x/sys/windows/registry"
)

// loadPolicyOverrides applies values pushed under PolicyRegistryPath on top of
// the defaults. Missing key or missing values leave the defaults untouched.
func loadPolicyOverrides(cfg *Configuration) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, PolicyRegistryPath, registry.READ)
	if err != nil {
		return
	}
	defer key.Close()

	loadStringValue(key, "InstallRoot", &cfg.InstallRoot)
	loadStringValue(key, "LogDir", &cfg.LogDir)
	loadStringValue(key, "LogLevel", &cfg.LogLevel)
	loadBoolValue(key, "Silent", &cfg.Silent)
	loadBoolValue(key, "Verbose", &cfg.Verbose)
	loadBoolValue(key, "Debug", &cfg.Debug)
	loadIntValue(key, "KillTimeoutSeconds", &cfg.KillTimeoutSeconds)
}

// loadStringValue loads a string value from the registry if it exists.
func loadStringValue(key registry.Key, valueName string, target *string) {
	if val, _, err := key.GetStringValue(valueName); err == nil && val != "" {
		*target = val
	}
}

// loadBoolValue loads a boolean value from the registry if it exists.
// Accepts "true"/"false", "1"/"0" strings as well as DWORD 1/0.
func loadBoolValue(key registry.Key, valueName string, target *bool) {
	if val, _, err := key.GetStringValue(valueName); err == nil {
		if parsed, parseErr := strconv.ParseBool(val); parseErr == nil {
			*target = parsed
			return
		}
	}
	if val, _, err := key.GetIntegerValue(valueName); err == nil {
		*target = val != 0
	}
}

// loadIntValue loads an integer value from the registry if it exists.
func loadIntValue(key registry.Key, valueName string, target *int) {
	if val, _, err := key.GetStringValue(valueName); err == nil {
		if parsed, parseErr := strconv.Atoi(val); parseErr == nil {
			*target = parsed
			return
		}
	}
	if val, _, err := key.GetIntegerValue(valueName); err == nil {
		*target = int(val)
	}
}
