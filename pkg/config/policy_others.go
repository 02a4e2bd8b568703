//go:build !windows

package config

// loadPolicyOverrides is a no-op on non-Windows platforms.
func loadPolicyOverrides(cfg *Configuration) {
	_ = cfg
}
