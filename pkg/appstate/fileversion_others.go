//go:build !windows

package appstate

// ExecutableVersion is Windows-only; PE version resources do not exist
// on other platforms.
func ExecutableVersion(path string) string { return "" }
