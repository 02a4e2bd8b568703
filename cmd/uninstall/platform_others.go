//go:build !windows

package main

// The installer targets Windows; these hooks are no-ops elsewhere so
// development builds still link.

func enableANSIConsole() {}

func adminCheck() (bool, error) { return true, nil }

func infoBox(title, text string)  {}
func errorBox(title, text string) {}
