//go:build !windows

package store

// DefaultStore returns an in-memory store on platforms without a registry.
// The setup binaries target Windows; this keeps development builds working.
func DefaultStore() Store { return NewMemory() }
