// pkg/store/registry_windows.go - the HKLM-backed Store.

package store

import (
	"errors"

	"golang.org/x/sys/windows/registry"
)

// Registry is the Store implementation over HKEY_LOCAL_MACHINE.
type Registry struct{}

// NewRegistry returns the HKLM-backed store.
func NewRegistry() *Registry { return &Registry{} }

// DefaultStore returns the store the setup binaries use on this platform.
func DefaultStore() Store { return NewRegistry() }

func (*Registry) SetString(key, name, value string) error {
	k, _, err := registry.CreateKey(registry.LOCAL_MACHINE, key, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()
	return k.SetStringValue(name, value)
}

func (*Registry) SetInteger(key, name string, value uint32) error {
	k, _, err := registry.CreateKey(registry.LOCAL_MACHINE, key, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()
	return k.SetDWordValue(name, value)
}

func (*Registry) GetString(key, name string) (string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, key, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", ErrNotExist
		}
		return "", err
	}
	defer k.Close()
	val, _, err := k.GetStringValue(name)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", ErrNotExist
		}
		return "", err
	}
	return val, nil
}

func (*Registry) DeleteKey(key string) error {
	err := registry.DeleteKey(registry.LOCAL_MACHINE, key)
	if err != nil && !errors.Is(err, registry.ErrNotExist) {
		return err
	}
	return nil
}

func (*Registry) SubKeys(key string) ([]string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, key, registry.READ)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	defer k.Close()
	return k.ReadSubKeyNames(0)
}

func (*Registry) KeyExists(key string) bool {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, key, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	k.Close()
	return true
}
