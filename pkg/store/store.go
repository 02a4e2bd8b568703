// pkg/store/store.go - key-value store abstraction over the Windows registry.
//
// The registry is global mutable state; handing the writer an explicit Store
// keeps the uninstall metadata code testable against an in-memory double.

package store

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrNotExist is returned when a key or value is absent.
var ErrNotExist = errors.New("store: key does not exist")

// Store is a hierarchical key-value store. Keys are backslash-separated paths
// (registry style); each key holds named string or integer values.
type Store interface {
	SetString(key, name, value string) error
	SetInteger(key, name string, value uint32) error
	GetString(key, name string) (string, error)
	// DeleteKey removes a key and its values. Missing keys are not errors.
	DeleteKey(key string) error
	// SubKeys lists the immediate child key names under key.
	SubKeys(key string) ([]string, error)
	KeyExists(key string) bool
}

// Memory is an in-process Store used by tests and dry runs.
type Memory struct {
	mu      sync.RWMutex
	strings map[string]map[string]string
	ints    map[string]map[string]uint32
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		strings: make(map[string]map[string]string),
		ints:    make(map[string]map[string]uint32),
	}
}

func normalize(key string) string {
	return strings.ToLower(strings.Trim(key, `\`))
}

func (m *Memory) SetString(key, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := normalize(key)
	if m.strings[k] == nil {
		m.strings[k] = make(map[string]string)
	}
	m.strings[k][name] = value
	return nil
}

func (m *Memory) SetInteger(key, name string, value uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := normalize(key)
	if m.ints[k] == nil {
		m.ints[k] = make(map[string]uint32)
	}
	m.ints[k][name] = value
	return nil
}

func (m *Memory) GetString(key, name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	values, ok := m.strings[normalize(key)]
	if !ok {
		return "", ErrNotExist
	}
	value, ok := values[name]
	if !ok {
		return "", ErrNotExist
	}
	return value, nil
}

func (m *Memory) DeleteKey(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := normalize(key)
	delete(m.strings, k)
	delete(m.ints, k)
	// Drop nested keys too; registry deletion of a leaf with children fails,
	// but the memory double only ever holds leaves we created.
	prefix := k + `\`
	for existing := range m.strings {
		if strings.HasPrefix(existing, prefix) {
			delete(m.strings, existing)
		}
	}
	for existing := range m.ints {
		if strings.HasPrefix(existing, prefix) {
			delete(m.ints, existing)
		}
	}
	return nil
}

func (m *Memory) SubKeys(key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	prefix := normalize(key) + `\`
	seen := make(map[string]bool)
	for _, keys := range []map[string]map[string]string{m.strings} {
		for existing := range keys {
			if strings.HasPrefix(existing, prefix) {
				rest := strings.TrimPrefix(existing, prefix)
				child := strings.SplitN(rest, `\`, 2)[0]
				seen[child] = true
			}
		}
	}
	for existing := range m.ints {
		if strings.HasPrefix(existing, prefix) {
			rest := strings.TrimPrefix(existing, prefix)
			child := strings.SplitN(rest, `\`, 2)[0]
			seen[child] = true
		}
	}
	out := make([]string, 0, len(seen))
	for child := range seen {
		out = append(out, child)
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) KeyExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	k := normalize(key)
	if _, ok := m.strings[k]; ok {
		return true
	}
	_, ok := m.ints[k]
	return ok
}
