// Package regentry maintains the Add/Remove Programs uninstall entry
// for the application under the machine-wide Uninstall hive.
package regentry

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/a-kowalenko/aeromedia-setup/pkg/manifest"
	"github.com/a-kowalenko/aeromedia-setup/pkg/store"
)

// UninstallRoot is the registry path the Programs and Features control
// panel enumerates, relative to HKEY_LOCAL_MACHINE.
const UninstallRoot = `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`

// UninstallerName is the uninstaller binary staged into the install root.
const UninstallerName = "uninstall.exe"

// Entry mirrors the values written under an application's uninstall key.
type Entry struct {
	Key             string
	DisplayName     string
	DisplayVersion  string
	Publisher       string
	InstallLocation string
	UninstallString string
	DisplayIcon     string
}

// KeyFor returns the uninstall key path for the given application name.
func KeyFor(appName string) string {
	return UninstallRoot + `\` + appName
}

// UninstallCommand returns the quoted uninstall command line for an
// uninstaller staged in installPath.
func UninstallCommand(installPath string) string {
	return fmt.Sprintf("%q", filepath.Join(installPath, UninstallerName))
}

// Write creates or refreshes the uninstall entry for m. estimatedSizeKB
// may be zero when the deployed size is unknown. It returns the key path
// that was written.
func Write(st store.Store, m *manifest.Manifest, installPath string, estimatedSizeKB int) (string, error) {
	key := KeyFor(m.AppName)
	uninstall := UninstallCommand(installPath)

	values := map[string]string{
		"DisplayName":          m.DisplayName(),
		"DisplayVersion":       m.Version,
		"Publisher":            m.Publisher,
		"InstallLocation":      installPath,
		"UninstallString":      uninstall,
		"QuietUninstallString": uninstall + " /S",
		"InstallDate":          time.Now().Format("20060102"),
	}
	if m.Icon != "" {
		values["DisplayIcon"] = filepath.Join(installPath, m.Icon)
	} else {
		values["DisplayIcon"] = filepath.Join(installPath, m.Executable)
	}
	for name, value := range values {
		if value == "" {
			continue
		}
		if err := st.SetString(key, name, value); err != nil {
			return key, fmt.Errorf("writing uninstall value %s: %w", name, err)
		}
	}

	ints := map[string]uint32{
		"NoModify": 1,
		"NoRepair": 1,
	}
	if estimatedSizeKB > 0 {
		ints["EstimatedSize"] = uint32(estimatedSizeKB)
	}
	for name, value := range ints {
		if err := st.SetInteger(key, name, value); err != nil {
			return key, fmt.Errorf("writing uninstall value %s: %w", name, err)
		}
	}
	return key, nil
}

// Remove deletes the uninstall entry for appName. A missing entry is
// not an error so repeated uninstalls stay idempotent.
func Remove(st store.Store, appName string) error {
	return st.DeleteKey(KeyFor(appName))
}

// Read returns the uninstall entry for appName, reporting whether the
// key exists at all.
func Read(st store.Store, appName string) (*Entry, bool) {
	key := KeyFor(appName)
	if !st.KeyExists(key) {
		return nil, false
	}
	return readEntry(st, key, appName), true
}

// List enumerates every uninstall entry under the hive. Subkeys that
// cannot be read are skipped, matching how Programs and Features
// tolerates foreign vendors' malformed keys.
func List(st store.Store) ([]Entry, error) {
	subKeys, err := st.SubKeys(UninstallRoot)
	if err != nil {
		return nil, fmt.Errorf("enumerating uninstall entries: %w", err)
	}
	entries := make([]Entry, 0, len(subKeys))
	for _, sub := range subKeys {
		e := readEntry(st, UninstallRoot+`\`+sub, sub)
		if e.DisplayName == "" && e.UninstallString == "" {
			continue
		}
		entries = append(entries, *e)
	}
	return entries, nil
}

func readEntry(st store.Store, key, name string) *Entry {
	e := &Entry{Key: key, DisplayName: name}
	if v, err := st.GetString(key, "DisplayName"); err == nil {
		e.DisplayName = v
	}
	if v, err := st.GetString(key, "DisplayVersion"); err == nil {
		e.DisplayVersion = v
	}
	if v, err := st.GetString(key, "Publisher"); err == nil {
		e.Publisher = v
	}
	if v, err := st.GetString(key, "InstallLocation"); err == nil {
		e.InstallLocation = v
	}
	if v, err := st.GetString(key, "UninstallString"); err == nil {
		e.UninstallString = v
	}
	if v, err := st.GetString(key, "DisplayIcon"); err == nil {
		e.DisplayIcon = v
	}
	return e
}
