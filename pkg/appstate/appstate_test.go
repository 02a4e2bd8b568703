package appstate

import (
	"path/filepath"
	"testing"

	"github.com/a-kowalenko/aeromedia-setup/pkg/manifest"
	"github.com/a-kowalenko/aeromedia-setup/pkg/regentry"
	"github.com/a-kowalenko/aeromedia-setup/pkg/store"
)

func TestDetectAbsent(t *testing.T) {
	st := store.NewMemory()
	if _, ok := Detect(st, "AeroMediaService", "AeroMediaService.exe"); ok {
		t.Error("Detect reported an install on an empty store")
	}
}

func TestDetectInstalled(t *testing.T) {
	st := store.NewMemory()
	m := &manifest.Manifest{
		AppName:    "AeroMediaService",
		Version:    "1.4.0",
		Publisher:  "AKSoftware",
		Executable: "AeroMediaService.exe",
	}
	if _, err := regentry.Write(st, m, `C:\apps\ams`, 0); err != nil {
		t.Fatal(err)
	}

	installed, ok := Detect(st, "AeroMediaService", "AeroMediaService.exe")
	if !ok {
		t.Fatal("Detect missed the uninstall entry")
	}
	if installed.Version != "1.4.0" {
		t.Errorf("Version = %q", installed.Version)
	}
	if installed.InstallPath != `C:\apps\ams` {
		t.Errorf("InstallPath = %q", installed.InstallPath)
	}
}

func TestDetectFallsBackToFileVersion(t *testing.T) {
	st := store.NewMemory()
	m := &manifest.Manifest{
		AppName:    "AeroMediaService",
		Publisher:  "AKSoftware",
		Executable: "AeroMediaService.exe",
	}
	if _, err := regentry.Write(st, m, `C:\apps\ams`, 0); err != nil {
		t.Fatal(err)
	}

	var gotPath string
	orig := fileVersion
	fileVersion = func(path string) string {
		gotPath = path
		return "1.2.3.0"
	}
	defer func() { fileVersion = orig }()

	installed, ok := Detect(st, "AeroMediaService", "AeroMediaService.exe")
	if !ok {
		t.Fatal("Detect missed the uninstall entry")
	}
	if installed.Version != "1.2.3" {
		t.Errorf("Version = %q, want normalized file version fallback", installed.Version)
	}
	if gotPath != filepath.Join(`C:\apps\ams`, "AeroMediaService.exe") {
		t.Errorf("file version read from %q", gotPath)
	}
}

func TestDecide(t *testing.T) {
	cases := []struct {
		name      string
		installed *Installed
		target    string
		want      Action
	}{
		{"fresh install", nil, "2.0.0", ActionInstall},
		{"older installed", &Installed{Version: "1.9.0"}, "2.0.0", ActionUpgrade},
		{"same version", &Installed{Version: "2.0.0"}, "2.0.0", ActionReinstall},
		{"same version different form", &Installed{Version: "2.0"}, "2.0.0", ActionReinstall},
		{"newer installed", &Installed{Version: "2.1.0"}, "2.0.0", ActionDowngrade},
		{"unparseable recorded version", &Installed{Version: "garbage"}, "2.0.0", ActionUpgrade},
		{"blank recorded version", &Installed{}, "2.0.0", ActionUpgrade},
		{"blank target", &Installed{Version: "1.0.0"}, "", ActionUpgrade},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decide(tc.installed, tc.target)
			if err != nil {
				t.Fatalf("Decide: %v", err)
			}
			if got != tc.want {
				t.Errorf("Decide = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDecideBadTargetVersion(t *testing.T) {
	if _, err := Decide(&Installed{Version: "1.0.0"}, "not a version"); err == nil {
		t.Fatal("expected error for unparseable target version")
	}
}
