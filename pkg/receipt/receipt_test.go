package receipt

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAddFileRejectsOutsideRoot(t *testing.T) {
	root := t.TempDir()
	rec := New("app", "1.0.0", root)

	if err := rec.AddFile(filepath.Join(root, "bin", "app.exe")); err != nil {
		t.Errorf("path under root rejected: %v", err)
	}
	if err := rec.AddFile(filepath.Join(filepath.Dir(root), "elsewhere.exe")); err == nil {
		t.Error("path outside root accepted")
	}
	if err := rec.AddFile(filepath.Join(root, "..", "escape.exe")); err == nil {
		t.Error("traversal path accepted")
	}
	// A base name starting with dots is still inside the root.
	if err := rec.AddFile(filepath.Join(root, "..data")); err != nil {
		t.Errorf("in-root dotted name rejected: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	rec := New("AeroMediaService", "2.1.0", root)
	rec.Processes = []string{"AeroMediaService.exe"}
	if err := rec.AddFile(filepath.Join(root, "app.exe")); err != nil {
		t.Fatal(err)
	}
	rec.AddShortcut(`C:\Users\Public\Desktop\AeroMediaService.lnk`)
	rec.AddRegistryKey(`SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall\AeroMediaService`)

	if err := rec.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.AppName != "AeroMediaService" || got.Version != "2.1.0" {
		t.Errorf("identity lost: %+v", got)
	}
	if len(got.DeployedFiles) != 1 || len(got.Shortcuts) != 1 || len(got.RegistryKeys) != 1 {
		t.Errorf("artifact lists lost: %+v", got)
	}
	if len(got.Processes) != 1 || got.Processes[0] != "AeroMediaService.exe" {
		t.Errorf("processes lost: %v", got.Processes)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected error for missing receipt")
	}
}

func TestDeleteIdempotent(t *testing.T) {
	root := t.TempDir()
	rec := New("app", "1.0.0", root)
	if err := rec.Save(); err != nil {
		t.Fatal(err)
	}

	if err := rec.Delete(); err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	if _, err := os.Stat(rec.Path()); !os.IsNotExist(err) {
		t.Error("receipt file still present")
	}
	if err := rec.Delete(); err != nil {
		t.Fatalf("second Delete should be a no-op: %v", err)
	}
}
