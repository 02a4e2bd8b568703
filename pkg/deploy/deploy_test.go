package deploy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/a-kowalenko/aeromedia-setup/pkg/receipt"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestDeployCopiesTree(t *testing.T) {
	src := writeTree(t, map[string]string{
		"a.exe":          "binary",
		"b.dll":          "library",
		"assets/skin.ui": "layout",
	})
	dst := filepath.Join(t.TempDir(), "AeroMediaService")
	rec := receipt.New("AeroMediaService", "1.0.0", dst)

	if err := Deploy(src, dst, rec); err != nil {
		t.Fatalf("Deploy: %v", err)
	}

	for _, rel := range []string{"a.exe", "b.dll", filepath.Join("assets", "skin.ui")} {
		data, err := os.ReadFile(filepath.Join(dst, rel))
		if err != nil {
			t.Errorf("deployed file %s missing: %v", rel, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("deployed file %s is empty", rel)
		}
	}
	if len(rec.DeployedFiles) != 3 {
		t.Errorf("recorded %d files, want 3", len(rec.DeployedFiles))
	}
}

func TestDeployOverwritesExisting(t *testing.T) {
	src := writeTree(t, map[string]string{"a.exe": "new version"})
	dst := t.TempDir()
	stale := filepath.Join(dst, "a.exe")
	if err := os.WriteFile(stale, []byte("old version with longer content"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := receipt.New("app", "2.0.0", dst)
	if err := Deploy(src, dst, rec); err != nil {
		t.Fatalf("Deploy: %v", err)
	}
	data, err := os.ReadFile(stale)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new version" {
		t.Errorf("overwrite left %q", data)
	}
}

func TestDeployMissingSource(t *testing.T) {
	dst := t.TempDir()
	rec := receipt.New("app", "1.0.0", dst)
	err := Deploy(filepath.Join(t.TempDir(), "nope"), dst, rec)
	if err == nil {
		t.Fatal("expected error for missing source tree")
	}
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError, got %T: %v", err, err)
	}
}

func TestRemoveRootIdempotent(t *testing.T) {
	src := writeTree(t, map[string]string{"a.exe": "x"})
	dst := filepath.Join(t.TempDir(), "app")
	rec := receipt.New("app", "1.0.0", dst)
	if err := Deploy(src, dst, rec); err != nil {
		t.Fatal(err)
	}

	if err := RemoveRoot(dst); err != nil {
		t.Fatalf("first RemoveRoot: %v", err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("install root still present after removal")
	}
	if err := RemoveRoot(dst); err != nil {
		t.Fatalf("second RemoveRoot should be a no-op: %v", err)
	}
}

func TestRemoveRootRefusesEmptyPath(t *testing.T) {
	if err := RemoveRoot(""); err == nil {
		t.Fatal("expected refusal for empty root")
	}
}

func TestRemoveRootExceptKeepsOneFile(t *testing.T) {
	src := writeTree(t, map[string]string{
		"app.exe":       "x",
		"uninstall.exe": "self",
		"data/db.bin":   "y",
	})
	dst := filepath.Join(t.TempDir(), "app")
	rec := receipt.New("app", "1.0.0", dst)
	if err := Deploy(src, dst, rec); err != nil {
		t.Fatal(err)
	}

	keep := filepath.Join(dst, "uninstall.exe")
	if err := RemoveRootExcept(dst, keep); err != nil {
		t.Fatalf("RemoveRootExcept: %v", err)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Errorf("kept file removed: %v", err)
	}
	entries, err := os.ReadDir(dst)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the kept file to remain, found %d entries", len(entries))
	}
}
