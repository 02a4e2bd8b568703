package hooks

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

func TestRunMissingScriptIsNoop(t *testing.T) {
	if err := Run(filepath.Join(t.TempDir(), "preinstall.ps1"), "pre-install"); err != nil {
		t.Fatalf("missing script should be a no-op: %v", err)
	}
}

func TestRunEmptyPathIsNoop(t *testing.T) {
	if err := Run("", "pre-install"); err != nil {
		t.Fatalf("empty path should be a no-op: %v", err)
	}
}

func TestRunExecutesScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell substitute for the PowerShell host")
	}
	script := filepath.Join(t.TempDir(), "postinstall.ps1")
	if err := os.WriteFile(script, []byte("placeholder"), 0644); err != nil {
		t.Fatal(err)
	}

	var gotScript string
	orig := execCommand
	execCommand = func(name string, args ...string) *exec.Cmd {
		gotScript = args[len(args)-1]
		return exec.Command("true")
	}
	defer func() { execCommand = orig }()

	if err := Run(script, "post-install"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gotScript == "" || !filepath.IsAbs(script) {
		t.Error("script path was not passed to the host")
	}
}

func TestTrimOutputLine(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "installing service", "installing service"},
		{"whitespace", "  done \r", "done"},
		{"byte order mark", "\uFEFFWriting configuration", "Writing configuration"},
		{"blank", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := trimOutputLine(tc.in); got != tc.want {
				t.Errorf("trimOutputLine(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestRunReportsFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell substitute for the PowerShell host")
	}
	script := filepath.Join(t.TempDir(), "preinstall.ps1")
	if err := os.WriteFile(script, []byte("placeholder"), 0644); err != nil {
		t.Fatal(err)
	}

	orig := execCommand
	execCommand = func(name string, args ...string) *exec.Cmd {
		return exec.Command("false")
	}
	defer func() { execCommand = orig }()

	if err := Run(script, "pre-install"); err == nil {
		t.Fatal("expected error for failing script")
	}
}
