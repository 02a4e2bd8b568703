// pkg/deploy/deploy.go - copies the payload tree into the install root and
// removes it again on uninstall.

package deploy

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/a-kowalenko/aeromedia-setup/pkg/logging"
	"github.com/a-kowalenko/aeromedia-setup/pkg/receipt"
)

// IOError is a fatal filesystem failure during deployment (permissions, disk
// full). Install aborts on it; the partial record survives for cleanup.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("deploy %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Deploy recursively copies sourceTree into destRoot, creating directories as
// needed and overwriting existing files. Every destination file is recorded
// on rec as it lands, so a failed run still leaves an accurate partial record
// behind; nothing is rolled back.
func Deploy(sourceTree, destRoot string, rec *receipt.Record) error {
	sourceTree = filepath.Clean(sourceTree)
	destRoot = filepath.Clean(destRoot)

	if err := os.MkdirAll(destRoot, 0755); err != nil {
		return &IOError{Op: "mkdir", Path: destRoot, Err: err}
	}

	walkErr := filepath.WalkDir(sourceTree, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &IOError{Op: "walk", Path: path, Err: err}
		}
		rel, err := filepath.Rel(sourceTree, path)
		if err != nil {
			return &IOError{Op: "rel", Path: path, Err: err}
		}
		if rel == "." {
			return nil
		}
		dest := filepath.Join(destRoot, rel)

		if d.IsDir() {
			if err := os.MkdirAll(dest, 0755); err != nil {
				return &IOError{Op: "mkdir", Path: dest, Err: err}
			}
			return nil
		}

		if err := copyFile(path, dest); err != nil {
			return err
		}
		if err := rec.AddFile(dest); err != nil {
			return &IOError{Op: "record", Path: dest, Err: err}
		}
		logging.Debug("Deployed file", "source", path, "dest", dest)
		return nil
	})

	if walkErr != nil {
		return walkErr
	}
	logging.Info("Payload deployed", "files", len(rec.DeployedFiles), "dest", destRoot)
	return nil
}

// copyFile copies one regular file, overwriting any existing destination.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return &IOError{Op: "open", Path: src, Err: err}
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return &IOError{Op: "mkdir", Path: filepath.Dir(dst), Err: err}
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return &IOError{Op: "create", Path: dst, Err: err}
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return &IOError{Op: "copy", Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		return &IOError{Op: "close", Path: dst, Err: err}
	}
	return nil
}

// Remove deletes the recorded install root recursively. Missing paths are
// not errors; running it twice is a no-op the second time.
func Remove(rec *receipt.Record) error {
	return RemoveRoot(rec.InstallPath)
}

// RemoveRoot deletes an install root recursively, idempotently.
func RemoveRoot(root string) error {
	if root == "" || root == string(filepath.Separator) {
		return fmt.Errorf("refusing to remove install root %q", root)
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		logging.Debug("Install root already absent", "root", root)
		return nil
	}
	if err := os.RemoveAll(root); err != nil {
		return &IOError{Op: "remove", Path: root, Err: err}
	}
	logging.Info("Install root removed", "root", root)
	return nil
}

// RemoveRootExcept deletes everything under root except the file at
// keep. Used when the uninstaller itself lives inside the root: the
// running binary cannot be deleted, so everything around it goes and
// the leftover is scheduled for removal at reboot by the caller.
func RemoveRootExcept(root, keep string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &IOError{Op: "readdir", Path: root, Err: err}
	}
	keep = filepath.Clean(keep)
	for _, e := range entries {
		p := filepath.Join(root, e.Name())
		if filepath.Clean(p) == keep {
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			return &IOError{Op: "remove", Path: p, Err: err}
		}
	}
	return nil
}
