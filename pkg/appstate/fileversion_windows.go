//go:build windows

package appstate

import (
	"fmt"

	"github.com/gonutz/w32"
)

// ExecutableVersion reads the version resource embedded in the PE file
// at path. Returns "" when the file carries no version resource.
func ExecutableVersion(path string) string {
	size := w32.GetFileVersionInfoSize(path)
	if size == 0 {
		return ""
	}
	data := make([]byte, size)
	if !w32.GetFileVersionInfo(path, data) {
		return ""
	}
	info, ok := w32.VerQueryValueRoot(data)
	if !ok {
		return ""
	}
	fv := info.FileVersion()
	return fmt.Sprintf("%d.%d.%d.%d",
		(fv>>48)&0xFFFF,
		(fv>>32)&0xFFFF,
		(fv>>16)&0xFFFF,
		fv&0xFFFF)
}
