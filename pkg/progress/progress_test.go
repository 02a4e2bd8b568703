package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf)

	c.Message("Installing AeroMediaService 2.1.0")
	c.Detail("Copying files")
	c.Percent(60)
	c.Percent(-1) // indeterminate, no output
	c.Error(errors.New("disk full"))

	out := buf.String()
	for _, want := range []string{
		"Installing AeroMediaService 2.1.0",
		"Copying files",
		"60%",
		"error: disk full",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "-1") {
		t.Error("indeterminate percent should print nothing")
	}
}

func TestForConfig(t *testing.T) {
	if _, ok := ForConfig(true).(Nop); !ok {
		t.Error("silent run should get the no-op reporter")
	}
	if _, ok := ForConfig(false).(*Console); !ok {
		t.Error("interactive run should get the console reporter")
	}
}
