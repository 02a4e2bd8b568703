// Package progress reports setup progress to whoever is watching the
// console. Silent runs swap in the no-op reporter.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Reporter receives progress updates during install and uninstall runs.
type Reporter interface {
	Message(txt string)
	Detail(txt string)
	// Percent reports completion; -1 means indeterminate.
	Percent(pct int)
	Error(err error)
}

// Console writes progress lines to a writer, stdout by default.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole returns a reporter writing to stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter returns a reporter writing to w.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

func (c *Console) Message(txt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, txt)
}

func (c *Console) Detail(txt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "  %s\n", txt)
}

func (c *Console) Percent(pct int) {
	if pct < 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "  %d%%\n", pct)
}

func (c *Console) Error(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "error: %v\n", err)
}

// Nop discards all progress. Used for silent runs.
type Nop struct{}

func (Nop) Message(string) {}
func (Nop) Detail(string)  {}
func (Nop) Percent(int)    {}
func (Nop) Error(error)    {}

// ForConfig picks the reporter for the run: silent gets Nop.
func ForConfig(silent bool) Reporter {
	if silent {
		return Nop{}
	}
	return NewConsole()
}
