package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"gonum.org/v1/gonum/mat"
)

// Console prints the operator-facing report lines
type Console struct {
	out     io.Writer
	info    *color.Color
	success *color.Color
	warn    *color.Color
	fail    *color.Color
	title   *color.Color
}

// NewConsole reports to w (stdout when nil). Colour follows fatih/color's terminal detection.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{
		out:     w,
		info:    color.New(color.FgCyan),
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed, color.Bold),
		title:   color.New(color.Bold),
	}
}

// Printf writes plain text
func (c *Console) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// Info reports progress
func (c *Console) Info(format string, args ...interface{}) {
	c.info.Fprintf(c.out, format+"\n", args...)
}

// Success reports a completed step
func (c *Console) Success(format string, args ...interface{}) {
	c.success.Fprintf(c.out, "✅ "+format+"\n", args...)
}

// Warn reports a recoverable problem
func (c *Console) Warn(format string, args ...interface{}) {
	c.warn.Fprintf(c.out, "⚠️  "+format+"\n", args...)
}

// Fail reports an error that stopped the current command
func (c *Console) Fail(format string, args ...interface{}) {
	c.fail.Fprintf(c.out, "❌ "+format+"\n", args...)
}

// Matrix prints a titled matrix block followed by a blank line
func (c *Console) Matrix(title string, m mat.Matrix) {
	c.title.Fprintf(c.out, "%s:\n", title)
	fmt.Fprintf(c.out, "%.6g\n\n", mat.Formatted(m, mat.Squeeze()))
}

// Block prints a titled free-form block followed by a blank line
func (c *Console) Block(title, body string) {
	c.title.Fprintf(c.out, "%s:\n", title)
	fmt.Fprintf(c.out, "%s\n\n", strings.TrimRight(body, "\n"))
}
