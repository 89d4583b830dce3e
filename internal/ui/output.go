package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Stdout and Stderr receive every status line; the CLI points them at the
// command's writers.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

func emit(w io.Writer, style lipgloss.Style, symbol, msg string) {
	fmt.Fprintln(w, style.Render(symbol+" "+msg))
}

// OK reports a completed command.
func OK(msg string) { emit(Stdout, SuccessStyle, "✔", msg) }

// Warn reports something the user should know about that did not stop the command.
func Warn(msg string) { emit(Stderr, WarnStyle, "!", msg) }

// Fail reports a failed command.
func Fail(msg string) { emit(Stderr, ErrorStyle, "✖", msg) }

// Panel prints lines inside the rounded border.
func Panel(lines []string) {
	fmt.Fprintln(Stdout, BorderStyle.Render(strings.Join(lines, "\n")))
}
