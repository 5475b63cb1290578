// Package output prints CLI results and messages.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Stdout and Stderr are swapped out by tests
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// Error prints an error message to stderr
func Error(format string, args ...any) {
	fmt.Fprintln(Stderr, errorStyle.Render("ERROR:")+" "+fmt.Sprintf(format, args...))
}

// Warning prints a warning to stderr
func Warning(format string, args ...any) {
	fmt.Fprintln(Stderr, warningStyle.Render("WARNING:")+" "+fmt.Sprintf(format, args...))
}

// Success prints a confirmation to stdout
func Success(format string, args ...any) {
	fmt.Fprintln(Stdout, successStyle.Render(fmt.Sprintf(format, args...)))
}

// JSON writes v as indented JSON to stdout
func JSON(v any) error {
	enc := json.NewEncoder(Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
