// Package output provides consistent CLI output formatting: status lines,
// in-place progress on terminals, and search diagnostics.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Writer provides formatted output for CLI.
type Writer struct {
	out         io.Writer
	interactive bool
	inProgress  bool
}

// New creates a new output Writer. In-place progress is enabled only when
// out is a terminal.
func New(out io.Writer) *Writer {
	return &Writer{
		out:         out,
		interactive: IsTTY(out),
	}
}

// Interactive reports whether progress is rendered in place.
func (w *Writer) Interactive() bool { return w.interactive }

// SetInteractive overrides terminal detection.
func (w *Writer) SetInteractive(on bool) { w.interactive = on }

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	w.endProgress()
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message with checkmark.
func (w *Writer) Success(msg string) {
	w.Status("✅", msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", msg)
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status("❌", msg)
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Line prints msg verbatim followed by a newline.
func (w *Writer) Line(msg string) {
	w.endProgress()
	_, _ = fmt.Fprintln(w.out, msg)
}

// Linef prints a formatted line.
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	w.Line("")
}

// Progress redraws a progress bar in place. It prints nothing when the
// output is not a terminal.
func (w *Writer) Progress(current, total int, msg string) {
	if !w.interactive || total <= 0 {
		return
	}

	pct := min(float64(current)/float64(total)*100, 100)
	bar := renderProgressBar(current, total, 30)
	_, _ = fmt.Fprintf(w.out, "\r[%s] %3.0f%% %s\033[K", bar, pct, msg)
	w.inProgress = true
}

// ProgressDone ends an in-place progress line.
func (w *Writer) ProgressDone() {
	w.endProgress()
}

func (w *Writer) endProgress() {
	if w.inProgress {
		w.inProgress = false
		_, _ = fmt.Fprintln(w.out)
	}
}

// renderProgressBar creates a text progress bar.
func renderProgressBar(current, total, width int) string {
	if total <= 0 {
		return strings.Repeat("░", width)
	}

	filled := int(float64(current) / float64(total) * float64(width))
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
