package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Printer provides methods for printing UI components to a writer.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{out: w, width: GetTerminalWidth()}
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// SetWidth overrides the rendering width.
func (p *Printer) SetWidth(width int) *Printer {
	p.width = width
	return p
}

func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string) {
	p.Println(RenderHeader(title, command, p.width))
}

// PrintTable prints aligned key/value lines without a box.
func (p *Printer) PrintTable(details ...Detail) {
	for _, line := range renderDetails(details, "  ") {
		p.Println(line)
	}
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Detail) {
	p.Println(NewSuccessResult(title, details...).SetWidth(p.width).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Detail) {
	p.Println(NewWarningResult(title, details...).SetWidth(p.width).Render())
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.Println(NewFailureResult(title, err, troubleshooting).SetWidth(p.width).Render())
}

// RenderHeader renders a command header box
func RenderHeader(title, command string, width int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		HeaderTitleStyle.Render(strings.ToUpper(title)),
		HeaderCommandStyle.Render(command),
	)
	return HeaderBorderStyle(width).Render(content)
}

// HintLines splits a multi-line hint into a summary and troubleshooting bullets.
// Lines starting with "•" become bullets; a "Troubleshooting:" line is dropped.
func HintLines(hint string) (summary string, tips []string) {
	var head []string
	for _, line := range strings.Split(hint, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "" || trimmed == "Troubleshooting:":
		case strings.HasPrefix(trimmed, "•"):
			tips = append(tips, strings.TrimSpace(strings.TrimPrefix(trimmed, "•")))
		default:
			head = append(head, trimmed)
		}
	}
	return strings.Join(head, " "), tips
}
