// Package status prints one-line progress messages for the configure tool.
package status

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss/v2"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	skipStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	pathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Printer writes status lines. Plain printers never emit escape sequences.
type Printer struct {
	w     io.Writer
	plain bool
}

// New returns a printer writing to w.
func New(w io.Writer, plain bool) *Printer {
	return &Printer{w: w, plain: plain}
}

func (p *Printer) render(s lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return s.Render(text)
}

func (p *Printer) line(tag lipgloss.Style, label, msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.render(tag, fmt.Sprintf("%-5s", label)), msg)
}

// Wrote reports a generated file.
func (p *Printer) Wrote(path string) {
	p.line(okStyle, "wrote", p.render(pathStyle, path))
}

// Done reports a finished step.
func (p *Printer) Done(what string) {
	p.line(okStyle, "done", what)
}

// Skipped reports a step that did not run.
func (p *Printer) Skipped(what string) {
	p.line(skipStyle, "skip", what)
}

// Failed reports a fatal error.
func (p *Printer) Failed(err error) {
	p.line(failStyle, "error", err.Error())
}

// Count reports a number of things, e.g. "12 objects".
func (p *Printer) Count(n int, noun, detail string) {
	msg := p.render(countStyle, fmt.Sprintf("%d", n)) + " " + noun
	if detail != "" {
		msg += " " + p.render(dimStyle, detail)
	}
	p.line(okStyle, "", msg)
}

// Detail prints an indented, preformatted line.
func (p *Printer) Detail(text string) {
	fmt.Fprintf(p.w, "      %s\n", text)
}
