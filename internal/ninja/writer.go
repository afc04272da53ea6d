// Package ninja writes ninja build files.
package ninja

import (
	"bufio"
	"io"
	"strings"
)

// Var is a single "key = value" binding. Bindings are kept in slices so the
// output order is stable.
type Var struct {
	Key   string
	Value string
}

// Rule describes how to run a command.
type Rule struct {
	Name        string
	Command     string
	Description string
}

// Build is one build edge.
type Build struct {
	Outputs         []string
	Rule            string
	Inputs          []string
	Implicit        []string
	ImplicitOutputs []string
	Variables       []Var
}

// Writer emits ninja syntax. Lines are never wrapped. Errors are sticky and
// reported by Flush.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter returns a Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) line(text string, indent int) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.WriteString(strings.Repeat("  ", indent) + text + "\n")
}

// Newline writes an empty line.
func (w *Writer) Newline() {
	w.line("", 0)
}

// Comment writes a "#" comment line.
func (w *Writer) Comment(text string) {
	w.line("# "+text, 0)
}

// Variable writes a binding. Empty values are skipped.
func (w *Writer) Variable(key, value string, indent int) {
	if value == "" {
		return
	}
	w.line(key+" = "+value, indent)
}

// Rule writes a rule block.
func (w *Writer) Rule(r Rule) {
	w.line("rule "+r.Name, 0)
	w.Variable("command", r.Command, 1)
	w.Variable("description", r.Description, 1)
}

// Build writes a build edge and its bindings.
func (w *Writer) Build(b Build) {
	outs := escapeAll(b.Outputs)
	if len(b.ImplicitOutputs) > 0 {
		outs = append(outs, "|")
		outs = append(outs, escapeAll(b.ImplicitOutputs)...)
	}

	ins := append([]string{b.Rule}, escapeAll(b.Inputs)...)
	if len(b.Implicit) > 0 {
		ins = append(ins, "|")
		ins = append(ins, escapeAll(b.Implicit)...)
	}

	w.line("build "+strings.Join(outs, " ")+": "+strings.Join(ins, " "), 0)
	for _, v := range b.Variables {
		w.Variable(v.Key, v.Value, 1)
	}
}

// Flush writes any buffered data and returns the first error seen.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

// EscapePath escapes the characters ninja treats specially in paths.
func EscapePath(p string) string {
	p = strings.ReplaceAll(p, "$ ", "$$ ")
	p = strings.ReplaceAll(p, " ", "$ ")
	return strings.ReplaceAll(p, ":", "$:")
}

func escapeAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, EscapePath(p))
	}
	return out
}
