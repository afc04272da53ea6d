// Package colorize highlights GNU assembler source for terminal output.
package colorize

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// EnvNoColor disables highlighting when set to any value.
const EnvNoColor = "CONFIGURE_NO_COLOR"

// Enabled reports whether output should be highlighted.
func Enabled() bool {
	return os.Getenv(EnvNoColor) == ""
}

func assemblyLexer() chroma.Lexer {
	for _, name := range []string{"gas", "GAS", "nasm"} {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

func assemblyStyle() *chroma.Style {
	for _, name := range []string{AsmDark.Name, "dracula", "monokai"} {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

func terminalFormatter() chroma.Formatter {
	for _, name := range []string{"terminal16m", "terminal256"} {
		if f := formatters.Get(name); f != nil {
			return f
		}
	}
	return formatters.Fallback
}

// Assembly highlights code. The input is returned unchanged when colors are
// disabled or no lexer is available.
func Assembly(code string) (string, error) {
	if !Enabled() {
		return code, nil
	}
	lexer := assemblyLexer()
	if lexer == nil {
		return code, nil
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, err
	}
	var buf strings.Builder
	if err := terminalFormatter().Format(&buf, assemblyStyle(), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}

// Line highlights a single line, falling back to the plain text on error.
// The newline the lexer appends is dropped.
func Line(line string) string {
	out, err := Assembly(line)
	if err != nil {
		return line
	}
	if i := strings.LastIndex(out, "\n"); i >= 0 && !strings.Contains(line, "\n") {
		out = out[:i] + out[i+1:]
	}
	return out
}
