package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// AsmDark highlights .word rewrites and their comments apart from the
// surrounding splitter output.
var AsmDark = styles.Register(chroma.MustNewStyle("mips-asm-dark", chroma.StyleEntries{
	chroma.Text:       "#D4D4D4",
	chroma.Background: "bg:#1e1e1e",
	chroma.Comment:    "#6A9955",

	chroma.Keyword:       "#FFFFFF",
	chroma.KeywordPseudo: "#C586C0", // directives such as .word
	chroma.NameAttribute: "#C586C0",
	chroma.Name:          "#9CDCFE", // registers
	chroma.NameVariable:  "#9CDCFE",
	chroma.NameFunction:  "#FFFFFF", // mnemonics

	chroma.LiteralNumber:    "#FF5F87",
	chroma.LiteralNumberHex: "#FF5F87",

	chroma.NameLabel: "#FFD700",
	chroma.Operator:  "#D4D4D4",

	chroma.Punctuation: "#D4D4D4",
	chroma.String:      "#EACD53",
}))
