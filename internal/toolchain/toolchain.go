// Package toolchain names the commands the generated build runs.
// Nothing here executes a tool; commands are only rendered into rules.
package toolchain

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/andresj-sanchez/SR2/internal/config"
	"github.com/andresj-sanchez/SR2/internal/ninja"
)

// Rule names shared by the rule table and the build edges.
const (
	RuleAs      = "as"
	RuleCc      = "cc"
	RuleLd      = "ld"
	RuleSha1sum = "sha1sum"
	RuleElf     = "elf"
)

// SkipAsmFlag stops hand-written sources from embedding matched assembly.
const SkipAsmFlag = "-DSKIP_ASM"

// Toolchain is the resolved set of tool invocations.
type Toolchain struct {
	// Cross is the binutils prefix, e.g. "mips-linux-gnu-".
	Cross string
	// Compile runs mwccps2 on $in; the rule appends $cflags and the output.
	Compile       string
	UndefinedSyms []string
}

// FileExists reports whether a regular file or directory exists at p.
type FileExists func(p string) bool

// OSFileExists checks the local filesystem.
func OSFileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// Detect resolves the toolchain for cfg. A bundled binutils under the tools
// directory wins over the one on PATH. On Linux the compiler runs under wine.
func Detect(cfg config.Config, goos string, exists FileExists) Toolchain {
	bundled := path.Join(cfg.ToolsDir, "binutils", cfg.Cross)
	cross := cfg.Cross
	if exists(bundled+"as") || exists(bundled+"as.exe") {
		cross = bundled
	}

	var includes []string
	for _, inc := range cfg.Includes {
		includes = append(includes, "-i "+inc)
	}

	mwcc := fmt.Sprintf("%s/mwccps2 -c %s %s $in", cfg.CompilerDir, strings.Join(includes, " "), cfg.CompileFlags)
	compile := mwcc
	if goos == "linux" && cfg.Wine != "" {
		compile = cfg.Wine + " " + mwcc
	}

	return Toolchain{
		Cross:         cross,
		Compile:       compile,
		UndefinedSyms: cfg.UndefinedSyms,
	}
}

// Rules returns the rule table in emission order.
func (t Toolchain) Rules() []ninja.Rule {
	var ldArgs []string
	ldArgs = append(ldArgs, "-EL")
	for _, s := range t.UndefinedSyms {
		ldArgs = append(ldArgs, "-T "+s)
	}
	ldArgs = append(ldArgs, "-Map $mapfile -T $in -o $out")

	return []ninja.Rule{
		{
			Name:        RuleAs,
			Description: "as $in",
			Command:     t.Cross + "as -no-pad-sections -EL -march=5900 -mabi=eabi -Iinclude -o $out $in",
		},
		{
			Name:        RuleCc,
			Description: "cc $in",
			Command:     t.Compile + " $cflags -o $out",
		},
		{
			Name:        RuleLd,
			Description: "link $out",
			Command:     t.Cross + "ld " + strings.Join(ldArgs, " "),
		},
		{
			Name:        RuleSha1sum,
			Description: "sha1sum $in",
			Command:     "sha1sum -c $in && touch $out",
		},
		{
			Name:        RuleElf,
			Description: "elf $out",
			Command:     t.Cross + "objcopy $in $out -O binary",
		},
	}
}
