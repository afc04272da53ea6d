package build

import (
	"github.com/andresj-sanchez/SR2/internal/ninja"
	"github.com/andresj-sanchez/SR2/internal/toolchain"
)

// LinkStage links every built object and verifies the result.
type LinkStage struct {
	LinkerScript string
	// Elf is the linked container; Binary is the flat image extracted from it.
	Elf          string
	Binary       string
	MapFile      string
	ChecksumFile string
	SkipChecksum bool
}

// OkFile is the marker written when the checksum matches.
func (l LinkStage) OkFile() string { return l.Binary + ".ok" }

// Emit returns the link, extract and verify actions. All of objects become
// implicit inputs of the link; a missing one only shows up as an
// unresolved symbol when ninja runs the linker.
func (l LinkStage) Emit(objects *ObjectSet) []Action {
	actions := []Action{
		{
			Outputs:   []string{l.Elf},
			Rule:      toolchain.RuleLd,
			Inputs:    []string{l.LinkerScript},
			Implicit:  objects.Sorted(),
			Variables: []ninja.Var{{Key: "mapfile", Value: l.MapFile}},
		},
		{
			Outputs: []string{l.Binary},
			Rule:    toolchain.RuleElf,
			Inputs:  []string{l.Elf},
		},
	}

	if l.SkipChecksum {
		return actions
	}
	return append(actions, Action{
		Outputs:  []string{l.OkFile()},
		Rule:     toolchain.RuleSha1sum,
		Inputs:   []string{l.ChecksumFile},
		Implicit: []string{l.Binary},
	})
}
