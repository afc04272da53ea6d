// Package shortloop rewrites branch instructions in a fixed set of routines
// into raw .word directives so the assembler cannot pad the loops they close.
package shortloop

import (
	"regexp"
	"slices"
)

// opcodePattern matches a whole line whose leading disassembly comment holds
// the four instruction bytes followed by a branch mnemonic. Anything after
// the operands is kept verbatim outside the rewritten comment.
var opcodePattern = regexp.MustCompile(
	`(?m)^([ \t]*)/\* ([^*\n]+) ([0-9A-Z]{2})([0-9A-Z]{2})([0-9A-Z]{2})([0-9A-Z]{2}) \*/` +
		`  (\b(?:bne|bnel|beq|beql|bnez|bnezl|beqzl|bgez|bgezl|bgtz|bgtzl|blez|blezl|bltz|bltzl|b)\b[^/\n]*?)` +
		`([ \t]*(?:/\*.*)?)$`,
)

// The comment lists bytes in memory order; the word is little endian.
const replacement = `${1}/* ${2} ${3}${4}${5}${6} */  .word      0x${6}${5}${4}${3} /* ${7} */${8}`

// Routines lists the functions known to trigger the defect, keyed by the
// stem of their nonmatching assembly file.
var Routines = []string{
	"UpdateJtActive__FP2JTP3JOYf",                               // P2/jt
	"AddMatrix4Matrix4__FP7MATRIX4N20",                          // P2/mat
	"FInvertMatrix__FiPfT1",                                     // P2/mat
	"PwarpFromOid__F3OIDT0",                                     // P2/xform
	"RenderMsGlobset__FP2MSP2CMP2RO",                            // P2/ms
	"ProjectBlipgTransform__FP5BLIPGfi",                         // P2/blip
	"DrawTvBands__FP2TVR4GIFS",                                  // P2/tv
	"LoadShadersFromBrx__FP18CBinaryInputStream",                // P2/shd
	"FillShaders__Fi",                                           // P2/shd
	"FUN_001aea70",                                              // P2/screen
	"ApplyDzg__FP3DZGiPiPPP2SOff",                               // P2/dzg
	"BounceRipgRips__FP4RIPG",                                   // P2/rip
	"UpdateStepPhys__FP4STEP",                                   // P2/step
	"PredictAsegEffect__FP4ASEGffP3ALOT3iP6VECTORP7MATRIX3T6T6", // P2/aseg
	"ExplodeExplsExplso__FP5EXPLSP6EXPLSO",                      // P2/emitter
	"UpdateShadow__FP6SHADOWf",                                  // P2/shadow
}

// Transformer rewrites the text of one assembly file. It returns the new
// text and the number of rewritten instructions.
type Transformer interface {
	Transform(stem, text string) (string, int)
}

// Patcher rewrites branches only in files whose stem is allow-listed.
type Patcher struct {
	allow map[string]bool
}

// NewPatcher returns a patcher for the given routines, or for Routines when
// none are given.
func NewPatcher(routines ...string) *Patcher {
	if len(routines) == 0 {
		routines = Routines
	}
	allow := make(map[string]bool, len(routines))
	for _, r := range routines {
		allow[r] = true
	}
	return &Patcher{allow: allow}
}

// Allowed reports whether files with this stem are rewritten.
func (p *Patcher) Allowed(stem string) bool {
	return p.allow[stem]
}

// Names returns the allow-list in sorted order.
func (p *Patcher) Names() []string {
	names := make([]string, 0, len(p.allow))
	for n := range p.allow {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Transform implements Transformer. Text is returned unchanged when the stem
// is not allow-listed or nothing matches.
func (p *Patcher) Transform(stem, text string) (string, int) {
	if !p.allow[stem] {
		return text, 0
	}
	n := len(opcodePattern.FindAllStringIndex(text, -1))
	if n == 0 {
		return text, 0
	}
	return opcodePattern.ReplaceAllString(text, replacement), n
}
