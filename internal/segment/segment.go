// Package segment models the binary segments exported by the splitter.
// Each entry names the content kind of one slice of the original binary,
// the source files that rebuild it and the object the linker script expects.
package segment

import (
	"path"
	"strings"
)

// Kind is the content kind of a segment.
type Kind int

const (
	KindUnsupported Kind = iota
	KindMeta             // section markers such as ".data"; never built
	KindAsm
	KindHasm
	KindData
	KindRodata
	KindSdata
	KindBss
	KindSbss
	KindDatabin
	KindRodatabin
	KindTextbin
	KindBin
	KindC
	KindCpp
)

var kindNames = map[string]Kind{
	"asm":       KindAsm,
	"hasm":      KindHasm,
	"data":      KindData,
	"rodata":    KindRodata,
	"sdata":     KindSdata,
	"bss":       KindBss,
	"sbss":      KindSbss,
	"databin":   KindDatabin,
	"rodatabin": KindRodatabin,
	"textbin":   KindTextbin,
	"bin":       KindBin,
	"c":         KindC,
	"cpp":       KindCpp,
}

// ParseKind maps a splitter segment type name to a Kind.
// Unknown names yield KindUnsupported.
func ParseKind(name string) Kind {
	if strings.HasPrefix(name, ".") {
		return KindMeta
	}
	if k, ok := kindNames[name]; ok {
		return k
	}
	return KindUnsupported
}

// Assembles reports whether segments of this kind are built by the assembler.
func (k Kind) Assembles() bool {
	switch k {
	case KindAsm, KindHasm, KindData, KindRodata, KindSdata, KindBss, KindSbss,
		KindDatabin, KindRodatabin, KindTextbin, KindBin:
		return true
	}
	return false
}

// Compiles reports whether segments of this kind are built by the C/C++ compiler.
func (k Kind) Compiles() bool {
	return k == KindC || k == KindCpp
}

// SourceRoot is the tree a source path lives in.
type SourceRoot int

const (
	RootOther SourceRoot = iota
	RootAsm              // generated assembly, "asm/"
	RootSrc              // hand-written sources, "src/"
)

const (
	AsmDir = "asm"
	SrcDir = "src"
)

// RootOf classifies p by its first path segment.
func RootOf(p string) SourceRoot {
	first, _, _ := strings.Cut(path.Clean(p), "/")
	switch first {
	case AsmDir:
		return RootAsm
	case SrcDir:
		return RootSrc
	}
	return RootOther
}

// Rel strips the root directory from p. Paths outside a known root are
// returned unchanged.
func Rel(p string) string {
	p = path.Clean(p)
	if RootOf(p) == RootOther {
		return p
	}
	_, rest, _ := strings.Cut(p, "/")
	return rest
}

// Entry is one segment to build.
type Entry struct {
	Kind Kind
	// Type is the splitter's name for the kind, kept for diagnostics.
	Type        string
	SourcePaths []string
	// ObjectPath is empty when the splitter assigned no object.
	ObjectPath string
	Root       SourceRoot
}

// NewEntry builds an Entry, resolving its kind and source root once.
func NewEntry(typ string, sources []string, object string) Entry {
	e := Entry{
		Kind:        ParseKind(typ),
		Type:        typ,
		SourcePaths: sources,
		ObjectPath:  object,
	}
	if len(sources) > 0 {
		e.Root = RootOf(sources[0])
	}
	return e
}

// PrimarySource returns the first source path, or "" if there is none.
func (e Entry) PrimarySource() string {
	if len(e.SourcePaths) == 0 {
		return ""
	}
	return e.SourcePaths[0]
}

// Buildable reports whether the entry produces an object at all.
func (e Entry) Buildable() bool {
	return e.Kind != KindMeta && e.ObjectPath != ""
}
