package build

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"

	"github.com/andresj-sanchez/SR2/internal/fsutil"
	"github.com/andresj-sanchez/SR2/internal/ninja"
	"github.com/andresj-sanchez/SR2/internal/objpath"
	"github.com/andresj-sanchez/SR2/internal/segment"
	"github.com/andresj-sanchez/SR2/internal/toolchain"
)

// Builder emits assemble and compile actions for segment entries.
type Builder struct {
	// DualTree builds every entry twice: once into TargetDir (tracked) and
	// once into CurrentDir with SKIP_ASM set (untracked).
	DualTree   bool
	TargetDir  string
	CurrentDir string

	// Sources is scanned under SrcDir for hand-written files no entry
	// mentions. A nil Sources skips the scan.
	Sources fs.FS
	SrcDir  string
}

var skipAsmVars = []ninja.Var{{Key: "cflags", Value: toolchain.SkipAsmFlag}}

// ruleFor dispatches on the segment kind.
func ruleFor(entry segment.Entry) (string, error) {
	switch k := entry.Kind; {
	case k.Assembles():
		return toolchain.RuleAs, nil
	case k.Compiles():
		return toolchain.RuleCc, nil
	default:
		return "", &UnsupportedSegmentKindError{Kind: entry.Type}
	}
}

// Emit returns the actions for a single entry. Entries that produce no
// object are skipped without error.
func (b Builder) Emit(entry segment.Entry) (Emission, error) {
	if !entry.Buildable() {
		return Emission{}, nil
	}

	rule, err := ruleFor(entry)
	if err != nil {
		return Emission{}, err
	}

	objects := []string{entry.ObjectPath}
	if !b.DualTree {
		return emit(objpath.Resolver{}, rule, objects, entry.SourcePaths, nil, true), nil
	}

	target := emit(objpath.Resolver{OutDir: b.TargetDir}, rule, objects, entry.SourcePaths, nil, true)
	current := emit(objpath.Resolver{OutDir: b.CurrentDir}, rule, objects, entry.SourcePaths, skipAsmVars, false)
	for i := range target.Tracked {
		target.Tracked[i].Twin = current.Actions[i].Outputs[0]
	}

	var e Emission
	e.merge(target)
	e.merge(current)
	return e, nil
}

func emit(r objpath.Resolver, rule string, objects, sources []string, vars []ninja.Var, track bool) Emission {
	var e Emission
	for _, out := range r.ResolveAll(objects, sources) {
		if isObject(out) {
			e.Objects = append(e.Objects, out)
		}
		e.Actions = append(e.Actions, Action{
			Outputs:   []string{out},
			Rule:      rule,
			Inputs:    slices.Clone(sources),
			Variables: slices.Clone(vars),
		})
		if track {
			t := Tracked{Object: out}
			if len(sources) > 0 {
				t.Source = sources[0]
			}
			e.Tracked = append(e.Tracked, t)
		}
	}
	return e
}

// Supplement emits compile actions for hand-written sources under SrcDir
// that no entry references. C++ files come before C files.
//
// A discovered file whose unit name matches a declared entry still gets a
// compile action, since it provides that entry's base object, but it is
// neither tracked nor linked: the declared entry owns the unit.
func (b Builder) Supplement(entries []segment.Entry) (Emission, error) {
	if b.Sources == nil {
		return Emission{}, nil
	}

	referenced := make(map[string]bool)
	declared := make(map[string]bool)
	for _, entry := range entries {
		for _, src := range entry.SourcePaths {
			referenced[path.Clean(src)] = true
		}
		if entry.Buildable() {
			declared[objpath.UnitName(entry.PrimarySource(), entry.ObjectPath)] = true
		}
	}

	files, err := fsutil.FindFilesByExtensions(b.Sources, b.SrcDir, ".cpp", ".c")
	if err != nil {
		return Emission{}, fmt.Errorf("failed to scan %s: %w", b.SrcDir, err)
	}

	var e Emission
	for _, file := range files {
		if referenced[file] {
			continue
		}
		sources := []string{file}
		found := emit(objpath.Resolver{}, toolchain.RuleCc, sources, sources, nil, true)
		if declared[objpath.UnitName(file, "")] {
			slog.Debug("Hand-written source shadows a declared segment", "file", file)
			found.Objects = nil
			found.Tracked = nil
		}
		e.merge(found)
	}
	return e, nil
}

// Build emits every entry followed by the supplementary source scan. The
// first unsupported entry aborts the pass.
func (b Builder) Build(entries []segment.Entry) (*Graph, error) {
	g := NewGraph()
	for _, entry := range entries {
		e, err := b.Emit(entry)
		if err != nil {
			return nil, err
		}
		g.Merge(e)
	}

	extra, err := b.Supplement(entries)
	if err != nil {
		return nil, err
	}
	g.Merge(extra)

	slog.Debug("Emitted object actions",
		"entries", len(entries),
		"actions", len(g.Actions),
		"objects", g.Objects.Len(),
		"tracked", len(g.Tracked))
	return g, nil
}
