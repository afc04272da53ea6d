// Package generate runs one configure pass: it reads the project layout and
// segment manifest, emits the build graph and writes build.ninja together
// with the files that accompany it.
package generate

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/andresj-sanchez/SR2/internal/build"
	"github.com/andresj-sanchez/SR2/internal/config"
	"github.com/andresj-sanchez/SR2/internal/ninja"
	"github.com/andresj-sanchez/SR2/internal/objdiff"
	"github.com/andresj-sanchez/SR2/internal/segment"
	"github.com/andresj-sanchez/SR2/internal/shortloop"
	"github.com/andresj-sanchez/SR2/internal/toolchain"
)

// NinjaFile is the generated build description.
const NinjaFile = "build.ninja"

// Options selects what a pass generates.
type Options struct {
	// Root is the project directory; every relative path is resolved
	// against it. Empty means the working directory.
	Root string
	// ConfigPath is relative to Root. Empty means config.DefaultFile.
	ConfigPath string
	// SegmentsPath overrides the manifest named by the configuration.
	SegmentsPath string

	// Objects builds every object into the target and current trees and
	// skips the link stage.
	Objects      bool
	SkipChecksum bool
	NoShortLoop  bool

	// GOOS and Exists are used for toolchain discovery. They default to the
	// running system.
	GOOS   string
	Exists toolchain.FileExists
}

// Result describes what a pass produced.
type Result struct {
	Config    config.Config
	Toolchain toolchain.Toolchain
	Graph     *build.Graph
	Units     []objdiff.Unit
	// ObjdiffWritten is false when no unit was collected outside objects mode.
	ObjdiffWritten bool
	ShortLoop      shortloop.Report
}

func (o Options) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(o.Root, filepath.FromSlash(rel))
}

// LoadConfig reads the configuration named by o and applies its overrides.
func (o Options) LoadConfig() (config.Config, error) {
	name := o.ConfigPath
	if name == "" {
		name = config.DefaultFile
	}
	cfg, err := config.Load(o.path(name))
	if err != nil {
		return cfg, err
	}
	if o.SegmentsPath != "" {
		cfg.SegmentsPath = o.SegmentsPath
	}
	return cfg, nil
}

// Run performs the pass. Nothing is written when graph generation fails.
func Run(o Options) (*Result, error) {
	if o.GOOS == "" {
		o.GOOS = runtime.GOOS
	}
	if o.Exists == nil {
		o.Exists = func(p string) bool { return toolchain.OSFileExists(o.path(p)) }
	}

	cfg, err := o.LoadConfig()
	if err != nil {
		return nil, err
	}
	manifest, err := segment.LoadManifest(o.path(cfg.SegmentsPath))
	if err != nil {
		return nil, err
	}
	tc := toolchain.Detect(cfg, o.GOOS, o.Exists)
	slog.Debug("Resolved toolchain", "cross", tc.Cross, "compile", tc.Compile)

	sources := os.DirFS(o.path("."))
	b := build.Builder{
		DualTree:   o.Objects,
		TargetDir:  cfg.TargetDir,
		CurrentDir: cfg.CurrentDir,
		Sources:    sources,
		SrcDir:     cfg.SrcDir,
	}
	graph, err := b.Build(manifest.Entries())
	if err != nil {
		return nil, err
	}

	index, err := objdiff.IndexSources(sources, cfg.SrcDir)
	if err != nil {
		return nil, err
	}
	units := objdiff.Collector{Index: index}.CollectAll(graph.Tracked)

	if !o.Objects {
		link := build.LinkStage{
			LinkerScript: cfg.LinkerScript(),
			Elf:          cfg.ElfPath(),
			Binary:       cfg.BinaryPath(),
			MapFile:      cfg.MapPath(),
			ChecksumFile: cfg.ChecksumPath,
			SkipChecksum: o.SkipChecksum,
		}
		graph.Append(link.Emit(graph.Objects)...)
		if o.SkipChecksum {
			slog.Info("Skipping checksum step")
		}
	}

	var buf bytes.Buffer
	if err := Render(&buf, tc.Rules(), graph.Actions); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", NinjaFile, err)
	}
	if err := writeAtomic(o.path(NinjaFile), buf.Bytes()); err != nil {
		return nil, err
	}

	r := &Result{Config: cfg, Toolchain: tc, Graph: graph, Units: units}

	if o.Objects || len(units) > 0 {
		if err := objdiff.NewConfig(units).Write(o.path(objdiff.File)); err != nil {
			return r, err
		}
		r.ObjdiffWritten = true
	}

	if err := tc.WritePermuterSettings(o.path(toolchain.PermuterFile)); err != nil {
		return r, err
	}

	if !o.NoShortLoop {
		tree := shortloop.Tree{AsmDir: o.path(asmPath(cfg, manifest)), Transformer: shortloop.NewPatcher()}
		if r.ShortLoop, err = tree.Patch(); err != nil {
			return r, err
		}
	}

	slog.Debug("Configure pass finished",
		"actions", len(graph.Actions),
		"objects", graph.Objects.Len(),
		"units", len(units),
		"patched", r.ShortLoop.Patched())
	return r, nil
}

func asmPath(cfg config.Config, m *segment.Manifest) string {
	if cfg.AsmPath != "" {
		return cfg.AsmPath
	}
	return m.AsmPath()
}

// ShortLoop runs only the branch rewrite over the assembly tree. The
// manifest is optional here; without it the default tree is used.
func ShortLoop(o Options, dryRun bool) (shortloop.Report, error) {
	cfg, err := o.LoadConfig()
	if err != nil {
		return shortloop.Report{}, err
	}
	m := &segment.Manifest{}
	if _, statErr := os.Stat(o.path(cfg.SegmentsPath)); statErr == nil {
		if m, err = segment.LoadManifest(o.path(cfg.SegmentsPath)); err != nil {
			return shortloop.Report{}, err
		}
	}
	tree := shortloop.Tree{
		AsmDir:      o.path(asmPath(cfg, m)),
		Transformer: shortloop.NewPatcher(),
		DryRun:      dryRun,
	}
	return tree.Patch()
}

// generatedHeader heads every graph written by Render.
const generatedHeader = "Generated by configure. Do not edit."

// Render writes the rule table followed by one edge per action.
func Render(w io.Writer, rules []ninja.Rule, actions []build.Action) error {
	nw := ninja.NewWriter(w)
	nw.Comment(generatedHeader)
	nw.Newline()
	for _, r := range rules {
		nw.Rule(r)
		nw.Newline()
	}
	for _, a := range actions {
		nw.Build(a.Edge())
	}
	return nw.Flush()
}

// writeAtomic replaces name with data through a temporary file in the same
// directory, so readers never see a partial file.
func writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), name); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
