package generate

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/andresj-sanchez/SR2/internal/build"
	"github.com/andresj-sanchez/SR2/internal/config"
	"github.com/andresj-sanchez/SR2/internal/ninja"
	"github.com/andresj-sanchez/SR2/internal/objdiff"
	"github.com/andresj-sanchez/SR2/internal/toolchain"
)

const testManifest = `options:
  asm_path: asm
segments:
  - type: .data
  - type: asm
    src: [asm/P2/jt/UpdateJtActive__FP2JTP3JOYf.s]
    object: build/asm/P2/jt/UpdateJtActive__FP2JTP3JOYf.s.o
  - type: data
    src: [asm/data/1000.data.s]
    object: build/asm/data/1000.data.s.o
  - type: cpp
    src: [src/P2/brx.cpp]
    object: build/src/P2/brx.cpp.o
`

const loopLine = "/* 1A0C 001A0B8C 1440FFFD */  bnez       $v0, .L001A0B84\n"

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func exists(root, rel string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil
}

func testProject(t *testing.T, manifest string) (string, Options) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "config/segments.yaml", manifest)
	writeFile(t, root, "src/P2/brx.cpp", "")
	writeFile(t, root, "src/P2/jt/UpdateJtActive__FP2JTP3JOYf.cpp", "")
	writeFile(t, root, "asm/nonmatchings/P2/jt/UpdateJtActive__FP2JTP3JOYf.s", loopLine)
	return root, Options{
		Root:   root,
		GOOS:   "linux",
		Exists: func(string) bool { return false },
	}
}

func TestRunLinked(t *testing.T) {
	root, opts := testProject(t, testManifest)

	r, err := Run(opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	graph := readFile(t, root, NinjaFile)
	for _, want := range []string{
		"rule as\n  command = mips-linux-gnu-as ",
		"rule cc\n  command = wine tools/compilers/PS2/mwcps2-3.0.1b145-050209/mwccps2 -c ",
		"build build/obj/P2/jt/UpdateJtActive__FP2JTP3JOYf.o: as asm/P2/jt/UpdateJtActive__FP2JTP3JOYf.s\n",
		"build build/obj/data/1000.data.o: as asm/data/1000.data.s\n",
		"build build/src/P2/brx.o: cc src/P2/brx.cpp\n",
		"build build/src/P2/jt/UpdateJtActive__FP2JTP3JOYf.o: cc src/P2/jt/UpdateJtActive__FP2JTP3JOYf.cpp\n",
		"build out/SLUS_216.42.elf: ld SLUS_216.42.splat.ld | build/obj/P2/jt/UpdateJtActive__FP2JTP3JOYf.o build/obj/data/1000.data.o build/src/P2/brx.o\n  mapfile = out/SLUS_216.42.map\n",
		"build out/SLUS_216.42: elf out/SLUS_216.42.elf\n",
		"build out/SLUS_216.42.ok: sha1sum config/checksum.sha1 | out/SLUS_216.42\n",
	} {
		if !strings.Contains(graph, want) {
			t.Errorf("build.ninja missing %q", want)
		}
	}
	if strings.Contains(graph, "SKIP_ASM") {
		t.Error("single-tree pass used the working-tree flag")
	}

	// The hand-written UpdateJtActive shadows the declared assembly unit:
	// compiled for objdiff but not linked.
	if r.Graph.Objects.Contains("build/src/P2/jt/UpdateJtActive__FP2JTP3JOYf.o") {
		t.Error("shadowing source was linked")
	}

	cfg, err := objdiff.Load(filepath.Join(root, objdiff.File))
	if err != nil {
		t.Fatalf("objdiff.json: %v", err)
	}
	byName := make(map[string]objdiff.Unit)
	for _, u := range cfg.Units {
		byName[u.Name] = u
	}
	if u := byName["P2/jt/UpdateJtActive__FP2JTP3JOYf"]; u.BasePath != "build/src/P2/jt/UpdateJtActive__FP2JTP3JOYf.o" {
		t.Errorf("unexpected jt unit %+v", u)
	}
	if u := byName["data/1000.data"]; u.BasePath != "" || u.TargetPath != "build/obj/data/1000.data.o" {
		t.Errorf("unexpected data unit %+v", u)
	}
	if !r.ObjdiffWritten || len(cfg.Units) != 3 {
		t.Errorf("got %d units, want 3", len(cfg.Units))
	}

	if !strings.Contains(readFile(t, root, toolchain.PermuterFile), "-D__GNUC__") {
		t.Error("permuter settings not written")
	}

	asm := readFile(t, root, "asm/nonmatchings/P2/jt/UpdateJtActive__FP2JTP3JOYf.s")
	if !strings.Contains(asm, ".word      0xFDFF4014") || r.ShortLoop.Patched() != 1 {
		t.Errorf("short loop not patched: %q", asm)
	}
}

func TestRunObjects(t *testing.T) {
	root, opts := testProject(t, testManifest)
	opts.Objects = true
	opts.NoShortLoop = true

	r, err := Run(opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	graph := readFile(t, root, NinjaFile)
	for _, want := range []string{
		"build obj/target/UpdateJtActive__FP2JTP3JOYf.o: as asm/P2/jt/UpdateJtActive__FP2JTP3JOYf.s\n",
		"build obj/current/UpdateJtActive__FP2JTP3JOYf.o: as asm/P2/jt/UpdateJtActive__FP2JTP3JOYf.s\n  cflags = -DSKIP_ASM\n",
	} {
		if !strings.Contains(graph, want) {
			t.Errorf("build.ninja missing %q", want)
		}
	}
	for _, rule := range []string{": ld ", ": elf ", ": sha1sum "} {
		if strings.Contains(graph, rule) {
			t.Errorf("objects pass emitted %q edge", rule)
		}
	}

	var jt objdiff.Unit
	for _, u := range r.Units {
		if u.Name == "P2/jt/UpdateJtActive__FP2JTP3JOYf" {
			jt = u
		}
	}
	want := objdiff.Unit{
		Name:       "P2/jt/UpdateJtActive__FP2JTP3JOYf",
		TargetPath: "obj/target/UpdateJtActive__FP2JTP3JOYf.o",
		BasePath:   "obj/current/UpdateJtActive__FP2JTP3JOYf.o",
		Metadata:   objdiff.Metadata{ProgressCategories: []string{"P2"}},
	}
	if diff := cmp.Diff(want, jt); diff != "" {
		t.Errorf("unit mismatch (-want +got):\n%s", diff)
	}

	if asm := readFile(t, root, "asm/nonmatchings/P2/jt/UpdateJtActive__FP2JTP3JOYf.s"); asm != loopLine {
		t.Error("short loop pass ran despite NoShortLoop")
	}
}

func TestRunObjectsWritesEmptyObjdiff(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "config/segments.yaml", "segments: []\n")
	opts := Options{Root: root, Objects: true, Exists: func(string) bool { return false }}

	r, err := Run(opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !r.ObjdiffWritten || !exists(root, objdiff.File) {
		t.Error("objects pass must always write objdiff.json")
	}

	root2 := t.TempDir()
	writeFile(t, root2, "config/segments.yaml", "segments: []\n")
	opts.Root = root2
	opts.Objects = false
	r, err = Run(opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if r.ObjdiffWritten || exists(root2, objdiff.File) {
		t.Error("linked pass wrote an empty objdiff.json")
	}
}

func TestRunUnsupportedKind(t *testing.T) {
	root, opts := testProject(t, testManifest+"  - type: unknown\n    src: [asm/odd.s]\n    object: build/asm/odd.s.o\n")

	_, err := Run(opts)
	var kindErr *build.UnsupportedSegmentKindError
	if !errors.As(err, &kindErr) || kindErr.Kind != "unknown" {
		t.Fatalf("got error %v, want unsupported kind", err)
	}
	for _, f := range []string{NinjaFile, objdiff.File, toolchain.PermuterFile} {
		if exists(root, f) {
			t.Errorf("%s written by a failed pass", f)
		}
	}
}

func TestRunKeepsPreviousGraphOnFailure(t *testing.T) {
	root, opts := testProject(t, "segments:\n  - type: unknown\n    object: x.o\n")
	writeFile(t, root, NinjaFile, "# previous\n")

	if _, err := Run(opts); err == nil {
		t.Fatal("expected an error")
	}
	if got := readFile(t, root, NinjaFile); got != "# previous\n" {
		t.Errorf("previous graph replaced: %q", got)
	}
}

func TestRunMissingManifest(t *testing.T) {
	_, err := Run(Options{Root: t.TempDir(), Exists: func(string) bool { return false }})
	if err == nil || !strings.Contains(err.Error(), "segment manifest") {
		t.Errorf("got %v, want manifest error", err)
	}
}

func TestRunSegmentsOverride(t *testing.T) {
	root, opts := testProject(t, "segments: [{type: unknown, object: x.o}]\n")
	writeFile(t, root, "other.yaml", "segments: []\n")
	opts.SegmentsPath = "other.yaml"

	if _, err := Run(opts); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

func TestRunSourceDirSpelling(t *testing.T) {
	for _, dir := range []string{"./src", "src/"} {
		t.Run(dir, func(t *testing.T) {
			root, opts := testProject(t, testManifest)
			writeFile(t, root, config.DefaultFile, "src_dir: "+dir+"\n")

			r, err := Run(opts)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if r.Config.SrcDir != "src" {
				t.Errorf("src_dir = %q, want src", r.Config.SrcDir)
			}
			if r.Graph.Objects.Contains("build/src/P2/jt/UpdateJtActive__FP2JTP3JOYf.o") {
				t.Error("shadowing source was linked")
			}
			for _, u := range r.Units {
				if u.Name == "P2/jt/UpdateJtActive__FP2JTP3JOYf" && u.BasePath == "" {
					t.Error("hand-written source not indexed")
				}
			}
		})
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	rules := []ninja.Rule{{Name: "as", Command: "as -o $out $in", Description: "as $in"}}
	actions := []build.Action{{
		Outputs: []string{"build/obj/a.o"},
		Rule:    "as",
		Inputs:  []string{"asm/a.s"},
	}}
	if err := Render(&buf, rules, actions); err != nil {
		t.Fatal(err)
	}

	want := "# Generated by configure. Do not edit.\n\nrule as\n  command = as -o $out $in\n  description = as $in\n\nbuild build/obj/a.o: as asm/a.s\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestClean(t *testing.T) {
	root, opts := testProject(t, testManifest)
	if _, err := Run(opts); err != nil {
		t.Fatal(err)
	}
	writeFile(t, root, "SLUS_216.42.splat.ld", "")
	writeFile(t, root, "build/obj/x.o", "")
	writeFile(t, root, ".ninja_log", "")

	cfg, err := opts.LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if err := Clean(opts, cfg); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	for _, f := range slices.Concat(CleanFiles, CleanDirs, []string{"SLUS_216.42.splat.ld"}) {
		if exists(root, f) {
			t.Errorf("%s survived clean", f)
		}
	}
	for _, f := range []string{"config/segments.yaml", "src/P2/brx.cpp"} {
		if !exists(root, f) {
			t.Errorf("%s removed by clean", f)
		}
	}

	if err := Clean(opts, cfg); err != nil {
		t.Errorf("second clean failed: %v", err)
	}
}

func TestShortLoop(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "config/segments.yaml", "options:\n  asm_path: split/asm\nsegments: []\n")
	writeFile(t, root, "split/asm/nonmatchings/FillShaders__Fi.s", loopLine)
	opts := Options{Root: root}

	r, err := ShortLoop(opts, true)
	if err != nil {
		t.Fatalf("ShortLoop failed: %v", err)
	}
	if r.Patched() != 1 || readFile(t, root, "split/asm/nonmatchings/FillShaders__Fi.s") != loopLine {
		t.Errorf("dry run: report %+v", r)
	}

	if r, err = ShortLoop(opts, false); err != nil || r.Rewrites != 1 {
		t.Fatalf("ShortLoop: %+v, %v", r, err)
	}
	if !strings.Contains(readFile(t, root, "split/asm/nonmatchings/FillShaders__Fi.s"), ".word") {
		t.Error("branch not rewritten")
	}
}

func TestShortLoopWithoutManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "asm/nonmatchings/FillShaders__Fi.s", loopLine)

	r, err := ShortLoop(Options{Root: root}, false)
	if err != nil {
		t.Fatalf("ShortLoop failed: %v", err)
	}
	if r.Patched() != 1 {
		t.Errorf("patched %d files, want 1", r.Patched())
	}
}
