package shortloop

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/andresj-sanchez/SR2/internal/fsutil"
)

// NonmatchingsDir holds one assembly file per routine not yet matched.
const NonmatchingsDir = "nonmatchings"

// Scoper is implemented by transformers that only touch some files. Files
// outside the scope are not read.
type Scoper interface {
	Allowed(stem string) bool
}

// File describes one rewritten assembly file.
type File struct {
	Path     string
	Rewrites int
	// Lines holds the rewritten lines in file order.
	Lines []string
}

// Report summarizes a tree pass.
type Report struct {
	Scanned  int
	Rewrites int
	Files    []File
}

// Patched returns the number of files that had at least one rewrite.
func (r Report) Patched() int {
	return len(r.Files)
}

// Tree applies a Transformer to every .s file under <AsmDir>/nonmatchings.
type Tree struct {
	AsmDir      string
	Transformer Transformer
	// DryRun computes the report without writing any file.
	DryRun bool
}

// Patch walks the tree. Files that are not allow-listed are skipped
// unread; files without matches are left untouched.
func (t Tree) Patch() (Report, error) {
	var r Report

	files, err := fsutil.FindFilesByExtension(os.DirFS(t.AsmDir), NonmatchingsDir, ".s")
	if err != nil {
		return r, fmt.Errorf("failed to scan %s: %w", filepath.Join(t.AsmDir, NonmatchingsDir), err)
	}

	for _, rel := range files {
		r.Scanned++
		stem := strings.TrimSuffix(path.Base(rel), ".s")
		if s, ok := t.Transformer.(Scoper); ok && !s.Allowed(stem) {
			continue
		}

		full := filepath.Join(t.AsmDir, filepath.FromSlash(rel))
		f, err := t.patchFile(full, stem)
		if err != nil {
			return r, err
		}
		if f.Rewrites == 0 {
			continue
		}
		slog.Debug("Patched short loop branches", "file", full, "rewrites", f.Rewrites)
		r.Rewrites += f.Rewrites
		r.Files = append(r.Files, f)
	}
	return r, nil
}

func (t Tree) patchFile(full, stem string) (File, error) {
	f := File{Path: full}

	info, err := os.Stat(full)
	if err != nil {
		return f, fmt.Errorf("failed to stat %s: %w", full, err)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return f, fmt.Errorf("failed to read %s: %w", full, err)
	}

	before := string(data)
	after, n := t.Transformer.Transform(stem, before)
	if n == 0 {
		return f, nil
	}
	f.Rewrites = n
	f.Lines = changedLines(before, after)

	if t.DryRun {
		return f, nil
	}
	if err := os.WriteFile(full, []byte(after), info.Mode().Perm()); err != nil {
		return f, fmt.Errorf("failed to write %s: %w", full, err)
	}
	return f, nil
}

// changedLines returns lines of after that differ from before. The rewrite
// never adds or removes newlines, so lines pair up by index.
func changedLines(before, after string) []string {
	b := strings.Split(before, "\n")
	a := strings.Split(after, "\n")
	var out []string
	for i := range a {
		if i >= len(b) || a[i] != b[i] {
			out = append(out, a[i])
		}
	}
	return out
}
