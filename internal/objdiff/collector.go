package objdiff

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/andresj-sanchez/SR2/internal/build"
	"github.com/andresj-sanchez/SR2/internal/fsutil"
	"github.com/andresj-sanchez/SR2/internal/objpath"
)

// SourceIndex records the stems of hand-written C and C++ files.
type SourceIndex map[string]bool

// IndexSources walks srcDir in fsys for .c and .cpp files.
func IndexSources(fsys fs.FS, srcDir string) (SourceIndex, error) {
	files, err := fsutil.FindFilesByExtensions(fsys, srcDir, ".c", ".cpp")
	if err != nil {
		return nil, fmt.Errorf("failed to index %s: %w", srcDir, err)
	}
	idx := make(SourceIndex, len(files))
	for _, f := range files {
		idx[objpath.TrimExt(path.Base(f))] = true
	}
	return idx, nil
}

// Has reports whether a source with the given stem exists anywhere.
func (idx SourceIndex) Has(stem string) bool {
	return idx[stem]
}

// Collector turns tracked actions into units.
type Collector struct {
	Index SourceIndex
}

// Collect builds the unit for one tracked action.
func (c Collector) Collect(t build.Tracked) Unit {
	name := objpath.UnitName(t.Source, t.Object)
	u := Unit{
		Name:     name,
		Metadata: Metadata{ProgressCategories: categoriesOf(name)},
	}

	// Dual-tree units compare the authoritative object with its working
	// copy; single-tree units compare the assembly tree with the source tree.
	if t.Twin != "" {
		u.TargetPath = t.Object
	} else {
		u.TargetPath = path.Join(objpath.AsmObjDir, name+objpath.Ext)
	}

	if c.Index.Has(path.Base(name)) {
		if t.Twin != "" {
			u.BasePath = t.Twin
		} else {
			u.BasePath = path.Join(objpath.SrcObjDir, name+objpath.Ext)
		}
	}
	return u
}

// CollectAll builds units for tracked actions in order.
func (c Collector) CollectAll(tracked []build.Tracked) []Unit {
	units := make([]Unit, 0, len(tracked))
	for _, t := range tracked {
		units = append(units, c.Collect(t))
	}
	return units
}

func categoriesOf(name string) []string {
	first, _, _ := strings.Cut(name, "/")
	cats := []string{first}
	switch {
	case strings.Contains(name, "P2/splice/"):
		cats = append(cats, "splice")
	case strings.Contains(name, "P2/ps2t"):
		cats = append(cats, "ps2t")
	}
	return cats
}
