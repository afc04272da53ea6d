// Package objpath decides where each built object lands.
package objpath

import (
	"path"
	"strings"

	"github.com/andresj-sanchez/SR2/internal/segment"
)

const (
	Ext = ".o"

	BuildDir = "build"
	// AsmObjDir holds objects assembled from the generated assembly tree.
	AsmObjDir = BuildDir + "/obj"
	// SrcObjDir holds objects compiled from hand-written sources.
	SrcObjDir = BuildDir + "/src"
)

var sourceExts = map[string]bool{".s": true, ".c": true, ".cpp": true}

// Resolver maps objects to their output path. The zero value resolves by
// source location; a non-empty OutDir flattens every object into that
// directory.
type Resolver struct {
	OutDir string
}

// Resolve returns the output path for object, built from source. source may
// be empty.
func (r Resolver) Resolve(object, source string) string {
	if r.OutDir != "" {
		return path.Join(r.OutDir, Stem(object)+Ext)
	}

	if source != "" {
		switch segment.RootOf(source) {
		case segment.RootAsm:
			return path.Join(AsmObjDir, WithExt(segment.Rel(source), Ext))
		case segment.RootSrc:
			return path.Join(SrcObjDir, WithExt(segment.Rel(source), Ext))
		}
	}
	return path.Join(BuildDir, WithExt(object, Ext))
}

// ResolveAll resolves each object against the source at the same index.
// Objects without a matching source fall back to their own name.
func (r Resolver) ResolveAll(objects, sources []string) []string {
	out := make([]string, 0, len(objects))
	for i, obj := range objects {
		src := ""
		if i < len(sources) {
			src = sources[i]
		}
		out = append(out, r.Resolve(obj, src))
	}
	return out
}

// Stem returns the base name of p without its extension. Compound object
// names such as "x.cpp.o" lose both the object and the source suffix.
func Stem(p string) string {
	base := path.Base(p)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == Ext {
		if inner := path.Ext(stem); sourceExts[inner] {
			stem = strings.TrimSuffix(stem, inner)
		}
	}
	return stem
}

// WithExt replaces the last extension of p with ext.
func WithExt(p, ext string) string {
	return strings.TrimSuffix(p, path.Ext(p)) + ext
}

// TrimExt removes the last extension of p.
func TrimExt(p string) string {
	return WithExt(p, "")
}

// UnitName is the progress-tracking name of an object: the source path with
// its root directory and extension removed, or the object file name without
// its last extension when the source is unknown.
func UnitName(source, object string) string {
	if source == "" {
		return TrimExt(path.Base(object))
	}
	return TrimExt(segment.Rel(source))
}
