// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"io/fs"
	"path"
)

// FindFilesByExtension recursively searches root within fsys for files whose
// extension is ext. Paths are returned in lexical walk order, relative to
// the root of fsys. A missing root yields no files and no error.
func FindFilesByExtension(fsys fs.FS, root string, ext string) ([]string, error) {
	if ext == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if !d.IsDir() && path.Ext(d.Name()) == ext {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// FindFilesByExtensions runs FindFilesByExtension for each extension in turn
// and concatenates the results.
func FindFilesByExtensions(fsys fs.FS, root string, exts ...string) ([]string, error) {
	var files []string
	for _, ext := range exts {
		found, err := FindFilesByExtension(fsys, root, ext)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}
