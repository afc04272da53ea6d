package fsutil

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestFindFilesByExtensions(t *testing.T) {
	fsys := fstest.MapFS{
		"src/P2/jt.cpp":         {Data: []byte("")},
		"src/P2/splice/bif.cpp": {Data: []byte("")},
		"src/sce/memcpy.c":      {Data: []byte("")},
		"src/P2/jt.h":           {Data: []byte("")},
		"src/P2/notes.cpp.txt":  {Data: []byte("")},
		"asm/P2/jt/UpdateJt.s":  {Data: []byte("")},
		"src/deep/a/b/c/leaf.c": {Data: []byte("")},
	}

	got, err := FindFilesByExtensions(fsys, "src", ".cpp", ".c")
	if err != nil {
		t.Fatalf("FindFilesByExtensions failed: %v", err)
	}

	want := []string{
		"src/P2/jt.cpp",
		"src/P2/splice/bif.cpp",
		"src/deep/a/b/c/leaf.c",
		"src/sce/memcpy.c",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestFindFilesMissingRoot(t *testing.T) {
	got, err := FindFilesByExtension(fstest.MapFS{}, "src", ".c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no files, got %v", got)
	}
}

func TestFindFilesEmptyExtensionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for empty extension")
		}
	}()
	FindFilesByExtension(fstest.MapFS{}, ".", "")
}
