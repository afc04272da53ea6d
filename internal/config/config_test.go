package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFile))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	data := `basename: SCUS_971.98
out_dir: dist
includes: [include]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := Default()
	want.Basename = "SCUS_971.98"
	want.OutDir = "dist"
	want.Includes = []string{"include"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte("basename: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected decode error")
	}
}

func TestLoadSourceDir(t *testing.T) {
	tests := []struct {
		value   string
		want    string
		wantErr bool
	}{
		{value: "src", want: "src"},
		{value: "./src", want: "src"},
		{value: "src/", want: "src"},
		{value: "./code/../src//P2", want: "src/P2"},
		{value: ".", want: "."},
		{value: "/abs/src", wantErr: true},
		{value: "../src", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultFile)
			if err := os.WriteFile(path, []byte("src_dir: \""+tt.value+"\"\n"), 0o644); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got src_dir %q", cfg.SrcDir)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.SrcDir != tt.want {
				t.Errorf("src_dir = %q, want %q", cfg.SrcDir, tt.want)
			}
		})
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := Default()
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"linker script", cfg.LinkerScript(), "SLUS_216.42.splat.ld"},
		{"elf", cfg.ElfPath(), "out/SLUS_216.42.elf"},
		{"binary", cfg.BinaryPath(), "out/SLUS_216.42"},
		{"map", cfg.MapPath(), "out/SLUS_216.42.map"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
