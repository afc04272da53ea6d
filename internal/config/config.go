// Package config holds the project layout and toolchain settings.
// Defaults describe the standard checkout; an optional configure.yaml
// overrides individual fields.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the optional override file looked up in the project root.
const DefaultFile = "configure.yaml"

// Config describes where things live and which tools build them.
type Config struct {
	Basename      string   `yaml:"basename" json:"basename" jsonschema:"title=Basename,description=Name of the original executable"`
	SegmentsPath  string   `yaml:"segments" json:"segments" jsonschema:"title=Segments,description=Segment manifest exported by the splitter"`
	AsmPath       string   `yaml:"asm_path,omitempty" json:"asm_path,omitempty" jsonschema:"title=Assembly Path,description=Overrides the assembly tree named by the manifest"`
	SrcDir        string   `yaml:"src_dir" json:"src_dir" jsonschema:"title=Source Directory,description=Hand-written C and C++ sources"`
	OutDir        string   `yaml:"out_dir" json:"out_dir" jsonschema:"title=Output Directory,description=Directory for the linked executable"`
	ToolsDir      string   `yaml:"tools_dir" json:"tools_dir" jsonschema:"title=Tools Directory"`
	CompilerDir   string   `yaml:"compiler_dir" json:"compiler_dir" jsonschema:"title=Compiler Directory,description=Directory containing mwccps2"`
	CompileFlags  string   `yaml:"compile_flags" json:"compile_flags" jsonschema:"title=Compile Flags"`
	Includes      []string `yaml:"includes" json:"includes" jsonschema:"title=Include Directories"`
	Wine          string   `yaml:"wine" json:"wine" jsonschema:"title=Wine,description=Command used to run the Windows compiler on Linux"`
	Cross         string   `yaml:"cross" json:"cross" jsonschema:"title=Cross Prefix,description=Binutils target prefix"`
	ChecksumPath  string   `yaml:"checksum" json:"checksum" jsonschema:"title=Checksum,description=sha1sum file for the extracted executable"`
	UndefinedSyms []string `yaml:"undefined_syms" json:"undefined_syms" jsonschema:"title=Undefined Symbols,description=Linker scripts defining symbols outside the split"`
	TargetDir     string   `yaml:"target_dir" json:"target_dir" jsonschema:"title=Target Tree,description=Authoritative object tree used with --objects"`
	CurrentDir    string   `yaml:"current_dir" json:"current_dir" jsonschema:"title=Current Tree,description=Working object tree used with --objects"`
}

// Default returns the configuration of the standard checkout.
func Default() Config {
	return Config{
		Basename:     "SLUS_216.42",
		SegmentsPath: "config/segments.yaml",
		SrcDir:       "src",
		OutDir:       "out",
		ToolsDir:     "tools",
		CompilerDir:  "tools/compilers/PS2/mwcps2-3.0.1b145-050209",
		CompileFlags: "-lang=c++ -O3",
		Includes:     []string{"include", "include/sdk/ee", "include/gcc"},
		Wine:         "wine",
		Cross:        "mips-linux-gnu-",
		ChecksumPath: "config/checksum.sha1",
		UndefinedSyms: []string{
			"config/undefined_syms_auto.txt",
			"config/undefined_funcs_auto.txt",
		},
		TargetDir:  "obj/target",
		CurrentDir: "obj/current",
	}
}

// LinkerScript is the script generated by the splitter.
func (c Config) LinkerScript() string { return c.Basename + ".splat.ld" }

// ElfPath is the linked executable before extraction.
func (c Config) ElfPath() string { return path.Join(c.OutDir, c.Basename+".elf") }

// BinaryPath is the flat image compared against the checksum.
func (c Config) BinaryPath() string { return path.Join(c.OutDir, c.Basename) }

// MapPath is the linker map file.
func (c Config) MapPath() string { return path.Join(c.OutDir, c.Basename+".map") }

// Load reads overrides from path on top of Default. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("No configuration file, using defaults", "path", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if cfg.SrcDir, err = sourceDir(cfg.SrcDir); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	slog.Debug("Loaded configuration", "path", path)
	return cfg, nil
}

// sourceDir cleans dir into the slash-separated relative form io/fs expects.
// The tree is walked from the project root, so the result may not leave it.
func sourceDir(dir string) (string, error) {
	if filepath.IsAbs(dir) || path.IsAbs(filepath.ToSlash(dir)) {
		return "", fmt.Errorf("src_dir %q must be relative to the project root", dir)
	}
	clean := path.Clean(filepath.ToSlash(dir))
	if !fs.ValidPath(clean) {
		return "", fmt.Errorf("src_dir %q escapes the project root", dir)
	}
	return clean, nil
}
