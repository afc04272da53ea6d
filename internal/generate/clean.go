package generate

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/andresj-sanchez/SR2/internal/config"
	"github.com/andresj-sanchez/SR2/internal/objdiff"
	"github.com/andresj-sanchez/SR2/internal/toolchain"
)

// CleanFiles lists the generated files removed by Clean, besides the
// linker script.
var CleanFiles = []string{
	".splache",
	".ninja_log",
	NinjaFile,
	toolchain.PermuterFile,
	objdiff.File,
}

// CleanDirs lists the generated trees removed by Clean.
var CleanDirs = []string{"asm", "assets", "obj", "out", "build"}

// Clean removes every product of previous passes and builds. Missing files
// are ignored.
func Clean(o Options, cfg config.Config) error {
	files := slices.Concat(CleanFiles, []string{cfg.LinkerScript()})
	for _, f := range files {
		p := o.path(f)
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	for _, d := range CleanDirs {
		p := o.path(d)
		if err := os.RemoveAll(p); err != nil {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	slog.Debug("Cleaned build products", "root", o.Root)
	return nil
}
