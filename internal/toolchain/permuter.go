package toolchain

import (
	"fmt"
	"os"
)

// PermuterFile is read by decomp-permuter and decomp.me tooling.
const PermuterFile = "permuter_settings.toml"

// PermuterSettings renders the permuter configuration for t.
func (t Toolchain) PermuterSettings() string {
	return fmt.Sprintf(`compiler_command = "%s -D__GNUC__"
assembler_command = "mips-linux-gnu-as -march=r5900 -mabi=eabi -Iinclude"
compiler_type = "mwcc"

[preserve_macros]

[decompme.compilers]
"tools/build/cc/mwcc/mwccps2" = "mwcps2-3.0.1b145"
`, t.Compile)
}

// WritePermuterSettings writes the permuter configuration to path.
func (t Toolchain) WritePermuterSettings(path string) error {
	if err := os.WriteFile(path, []byte(t.PermuterSettings()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
