package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/andresj-sanchez/SR2/internal/generate"
	"github.com/andresj-sanchez/SR2/internal/shortloop"
	"github.com/andresj-sanchez/SR2/internal/ui/colorize"
)

func newShortLoopCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "shortloop",
		Short: "Rewrite short loop branches without regenerating the build",
		Long: `Rewrite branch instructions in the allow-listed nonmatching routines into
raw .word directives. Running it again is harmless: rewritten lines no longer
match.`,
		Example: `
# Show what would change
configure shortloop --dry-run
  `,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list, _ := cmd.Flags().GetBool("list"); list {
				for _, name := range shortloop.NewPatcher().Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			dryRun, _ := cmd.Flags().GetBool("dry-run")
			opts := options(cmd)

			r, err := generate.ShortLoop(opts, dryRun)
			if err != nil {
				return err
			}

			p := printer(cmd)
			for _, f := range r.Files {
				name := f.Path
				if rel, err := filepath.Rel(opts.Root, f.Path); err == nil && opts.Root != "" {
					name = rel
				}
				if dryRun {
					p.Skipped(name + " (dry run)")
				} else {
					p.Wrote(name)
				}
				for _, line := range f.Lines {
					if !plain(cmd) {
						line = colorize.Line(line)
					}
					p.Detail(line)
				}
			}
			p.Count(r.Patched(), "files patched", fmt.Sprintf("(%d branches, %d scanned)", r.Rewrites, r.Scanned))
			return nil
		},
	}
	c.Flags().Bool("dry-run", false, "Report rewrites without changing files")
	c.Flags().Bool("list", false, "Print the affected routines and exit")
	return c
}
