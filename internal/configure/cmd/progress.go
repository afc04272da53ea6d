package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/andresj-sanchez/SR2/internal/configure/styles"
	"github.com/andresj-sanchez/SR2/internal/objdiff"
)

func newProgressCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "progress",
		Short: "Summarize decompilation progress from objdiff.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := options(cmd)
			file, _ := cmd.Flags().GetString("file")
			if !filepath.IsAbs(file) {
				file = filepath.Join(opts.Root, file)
			}
			doc, err := objdiff.Load(file)
			if err != nil {
				return err
			}

			md := objdiff.Markdown(doc)
			raw, _ := cmd.Flags().GetBool("raw")
			if raw {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}

			width, _ := cmd.Flags().GetInt("width")
			var r *glamour.TermRenderer
			if plain(cmd) {
				r, err = styles.PlainRenderer(width)
			} else {
				r, err = styles.MarkdownRenderer(width)
			}
			if err != nil {
				return fmt.Errorf("failed to create renderer: %w", err)
			}
			out, err := r.Render(md)
			if err != nil {
				return fmt.Errorf("failed to render report: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	c.Flags().String("file", objdiff.File, "objdiff project file")
	c.Flags().Bool("raw", false, "Print markdown without rendering")
	c.Flags().Int("width", 100, "Wrap width")
	return c
}
