// Package cmd implements the configure command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/andresj-sanchez/SR2/internal/configure/log"
	"github.com/andresj-sanchez/SR2/internal/generate"
	"github.com/andresj-sanchez/SR2/internal/objdiff"
	"github.com/andresj-sanchez/SR2/internal/toolchain"
	"github.com/andresj-sanchez/SR2/internal/ui/colorize"
	"github.com/andresj-sanchez/SR2/internal/ui/status"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "configure",
		Short: "Generate the ninja build for the decompilation project",
		Long: `Configure reads the segment manifest exported by the splitter and writes
build.ninja, objdiff.json and permuter_settings.toml for the project.
Branches in routines affected by the short loop defect are rewritten to raw
opcodes afterwards.`,
		Example: `
# Generate the linked build
configure

# Start from a clean tree
configure --clean

# Build objects into obj/target and obj/current for objdiff
configure --objects
  `,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug, _ := cmd.Flags().GetBool("debug")
			log.Setup(debug)
		},
		RunE: runConfigure,
	}

	root.PersistentFlags().String("cwd", "", "Project directory")
	root.PersistentFlags().String("config", "", "Configuration file (default configure.yaml)")
	root.PersistentFlags().BoolP("debug", "d", false, "Debug")

	root.Flags().BoolP("clean", "c", false, "Clean artifacts and build")
	root.Flags().BoolP("clean-only", "C", false, "Only clean artifacts")
	root.Flags().BoolP("skip-checksum", "s", false, "Skip the checksum step")
	root.Flags().Bool("objects", false, "Build objects to obj/target and obj/current (with -DSKIP_ASM), skip linking and checksum")
	root.Flags().Bool("no-short-loop-workaround", false, "Do not replace branch instructions with raw opcodes for functions that trigger the short loop bug")
	root.Flags().Bool("noloop", false, "Alias for --no-short-loop-workaround")
	root.Flags().String("segments", "", "Segment manifest (overrides the configuration)")
	_ = root.Flags().MarkHidden("noloop")

	root.AddCommand(newShortLoopCmd(), newProgressCmd(), newSchemaCmd())
	return root
}

// options collects the generation options shared by all commands.
func options(cmd *cobra.Command) generate.Options {
	cwd, _ := cmd.Flags().GetString("cwd")
	cfg, _ := cmd.Flags().GetString("config")
	segments, _ := cmd.Flags().GetString("segments")
	return generate.Options{Root: cwd, ConfigPath: cfg, SegmentsPath: segments}
}

// plain reports whether output should be left unstyled.
func plain(cmd *cobra.Command) bool {
	if !colorize.Enabled() {
		return true
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	return !ok || !term.IsTerminal(f.Fd())
}

func printer(cmd *cobra.Command) *status.Printer {
	return status.New(cmd.OutOrStdout(), plain(cmd))
}

func runConfigure(cmd *cobra.Command, args []string) error {
	opts := options(cmd)
	p := printer(cmd)

	clean, _ := cmd.Flags().GetBool("clean")
	cleanOnly, _ := cmd.Flags().GetBool("clean-only")
	if clean || cleanOnly {
		cfg, err := opts.LoadConfig()
		if err != nil {
			return err
		}
		if err := generate.Clean(opts, cfg); err != nil {
			return err
		}
		p.Done("clean")
		if cleanOnly {
			return nil
		}
	}

	opts.Objects, _ = cmd.Flags().GetBool("objects")
	opts.SkipChecksum, _ = cmd.Flags().GetBool("skip-checksum")
	noLoop, _ := cmd.Flags().GetBool("no-short-loop-workaround")
	alias, _ := cmd.Flags().GetBool("noloop")
	opts.NoShortLoop = noLoop || alias

	r, err := generate.Run(opts)
	if err != nil {
		return err
	}
	report(p, opts, r)
	return nil
}

func report(p *status.Printer, opts generate.Options, r *generate.Result) {
	p.Count(r.Graph.Objects.Len(), "objects",
		fmt.Sprintf("(%d edges, %d tracked)", len(r.Graph.Actions), len(r.Units)))
	p.Wrote(generate.NinjaFile)

	if r.ObjdiffWritten {
		p.Wrote(objdiff.File)
	} else {
		p.Skipped(objdiff.File + " (no units)")
	}
	p.Wrote(toolchain.PermuterFile)

	switch {
	case opts.Objects:
		p.Skipped("link and checksum (objects only)")
	case opts.SkipChecksum:
		p.Skipped("checksum")
	}

	if opts.NoShortLoop {
		p.Skipped("short loop workaround")
	} else {
		p.Count(r.ShortLoop.Patched(), "files patched", fmt.Sprintf("(%d branches)", r.ShortLoop.Rewrites))
	}
}

// Execute runs the command line and exits non-zero on error.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	defer log.Close()

	// fang renders help and errors as styled markdown; skip it when piped.
	if f, ok := stdout.(*os.File); !ok || !term.IsTerminal(f.Fd()) {
		root.SilenceErrors = true
		if err := root.Execute(); err != nil {
			status.New(stderr, true).Failed(err)
			return 1
		}
		return 0
	}

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		return 1
	}
	return 0
}
