// Command goldengen generates golden test vectors for scale kernels.
//
// Usage:
//
//	goldengen [generate] [flags]
//	goldengen check [dir ...]
//	goldengen info [dir]
//
// Without a subcommand it generates one fixture set: input.txt, ctrl.txt
// and golden.txt in the output directory and a C header at
// ../sw/ground_truth.h relative to it.
//
// Generate flags (--out, --seed, --samples, ...) belong to the root and
// generate commands only. "goldengen --seed 1 check" is rejected; put them
// after "generate" or use them with no subcommand.
//
// Examples:
//
//	goldengen
//	goldengen --seed 42 --out data
//	goldengen generate --scalar 3 --samples 64 --bundle cbor
//	goldengen check data
//	goldengen info data
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// errChecksFailed signals a failed check after the mismatches have been
// printed; main exits non-zero without logging it again.
var errChecksFailed = errors.New("fixture checks failed")

type cli struct {
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	app := &cli{log: newLogger(os.Stderr, false)}

	root := &cobra.Command{
		Use:   "goldengen",
		Short: "Generate golden test vectors for scale kernels",
		Long: `goldengen writes a random input vector, a scalar and the golden product as text fixtures and a C header for device test harnesses.

Generation flags apply with no subcommand or after "generate"; they are not
accepted in front of check or info.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			app.log = newLogger(cmd.ErrOrStderr(), verbose)
			mode, _ := cmd.Flags().GetString("color")
			return setupColor(mode)
		},
	}

	root.PersistentFlags().String("config", "", "config file (.toml, .yaml or .yml)")
	root.PersistentFlags().Bool("verbose", false, "enable debug logging")
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	gen := newGenerateCmd(app)
	root.RunE = gen.RunE
	addGenerateFlags(root)
	root.SetFlagErrorFunc(flagError)

	root.AddCommand(gen)
	root.AddCommand(newCheckCmd(app))
	root.AddCommand(newInfoCmd(app))
	root.AddCommand(newVersionCmd())

	return root
}

// flagError points at the generate command when a subcommand is given a
// flag that only the root and generate commands define.
func flagError(cmd *cobra.Command, err error) error {
	name, ok := strings.CutPrefix(err.Error(), "unknown flag: --")
	if !ok || !cmd.HasParent() || cmd.Root().Flags().Lookup(name) == nil {
		return err
	}

	return fmt.Errorf("%w (a generate flag; use it with no subcommand or after \"generate\", not with %q)", err, cmd.Name())
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func setupColor(mode string) error {
	switch mode {
	case "auto":
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (want auto, on or off)", mode)
	}

	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errChecksFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}

		os.Exit(1)
	}
}
