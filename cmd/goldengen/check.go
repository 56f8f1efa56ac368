package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-golden/fixture/verify"
)

var (
	passColor = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
)

func newCheckCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [dir ...]",
		Short: "Check that fixture files agree with each other",
		Long: `Check reads input.txt, ctrl.txt and golden.txt in each directory (default
the configured output directory) and verifies golden[i] == input[i] * scalar.
The C header and bundle named by the config are compared element for element.
Exits non-zero if any directory fails.`,
		RunE: app.runCheck,
	}

	f := cmd.Flags()
	f.String("header", "", "header path, relative to each directory")
	f.Bool("no-header", false, "skip the C header")
	f.String("bundle", "", "bundle format to check (none|msgpack|cbor)")
	f.Int("samples", 0, "required sample count")
	f.Int32("scalar", 0, "required scalar")
	return cmd
}

func (app *cli) runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := verify.Options{
		HeaderPath: cfg.Output.Header,
		InputName:  cfg.Header.InputName,
		GoldenName: cfg.Header.GoldenName,
	}

	if bf, _ := cfg.BundleFormat(); bf.FileName() != "" {
		opts.BundlePath = bf.FileName()
	}

	if cmd.Flags().Changed("samples") {
		opts.Samples = cfg.Fixture.Samples
	}

	if cmd.Flags().Changed("scalar") {
		opts.Scalar = cfg.Fixture.Scalar
		opts.CheckScalar = true
	}

	dirs := args
	if len(dirs) == 0 {
		dirs = []string{cfg.Output.Dir}
	}

	reports, err := verify.Dirs(cmd.Context(), dirs, opts)
	if err != nil {
		return err
	}

	failed := 0
	for _, rep := range reports {
		app.log.Debug("checked fixtures", "dir", rep.Dir, "samples", rep.Samples,
			"scalar", rep.Scalar, "header", rep.Header, "bundle", rep.Bundle)
		if err := printReport(cmd.OutOrStdout(), rep, len(reports) > 1); err != nil {
			return err
		}

		if !rep.OK() {
			failed++
		}
	}

	if failed > 0 {
		app.log.Error("fixture check failed", "dirs", failed)
		return errChecksFailed
	}

	return nil
}

// printReport prints one line per mismatch followed by a verdict, in the
// format the device host program uses.
func printReport(w io.Writer, rep verify.Report, named bool) error {
	prefix := ""
	if named {
		prefix = filepath.Clean(rep.Dir) + ": "
	}

	for _, m := range rep.Mismatches {
		if _, err := fmt.Fprintf(w, "%sError found %s\n", prefix, m); err != nil {
			return err
		}
	}

	if rep.OK() {
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, passColor.Sprint("TEST PASSED"))
		return err
	}

	_, err := fmt.Fprintf(w, "%s%s\n", prefix, failColor.Sprintf("Test failed with %d errors", len(rep.Mismatches)))
	return err
}
