package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-golden/fixture"
	"github.com/cwbudde/algo-golden/fixture/bundle"
	"github.com/cwbudde/algo-golden/fixture/cheader"
	"github.com/cwbudde/algo-golden/fixture/textio"
	"github.com/cwbudde/algo-golden/internal/config"
)

func newGenerateCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a fixture set",
		Long: `Generate draws a random input vector, multiplies it by the scalar and
writes input.txt, ctrl.txt and golden.txt to the output directory plus the
C header (default ../sw/ground_truth.h relative to the output directory).

Settings come from --config, else goldengen.toml in the working directory,
else the built-in defaults. Flags override the file.`,
		Args: cobra.NoArgs,
		RunE: app.runGenerate,
	}

	addGenerateFlags(cmd)
	return cmd
}

func addGenerateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("out", "", "output directory for the text fixtures")
	f.String("header", "", "header path, relative to the output directory")
	f.Bool("no-header", false, "do not write the C header")
	f.String("bundle", "", "also write a binary bundle (none|msgpack|cbor)")
	f.Int("samples", fixture.DefaultSamples, "number of samples")
	f.Int32("scalar", fixture.DefaultScalar, "scalar multiplier")
	f.Int32("min", fixture.DefaultMin, "smallest input value (inclusive)")
	f.Int32("max", fixture.DefaultMax, "input upper bound (exclusive)")
	f.Int64("seed", 0, "random seed (default: fresh seed per run)")
}

// loadConfig resolves the config file and applies explicitly set flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	f := cmd.Flags()

	path, _ := f.GetString("config")
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return config.Config{}, err
		}

		found, ok, err := config.Find(wd)
		if err != nil {
			return config.Config{}, err
		}

		if ok {
			path = found
		}
	}

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}

	if f.Changed("out") {
		cfg.Output.Dir, _ = f.GetString("out")
	}

	if f.Changed("header") {
		cfg.Output.Header, _ = f.GetString("header")
	}

	if noHeader, _ := f.GetBool("no-header"); noHeader {
		cfg.Output.Header = ""
	}

	if f.Changed("bundle") {
		cfg.Output.Bundle, _ = f.GetString("bundle")
	}

	if f.Changed("samples") {
		cfg.Fixture.Samples, _ = f.GetInt("samples")
	}

	if f.Changed("scalar") {
		cfg.Fixture.Scalar, _ = f.GetInt32("scalar")
	}

	if f.Changed("min") {
		cfg.Fixture.Min, _ = f.GetInt32("min")
	}

	if f.Changed("max") {
		cfg.Fixture.Max, _ = f.GetInt32("max")
	}

	if f.Changed("seed") {
		seed, _ := f.GetInt64("seed")
		cfg.Fixture.Seed = &seed
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func (app *cli) runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	seed, err := pickSeed(cfg)
	if err != nil {
		return err
	}

	app.log.Debug("generating fixture", "seed", seed, "samples", cfg.Fixture.Samples,
		"scalar", cfg.Fixture.Scalar, "min", cfg.Fixture.Min, "max", cfg.Fixture.Max)

	set, err := fixture.GenerateSeeded(seed, cfg.Params())
	if err != nil {
		return err
	}

	written, err := writeSet(cfg, set)
	if err != nil {
		return err
	}

	st := fixture.Analyze(set)
	app.log.Info("fixture written",
		"dir", cfg.Output.Dir,
		"seed", seed,
		"samples", st.Samples,
		"scalar", st.Scalar,
		"golden_peak", st.GoldenPeak,
		"headroom_bits", st.Headroom)

	out := cmd.OutOrStdout()
	for _, p := range written {
		if _, err := fmt.Fprintln(out, p); err != nil {
			return err
		}
	}

	return nil
}

func pickSeed(cfg config.Config) (int64, error) {
	if cfg.Fixture.Seed != nil {
		return *cfg.Fixture.Seed, nil
	}

	return fixture.RandomSeed()
}

// writeSet writes every configured sink and returns the paths written.
func writeSet(cfg config.Config, set fixture.Set) ([]string, error) {
	dir := cfg.Output.Dir
	if err := textio.WriteFixtures(dir, set); err != nil {
		return nil, err
	}

	written := []string{
		filepath.Join(dir, textio.InputFile),
		filepath.Join(dir, textio.CtrlFile),
		filepath.Join(dir, textio.GoldenFile),
	}

	if hp := cfg.HeaderPath(); hp != "" {
		if err := cheader.WriteFile(hp, set, cfg.HeaderOptions()); err != nil {
			return nil, err
		}

		written = append(written, hp)
	}

	if bp := cfg.BundlePath(); bp != "" {
		f, err := cfg.BundleFormat()
		if err != nil {
			return nil, err
		}

		if err := bundle.WriteFile(bp, f, bundle.NewDocument(set, cfg.Params())); err != nil {
			return nil, err
		}

		written = append(written, bp)
	}

	return written, nil
}
