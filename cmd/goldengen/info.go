package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-golden/fixture"
	"github.com/cwbudde/algo-golden/fixture/textio"
)

func newInfoCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "info [dir]",
		Short: "Print value statistics of a fixture set",
		Args:  cobra.MaximumNArgs(1),
		RunE:  app.runInfo,
	}
}

func (app *cli) runInfo(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	} else if cfg, err := loadConfig(cmd); err == nil {
		dir = cfg.Output.Dir
	} else {
		return err
	}

	set, err := textio.ReadFixtures(dir)
	if err != nil {
		return err
	}

	if err := set.Validate(); err != nil {
		app.log.Warn("golden does not match input", "dir", dir, "err", err)
	}

	st := fixture.Analyze(set)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	rows := []struct {
		name  string
		value any
	}{
		{"Samples", st.Samples},
		{"Scalar", st.Scalar},
		{"Input min", st.InputMin},
		{"Input max", st.InputMax},
		{"Input peak", st.InputPeak},
		{"Golden peak", st.GoldenPeak},
		{"Golden bits", st.GoldenBits},
		{"Headroom bits", st.Headroom},
	}

	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%v\n", r.name, r.value); err != nil {
			return err
		}
	}

	return tw.Flush()
}
