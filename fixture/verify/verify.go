// Package verify checks that the fixture files in a directory agree with
// each other: golden.txt must equal input.txt scaled by ctrl.txt, and the
// C header and bundle, when present, must carry the same values.
package verify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-golden/fixture"
	"github.com/cwbudde/algo-golden/fixture/bundle"
	"github.com/cwbudde/algo-golden/fixture/cheader"
	"github.com/cwbudde/algo-golden/fixture/textio"
)

// Source names the file a mismatch was found in.
type Source string

const (
	SourceGolden Source = "golden.txt"
	SourceHeader Source = "header"
	SourceBundle Source = "bundle"
)

// Mismatch is one disagreement between a fixture file and the values
// recomputed from input.txt and ctrl.txt. Index is -1 for whole-file
// problems such as a wrong length.
type Mismatch struct {
	Source Source
	Index  int
	Got    int64
	Want   int64
	Detail string
}

// String formats an element mismatch as "@ index, got != want (where)",
// the layout the testbench host prints after "Error found".
func (m Mismatch) String() string {
	where := string(m.Source)
	if m.Detail != "" {
		where += " " + m.Detail
	}

	if m.Index < 0 {
		return fmt.Sprintf("%s (%d != %d)", where, m.Got, m.Want)
	}

	return fmt.Sprintf("@ %d, %d != %d (%s)", m.Index, m.Got, m.Want, where)
}

// Options selects what to check. Zero Samples or Scalar means any value
// is accepted. Empty HeaderPath or BundlePath skips that file.
type Options struct {
	Samples     int
	Scalar      int32
	CheckScalar bool

	// HeaderPath is resolved relative to the fixture directory.
	HeaderPath string
	InputName  string
	GoldenName string

	// BundlePath is resolved relative to the fixture directory.
	BundlePath string
}

// Report is the outcome of checking one directory.
type Report struct {
	Dir        string
	Samples    int
	Scalar     int32
	Header     bool // header was checked
	Bundle     bool // bundle was checked
	Mismatches []Mismatch
}

// OK reports whether no mismatches were found.
func (r Report) OK() bool {
	return len(r.Mismatches) == 0
}

func (r *Report) add(m Mismatch) {
	r.Mismatches = append(r.Mismatches, m)
}

// Dir checks the fixtures in dir. Unreadable or unparsable files return an
// error; value disagreements are collected in the report.
func Dir(dir string, opts Options) (Report, error) {
	s, err := textio.ReadFixtures(dir)
	if err != nil {
		return Report{}, err
	}

	rep := Report{Dir: dir, Samples: s.Len(), Scalar: s.Scalar}
	if opts.Samples > 0 && s.Len() != opts.Samples {
		rep.add(Mismatch{Source: textio.InputFile, Index: -1, Got: int64(s.Len()), Want: int64(opts.Samples), Detail: "sample count"})
	}

	if opts.CheckScalar && s.Scalar != opts.Scalar {
		rep.add(Mismatch{Source: textio.CtrlFile, Index: -1, Got: int64(s.Scalar), Want: int64(opts.Scalar), Detail: "scalar"})
	}

	want := make([]int64, len(s.Input))
	for i, v := range s.Input {
		want[i] = int64(v) * int64(s.Scalar)
	}

	compare(&rep, SourceGolden, "", s.Golden, want)

	if opts.HeaderPath != "" {
		if err := checkHeader(&rep, resolve(dir, opts.HeaderPath), s, want, opts); err != nil {
			return Report{}, err
		}
	}

	if opts.BundlePath != "" {
		if err := checkBundle(&rep, resolve(dir, opts.BundlePath), s, want); err != nil {
			return Report{}, err
		}
	}

	return rep, nil
}

func checkHeader(rep *Report, path string, s fixture.Set, want []int64, opts Options) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer func() { _ = f.Close() }()

	h, err := cheader.Parse(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	rep.Header = true

	if h.Samples != s.Len() {
		rep.add(Mismatch{Source: SourceHeader, Index: -1, Got: int64(h.Samples), Want: int64(s.Len()), Detail: "SAMPLES"})
	}

	if h.Scalar != s.Scalar {
		rep.add(Mismatch{Source: SourceHeader, Index: -1, Got: int64(h.Scalar), Want: int64(s.Scalar), Detail: "SCALAR"})
	}

	inName, goldenName := opts.InputName, opts.GoldenName
	if inName == "" {
		inName = cheader.DefaultInputName
	}

	if goldenName == "" {
		goldenName = cheader.DefaultGoldenName
	}

	in, err := h.Array(inName)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	golden, err := h.Array(goldenName)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	compare(rep, SourceHeader, inName, in.Values, widen(s.Input))
	compare(rep, SourceHeader, goldenName, golden.Values, want)
	return nil
}

func checkBundle(rep *Report, path string, s fixture.Set, want []int64) error {
	doc, err := bundle.ReadFile(path)
	if err != nil {
		return err
	}

	rep.Bundle = true

	got := doc.Set()
	if got.Scalar != s.Scalar {
		rep.add(Mismatch{Source: SourceBundle, Index: -1, Got: int64(got.Scalar), Want: int64(s.Scalar), Detail: "scalar"})
	}

	compare(rep, SourceBundle, "input", got.Input, widen(s.Input))
	compare(rep, SourceBundle, "golden", got.Golden, want)
	return nil
}

func compare(rep *Report, src Source, detail string, got []int32, want []int64) {
	if len(got) != len(want) {
		d := "length"
		if detail != "" {
			d = detail + " length"
		}

		rep.add(Mismatch{Source: src, Index: -1, Got: int64(len(got)), Want: int64(len(want)), Detail: d})
		return
	}

	for i := range got {
		if int64(got[i]) != want[i] {
			rep.add(Mismatch{Source: src, Index: i, Got: int64(got[i]), Want: want[i], Detail: detail})
		}
	}
}

func widen(v []int32) []int64 {
	out := make([]int64, len(v))
	for i, x := range v {
		out[i] = int64(x)
	}

	return out
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(dir, path)
}

// Dirs checks several directories concurrently and returns their reports
// in the order given. The first hard error cancels the remaining checks.
func Dirs(ctx context.Context, dirs []string, opts Options) ([]Report, error) {
	reports := make([]Report, len(dirs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, dir := range dirs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			rep, err := Dir(dir, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", dir, err)
			}

			reports[i] = rep
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}
