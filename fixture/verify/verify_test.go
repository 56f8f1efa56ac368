package verify

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-golden/fixture"
	"github.com/cwbudde/algo-golden/fixture/bundle"
	"github.com/cwbudde/algo-golden/fixture/cheader"
	"github.com/cwbudde/algo-golden/fixture/textio"
	"github.com/cwbudde/algo-golden/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const headerRel = "sw/ground_truth.h"

// writeAll lays out a fixture directory with text files, a header and a
// msgpack bundle and returns the directory and check options for it.
func writeAll(t *testing.T, s fixture.Set) (string, Options) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, textio.WriteFixtures(dir, s))
	require.NoError(t, cheader.WriteFile(filepath.Join(dir, headerRel), s, cheader.Options{}))
	doc := bundle.NewDocument(s, fixture.DefaultParams())
	require.NoError(t, bundle.WriteFile(filepath.Join(dir, bundle.FormatMsgpack.FileName()), bundle.FormatMsgpack, doc))

	return dir, Options{
		Samples:     fixture.DefaultSamples,
		Scalar:      fixture.DefaultScalar,
		CheckScalar: true,
		HeaderPath:  headerRel,
		BundlePath:  bundle.FormatMsgpack.FileName(),
	}
}

func TestDirPasses(t *testing.T) {
	s, err := fixture.GenerateSeeded(1, fixture.DefaultParams())
	require.NoError(t, err)
	dir, opts := writeAll(t, s)

	rep, err := Dir(dir, opts)
	require.NoError(t, err)
	assert.True(t, rep.OK(), "mismatches: %v", rep.Mismatches)
	assert.True(t, rep.Header)
	assert.True(t, rep.Bundle)
	assert.Equal(t, 32, rep.Samples)
	assert.Equal(t, int32(5), rep.Scalar)
}

func TestDirScenario(t *testing.T) {
	s, err := fixture.FromValues(testutil.ScenarioInput(), 5)
	require.NoError(t, err)
	dir, opts := writeAll(t, s)

	rep, err := Dir(dir, opts)
	require.NoError(t, err)
	assert.True(t, rep.OK(), "mismatches: %v", rep.Mismatches)
}

func TestDirGoldenTampered(t *testing.T) {
	s, err := fixture.FromValues(testutil.ScenarioInput(), 5)
	require.NoError(t, err)
	dir, opts := writeAll(t, s)

	golden := append([]int32(nil), s.Golden...)
	golden[3] = 1
	writeInts(t, filepath.Join(dir, textio.GoldenFile), golden)

	rep, err := Dir(dir, opts)
	require.NoError(t, err)
	require.Len(t, rep.Mismatches, 1)
	m := rep.Mismatches[0]
	assert.Equal(t, SourceGolden, m.Source)
	assert.Equal(t, 3, m.Index)
	assert.Equal(t, int64(1), m.Got)
	assert.Equal(t, int64(499995), m.Want)
	assert.Equal(t, "@ 3, 1 != 499995 (golden.txt)", m.String())
}

func TestMismatchString(t *testing.T) {
	tests := []struct {
		name string
		m    Mismatch
		want string
	}{
		{"golden element", Mismatch{Source: SourceGolden, Index: 0, Got: 7, Want: 35}, "@ 0, 7 != 35 (golden.txt)"},
		{"header array", Mismatch{Source: SourceHeader, Index: 31, Got: -1, Want: 5, Detail: "cGolden"}, "@ 31, -1 != 5 (header cGolden)"},
		{"whole file", Mismatch{Source: SourceGolden, Index: -1, Got: 2, Want: 3, Detail: "length"}, "golden.txt length (2 != 3)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.String())
		})
	}
}

func TestDirInputTamperedFlagsHeaderAndBundle(t *testing.T) {
	s, err := fixture.FromValues(testutil.ScenarioInput(), 5)
	require.NoError(t, err)
	dir, opts := writeAll(t, s)

	// Changing input.txt without golden.txt breaks every derived copy.
	in := append([]int32(nil), s.Input...)
	in[0] = 2
	writeInts(t, filepath.Join(dir, textio.InputFile), in)

	rep, err := Dir(dir, opts)
	require.NoError(t, err)
	require.False(t, rep.OK())

	sources := map[Source]int{}
	for _, m := range rep.Mismatches {
		sources[m.Source]++
		assert.Equal(t, 0, m.Index)
	}

	assert.Equal(t, 1, sources[SourceGolden])
	assert.Equal(t, 2, sources[SourceHeader])
	assert.Equal(t, 2, sources[SourceBundle])
}

func TestDirBundleTampered(t *testing.T) {
	s, err := fixture.FromValues(testutil.ScenarioInput(), 5)
	require.NoError(t, err)
	dir, opts := writeAll(t, s)

	doc := bundle.NewDocument(s, fixture.DefaultParams())
	doc.Scalar = 6
	doc.Golden = append([]int32(nil), s.Golden...)
	doc.Golden[31] = 0
	require.NoError(t, bundle.WriteFile(filepath.Join(dir, opts.BundlePath), bundle.FormatMsgpack, doc))

	rep, err := Dir(dir, opts)
	require.NoError(t, err)
	require.Len(t, rep.Mismatches, 2)
	assert.Equal(t, "bundle scalar (6 != 5)", rep.Mismatches[0].String())
	assert.Equal(t, "@ 31, 0 != -385 (bundle golden)", rep.Mismatches[1].String())
}

func TestDirWrongSamplesAndScalar(t *testing.T) {
	s, err := fixture.FromValues([]int32{1, 2, 3}, 7)
	require.NoError(t, err)
	dir, opts := writeAll(t, s)

	rep, err := Dir(dir, opts)
	require.NoError(t, err)
	require.Len(t, rep.Mismatches, 2)
	assert.Equal(t, "sample count", rep.Mismatches[0].Detail)
	assert.Equal(t, "scalar", rep.Mismatches[1].Detail)
	assert.Equal(t, -1, rep.Mismatches[0].Index)
}

func TestDirShortGolden(t *testing.T) {
	s, err := fixture.FromValues([]int32{1, 2, 3}, 5)
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, textio.WriteFixtures(dir, s))
	writeInts(t, filepath.Join(dir, textio.GoldenFile), s.Golden[:2])

	rep, err := Dir(dir, Options{})
	require.NoError(t, err)
	require.Len(t, rep.Mismatches, 1)
	assert.Equal(t, "length", rep.Mismatches[0].Detail)
	assert.False(t, rep.Header)
}

func TestDirHeaderScalarMismatch(t *testing.T) {
	s, err := fixture.FromValues([]int32{1, 2, 3}, 5)
	require.NoError(t, err)
	dir, _ := writeAll(t, s)

	path := filepath.Join(dir, headerRel)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(string(b), "#define SCALAR 5", "#define SCALAR 6", 1)), 0o644))

	rep, err := Dir(dir, Options{HeaderPath: headerRel})
	require.NoError(t, err)
	require.Len(t, rep.Mismatches, 1)
	assert.Equal(t, "SCALAR", rep.Mismatches[0].Detail)
}

func TestDirMissingHeaderIsError(t *testing.T) {
	s, err := fixture.FromValues([]int32{1}, 5)
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, textio.WriteFixtures(dir, s))

	_, err = Dir(dir, Options{HeaderPath: "missing.h"})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDirsKeepsOrder(t *testing.T) {
	var dirs []string
	for seed := int64(1); seed <= 4; seed++ {
		p := fixture.DefaultParams()
		p.Samples = int(seed) * 8
		s, err := fixture.GenerateSeeded(seed, p)
		require.NoError(t, err)
		dir := t.TempDir()
		require.NoError(t, textio.WriteFixtures(dir, s))
		dirs = append(dirs, dir)
	}

	reps, err := Dirs(context.Background(), dirs, Options{})
	require.NoError(t, err)
	require.Len(t, reps, 4)
	for i, rep := range reps {
		assert.Equal(t, dirs[i], rep.Dir)
		assert.Equal(t, (i+1)*8, rep.Samples)
		assert.True(t, rep.OK())
	}
}

func TestDirsHardError(t *testing.T) {
	_, err := Dirs(context.Background(), []string{t.TempDir()}, Options{})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func writeInts(t *testing.T, path string, v []int32) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, textio.WriteInts(f, v))
	require.NoError(t, f.Close())
}
