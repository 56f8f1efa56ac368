package textio

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cwbudde/algo-golden/fixture"
	"github.com/cwbudde/algo-golden/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteInts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInts(&buf, []int32{-50000, 0, 100}))
	assert.Equal(t, "-50000\n0\n100\n", buf.String())
}

func TestWriteScalar(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteScalar(&buf, 5))
	assert.Equal(t, "5\n", buf.String())
}

func TestReadInts(t *testing.T) {
	got, err := ReadInts(strings.NewReader("1\n\n  -2 \r\n3"))
	require.NoError(t, err)
	assert.Equal(t, []int32{1, -2, 3}, got)
}

func TestReadIntsErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line string
	}{
		{"word", "1\nabc\n", "line 2"},
		{"float", "1.5\n", "line 1"},
		{"too large", "2147483648\n", "line 1"},
		{"two values", "\n\n1 2\n", "line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadInts(strings.NewReader(tt.in))
			require.ErrorIs(t, err, ErrSyntax)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestReadScalar(t *testing.T) {
	v, err := ReadScalar(strings.NewReader("5\n"))
	require.NoError(t, err)
	assert.Equal(t, int32(5), v)

	_, err = ReadScalar(strings.NewReader("\n"))
	require.ErrorIs(t, err, ErrNoScalar)

	_, err = ReadScalar(strings.NewReader("5\n6\n"))
	require.ErrorIs(t, err, ErrExtraScalar)
}

func TestWriteFixturesLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := fixture.FromValues([]int32{-50000, 0, 100, 99999, -100000}, 5)
	require.NoError(t, err)
	require.NoError(t, WriteFixtures(dir, s))

	read := func(name string) string {
		b, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		return string(b)
	}

	assert.Equal(t, "-50000\n0\n100\n99999\n-100000\n", read(InputFile))
	assert.Equal(t, "5\n", read(CtrlFile))
	assert.Equal(t, "-250000\n0\n500\n499995\n-500000\n", read(GoldenFile))
}

func TestRoundTripRecomputesGolden(t *testing.T) {
	dir := t.TempDir()
	s, err := fixture.GenerateSeeded(2024, fixture.DefaultParams())
	require.NoError(t, err)
	require.NoError(t, WriteFixtures(dir, s))

	got, err := ReadFixtures(dir)
	require.NoError(t, err)
	require.Len(t, got.Input, 32)
	assert.Equal(t, int32(5), got.Scalar)

	recomputed, err := fixture.Scale(got.Input, got.Scalar)
	require.NoError(t, err)
	testutil.RequireIntsEqual(t, got.Golden, recomputed)
	testutil.RequireIntsEqual(t, got.Input, s.Input)
}

func TestInputLinesAreInRange(t *testing.T) {
	dir := t.TempDir()
	s, err := fixture.GenerateSeeded(5, fixture.DefaultParams())
	require.NoError(t, err)
	require.NoError(t, WriteFixtures(dir, s))

	b, err := os.ReadFile(filepath.Join(dir, InputFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
	require.Len(t, lines, 32)
	for i, l := range lines {
		v, err := strconv.Atoi(l)
		require.NoError(t, err, "line %d", i+1)
		assert.True(t, v >= -100000 && v < 100000, "line %d: %d", i+1, v)
	}
}

func TestReadFixturesMissingFile(t *testing.T) {
	_, err := ReadFixtures(t.TempDir())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadFixturesReportsPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, InputFile), []byte("1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, CtrlFile), []byte("x\n"), 0o644))

	_, err := ReadFixtures(dir)
	require.ErrorIs(t, err, ErrSyntax)
	assert.Contains(t, err.Error(), CtrlFile)
}
