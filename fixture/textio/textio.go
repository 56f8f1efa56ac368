// Package textio reads and writes the plain text fixture files: input.txt
// and golden.txt hold one decimal integer per line, ctrl.txt holds the
// scalar on a single line.
package textio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-golden/fixture"
	"github.com/cwbudde/algo-golden/internal/fsutil"
)

// Fixture file names inside an output directory.
const (
	InputFile  = "input.txt"
	CtrlFile   = "ctrl.txt"
	GoldenFile = "golden.txt"
)

// Errors returned by the readers.
var (
	ErrSyntax      = errors.New("textio: invalid integer")
	ErrNoScalar    = errors.New("textio: control file has no scalar")
	ErrExtraScalar = errors.New("textio: control file has more than one value")
)

// WriteInts writes v to w, one decimal integer per line.
func WriteInts(w io.Writer, v []int32) error {
	buf := make([]byte, 0, 16)
	for _, x := range v {
		buf = strconv.AppendInt(buf[:0], int64(x), 10)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}

	return nil
}

// WriteScalar writes the scalar as a single line.
func WriteScalar(w io.Writer, scalar int32) error {
	_, err := fmt.Fprintf(w, "%d\n", scalar)
	return err
}

// WriteFixtures writes input.txt, ctrl.txt and golden.txt for s into dir,
// creating dir if needed and replacing existing files.
func WriteFixtures(dir string, s fixture.Set) error {
	writes := []struct {
		name string
		fn   fsutil.WriteFunc
	}{
		{InputFile, func(w io.Writer) error { return WriteInts(w, s.Input) }},
		{CtrlFile, func(w io.Writer) error { return WriteScalar(w, s.Scalar) }},
		{GoldenFile, func(w io.Writer) error { return WriteInts(w, s.Golden) }},
	}

	for _, wr := range writes {
		if err := fsutil.WriteFile(filepath.Join(dir, wr.name), wr.fn); err != nil {
			return err
		}
	}

	return nil
}

// ReadInts parses one integer per line. Blank lines and surrounding
// whitespace are ignored; anything else that is not a 32-bit decimal
// integer returns an error wrapping ErrSyntax with the line number.
func ReadInts(r io.Reader) ([]int32, error) {
	var out []int32
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %q", ErrSyntax, line, text)
		}

		out = append(out, int32(v))
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// ReadScalar parses a control file holding exactly one integer.
func ReadScalar(r io.Reader) (int32, error) {
	v, err := ReadInts(r)
	if err != nil {
		return 0, err
	}

	switch len(v) {
	case 0:
		return 0, ErrNoScalar
	case 1:
		return v[0], nil
	default:
		return 0, fmt.Errorf("%w: got %d", ErrExtraScalar, len(v))
	}
}

// ReadFixtures loads the three text fixtures from dir. The returned set is
// not validated; callers compare Golden against Input*Scalar themselves.
func ReadFixtures(dir string) (fixture.Set, error) {
	var s fixture.Set
	var err error

	if s.Input, err = readFile(filepath.Join(dir, InputFile), ReadInts); err != nil {
		return fixture.Set{}, err
	}

	if s.Scalar, err = readFile(filepath.Join(dir, CtrlFile), ReadScalar); err != nil {
		return fixture.Set{}, err
	}

	if s.Golden, err = readFile(filepath.Join(dir, GoldenFile), ReadInts); err != nil {
		return fixture.Set{}, err
	}

	return s, nil
}

func readFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}

	defer func() { _ = f.Close() }()

	v, err := parse(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}

	return v, nil
}
