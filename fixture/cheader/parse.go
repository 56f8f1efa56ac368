package cheader

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Errors returned by Parse.
var (
	ErrMissingDefine   = errors.New("cheader: missing #define")
	ErrMissingArray    = errors.New("cheader: missing array")
	ErrMalformed       = errors.New("cheader: malformed array initializer")
	ErrDuplicateDefine = errors.New("cheader: #define appears more than once")
)

// Array is one parsed static array.
type Array struct {
	Name      string
	Alignment int
	Values    []int32
}

// Header is the parsed content of a generated header.
type Header struct {
	PragmaOnce bool
	Warning    bool // carries the do-not-edit comment
	Samples    int
	Scalar     int32
	Arrays     []Array
}

// Array returns the array called name.
func (h Header) Array(name string) (Array, error) {
	for _, a := range h.Arrays {
		if a.Name == name {
			return a, nil
		}
	}

	return Array{}, fmt.Errorf("%w: %s", ErrMissingArray, name)
}

var (
	samplesRe = regexp.MustCompile(`(?m)^\s*#define\s+SAMPLES\s+(-?\d+)\s*$`)
	scalarRe  = regexp.MustCompile(`(?m)^\s*#define\s+SCALAR\s+(-?\d+)\s*$`)
	pragmaRe  = regexp.MustCompile(`(?m)^\s*#pragma\s+once\s*$`)
	warningRe = regexp.MustCompile(`(?m)^\s*//\s*DO NOT CHANGE THIS`)
	arrayRe   = regexp.MustCompile(`static\s+int32_t\s+([A-Za-z_][A-Za-z0-9_]*)\s*\[\s*SAMPLES\s*\]` +
		`\s*__attribute__\s*\(\(\s*__aligned__\s*\(\s*(\d+)\s*\)\s*\)\)\s*=\s*\{([^}]*)\}\s*;`)
)

// Parse reads a header produced by Render. It understands only the subset
// of C that Render emits. Each array must have exactly SAMPLES elements,
// separated by commas with no trailing comma.
func Parse(r io.Reader) (Header, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Header{}, err
	}

	src := string(b)

	h := Header{
		PragmaOnce: pragmaRe.MatchString(src),
		Warning:    warningRe.MatchString(src),
	}

	m, err := singleDefine(samplesRe, src, "SAMPLES")
	if err != nil {
		return Header{}, err
	}

	if h.Samples, err = strconv.Atoi(m[1]); err != nil {
		return Header{}, fmt.Errorf("SAMPLES: %w", err)
	}

	if m, err = singleDefine(scalarRe, src, "SCALAR"); err != nil {
		return Header{}, err
	}

	scalar, err := strconv.ParseInt(m[1], 10, 32)
	if err != nil {
		return Header{}, fmt.Errorf("SCALAR: %w", err)
	}

	h.Scalar = int32(scalar)

	for _, am := range arrayRe.FindAllStringSubmatch(src, -1) {
		a := Array{Name: am[1]}
		if a.Alignment, err = strconv.Atoi(am[2]); err != nil {
			return Header{}, fmt.Errorf("%s alignment: %w", a.Name, err)
		}

		if a.Values, err = parseValues(am[3]); err != nil {
			return Header{}, fmt.Errorf("%s: %w", a.Name, err)
		}

		if len(a.Values) != h.Samples {
			return Header{}, fmt.Errorf("%w: %s has %d elements, SAMPLES is %d",
				ErrMalformed, a.Name, len(a.Values), h.Samples)
		}

		h.Arrays = append(h.Arrays, a)
	}

	if len(h.Arrays) == 0 {
		return Header{}, ErrMissingArray
	}

	return h, nil
}

// singleDefine returns the submatches of the one #define re matches.
func singleDefine(re *regexp.Regexp, src, name string) ([]string, error) {
	all := re.FindAllStringSubmatch(src, -1)
	switch len(all) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrMissingDefine, name)
	case 1:
		return all[0], nil
	default:
		return nil, fmt.Errorf("%w: %s defined %d times", ErrDuplicateDefine, name, len(all))
	}
}

func parseValues(body string) ([]int32, error) {
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}

	parts := strings.Split(body, ",")
	out := make([]int32, 0, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			if i == len(parts)-1 {
				return nil, fmt.Errorf("%w: trailing comma", ErrMalformed)
			}

			return nil, fmt.Errorf("%w: empty element %d", ErrMalformed, i)
		}

		v, err := strconv.ParseInt(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %q", ErrMalformed, i, p)
		}

		out = append(out, int32(v))
	}

	return out, nil
}
