package cheader

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/cwbudde/algo-golden/fixture"
	"github.com/cwbudde/algo-golden/internal/fsutil"
)

// Defaults matching the reference harness.
const (
	DefaultPath       = "../sw/ground_truth.h"
	DefaultInputName  = "cInput"
	DefaultGoldenName = "cGolden"
	DefaultAlignment  = 4096
)

// Errors returned by Render and Parse.
var (
	ErrEmptySet         = errors.New("cheader: set has no samples")
	ErrInvalidName      = errors.New("cheader: array name is not a C identifier")
	ErrDuplicateName    = errors.New("cheader: input and golden arrays share a name")
	ErrInvalidAlignment = errors.New("cheader: alignment must be a power of two")
	ErrInvalidInclude   = errors.New("cheader: include is not a single <file> or \"file\" operand")
)

// Options controls header rendering. Zero fields take the defaults.
type Options struct {
	InputName  string
	GoldenName string
	Alignment  int
	// Includes are emitted as #include lines after the warning comment.
	// Entries without <> or "" delimiters are quoted.
	Includes []string
}

func (o Options) withDefaults() Options {
	if o.InputName == "" {
		o.InputName = DefaultInputName
	}

	if o.GoldenName == "" {
		o.GoldenName = DefaultGoldenName
	}

	if o.Alignment == 0 {
		o.Alignment = DefaultAlignment
	}

	return o
}

var (
	identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	// Bare entries are quoted by Render, so they may not carry delimiters.
	includeRe = regexp.MustCompile(`^(<[^<>"\r\n]+>|"[^<>"\r\n]+"|[^<>"\r\n]+)$`)
)

// Validate checks names, alignment and includes after defaults are
// applied.
func (o Options) Validate() error {
	o = o.withDefaults()
	for _, n := range []string{o.InputName, o.GoldenName} {
		if !identRe.MatchString(n) {
			return fmt.Errorf("%w: %q", ErrInvalidName, n)
		}
	}

	if o.InputName == o.GoldenName {
		return fmt.Errorf("%w: %q", ErrDuplicateName, o.InputName)
	}

	if o.Alignment < 0 || o.Alignment&(o.Alignment-1) != 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAlignment, o.Alignment)
	}

	for _, inc := range o.Includes {
		if !includeRe.MatchString(strings.Trim(inc, " \t")) {
			return fmt.Errorf("%w: %q", ErrInvalidInclude, inc)
		}
	}

	return nil
}

const headerTemplate = `
{{- define "values" -}}
{{- $last := sub (len .) 1 -}}
{{- range $i, $v := . }}    {{ $v }}{{ if lt $i $last }},{{ end }}
{{ end -}}
{{- end -}}
#pragma once
// DO NOT CHANGE THIS
{{ range .Includes }}#include {{ . }}
{{ end }}#define SAMPLES {{ .Samples }}
#define SCALAR {{ .Scalar }}

static int32_t {{ .InputName }}[SAMPLES] __attribute__ ((__aligned__({{ .Alignment }}))) = {
{{ template "values" .Input }}};

static int32_t {{ .GoldenName }}[SAMPLES] __attribute__ ((__aligned__({{ .Alignment }}))) = {
{{ template "values" .Golden }}};
`

var tmpl = template.Must(template.New("header").Funcs(sprig.TxtFuncMap()).Parse(headerTemplate))

type headerData struct {
	Options
	Samples int
	Scalar  int32
	Input   []int32
	Golden  []int32
}

// Render writes the header for s to w.
func Render(w io.Writer, s fixture.Set, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	if s.Len() == 0 {
		return ErrEmptySet
	}

	if err := s.Validate(); err != nil {
		return err
	}

	opts = opts.withDefaults()
	data := headerData{
		Options: opts,
		Samples: s.Len(),
		Scalar:  s.Scalar,
		Input:   s.Input,
		Golden:  s.Golden,
	}

	data.Includes = make([]string, len(opts.Includes))
	for i, inc := range opts.Includes {
		data.Includes[i] = quoteInclude(inc)
	}

	return tmpl.Execute(w, data)
}

// WriteFile renders the header to path, creating parent directories.
func WriteFile(path string, s fixture.Set, opts Options) error {
	// Render into a discarding writer first so a bad set never replaces an
	// existing header.
	if err := Render(io.Discard, s, opts); err != nil {
		return err
	}

	return fsutil.WriteFile(path, func(w io.Writer) error {
		return Render(w, s, opts)
	})
}

func quoteInclude(inc string) string {
	inc = strings.TrimSpace(inc)
	if strings.HasPrefix(inc, "<") || strings.HasPrefix(inc, `"`) {
		return inc
	}

	return `"` + inc + `"`
}
