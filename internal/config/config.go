// Package config loads goldengen settings from TOML or YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-golden/fixture"
	"github.com/cwbudde/algo-golden/fixture/bundle"
	"github.com/cwbudde/algo-golden/fixture/cheader"
)

// DefaultFile is looked up in the working directory when no config path is
// given.
const DefaultFile = "goldengen.toml"

// ErrUnknownExtension is returned for config files that are neither TOML
// nor YAML.
var ErrUnknownExtension = errors.New("config: unknown file extension")

// Config is the full generator configuration.
type Config struct {
	Output  Output  `toml:"output" yaml:"output"`
	Fixture Fixture `toml:"fixture" yaml:"fixture"`
	Header  Header  `toml:"header" yaml:"header"`
}

// Output controls where files are written. Header and Bundle are relative
// to Dir unless absolute.
type Output struct {
	Dir    string `toml:"dir" yaml:"dir"`
	Header string `toml:"header" yaml:"header"`
	Bundle string `toml:"bundle" yaml:"bundle"` // none, msgpack or cbor
}

// Fixture holds the generation parameters. A nil Seed means a fresh
// random seed per run.
type Fixture struct {
	Samples int    `toml:"samples" yaml:"samples"`
	Scalar  int32  `toml:"scalar" yaml:"scalar"`
	Min     int32  `toml:"min" yaml:"min"`
	Max     int32  `toml:"max" yaml:"max"`
	Seed    *int64 `toml:"seed" yaml:"seed"`
}

// Header holds the C header options.
type Header struct {
	InputName  string   `toml:"input_name" yaml:"input_name"`
	GoldenName string   `toml:"golden_name" yaml:"golden_name"`
	Alignment  int      `toml:"alignment" yaml:"alignment"`
	Includes   []string `toml:"includes" yaml:"includes"`
}

// Default returns the reference configuration: 32 samples from
// [-100000, 100000) scaled by 5, text fixtures in the working directory
// and the header at ../sw/ground_truth.h.
func Default() Config {
	return Config{
		Output: Output{
			Dir:    ".",
			Header: cheader.DefaultPath,
			Bundle: "none",
		},
		Fixture: Fixture{
			Samples: fixture.DefaultSamples,
			Scalar:  fixture.DefaultScalar,
			Min:     fixture.DefaultMin,
			Max:     fixture.DefaultMax,
		},
		Header: Header{
			InputName:  cheader.DefaultInputName,
			GoldenName: cheader.DefaultGoldenName,
			Alignment:  cheader.DefaultAlignment,
		},
	}
}

// Load reads path over the defaults and validates the result. The format
// follows the extension: .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
		if err != nil {
			return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}

		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("%s: unknown keys: %v", path, undecoded)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnknownExtension, path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Find returns DefaultFile in dir if it exists.
func Find(dir string) (string, bool, error) {
	candidate := filepath.Join(dir, DefaultFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, true, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
	}

	return "", false, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.Output.Dir == "" {
		return errors.New("config: output.dir is empty")
	}

	if _, err := c.BundleFormat(); err != nil {
		return err
	}

	if err := c.Params().Validate(); err != nil {
		return err
	}

	return c.HeaderOptions().Validate()
}

// Params converts the fixture section.
func (c Config) Params() fixture.Params {
	return fixture.Params{
		Samples: c.Fixture.Samples,
		Scalar:  c.Fixture.Scalar,
		Min:     c.Fixture.Min,
		Max:     c.Fixture.Max,
	}
}

// HeaderOptions converts the header section.
func (c Config) HeaderOptions() cheader.Options {
	return cheader.Options{
		InputName:  c.Header.InputName,
		GoldenName: c.Header.GoldenName,
		Alignment:  c.Header.Alignment,
		Includes:   c.Header.Includes,
	}
}

// BundleFormat parses output.bundle.
func (c Config) BundleFormat() (bundle.Format, error) {
	return bundle.ParseFormat(c.Output.Bundle)
}

// HeaderPath returns the header location, resolved against Output.Dir.
// An empty Output.Header disables the header.
func (c Config) HeaderPath() string {
	return resolve(c.Output.Dir, c.Output.Header)
}

// BundlePath returns the bundle location, or "" when bundles are off.
func (c Config) BundlePath() string {
	f, err := c.BundleFormat()
	if err != nil || f == bundle.FormatNone {
		return ""
	}

	return filepath.Join(c.Output.Dir, f.FileName())
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(dir, path)
}
