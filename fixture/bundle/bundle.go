// Package bundle stores a complete fixture set in one binary file, for
// harnesses that would rather decode a single document than parse text.
// Two encodings are supported: MessagePack and deterministic CBOR.
package bundle

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/cwbudde/algo-golden/fixture"
	"github.com/cwbudde/algo-golden/internal/fsutil"
)

// Version is the current document layout version.
const Version = 1

// Format selects the bundle encoding.
type Format int

const (
	FormatNone Format = iota
	FormatMsgpack
	FormatCBOR
)

// Errors returned by bundle functions.
var (
	ErrUnknownFormat = errors.New("bundle: unknown format")
	ErrVersion       = errors.New("bundle: unsupported document version")
)

// ParseFormat maps a flag or config value to a Format. The empty string
// means FormatNone.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return FormatNone, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return FormatNone, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

func (f Format) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatMsgpack:
		return "msgpack"
	case FormatCBOR:
		return "cbor"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Ext returns the file extension used for f, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatMsgpack:
		return ".msgpack"
	case FormatCBOR:
		return ".cbor"
	default:
		return ""
	}
}

// FileName returns the default bundle file name for f.
func (f Format) FileName() string {
	if f == FormatNone {
		return ""
	}

	return "fixture" + f.Ext()
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	case ".cbor":
		return FormatCBOR, nil
	default:
		return FormatNone, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Params mirrors fixture.Params with stable field tags.
type Params struct {
	Samples int   `msgpack:"samples" cbor:"1,keyasint"`
	Scalar  int32 `msgpack:"scalar" cbor:"2,keyasint"`
	Min     int32 `msgpack:"min" cbor:"3,keyasint"`
	Max     int32 `msgpack:"max" cbor:"4,keyasint"`
}

// Document is the bundle payload.
type Document struct {
	Version int     `msgpack:"version" cbor:"1,keyasint"`
	Seed    int64   `msgpack:"seed" cbor:"2,keyasint"`
	Params  Params  `msgpack:"params" cbor:"3,keyasint"`
	Scalar  int32   `msgpack:"scalar" cbor:"4,keyasint"`
	Input   []int32 `msgpack:"input" cbor:"5,keyasint"`
	Golden  []int32 `msgpack:"golden" cbor:"6,keyasint"`
}

// NewDocument wraps s and the parameters that produced it.
func NewDocument(s fixture.Set, p fixture.Params) Document {
	return Document{
		Version: Version,
		Seed:    s.Seed,
		Params: Params{
			Samples: p.Samples,
			Scalar:  p.Scalar,
			Min:     p.Min,
			Max:     p.Max,
		},
		Scalar: s.Scalar,
		Input:  s.Input,
		Golden: s.Golden,
	}
}

// Set returns the fixture set held by d.
func (d Document) Set() fixture.Set {
	return fixture.Set{
		Seed:   d.Seed,
		Scalar: d.Scalar,
		Input:  d.Input,
		Golden: d.Golden,
	}
}

var cborEnc = func() cbor.EncMode {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}

	return enc
}()

var cborDec = func() cbor.DecMode {
	dec, err := cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(err)
	}

	return dec
}()

// Encode writes d to w in format f.
func Encode(w io.Writer, f Format, d Document) error {
	switch f {
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(&d)
	case FormatCBOR:
		return cborEnc.NewEncoder(w).Encode(&d)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
}

// Decode reads a document in format f from r.
func Decode(r io.Reader, f Format) (Document, error) {
	var d Document
	var err error
	switch f {
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&d)
	case FormatCBOR:
		err = cborDec.NewDecoder(r).Decode(&d)
	default:
		return Document{}, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}

	if err != nil {
		return Document{}, fmt.Errorf("bundle: decode %v: %w", f, err)
	}

	if d.Version != Version {
		return Document{}, fmt.Errorf("%w: %d", ErrVersion, d.Version)
	}

	return d, nil
}

// WriteFile writes d to path in format f.
func WriteFile(path string, f Format, d Document) error {
	if f == FormatNone {
		return fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}

	return fsutil.WriteFile(path, func(w io.Writer) error {
		return Encode(w, f, d)
	})
}

// ReadFile decodes the bundle at path, choosing the format from its
// extension.
func ReadFile(path string) (Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return Document{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}

	defer func() { _ = file.Close() }()

	d, err := Decode(file, f)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}

	return d, nil
}
