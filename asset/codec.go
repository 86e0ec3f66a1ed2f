package asset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/regradient"
)

// Ext is the extension of gradient files written by the editor tool.
const Ext = ".regradient"

// Format identifies a gradient file encoding.
type Format int

const (
	// FormatJSON is the editor tool's native encoding.
	FormatJSON Format = iota
	// FormatTOML encodes the record as TOML.
	FormatTOML
	// FormatYAML encodes the record as YAML.
	FormatYAML
)

// ErrUnknownFormat is returned for file extensions with no known encoding.
var ErrUnknownFormat = errors.New("asset: unknown format")

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromPath returns the encoding implied by the extension of path.
// ".regradient" and ".json" are JSON, ".toml" is TOML, ".yaml" and ".yml"
// are YAML.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case Ext, ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Marshal encodes r in the given format.
func (r Record) Marshal(f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return json.MarshalIndent(r, "", "    ")
	case FormatTOML:
		return toml.Marshal(r)
	case FormatYAML:
		return yaml.Marshal(r)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
}

// Unmarshal decodes data in the given format into a record.
func Unmarshal(data []byte, f Format) (Record, error) {
	var r Record
	var err error
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &r)
	case FormatTOML:
		err = toml.Unmarshal(data, &r)
	case FormatYAML:
		err = yaml.Unmarshal(data, &r)
	default:
		return Record{}, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
	if err != nil {
		return Record{}, fmt.Errorf("asset: decode %v: %w", f, err)
	}
	return r, nil
}

// Encode writes g to w in the given format.
func Encode(w io.Writer, g *regradient.Gradient, f Format) error {
	data, err := FromGradient(g).Marshal(f)
	if err != nil {
		return fmt.Errorf("asset: encode %v: %w", f, err)
	}
	_, err = w.Write(data)
	return err
}

// Decode reads a gradient in the given format from r.
func Decode(r io.Reader, f Format) (*regradient.Gradient, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("asset: read: %w", err)
	}
	rec, err := Unmarshal(buf.Bytes(), f)
	if err != nil {
		return nil, err
	}
	return rec.Gradient()
}

// Save writes g to path in the format implied by its extension.
func Save(path string, g *regradient.Gradient) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, g, f); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // gradient files are not secret
		return fmt.Errorf("asset: write %s: %w", path, err)
	}
	regradient.Logger().Debug("gradient saved", "path", path, "format", f.String(), "stops", g.Len())
	return nil
}

// Load reads the gradient stored at path.
func Load(path string) (*regradient.Gradient, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("asset: open file: %w", err)
	}
	rec, err := Unmarshal(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	g, err := rec.Gradient()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	regradient.Logger().Debug("gradient loaded", "path", path, "format", f.String(), "stops", g.Len())
	return g, nil
}
