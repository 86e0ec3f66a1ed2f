package asset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/regradient"
)

func sampleGradient() *regradient.Gradient {
	g := regradient.NewGradient()
	g.AddStop(regradient.RGBA{R: 0.25, G: 0.5, B: 0.75, A: 0.125}, 0.3)
	id := g.AddStop(regradient.Red, 0.9)
	if _, err := g.MoveStop(id, 0.1); err != nil {
		panic(err)
	}
	g.SetDimensions(97, 5)
	return g
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.regradient", FormatJSON, false},
		{"dir/a.JSON", FormatJSON, false},
		{"a.toml", FormatTOML, false},
		{"a.yaml", FormatYAML, false},
		{"a.yml", FormatYAML, false},
		{"a.png", 0, true},
		{"noext", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("err = %v, want ErrUnknownFormat", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("FormatFromPath(%q) = %v, %v; want %v", tt.path, got, err, tt.want)
			}
		})
	}
}

func TestRoundTripReproducesPixels(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatTOML, FormatYAML} {
		t.Run(f.String(), func(t *testing.T) {
			g := sampleGradient()
			before, err := regradient.Evaluate(g, regradient.WithGPU(false))
			if err != nil {
				t.Fatal(err)
			}

			var buf bytes.Buffer
			if err := Encode(&buf, g, f); err != nil {
				t.Fatalf("Encode() = %v", err)
			}
			loaded, err := Decode(&buf, f)
			if err != nil {
				t.Fatalf("Decode() = %v", err)
			}

			if diff := cmp.Diff(g.Stops(), loaded.Stops()); diff != "" {
				t.Errorf("stops mismatch (-want +got):\n%s", diff)
			}
			if loaded.Width() != 97 || loaded.Height() != 5 {
				t.Errorf("size = %dx%d, want 97x5", loaded.Width(), loaded.Height())
			}

			after, err := regradient.Evaluate(loaded, regradient.WithGPU(false))
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(before.Data(), after.Data()) {
				t.Error("pixels differ after round trip")
			}
		})
	}
}

func TestDecodeEditorFile(t *testing.T) {
	const file = `{
    "Nodes": [
        {"Color": {"r": 0.0, "g": 0.0, "b": 0.0, "a": 1.0}, "Percent": 1.0, "ID": 48213077},
        {"Color": {"r": 1.0, "g": 1.0, "b": 1.0, "a": 1.0}, "Percent": 0.0, "ID": 1520331}
    ],
    "Size": {"x": 256, "y": 64}
}`

	g, err := Decode(strings.NewReader(file), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	want := []regradient.Stop{
		{Position: 0, Color: regradient.White, ID: 1520331},
		{Position: 1, Color: regradient.Black, ID: 48213077},
	}
	if diff := cmp.Diff(want, g.Stops()); diff != "" {
		t.Errorf("stops mismatch (-want +got):\n%s", diff)
	}
	if g.Width() != 256 || g.Height() != 64 {
		t.Errorf("size = %dx%d, want 256x64", g.Width(), g.Height())
	}
}

func TestDecodeEmptyRecord(t *testing.T) {
	g, err := Decode(strings.NewReader(`{"Nodes": [], "Size": {"x": 0, "y": 0}}`), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if !g.IsEmpty() {
		t.Error("empty record should decode to an empty gradient")
	}
	if _, err := regradient.Evaluate(g); !errors.Is(err, regradient.ErrInvalidDimensions) {
		t.Errorf("Evaluate() = %v, want ErrInvalidDimensions", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  Format
		wantErr error
	}{
		{"duplicate ids", `{"Nodes":[{"ID":5},{"ID":5,"Percent":1}],"Size":{"x":2,"y":2}}`, FormatJSON, regradient.ErrDuplicateStopID},
		{"bad json", `{"Nodes": [`, FormatJSON, nil},
		{"bad yaml", "Nodes: [\n", FormatYAML, nil},
		{"bad toml", "Nodes = [[", FormatTOML, nil},
		{"bad format", `{}`, Format(42), ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.data), tt.format)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"g.regradient", "g.toml", "g.yml"} {
		t.Run(name, func(t *testing.T) {
			g := sampleGradient()
			path := filepath.Join(dir, name)

			if err := Save(path, g); err != nil {
				t.Fatalf("Save() = %v", err)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load() = %v", err)
			}
			if diff := cmp.Diff(FromGradient(g), FromGradient(loaded)); diff != "" {
				t.Errorf("record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveWritesEditorLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.regradient")
	if err := Save(path, regradient.NewGradient()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"Nodes"`, `"Percent"`, `"ID"`, `"Color"`, `"r"`, `"Size"`, `"x"`} {
		if !bytes.Contains(data, []byte(key)) {
			t.Errorf("saved file missing key %s:\n%s", key, data)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("gradient.bmp"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Load(.bmp) = %v, want ErrUnknownFormat", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.regradient")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) = %v, want os.ErrNotExist", err)
	}
}
