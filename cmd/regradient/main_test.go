package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/regradient"
	"github.com/gogpu/regradient/asset"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("run %v: %v", args, err)
	}
	return out
}

func TestNewAndInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.regradient")
	mustRun(t, "new", "-width", "32", "-height", "4", path)

	out := mustRun(t, "info", path)
	for _, want := range []string{"size   32x4", "stops  2", "#ffffffff", "#000000ff"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestNewRejectsBadSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.regradient")
	_, err := runCLI(t, "new", "-width", "0", path)
	if !errors.Is(err, regradient.ErrInvalidDimensions) {
		t.Errorf("err = %v, want ErrInvalidDimensions", err)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Error("file written despite invalid size")
	}
}

func TestEditCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.yaml")
	mustRun(t, "new", path)

	idOut := mustRun(t, "add", path, "0.5", "#ff0000")
	id := strings.TrimSpace(idOut)
	if id != "3" {
		t.Fatalf("add printed id %q, want 3", id)
	}

	mustRun(t, "move", path, id, "0.25")
	mustRun(t, "color", path, id, "#00ff0080")
	mustRun(t, "resize", path, "10", "2")

	g, err := asset.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if g.Width() != 10 || g.Height() != 2 {
		t.Errorf("size = %dx%d, want 10x2", g.Width(), g.Height())
	}
	s, ok := g.Stop(3)
	if !ok {
		t.Fatal("stop 3 missing")
	}
	if s.Position != 0.25 {
		t.Errorf("position = %v, want 0.25", s.Position)
	}
	if got := s.Color.HexString(); got != "#00ff0080" {
		t.Errorf("color = %s, want #00ff0080", got)
	}
	if g.Index(3) != 1 {
		t.Errorf("index = %d, want 1", g.Index(3))
	}

	mustRun(t, "remove", path, id)
	g, err = asset.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d after remove, want 2", g.Len())
	}
}

func TestEditUnknownStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.toml")
	mustRun(t, "new", path)

	for _, args := range [][]string{
		{"move", path, "99", "0.5"},
		{"remove", path, "99"},
		{"color", path, "99", "#fff"},
	} {
		if _, err := runCLI(t, args...); !errors.Is(err, regradient.ErrStopNotFound) {
			t.Errorf("%v: err = %v, want ErrStopNotFound", args, err)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "g.regradient")
	dst := filepath.Join(dir, "g.png")
	mustRun(t, "new", "-width", "11", "-height", "3", src)
	out := mustRun(t, "render", src, dst)
	if !strings.Contains(out, "11x3") {
		t.Errorf("render output = %q", out)
	}

	f, err := os.Open(dst)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 11 || b.Dy() != 3 {
		t.Fatalf("bounds = %v", b)
	}
	mid := color.NRGBAModel.Convert(img.At(5, 2)).(color.NRGBA)
	want := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	if mid != want {
		t.Errorf("mid pixel = %v, want %v", mid, want)
	}
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "g.regradient")
	mustRun(t, "new", src)
	mustRun(t, "remove", src, "2")

	if _, err := runCLI(t, "render", src, filepath.Join(dir, "g.png")); !errors.Is(err, regradient.ErrInsufficientStops) {
		t.Errorf("err = %v, want ErrInsufficientStops", err)
	}
	if _, err := runCLI(t, "render", src, filepath.Join(dir, "g.gif")); err == nil {
		t.Error("expected error for unsupported image format")
	}
}

func TestRunUsage(t *testing.T) {
	if _, err := runCLI(t); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("no command: err = %v, want flag.ErrHelp", err)
	}
	if _, err := runCLI(t, "frobnicate"); err == nil {
		t.Error("expected error for unknown command")
	}
	if _, err := runCLI(t, "info"); !errors.Is(err, errUsage) {
		t.Errorf("missing args: err = %v, want errUsage", err)
	}
	if _, err := runCLI(t, "add", "x.regradient", "half", "#fff"); err == nil {
		t.Error("expected error for bad position")
	}
	if _, err := runCLI(t, "add", "x.regradient", "0.5", "#zzz"); err == nil {
		t.Error("expected error for bad color")
	}
}

func TestWatchStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "g.regradient")
	dst := filepath.Join(dir, "g.bmp")
	mustRun(t, "new", "-width", "8", "-height", "1", src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var stdout, stderr bytes.Buffer
	if err := run(ctx, []string{"watch", src, dst}, &stdout, &stderr); err != nil {
		t.Fatalf("watch: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Errorf("initial render missing: %v", err)
	}
}

func TestNoAcceleratorWithoutGPUFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.regradient")
	mustRun(t, "new", path)
	mustRun(t, "info", path)
	if a := regradient.Accelerator(); a != nil {
		t.Errorf("accelerator %q registered without -gpu", a.Name())
	}
}
