package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/gogpu/regradient"
	"github.com/gogpu/regradient/asset"
	"github.com/gogpu/regradient/internal/imageio"
	"github.com/gogpu/regradient/internal/watch"
)

var errUsage = errors.New("wrong number of arguments")

type app struct {
	stdout   io.Writer
	stderr   io.Writer
	evalOpts []regradient.EvalOption
}

func wantArgs(cmd string, args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("%s: %w (usage: %s %s)", cmd, errUsage, cmd, usage)
	}
	return nil
}

func (a *app) cmdNew(args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	width := fs.Int("width", regradient.DefaultWidth, "output width")
	height := fs.Int("height", regradient.DefaultHeight, "output height")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := wantArgs("new", fs.Args(), 1, "[-width W] [-height H] <file>"); err != nil {
		return err
	}
	g := regradient.NewGradient()
	g.SetDimensions(*width, *height)
	if err := g.Validate(); err != nil {
		return err
	}
	return asset.Save(fs.Arg(0), g)
}

func (a *app) cmdInfo(args []string) error {
	if err := wantArgs("info", args, 1, "<file>"); err != nil {
		return err
	}
	g, err := asset.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "size   %dx%d\n", g.Width(), g.Height())
	fmt.Fprintf(a.stdout, "stops  %d\n", g.Len())
	for i, s := range g.Stops() {
		fmt.Fprintf(a.stdout, "  [%d] id=%d position=%.4f color=%s\n", i, s.ID, s.Position, s.Color.HexString())
	}
	if err := g.Validate(); err != nil {
		fmt.Fprintf(a.stdout, "note   %v\n", err)
	}
	return nil
}

func (a *app) cmdAdd(args []string) error {
	if err := wantArgs("add", args, 3, "<file> <position> <#rrggbb[aa]>"); err != nil {
		return err
	}
	pos, err := parsePosition(args[1])
	if err != nil {
		return err
	}
	c, err := parseColor(args[2])
	if err != nil {
		return err
	}
	return a.edit(args[0], func(g *regradient.Gradient) error {
		id := g.AddStop(c, pos)
		fmt.Fprintln(a.stdout, id)
		return nil
	})
}

func (a *app) cmdMove(args []string) error {
	if err := wantArgs("move", args, 3, "<file> <id> <position>"); err != nil {
		return err
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	pos, err := parsePosition(args[2])
	if err != nil {
		return err
	}
	return a.edit(args[0], func(g *regradient.Gradient) error {
		_, err := g.MoveStop(id, pos)
		return err
	})
}

func (a *app) cmdRemove(args []string) error {
	if err := wantArgs("remove", args, 2, "<file> <id>"); err != nil {
		return err
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	return a.edit(args[0], func(g *regradient.Gradient) error {
		return g.RemoveStop(id)
	})
}

func (a *app) cmdColor(args []string) error {
	if err := wantArgs("color", args, 3, "<file> <id> <#rrggbb[aa]>"); err != nil {
		return err
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	c, err := parseColor(args[2])
	if err != nil {
		return err
	}
	return a.edit(args[0], func(g *regradient.Gradient) error {
		return g.SetStopColor(id, c)
	})
}

func (a *app) cmdResize(args []string) error {
	if err := wantArgs("resize", args, 3, "<file> <width> <height>"); err != nil {
		return err
	}
	w, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("width: %w", err)
	}
	h, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("height: %w", err)
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", regradient.ErrInvalidDimensions, w, h)
	}
	return a.edit(args[0], func(g *regradient.Gradient) error {
		g.SetDimensions(w, h)
		return nil
	})
}

func (a *app) cmdRender(args []string) error {
	if err := wantArgs("render", args, 2, "<file> <image>"); err != nil {
		return err
	}
	return a.render(args[0], args[1])
}

func (a *app) cmdWatch(ctx context.Context, args []string) error {
	if err := wantArgs("watch", args, 2, "<file> <image>"); err != nil {
		return err
	}
	src, dst := args[0], args[1]
	if err := a.render(src, dst); err != nil {
		return err
	}
	w, err := watch.New(src, watch.DefaultDebounce,
		func() error { return a.render(src, dst) },
		func(err error) { fmt.Fprintln(a.stderr, "regradient:", err) },
	)
	if err != nil {
		return fmt.Errorf("watch %s: %w", src, err)
	}
	w.Start()
	defer w.Stop()
	fmt.Fprintf(a.stdout, "watching %s\n", src)
	<-ctx.Done()
	return nil
}

// edit loads path, applies fn and saves the result in place.
func (a *app) edit(path string, fn func(*regradient.Gradient) error) error {
	g, err := asset.Load(path)
	if err != nil {
		return err
	}
	if err := fn(g); err != nil {
		return err
	}
	return asset.Save(path, g)
}

// render evaluates the gradient at src and writes it to the image dst.
func (a *app) render(src, dst string) error {
	if _, err := imageio.FormatFromPath(dst); err != nil {
		return err
	}
	g, err := asset.Load(src)
	if err != nil {
		return err
	}
	pm, err := regradient.Evaluate(g, a.evalOpts...)
	if err != nil {
		return fmt.Errorf("render %s: %w", src, err)
	}
	if err := imageio.Save(dst, pm); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "wrote %s (%dx%d)\n", dst, pm.Width(), pm.Height())
	return nil
}

func parsePosition(s string) (float64, error) {
	pos, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("position: %w", err)
	}
	return pos, nil
}

func parseID(s string) (regradient.StopID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("stop id: %w", err)
	}
	return regradient.StopID(id), nil
}

func parseColor(s string) (regradient.RGBA, error) {
	c, ok := regradient.Hex(s)
	if !ok {
		return regradient.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return c, nil
}
