// Command regradient creates, edits and renders gradient assets.
//
// Usage:
//
//	regradient [-v] [-gpu] [-linear] <command> [arguments]
//
// Commands:
//
//	new [-width W] [-height H] <file>   create a white-to-black gradient
//	info <file>                         print size and stops
//	add <file> <position> <#rrggbb[aa]> add a stop, prints its id
//	move <file> <id> <position>         move a stop
//	remove <file> <id>                  remove a stop
//	color <file> <id> <#rrggbb[aa]>     recolor a stop
//	resize <file> <width> <height>      change the output size
//	render <file> <image>               write a PNG, BMP or TIFF
//	watch <file> <image>                render again whenever file changes
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/regradient"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "regradient:", err)
		os.Exit(1)
	}
}

// run parses the global flags and dispatches to a subcommand.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("regradient", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		verbose = fs.Bool("v", false, "log debug output to stderr")
		useGPU  = fs.Bool("gpu", false, "evaluate on the GPU when available")
		linear  = fs.Bool("linear", false, "blend stops in linear light")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: regradient [-v] [-gpu] [-linear] <command> [arguments]")
		fmt.Fprintln(stderr, "commands: new, info, add, move, remove, color, resize, render, watch")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return flag.ErrHelp
	}

	if *verbose {
		regradient.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer regradient.SetLogger(nil)
	}

	if *useGPU {
		if err := enableGPU(); err != nil {
			return fmt.Errorf("enable GPU: %w", err)
		}
		defer regradient.UnregisterAccelerator()
	}

	app := &app{stdout: stdout, stderr: stderr}
	app.evalOpts = []regradient.EvalOption{regradient.WithGPU(*useGPU)}
	if *linear {
		app.evalOpts = append(app.evalOpts, regradient.WithInterpolation(regradient.InterpolateLinear))
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "new":
		return app.cmdNew(rest)
	case "info":
		return app.cmdInfo(rest)
	case "add":
		return app.cmdAdd(rest)
	case "move":
		return app.cmdMove(rest)
	case "remove":
		return app.cmdRemove(rest)
	case "color":
		return app.cmdColor(rest)
	case "resize":
		return app.cmdResize(rest)
	case "render":
		return app.cmdRender(rest)
	case "watch":
		return app.cmdWatch(ctx, rest)
	}
	return fmt.Errorf("unknown command %q", cmd)
}
