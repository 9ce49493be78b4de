// Command lumen opens a project in the frame graph editor. With -headless
// it renders on the null backend instead and prints the inspector text,
// which is how CI exercises the whole pipeline without a GPU.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"lumen/internal/config"
	"lumen/internal/logging"
)

func init() {
	runtime.LockOSThread()
}

type options struct {
	project  string
	headless bool
	frames   int
	verbose  bool
}

func main() {
	var opts options
	flag.StringVar(&opts.project, "project", ".", "project directory or lumen.toml")
	flag.BoolVar(&opts.headless, "headless", false, "render on the null backend without a window")
	flag.IntVar(&opts.frames, "frames", 60, "frames to render in headless mode")
	flag.BoolVar(&opts.verbose, "v", false, "log at debug level")
	flag.Parse()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(logging.NewText(os.Stderr, level))

	project, err := config.LoadProject(opts.project)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	run := runWindow
	if opts.headless {
		run = runHeadless
	}
	if err := run(project, opts); err != nil {
		logging.Logger().Error("lumen: exiting", "err", err)
		os.Exit(1)
	}
}
