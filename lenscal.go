// lenscal captures chessboard images from a camera, calibrates the lens from
// them and previews the undistorted stream.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"lenscal/command"
	"lenscal/logging"
	"lenscal/overlay"
	"lenscal/pipeline"
	"lenscal/vision"
)

func main() {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Printf("❌ Unable to determine the working directory: %v\n", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// every outcome, including failures, exits with status 0
	run(ctx, filepath.Base(os.Args[0]), os.Args[1:], wd, os.Stdout)
}

// run dispatches one invocation and reports through out
func run(ctx context.Context, app string, args []string, wd string, out io.Writer) {
	console := logging.NewConsole(out)
	cmd := command.Parse(args, wd)

	if cmd.Kind == command.Help {
		if cmd.Reason != "" {
			console.Warn("Invalid arguments: %s", cmd.Reason)
		}
		console.Printf("%s", command.Usage(app))
		return
	}

	logger, err := logging.New(logging.Config{
		Verbose: cmd.Logging.Verbose,
		LogFile: cmd.Logging.LogFile,
	})
	if err != nil {
		console.Fail("%v", err)
		return
	}
	defer logger.Close()

	pipeline.SetDebugFunction(logger.Debug)
	vision.SetDebugFunction(logger.Verbose)
	logger.Debug("MAIN", fmt.Sprintf("Starting %s for camera #%d", cmd.Kind, cmd.Camera))

	renderer := overlay.NewRenderer(overlay.Options{
		Status:   cmd.Display.StatusOverlay,
		Terminal: cmd.Display.TerminalOverlay,
	}, logger.History())
	runner := pipeline.NewRunner(vision.NewBackend(renderer), cmd.Settings, console)

	switch cmd.Kind {
	case command.Acquire:
		err = runner.Calibrate(ctx, cmd.Camera, cmd.Dir, cmd.Delete)
	case command.Preview:
		err = runner.Preview(ctx, cmd.Camera)
	}
	if err != nil {
		console.Fail("%v", err)
		logger.Debug("MAIN", fmt.Sprintf("%s failed: %v", cmd.Kind, err))
	}
}
