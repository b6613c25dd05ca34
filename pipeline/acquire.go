package pipeline

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"lenscal/imageset"
)

// Acquire shows the live stream and writes the current frame to the image set
// each time the confirm key is pressed. ESC, the end of the stream or ctx
// cancellation stop the loop. It returns the number of images written.
func (r *Runner) Acquire(ctx context.Context, cam Camera, set *imageset.Set) (count int, err error) {
	win, err := r.backend.OpenDisplay(acquireWindow)
	if err != nil {
		return 0, errors.Wrap(err, "failed to open the acquisition window")
	}
	defer func() {
		err = multierr.Append(err, errors.Wrap(win.Close(), "failed to close the acquisition window"))
	}()

	r.console.Info("Hit RETURN to grab an image, ESC to quit...")
	stats := NewFrameStats()

	for ctx.Err() == nil {
		frame, ok := cam.Read()
		if !ok {
			debugMsg("ACQUIRE", fmt.Sprintf("Stream ended after %d frames", stats.Frames()))
			break
		}
		fps := stats.Tick()

		win.Show(frame,
			fmt.Sprintf("Captured: %d", count),
			"RETURN grab | ESC quit",
			fmt.Sprintf("FPS: %.1f", fps),
		)

		key := win.WaitKey(r.settings.KeyDelay)
		if key == KeyEscape {
			frame.Close()
			break
		}
		if isConfirm(key) {
			path := set.Path(count + 1)
			if err := r.backend.Images.Write(path, frame); err != nil {
				r.console.Warn("Failed to save image #%d: %v", count+1, err)
			} else {
				count++
				debugMsg("ACQUIRE", fmt.Sprintf("Wrote %s", path))
				r.console.Success("Image grabbed #%d", count)
			}
		}
		frame.Close()
	}

	if ctx.Err() != nil {
		debugMsg("ACQUIRE", "Interrupted")
	}
	return count, nil
}
