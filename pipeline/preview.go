package pipeline

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"lenscal/calibration/store"
)

// LiveView loads the saved calibration and shows the undistorted stream until
// ESC is pressed or the stream ends. The undistortion map is built once, for
// the stream's resolution, and nothing is written.
func (r *Runner) LiveView(ctx context.Context, cam Camera) (err error) {
	in, err := store.Load(r.settings.CalibrationFile)
	if err != nil {
		return errors.Wrapf(err, "Unable to open: %s", r.settings.CalibrationFile)
	}

	r.console.Printf("\n")
	r.console.Matrix("Camera Matrix", in.CameraMatrix)
	r.console.Matrix("Distortion Coefficients", in.DistortionVector())

	// some drivers only report a size once streaming, fall back to the first frame
	var pending Frame
	size := cam.FrameSize()
	if size.X <= 0 || size.Y <= 0 {
		frame, ok := cam.Read()
		if !ok {
			return errors.New("camera stream produced no frames")
		}
		pending = frame
		size = frame.Size()
	}
	debugMsg("PREVIEW", fmt.Sprintf("Building undistortion map for %dx%d", size.X, size.Y))

	remap, err := r.backend.Undistorter.NewRemap(in, size)
	if err != nil {
		if pending != nil {
			pending.Close()
		}
		return errors.Wrap(err, "failed to build the undistortion map")
	}
	defer func() {
		err = multierr.Append(err, errors.Wrap(remap.Close(), "failed to release the undistortion map"))
	}()

	win, err := r.backend.OpenDisplay(previewWindow)
	if err != nil {
		if pending != nil {
			pending.Close()
		}
		return errors.Wrap(err, "failed to open the preview window")
	}
	defer func() {
		err = multierr.Append(err, errors.Wrap(win.Close(), "failed to close the preview window"))
	}()

	stats := NewFrameStats()
	for ctx.Err() == nil {
		frame := pending
		pending = nil
		if frame == nil {
			var ok bool
			if frame, ok = cam.Read(); !ok {
				debugMsg("PREVIEW", fmt.Sprintf("Stream ended after %d frames", stats.Frames()))
				break
			}
		}

		undistorted, err := remap.Apply(frame)
		frame.Close()
		if err != nil {
			return errors.Wrap(err, "failed to undistort frame")
		}
		fps := stats.Tick()

		win.Show(undistorted, "Undistorted", "ESC quit", fmt.Sprintf("FPS: %.1f", fps))
		undistorted.Close()

		if win.WaitKey(r.settings.KeyDelay) == KeyEscape {
			break
		}
	}
	if pending != nil {
		pending.Close()
	}
	return nil
}
