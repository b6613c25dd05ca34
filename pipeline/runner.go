package pipeline

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"lenscal/imageset"
	"lenscal/logging"
)

const (
	acquireWindow = "Calibration Image"
	reviewWindow  = "Calibration Image"
	previewWindow = "Calibrated Video"
)

// Runner drives the stages against a Backend
type Runner struct {
	backend  Backend
	settings Settings
	console  *logging.Console
}

// NewRunner creates a runner reporting to console
func NewRunner(backend Backend, settings Settings, console *logging.Console) *Runner {
	return &Runner{
		backend:  backend,
		settings: settings,
		console:  console,
	}
}

// Settings returns the settings the runner was built with
func (r *Runner) Settings() Settings {
	return r.settings
}

// Calibrate is the acquire+calibrate command: prepare dir, capture images from
// camera #index, then generate and save the calibration from them.
func (r *Runner) Calibrate(ctx context.Context, index int, dir string, deleteExisting bool) error {
	set, removed, err := imageset.Prepare(dir, deleteExisting)
	if err != nil {
		if errors.Is(err, imageset.ErrNotEmpty) {
			r.console.Warn("The calibration images directory %q is not empty", dir)
			r.console.Info("Perhaps add the -d option and retry")
		}
		return err
	}
	if deleteExisting {
		r.console.Info("The existing calibration images in %q have been deleted (%d entries)", dir, removed)
	}

	count, err := r.acquireFromCamera(ctx, index, set)
	if err != nil {
		return err
	}
	r.console.Info("Acquired %d calibration images", count)

	if _, err := r.Generate(ctx, set); err != nil {
		return errors.Wrap(err, "Unable to generate the camera calibration parameters")
	}
	r.console.Success("Successfully generated the camera calibration parameters")
	return nil
}

// acquireFromCamera owns the camera for the acquisition stage only
func (r *Runner) acquireFromCamera(ctx context.Context, index int, set *imageset.Set) (count int, err error) {
	debugMsg("CAMERA", fmt.Sprintf("Opening camera #%d", index))
	cam, err := r.backend.OpenCamera(index)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = multierr.Append(err, errors.Wrap(cam.Close(), "failed to release camera"))
	}()

	return r.Acquire(ctx, cam, set)
}

// Preview is the live-undistort command on camera #index
func (r *Runner) Preview(ctx context.Context, index int) (err error) {
	debugMsg("CAMERA", fmt.Sprintf("Opening camera #%d", index))
	cam, err := r.backend.OpenCamera(index)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, errors.Wrap(cam.Close(), "failed to release camera"))
	}()

	return r.LiveView(ctx, cam)
}
