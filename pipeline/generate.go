package pipeline

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"lenscal/calibration"
	"lenscal/calibration/store"
	"lenscal/imageset"
)

// Generate detects the chessboard in every image of the set, solves for the
// camera intrinsics once and saves them to the calibration file. Images whose
// board cannot be found are reported and skipped.
func (r *Runner) Generate(ctx context.Context, set *imageset.Set) (res *calibration.Result, err error) {
	entries, err := set.List(r.settings.Order)
	if err != nil {
		return nil, err
	}
	debugMsg("CALIBRATE", fmt.Sprintf("%d candidate images in %s order", len(entries), r.settings.Order))

	var win Display
	if r.settings.Review {
		win, err = r.backend.OpenDisplay(reviewWindow)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open the review window")
		}
		defer func() {
			if win != nil {
				err = multierr.Append(err, errors.Wrap(win.Close(), "failed to close the review window"))
			}
		}()
		r.console.Info("\nPress any key to progress to the next image")
	}

	corr := calibration.NewCorrespondences(r.settings.Pattern, r.settings.SquareSize)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "calibration interrupted")
		}

		r.console.Info("Processing image: %s", e.Name)
		if err := r.processImage(corr, e, win); err != nil {
			r.console.Warn("%v", err)
		}
	}

	// the review window goes away before the solver runs
	if win != nil {
		closeErr := win.Close()
		win = nil
		if closeErr != nil {
			return nil, errors.Wrap(closeErr, "failed to close the review window")
		}
	}

	if err := corr.Validate(); err != nil {
		return nil, err
	}
	size := corr.ImageSize()
	debugMsg("CALIBRATE", fmt.Sprintf("Solving with %d views at %dx%d", corr.Len(), size.X, size.Y))

	res, err = r.backend.Solver.Calibrate(corr)
	if err != nil {
		return nil, errors.Wrap(err, "calibration solver failed")
	}
	r.reportResult(res)

	if err := store.Save(r.settings.CalibrationFile, res.Intrinsics); err != nil {
		return nil, err
	}
	r.console.Info("Camera calibration saved to %s", r.settings.CalibrationFile)
	return res, nil
}

// processImage adds one image's corners to corr, or explains why it was skipped
func (r *Runner) processImage(corr *calibration.Correspondences, e imageset.Entry, win Display) error {
	frame, err := r.backend.Images.Read(e.Path)
	if err != nil {
		return errors.Wrapf(err, "Unable to load image: %s", e.Name)
	}
	defer frame.Close()

	corners, found, err := r.backend.Corners.FindCorners(frame, r.settings.Pattern, r.settings.Refinement)
	if err != nil {
		return errors.Wrapf(err, "Corner detection failed in image: %s", e.Name)
	}
	if !found {
		return errors.Errorf("No corners found in image: %s", e.Name)
	}
	if err := corr.Add(e.Name, frame.Size(), corners); err != nil {
		return err
	}
	debugMsg("CALIBRATE", fmt.Sprintf("%s: %d corners refined", e.Name, len(corners)))

	if win != nil {
		r.review(win, frame, corners, e.Name)
	}
	return nil
}

// review shows the detected board and blocks until the operator presses a key
func (r *Runner) review(win Display, frame Frame, corners []calibration.Point2, name string) {
	annotated, err := r.backend.Corners.DrawCorners(frame, r.settings.Pattern, corners)
	if err != nil {
		r.console.Warn("Unable to draw corners for %s: %v", name, err)
		return
	}
	defer annotated.Close()

	win.Show(annotated, name, fmt.Sprintf("%d corners", len(corners)), "any key: next image")
	win.WaitKey(0)
}

func (r *Runner) reportResult(res *calibration.Result) {
	r.console.Printf("\nRMS Projection Error: %g\n\n", res.RMS)
	r.console.Matrix("Camera Matrix", res.Intrinsics.CameraMatrix)
	r.console.Matrix("Distortion Coefficients", res.Intrinsics.DistortionVector())
	r.console.Block("Rotation Vector", calibration.FormatVectors(res.Rotations))
	r.console.Block("Translation Vector", calibration.FormatVectors(res.Translations))
}
