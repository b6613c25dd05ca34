package vision

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gocv.io/x/gocv"

	"lenscal/calibration"
)

// Solver runs cv::calibrateCamera
type Solver struct {
	// Flags are passed through to the solver, zero for the default model
	Flags gocv.CalibFlag
}

// Calibrate solves for the intrinsics over every view in set
func (s Solver) Calibrate(set *calibration.Correspondences) (res *calibration.Result, err error) {
	// OpenCV raises on empty input, which cannot be recovered from Go
	if err := set.Validate(); err != nil {
		return nil, err
	}

	objectPoints := gocv.NewPoints3fVector()
	imagePoints := gocv.NewPoints2fVector()
	defer objectPoints.Close()
	defer imagePoints.Close()

	objects, images := set.ObjectPoints(), set.ImagePoints()
	for i := range objects {
		ov := gocv.NewPoint3fVectorFromPoints(toPoint3f(objects[i]))
		iv := gocv.NewPoint2fVectorFromPoints(toPoint2f(images[i]))
		objectPoints.Append(ov)
		imagePoints.Append(iv)
		ov.Close()
		iv.Close()
	}

	cameraMatrix := gocv.NewMat()
	distortion := gocv.NewMat()
	rvecs := gocv.NewMat()
	tvecs := gocv.NewMat()
	defer func() {
		err = multierr.Combine(err, cameraMatrix.Close(), distortion.Close(), rvecs.Close(), tvecs.Close())
	}()

	size := set.ImageSize()
	debugMsg("SOLVER", fmt.Sprintf("Calibrating from %d views at %dx%d", set.Len(), size.X, size.Y))
	start := time.Now()
	rms := gocv.CalibrateCamera(objectPoints, imagePoints, size, &cameraMatrix, &distortion, &rvecs, &tvecs, s.Flags)
	debugMsg("SOLVER", fmt.Sprintf("Solver finished in %v, RMS %g", time.Since(start), rms))

	k, err := MatToDense(cameraMatrix)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read the camera matrix")
	}
	d, err := flatten(distortion)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read the distortion coefficients")
	}
	in, err := calibration.NewIntrinsics(k, d)
	if err != nil {
		return nil, err
	}

	rotations, err := vectors(rvecs, set.Len())
	if err != nil {
		return nil, errors.Wrap(err, "rotation vectors")
	}
	translations, err := vectors(tvecs, set.Len())
	if err != nil {
		return nil, errors.Wrap(err, "translation vectors")
	}

	return &calibration.Result{
		RMS:          rms,
		Intrinsics:   in,
		Rotations:    rotations,
		Translations: translations,
		ImageSize:    size,
		Views:        set.Len(),
	}, nil
}
