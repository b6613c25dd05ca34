package vision

import (
	"fmt"
	"image"
	"image/color"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gocv.io/x/gocv"

	"lenscal/calibration"
	"lenscal/pipeline"
)

// Undistorter builds remap tables from a saved calibration
type Undistorter struct {
	// Alpha is the free scaling of the optimal new camera matrix: 0 keeps only valid pixels
	Alpha float64
}

// NewRemap computes the undistortion maps for frames of the given size
func (u Undistorter) NewRemap(in *calibration.Intrinsics, size image.Point) (pipeline.Remap, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, errors.Errorf("invalid frame size %dx%d", size.X, size.Y)
	}

	k, d := intrinsicsMats(in)
	defer k.Close()
	defer d.Close()

	newK, roi := gocv.GetOptimalNewCameraMatrixWithParams(k, d, size, u.Alpha, size, false)
	defer newK.Close()
	debugMsg("UNDISTORT", fmt.Sprintf("Optimal camera matrix valid region %v", roi))

	identity := gocv.NewMat()
	defer identity.Close()

	m := &Remap{map1: gocv.NewMat(), map2: gocv.NewMat(), size: size}
	gocv.InitUndistortRectifyMap(k, d, identity, newK, size, int(gocv.MatTypeCV32FC1), m.map1, m.map2)
	if m.map1.Empty() {
		m.Close()
		return nil, errors.New("undistortion map is empty")
	}
	return m, nil
}

// Remap holds precomputed undistortion maps for one frame size
type Remap struct {
	map1, map2 gocv.Mat
	size       image.Point
}

// Apply returns the undistorted copy of frame
func (m *Remap) Apply(frame pipeline.Frame) (pipeline.Frame, error) {
	src, err := matOf(frame)
	if err != nil {
		return nil, err
	}
	if got := frame.Size(); got != m.size {
		return nil, errors.Errorf("frame is %dx%d, map was built for %dx%d", got.X, got.Y, m.size.X, m.size.Y)
	}

	dst := gocv.NewMat()
	gocv.Remap(src, &dst, &m.map1, &m.map2, gocv.InterpolationLinear, gocv.BorderConstant, color.RGBA{})
	return NewFrame(dst), nil
}

// Close releases both maps
func (m *Remap) Close() error {
	return multierr.Combine(m.map1.Close(), m.map2.Close())
}
