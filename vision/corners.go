package vision

import (
	"fmt"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"lenscal/calibration"
	"lenscal/pipeline"
)

const chessboardFlags = gocv.CalibCBAdaptiveThresh | gocv.CalibCBNormalizeImage

// Corners detects chessboards and refines their corners to sub-pixel accuracy
type Corners struct{}

// FindCorners searches the grayscale version of frame for the full pattern
func (Corners) FindCorners(frame pipeline.Frame, pattern calibration.PatternSize, refine calibration.Refinement) ([]calibration.Point2, bool, error) {
	m, err := matOf(frame)
	if err != nil {
		return nil, false, err
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if m.Channels() == 1 {
		m.CopyTo(&gray)
	} else {
		gocv.CvtColor(m, &gray, gocv.ColorBGRToGray)
	}

	corners := gocv.NewMat()
	defer corners.Close()
	if !gocv.FindChessboardCorners(gray, pattern.Point(), &corners, chessboardFlags) {
		return nil, false, nil
	}

	criteria := gocv.NewTermCriteria(gocv.Count|gocv.EPS, refine.MaxIterations, refine.Epsilon)
	gocv.CornerSubPix(gray, &corners, refine.Window, refine.ZeroZone, criteria)

	pv := gocv.NewPoint2fVectorFromMat(corners)
	defer pv.Close()
	points := pv.ToPoints()
	if len(points) != pattern.Points() {
		return nil, false, errors.Errorf("detector returned %d corners for a %s pattern", len(points), pattern)
	}

	out := make([]calibration.Point2, len(points))
	for i, p := range points {
		out[i] = calibration.Point2{X: float64(p.X), Y: float64(p.Y)}
	}
	debugMsg("CORNERS", fmt.Sprintf("Found %d corners", len(out)))
	return out, true, nil
}

// DrawCorners returns an annotated copy of frame
func (Corners) DrawCorners(frame pipeline.Frame, pattern calibration.PatternSize, corners []calibration.Point2) (pipeline.Frame, error) {
	m, err := matOf(frame)
	if err != nil {
		return nil, err
	}

	cornerMat := pointsMat(corners)
	defer cornerMat.Close()

	annotated := m.Clone()
	gocv.DrawChessboardCorners(&annotated, pattern.Point(), cornerMat, len(corners) == pattern.Points())
	return NewFrame(annotated), nil
}

// pointsMat packs corners into the Nx1 CV_32FC2 layout the detector produces
func pointsMat(points []calibration.Point2) gocv.Mat {
	m := gocv.NewMatWithSize(len(points), 1, gocv.MatTypeCV32FC2)
	for i, p := range points {
		m.SetFloatAt(i, 0, float32(p.X))
		m.SetFloatAt(i, 1, float32(p.Y))
	}
	return m
}

func toPoint2f(points []calibration.Point2) []gocv.Point2f {
	out := make([]gocv.Point2f, len(points))
	for i, p := range points {
		out[i] = gocv.Point2f{X: float32(p.X), Y: float32(p.Y)}
	}
	return out
}

func toPoint3f(points []calibration.Point3) []gocv.Point3f {
	out := make([]gocv.Point3f, len(points))
	for i, p := range points {
		out[i] = gocv.Point3f{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z)}
	}
	return out
}
