package calibration

import (
	"fmt"
	"image"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Intrinsics is the persisted part of a calibration: the 3x3 camera matrix
// and the lens distortion coefficients (k1, k2, p1, p2[, k3...]).
type Intrinsics struct {
	CameraMatrix *mat.Dense
	Distortion   []float64
}

// NewIntrinsics validates and copies a camera matrix and distortion vector
func NewIntrinsics(cameraMatrix mat.Matrix, distortion []float64) (*Intrinsics, error) {
	if cameraMatrix == nil {
		return nil, errors.New("camera matrix is nil")
	}
	if r, c := cameraMatrix.Dims(); r != 3 || c != 3 {
		return nil, errors.Errorf("camera matrix must be 3x3, got %dx%d", r, c)
	}
	if len(distortion) == 0 {
		return nil, errors.New("distortion coefficients are empty")
	}

	d := make([]float64, len(distortion))
	copy(d, distortion)
	return &Intrinsics{
		CameraMatrix: mat.DenseCopyOf(cameraMatrix),
		Distortion:   d,
	}, nil
}

// Fx returns the horizontal focal length in pixels
func (in *Intrinsics) Fx() float64 { return in.CameraMatrix.At(0, 0) }

// Fy returns the vertical focal length in pixels
func (in *Intrinsics) Fy() float64 { return in.CameraMatrix.At(1, 1) }

// Cx returns the principal point x coordinate
func (in *Intrinsics) Cx() float64 { return in.CameraMatrix.At(0, 2) }

// Cy returns the principal point y coordinate
func (in *Intrinsics) Cy() float64 { return in.CameraMatrix.At(1, 2) }

// DistortionVector returns the coefficients as a 1xN matrix for reporting
func (in *Intrinsics) DistortionVector() *mat.Dense {
	return mat.NewDense(1, len(in.Distortion), append([]float64(nil), in.Distortion...))
}

// Result is the output of a single solver run. Rotations and Translations are
// per-image extrinsics and are reported but never persisted.
type Result struct {
	RMS          float64
	Intrinsics   *Intrinsics
	Rotations    [][3]float64
	Translations [][3]float64
	ImageSize    image.Point
	Views        int
}

// FormatMatrix renders a matrix the way the console reports it
func FormatMatrix(m mat.Matrix) string {
	return fmt.Sprintf("%.6g", mat.Formatted(m, mat.Squeeze()))
}

// FormatVectors renders per-view 3-vectors one per line
func FormatVectors(vs [][3]float64) string {
	var sb strings.Builder
	for i, v := range vs {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "[%.6g, %.6g, %.6g]", v[0], v[1], v[2])
	}
	return sb.String()
}
