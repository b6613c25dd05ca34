package vision

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"

	"lenscal/calibration"
)

// DenseToMat copies m into a new CV_64F Mat
func DenseToMat(m mat.Matrix) gocv.Mat {
	r, c := m.Dims()
	out := gocv.NewMatWithSize(r, c, gocv.MatTypeCV64F)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.SetDoubleAt(i, j, m.At(i, j))
		}
	}
	return out
}

// MatToDense copies a single channel Mat of any depth into a gonum matrix
func MatToDense(m gocv.Mat) (*mat.Dense, error) {
	if m.Empty() {
		return nil, errors.New("empty matrix")
	}
	if m.Channels() != 1 {
		return nil, errors.Errorf("expected a single channel matrix, got %d channels", m.Channels())
	}

	src := m
	if m.Type() != gocv.MatTypeCV64F {
		converted := gocv.NewMat()
		defer converted.Close()
		m.ConvertTo(&converted, gocv.MatTypeCV64F)
		src = converted
	}

	out := mat.NewDense(src.Rows(), src.Cols(), nil)
	for i := 0; i < src.Rows(); i++ {
		for j := 0; j < src.Cols(); j++ {
			out.Set(i, j, src.GetDoubleAt(i, j))
		}
	}
	return out, nil
}

// flatten reads every element of a single channel matrix in row-major order
func flatten(m gocv.Mat) ([]float64, error) {
	d, err := MatToDense(m)
	if err != nil {
		return nil, err
	}
	return append([]float64(nil), d.RawMatrix().Data...), nil
}

// intrinsicsMats converts the calibration into the K and D matrices OpenCV expects
func intrinsicsMats(in *calibration.Intrinsics) (gocv.Mat, gocv.Mat) {
	return DenseToMat(in.CameraMatrix), DenseToMat(in.DistortionVector())
}

// vectors splits the rvecs/tvecs output of calibrateCamera into one triple per view
func vectors(m gocv.Mat, views int) ([][3]float64, error) {
	if m.Empty() {
		return nil, nil
	}
	data, err := m.DataPtrFloat64()
	if err != nil {
		return nil, errors.Wrap(err, "unable to read vectors")
	}
	if len(data) != 3*views {
		return nil, errors.Errorf("expected %d vector components, got %d", 3*views, len(data))
	}
	out := make([][3]float64, views)
	for i := range out {
		copy(out[i][:], data[3*i:3*i+3])
	}
	return out, nil
}
