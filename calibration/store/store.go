// Package store persists calibration intrinsics in the OpenCV FileStorage
// layout so the files stay readable by cv::FileStorage.
package store

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"lenscal/calibration"
)

const (
	// DefaultFile is the calibration written to and read from the working directory
	DefaultFile = "calibration.xml"

	// KeyCameraMatrix names the 3x3 camera matrix entry
	KeyCameraMatrix = "Camera-Matrix"
	// KeyDistortion names the distortion coefficient entry
	KeyDistortion = "Distortion-Coefficients"

	matrixTypeID = "opencv-matrix"
	doubleType   = "d"
)

var (
	// ErrMissingEntry is returned when a document lacks one of the two entries
	ErrMissingEntry = errors.New("calibration entry missing")
	// ErrUnsupportedFormat is returned for file extensions other than xml/yml/yaml
	ErrUnsupportedFormat = errors.New("unsupported calibration file format")
)

// Format is a FileStorage serialization
type Format int

const (
	// XML is the <opencv_storage> document layout
	XML Format = iota
	// YAML is the %YAML:1.0 document layout
	YAML
)

// FormatFor picks the serialization from the file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return XML, nil
	case ".yml", ".yaml":
		return YAML, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedFormat, "%q", path)
	}
}

// Save writes the intrinsics to path, replacing any previous file wholesale
func Save(path string, in *calibration.Intrinsics) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary calibration file")
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, format, in); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to flush calibration file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "failed to replace %s", path)
	}
	return nil
}

// Load reads intrinsics previously written by Save (or by cv::FileStorage)
func Load(path string) (*calibration.Intrinsics, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}
	defer f.Close()

	in, err := Decode(f, format)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}
	return in, nil
}

// Encode serializes the intrinsics
func Encode(w io.Writer, format Format, in *calibration.Intrinsics) error {
	if in == nil || in.CameraMatrix == nil {
		return errors.New("no camera matrix to save")
	}
	k := denseMatrix(in.CameraMatrix)
	d := matrix{Rows: 1, Cols: len(in.Distortion), Data: in.Distortion}

	switch format {
	case XML:
		return encodeXML(w, k, d)
	case YAML:
		return encodeYAML(w, k, d)
	default:
		return ErrUnsupportedFormat
	}
}

// Decode parses a serialized calibration
func Decode(r io.Reader, format Format) (*calibration.Intrinsics, error) {
	var (
		k, d *matrix
		err  error
	)
	switch format {
	case XML:
		k, d, err = decodeXML(r)
	case YAML:
		k, d, err = decodeYAML(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	if k == nil {
		return nil, errors.Wrap(ErrMissingEntry, KeyCameraMatrix)
	}
	if d == nil {
		return nil, errors.Wrap(ErrMissingEntry, KeyDistortion)
	}
	if err := k.check(KeyCameraMatrix); err != nil {
		return nil, err
	}
	if err := d.check(KeyDistortion); err != nil {
		return nil, err
	}

	// coefficients may be stored as 1xN or Nx1, both flatten to the same vector
	return calibration.NewIntrinsics(mat.NewDense(k.Rows, k.Cols, k.Data), d.Data)
}

// matrix is the serialization-neutral form of an opencv-matrix node
type matrix struct {
	Rows int
	Cols int
	Data []float64
}

func denseMatrix(m mat.Matrix) matrix {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return matrix{Rows: r, Cols: c, Data: data}
}

func (m *matrix) check(name string) error {
	if m.Rows <= 0 || m.Cols <= 0 {
		return errors.Errorf("%s: invalid dimensions %dx%d", name, m.Rows, m.Cols)
	}
	if len(m.Data) != m.Rows*m.Cols {
		return errors.Errorf("%s: %dx%d matrix holds %d values", name, m.Rows, m.Cols, len(m.Data))
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloats(s string) ([]float64, error) {
	fields := strings.Fields(s)
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid matrix value %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}
