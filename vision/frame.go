// Package vision implements the pipeline backend on top of OpenCV through gocv.
package vision

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"lenscal/pipeline"
)

// Frame owns a gocv.Mat
type Frame struct {
	mat gocv.Mat
}

// NewFrame takes ownership of m
func NewFrame(m gocv.Mat) *Frame {
	return &Frame{mat: m}
}

// Mat exposes the underlying image, still owned by the frame
func (f *Frame) Mat() gocv.Mat {
	return f.mat
}

// Size is the frame resolution as width x height
func (f *Frame) Size() image.Point {
	return image.Pt(f.mat.Cols(), f.mat.Rows())
}

// Close releases the image
func (f *Frame) Close() error {
	return f.mat.Close()
}

func matOf(f pipeline.Frame) (gocv.Mat, error) {
	frame, ok := f.(*Frame)
	if !ok || frame == nil {
		return gocv.Mat{}, errors.Errorf("unsupported frame type %T", f)
	}
	if frame.mat.Empty() {
		return gocv.Mat{}, errors.New("empty frame")
	}
	return frame.mat, nil
}
