package vision

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"lenscal/pipeline"
)

// Images reads and writes image files with imgcodecs
type Images struct{}

// Read loads path as a colour image
func (Images) Read(path string) (pipeline.Frame, error) {
	m := gocv.IMRead(path, gocv.IMReadColor)
	if m.Empty() {
		m.Close()
		return nil, errors.Errorf("unable to decode %s", path)
	}
	return NewFrame(m), nil
}

// Write encodes frame into path; the format follows the extension
func (Images) Write(path string, frame pipeline.Frame) error {
	m, err := matOf(frame)
	if err != nil {
		return err
	}
	if !gocv.IMWrite(path, m) {
		return errors.Errorf("unable to write %s", path)
	}
	return nil
}
