// Package pipeline sequences the acquisition, calibration and live preview
// stages. The numerical work is done by a Backend; this package owns the
// control flow, the keypress handling and the reporting.
package pipeline

import (
	"image"
	"time"

	"lenscal/calibration"
)

// Key codes returned by Display.WaitKey
const (
	KeyNone   = -1
	KeyEscape = 27
	// KeyConfirm is carriage return; KeyLineFeed is accepted as confirm too
	// because some HighGUI backends report Enter as LF.
	KeyConfirm  = 13
	KeyLineFeed = 10
)

// Frame is an image owned by whoever received it until Close is called
type Frame interface {
	Size() image.Point
	Close() error
}

// Camera is an open video stream
type Camera interface {
	// Read returns the next frame, or false once the stream yields no more frames
	Read() (Frame, bool)
	// FrameSize reports the stream resolution
	FrameSize() image.Point
	Close() error
}

// Display is an on-screen window
type Display interface {
	// Show draws frame, with hud lines overlaid when the display renders them
	Show(frame Frame, hud ...string)
	// WaitKey polls the keyboard for up to delay; delay <= 0 blocks until a key is pressed
	WaitKey(delay time.Duration) int
	Close() error
}

// ImageStore reads and writes image files
type ImageStore interface {
	Read(path string) (Frame, error)
	Write(path string, frame Frame) error
}

// CornerFinder locates and refines chessboard corners
type CornerFinder interface {
	// FindCorners returns the refined corners, or false when the pattern is not found
	FindCorners(frame Frame, pattern calibration.PatternSize, refine calibration.Refinement) ([]calibration.Point2, bool, error)
	// DrawCorners returns a copy of frame annotated with the detected corners
	DrawCorners(frame Frame, pattern calibration.PatternSize, corners []calibration.Point2) (Frame, error)
}

// Solver runs the camera calibration solve once over a correspondence set
type Solver interface {
	Calibrate(set *calibration.Correspondences) (*calibration.Result, error)
}

// Remap applies a precomputed undistortion map
type Remap interface {
	Apply(frame Frame) (Frame, error)
	Close() error
}

// Undistorter builds undistortion maps for a given frame size
type Undistorter interface {
	NewRemap(in *calibration.Intrinsics, size image.Point) (Remap, error)
}

// Backend bundles the vision services the pipeline delegates to
type Backend struct {
	Images      ImageStore
	Corners     CornerFinder
	Solver      Solver
	Undistorter Undistorter

	// OpenCamera opens a capture device by index
	OpenCamera func(index int) (Camera, error)
	// OpenDisplay opens a named window
	OpenDisplay func(title string) (Display, error)
}

func isConfirm(key int) bool {
	return key == KeyConfirm || key == KeyLineFeed
}
