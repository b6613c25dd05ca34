package calibration

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// PatternSize is the number of interior chessboard corners per row (Cols) and per column (Rows)
type PatternSize struct {
	Cols int
	Rows int
}

// DefaultPattern is the 13x8 interior-corner board the tool has always been used with
var DefaultPattern = PatternSize{Cols: 13, Rows: 8}

// Points returns the number of corners a successful detection yields
func (p PatternSize) Points() int {
	return p.Cols * p.Rows
}

// Point returns the pattern size in the (width, height) form OpenCV expects
func (p PatternSize) Point() image.Point {
	return image.Pt(p.Cols, p.Rows)
}

func (p PatternSize) String() string {
	return fmt.Sprintf("%dx%d", p.Cols, p.Rows)
}

// ParsePatternSize parses "COLSxROWS", e.g. "13x8"
func ParsePatternSize(s string) (PatternSize, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return PatternSize{}, errors.Errorf("invalid pattern size %q, expected COLSxROWS", s)
	}

	cols, err := strconv.Atoi(parts[0])
	if err != nil {
		return PatternSize{}, errors.Wrapf(err, "invalid pattern columns in %q", s)
	}
	rows, err := strconv.Atoi(parts[1])
	if err != nil {
		return PatternSize{}, errors.Wrapf(err, "invalid pattern rows in %q", s)
	}

	// OpenCV refuses boards smaller than 2x2 interior corners
	if cols < 2 || rows < 2 {
		return PatternSize{}, errors.Errorf("pattern size %q must be at least 2x2", s)
	}
	return PatternSize{Cols: cols, Rows: rows}, nil
}

// Point2 is a detected corner in pixel coordinates
type Point2 struct {
	X, Y float64
}

// Point3 is a chessboard corner in board (world) coordinates
type Point3 struct {
	X, Y, Z float64
}

// ObjectGrid builds the synthetic board coordinates matching the corner order
// OpenCV reports: row by row, left to right, on the Z=0 plane.
func ObjectGrid(p PatternSize, squareSize float64) []Point3 {
	grid := make([]Point3, 0, p.Points())
	for i := 0; i < p.Rows; i++ {
		for j := 0; j < p.Cols; j++ {
			grid = append(grid, Point3{X: float64(j) * squareSize, Y: float64(i) * squareSize})
		}
	}
	return grid
}

// Refinement holds the sub-pixel corner search parameters. Iteration stops at
// MaxIterations or once a corner moves less than Epsilon, whichever comes first.
type Refinement struct {
	Window        image.Point
	ZeroZone      image.Point
	MaxIterations int
	Epsilon       float64
}

// DefaultRefinement returns an 11x11 search window, no dead zone, 30 iterations, 0.001 epsilon
func DefaultRefinement() Refinement {
	return Refinement{
		Window:        image.Pt(11, 11),
		ZeroZone:      image.Pt(-1, -1),
		MaxIterations: 30,
		Epsilon:       0.001,
	}
}
