package calibration

import (
	"image"

	"github.com/pkg/errors"
)

var (
	// ErrNoCorrespondences is returned when no image produced a usable corner set
	ErrNoCorrespondences = errors.New("no chessboard corners were found in any calibration image")
	// ErrPointCount is returned when a corner set does not match the pattern
	ErrPointCount = errors.New("corner count does not match the chessboard pattern")
	// ErrImageSize is returned when an image's resolution differs from the first accepted image
	ErrImageSize = errors.New("image resolution differs from the calibration set")
)

// Correspondences accumulates matched board/pixel corner sets, one entry per
// image whose chessboard was detected. Both accumulators always have the same
// length and every entry holds exactly pattern.Points() points.
type Correspondences struct {
	pattern      PatternSize
	grid         []Point3
	objectPoints [][]Point3
	imagePoints  [][]Point2
	names        []string
	imageSize    image.Point
}

// NewCorrespondences creates an empty set for the given board
func NewCorrespondences(pattern PatternSize, squareSize float64) *Correspondences {
	return &Correspondences{
		pattern: pattern,
		grid:    ObjectGrid(pattern, squareSize),
	}
}

// Add records the refined corners of one image. The first accepted image fixes
// the resolution the solver is run with.
func (c *Correspondences) Add(name string, size image.Point, corners []Point2) error {
	if len(corners) != c.pattern.Points() {
		return errors.Wrapf(ErrPointCount, "%s: got %d corners, want %d", name, len(corners), c.pattern.Points())
	}
	if size.X <= 0 || size.Y <= 0 {
		return errors.Wrapf(ErrImageSize, "%s: invalid resolution %dx%d", name, size.X, size.Y)
	}
	if len(c.names) > 0 && size != c.imageSize {
		return errors.Wrapf(ErrImageSize, "%s: %dx%d, calibration set is %dx%d",
			name, size.X, size.Y, c.imageSize.X, c.imageSize.Y)
	}
	if len(c.names) == 0 {
		c.imageSize = size
	}

	points := make([]Point2, len(corners))
	copy(points, corners)

	c.imagePoints = append(c.imagePoints, points)
	c.objectPoints = append(c.objectPoints, c.grid)
	c.names = append(c.names, name)
	return nil
}

// Len returns the number of images contributing correspondences
func (c *Correspondences) Len() int {
	return len(c.names)
}

// Pattern returns the board the set was built for
func (c *Correspondences) Pattern() PatternSize {
	return c.pattern
}

// ImageSize returns the resolution of the accepted images (zero when empty)
func (c *Correspondences) ImageSize() image.Point {
	return c.imageSize
}

// ObjectPoints returns one board grid per accepted image
func (c *Correspondences) ObjectPoints() [][]Point3 {
	return c.objectPoints
}

// ImagePoints returns the refined pixel corners per accepted image
func (c *Correspondences) ImagePoints() [][]Point2 {
	return c.imagePoints
}

// Names returns the accepted image names in the order they were added
func (c *Correspondences) Names() []string {
	return c.names
}

// Validate checks the set is ready for the solver
func (c *Correspondences) Validate() error {
	if c.Len() == 0 {
		return ErrNoCorrespondences
	}
	if len(c.objectPoints) != len(c.imagePoints) {
		return errors.Errorf("correspondence mismatch: %d object sets, %d image sets", len(c.objectPoints), len(c.imagePoints))
	}
	return nil
}
