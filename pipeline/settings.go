package pipeline

import (
	"time"

	"lenscal/calibration"
	"lenscal/calibration/store"
	"lenscal/imageset"
)

// Settings tunes the three stages
type Settings struct {
	Pattern    calibration.PatternSize
	SquareSize float64
	Refinement calibration.Refinement

	// CalibrationFile is where Generate saves and Preview loads the intrinsics
	CalibrationFile string
	// Review shows each detected board and waits for a key before continuing
	Review bool
	// Order is the order calibration images are processed in
	Order imageset.Order
	// KeyDelay is the keypress poll timeout of the live loops
	KeyDelay time.Duration
}

// DefaultSettings matches the classic workflow: 13x8 board, unit squares, review on
func DefaultSettings() Settings {
	return Settings{
		Pattern:         calibration.DefaultPattern,
		SquareSize:      1,
		Refinement:      calibration.DefaultRefinement(),
		CalibrationFile: store.DefaultFile,
		Review:          true,
		Order:           imageset.OrderSequence,
		KeyDelay:        5 * time.Millisecond,
	}
}
