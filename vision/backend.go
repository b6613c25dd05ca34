package vision

import (
	"lenscal/overlay"
	"lenscal/pipeline"
)

// NewBackend wires the OpenCV implementations into a pipeline backend. Every
// window shares one HUD renderer.
func NewBackend(renderer *overlay.Renderer) pipeline.Backend {
	return pipeline.Backend{
		Images:      Images{},
		Corners:     Corners{},
		Solver:      Solver{},
		Undistorter: Undistorter{},
		OpenCamera: func(index int) (pipeline.Camera, error) {
			cam, err := OpenCamera(index)
			if err != nil {
				return nil, err
			}
			return cam, nil
		},
		OpenDisplay: func(title string) (pipeline.Display, error) {
			return NewWindow(title, renderer), nil
		},
	}
}
