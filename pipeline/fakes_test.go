package pipeline_test

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"lenscal/calibration"
	"lenscal/pipeline"
)

// events records cross-fake call order
type events []string

func (e *events) add(format string, args ...interface{}) {
	*e = append(*e, fmt.Sprintf(format, args...))
}

type fakeFrame struct {
	size   image.Point
	name   string
	closed bool
}

func (f *fakeFrame) Size() image.Point { return f.size }

func (f *fakeFrame) Close() error {
	f.closed = true
	return nil
}

type fakeCamera struct {
	remaining int
	size      image.Point
	readSize  image.Point
	frames    []*fakeFrame
	closed    bool
}

func (c *fakeCamera) Read() (pipeline.Frame, bool) {
	if c.remaining <= 0 {
		return nil, false
	}
	c.remaining--
	size := c.readSize
	if size == (image.Point{}) {
		size = c.size
	}
	f := &fakeFrame{size: size, name: fmt.Sprintf("live-%d", len(c.frames)+1)}
	c.frames = append(c.frames, f)
	return f, true
}

func (c *fakeCamera) FrameSize() image.Point { return c.size }

func (c *fakeCamera) Close() error {
	c.closed = true
	return nil
}

type fakeDisplay struct {
	title  string
	keys   []int
	shown  []string
	huds   [][]string
	waits  []time.Duration
	closed bool
}

func (d *fakeDisplay) Show(frame pipeline.Frame, hud ...string) {
	d.shown = append(d.shown, frame.(*fakeFrame).name)
	d.huds = append(d.huds, hud)
}

func (d *fakeDisplay) WaitKey(delay time.Duration) int {
	d.waits = append(d.waits, delay)
	if len(d.keys) == 0 {
		return pipeline.KeyNone
	}
	k := d.keys[0]
	d.keys = d.keys[1:]
	return k
}

func (d *fakeDisplay) Close() error {
	d.closed = true
	return nil
}

// fakeImages writes marker files so tests can inspect the directory
type fakeImages struct {
	log      *events
	sizes    map[string]image.Point
	failNext bool
}

func (im *fakeImages) Write(path string, frame pipeline.Frame) error {
	if im.failNext {
		im.failNext = false
		return errors.New("disk full")
	}
	im.log.add("write %s", filepath.Base(path))
	return os.WriteFile(path, []byte(frame.(*fakeFrame).name), 0644)
}

func (im *fakeImages) Read(path string) (pipeline.Frame, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	size, ok := im.sizes[filepath.Base(path)]
	if !ok {
		size = image.Pt(640, 480)
	}
	return &fakeFrame{size: size, name: filepath.Base(path)}, nil
}

// fakeCorners finds the board in every image unless listed in missing
type fakeCorners struct {
	log     *events
	missing map[string]bool
	pattern calibration.PatternSize
	refine  calibration.Refinement
	drawn   int
}

func (c *fakeCorners) FindCorners(frame pipeline.Frame, pattern calibration.PatternSize, refine calibration.Refinement) ([]calibration.Point2, bool, error) {
	name := frame.(*fakeFrame).name
	c.log.add("corners %s", name)
	c.pattern, c.refine = pattern, refine
	if c.missing[name] {
		return nil, false, nil
	}
	pts := make([]calibration.Point2, pattern.Points())
	for i := range pts {
		pts[i] = calibration.Point2{X: float64(i % pattern.Cols), Y: float64(i / pattern.Cols)}
	}
	return pts, true, nil
}

func (c *fakeCorners) DrawCorners(frame pipeline.Frame, pattern calibration.PatternSize, corners []calibration.Point2) (pipeline.Frame, error) {
	c.drawn++
	f := frame.(*fakeFrame)
	return &fakeFrame{size: f.size, name: "annotated " + f.name}, nil
}

type fakeSolver struct {
	log   *events
	views int
	size  image.Point
	err   error
}

func (s *fakeSolver) Calibrate(set *calibration.Correspondences) (*calibration.Result, error) {
	s.log.add("solve %d", set.Len())
	s.views = set.Len()
	s.size = set.ImageSize()
	if s.err != nil {
		return nil, s.err
	}
	k := mat.NewDense(3, 3, []float64{900, 0, float64(s.size.X) / 2, 0, 900, float64(s.size.Y) / 2, 0, 0, 1})
	in, err := calibration.NewIntrinsics(k, []float64{0.1, -0.01, 0, 0, 0.001})
	if err != nil {
		return nil, err
	}
	res := &calibration.Result{RMS: 0.25, Intrinsics: in, ImageSize: s.size, Views: set.Len()}
	for i := 0; i < set.Len(); i++ {
		res.Rotations = append(res.Rotations, [3]float64{0.1, 0.2, float64(i)})
		res.Translations = append(res.Translations, [3]float64{1, 2, 3})
	}
	return res, nil
}

type fakeRemap struct {
	applied int
	closed  bool
}

func (m *fakeRemap) Apply(frame pipeline.Frame) (pipeline.Frame, error) {
	m.applied++
	f := frame.(*fakeFrame)
	return &fakeFrame{size: f.size, name: "undistorted " + f.name}, nil
}

func (m *fakeRemap) Close() error {
	m.closed = true
	return nil
}

type fakeUndistorter struct {
	built []image.Point
	remap *fakeRemap
	fx    float64
}

func (u *fakeUndistorter) NewRemap(in *calibration.Intrinsics, size image.Point) (pipeline.Remap, error) {
	u.built = append(u.built, size)
	u.fx = in.Fx()
	u.remap = &fakeRemap{}
	return u.remap, nil
}

// harness wires every fake into a backend
type harness struct {
	log         events
	camera      *fakeCamera
	cameraErr   error
	opened      []int
	displays    []*fakeDisplay
	keyScripts  [][]int
	images      *fakeImages
	corners     *fakeCorners
	solver      *fakeSolver
	undistorter *fakeUndistorter
}

func newHarness(frames int) *harness {
	h := &harness{
		camera:      &fakeCamera{remaining: frames, size: image.Pt(640, 480)},
		undistorter: &fakeUndistorter{},
	}
	h.images = &fakeImages{log: &h.log, sizes: map[string]image.Point{}}
	h.corners = &fakeCorners{log: &h.log, missing: map[string]bool{}}
	h.solver = &fakeSolver{log: &h.log}
	return h
}

func (h *harness) backend() pipeline.Backend {
	return pipeline.Backend{
		Images:      h.images,
		Corners:     h.corners,
		Solver:      h.solver,
		Undistorter: h.undistorter,
		OpenCamera: func(index int) (pipeline.Camera, error) {
			h.opened = append(h.opened, index)
			if h.cameraErr != nil {
				return nil, h.cameraErr
			}
			return h.camera, nil
		},
		OpenDisplay: func(title string) (pipeline.Display, error) {
			d := &fakeDisplay{title: title}
			if len(h.keyScripts) > 0 {
				d.keys = h.keyScripts[0]
				h.keyScripts = h.keyScripts[1:]
			}
			h.displays = append(h.displays, d)
			return d, nil
		},
	}
}
