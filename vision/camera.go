package vision

import (
	"fmt"
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"lenscal/pipeline"
)

// ErrCameraUnavailable is returned when no capture API can open the device
var ErrCameraUnavailable = errors.New("camera unavailable")

// captureV4L2 is cv::CAP_V4L2
const captureV4L2 gocv.VideoCaptureAPI = 200

// captureAPI is one way of opening a device, tried in order
type captureAPI struct {
	name string
	open func(index int) (*gocv.VideoCapture, error)
}

var captureAPIs = []captureAPI{
	{"V4L2", func(index int) (*gocv.VideoCapture, error) {
		return gocv.VideoCaptureDeviceWithAPI(index, captureV4L2)
	}},
	{"default", gocv.VideoCaptureDevice},
}

// Camera is an open capture device
type Camera struct {
	capture *gocv.VideoCapture
	api     string
	index   int
}

// OpenCamera opens device index with the first capture API that works
func OpenCamera(index int) (*Camera, error) {
	var lastErr error
	for _, api := range captureAPIs {
		capture, err := api.open(index)
		if err == nil && capture.IsOpened() {
			debugMsg("CAMERA", fmt.Sprintf("Opened camera #%d through the %s API", index, api.name))
			return &Camera{capture: capture, api: api.name, index: index}, nil
		}
		if capture != nil {
			capture.Close()
		}
		if err == nil {
			err = errors.New("device did not open")
		}
		debugMsg("CAMERA", fmt.Sprintf("%s API failed for camera #%d: %v, trying next", api.name, index, err))
		lastErr = err
	}
	return nil, errors.Wrapf(ErrCameraUnavailable, "Failed to open the video stream for camera #%d (%v)", index, lastErr)
}

// Read grabs the next frame
func (c *Camera) Read() (pipeline.Frame, bool) {
	m := gocv.NewMat()
	if ok := c.capture.Read(&m); !ok || m.Empty() {
		m.Close()
		return nil, false
	}
	return NewFrame(m), true
}

// FrameSize reports the driver's resolution, zero when unknown
func (c *Camera) FrameSize() image.Point {
	return image.Pt(
		int(c.capture.Get(gocv.VideoCaptureFrameWidth)),
		int(c.capture.Get(gocv.VideoCaptureFrameHeight)),
	)
}

// Close releases the device
func (c *Camera) Close() error {
	debugMsg("CAMERA", fmt.Sprintf("Closing camera #%d (%s)", c.index, c.api))
	return c.capture.Close()
}
