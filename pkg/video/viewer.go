package video

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Keys the viewer reports that the flight loop treats as quit.
const (
	KeyEsc  = 27
	KeyQuit = 'q'
	KeyNone = -1
)

// Viewer renders JPEG frames in an OpenCV window at a fixed view size.
// WaitKey doubles as the UI event pump, so Poll must be called every
// loop iteration even when no frame arrived.
type Viewer struct {
	window *gocv.Window
	size   image.Point
}

// NewViewer opens the display window.
func NewViewer(title string, width, height int) *Viewer {
	return &Viewer{
		window: gocv.NewWindow(title),
		size:   image.Pt(width, height),
	}
}

// Show decodes and resizes one JPEG frame into the window.
func (v *Viewer) Show(frame []byte) error {
	mat, err := gocv.IMDecode(frame, gocv.IMReadColor)
	if err != nil {
		return fmt.Errorf("video: decode frame: %w", err)
	}
	defer mat.Close()
	if mat.Empty() {
		return nil
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, v.size, 0, 0, gocv.InterpolationLinear)

	v.window.IMShow(resized)
	return nil
}

// Poll pumps window events and returns the pressed key, KeyNone if none.
func (v *Viewer) Poll() int {
	return v.window.WaitKey(1)
}

// Close releases the window resources.
func (v *Viewer) Close() error {
	return v.window.Close()
}
