package latentspace

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// shotRequest is one queued capture. Raw requests also save the frame as
// rendered before post-processing.
type shotRequest struct {
	label string
	raw   bool
}

// Screenshot queues a PNG of the composited frame, captured at the end of
// the next Draw. The file name records where the camera was:
//
//	<stamp>_<label>_c<active cluster>_p<scroll progress>.png
func (e *Engine) Screenshot(label string) {
	e.screenshotQueue = append(e.screenshotQueue, shotRequest{label: label})
}

// ScreenshotRaw queues a capture like Screenshot and also saves the offscreen
// frame before bloom, chromatic aberration, and vignette, with a "_raw"
// suffix. Without post effects only the composited frame exists.
func (e *Engine) ScreenshotRaw(label string) {
	e.screenshotQueue = append(e.screenshotQueue, shotRequest{label: label, raw: true})
}

// shotName builds the file name for a capture of the current scroll state.
func shotName(stamp, label string, active int, progress float64, raw bool) string {
	name := fmt.Sprintf("%s_%s_c%d_p%.2f", stamp, sanitizeLabel(label), active, progress)
	if raw {
		name += "_raw"
	}
	return name + ".png"
}

// flushRawScreenshots saves the uncomposited frame for raw requests. Called
// from Draw before the post chain runs.
func (e *Engine) flushRawScreenshots(frame *ebiten.Image) {
	var img *image.RGBA
	for _, req := range e.screenshotQueue {
		if !req.raw {
			continue
		}
		if img == nil {
			img = readImage(frame)
		}
		e.saveShot(img, req, true)
	}
}

// flushScreenshots saves the composited screen once per queued request and
// empties the queue. Called at the end of Draw.
func (e *Engine) flushScreenshots(screen *ebiten.Image) {
	if len(e.screenshotQueue) == 0 {
		return
	}
	img := readImage(screen)
	for _, req := range e.screenshotQueue {
		e.saveShot(img, req, false)
	}
	e.screenshotQueue = e.screenshotQueue[:0]
}

func (e *Engine) saveShot(img *image.RGBA, req shotRequest, raw bool) {
	if err := os.MkdirAll(e.ScreenshotDir, 0o755); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[latentspace] screenshot: %v\n", err)
		return
	}
	stamp := time.Now().Format("20060102_150405")
	name := shotName(stamp, req.label, e.signals.ActiveCluster(), e.Scroll.Progress(), raw)
	if err := writePNG(filepath.Join(e.ScreenshotDir, name), img); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[latentspace] screenshot: %v\n", err)
	}
}

// readImage copies an ebiten image into memory. ReadPixels yields
// premultiplied RGBA, which is the layout image.RGBA stores.
func readImage(src *ebiten.Image) *image.RGBA {
	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	src.ReadPixels(img.Pix)
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel keeps letters, digits, '-' and '.', maps everything else to
// '_', and falls back to "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
