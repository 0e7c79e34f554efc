package latentspace

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// renderTexturePool recycles the full-screen targets the post chain
// ping-pongs through. Every target in a frame has the frame's size rounded
// up to powers of two, so the pool keeps a single free list for that size.
// A window resize changes the size and frees the old targets instead of
// letting them accumulate per size.
type renderTexturePool struct {
	size image.Point
	free []*ebiten.Image
}

// Acquire returns a cleared offscreen image with at least (w, h) pixels.
// Dimensions are rounded up to the next power of two.
func (p *renderTexturePool) Acquire(w, h int) *ebiten.Image {
	size := image.Pt(nextPowerOfTwo(w), nextPowerOfTwo(h))
	if size != p.size {
		p.Dispose()
		p.size = size
	}
	if n := len(p.free); n > 0 {
		img := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		img.Clear()
		return img
	}
	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, size.X, size.Y),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// Release hands an image back. Images from before a resize are
// deallocated rather than kept.
func (p *renderTexturePool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	if img.Bounds().Size() != p.size {
		img.Deallocate()
		return
	}
	p.free = append(p.free, img)
}

// Dispose deallocates every pooled image.
func (p *renderTexturePool) Dispose() {
	for i, img := range p.free {
		img.Deallocate()
		p.free[i] = nil
	}
	p.free = p.free[:0]
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}
