package latentspace

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// hudRefresh is how often, in seconds, the HUD text is redrawn while the
// active cluster stays the same.
const hudRefresh = 0.5

// hud draws FPS, TPS, the active cluster with its outgoing attention, and the
// warp intensity in the top-left corner.
type hud struct {
	img       *ebiten.Image
	sinceDraw float64
	// stale is set by a cluster change so the next frame redraws at once.
	stale  bool
	change ClusterChange
	op     ebiten.DrawImageOptions
}

// onClusterChange is subscribed to Signals by the Engine.
func (h *hud) onClusterChange(c ClusterChange) {
	h.change = c
	h.stale = true
}

// text formats the HUD lines for the current frame.
func (h *hud) text(fps, tps float64, signals *Signals, overlay *AttentionOverlay) string {
	active := signals.ActiveCluster()
	attn := 0.0
	if overlay != nil {
		attn = overlay.OutgoingMean(active)
	}
	return fmt.Sprintf("FPS: %.1f  TPS: %.1f\n[%d] %s  attn %.2f\nfrom [%d]\nwarp: %.2f",
		fps, tps, active, signals.ActiveLabel(), attn, h.change.Previous, signals.WarpIntensity())
}

func (h *hud) draw(screen *ebiten.Image, signals *Signals, overlay *AttentionOverlay) {
	if h.img == nil {
		// 200x64 is enough for four short lines of debug text.
		h.img = ebiten.NewImage(200, 64)
		h.stale = true
	}
	h.sinceDraw += 1 / float64(ebiten.TPS())
	if h.stale || h.sinceDraw >= hudRefresh {
		h.stale = false
		h.sinceDraw = 0
		h.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(h.img, h.text(ebiten.ActualFPS(), ebiten.ActualTPS(), signals, overlay))
	}
	h.op.GeoM.Reset()
	h.op.GeoM.Translate(8, 8)
	screen.DrawImage(h.img, &h.op)
}

func (h *hud) dispose() {
	if h.img != nil {
		h.img.Deallocate()
		h.img = nil
	}
}
