package latentspace

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// RenderConfig controls how points and edges are drawn.
type RenderConfig struct {
	// PointSize is the side of each point quad in pixels.
	PointSize    float64 `yaml:"point_size"`
	PointOpacity float64 `yaml:"point_opacity"`
	// EdgeWidth is the thickness of attention edges in pixels.
	EdgeWidth   float64 `yaml:"edge_width"`
	EdgeOpacity float64 `yaml:"edge_opacity"`
	// FogNear and FogFar are the view depths where fog starts and where
	// geometry is fully faded into the background.
	FogNear    float64 `yaml:"fog_near"`
	FogFar     float64 `yaml:"fog_far"`
	Background Color   `yaml:"background"`
	// Blend is how points and edges combine with what is already drawn.
	Blend BlendMode `yaml:"blend"`
	// HideEdges skips the attention overlay.
	HideEdges bool `yaml:"hide_edges"`
}

// DefaultRenderConfig returns the default material and fog settings.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		PointSize:    2.5,
		PointOpacity: 0.8,
		EdgeWidth:    1,
		EdgeOpacity:  0.6,
		FogNear:      15,
		FogFar:       60,
		Background:   ColorBackground,
		Blend:        BlendAdd,
	}
}

// fogFactor returns how much of a fragment at the given depth survives the
// fog: 1 before FogNear, 0 past FogFar, linear in between.
func (c *RenderConfig) fogFactor(depth float64) float64 {
	if c.FogFar <= c.FogNear {
		return 1
	}
	return 1 - clamp01((depth-c.FogNear)/(c.FogFar-c.FogNear))
}

// --- White pixel singleton (single-threaded, no sync.Once) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used
// as the source texture for untextured quads.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// renderStats counts what the last frame submitted.
type renderStats struct {
	points   int
	edges    int
	vertices int
}

// cloudRenderer batches projected points and edges into DrawTriangles32 calls.
// Buffers are reused across frames.
type cloudRenderer struct {
	verts []ebiten.Vertex
	inds  []uint32
	op    ebiten.DrawTrianglesOptions
	stats renderStats
}

func (r *cloudRenderer) reset() {
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
}

// quad appends two triangles with corners a, b, c, d in strip order
// (a-b on one side, c-d on the other).
func (r *cloudRenderer) quad(ax, ay, bx, by, cx, cy, dx, dy float32, c0, c1 [4]float32) {
	base := uint32(len(r.verts))
	r.verts = append(r.verts,
		ebiten.Vertex{DstX: ax, DstY: ay, SrcX: 0, SrcY: 0, ColorR: c0[0], ColorG: c0[1], ColorB: c0[2], ColorA: c0[3]},
		ebiten.Vertex{DstX: bx, DstY: by, SrcX: 1, SrcY: 0, ColorR: c0[0], ColorG: c0[1], ColorB: c0[2], ColorA: c0[3]},
		ebiten.Vertex{DstX: cx, DstY: cy, SrcX: 0, SrcY: 1, ColorR: c1[0], ColorG: c1[1], ColorB: c1[2], ColorA: c1[3]},
		ebiten.Vertex{DstX: dx, DstY: dy, SrcX: 1, SrcY: 1, ColorR: c1[0], ColorG: c1[1], ColorB: c1[2], ColorA: c1[3]},
	)
	r.inds = append(r.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

func (r *cloudRenderer) flush(target *ebiten.Image, blend BlendMode) {
	if len(r.verts) == 0 {
		return
	}
	r.op.Blend = blend.EbitenBlend()
	r.op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	target.DrawTriangles32(r.verts, r.inds, ensureWhitePixel(), &r.op)
	r.stats.vertices += len(r.verts)
	r.reset()
}

// premul returns a premultiplied vertex color.
func premul(r, g, b, a float64) [4]float32 {
	return [4]float32{float32(r * a), float32(g * a), float32(b * a), float32(a)}
}

// drawPoints projects every point of the cloud and draws it as a square.
// Points behind the near plane, past the far plane, off screen, or with a
// non-finite position are skipped.
func (r *cloudRenderer) drawPoints(target *ebiten.Image, cam *ScrollCamera, cloud *PointCloud, cfg *RenderConfig) {
	r.reset()
	half := float32(cfg.PointSize / 2)
	if half <= 0 {
		return
	}
	vp := cam.Viewport
	h := float64(half)
	visible := Rect{X: vp.X - h, Y: vp.Y - h, Width: vp.Width + 2*h, Height: vp.Height + 2*h}
	pos := cloud.Positions
	col := cloud.Colors
	for i := 0; i < cloud.Len(); i++ {
		i3 := i * 3
		world := Vec3{float64(pos[i3]), float64(pos[i3+1]), float64(pos[i3+2])}
		if !world.IsFinite() {
			continue
		}
		sx, sy, depth, ok := cam.WorldToScreen(world)
		if !ok || !visible.Contains(sx, sy) {
			continue
		}
		a := cfg.PointOpacity * cfg.fogFactor(depth)
		if a <= 0 {
			continue
		}
		c := premul(float64(col[i3]), float64(col[i3+1]), float64(col[i3+2]), a)
		x, y := float32(sx), float32(sy)
		r.quad(x-half, y-half, x+half, y-half, x-half, y+half, x+half, y+half, c, c)
		r.stats.points++
	}
	r.flush(target, cfg.Blend)
}

// drawEdges draws every attention edge as a thin quad between cluster
// centers with the overlay's per-vertex colors. Edges crossing the near
// plane are clipped to it.
func (r *cloudRenderer) drawEdges(target *ebiten.Image, cam *ScrollCamera, layout Layout, overlay *AttentionOverlay, cfg *RenderConfig) {
	r.reset()
	half := cfg.EdgeWidth / 2
	if half <= 0 || overlay == nil {
		return
	}
	near := cam.Config.Near
	for i, e := range overlay.Edges {
		a := cam.ToCamera(layout.Clusters[e.Source].Center)
		b := cam.ToCamera(layout.Clusters[e.Target].Center)
		a, b, ok := clipSegment(a, b, near)
		if !ok {
			continue
		}
		ax, ay, okA := cam.ProjectCamera(a)
		bx, by, okB := cam.ProjectCamera(b)
		if !okA || !okB {
			continue
		}
		// Perpendicular offset in screen space.
		dx, dy := bx-ax, by-ay
		n, ok := (Vec3{X: -dy, Y: dx}).Normalize()
		if !ok {
			continue
		}
		ox, oy := float32(n.X*half), float32(n.Y*half)

		c := overlay.Colors[i*6 : i*6+6]
		fa := cfg.EdgeOpacity * cfg.fogFactor(a.Z)
		fb := cfg.EdgeOpacity * cfg.fogFactor(b.Z)
		c0 := premul(float64(c[0]), float64(c[1]), float64(c[2]), fa)
		c1 := premul(float64(c[3]), float64(c[4]), float64(c[5]), fb)

		x0, y0 := float32(ax), float32(ay)
		x1, y1 := float32(bx), float32(by)
		r.quad(x0-ox, y0-oy, x0+ox, y0+oy, x1-ox, y1-oy, x1+ox, y1+oy, c0, c1)
		r.stats.edges++
	}
	r.flush(target, cfg.Blend)
}

// clipSegment clips a camera-space segment to z >= near. ok is false when
// the whole segment lies behind the near plane.
func clipSegment(a, b Vec3, near float64) (Vec3, Vec3, bool) {
	aIn, bIn := a.Z >= near, b.Z >= near
	switch {
	case aIn && bIn:
		return a, b, true
	case !aIn && !bIn:
		return a, b, false
	}
	t := (near - a.Z) / (b.Z - a.Z)
	p := a.Lerp(b, t)
	p.Z = near
	if aIn {
		return a, p, true
	}
	return p, b, true
}
