package latentspace

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Filter is the interface for screen-space effects applied to a rendered frame.
type Filter interface {
	// Apply renders src into dst with the filter effect.
	Apply(src, dst *ebiten.Image)
}

// --- Kage shader sources ---
// All shaders use //kage:unit pixels as required by Ebitengine.
// Ebitengine uses premultiplied alpha.

const chromaticShaderSrc = `//kage:unit pixels
package main

var Offset vec2

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	r := imageSrc0At(src + Offset)
	b := imageSrc0At(src - Offset)
	return vec4(r.r, c.g, b.b, max(c.a, max(r.a, b.a)))
}
`

const vignetteShaderSrc = `//kage:unit pixels
package main

var Offset float
var Darkness float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	uv := (src - imageSrc0Origin()) / imageSrc0Size()
	d := distance(uv, vec2(0.5))
	v := 1 - smoothstep(Offset*0.799, 0.8, d*(Darkness+Offset))
	return vec4(c.rgb*v, c.a)
}
`

// --- Lazy shader compilation (single-threaded, no sync.Once) ---

var (
	chromaticShader *ebiten.Shader
	vignetteShader  *ebiten.Shader
)

func ensureChromaticShader() *ebiten.Shader {
	if chromaticShader == nil {
		s, err := ebiten.NewShader([]byte(chromaticShaderSrc))
		if err != nil {
			panic("latentspace: failed to compile chromatic aberration shader: " + err.Error())
		}
		chromaticShader = s
	}
	return chromaticShader
}

func ensureVignetteShader() *ebiten.Shader {
	if vignetteShader == nil {
		s, err := ebiten.NewShader([]byte(vignetteShaderSrc))
		if err != nil {
			panic("latentspace: failed to compile vignette shader: " + err.Error())
		}
		vignetteShader = s
	}
	return vignetteShader
}

// --- ChromaticAberrationFilter ---

// ChromaticAberrationFilter splits the red and blue channels apart along the
// diagonal. Shift is the magnitude in normalized screen units; Scale
// converts it to pixels.
type ChromaticAberrationFilter struct {
	Shift       float64
	Scale       float64
	uniforms    map[string]any
	offsetF32   [2]float32 // persistent buffer
	offsetSlice []float32  // persistent slice header pointing into offsetF32
	shaderOp    ebiten.DrawRectShaderOptions
	imgOp       ebiten.DrawImageOptions
}

// NewChromaticAberrationFilter creates a filter with no shift.
func NewChromaticAberrationFilter(scale float64) *ChromaticAberrationFilter {
	f := &ChromaticAberrationFilter{
		Scale:    scale,
		uniforms: make(map[string]any, 1),
	}
	f.offsetSlice = f.offsetF32[:]
	f.uniforms["Offset"] = f.offsetSlice
	return f
}

// Offset returns the per-channel displacement in pixels.
func (f *ChromaticAberrationFilter) Offset() float64 {
	return f.Shift * f.Scale
}

// Apply renders src into dst with the channel split. A zero shift is a plain copy.
func (f *ChromaticAberrationFilter) Apply(src, dst *ebiten.Image) {
	off := f.Offset()
	if off == 0 || !isFinite(off) {
		f.imgOp.GeoM.Reset()
		dst.DrawImage(src, &f.imgOp)
		return
	}
	shader := ensureChromaticShader()
	f.offsetF32[0] = float32(off)
	f.offsetF32[1] = float32(off)
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

// --- VignetteFilter ---

// VignetteFilter darkens the frame toward its corners.
type VignetteFilter struct {
	Offset   float64
	Darkness float64
	uniforms map[string]any
	shaderOp ebiten.DrawRectShaderOptions
}

// NewVignetteFilter creates a vignette filter.
func NewVignetteFilter(offset, darkness float64) *VignetteFilter {
	return &VignetteFilter{
		Offset:   offset,
		Darkness: darkness,
		uniforms: make(map[string]any, 2),
	}
}

// Apply renders the vignette from src into dst.
func (f *VignetteFilter) Apply(src, dst *ebiten.Image) {
	shader := ensureVignetteShader()
	// Scalar float32 boxing is unavoidable with Ebitengine's uniform API.
	f.uniforms["Offset"] = float32(f.Offset)
	f.uniforms["Darkness"] = float32(f.Darkness)
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

// --- BlurFilter ---

// BlurFilter applies a Kawase iterative blur using downscale/upscale passes.
// Bilinear filtering during DrawImage does the blur; no Kage shader is used.
type BlurFilter struct {
	Radius int
	temps  []*ebiten.Image
	imgOp  ebiten.DrawImageOptions
}

// NewBlurFilter creates a blur filter with the given radius (in pixels).
func NewBlurFilter(radius int) *BlurFilter {
	if radius < 0 {
		radius = 0
	}
	return &BlurFilter{Radius: radius}
}

// blurPasses returns the number of half-size passes for a radius: log2(radius), minimum 1.
func blurPasses(radius int) int {
	passes := int(math.Ceil(math.Log2(float64(radius))))
	if passes < 1 {
		passes = 1
	}
	return passes
}

// Apply renders a Kawase blur from src into dst using iterative downscale/upscale.
func (f *BlurFilter) Apply(src, dst *ebiten.Image) {
	op := &f.imgOp
	if f.Radius <= 0 {
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.Filter = ebiten.FilterNearest
		dst.DrawImage(src, op)
		return
	}

	passes := blurPasses(f.Radius)
	srcBounds := src.Bounds()
	w, h := srcBounds.Dx(), srcBounds.Dy()

	for len(f.temps) < passes {
		f.temps = append(f.temps, nil)
	}
	// Deallocate excess temp images from a previous larger radius.
	for i := passes; i < len(f.temps); i++ {
		if f.temps[i] != nil {
			f.temps[i].Deallocate()
			f.temps[i] = nil
		}
	}
	f.temps = f.temps[:passes]

	current := src
	for i := 0; i < passes; i++ {
		w = max(w/2, 1)
		h = max(h/2, 1)
		if f.temps[i] == nil || f.temps[i].Bounds().Dx() != w || f.temps[i].Bounds().Dy() != h {
			if f.temps[i] != nil {
				f.temps[i].Deallocate()
			}
			f.temps[i] = ebiten.NewImage(w, h)
		} else {
			f.temps[i].Clear()
		}
		drawScaled(f.temps[i], current, op)
		current = f.temps[i]
	}

	for i := passes - 2; i >= 0; i-- {
		f.temps[i].Clear()
		drawScaled(f.temps[i], current, op)
		current = f.temps[i]
	}

	drawScaled(dst, current, op)
}

// drawScaled draws src stretched over dst with linear filtering.
func drawScaled(dst, src *ebiten.Image, op *ebiten.DrawImageOptions) {
	op.GeoM.Reset()
	op.ColorScale.Reset()
	sw := float64(src.Bounds().Dx())
	sh := float64(src.Bounds().Dy())
	tw := float64(dst.Bounds().Dx())
	th := float64(dst.Bounds().Dy())
	op.GeoM.Scale(tw/sw, th/sh)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
}

// --- BloomFilter ---

// BloomFilter adds a blurred copy of the frame on top of itself.
type BloomFilter struct {
	Intensity float64
	blur      *BlurFilter
	glow      *ebiten.Image
	imgOp     ebiten.DrawImageOptions
}

// NewBloomFilter creates a bloom with the given blur radius and glow intensity.
func NewBloomFilter(radius int, intensity float64) *BloomFilter {
	return &BloomFilter{Intensity: intensity, blur: NewBlurFilter(radius)}
}

// Apply draws src into dst, then the blurred glow additively.
func (f *BloomFilter) Apply(src, dst *ebiten.Image) {
	op := &f.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.Blend = ebiten.BlendSourceOver
	dst.DrawImage(src, op)
	if f.Intensity <= 0 {
		return
	}

	b := src.Bounds()
	if f.glow == nil || f.glow.Bounds().Dx() != b.Dx() || f.glow.Bounds().Dy() != b.Dy() {
		if f.glow != nil {
			f.glow.Deallocate()
		}
		f.glow = ebiten.NewImage(b.Dx(), b.Dy())
	} else {
		f.glow.Clear()
	}
	f.blur.Apply(src, f.glow)

	op.GeoM.Reset()
	op.ColorScale.Reset()
	k := float32(f.Intensity)
	op.ColorScale.Scale(k, k, k, k)
	op.Blend = ebiten.BlendLighter
	dst.DrawImage(f.glow, op)
}

// --- Filter application helper ---

// applyFilters runs a filter chain on src, writing each pass into a pooled
// image trimmed to src's size. It returns the final image and the pooled
// images the caller must release once the frame is submitted.
func applyFilters(filters []Filter, src *ebiten.Image, pool *renderTexturePool, held []*ebiten.Image) (*ebiten.Image, []*ebiten.Image) {
	if len(filters) == 0 {
		return src, held
	}
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	current := src
	for _, f := range filters {
		full := pool.Acquire(w, h)
		held = append(held, full)
		out := full.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
		f.Apply(current, out)
		current = out
	}
	return current, held
}
