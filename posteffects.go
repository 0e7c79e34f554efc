package latentspace

import "github.com/hajimehoshi/ebiten/v2"

// PostConfig holds the post-processing constants.
type PostConfig struct {
	// ChromaticScale maps warp intensity to chromatic shift (0.08 at peak warp).
	ChromaticScale float64 `yaml:"chromatic_scale"`
	// ChromaticPixels converts the shift magnitude into a pixel offset.
	ChromaticPixels float64 `yaml:"chromatic_pixels"`
	BloomRadius     int     `yaml:"bloom_radius"`
	BloomIntensity  float64 `yaml:"bloom_intensity"`
	VignetteOffset  float64 `yaml:"vignette_offset"`
	VignetteDark    float64 `yaml:"vignette_darkness"`
	// Disabled skips the offscreen pass entirely and draws straight to the screen.
	Disabled bool `yaml:"disabled"`
}

// DefaultPostConfig returns the default post-processing settings.
func DefaultPostConfig() PostConfig {
	return PostConfig{
		ChromaticScale:  0.08,
		ChromaticPixels: 100,
		BloomRadius:     8,
		BloomIntensity:  1.5,
		VignetteOffset:  0.1,
		VignetteDark:    0.8,
	}
}

// PostEffects maps the warp intensity onto screen-space distortion and owns
// the filter chain that consumes it.
type PostEffects struct {
	Config PostConfig
	// ChromaticShift is the current chromatic aberration magnitude.
	ChromaticShift float64

	Bloom     *BloomFilter
	Chromatic *ChromaticAberrationFilter
	Vignette  *VignetteFilter

	filters []Filter
	pool    renderTexturePool
	held    []*ebiten.Image
	imgOp   ebiten.DrawImageOptions
}

// NewPostEffects creates the controller and its filter chain. Filters are
// not compiled until first drawn.
func NewPostEffects(cfg PostConfig) *PostEffects {
	p := &PostEffects{
		Config:    cfg,
		Bloom:     NewBloomFilter(cfg.BloomRadius, cfg.BloomIntensity),
		Chromatic: NewChromaticAberrationFilter(cfg.ChromaticPixels),
		Vignette:  NewVignetteFilter(cfg.VignetteOffset, cfg.VignetteDark),
	}
	p.filters = []Filter{p.Bloom, p.Chromatic, p.Vignette}
	return p
}

// Advance reads this frame's warp intensity.
func (p *PostEffects) Advance(time float64, signals *Signals) {
	warp := 0.0
	if signals != nil {
		warp = signals.WarpIntensity()
	}
	p.SetWarp(warp)
}

// SetWarp sets the chromatic shift for a warp intensity in [0, 1].
func (p *PostEffects) SetWarp(warp float64) {
	p.ChromaticShift = clamp01(warp) * p.Config.ChromaticScale
	p.Chromatic.Shift = p.ChromaticShift
}

// Filters returns the chain in application order. The returned slice MUST NOT be mutated.
func (p *PostEffects) Filters() []Filter {
	return p.filters
}

// Compose runs the filter chain over frame and draws the result onto dst.
func (p *PostEffects) Compose(dst, frame *ebiten.Image) {
	out := frame
	if !p.Config.Disabled {
		out, p.held = applyFilters(p.filters, frame, &p.pool, p.held[:0])
	}
	p.imgOp.GeoM.Reset()
	dst.DrawImage(out, &p.imgOp)
	for _, img := range p.held {
		p.pool.Release(img)
	}
	p.held = p.held[:0]
}

// Dispose releases pooled render targets.
func (p *PostEffects) Dispose() {
	p.pool.Dispose()
}
