package latentspace

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ScrollConfig controls how input moves the scroll progress.
type ScrollConfig struct {
	// Damping is how long, in seconds, the displayed progress takes to catch
	// up with a new target. Zero disables damping.
	Damping float64 `yaml:"damping"`
	// WheelStep is the progress moved per mouse wheel notch.
	WheelStep float64 `yaml:"wheel_step"`
	// KeyStep is the progress moved per arrow key press.
	KeyStep float64 `yaml:"key_step"`
}

// DefaultScrollConfig returns the default damping and step sizes.
func DefaultScrollConfig() ScrollConfig {
	return ScrollConfig{
		Damping:   0.15,
		WheelStep: 0.02,
		KeyStep:   0.05,
	}
}

// ScrollTracker turns raw scroll input into a damped progress value in
// [0, 1]. It implements ScrollSource.
type ScrollTracker struct {
	Config ScrollConfig
	// Ease shapes the catch-up tween. Defaults to ease.OutQuad.
	Ease ease.TweenFunc

	clusters int
	target   float64
	current  float64
	tween    *gween.Tween
}

// NewScrollTracker creates a tracker for a layout with the given cluster count.
func NewScrollTracker(clusters int, cfg ScrollConfig) *ScrollTracker {
	return &ScrollTracker{
		Config:   cfg,
		Ease:     ease.OutQuad,
		clusters: clusters,
	}
}

// Progress returns the damped progress.
func (s *ScrollTracker) Progress() float64 {
	return s.current
}

// Target returns the progress the tracker is moving toward.
func (s *ScrollTracker) Target() float64 {
	return s.target
}

// Settled reports whether the damped progress has reached the target.
func (s *ScrollTracker) Settled() bool {
	return s.tween == nil
}

// SetTarget moves the target to p, clamped to [0, 1]. The displayed
// progress follows over Config.Damping seconds.
func (s *ScrollTracker) SetTarget(p float64) {
	p = clampProgress(p)
	if p == s.target && s.tween == nil {
		return
	}
	s.target = p
	if s.Config.Damping <= 0 {
		s.current = p
		s.tween = nil
		return
	}
	fn := s.Ease
	if fn == nil {
		fn = ease.OutQuad
	}
	s.tween = gween.New(float32(s.current), float32(p), float32(s.Config.Damping), fn)
}

// ScrollBy moves the target by delta.
func (s *ScrollTracker) ScrollBy(delta float64) {
	s.SetTarget(s.target + delta)
}

// Jump sets both target and displayed progress to p, skipping damping.
func (s *ScrollTracker) Jump(p float64) {
	p = clampProgress(p)
	s.target = p
	s.current = p
	s.tween = nil
}

// ProgressOf returns the scroll progress at which cluster i is centered.
func (s *ScrollTracker) ProgressOf(i int) float64 {
	if s.clusters < 2 {
		return 0
	}
	i = clampInt(i, 0, s.clusters-1)
	return float64(i) / float64(s.clusters-1)
}

// ScrollToCluster targets the progress at which cluster i is centered.
func (s *ScrollTracker) ScrollToCluster(i int) {
	s.SetTarget(s.ProgressOf(i))
}

// Update advances the damping tween by dt seconds.
func (s *ScrollTracker) Update(dt float32) {
	if s.tween == nil {
		return
	}
	v, done := s.tween.Update(dt)
	s.current = clampProgress(float64(v))
	if done {
		s.current = s.target
		s.tween = nil
	}
}

// HandleInput reads the mouse wheel and navigation keys.
func (s *ScrollTracker) HandleInput() {
	if _, wy := ebiten.Wheel(); wy != 0 {
		s.ScrollBy(-wy * s.Config.WheelStep)
	}
	nearest := ActiveIndex(s.target, s.clusters)
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		s.ScrollBy(s.Config.KeyStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		s.ScrollBy(-s.Config.KeyStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		s.ScrollToCluster(nearest + 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		s.ScrollToCluster(nearest - 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		s.ScrollToCluster(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		s.ScrollToCluster(s.clusters - 1)
	}
}
