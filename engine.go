package latentspace

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Participant is anything advanced once per frame by the Engine. Participants
// run in registration order, so a participant sees the signals published by
// everyone registered before it in the same frame.
type Participant interface {
	Advance(time float64, signals *Signals)
}

// Registration is the handle returned by Engine.Register.
type Registration struct {
	engine      *Engine
	participant Participant
}

// Deregister removes the participant from the frame loop. Calling it more
// than once is a no-op.
func (r *Registration) Deregister() {
	if r.engine == nil {
		return
	}
	e := r.engine
	r.engine = nil
	for i, reg := range e.participants {
		if reg == r {
			e.participants = append(e.participants[:i], e.participants[i+1:]...)
			return
		}
	}
}

// Participant returns the registered participant.
func (r *Registration) Participant() Participant {
	return r.participant
}

// Engine owns the scene state and drives every participant once per frame.
// It implements ebiten.Game.
type Engine struct {
	Config Config

	Camera   *ScrollCamera
	Scroll   *ScrollTracker
	Animator *IdleAnimator
	Overlay  *AttentionOverlay
	Post     *PostEffects

	// ShowHUD draws the FPS and active cluster overlay.
	ShowHUD bool
	// ScreenshotDir is the directory where screenshots are saved.
	// Defaults to "screenshots".
	ScreenshotDir string

	cloud   *PointCloud
	signals *Signals
	time    float64
	closed  bool

	participants []*Registration
	running      []*Registration

	store       EntityStore
	storeCancel func()
	debug       bool
	debugCancel func()

	renderer  cloudRenderer
	frame     *ebiten.Image
	hud       hud
	hudCancel func()

	injectQueue     []float64
	testRunner      *TestRunner
	screenshotQueue []shotRequest
}

// NewEngine validates the config, generates the point cloud, and registers
// the camera, idle animator, attention overlay, and post effects in that order.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	cloud, err := Generate(cfg.Layout, cfg.Generate)
	if err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	scroll := NewScrollTracker(cfg.Layout.Len(), cfg.Scroll)
	cam, err := NewScrollCamera(cfg.Layout, scroll, cfg.Camera)
	if err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	e := &Engine{
		Config:        cfg,
		Camera:        cam,
		Scroll:        scroll,
		Animator:      NewIdleAnimator(cloud, cfg.Idle),
		Overlay:       NewAttentionOverlay(cfg.Layout, cfg.Attention),
		Post:          NewPostEffects(cfg.Post),
		ScreenshotDir: "screenshots",
		cloud:         cloud,
		signals:       NewSignals(cfg.Layout),
	}
	e.Register(e.Camera)
	e.Register(e.Animator)
	e.Register(e.Overlay)
	e.Register(e.Post)
	e.hudCancel = e.signals.OnClusterChange(e.hud.onClusterChange)
	return e, nil
}

// Cloud returns the point cloud.
func (e *Engine) Cloud() *PointCloud {
	return e.cloud
}

// Signals returns the shared signal store.
func (e *Engine) Signals() *Signals {
	return e.signals
}

// ClusterLayout returns the layout the engine was built from.
func (e *Engine) ClusterLayout() Layout {
	return e.Config.Layout
}

// Time returns the accumulated frame time in seconds.
func (e *Engine) Time() float64 {
	return e.time
}

// Register appends p to the frame loop.
func (e *Engine) Register(p Participant) *Registration {
	r := &Registration{engine: e, participant: p}
	e.participants = append(e.participants, r)
	return r
}

// Participants returns the registered participants in frame order.
func (e *Engine) Participants() []Participant {
	out := make([]Participant, len(e.participants))
	for i, r := range e.participants {
		out[i] = r.participant
	}
	return out
}

// Close deregisters every participant, detaches the entity store, and
// releases GPU resources. The engine stops advancing afterwards.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	for len(e.participants) > 0 {
		e.participants[len(e.participants)-1].Deregister()
	}
	e.SetEntityStore(nil)
	e.SetDebugMode(false)
	e.hudCancel()
	e.hud.dispose()
	e.Post.Dispose()
	if e.frame != nil {
		e.frame.Deallocate()
		e.frame = nil
	}
}

// Closed reports whether Close has been called.
func (e *Engine) Closed() bool {
	return e.closed
}

// SetEntityStore sets the optional ECS bridge. Active-cluster changes are
// forwarded to it until it is replaced or the engine is closed.
func (e *Engine) SetEntityStore(store EntityStore) {
	if e.storeCancel != nil {
		e.storeCancel()
		e.storeCancel = nil
	}
	e.store = store
	if store != nil {
		e.storeCancel = e.signals.OnClusterChange(store.EmitClusterChange)
	}
}

// SetDebugMode enables or disables debug mode. When enabled, per-frame
// timing, draw counts, and active-cluster changes are logged to stderr.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
	switch {
	case enabled && e.debugCancel == nil:
		e.debugCancel = e.signals.OnClusterChange(debugLogClusterChange)
	case !enabled && e.debugCancel != nil:
		e.debugCancel()
		e.debugCancel = nil
	}
}

// SetTestRunner attaches a TestRunner. Its step method is called from
// Update before input is read each frame.
func (e *Engine) SetTestRunner(runner *TestRunner) {
	e.testRunner = runner
}

// Step advances the scroll damping and every participant by dt seconds
// without reading input or drawing.
func (e *Engine) Step(dt float64) {
	if e.closed {
		return
	}
	e.time += dt
	e.Scroll.Update(float32(dt))
	// Iterate a snapshot so participants may deregister mid-frame.
	e.running = append(e.running[:0], e.participants...)
	for _, r := range e.running {
		if r.engine == nil {
			continue
		}
		r.participant.Advance(e.time, e.signals)
	}
}

// Update implements ebiten.Game. It runs the test script, consumes injected
// scroll or real input, and advances one frame.
func (e *Engine) Update() error {
	if e.closed {
		return ebiten.Termination
	}
	var start time.Time
	if e.debug {
		start = time.Now()
	}
	if e.testRunner != nil {
		e.testRunner.step(e)
	}
	if !e.processInjectedScroll() {
		e.Scroll.HandleInput()
	}
	e.Step(1.0 / float64(ebiten.TPS()))
	if e.debug {
		e.debugLogUpdate(time.Since(start))
	}
	return nil
}

// Draw implements ebiten.Game. Points and edges render into an offscreen
// frame which the post effects composite onto the screen.
func (e *Engine) Draw(screen *ebiten.Image) {
	if e.closed {
		return
	}
	var stats frameStats
	var t0 time.Time
	if e.debug {
		t0 = time.Now()
	}

	b := screen.Bounds()
	e.Camera.Viewport = Rect{Width: float64(b.Dx()), Height: float64(b.Dy())}

	target := screen
	if !e.Post.Config.Disabled {
		target = e.ensureFrame(b.Dx(), b.Dy())
	}
	target.Fill(e.Config.Render.Background.toRGBA())

	e.renderer.stats = renderStats{}
	if !e.Config.Render.HideEdges {
		e.renderer.drawEdges(target, e.Camera, e.Config.Layout, e.Overlay, &e.Config.Render)
	}
	e.renderer.drawPoints(target, e.Camera, e.cloud, &e.Config.Render)

	if e.debug {
		stats.drawTime = time.Since(t0)
		t0 = time.Now()
	}

	if target != screen {
		e.flushRawScreenshots(target)
		e.Post.Compose(screen, target)
	}

	if e.debug {
		stats.postTime = time.Since(t0)
		stats.render = e.renderer.stats
		e.debugLog(stats)
	}

	if e.ShowHUD {
		e.hud.draw(screen, e.signals, e.Overlay)
	}
	e.flushScreenshots(screen)
}

// Layout implements ebiten.Game. The engine renders at the window size.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// ensureFrame returns the offscreen frame, reallocating it on resize.
func (e *Engine) ensureFrame(w, h int) *ebiten.Image {
	if e.frame != nil {
		fb := e.frame.Bounds()
		if fb.Dx() == w && fb.Dy() == h {
			return e.frame
		}
		e.frame.Deallocate()
	}
	e.frame = ebiten.NewImage(w, h)
	return e.frame
}
