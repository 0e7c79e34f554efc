package latentspace

import "math"

// ScrollSource supplies scroll progress once per frame. Values outside
// [0, 1] are clamped by the consumer.
type ScrollSource interface {
	Progress() float64
}

// ProgressFunc adapts a plain function to ScrollSource.
type ProgressFunc func() float64

// Progress calls f.
func (f ProgressFunc) Progress() float64 { return f() }

// CameraConfig controls the warp zoom-out and the perspective projection.
type CameraConfig struct {
	// WarpZoom is how far the camera pulls back along Z at peak warp.
	WarpZoom float64 `yaml:"warp_zoom"`
	// WarpLift is the fraction of WarpZoom applied on the vertical axis.
	WarpLift float64 `yaml:"warp_lift"`
	// FOV is the vertical field of view in degrees.
	FOV  float64 `yaml:"fov"`
	Near float64 `yaml:"near"`
	Far  float64 `yaml:"far"`
}

// DefaultCameraConfig returns the default camera settings.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		WarpZoom: 20,
		WarpLift: 0.5,
		FOV:      75,
		Near:     0.1,
		Far:      1000,
	}
}

// Pose is a camera placement with look-at semantics.
type Pose struct {
	Position Vec3
	Target   Vec3
}

// CameraState is everything the camera derives from one scroll value.
type CameraState struct {
	Pose    Pose
	Segment int
	T       float64
	Ease    float64
	Warp    float64
	Active  int
}

var (
	worldUp        = Vec3{0, 1, 0}
	defaultForward = Vec3{0, 0, -1}
)

// ScrollCamera flies between clusters as scroll progress changes. Each frame
// it computes the pose for the current progress and publishes the active
// cluster and warp intensity to the shared Signals.
type ScrollCamera struct {
	Config CameraConfig
	// Viewport is the screen-space rectangle the camera projects into.
	Viewport Rect

	layout Layout
	source ScrollSource
	state  CameraState

	right, up, forward Vec3
	dirty              bool
}

// NewScrollCamera creates a camera over the layout. It fails if the layout
// cannot define at least one segment.
func NewScrollCamera(layout Layout, source ScrollSource, cfg CameraConfig) (*ScrollCamera, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	c := &ScrollCamera{
		Config:   cfg,
		Viewport: Rect{Width: 1, Height: 1},
		layout:   layout,
		source:   source,
	}
	c.state = c.Evaluate(0)
	c.dirty = true
	return c, nil
}

// SetSource replaces the scroll source.
func (c *ScrollCamera) SetSource(source ScrollSource) {
	c.source = source
}

// Evaluate computes the camera state for scroll progress p without changing
// the camera.
func (c *ScrollCamera) Evaluate(p float64) CameraState {
	n := c.layout.Len()
	segment, t := Segment(p, n)
	ease := WarpEase(t)
	warp := WarpIntensity(t)

	from, to := c.layout.Clusters[segment], c.layout.Clusters[segment+1]
	target := from.Center.Lerp(to.Center, ease)
	offset := from.CameraOffset.Lerp(to.CameraOffset, ease)

	zoom := warp * c.Config.WarpZoom
	offset.Y += zoom * c.Config.WarpLift
	offset.Z += zoom

	return CameraState{
		Pose:    Pose{Position: target.Add(offset), Target: target},
		Segment: segment,
		T:       t,
		Ease:    ease,
		Warp:    warp,
		Active:  ActiveIndex(p, n),
	}
}

// Advance reads the scroll source, updates the pose, and publishes the
// active cluster and warp intensity.
func (c *ScrollCamera) Advance(time float64, signals *Signals) {
	p := 0.0
	if c.source != nil {
		p = c.source.Progress()
	}
	st := c.Evaluate(p)
	if !st.Pose.Position.IsFinite() || !st.Pose.Target.IsFinite() {
		// Keep the last good pose; never hand NaN to the renderer.
		st.Pose = c.state.Pose
	}
	if !isFinite(st.Warp) {
		st.Warp = 0
	}
	if st.Pose != c.state.Pose {
		c.dirty = true
	}
	c.state = st
	if signals != nil {
		signals.publish(st.Active, st.Warp)
	}
}

// State returns the state computed by the last Advance.
func (c *ScrollCamera) State() CameraState {
	return c.state
}

// Pose returns the camera pose computed by the last Advance.
func (c *ScrollCamera) Pose() Pose {
	return c.state.Pose
}

// Basis returns the camera's right, up, and forward unit vectors.
func (c *ScrollCamera) Basis() (right, up, forward Vec3) {
	c.computeBasis()
	return c.right, c.up, c.forward
}

// computeBasis recomputes the cached look-at basis if dirty. A camera sitting
// on its target keeps the default forward axis; a forward axis parallel to
// world up picks -Z as the up reference.
func (c *ScrollCamera) computeBasis() {
	if !c.dirty {
		return
	}
	c.dirty = false

	fwd, ok := c.state.Pose.Target.Sub(c.state.Pose.Position).Normalize()
	if !ok {
		fwd = defaultForward
	}
	right, ok := fwd.Cross(worldUp).Normalize()
	if !ok {
		right, _ = fwd.Cross(defaultForward).Normalize()
	}
	c.forward = fwd
	c.right = right
	c.up = right.Cross(fwd)
}

// ToCamera converts a world position into camera space: X right, Y up, and
// Z the distance along the view direction (positive in front of the camera).
func (c *ScrollCamera) ToCamera(world Vec3) Vec3 {
	c.computeBasis()
	d := world.Sub(c.state.Pose.Position)
	return Vec3{d.Dot(c.right), d.Dot(c.up), d.Dot(c.forward)}
}

// focalLength returns the projection scale in pixels per unit at depth 1.
func (c *ScrollCamera) focalLength() float64 {
	fov := c.Config.FOV
	if fov <= 0 || fov >= 180 {
		fov = 75
	}
	return (c.Viewport.Height / 2) / math.Tan(fov*math.Pi/360)
}

// ProjectCamera maps a camera-space point to screen coordinates. ok is false
// for points outside the near/far range.
func (c *ScrollCamera) ProjectCamera(v Vec3) (sx, sy float64, ok bool) {
	if v.Z < c.Config.Near || (c.Config.Far > 0 && v.Z > c.Config.Far) {
		return 0, 0, false
	}
	f := c.focalLength() / v.Z
	sx = c.Viewport.X + c.Viewport.Width/2 + v.X*f
	sy = c.Viewport.Y + c.Viewport.Height/2 - v.Y*f
	if !isFinite(sx) || !isFinite(sy) {
		return 0, 0, false
	}
	return sx, sy, true
}

// WorldToScreen projects a world position to screen coordinates and returns
// its view depth.
func (c *ScrollCamera) WorldToScreen(world Vec3) (sx, sy, depth float64, ok bool) {
	v := c.ToCamera(world)
	sx, sy, ok = c.ProjectCamera(v)
	return sx, sy, v.Z, ok
}
