package latentspace

import (
	"errors"
	"math"
	"testing"
)

func newTestCamera(t *testing.T, layout Layout, p *float64) *ScrollCamera {
	t.Helper()
	cam, err := NewScrollCamera(layout, ProgressFunc(func() float64 { return *p }), DefaultCameraConfig())
	if err != nil {
		t.Fatalf("NewScrollCamera: %v", err)
	}
	cam.Viewport = Rect{Width: 800, Height: 600}
	return cam
}

func vecApprox(a, b Vec3, eps float64) bool {
	return approxEqual(a.X, b.X, eps) && approxEqual(a.Y, b.Y, eps) && approxEqual(a.Z, b.Z, eps)
}

func TestNewScrollCameraRejectsShortLayout(t *testing.T) {
	_, err := NewScrollCamera(lineLayout(1, 10), nil, DefaultCameraConfig())
	if !errors.Is(err, ErrTooFewClusters) {
		t.Errorf("err = %v, want ErrTooFewClusters", err)
	}
}

func TestCameraEndpoints(t *testing.T) {
	l := lineLayout(3, 10)
	p := 0.0
	cam := newTestCamera(t, l, &p)
	s := NewSignals(l)

	cam.Advance(0, s)
	if got := cam.Pose().Target; got != (Vec3{}) {
		t.Errorf("p=0 target = %v, want origin", got)
	}
	if got := cam.Pose().Position; got != (Vec3{Z: 15}) {
		t.Errorf("p=0 position = %v, want (0,0,15)", got)
	}
	if s.ActiveCluster() != 0 || s.WarpIntensity() != 0 {
		t.Errorf("p=0 signals = (%d, %v), want (0, 0)", s.ActiveCluster(), s.WarpIntensity())
	}

	p = 1
	cam.Advance(0, s)
	if got := cam.Pose().Target; got != (Vec3{X: 20}) {
		t.Errorf("p=1 target = %v, want (20,0,0)", got)
	}
	if s.ActiveCluster() != 2 || s.WarpIntensity() != 0 {
		t.Errorf("p=1 signals = (%d, %v), want (2, 0)", s.ActiveCluster(), s.WarpIntensity())
	}
}

func TestCameraRestsOnMiddleCluster(t *testing.T) {
	l := lineLayout(3, 10)
	p := 0.5
	cam := newTestCamera(t, l, &p)
	s := NewSignals(l)
	cam.Advance(0, s)

	if got := cam.Pose().Target; !vecApprox(got, Vec3{X: 10}, epsilon) {
		t.Errorf("target = %v, want (10,0,0)", got)
	}
	if got := cam.Pose().Position; !vecApprox(got, Vec3{X: 10, Z: 15}, epsilon) {
		t.Errorf("position = %v, want (10,0,15)", got)
	}
	if s.ActiveCluster() != 1 {
		t.Errorf("active = %d, want 1", s.ActiveCluster())
	}
	if s.WarpIntensity() != 0 {
		t.Errorf("warp = %v, want 0", s.WarpIntensity())
	}
}

func TestCameraEarlyWarp(t *testing.T) {
	l := lineLayout(3, 10)
	p := 0.67
	cam := newTestCamera(t, l, &p)
	s := NewSignals(l)
	cam.Advance(0, s)

	st := cam.State()
	if st.Segment != 1 || !approxEqual(st.T, 0.34, 1e-9) {
		t.Errorf("segment/t = %d/%v, want 1/0.34", st.Segment, st.T)
	}
	if !approxEqual(st.Ease, 0.028, 1e-9) {
		t.Errorf("ease = %v, want 0.028", st.Ease)
	}
	if got := st.Pose.Target; !vecApprox(got, Vec3{X: 10.28}, 1e-9) {
		t.Errorf("target = %v, want (10.28,0,0)", got)
	}
	wantWarp := math.Sin(0.1 * math.Pi)
	if !approxEqual(s.WarpIntensity(), wantWarp, 1e-9) {
		t.Errorf("warp = %v, want %v", s.WarpIntensity(), wantWarp)
	}
	// Pulled back by the warp zoom.
	zoom := wantWarp * 20
	want := Vec3{X: 10.28, Y: zoom * 0.5, Z: 15 + zoom}
	if got := st.Pose.Position; !vecApprox(got, want, 1e-9) {
		t.Errorf("position = %v, want %v", got, want)
	}
	if s.ActiveCluster() != 1 {
		t.Errorf("active = %d, want 1", s.ActiveCluster())
	}
}

func TestCameraPeakWarp(t *testing.T) {
	l := lineLayout(2, 10)
	p := 0.5
	cam := newTestCamera(t, l, &p)
	s := NewSignals(l)
	cam.Advance(0, s)
	if !approxEqual(s.WarpIntensity(), 1, 1e-12) {
		t.Errorf("warp at t=0.5 = %v, want 1", s.WarpIntensity())
	}
	if got := cam.Pose().Target; !vecApprox(got, Vec3{X: 5}, 1e-9) {
		t.Errorf("target = %v, want (5,0,0)", got)
	}
}

func TestCameraClampsProgress(t *testing.T) {
	l := lineLayout(3, 10)
	for _, tt := range []struct {
		p    float64
		want Vec3
	}{
		{-5, Vec3{}},
		{5, Vec3{X: 20}},
		{math.NaN(), Vec3{}},
		{math.Inf(1), Vec3{X: 20}},
		{math.Inf(-1), Vec3{}},
	} {
		p := tt.p
		cam := newTestCamera(t, l, &p)
		cam.Advance(0, nil)
		if got := cam.Pose().Target; got != tt.want {
			t.Errorf("p=%v target = %v, want %v", tt.p, got, tt.want)
		}
		if !cam.Pose().Position.IsFinite() {
			t.Errorf("p=%v position not finite", tt.p)
		}
	}
}

func TestCameraNilSource(t *testing.T) {
	cam, err := NewScrollCamera(lineLayout(2, 1), nil, DefaultCameraConfig())
	if err != nil {
		t.Fatal(err)
	}
	cam.Advance(0, nil)
	if cam.Pose().Target != (Vec3{}) {
		t.Errorf("nil source should behave as p=0, target = %v", cam.Pose().Target)
	}
}

func TestCameraProjection(t *testing.T) {
	l := lineLayout(2, 10)
	p := 0.0
	cam := newTestCamera(t, l, &p)
	cam.Advance(0, nil)

	sx, sy, depth, ok := cam.WorldToScreen(Vec3{})
	if !ok || !approxEqual(sx, 400, 1e-9) || !approxEqual(sy, 300, 1e-9) {
		t.Errorf("target projects to (%v,%v,%v), want center", sx, sy, ok)
	}
	if !approxEqual(depth, 15, 1e-9) {
		t.Errorf("depth = %v, want 15", depth)
	}

	focal := 300 / math.Tan(75*math.Pi/360)
	sx, sy, _, ok = cam.WorldToScreen(Vec3{X: 1, Y: 1})
	if !ok {
		t.Fatal("point in front of camera not projected")
	}
	if !approxEqual(sx, 400+focal/15, 1e-9) {
		t.Errorf("sx = %v, want %v (right of center)", sx, 400+focal/15)
	}
	if !approxEqual(sy, 300-focal/15, 1e-9) {
		t.Errorf("sy = %v, want %v (above center)", sy, 300-focal/15)
	}

	if _, _, _, ok := cam.WorldToScreen(Vec3{Z: 20}); ok {
		t.Error("point behind the camera should not project")
	}
	if _, _, _, ok := cam.WorldToScreen(Vec3{Z: -2000}); ok {
		t.Error("point past the far plane should not project")
	}
}

func TestCameraBasisOrthonormal(t *testing.T) {
	l := DefaultLayout()
	p := 0.37
	cam := newTestCamera(t, l, &p)
	cam.Advance(0, nil)
	right, up, fwd := cam.Basis()
	for name, v := range map[string]Vec3{"right": right, "up": up, "forward": fwd} {
		if !approxEqual(v.Len(), 1, 1e-9) {
			t.Errorf("%s length = %v, want 1", name, v.Len())
		}
	}
	if !approxEqual(right.Dot(up), 0, 1e-9) || !approxEqual(right.Dot(fwd), 0, 1e-9) || !approxEqual(up.Dot(fwd), 0, 1e-9) {
		t.Error("basis is not orthogonal")
	}
}

func TestCameraDegenerateBasis(t *testing.T) {
	tests := []struct {
		name   string
		offset Vec3
		fwd    Vec3
	}{
		{"eye on target", Vec3{}, Vec3{0, 0, -1}},
		{"looking straight down", Vec3{Y: 10}, Vec3{0, -1, 0}},
		{"looking straight up", Vec3{Y: -10}, Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := lineLayout(2, 1)
			for i := range l.Clusters {
				l.Clusters[i].CameraOffset = tt.offset
			}
			p := 0.0
			cam := newTestCamera(t, l, &p)
			cam.Advance(0, nil)
			right, up, fwd := cam.Basis()
			if !vecApprox(fwd, tt.fwd, 1e-12) {
				t.Errorf("forward = %v, want %v", fwd, tt.fwd)
			}
			if !right.IsFinite() || !up.IsFinite() {
				t.Fatalf("basis not finite: right=%v up=%v", right, up)
			}
			if !approxEqual(right.Len(), 1, 1e-9) || !approxEqual(up.Len(), 1, 1e-9) {
				t.Errorf("basis not unit: right=%v up=%v", right, up)
			}
			if sx, sy, _, ok := cam.WorldToScreen(Vec3{X: 100, Z: -5}); ok && (!isFinite(sx) || !isFinite(sy)) {
				t.Errorf("projection not finite: (%v, %v)", sx, sy)
			}
		})
	}
}

func TestCameraEvaluateDoesNotMutate(t *testing.T) {
	l := lineLayout(3, 10)
	p := 0.0
	cam := newTestCamera(t, l, &p)
	cam.Advance(0, nil)
	before := cam.State()
	_ = cam.Evaluate(0.9)
	if cam.State() != before {
		t.Error("Evaluate should not change the camera state")
	}
}
