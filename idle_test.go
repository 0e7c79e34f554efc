package latentspace

import (
	"math"
	"testing"
)

func newTestAnimator(t testing.TB) *IdleAnimator {
	t.Helper()
	opts := DefaultGenerateOptions()
	opts.Seed = 11
	pc, err := Generate(lineLayout(3, 200), opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return NewIdleAnimator(pc, DefaultIdleConfig())
}

func TestIdleAnimatorDeterministic(t *testing.T) {
	a := newTestAnimator(t)
	a.Animate(3.25, 1)
	first := append([]float32(nil), a.cloud.Positions...)

	a.Animate(7, 0) // move somewhere else in between
	a.Animate(3.25, 1)
	for i, v := range a.cloud.Positions {
		if v != first[i] {
			t.Fatalf("Positions[%d] = %v, want %v (same time and active)", i, v, first[i])
		}
	}
}

func TestIdleAnimatorBounded(t *testing.T) {
	a := newTestAnimator(t)
	bound := a.Config.MaxAmplitude() + 1e-5
	for _, tm := range []float64{0, 0.5, 1.7, 12.3, 1000} {
		for active := -1; active < 3; active++ {
			a.Animate(tm, active)
			for i := range a.cloud.Positions {
				d := math.Abs(float64(a.cloud.Positions[i] - a.cloud.BasePositions[i]))
				if d > bound {
					t.Fatalf("t=%v active=%d: displacement %v exceeds %v", tm, active, d, bound)
				}
			}
		}
	}
}

func TestIdleAnimatorActiveClusterMovesMore(t *testing.T) {
	a := newTestAnimator(t)
	a.Config.ActiveAmplitudeScale = 3
	// Sum of |displacement| per cluster at a time where every axis moves.
	displacement := func(active int) []float64 {
		a.Animate(1.1, active)
		sums := make([]float64, len(a.cloud.Spans))
		for c, s := range a.cloud.Spans {
			for i := s.Start * 3; i < s.End*3; i++ {
				sums[c] += math.Abs(float64(a.cloud.Positions[i] - a.cloud.BasePositions[i]))
			}
		}
		return sums
	}
	idle := displacement(-1)
	active := displacement(1)
	if !approxEqual(active[1], 3*idle[1], idle[1]*1e-3) {
		t.Errorf("active cluster displacement = %v, want 3x %v", active[1], idle[1])
	}
	if !approxEqual(active[0], idle[0], 1e-9) {
		t.Errorf("inactive cluster displacement changed: %v vs %v", active[0], idle[0])
	}
}

func TestIdleAnimatorAxes(t *testing.T) {
	pc := &PointCloud{
		Positions:     make([]float32, 3),
		Colors:        make([]float32, 3),
		BasePositions: []float32{1, 2, 3},
		Phases:        []float32{0},
		Spans:         []Span{{0, 1}},
	}
	a := NewIdleAnimator(pc, DefaultIdleConfig())
	a.Animate(0, -1)
	// sin(0) = 0 on X and Z, cos(0) = 1 on Y.
	if pc.Positions[0] != 1 || pc.Positions[2] != 3 {
		t.Errorf("X/Z at t=0 = %v, %v; want base", pc.Positions[0], pc.Positions[2])
	}
	if !approxEqual(float64(pc.Positions[1]), 2.1, 1e-6) {
		t.Errorf("Y at t=0 = %v, want 2.1", pc.Positions[1])
	}
}

func TestIdleAnimatorAdvanceUsesSignals(t *testing.T) {
	a := newTestAnimator(t)
	s := NewSignals(lineLayout(3, 1))
	s.publish(2, 0)
	a.Advance(4, s)
	want := append([]float32(nil), a.cloud.Positions...)
	a.Animate(4, 2)
	for i := range want {
		if a.cloud.Positions[i] != want[i] {
			t.Fatal("Advance should animate with the published active cluster")
		}
	}
	a.Advance(4, nil) // no signals: no emphasis, no panic
}

func TestIdleAnimatorNoAllocs(t *testing.T) {
	a := newTestAnimator(t)
	tm := 0.0
	allocs := testing.AllocsPerRun(100, func() {
		tm += 1.0 / 60
		a.Animate(tm, 1)
	})
	if allocs != 0 {
		t.Errorf("Animate allocated %v times per run, want 0", allocs)
	}
}

func TestIdleMaxAmplitude(t *testing.T) {
	cfg := IdleConfig{Amplitude: 0.1, ActiveAmplitudeScale: 1.5}
	if !approxEqual(cfg.MaxAmplitude(), 0.15, epsilon) {
		t.Errorf("MaxAmplitude = %v, want 0.15", cfg.MaxAmplitude())
	}
	cfg.ActiveAmplitudeScale = 0.5
	if !approxEqual(cfg.MaxAmplitude(), 0.1, epsilon) {
		t.Errorf("MaxAmplitude = %v, want 0.1", cfg.MaxAmplitude())
	}
}

func BenchmarkIdleAnimator_20000Points(b *testing.B) {
	opts := DefaultGenerateOptions()
	opts.Seed = 1
	pc, err := Generate(DefaultLayout(), opts)
	if err != nil {
		b.Fatal(err)
	}
	a := NewIdleAnimator(pc, DefaultIdleConfig())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		a.Animate(float64(i)/60, i%6)
	}
}

func BenchmarkGenerate_DefaultLayout(b *testing.B) {
	opts := DefaultGenerateOptions()
	opts.Seed = 1
	l := DefaultLayout()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Generate(l, opts); err != nil {
			b.Fatal(err)
		}
	}
}
