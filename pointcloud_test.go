package latentspace

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func generateSeeded(t *testing.T, layout Layout, seed uint64) *PointCloud {
	t.Helper()
	opts := DefaultGenerateOptions()
	opts.Seed = seed
	pc, err := Generate(layout, opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return pc
}

func TestGenerateCounts(t *testing.T) {
	l := DefaultLayout()
	pc := generateSeeded(t, l, 1)
	if pc.Len() != l.TotalPoints() {
		t.Fatalf("Len = %d, want %d", pc.Len(), l.TotalPoints())
	}
	n := l.TotalPoints()
	if len(pc.Positions) != 3*n || len(pc.Colors) != 3*n || len(pc.BasePositions) != 3*n {
		t.Errorf("array lengths = %d/%d/%d, want %d", len(pc.Positions), len(pc.Colors), len(pc.BasePositions), 3*n)
	}
	if len(pc.Spans) != l.Len() {
		t.Fatalf("spans = %d, want %d", len(pc.Spans), l.Len())
	}
	start := 0
	for c, s := range pc.Spans {
		if s.Start != start || s.Len() != l.Clusters[c].Size {
			t.Errorf("span %d = %+v, want start %d len %d", c, s, start, l.Clusters[c].Size)
		}
		start = s.End
	}
}

func TestGeneratePositionsStartAtBase(t *testing.T) {
	pc := generateSeeded(t, lineLayout(3, 100), 2)
	for i := range pc.Positions {
		if pc.Positions[i] != pc.BasePositions[i] {
			t.Fatalf("Positions[%d] = %v, want base %v", i, pc.Positions[i], pc.BasePositions[i])
		}
	}
}

func TestGenerateShellRadiusBand(t *testing.T) {
	l := DefaultLayout()
	pc := generateSeeded(t, l, 3)
	const tol = 1e-3
	for c, s := range pc.Spans {
		center := l.Clusters[c].Center
		for i := s.Start; i < s.End; i++ {
			d := pc.BasePosition(i).Sub(center).Len()
			if d < 2-tol || d > 10+tol {
				t.Fatalf("cluster %d point %d at distance %v, want [2, 10]", c, i, d)
			}
		}
	}
}

func TestGenerateNebulaStaysInBand(t *testing.T) {
	l := lineLayout(2, 2000)
	l.Clusters[0].Shape = ShapeNebula
	pc := generateSeeded(t, l, 4)
	s := pc.Spans[0]
	for i := s.Start; i < s.End; i++ {
		d := pc.BasePosition(i).Len()
		if d < 2-1e-4 || d > 10+1e-4 {
			t.Fatalf("nebula point %d at distance %v, want [2, 10]", i, d)
		}
	}
}

func TestGenerateAllShapesFinite(t *testing.T) {
	for s := ShapeShell; s < shapeCount; s++ {
		t.Run(s.String(), func(t *testing.T) {
			l := lineLayout(2, 500)
			l.Clusters[0].Shape = s
			pc := generateSeeded(t, l, 5)
			for i := 0; i < pc.Len(); i++ {
				if !pc.BasePosition(i).IsFinite() {
					t.Fatalf("point %d not finite", i)
				}
			}
		})
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	a := generateSeeded(t, lineLayout(3, 200), 42)
	b := generateSeeded(t, lineLayout(3, 200), 42)
	for i := range a.BasePositions {
		if a.BasePositions[i] != b.BasePositions[i] || a.Colors[i] != b.Colors[i] {
			t.Fatalf("seeded clouds differ at %d", i)
		}
	}
	for i := range a.Phases {
		if a.Phases[i] != b.Phases[i] {
			t.Fatalf("seeded phases differ at %d", i)
		}
	}
	c := generateSeeded(t, lineLayout(3, 200), 43)
	if c.BasePositions[0] == a.BasePositions[0] && c.BasePositions[1] == a.BasePositions[1] {
		t.Error("different seeds should produce different clouds")
	}
}

func TestGenerateRandOverridesSeed(t *testing.T) {
	opts := DefaultGenerateOptions()
	opts.Seed = 1
	opts.Rand = rand.New(rand.NewPCG(9, 9))
	a, err := Generate(lineLayout(2, 50), opts)
	if err != nil {
		t.Fatal(err)
	}
	opts.Seed = 2
	opts.Rand = rand.New(rand.NewPCG(9, 9))
	b, err := Generate(lineLayout(2, 50), opts)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.BasePositions {
		if a.BasePositions[i] != b.BasePositions[i] {
			t.Fatal("Rand should take precedence over Seed")
		}
	}
}

func TestGeneratePhasesInRange(t *testing.T) {
	pc := generateSeeded(t, DefaultLayout(), 6)
	for i, p := range pc.Phases {
		if p < 0 || float64(p) >= 2*math.Pi {
			t.Fatalf("phase %d = %v, want [0, 2π)", i, p)
		}
	}
}

func TestGenerateColors(t *testing.T) {
	// Cyan has R = 0 and gold has R = 1, so for even clusters the red
	// channel equals the accent blend weight.
	l := lineLayout(2, 4000)
	pc := generateSeeded(t, l, 7)
	s := pc.Spans[0]
	strong := 0
	for i := s.Start; i < s.End; i++ {
		r := float64(pc.Colors[i*3])
		if r < 0 || r > 0.8+1e-6 {
			t.Fatalf("point %d red = %v, want [0, 0.8]", i, r)
		}
		if r > 0.3+1e-6 {
			strong++
		}
	}
	frac := float64(strong) / float64(s.Len())
	if frac < 0.07 || frac > 0.13 {
		t.Errorf("accent fraction = %v, want about 0.1", frac)
	}

	// Odd clusters start from indigo: blue stays high, green stays below gold's.
	odd := pc.Spans[1]
	for i := odd.Start; i < odd.End; i++ {
		if b := pc.Colors[i*3+2]; b < 0.2-1e-6 {
			t.Fatalf("odd cluster point %d blue = %v, want >= 0.2", i, b)
		}
	}
}

func TestGenerateInvalidLayout(t *testing.T) {
	_, err := Generate(Layout{}, DefaultGenerateOptions())
	if !errors.Is(err, ErrTooFewClusters) {
		t.Errorf("err = %v, want ErrTooFewClusters", err)
	}
}

func TestPointCloudClusterOf(t *testing.T) {
	l := lineLayout(3, 10)
	l.Clusters[1].Size = 5
	pc := generateSeeded(t, l, 8)
	tests := []struct{ i, want int }{
		{0, 0}, {9, 0}, {10, 1}, {14, 1}, {15, 2}, {24, 2}, {25, -1}, {-1, -1},
	}
	for _, tt := range tests {
		if got := pc.ClusterOf(tt.i); got != tt.want {
			t.Errorf("ClusterOf(%d) = %d, want %d", tt.i, got, tt.want)
		}
	}
}
