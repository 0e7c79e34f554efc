package latentspace

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/aquilax/go-perlin"
)

// GenerateOptions controls how the point cloud is sampled and colored.
type GenerateOptions struct {
	// InnerRadius and OuterRadius bound the spherical band shell-shaped
	// clusters are sampled from.
	InnerRadius float64 `yaml:"inner_radius"`
	OuterRadius float64 `yaml:"outer_radius"`
	// BaseHues alternate by cluster parity: even clusters use BaseHues[0].
	BaseHues [2]Color `yaml:"base_hues"`
	// Accent is the hue every point is tinted toward.
	Accent Color `yaml:"accent"`
	// TintMax is the upper bound of the subtle accent blend weight.
	TintMax float64 `yaml:"tint_max"`
	// AccentChance is the fraction of points that get the strong blend.
	AccentChance float64 `yaml:"accent_chance"`
	// AccentWeight is the blend weight of strongly accented points.
	AccentWeight float64 `yaml:"accent_weight"`
	// Seed makes generation reproducible. Zero picks a random seed.
	Seed uint64 `yaml:"seed"`
	// Rand overrides Seed when set.
	Rand *rand.Rand `yaml:"-"`
}

// DefaultGenerateOptions returns the default generation settings.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		InnerRadius:  2,
		OuterRadius:  10,
		BaseHues:     [2]Color{ColorCyan, ColorIndigo},
		Accent:       ColorGold,
		TintMax:      0.3,
		AccentChance: 0.1,
		AccentWeight: 0.8,
	}
}

func (o GenerateOptions) rng() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	seed := o.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Span is the half-open index range [Start, End) of one cluster's points.
type Span struct {
	Start, End int
}

// Len returns the number of points in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// PointCloud is the flat point population for every cluster. Point i owns
// Positions[3i:3i+3], Colors[3i:3i+3], BasePositions[3i:3i+3] and Phases[i].
//
// Indices are stable for the lifetime of the cloud returned by a single
// Generate call; the arrays are never resized.
type PointCloud struct {
	Positions     []float32
	Colors        []float32
	BasePositions []float32
	Phases        []float32
	// Spans[c] is the index range of cluster c.
	Spans []Span
}

// Len returns the number of points.
func (pc *PointCloud) Len() int {
	return len(pc.Phases)
}

// ClusterOf returns the index of the cluster point i belongs to, or -1 if i
// is out of range.
func (pc *PointCloud) ClusterOf(i int) int {
	if i < 0 || i >= pc.Len() {
		return -1
	}
	return sort.Search(len(pc.Spans), func(c int) bool { return pc.Spans[c].End > i })
}

// BasePosition returns the rest position of point i.
func (pc *PointCloud) BasePosition(i int) Vec3 {
	b := pc.BasePositions[i*3 : i*3+3]
	return Vec3{float64(b[0]), float64(b[1]), float64(b[2])}
}

// Position returns the current position of point i.
func (pc *PointCloud) Position(i int) Vec3 {
	p := pc.Positions[i*3 : i*3+3]
	return Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
}

// Generate samples every cluster of the layout into a single PointCloud.
// Positions start equal to BasePositions.
func Generate(layout Layout, opts GenerateOptions) (*PointCloud, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if opts.OuterRadius < opts.InnerRadius {
		opts.InnerRadius, opts.OuterRadius = opts.OuterRadius, opts.InnerRadius
	}

	total := layout.TotalPoints()
	pc := &PointCloud{
		Positions:     make([]float32, total*3),
		Colors:        make([]float32, total*3),
		BasePositions: make([]float32, total*3),
		Phases:        make([]float32, total),
		Spans:         make([]Span, len(layout.Clusters)),
	}

	g := sampler{opts: opts, rng: opts.rng()}
	idx := 0
	for c, cl := range layout.Clusters {
		pc.Spans[c] = Span{Start: idx, End: idx + cl.Size}
		base := opts.BaseHues[c%2]
		if cl.Shape == ShapeNebula {
			g.noise = perlin.NewPerlin(2, 2, 3, g.rng.Int64())
		}
		for i := 0; i < cl.Size; i++ {
			p := cl.Center.Add(g.sample(cl.Shape))
			i3 := idx * 3
			pc.BasePositions[i3] = float32(p.X)
			pc.BasePositions[i3+1] = float32(p.Y)
			pc.BasePositions[i3+2] = float32(p.Z)

			col := g.color(base)
			pc.Colors[i3] = float32(col.R)
			pc.Colors[i3+1] = float32(col.G)
			pc.Colors[i3+2] = float32(col.B)

			pc.Phases[idx] = g.phase()
			idx++
		}
	}
	copy(pc.Positions, pc.BasePositions)
	return pc, nil
}

// sampler draws per-point values from a single random source.
type sampler struct {
	opts  GenerateOptions
	rng   *rand.Rand
	noise *perlin.Perlin
}

// direction returns a unit vector with uniform solid-angle distribution.
// The polar angle comes from acos of a uniform variable to avoid pole clustering.
func (g *sampler) direction() Vec3 {
	theta := g.rng.Float64() * 2 * math.Pi
	phi := math.Acos(2*g.rng.Float64() - 1)
	sinPhi := math.Sin(phi)
	return Vec3{sinPhi * math.Cos(theta), sinPhi * math.Sin(theta), math.Cos(phi)}
}

func (g *sampler) centered(extent float64) float64 {
	return (g.rng.Float64() - 0.5) * extent
}

// sample returns a point offset relative to the cluster center.
func (g *sampler) sample(shape ClusterShape) Vec3 {
	inner, outer := g.opts.InnerRadius, g.opts.OuterRadius
	switch shape {
	case ShapeLayers:
		const layers = 5
		layer := float64(g.rng.IntN(layers))
		x := (layer-layers/2.0)*5 + g.centered(2)
		y := g.centered(15)
		z := g.centered(15)
		if g.rng.Float64() > 0.3 {
			y = math.Floor(y/4)*4 + g.centered(1.5)
			z = math.Floor(z/4)*4 + g.centered(1.5)
		}
		return Vec3{x, y, z}
	case ShapeBlock:
		return Vec3{g.centered(20), g.centered(10), g.centered(8)}
	case ShapeIslands:
		islands := [3]Vec3{{-8, 0, -4}, {8, 4, 2}, {0, -6, 6}}
		c := islands[g.rng.IntN(len(islands))]
		r := g.rng.Float64() * 5
		return c.Add(g.direction().Scale(r))
	case ShapeRings:
		radii := [3]float64{4, 8, 12}
		r := radii[g.rng.IntN(len(radii))] + g.centered(1.5)
		theta := g.rng.Float64() * 2 * math.Pi
		return Vec3{r * math.Cos(theta), g.centered(1.5), r * math.Sin(theta)}
	case ShapeSingularity:
		theta := g.rng.Float64() * 10 * math.Pi
		u := g.rng.Float64()
		r := u * u * 10
		arm := math.Sin(theta*2) * 0.5
		return Vec3{(r + arm) * math.Cos(theta), g.centered(10 - r), (r + arm) * math.Sin(theta)}
	case ShapeNebula:
		dir := g.direction()
		n := 0.0
		if g.noise != nil {
			n = g.noise.Noise3D(dir.X*1.5, dir.Y*1.5, dir.Z*1.5)
		}
		w := clamp01(0.5 + n + g.centered(0.3))
		return dir.Scale(inner + (outer-inner)*w)
	default:
		r := inner + g.rng.Float64()*(outer-inner)
		return g.direction().Scale(r)
	}
}

// color blends base toward the accent: a subtle tint for most points and a
// strong blend for roughly AccentChance of them.
func (g *sampler) color(base Color) Color {
	w := g.rng.Float64() * g.opts.TintMax
	if g.rng.Float64() < g.opts.AccentChance {
		w = g.opts.AccentWeight
	}
	return base.Lerp(g.opts.Accent, w)
}

// phase returns a uniform offset in [0, 2π).
func (g *sampler) phase() float32 {
	p := float32(g.rng.Float64() * 2 * math.Pi)
	if p >= 2*math.Pi {
		return 0
	}
	return p
}
