package latentspace

import "math"

// AttentionConfig holds the scoring and coloring constants of the overlay.
type AttentionConfig struct {
	ActiveScore      float64 `yaml:"active_score"`
	IdleScore        float64 `yaml:"idle_score"`
	Oscillation      float64 `yaml:"oscillation"`
	OscillationSpeed float64 `yaml:"oscillation_speed"`
	// Threshold is the score above which an edge uses the Accent color.
	Threshold float64 `yaml:"threshold"`
	// TargetFade scales the target-side vertex color relative to the source side.
	TargetFade float64 `yaml:"target_fade"`
	Accent     Color   `yaml:"accent"`
	Base       Color   `yaml:"base"`
}

// DefaultAttentionConfig returns the default overlay constants.
func DefaultAttentionConfig() AttentionConfig {
	return AttentionConfig{
		ActiveScore:      0.8,
		IdleScore:        0.05,
		Oscillation:      0.1,
		OscillationSpeed: 2,
		Threshold:        0.5,
		TargetFade:       0.5,
		Accent:           ColorGold,
		Base:             ColorCyan,
	}
}

// AttentionEdge is a directed connector between two distinct clusters.
type AttentionEdge struct {
	Source, Target int
}

// AttentionOverlay keeps one edge per ordered pair of clusters and recolors
// them every frame so edges leaving the active cluster light up.
//
// Edge i owns Colors[6i:6i+3] (source vertex) and Colors[6i+3:6i+6]
// (target vertex). The edge set is fixed at construction.
type AttentionOverlay struct {
	Config AttentionConfig
	Edges  []AttentionEdge
	Scores []float64
	Colors []float32
	// bySource[s] is the index range of edges leaving cluster s.
	bySource []Span
}

// NewAttentionOverlay builds the N·(N−1) edges of a layout, grouped by source.
func NewAttentionOverlay(layout Layout, cfg AttentionConfig) *AttentionOverlay {
	n := layout.Len()
	count := 0
	if n > 1 {
		count = n * (n - 1)
	}
	o := &AttentionOverlay{
		Config:   cfg,
		Edges:    make([]AttentionEdge, 0, count),
		Scores:   make([]float64, count),
		Colors:   make([]float32, count*6),
		bySource: make([]Span, n),
	}
	for s := 0; s < n; s++ {
		start := len(o.Edges)
		for t := 0; t < n; t++ {
			if s != t {
				o.Edges = append(o.Edges, AttentionEdge{Source: s, Target: t})
			}
		}
		o.bySource[s] = Span{Start: start, End: len(o.Edges)}
	}
	return o
}

// Advance recolors every edge for the given time and active cluster. Without
// signals no cluster is active, as in IdleAnimator.Advance.
func (o *AttentionOverlay) Advance(time float64, signals *Signals) {
	active := -1
	if signals != nil {
		active = signals.ActiveCluster()
	}
	o.Update(time, active)
}

// Update recomputes scores and vertex colors. Scores are not clamped; the
// oscillation may push them slightly below 0 or above 1.
func (o *AttentionOverlay) Update(time float64, active int) {
	cfg := &o.Config
	for i, e := range o.Edges {
		score := o.baseScore(e.Source, active) + o.oscillation(time, e)
		o.Scores[i] = score

		col := cfg.Base
		if score > cfg.Threshold {
			col = cfg.Accent
		}
		src := col.Scale(score)
		dst := col.Scale(score * cfg.TargetFade)

		c := o.Colors[i*6 : i*6+6]
		c[0], c[1], c[2] = float32(src.R), float32(src.G), float32(src.B)
		c[3], c[4], c[5] = float32(dst.R), float32(dst.G), float32(dst.B)
	}
}

func (o *AttentionOverlay) baseScore(source, active int) float64 {
	if source == active {
		return o.Config.ActiveScore
	}
	return o.Config.IdleScore
}

func (o *AttentionOverlay) oscillation(time float64, e AttentionEdge) float64 {
	return math.Sin(o.Config.OscillationSpeed*time+float64(e.Source+e.Target)) * o.Config.Oscillation
}

// Outgoing returns the edges leaving cluster source and their index offset
// into Scores and Colors.
func (o *AttentionOverlay) Outgoing(source int) (edges []AttentionEdge, offset int) {
	if source < 0 || source >= len(o.bySource) {
		return nil, 0
	}
	s := o.bySource[source]
	return o.Edges[s.Start:s.End], s.Start
}

// OutgoingMean returns the mean current score of the edges leaving source.
func (o *AttentionOverlay) OutgoingMean(source int) float64 {
	edges, off := o.Outgoing(source)
	if len(edges) == 0 {
		return 0
	}
	sum := 0.0
	for i := range edges {
		sum += o.Scores[off+i]
	}
	return sum / float64(len(edges))
}
