package latentspace

import "math"

// IdleConfig holds the breathing motion constants.
type IdleConfig struct {
	// Amplitude is the per-axis displacement bound around the base position.
	Amplitude float64 `yaml:"amplitude"`
	// Frequency holds the angular speed per axis (sine on X and Z, cosine on Y).
	Frequency Vec3 `yaml:"frequency"`
	// ActiveAmplitudeScale and ActiveFrequencyScale multiply the constants
	// for points of the active cluster.
	ActiveAmplitudeScale float64 `yaml:"active_amplitude_scale"`
	ActiveFrequencyScale float64 `yaml:"active_frequency_scale"`
}

// DefaultIdleConfig returns the default breathing constants
// with a mild emphasis on the active cluster.
func DefaultIdleConfig() IdleConfig {
	return IdleConfig{
		Amplitude:            0.1,
		Frequency:            Vec3{0.5, 0.4, 0.6},
		ActiveAmplitudeScale: 1.5,
		ActiveFrequencyScale: 1,
	}
}

// MaxAmplitude returns the largest per-axis displacement any point can reach.
func (c IdleConfig) MaxAmplitude() float64 {
	return math.Abs(c.Amplitude) * math.Max(1, math.Abs(c.ActiveAmplitudeScale))
}

// IdleAnimator perturbs every point around its base position each frame.
// It is the only writer of PointCloud.Positions.
type IdleAnimator struct {
	Config IdleConfig
	cloud  *PointCloud
}

// NewIdleAnimator creates an animator for the given cloud.
func NewIdleAnimator(cloud *PointCloud, cfg IdleConfig) *IdleAnimator {
	return &IdleAnimator{Config: cfg, cloud: cloud}
}

// Advance animates the cloud at the given time, emphasizing the active cluster.
func (a *IdleAnimator) Advance(time float64, signals *Signals) {
	active := -1
	if signals != nil {
		active = signals.ActiveCluster()
	}
	a.Animate(time, active)
}

// Animate writes Positions as a pure function of BasePositions, Phases and
// time. Pass active = -1 to animate every cluster with the idle constants.
// Runs in O(points) without allocating.
func (a *IdleAnimator) Animate(time float64, active int) {
	pc := a.cloud
	if pc == nil {
		return
	}
	cfg := &a.Config
	for c, span := range pc.Spans {
		amp := cfg.Amplitude
		fx, fy, fz := cfg.Frequency.X, cfg.Frequency.Y, cfg.Frequency.Z
		if c == active {
			amp *= cfg.ActiveAmplitudeScale
			fx *= cfg.ActiveFrequencyScale
			fy *= cfg.ActiveFrequencyScale
			fz *= cfg.ActiveFrequencyScale
		}
		tx, ty, tz := fx*time, fy*time, fz*time

		pos := pc.Positions[span.Start*3 : span.End*3]
		base := pc.BasePositions[span.Start*3 : span.End*3]
		phases := pc.Phases[span.Start:span.End]
		for i, ph := range phases {
			phase := float64(ph)
			i3 := i * 3
			pos[i3] = float32(float64(base[i3]) + amp*math.Sin(tx+phase))
			pos[i3+1] = float32(float64(base[i3+1]) + amp*math.Cos(ty+phase))
			pos[i3+2] = float32(float64(base[i3+2]) + amp*math.Sin(tz+phase))
		}
	}
}
