package latentspace

// ClusterChange describes a transition of the active cluster.
type ClusterChange struct {
	Previous int
	Current  int
	Label    string
}

// EntityStore is the interface for optional ECS integration.
// When set on an Engine, active-cluster changes are forwarded to it.
type EntityStore interface {
	EmitClusterChange(change ClusterChange)
}

type clusterListener struct {
	fn      func(ClusterChange)
	removed bool
}

// Signals is the per-frame state shared between the camera and its
// consumers: the active cluster index and the warp intensity. Only the
// camera writes it; everyone else reads or subscribes.
type Signals struct {
	active    int
	warp      float64
	labels    []string
	listeners []*clusterListener
	// notifying is the reusable buffer for the dispatch snapshot.
	notifying []*clusterListener
}

// NewSignals creates a signal store for a layout. The active cluster starts at 0.
func NewSignals(layout Layout) *Signals {
	labels := make([]string, len(layout.Clusters))
	for i, c := range layout.Clusters {
		labels[i] = c.Label
	}
	return &Signals{labels: labels}
}

// ActiveCluster returns the index of the cluster currently in focus.
func (s *Signals) ActiveCluster() int {
	return s.active
}

// ActiveLabel returns the label of the cluster currently in focus.
func (s *Signals) ActiveLabel() string {
	if s.active < 0 || s.active >= len(s.labels) {
		return ""
	}
	return s.labels[s.active]
}

// WarpIntensity returns the transition turbulence in [0, 1].
func (s *Signals) WarpIntensity() float64 {
	return s.warp
}

// OnClusterChange registers fn to be called whenever the active cluster
// changes. Listeners run in registration order. The returned function
// removes the listener; a listener removed during a notification is not
// called for the rest of it, and one added during a notification first
// hears the next change.
func (s *Signals) OnClusterChange(fn func(ClusterChange)) (cancel func()) {
	l := &clusterListener{fn: fn}
	s.listeners = append(s.listeners, l)
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		for i, other := range s.listeners {
			if other == l {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// publish stores this frame's values and notifies listeners if the active
// cluster changed.
func (s *Signals) publish(active int, warp float64) {
	s.warp = warp
	if active == s.active {
		return
	}
	change := ClusterChange{Previous: s.active, Current: active}
	s.active = active
	change.Label = s.ActiveLabel()
	// Dispatch from a snapshot so listeners may cancel during the call.
	snap := append(s.notifying[:0], s.listeners...)
	s.notifying = nil
	for _, l := range snap {
		if l.removed {
			continue
		}
		l.fn(change)
	}
	clear(snap)
	s.notifying = snap[:0]
}
