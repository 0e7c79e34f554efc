package latentspace

import (
	"fmt"
	"os"
	"time"
)

// frameStats holds per-frame timing and draw counts.
// Only populated when Engine.debug is true.
type frameStats struct {
	drawTime time.Duration
	postTime time.Duration
	render   renderStats
}

// debugLog prints draw timing and counts to stderr.
func (e *Engine) debugLog(stats frameStats) {
	if !e.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[latentspace] draw: %v | post: %v | total: %v\n",
		stats.drawTime, stats.postTime, stats.drawTime+stats.postTime)
	_, _ = fmt.Fprintf(os.Stderr,
		"[latentspace] points: %d/%d | edges: %d/%d | vertices: %d\n",
		stats.render.points, e.cloud.Len(), stats.render.edges, len(e.Overlay.Edges), stats.render.vertices)
}

// debugLogUpdate prints the cost of one Update along with the scroll state.
func (e *Engine) debugLogUpdate(elapsed time.Duration) {
	if !e.debug {
		return
	}
	st := e.Camera.State()
	_, _ = fmt.Fprintf(os.Stderr,
		"[latentspace] update: %v | progress: %.4f -> %.4f | segment: %d t: %.3f | active: %d (%s) | warp: %.3f\n",
		elapsed, e.Scroll.Progress(), e.Scroll.Target(), st.Segment, st.T,
		e.signals.ActiveCluster(), e.signals.ActiveLabel(), e.signals.WarpIntensity())
}

// debugLogClusterChange reports an active-cluster transition.
func debugLogClusterChange(change ClusterChange) {
	_, _ = fmt.Fprintf(os.Stderr, "[latentspace] active cluster %d -> %d (%s)\n",
		change.Previous, change.Current, change.Label)
}
