package latentspace

// InjectScroll queues an absolute scroll target. One queued value is
// consumed per frame in place of real input, so scripted runs are
// reproducible regardless of the mouse.
func (e *Engine) InjectScroll(p float64) {
	e.injectQueue = append(e.injectQueue, clampProgress(p))
}

// InjectScrollRamp queues a linear scroll from the current target to `to`
// over the given number of frames. Minimum frames is 1.
func (e *Engine) InjectScrollRamp(to float64, frames int) {
	if frames < 1 {
		frames = 1
	}
	from := e.Scroll.Target()
	if n := len(e.injectQueue); n > 0 {
		from = e.injectQueue[n-1]
	}
	for i := 1; i <= frames; i++ {
		e.InjectScroll(lerp(from, to, float64(i)/float64(frames)))
	}
}

// PendingInjections returns the number of queued scroll values.
func (e *Engine) PendingInjections() int {
	return len(e.injectQueue)
}

// processInjectedScroll pops one queued value and sets it as the scroll
// target. Returns true if a value was consumed (real input should be skipped).
func (e *Engine) processInjectedScroll() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	p := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]
	e.Scroll.SetTarget(p)
	return true
}
