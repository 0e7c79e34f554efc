package latentspace

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action   string  `json:"action"`
	Label    string  `json:"label,omitempty"`
	Progress float64 `json:"progress,omitempty"`
	Cluster  *int    `json:"cluster,omitempty"`
	Frames   int     `json:"frames,omitempty"`
	// Raw also captures the frame before post-processing.
	Raw bool `json:"raw,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected scroll values and screenshots across frames
// for automated visual testing. Attach to an Engine via SetTestRunner.
//
// Supported actions:
//
//	{"action": "scroll", "progress": 0.5, "frames": 30}  ramp the target over frames
//	{"action": "scroll", "cluster": 2}                   ramp to a cluster's progress
//	{"action": "jump", "progress": 1}                    skip damping
//	{"action": "wait", "frames": 60}
//	{"action": "screenshot", "label": "warp-peak"}
//	{"action": "screenshot", "label": "warp-peak", "raw": true}  also save the pre-post frame
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to an Engine via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "scroll", "jump", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame. Called from Engine.Update.
func (r *TestRunner) step(e *Engine) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(e.injectQueue) > 0 {
		return
	}
	// Count down wait frames.
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		if st.Raw {
			e.ScreenshotRaw(st.Label)
		} else {
			e.Screenshot(st.Label)
		}
	case "scroll":
		to := st.Progress
		if st.Cluster != nil {
			to = e.Scroll.ProgressOf(*st.Cluster)
		}
		e.InjectScrollRamp(to, st.Frames)
	case "jump":
		to := st.Progress
		if st.Cluster != nil {
			to = e.Scroll.ProgressOf(*st.Cluster)
		}
		e.Scroll.Jump(to)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	// Check if we've reached the end after executing.
	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(e.injectQueue) == 0 {
		r.done = true
	}
}
