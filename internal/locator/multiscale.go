package locator

import "github.com/taskpilot/droidtask/internal/constants"

// multiScaleMatch resamples tmpl across the configured scale sweep and
// returns the best-scoring result found at any scale, per §4.2 stage 2.
func multiScaleMatch(scene, tmpl *grayImage) matchResult {
	best := matchResult{score: -1}

	for scale := constants.MultiscaleMin; scale <= constants.MultiscaleMax+1e-9; scale += constants.MultiscaleStep {
		scaled := tmpl
		if scale != 1.0 {
			scaled = tmpl.resize(scale)
		}
		if scaled.width > scene.width || scaled.height > scene.height || scaled.width < 1 || scaled.height < 1 {
			continue
		}
		result := templateMatch(scene, scaled)
		if result.score > best.score {
			best = result
		}
	}
	return best
}
