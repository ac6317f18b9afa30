package locator

import "math"

// matchResult is one candidate location with its normalized response score.
type matchResult struct {
	x, y  int
	score float64
}

// templateMatch slides tmpl over scene and returns the best-scoring
// position using zero-normalized cross-correlation, the same scoring shape
// as cv2.TM_CCOEFF_NORMED: 1.0 is a perfect match, values near 0 or negative
// are unrelated patches.
func templateMatch(scene, tmpl *grayImage) matchResult {
	best := matchResult{score: -1}
	if tmpl.width > scene.width || tmpl.height > scene.height {
		return best
	}

	tmplMean := mean(tmpl.pix)

	for oy := 0; oy <= scene.height-tmpl.height; oy++ {
		for ox := 0; ox <= scene.width-tmpl.width; ox++ {
			score := ccoeffNormed(scene, tmpl, ox, oy, tmplMean)
			if score > best.score {
				best = matchResult{x: ox + tmpl.width/2, y: oy + tmpl.height/2, score: score}
			}
		}
	}
	return best
}

// ccoeffNormed computes normalized cross-correlation between tmpl and the
// scene window starting at (ox, oy), pre-centering the template mean.
func ccoeffNormed(scene, tmpl *grayImage, ox, oy int, tmplMean float64) float64 {
	windowMean := windowMean(scene, ox, oy, tmpl.width, tmpl.height)

	var num, sceneSq, tmplSq float64
	for ty := 0; ty < tmpl.height; ty++ {
		for tx := 0; tx < tmpl.width; tx++ {
			sv := float64(scene.at(ox+tx, oy+ty)) - windowMean
			tv := float64(tmpl.at(tx, ty)) - tmplMean
			num += sv * tv
			sceneSq += sv * sv
			tmplSq += tv * tv
		}
	}

	denom := math.Sqrt(sceneSq * tmplSq)
	if denom == 0 {
		return 0
	}
	return num / denom
}

func windowMean(scene *grayImage, ox, oy, w, h int) float64 {
	var sum float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum += float64(scene.at(ox+x, oy+y))
		}
	}
	return sum / float64(w*h)
}

func mean(pix []byte) float64 {
	var sum float64
	for _, p := range pix {
		sum += float64(p)
	}
	return sum / float64(len(pix))
}
