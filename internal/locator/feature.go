package locator

import (
	"math"
	"sort"

	"github.com/taskpilot/droidtask/internal/constants"
)

// keypoint is a detected corner plus its local patch descriptor.
type keypoint struct {
	x, y       int
	descriptor []float64
}

const (
	patchRadius    = 4
	cornerWindow   = 3
	harrisK        = 0.04
	maxKeypoints   = 400
	ratioTestLimit = 0.75
	voteBucketSize = 4
)

// featureMatch locates tmpl within scene using corner keypoints, patch
// descriptors, a ratio test, and a translation-consensus vote in place of a
// full homography — a pragmatic stand-in for ORB+BFMatcher+RANSAC (see
// DESIGN.md) that still yields an inlier count to threshold against.
func featureMatch(scene, tmpl *grayImage) (matchResult, int) {
	sceneKP := detectKeypoints(scene)
	tmplKP := detectKeypoints(tmpl)
	if len(sceneKP) == 0 || len(tmplKP) == 0 {
		return matchResult{score: -1}, 0
	}

	type vote struct {
		dx, dy int
	}
	votes := make(map[vote][]int) // bucketed translation -> matched template keypoint indices

	for ti, t := range tmplKP {
		bestIdx, secondIdx := -1, -1
		bestDist, secondDist := math.MaxFloat64, math.MaxFloat64
		for si, s := range sceneKP {
			d := descriptorDistance(t.descriptor, s.descriptor)
			if d < bestDist {
				secondDist, secondIdx = bestDist, bestIdx
				bestDist, bestIdx = d, si
			} else if d < secondDist {
				secondDist, secondIdx = d, si
			}
		}
		if bestIdx == -1 {
			continue
		}
		if secondIdx != -1 && bestDist > ratioTestLimit*secondDist {
			continue // ambiguous match, fails Lowe's ratio test
		}

		dx := (sceneKP[bestIdx].x - t.x) / voteBucketSize
		dy := (sceneKP[bestIdx].y - t.y) / voteBucketSize
		key := vote{dx, dy}
		votes[key] = append(votes[key], ti)
	}

	var bestKey vote
	bestCount := 0
	for key, members := range votes {
		if len(members) > bestCount {
			bestCount = len(members)
			bestKey = key
		}
	}
	if bestCount == 0 {
		return matchResult{score: -1}, 0
	}

	centerX := tmpl.width / 2
	centerY := tmpl.height / 2
	matchX := centerX + bestKey.dx*voteBucketSize
	matchY := centerY + bestKey.dy*voteBucketSize

	confidence := float64(bestCount) / float64(len(tmplKP))
	return matchResult{x: matchX, y: matchY, score: confidence}, bestCount
}

// detectKeypoints finds local Harris corner-response maxima and attaches a
// normalized patch descriptor to each.
func detectKeypoints(img *grayImage) []keypoint {
	scores := harrisResponse(img)
	type scored struct {
		x, y  int
		score float64
	}
	var candidates []scored
	margin := patchRadius + cornerWindow
	for y := margin; y < img.height-margin; y++ {
		for x := margin; x < img.width-margin; x++ {
			s := scores[y*img.width+x]
			if s <= 0 {
				continue
			}
			if !isLocalMax(scores, img.width, img.height, x, y) {
				continue
			}
			candidates = append(candidates, scored{x, y, s})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if len(candidates) > maxKeypoints {
		candidates = candidates[:maxKeypoints]
	}

	keypoints := make([]keypoint, 0, len(candidates))
	for _, c := range candidates {
		keypoints = append(keypoints, keypoint{x: c.x, y: c.y, descriptor: patchDescriptor(img, c.x, c.y)})
	}
	return keypoints
}

// harrisResponse computes a Harris corner response at every pixel via
// Sobel gradients and a local second-moment matrix.
func harrisResponse(img *grayImage) []float64 {
	w, h := img.width, img.height
	gx := make([]float64, w*h)
	gy := make([]float64, w*h)

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx[y*w+x] = float64(img.at(x+1, y-1)+2*img.at(x+1, y)+img.at(x+1, y+1)) -
				float64(img.at(x-1, y-1)+2*img.at(x-1, y)+img.at(x-1, y+1))
			gy[y*w+x] = float64(img.at(x-1, y+1)+2*img.at(x, y+1)+img.at(x+1, y+1)) -
				float64(img.at(x-1, y-1)+2*img.at(x, y-1)+img.at(x+1, y-1))
		}
	}

	scores := make([]float64, w*h)
	for y := cornerWindow; y < h-cornerWindow; y++ {
		for x := cornerWindow; x < w-cornerWindow; x++ {
			var sxx, syy, sxy float64
			for wy := -cornerWindow; wy <= cornerWindow; wy++ {
				for wx := -cornerWindow; wx <= cornerWindow; wx++ {
					ix := gx[(y+wy)*w+(x+wx)]
					iy := gy[(y+wy)*w+(x+wx)]
					sxx += ix * ix
					syy += iy * iy
					sxy += ix * iy
				}
			}
			det := sxx*syy - sxy*sxy
			trace := sxx + syy
			scores[y*w+x] = det - harrisK*trace*trace
		}
	}
	return scores
}

func isLocalMax(scores []float64, w, h, x, y int) bool {
	v := scores[y*w+x]
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			if scores[ny*w+nx] > v {
				return false
			}
		}
	}
	return true
}

// patchDescriptor extracts a mean-centered patchRadius*2+1 square around
// (cx, cy) as the keypoint's descriptor, invariant to uniform brightness
// offsets between template and scene captures.
func patchDescriptor(img *grayImage, cx, cy int) []float64 {
	size := patchRadius*2 + 1
	patch := make([]float64, 0, size*size)
	var sum float64
	for y := -patchRadius; y <= patchRadius; y++ {
		for x := -patchRadius; x <= patchRadius; x++ {
			px, py := clamp(cx+x, 0, img.width-1), clamp(cy+y, 0, img.height-1)
			v := float64(img.at(px, py))
			patch = append(patch, v)
			sum += v
		}
	}
	mean := sum / float64(len(patch))
	for i := range patch {
		patch[i] -= mean
	}
	return patch
}

func descriptorDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// featureMatchAccepted reports whether an inlier count clears the
// configured minimum for a feature-point match to be trusted.
func featureMatchAccepted(inliers int) bool {
	return inliers >= constants.FeatureMatchMinInliers
}
