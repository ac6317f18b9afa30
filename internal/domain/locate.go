package domain

// LocateResult is the Hybrid Locator's output for one target: whether it
// was found, its center coordinates (pixels within the cropped screenshot
// that was searched; the executor adds the capture's top crop offset
// before issuing input), a confidence score, and which pipeline stage
// produced the result.
type LocateResult struct {
	Success    bool    `json:"success"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Confidence float64 `json:"confidence"`

	// Stage is one of template, multiscale, feature, small-model, remote-model.
	// Populated even on failure, recording the last stage attempted.
	Stage string `json:"stage"`
}

// LocateRequest describes one locate call: a screenshot plus candidate
// reference image paths for a single target. Multi-target calls build a
// map of target name to LocateRequest and fan them out concurrently.
type LocateRequest struct {
	// Screenshot is the raw, already-cropped image to search within.
	Screenshot []byte

	// Target is the logical target name; may carry the "dynamic:" prefix,
	// in which case CandidatePaths is ignored and stages 1-3 are skipped.
	Target string

	// CandidatePaths are the resolved reference image variants (main +
	// _v2, _v3, …) to match against, in order.
	CandidatePaths []string

	// Strategy forces opencv_only, ai_only, or opencv_first (default).
	Strategy string
}

// CropOffset is the vertical pixel offset (status bar + navigation bar)
// removed from a captured screenshot, needed to translate locate
// coordinates back into full-display coordinates.
type CropOffset struct {
	Top    int
	Bottom int
}
