package domain

// ImageVariants is the resolved set of candidate image paths for a
// reference name: the main path followed by any _v2, _v3, … siblings, in
// that order. A missing reference resolves to a nil/empty slice, not an error.
type ImageVariants []string

// FuzzyCandidate records a rejected fuzzy-match candidate and its
// similarity score, kept for the asset store's debug trace.
type FuzzyCandidate struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}
