package registry

import (
	"regexp"
	"strings"

	"github.com/taskpilot/droidtask/internal/constants"
)

// score computes a handler's match strength against an utterance, per
// §4.4: template score (0.5), keyword score (up to 0.4, 0.1/hit + 0.2
// exact-match bonus), package score (0.1).
func (h *handlerEntry) score(utterance string) float64 {
	var total float64

	if h.matchesAnyTemplate(utterance) {
		total += constants.RoutingTemplateWeight
	}

	total += h.keywordScore(utterance)

	if h.info.PackageID != "" && strings.Contains(utterance, h.info.PackageID) {
		total += constants.RoutingPackageWeight
	}

	return total
}

func (h *handlerEntry) matchesAnyTemplate(utterance string) bool {
	for _, re := range h.templatePatterns {
		if re.MatchString(utterance) {
			return true
		}
	}
	return false
}

// keywordScore awards constants.RoutingKeywordHit per matched keyword, plus
// constants.RoutingKeywordExact when the utterance contains the keyword as
// a whole-word (not just substring) match, capped at RoutingKeywordWeight.
func (h *handlerEntry) keywordScore(utterance string) float64 {
	lower := strings.ToLower(utterance)
	var score float64
	for _, kw := range h.info.Keywords {
		kwLower := strings.ToLower(kw)
		if !strings.Contains(lower, kwLower) {
			continue
		}
		score += constants.RoutingKeywordHit
		if isWholeWordMatch(lower, kwLower) {
			score += constants.RoutingKeywordExact
		}
	}
	if score > constants.RoutingKeywordWeight {
		score = constants.RoutingKeywordWeight
	}
	return score
}

var wordBoundaryPattern = regexp.MustCompile(`[a-z0-9_]+`)

func isWholeWordMatch(lowerUtterance, lowerKeyword string) bool {
	for _, word := range wordBoundaryPattern.FindAllString(lowerUtterance, -1) {
		if word == lowerKeyword {
			return true
		}
	}
	return false
}
