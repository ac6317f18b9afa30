package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThresholdOrdering(t *testing.T) {
	assert.Less(t, MultiscaleMatchThreshold, TemplateMatchThreshold,
		"multiscale threshold must be slightly below the plain template threshold")
	assert.Less(t, MultiscaleMin, MultiscaleMax)
}

func TestRoutingWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, RoutingTemplateWeight+RoutingKeywordWeight+RoutingPackageWeight, 1e-9)
}

func TestKeywordScoreCapping(t *testing.T) {
	// four hits at 0.1 each already reaches the 0.4 cap
	assert.GreaterOrEqual(t, RoutingKeywordHit*4, RoutingKeywordWeight)
}

func TestDynamicTargetPrefix(t *testing.T) {
	assert.True(t, len(DynamicTargetPrefix) > 0 && DynamicTargetPrefix[len(DynamicTargetPrefix)-1] == ':')
}
