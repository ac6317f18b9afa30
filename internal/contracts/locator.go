package contracts

import (
	"context"

	"github.com/taskpilot/droidtask/internal/domain"
)

// Locator resolves target references to on-screen coordinates (C2). A
// single call runs a target's pipeline stages in order; LocateMany fans
// multiple independent targets out concurrently and joins on the map.
type Locator interface {
	Locate(ctx context.Context, req domain.LocateRequest) (domain.LocateResult, error)
	LocateMany(ctx context.Context, reqs map[string]domain.LocateRequest) (map[string]domain.LocateResult, error)
}

// AssetResolver is the Asset Store's read surface (C3): resolving a
// logical reference name to its image variants, independent of how the
// resolution was cached or aliased.
type AssetResolver interface {
	Resolve(name string) (domain.ImageVariants, error)
	List() ([]string, error)
}

// ModelRunner is the narrow shape of an opaque remote/small-model endpoint:
// a prompt in and a raw JSON-ish string out. The classifier, the locator's
// model stages and the executor's replanner call internal/ai's Runner
// directly; this interface is not their dependency.
type ModelRunner interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// VisionModelRunner is a ModelRunner specialization that also accepts
// image bytes, used by the locator's small/remote-model stages.
type VisionModelRunner interface {
	ModelRunner
	CompleteWithImages(ctx context.Context, systemPrompt, userPrompt string, images [][]byte) (string, error)
}
