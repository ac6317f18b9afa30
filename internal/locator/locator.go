// Package locator implements the Hybrid Locator (C2): given a screenshot
// and either reference-image candidates or a free-text description, find a
// target's on-screen location through a strict-order, short-circuiting
// pipeline of increasingly expensive strategies.
package locator

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/taskpilot/droidtask/internal/ai"
	"github.com/taskpilot/droidtask/internal/config"
	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/contracts"
	"github.com/taskpilot/droidtask/internal/domain"
)

// Locator runs the template / multi-scale / feature-point / small-model /
// remote-model pipeline for single and multi-target locate requests.
type Locator struct {
	refs    *referenceCache
	results *resultCache

	// smallModel is the optional on-device vision tier; nil disables it.
	smallModel ai.Runner

	// remoteModel is the final, most expensive tier; nil disables it too,
	// collapsing ai_only/opencv_first to an opencv-only pipeline.
	remoteModel ai.Runner

	defaultStrategy string
	logger          zerolog.Logger
}

// New constructs a Locator. smallModel may be nil when no on-device vision
// model is configured; remoteModel may be nil in opencv-only deployments.
func New(cfg *config.LocatorConfig, smallModel, remoteModel ai.Runner, logger zerolog.Logger) *Locator {
	strategy := constants.LocatorStrategyOpenCVFirst
	if cfg != nil && cfg.Strategy != "" {
		strategy = cfg.Strategy
	}
	return &Locator{
		refs:            newReferenceCache(),
		results:         newResultCache(),
		smallModel:      smallModel,
		remoteModel:     remoteModel,
		defaultStrategy: strategy,
		logger:          logger,
	}
}

// Compile-time check that Locator implements contracts.Locator.
var _ contracts.Locator = (*Locator)(nil)

// Locate runs the pipeline for a single target, short-circuiting on the
// first stage to succeed. A memoized result is returned without
// re-running the pipeline when an identical call was made recently for the
// same screenshot/target/strategy (the per-step locate caching feature).
func (l *Locator) Locate(ctx context.Context, req domain.LocateRequest) (domain.LocateResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.LocateResult{}, err
	}

	key := resultCacheKey(req)
	if cached, ok := l.results.get(key); ok {
		return cached, nil
	}

	result := l.runPipeline(ctx, req)
	l.results.set(key, result)
	return result, nil
}

// LocateMany fans independent targets out concurrently; one target's
// failure never aborts the others.
func (l *Locator) LocateMany(ctx context.Context, reqs map[string]domain.LocateRequest) (map[string]domain.LocateResult, error) {
	results := make(map[string]domain.LocateResult, len(reqs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for name, req := range reqs {
		name, req := name, req
		g.Go(func() error {
			result, err := l.Locate(gctx, req)
			if err != nil {
				return err
			}
			mu.Lock()
			results[name] = result
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (l *Locator) runPipeline(ctx context.Context, req domain.LocateRequest) domain.LocateResult {
	strategy := req.Strategy
	if strategy == "" {
		strategy = l.defaultStrategy
	}
	dynamic := strings.HasPrefix(req.Target, constants.DynamicTargetPrefix)

	lastStage := constants.StageTemplate

	if strategy != constants.LocatorStrategyAIOnly && !dynamic {
		scene, err := decodeGray(req.Screenshot)
		if err != nil {
			l.logger.Debug().Err(err).Str("component", "locator").Msg("failed to decode screenshot")
		} else {
			if result, ok := l.tryOpenCV(scene, req.CandidatePaths); ok {
				return result
			}
		}
		lastStage = constants.StageFeature
	}

	if strategy == constants.LocatorStrategyOpenCVOnly {
		return domain.LocateResult{Success: false, Stage: lastStage}
	}

	width, height := screenshotDims(req.Screenshot)
	var referenceImage []byte
	if !dynamic && len(req.CandidatePaths) > 0 {
		referenceImage, _ = os.ReadFile(req.CandidatePaths[0]) //nolint:gosec // path resolved by the asset store from a fixed handler layout
	}
	hint := hintFromTarget(req.Target)

	if l.smallModel != nil {
		if m, ok := modelLocate(ctx, l.smallModel, referenceImage, req.Screenshot, hint, width, height); ok {
			return domain.LocateResult{Success: true, X: m.x, Y: m.y, Confidence: m.score, Stage: constants.StageSmallModel}
		}
		lastStage = constants.StageSmallModel
	}

	if l.remoteModel != nil {
		if m, ok := modelLocate(ctx, l.remoteModel, referenceImage, req.Screenshot, hint, width, height); ok {
			return domain.LocateResult{Success: true, X: m.x, Y: m.y, Confidence: m.score, Stage: constants.StageRemoteModel}
		}
		lastStage = constants.StageRemoteModel
	}

	return domain.LocateResult{Success: false, Stage: lastStage}
}

// tryOpenCV runs stages 1-3 (template, multi-scale, feature) across every
// candidate path, returning the first accepted match.
func (l *Locator) tryOpenCV(scene *grayImage, candidatePaths []string) (domain.LocateResult, bool) {
	var tmpls []*grayImage
	for _, path := range candidatePaths {
		tmpl, ok := l.loadReference(path)
		if !ok {
			continue
		}
		tmpls = append(tmpls, tmpl)
	}
	if len(tmpls) == 0 {
		return domain.LocateResult{}, false
	}

	for _, tmpl := range tmpls {
		if m := templateMatch(scene, tmpl); m.score >= constants.TemplateMatchThreshold {
			return domain.LocateResult{Success: true, X: m.x, Y: m.y, Confidence: m.score, Stage: constants.StageTemplate}, true
		}
	}
	for _, tmpl := range tmpls {
		if m := multiScaleMatch(scene, tmpl); m.score >= constants.MultiscaleMatchThreshold {
			return domain.LocateResult{Success: true, X: m.x, Y: m.y, Confidence: m.score, Stage: constants.StageMultiscale}, true
		}
	}
	for _, tmpl := range tmpls {
		if m, inliers := featureMatch(scene, tmpl); featureMatchAccepted(inliers) {
			return domain.LocateResult{Success: true, X: m.x, Y: m.y, Confidence: m.score, Stage: constants.StageFeature}, true
		}
	}
	return domain.LocateResult{}, false
}

func (l *Locator) loadReference(path string) (*grayImage, bool) {
	if cached, ok := l.refs.get(path); ok {
		return cached, true
	}
	data, err := os.ReadFile(path) //nolint:gosec // path resolved by the asset store from a fixed handler layout
	if err != nil {
		l.logger.Debug().Err(err).Str("component", "locator").Str("path", path).Msg("failed to read reference image")
		return nil, false
	}
	img, err := decodeGray(data)
	if err != nil {
		l.logger.Debug().Err(err).Str("component", "locator").Str("path", path).Msg("failed to decode reference image")
		return nil, false
	}
	l.refs.set(path, img)
	return img, true
}

// screenshotDims decodes just enough of the screenshot to report its pixel
// dimensions, used to convert a model's normalized bounding box to pixels.
func screenshotDims(data []byte) (int, int) {
	img, err := decodeGray(data)
	if err != nil {
		return 0, 0
	}
	return img.width, img.height
}
