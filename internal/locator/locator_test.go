package locator

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpilot/droidtask/internal/ai"
	"github.com/taskpilot/droidtask/internal/config"
	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/domain"
)

// solidPNG renders a w x h image filled with bg, with a patchSize x patchSize
// block of fg placed at (px, py), and returns its PNG bytes.
func solidPNG(t *testing.T, w, h int, bg, fg color.RGBA, px, py, patchSize int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, bg)
		}
	}
	for y := py; y < py+patchSize && y < h; y++ {
		for x := px; x < px+patchSize && x < w; x++ {
			img.Set(x, y, fg)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestTemplateMatch_FindsExactPatch(t *testing.T) {
	bg := color.RGBA{20, 20, 20, 255}
	fg := color.RGBA{240, 240, 240, 255}

	sceneBytes := solidPNG(t, 200, 200, bg, fg, 120, 80, 30)
	tmplBytes := solidPNG(t, 40, 40, bg, fg, 5, 5, 30)

	scene, err := decodeGray(sceneBytes)
	require.NoError(t, err)
	tmpl, err := decodeGray(tmplBytes)
	require.NoError(t, err)

	result := templateMatch(scene, tmpl)
	assert.GreaterOrEqual(t, result.score, constants.TemplateMatchThreshold)
	assert.InDelta(t, 120+15, result.x, 2)
	assert.InDelta(t, 80+15, result.y, 2)
}

func TestMultiScaleMatch_FindsScaledPatch(t *testing.T) {
	bg := color.RGBA{10, 10, 10, 255}
	fg := color.RGBA{250, 250, 250, 255}

	sceneBytes := solidPNG(t, 200, 200, bg, fg, 60, 60, 40)
	tmplBytes := solidPNG(t, 40, 40, bg, fg, 5, 5, 30)

	scene, err := decodeGray(sceneBytes)
	require.NoError(t, err)
	tmpl, err := decodeGray(tmplBytes)
	require.NoError(t, err)

	result := multiScaleMatch(scene, tmpl)
	assert.GreaterOrEqual(t, result.score, constants.MultiscaleMatchThreshold)
}

type fakeRunner struct {
	text string
	err  error
}

func (f *fakeRunner) Run(_ context.Context, _ *ai.Request) (*ai.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Result{Text: f.text}, nil
}

func TestLocator_Locate_TemplateStageShortCircuits(t *testing.T) {
	bg := color.RGBA{20, 20, 20, 255}
	fg := color.RGBA{240, 240, 240, 255}

	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "button.png")
	require.NoError(t, os.WriteFile(tmplPath, solidPNG(t, 40, 40, bg, fg, 5, 5, 30), 0o644))

	scene := solidPNG(t, 200, 200, bg, fg, 120, 80, 30)

	l := New(&config.LocatorConfig{Strategy: constants.LocatorStrategyOpenCVFirst}, nil, &fakeRunner{}, zerolog.Nop())

	result, err := l.Locate(context.Background(), domain.LocateRequest{
		Screenshot:     scene,
		Target:         "button",
		CandidatePaths: []string{tmplPath},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, constants.StageTemplate, result.Stage)
}

func TestLocator_Locate_FallsBackToRemoteModelWhenOpenCVFails(t *testing.T) {
	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "button.png")
	require.NoError(t, os.WriteFile(tmplPath, solidPNG(t, 30, 30, color.RGBA{1, 1, 1, 255}, color.RGBA{2, 2, 2, 255}, 0, 0, 30), 0o644))

	scene := solidPNG(t, 200, 200, color.RGBA{250, 0, 0, 255}, color.RGBA{0, 250, 0, 255}, 10, 10, 5)

	runner := &fakeRunner{text: `{"found":true,"xmin":100,"ymin":100,"xmax":200,"ymax":200,"confidence":0.9}`}
	l := New(&config.LocatorConfig{Strategy: constants.LocatorStrategyOpenCVFirst}, nil, runner, zerolog.Nop())

	result, err := l.Locate(context.Background(), domain.LocateRequest{
		Screenshot:     scene,
		Target:         "button",
		CandidatePaths: []string{tmplPath},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, constants.StageRemoteModel, result.Stage)
	assert.Equal(t, 30, result.X) // (100+200)/2/1000*200
	assert.Equal(t, 30, result.Y)
}

func TestLocator_Locate_DynamicTargetSkipsOpenCVStages(t *testing.T) {
	scene := solidPNG(t, 100, 100, color.RGBA{0, 0, 0, 255}, color.RGBA{1, 1, 1, 255}, 0, 0, 5)
	runner := &fakeRunner{text: `{"found":true,"xmin":0,"ymin":0,"xmax":1000,"ymax":1000,"confidence":0.5}`}

	l := New(&config.LocatorConfig{Strategy: constants.LocatorStrategyOpenCVFirst}, nil, runner, zerolog.Nop())

	result, err := l.Locate(context.Background(), domain.LocateRequest{
		Screenshot: scene,
		Target:     "dynamic:the red send button",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, constants.StageRemoteModel, result.Stage)
}

func TestLocator_Locate_AllStagesExhaustedReturnsNotFound(t *testing.T) {
	scene := solidPNG(t, 50, 50, color.RGBA{5, 5, 5, 255}, color.RGBA{6, 6, 6, 255}, 0, 0, 2)
	runner := &fakeRunner{text: `{"found":false,"reason":"not visible","suggestion":"scroll down"}`}

	l := New(&config.LocatorConfig{Strategy: constants.LocatorStrategyAIOnly}, nil, runner, zerolog.Nop())

	result, err := l.Locate(context.Background(), domain.LocateRequest{
		Screenshot: scene,
		Target:     "dynamic:something that is not there",
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, constants.StageRemoteModel, result.Stage)
}

func TestLocator_Locate_ResultIsMemoizedWithinTTL(t *testing.T) {
	scene := solidPNG(t, 50, 50, color.RGBA{5, 5, 5, 255}, color.RGBA{6, 6, 6, 255}, 0, 0, 2)
	calls := 0
	runner := &countingRunner{fakeRunner: fakeRunner{text: `{"found":false}`}, calls: &calls}

	l := New(&config.LocatorConfig{Strategy: constants.LocatorStrategyAIOnly}, nil, runner, zerolog.Nop())
	req := domain.LocateRequest{Screenshot: scene, Target: "dynamic:x"}

	_, err := l.Locate(context.Background(), req)
	require.NoError(t, err)
	_, err = l.Locate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second identical call should be served from the result cache")
}

type countingRunner struct {
	fakeRunner
	calls *int
}

func (c *countingRunner) Run(ctx context.Context, req *ai.Request) (*ai.Result, error) {
	*c.calls++
	return c.fakeRunner.Run(ctx, req)
}

func TestLocator_LocateMany_RunsTargetsIndependently(t *testing.T) {
	scene := solidPNG(t, 50, 50, color.RGBA{5, 5, 5, 255}, color.RGBA{6, 6, 6, 255}, 0, 0, 2)
	runner := &fakeRunner{text: `{"found":true,"xmin":0,"ymin":0,"xmax":1000,"ymax":1000,"confidence":1}`}
	l := New(&config.LocatorConfig{Strategy: constants.LocatorStrategyAIOnly}, nil, runner, zerolog.Nop())

	reqs := map[string]domain.LocateRequest{
		"a": {Screenshot: scene, Target: "dynamic:a"},
		"b": {Screenshot: scene, Target: "dynamic:b"},
	}
	results, err := l.LocateMany(context.Background(), reqs)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.True(t, results["a"].Success)
	assert.True(t, results["b"].Success)
}
