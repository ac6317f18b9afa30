package locator

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/taskpilot/droidtask/internal/ai"
	"github.com/taskpilot/droidtask/internal/constants"
)

// remoteLocateSystemPrompt matches the remote-locator model prompt contract
// (§6): two images in, a normalized bounding box or a found:false reason out.
const remoteLocateSystemPrompt = `output only JSON. you are given two images: a reference image of a UI element, ` +
	`then a screenshot to search within. locate the reference element in the screenshot. ` +
	`respond with {"found":true,"xmin":N,"ymin":N,"xmax":N,"ymax":N,"confidence":N} using a 0-1000 grid ` +
	`over the screenshot's width and height, or {"found":false,"reason":"...","suggestion":"..."}.`

// dynamicLocateSystemPrompt is used when there is no reference image, only a
// free-text description of the element to find (a "dynamic:" target).
const dynamicLocateSystemPrompt = `output only JSON. you are given one screenshot and a free-text description ` +
	`of a UI element to find within it. respond with {"found":true,"xmin":N,"ymin":N,"xmax":N,"ymax":N,"confidence":N} ` +
	`using a 0-1000 grid over the screenshot's width and height, or {"found":false,"reason":"...","suggestion":"..."}.`

type bboxResponse struct {
	Found      bool    `json:"found"`
	Xmin       float64 `json:"xmin"`
	Ymin       float64 `json:"ymin"`
	Xmax       float64 `json:"xmax"`
	Ymax       float64 `json:"ymax"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// modelLocate issues a vision request against runner, converting its
// normalized 0-1000 bounding box into absolute pixel coordinates within a
// screenshot of the given dimensions. referenceImage may be nil for a
// dynamic (free-text) target, in which case only the screenshot is sent.
func modelLocate(ctx context.Context, runner ai.Runner, referenceImage, screenshot []byte, hint string, screenWidth, screenHeight int) (matchResult, bool) {
	systemPrompt := remoteLocateSystemPrompt
	images := [][]byte{referenceImage, screenshot}
	if referenceImage == nil {
		systemPrompt = dynamicLocateSystemPrompt
		images = [][]byte{screenshot}
	}

	result, err := runner.Run(ctx, &ai.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   "target: " + hint,
		Images:       images,
	})
	if err != nil {
		return matchResult{score: -1}, false
	}

	parsed, err := parseBBox(result.Text)
	if err != nil || !parsed.Found {
		return matchResult{score: -1}, false
	}

	cx := (parsed.Xmin + parsed.Xmax) / 2 / 1000 * float64(screenWidth)
	cy := (parsed.Ymin + parsed.Ymax) / 2 / 1000 * float64(screenHeight)
	confidence := parsed.Confidence
	if confidence == 0 {
		confidence = 1
	}
	return matchResult{x: int(cx), y: int(cy), score: confidence}, true
}

func parseBBox(text string) (bboxResponse, error) {
	var parsed bboxResponse
	trimmed := strings.TrimSpace(text)
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return bboxResponse{}, err
	}
	return parsed, nil
}

// hintFromTarget derives the free-text hint sent to a vision model from a
// target reference: the dynamic: description verbatim, or the reference
// name with underscores turned into spaces.
func hintFromTarget(target string) string {
	if strings.HasPrefix(target, constants.DynamicTargetPrefix) {
		return strings.TrimPrefix(target, constants.DynamicTargetPrefix)
	}
	return strings.ReplaceAll(target, "_", " ")
}
