package classifier

import (
	"context"
	"regexp"

	"github.com/taskpilot/droidtask/internal/ai"
	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/domain"
	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
)

// classifierSystemPrompt is the model prompt contract's fixed system
// message (§4.5, §6): strict JSON, no prose.
const classifierSystemPrompt = "output only JSON. fields: type ∈ {send_msg, post_moment_only_text, others, invalid}, recipient, content"

// jsonObjectPattern extracts the first brace-delimited object from a
// response that may wrap JSON in prose, matching the original classifier's
// lenient `re.search(r'\{[\s\S]*\}', ...)` extraction rather than demanding
// the whole response be a bare JSON object.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// modelResponse is the model path's expected JSON shape.
type modelResponse struct {
	Type      string `json:"type"`
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
}

// runModel sends utterance to runner per the model prompt contract and
// parses its response. Returns an error on any non-JSON or missing-type
// response, signaling the caller to degrade per §4.5.
func runModel(ctx context.Context, runner ai.Runner, utterance string) (domain.ParsedTask, error) {
	result, err := runner.Run(ctx, &ai.Request{
		SystemPrompt: classifierSystemPrompt,
		UserPrompt:   utterance,
	})
	if err != nil {
		return domain.ParsedTask{}, err
	}

	match := jsonObjectPattern.FindString(result.Text)
	if match == "" {
		return domain.ParsedTask{}, atlaserrors.ErrClassificationFailed
	}

	resp, err := ai.ParseJSON[modelResponse]([]byte(match), atlaserrors.ErrClassificationFailed)
	if err != nil {
		return domain.ParsedTask{}, err
	}
	if resp.Type == "" {
		return domain.ParsedTask{}, atlaserrors.ErrClassificationFailed
	}

	switch resp.Type {
	case constants.TaskTypeSendMsg, constants.TaskTypePostMoment, constants.TaskTypeOthers, constants.TaskTypeInvalid:
	default:
		return domain.ParsedTask{}, atlaserrors.ErrClassificationFailed
	}

	return domain.ParsedTask{Type: resp.Type, Recipient: resp.Recipient, Content: resp.Content}, nil
}
