package workflow

import (
	"fmt"
	"strings"

	"github.com/taskpilot/droidtask/internal/domain"
	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
)

// Substitute replaces every "{name}" placeholder in step's Target,
// params.text and Description using params. Returns ErrParamsMissing if
// any referenced placeholder has no entry in params, per §4.6: "missing
// placeholders after substitution are treated as step failure."
func Substitute(step domain.WorkflowStep, params map[string]string) (domain.WorkflowStep, error) {
	for _, name := range Placeholders(step) {
		if _, ok := params[name]; !ok {
			return domain.WorkflowStep{}, fmt.Errorf("%w: placeholder {%s}", atlaserrors.ErrParamsMissing, name)
		}
	}

	out := step
	out.Target = replaceAll(step.Target, params)
	out.Description = replaceAll(step.Description, params)

	if step.Params != nil {
		out.Params = make(map[string]string, len(step.Params))
		for k, v := range step.Params {
			out.Params[k] = replaceAll(v, params)
		}
	}

	return out, nil
}

func replaceAll(field string, params map[string]string) string {
	for name, value := range params {
		field = strings.ReplaceAll(field, "{"+name+"}", value)
	}
	return field
}
