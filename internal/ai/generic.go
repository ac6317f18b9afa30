package ai

import (
	"encoding/json"
	"fmt"
)

// ParseJSON is a generic JSON response parser handling the common pattern
// of an empty-body check plus a wrapped unmarshal error. Used by callers
// parsing a model's raw text response into a typed struct.
func ParseJSON[T any](data []byte, errSentinel error) (*T, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty response", errSentinel)
	}

	var resp T
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse json response (%d bytes): %w", errSentinel, len(data), err)
	}

	return &resp, nil
}
