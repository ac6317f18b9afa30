package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/taskpilot/droidtask/internal/config"
	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
)

// HTTPRunner is a generic OpenAI-chat-completions-compatible Runner. It
// covers every provider this system talks to (§6's LLM_PROVIDER is a
// selector for base URL/model defaults, not for wire format — every
// supported provider speaks the same chat-completions shape). No HTTP
// client library appears anywhere in the retrieval pack, so this is built
// on the standard net/http client rather than a third-party one.
type HTTPRunner struct {
	base   *BaseRunner
	client *http.Client
	cfg    *config.LLMConfig
}

// NewHTTPRunner constructs an HTTPRunner for a single provider configuration.
func NewHTTPRunner(cfg *config.LLMConfig, errType error, logger zerolog.Logger) *HTTPRunner {
	return &HTTPRunner{
		base:   NewBaseRunner(cfg, errType, logger),
		client: &http.Client{},
		cfg:    cfg,
	}
}

type chatMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatChoice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type contentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

// Run issues req against the configured provider endpoint.
func (h *HTTPRunner) Run(ctx context.Context, req *Request) (*Result, error) {
	return h.base.RunWithRetry(ctx, req, h.execute)
}

func (h *HTTPRunner) execute(ctx context.Context, req *Request) (*Result, error) {
	body, err := h.buildBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", atlaserrors.ErrPlannerFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if h.cfg != nil && h.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+h.cfg.APIKey)
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", atlaserrors.ErrPlannerFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", atlaserrors.ErrPlannerFailed, err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: http %d: %s", atlaserrors.ErrPlannerFailed, resp.StatusCode, string(data))
	}

	parsed, err := ParseJSON[chatResponse](data, atlaserrors.ErrPlannerFailed)
	if err != nil {
		return nil, err
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("%w: %s", atlaserrors.ErrPlannerFailed, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", atlaserrors.ErrPlannerFailed)
	}

	return &Result{Text: parsed.Choices[0].Message.Content}, nil
}

func (h *HTTPRunner) buildBody(req *Request) ([]byte, error) {
	userParts := []contentPart{{Type: "text", Text: req.UserPrompt}}
	for _, img := range req.Images {
		encoded := base64.StdEncoding.EncodeToString(img)
		userParts = append(userParts, contentPart{
			Type: "image_url",
			ImageURL: &struct {
				URL string `json:"url"`
			}{URL: "data:image/png;base64," + encoded},
		})
	}

	userContent, err := json.Marshal(userParts)
	if err != nil {
		return nil, fmt.Errorf("%w: encode user content: %w", atlaserrors.ErrPlannerFailed, err)
	}

	model := h.cfg.Model
	maxTokens := h.cfg.MaxTokens
	temperature := h.cfg.Temperature
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}
	if req.Temperature > 0 {
		temperature = req.Temperature
	}

	chatReq := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: json.RawMessage(`"` + escapeJSON(req.SystemPrompt) + `"`)},
			{Role: "user", Content: userContent},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	return json.Marshal(chatReq)
}

func (h *HTTPRunner) endpoint() string {
	if h.cfg != nil && h.cfg.BaseURL != "" {
		return h.cfg.BaseURL
	}
	return "https://api.openai.com/v1/chat/completions"
}

func escapeJSON(s string) string {
	encoded, _ := json.Marshal(s)
	return string(encoded[1 : len(encoded)-1])
}
