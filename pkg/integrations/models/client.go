package models

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/nodedex/nodedex/pkg/httputil"
	"github.com/nodedex/nodedex/pkg/integrations"
)

// ErrBadResponse is returned when the endpoint answered but the content
// could not be parsed as the expected JSON object, even after the
// embedded-object fallback. Items failing this way are skipped, not
// retried within the run.
var ErrBadResponse = errors.New("unparseable classification response")

// Result is the structured classification for one repository.
type Result struct {
	Categories []string `json:"categories"`
	Summary    string   `json:"summary"`
}

// Client calls a chat-completion endpoint to classify README text.
type Client struct {
	client   *integrations.Client
	endpoint string
	model    string

	// MaxTokens and Temperature are fixed per run; the defaults keep
	// answers short and nearly deterministic.
	MaxTokens   int
	Temperature float64
}

// NewClient creates a classification client for the given endpoint and
// model, authenticated with token.
func NewClient(token, endpoint, model string) *Client {
	headers := map[string]string{"Authorization": "Bearer " + token}
	return &Client{
		client:      integrations.NewClient(nil, headers),
		endpoint:    endpoint,
		model:       model,
		MaxTokens:   200,
		Temperature: 0.2,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify submits one README text under the given system prompt and
// parses the structured answer. A 429 gets one cooldown retry; a 401
// surfaces as [integrations.ErrUnauthorized] and should abort the run.
func (c *Client) Classify(ctx context.Context, systemPrompt, text string) (Result, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
	}

	var resp chatResponse
	err := httputil.Retry(ctx, 1, 0, func() error {
		resp = chatResponse{}
		return c.client.Post(ctx, c.endpoint, payload, &resp)
	})
	if err != nil {
		return Result{}, err
	}
	if len(resp.Choices) == 0 {
		return Result{}, ErrBadResponse
	}
	return parseContent(resp.Choices[0].Message.Content)
}

// parseContent decodes the model's answer. When the content is not a bare
// JSON object, one fallback attempt extracts the first "{" to last "}"
// span before the item is declared unparseable.
func parseContent(content string) (Result, error) {
	content = strings.TrimSpace(content)

	var r Result
	if err := json.Unmarshal([]byte(content), &r); err == nil {
		return r, nil
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(content[start:end+1]), &r); err == nil {
			return r, nil
		}
	}
	return Result{}, ErrBadResponse
}
