package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bizscout-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

type LLMConfig struct {
	BaseUrl   string `json:"base_url"`
	ApiKey    string `json:"api_key"`
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
}

type LLMClient struct {
	http      *resty.Client
	model     string
	maxTokens int
}

func NewLLMClient(config LLMConfig) *LLMClient {
	baseUrl := config.BaseUrl
	if baseUrl == "" {
		baseUrl = "https://api.openai.com/v1"
	}
	model := config.Model
	if model == "" {
		model = "gpt-4o"
	}
	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1500
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetAuthToken(config.ApiKey)
	client.SetTimeout(time.Second * 60)

	telemetry.InstrumentResty(client, "analyzer/llm")

	return &LLMClient{
		http:      client,
		model:     model,
		maxTokens: maxTokens,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete runs one chat completion round and returns the raw model
// text, trimmed.
func (c *LLMClient) Complete(ctx context.Context, system, user string) (string, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(chatRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "system", Content: system},
				{Role: "user", Content: user},
			},
			MaxTokens: c.maxTokens,
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if !res.IsSuccess() {
		return "", fmt.Errorf("chat completion returned status %d: %s", res.StatusCode(), res.String())
	}

	var reply chatResponse
	err = json.Unmarshal(res.Body(), &reply)
	if err != nil {
		return "", fmt.Errorf("failed to unmarshal chat completion reply: %w", err)
	}
	if len(reply.Choices) == 0 {
		return "", fmt.Errorf("chat completion reply has no choices")
	}

	return strings.TrimSpace(reply.Choices[0].Message.Content), nil
}
