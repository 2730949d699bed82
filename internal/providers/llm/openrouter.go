package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const defaultOpenRouterURL = "https://openrouter.ai/api/v1"

// OpenRouter calls an OpenAI-compatible chat completions endpoint.
type OpenRouter struct {
	http  *resty.Client
	model string
}

func NewOpenRouter(apiKey, baseURL, model string) (*OpenRouter, error) {
	if apiKey == "" {
		return nil, errors.New("OPENROUTER_API_KEY is required for the openrouter provider")
	}
	if baseURL == "" {
		baseURL = defaultOpenRouterURL
	}
	if model == "" {
		model = "openai/gpt-4o-mini"
	}

	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(60 * time.Second)

	return &OpenRouter{http: c, model: model}, nil
}

func (o *OpenRouter) Close() error { return nil }

func (o *OpenRouter) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model":       o.model,
			"temperature": 0.1,
			"messages": []map[string]string{
				{"role": "system", "content": "You are an applicant tracking system that answers in JSON only."},
				{"role": "user", "content": prompt},
			},
		}).
		Post("/chat/completions")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("openrouter: status %d: %s", resp.StatusCode(), gjson.Get(resp.String(), "error.message").String())
	}

	text := gjson.Get(resp.String(), "choices.0.message.content").String()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
