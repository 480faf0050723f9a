package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fadilmartias/career-pulse/internal/config"
	"github.com/fadilmartias/career-pulse/internal/logger"
	"github.com/fadilmartias/career-pulse/internal/model"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// OpenRouterService is a text-only Generator over the OpenRouter chat API.
// It cannot forward binary resumes or run web search.
type OpenRouterService struct {
	APIKey string
	Model  string
	client *resty.Client
}

func NewOpenRouterService() *OpenRouterService {
	cfg := config.LoadOpenRouterConfig()
	return newOpenRouterService(cfg.APIKey, cfg.Model, cfg.BaseURL)
}

func newOpenRouterService(apiKey, modelName, baseURL string) *OpenRouterService {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(90 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() == 429 || r.StatusCode() >= 500
		})
	return &OpenRouterService{APIKey: apiKey, Model: modelName, client: client}
}

func (s *OpenRouterService) GenerateJSON(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY not set")
	}
	resume, err := textResume(req.Resume)
	if err != nil {
		return nil, err
	}
	if req.WebSearch {
		logger.Log.Debug("OpenRouter: web search requested but not supported, continuing without it")
	}

	system := "You are a career analysis engine. Respond with JSON only, no markdown."
	if req.Schema != nil {
		schema, err := json.Marshal(req.Schema)
		if err != nil {
			return nil, fmt.Errorf("encode response schema: %w", err)
		}
		system += "\nThe JSON must match this schema:\n" + string(schema)
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(s.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"model": s.Model,
			"messages": []map[string]string{
				{"role": "system", "content": system},
				{"role": "user", "content": req.Prompt + "\n\nResume:\n" + resume},
			},
		}).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("openrouter request failed: %w", err)
	}
	if resp.IsError() {
		msg := gjson.Get(resp.String(), "error.message").String()
		return nil, fmt.Errorf("openrouter returned status %d: %s", resp.StatusCode(), msg)
	}

	text := gjson.Get(resp.String(), "choices.0.message.content").String()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no content from openrouter", ErrMalformedResponse)
	}

	return &GenerateResult{Text: text, Sources: []model.GroundingSource{}}, nil
}

func textResume(r model.Resume) (string, error) {
	if !r.IsBlob() {
		return r.Text, nil
	}
	if strings.HasPrefix(r.MIMEType, "text/") {
		return string(r.Data), nil
	}
	return "", fmt.Errorf("%w: %s resumes require the gemini provider", ErrUnsupportedResume, r.MIMEType)
}
