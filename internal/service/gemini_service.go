package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fadilmartias/career-pulse/internal/config"
	"github.com/fadilmartias/career-pulse/internal/logger"
	"github.com/fadilmartias/career-pulse/internal/model"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

type GeminiServiceInterface interface {
	Generator
	ResetCircuitBreaker()
	GetCircuitBreakerStatus() (consecutiveErrors int, isOpen bool)
}

// contentGenerator is the subset of *genai.Models the service calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiService struct {
	Client            *genai.Client
	Model             string
	Temperature       float32
	MaxRetries        int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	RequestTimeout    time.Duration
	BreakerCooldown   time.Duration
	models            contentGenerator
	limiter           *rate.Limiter
	consecutiveErrors atomic.Int32
	circuitBreakerMax int32
	breakerOpenedAt   atomic.Int64
}

func NewGeminiService(ctx context.Context) (*GeminiService, error) {
	geminiConfig := config.LoadGeminiConfig()
	if geminiConfig.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	s := newGeminiService(client.Models, geminiConfig)
	s.Client = client
	return s, nil
}

func newGeminiService(models contentGenerator, cfg *config.GeminiConfig) *GeminiService {
	return &GeminiService{
		Model:             cfg.Model,
		Temperature:       0.2,
		MaxRetries:        3,
		BaseDelay:         time.Second,
		MaxDelay:          90 * time.Second,
		RequestTimeout:    90 * time.Second,
		BreakerCooldown:   30 * time.Second,
		models:            models,
		limiter:           rate.NewLimiter(rate.Limit(float64(cfg.RPM)/60.0), cfg.Burst),
		circuitBreakerMax: 5,
	}
}

// GenerateJSON sends the prompt and resume as one user turn and returns the
// JSON text plus any web grounding sources.
func (s *GeminiService) GenerateJSON(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if s.Model == "" {
		return nil, fmt.Errorf("model name cannot be empty")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}
	if req.Resume.IsEmpty() {
		return nil, fmt.Errorf("%w: empty resume", ErrUnsupportedResume)
	}

	if s.breakerOpen() {
		return nil, fmt.Errorf("circuit breaker open: too many consecutive errors (%d)", s.consecutiveErrors.Load())
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	contents := []*genai.Content{genai.NewContentFromParts(resumeParts(req), genai.RoleUser)}
	genConfig := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(s.Temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema,
	}
	if req.WebSearch {
		genConfig.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.calculateBackoff(attempt)
			logger.Log.Debugf("Retry attempt %d/%d for GenerateContent after %v", attempt, s.MaxRetries, delay)

			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				return nil, fmt.Errorf("context timeout during retry: %w", timeoutCtx.Err())
			}
		}

		if err := s.limiter.Wait(timeoutCtx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		result, err := s.models.GenerateContent(timeoutCtx, s.Model, contents, genConfig)
		if err == nil {
			s.consecutiveErrors.Store(0)
			if err := s.validateGenerateResponse(result); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
			}
			return &GenerateResult{
				Text:    result.Text(),
				Sources: groundingSources(result),
			}, nil
		}

		lastErr = err

		// Cancellation by the caller is not a backend failure.
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("generate content cancelled: %w", err)
		}

		if !s.isRetryableError(err) {
			logger.Log.Warnf("Non-retryable Gemini error: %v", err)
			s.recordFailure()
			return nil, fmt.Errorf("generate content failed: %w", err)
		}

		logger.Log.Warnf("Retryable Gemini error on attempt %d: %v", attempt+1, err)
	}

	s.recordFailure()
	return nil, fmt.Errorf("max retries (%d) exceeded for GenerateContent: %w", s.MaxRetries, lastErr)
}

func resumeParts(req GenerateRequest) []*genai.Part {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.Resume.IsBlob() {
		return append(parts, genai.NewPartFromBytes(req.Resume.Data, req.Resume.MIMEType))
	}
	return append(parts, genai.NewPartFromText("Resume:\n"+req.Resume.Text))
}

func groundingSources(resp *genai.GenerateContentResponse) []model.GroundingSource {
	sources := []model.GroundingSource{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return sources
	}
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		title := chunk.Web.Title
		if title == "" {
			title = "Source"
		}
		sources = append(sources, model.GroundingSource{Title: title, URI: chunk.Web.URI})
	}
	return sources
}

func (s *GeminiService) calculateBackoff(attempt int) time.Duration {
	delay := s.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))

	if delay > s.MaxDelay {
		delay = s.MaxDelay
	}

	jitter := time.Duration(float64(delay) * 0.25)
	delay = delay - jitter/2 + time.Duration(float64(jitter)*0.5)

	return delay
}

func (s *GeminiService) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 502, 503, 504:
			return true
		case 400, 401, 403, 404:
			return false
		}
	}

	errMsg := err.Error()
	if strings.Contains(errMsg, "context canceled") ||
		strings.Contains(errMsg, "context deadline exceeded") {
		return false
	}

	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "temporary failure") ||
		strings.Contains(errMsg, "EOF")
}

func (s *GeminiService) validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}

	if len(resp.Candidates) == 0 {
		return fmt.Errorf("no candidates in response")
	}

	if resp.Candidates[0].Content == nil {
		return fmt.Errorf("candidate content is nil")
	}

	if len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("no parts in content")
	}

	return nil
}

// breakerOpen reports whether calls are rejected. Once BreakerCooldown has
// passed since the last failure the breaker is half-open and lets calls
// through; one success closes it, another failure restarts the cooldown.
func (s *GeminiService) breakerOpen() bool {
	if s.consecutiveErrors.Load() < s.circuitBreakerMax {
		return false
	}
	return time.Since(time.Unix(0, s.breakerOpenedAt.Load())) < s.BreakerCooldown
}

func (s *GeminiService) recordFailure() {
	if n := s.consecutiveErrors.Add(1); n >= s.circuitBreakerMax {
		s.breakerOpenedAt.Store(time.Now().UnixNano())
		if n == s.circuitBreakerMax {
			logger.Log.Warnf("Circuit breaker opened after %d consecutive errors", n)
		}
	}
}

func (s *GeminiService) ResetCircuitBreaker() {
	s.consecutiveErrors.Store(0)
	logger.Log.Info("Circuit breaker reset")
}

func (s *GeminiService) GetCircuitBreakerStatus() (consecutiveErrors int, isOpen bool) {
	return int(s.consecutiveErrors.Load()), s.breakerOpen()
}
