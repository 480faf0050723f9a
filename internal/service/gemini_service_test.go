package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fadilmartias/career-pulse/internal/config"
	"github.com/fadilmartias/career-pulse/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	calls     int
	responses []*genai.GenerateContentResponse
	errs      []error
	lastModel string
	lastParts []*genai.Part
	lastCfg   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, modelName string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	i := f.calls
	f.calls++
	f.lastModel = modelName
	f.lastParts = contents[0].Parts
	f.lastCfg = cfg
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return f.responses[len(f.responses)-1], nil
}

func textResponse(text string, sources ...model.GroundingSource) *genai.GenerateContentResponse {
	candidate := &genai.Candidate{
		Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: text}}},
	}
	if len(sources) > 0 {
		meta := &genai.GroundingMetadata{}
		for _, s := range sources {
			meta.GroundingChunks = append(meta.GroundingChunks, &genai.GroundingChunk{
				Web: &genai.GroundingChunkWeb{Title: s.Title, URI: s.URI},
			})
		}
		candidate.GroundingMetadata = meta
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate}}
}

func newTestGemini(models contentGenerator) *GeminiService {
	s := newGeminiService(models, &config.GeminiConfig{Model: "gemini-test", RPM: 60000, Burst: 100})
	s.BaseDelay = time.Millisecond
	s.MaxDelay = 5 * time.Millisecond
	return s
}

func TestGeminiService_GenerateJSON_TextResume(t *testing.T) {
	fake := &fakeModels{responses: []*genai.GenerateContentResponse{
		textResponse(`{"ok":true}`, model.GroundingSource{Title: "", URI: "https://example.com"}),
	}}
	s := newTestGemini(fake)

	res, err := s.GenerateJSON(context.Background(), GenerateRequest{
		Prompt:    "analyze",
		Resume:    model.Resume{Text: "Go developer"},
		Schema:    StudioSchema(),
		WebSearch: true,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"ok":true}`, res.Text)
	assert.Equal(t, []model.GroundingSource{{Title: "Source", URI: "https://example.com"}}, res.Sources)
	assert.Equal(t, "gemini-test", fake.lastModel)
	require.Len(t, fake.lastParts, 2)
	assert.Equal(t, "analyze", fake.lastParts[0].Text)
	assert.Equal(t, "Resume:\nGo developer", fake.lastParts[1].Text)
	assert.Equal(t, "application/json", fake.lastCfg.ResponseMIMEType)
	require.Len(t, fake.lastCfg.Tools, 1)
	assert.NotNil(t, fake.lastCfg.Tools[0].GoogleSearch)
}

func TestGeminiService_GenerateJSON_BlobResume(t *testing.T) {
	fake := &fakeModels{responses: []*genai.GenerateContentResponse{textResponse(`[]`)}}
	s := newTestGemini(fake)

	_, err := s.GenerateJSON(context.Background(), GenerateRequest{
		Prompt: "analyze",
		Resume: model.Resume{Data: []byte("%PDF-1.4"), MIMEType: "application/pdf"},
	})
	require.NoError(t, err)

	require.Len(t, fake.lastParts, 2)
	require.NotNil(t, fake.lastParts[1].InlineData)
	assert.Equal(t, "application/pdf", fake.lastParts[1].InlineData.MIMEType)
	assert.Empty(t, fake.lastCfg.Tools)
}

func TestGeminiService_RetriesTransientErrors(t *testing.T) {
	fake := &fakeModels{
		errs:      []error{genai.APIError{Code: 503, Message: "overloaded"}, nil},
		responses: []*genai.GenerateContentResponse{nil, textResponse(`{}`)},
	}
	s := newTestGemini(fake)

	res, err := s.GenerateJSON(context.Background(), GenerateRequest{Prompt: "p", Resume: model.Resume{Text: "r"}})
	require.NoError(t, err)
	assert.Equal(t, "{}", res.Text)
	assert.Equal(t, 2, fake.calls)
}

func TestGeminiService_CircuitBreakerOpensAfterFailures(t *testing.T) {
	fake := &fakeModels{errs: []error{
		genai.APIError{Code: 400}, genai.APIError{Code: 400}, genai.APIError{Code: 400},
		genai.APIError{Code: 400}, genai.APIError{Code: 400},
	}}
	s := newTestGemini(fake)
	req := GenerateRequest{Prompt: "p", Resume: model.Resume{Text: "r"}}

	for i := 0; i < 5; i++ {
		_, err := s.GenerateJSON(context.Background(), req)
		require.Error(t, err)
	}
	n, open := s.GetCircuitBreakerStatus()
	assert.Equal(t, 5, n)
	assert.True(t, open)

	_, err := s.GenerateJSON(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
	assert.Equal(t, 5, fake.calls)

	s.ResetCircuitBreaker()
	_, open = s.GetCircuitBreakerStatus()
	assert.False(t, open)
}

// stallingModels blocks every call until its context ends, unless healthy.
type stallingModels struct {
	started chan struct{}
	healthy atomic.Bool
}

func (m *stallingModels) GenerateContent(ctx context.Context, _ string, _ []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if m.healthy.Load() {
		return textResponse(`{"ok":true}`), nil
	}
	m.started <- struct{}{}
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestGeminiService_CancelledCallsDoNotOpenBreaker(t *testing.T) {
	fake := &stallingModels{started: make(chan struct{})}
	s := newTestGemini(fake)
	req := GenerateRequest{Prompt: "p", Resume: model.Resume{Text: "r"}}

	const calls = 6
	var wg sync.WaitGroup
	errs := make(chan error, calls)
	for i := 0; i < calls; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.GenerateJSON(ctx, req)
			errs <- err
		}()
		<-fake.started
		cancel()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	}
	n, open := s.GetCircuitBreakerStatus()
	assert.Equal(t, 0, n)
	assert.False(t, open)

	fake.healthy.Store(true)
	res, err := s.GenerateJSON(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, res.Text)
}

func TestGeminiService_BreakerHalfOpensAfterCooldown(t *testing.T) {
	fail := genai.APIError{Code: 400}
	fake := &fakeModels{
		errs:      []error{fail, fail, fail, fail, fail, nil},
		responses: []*genai.GenerateContentResponse{textResponse(`{"ok":true}`)},
	}
	s := newTestGemini(fake)
	s.BreakerCooldown = 20 * time.Millisecond
	req := GenerateRequest{Prompt: "p", Resume: model.Resume{Text: "r"}}

	for i := 0; i < 5; i++ {
		_, err := s.GenerateJSON(context.Background(), req)
		require.Error(t, err)
	}
	_, open := s.GetCircuitBreakerStatus()
	require.True(t, open)

	_, err := s.GenerateJSON(context.Background(), req)
	require.ErrorContains(t, err, "circuit breaker open")

	assert.Eventually(t, func() bool {
		_, open := s.GetCircuitBreakerStatus()
		return !open
	}, time.Second, 5*time.Millisecond)

	res, err := s.GenerateJSON(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, res.Text)
	n, open := s.GetCircuitBreakerStatus()
	assert.Equal(t, 0, n)
	assert.False(t, open)
}

func TestGeminiService_EmptyCandidatesIsMalformed(t *testing.T) {
	fake := &fakeModels{responses: []*genai.GenerateContentResponse{{}}}
	s := newTestGemini(fake)

	_, err := s.GenerateJSON(context.Background(), GenerateRequest{Prompt: "p", Resume: model.Resume{Text: "r"}})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestGeminiService_RejectsEmptyInput(t *testing.T) {
	s := newTestGemini(&fakeModels{})

	_, err := s.GenerateJSON(context.Background(), GenerateRequest{Prompt: " ", Resume: model.Resume{Text: "r"}})
	assert.Error(t, err)

	_, err = s.GenerateJSON(context.Background(), GenerateRequest{Prompt: "p"})
	assert.ErrorIs(t, err, ErrUnsupportedResume)
}

func TestGeminiService_IsRetryableError(t *testing.T) {
	s := newTestGemini(&fakeModels{})

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", genai.APIError{Code: 429}, true},
		{"server error", genai.APIError{Code: 502}, true},
		{"bad request", genai.APIError{Code: 400}, false},
		{"canceled", context.Canceled, false},
		{"wrapped deadline", errors.Join(errors.New("call"), context.DeadlineExceeded), false},
		{"connection reset", errors.New("read: connection reset by peer"), true},
		{"unexpected EOF", errors.New("unexpected EOF"), true},
		{"other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.isRetryableError(tt.err))
		})
	}
}

func TestGeminiService_CalculateBackoff(t *testing.T) {
	s := newTestGemini(&fakeModels{})
	s.BaseDelay = time.Second
	s.MaxDelay = 3 * time.Second

	assert.Equal(t, time.Second, s.calculateBackoff(1))
	assert.Equal(t, 2*time.Second, s.calculateBackoff(2))
	assert.Equal(t, 3*time.Second, s.calculateBackoff(5))
}
