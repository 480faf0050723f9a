package service

import (
	"context"
	"fmt"

	"github.com/fadilmartias/career-pulse/internal/model"
	"google.golang.org/genai"
)

type AnalysisServiceInterface interface {
	AnalyzeCore(ctx context.Context, profile model.ProfileData) (*model.AnalysisReport, error)
	AnalyzeGrowth(ctx context.Context, profile model.ProfileData) (model.GrowthResult, error)
	AnalyzeInterview(ctx context.Context, profile model.ProfileData) (model.InterviewResult, error)
	FetchMentors(ctx context.Context, profile model.ProfileData) (model.NetworkResult, error)
	FetchAIPulse(ctx context.Context, profile model.ProfileData) (model.PulseResult, error)
	GenerateStudioMaterials(ctx context.Context, profile model.ProfileData) (model.StudioResult, error)
}

// AnalysisService issues the six structured calls against a Generator.
type AnalysisService struct {
	gen     Generator
	prompts *PromptCatalog
}

func NewAnalysisService(gen Generator, prompts *PromptCatalog) *AnalysisService {
	return &AnalysisService{gen: gen, prompts: prompts}
}

func (s *AnalysisService) call(ctx context.Context, spec PromptSpec, profile model.ProfileData, schema *genai.Schema) (*GenerateResult, error) {
	return s.gen.GenerateJSON(ctx, GenerateRequest{
		Prompt:    spec.Render(profile),
		Resume:    profile.Resume,
		Schema:    schema,
		WebSearch: spec.WebSearch,
	})
}

// AnalyzeCore returns a report with every core field set and no extensions.
func (s *AnalysisService) AnalyzeCore(ctx context.Context, profile model.ProfileData) (*model.AnalysisReport, error) {
	res, err := s.call(ctx, s.prompts.Core, profile, CoreReportSchema())
	if err != nil {
		return nil, fmt.Errorf("core analysis: %w", err)
	}

	report, err := decodeJSON[model.AnalysisReport](res.Text, coreRequired...)
	if err != nil {
		return nil, fmt.Errorf("core analysis: %w", err)
	}
	report.ClearExtensions()
	report.GroundingSources = res.Sources
	report.NormalizeCore()
	return &report, nil
}

func (s *AnalysisService) AnalyzeGrowth(ctx context.Context, profile model.ProfileData) (model.GrowthResult, error) {
	res, err := s.call(ctx, s.prompts.Growth, profile, GrowthSchema())
	if err != nil {
		return model.GrowthResult{}, fmt.Errorf("growth analysis: %w", err)
	}
	out, err := decodeJSON[model.GrowthResult](res.Text, "roadmap", "playlist")
	if err != nil {
		return model.GrowthResult{}, fmt.Errorf("growth analysis: %w", err)
	}
	return out, nil
}

func (s *AnalysisService) AnalyzeInterview(ctx context.Context, profile model.ProfileData) (model.InterviewResult, error) {
	res, err := s.call(ctx, s.prompts.Interview, profile, InterviewSchema())
	if err != nil {
		return model.InterviewResult{}, fmt.Errorf("interview analysis: %w", err)
	}
	questions, err := decodeJSON[[]model.InterviewQuestion](res.Text)
	if err != nil {
		return model.InterviewResult{}, fmt.Errorf("interview analysis: %w", err)
	}
	return model.InterviewResult{Questions: questions}, nil
}

func (s *AnalysisService) FetchMentors(ctx context.Context, profile model.ProfileData) (model.NetworkResult, error) {
	res, err := s.call(ctx, s.prompts.Network, profile, MentorSchema())
	if err != nil {
		return model.NetworkResult{}, fmt.Errorf("mentor search: %w", err)
	}
	mentors, err := decodeJSON[[]model.Mentor](res.Text)
	if err != nil {
		return model.NetworkResult{}, fmt.Errorf("mentor search: %w", err)
	}
	return model.NetworkResult{Mentors: mentors}, nil
}

func (s *AnalysisService) FetchAIPulse(ctx context.Context, profile model.ProfileData) (model.PulseResult, error) {
	res, err := s.call(ctx, s.prompts.Pulse, profile, PulseSchema())
	if err != nil {
		return model.PulseResult{}, fmt.Errorf("ai pulse: %w", err)
	}
	insights, err := decodeJSON[[]model.AIInsight](res.Text)
	if err != nil {
		return model.PulseResult{}, fmt.Errorf("ai pulse: %w", err)
	}
	return model.PulseResult{Insights: insights}, nil
}

func (s *AnalysisService) GenerateStudioMaterials(ctx context.Context, profile model.ProfileData) (model.StudioResult, error) {
	if !profile.HasTargetJob() {
		return model.StudioResult{}, fmt.Errorf("studio materials: %w", ErrMissingTargetJob)
	}
	res, err := s.call(ctx, s.prompts.Studio, profile, StudioSchema())
	if err != nil {
		return model.StudioResult{}, fmt.Errorf("studio materials: %w", err)
	}
	tailoring, err := decodeJSON[model.ApplicationTailoring](res.Text, "coverLetter", "resumeSuggestions")
	if err != nil {
		return model.StudioResult{}, fmt.Errorf("studio materials: %w", err)
	}
	return model.StudioResult{Tailoring: tailoring}, nil
}
