package usecase

import (
	"context"

	"github.com/fadilmartias/career-pulse/internal/model"
	"github.com/fadilmartias/career-pulse/internal/service"
)

// SectionLoader fetches one optional report section. It receives copies of
// the profile and the current report and never touches orchestrator state.
type SectionLoader interface {
	Load(ctx context.Context, profile model.ProfileData, report model.AnalysisReport) (model.SectionResult, error)
}

type SectionLoaderFunc func(ctx context.Context, profile model.ProfileData, report model.AnalysisReport) (model.SectionResult, error)

func (f SectionLoaderFunc) Load(ctx context.Context, profile model.ProfileData, report model.AnalysisReport) (model.SectionResult, error) {
	return f(ctx, profile, report)
}

// CoreAnalyzer runs the blocking first analysis.
type CoreAnalyzer interface {
	AnalyzeCore(ctx context.Context, profile model.ProfileData) (*model.AnalysisReport, error)
}

// NewSectionLoaders binds each background section to its analysis call.
func NewSectionLoaders(svc service.AnalysisServiceInterface) map[model.Section]SectionLoader {
	return map[model.Section]SectionLoader{
		model.SectionGrowth: SectionLoaderFunc(func(ctx context.Context, p model.ProfileData, _ model.AnalysisReport) (model.SectionResult, error) {
			res, err := svc.AnalyzeGrowth(ctx, p)
			if err != nil {
				return nil, err
			}
			return res, nil
		}),
		model.SectionInterview: SectionLoaderFunc(func(ctx context.Context, p model.ProfileData, _ model.AnalysisReport) (model.SectionResult, error) {
			res, err := svc.AnalyzeInterview(ctx, p)
			if err != nil {
				return nil, err
			}
			return res, nil
		}),
		model.SectionNetwork: SectionLoaderFunc(func(ctx context.Context, p model.ProfileData, _ model.AnalysisReport) (model.SectionResult, error) {
			res, err := svc.FetchMentors(ctx, p)
			if err != nil {
				return nil, err
			}
			return res, nil
		}),
		model.SectionPulse: SectionLoaderFunc(func(ctx context.Context, p model.ProfileData, _ model.AnalysisReport) (model.SectionResult, error) {
			res, err := svc.FetchAIPulse(ctx, p)
			if err != nil {
				return nil, err
			}
			return res, nil
		}),
		model.SectionStudio: SectionLoaderFunc(func(ctx context.Context, p model.ProfileData, _ model.AnalysisReport) (model.SectionResult, error) {
			res, err := svc.GenerateStudioMaterials(ctx, p)
			if err != nil {
				return nil, err
			}
			return res, nil
		}),
	}
}
