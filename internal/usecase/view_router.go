package usecase

import (
	"github.com/fadilmartias/career-pulse/internal/model"
	"github.com/google/uuid"
)

// Snapshot is a read-only copy of an orchestrator's state.
type Snapshot struct {
	WorkspaceID uuid.UUID              `json:"workspaceId"`
	SessionID   uuid.UUID              `json:"sessionId"`
	State       model.AppState         `json:"state"`
	Error       string                 `json:"error,omitempty"`
	Profile     *model.ProfileData     `json:"-"`
	Report      *model.AnalysisReport  `json:"report,omitempty"`
	InFlight    map[model.Section]bool `json:"-"`
}

func (s Snapshot) Status(section model.Section) model.SectionStatus {
	if s.InFlight[section] {
		return model.StatusLoading
	}
	if s.Report.Has(section) {
		return model.StatusReady
	}
	return model.StatusIdle
}

func (s Snapshot) Statuses() map[model.Section]model.SectionStatus {
	out := make(map[model.Section]model.SectionStatus, len(model.BackgroundSections))
	for _, section := range model.BackgroundSections {
		out[section] = s.Status(section)
	}
	return out
}

type TabView struct {
	Tab     model.Tab           `json:"tab"`
	Loading bool                `json:"loading"`
	Status  model.SectionStatus `json:"status"`
	Data    any                 `json:"data,omitempty"`
}

type GrowthView struct {
	Roadmap  []model.CareerRoadmapStep `json:"roadmap"`
	Playlist []model.SkillQuestion     `json:"playlist"`
}

type StudioView struct {
	Tailoring *model.ApplicationTailoring `json:"tailoring,omitempty"`
	TargetJob *model.TargetJob            `json:"targetJob,omitempty"`
}

// RouteTab decides whether tab shows a loading indicator and picks the slice
// of the report it renders. The jobs and studio tabs are never reported as
// missing data: jobs reads core fields and studio renders its own form.
func RouteTab(snap Snapshot, tab model.Tab) (TabView, error) {
	if snap.State != model.StateReady || snap.Report == nil {
		return TabView{}, ErrNotReady
	}

	view := TabView{Tab: tab, Status: model.StatusReady}
	section, hasSection := tab.Section()
	if hasSection {
		view.Status = snap.Status(section)
		view.Loading = snap.InFlight[section] ||
			(tab != model.TabStudio && !snap.Report.Has(section))
	}
	if view.Loading {
		return view, nil
	}

	r := snap.Report
	switch tab {
	case model.TabDashboard:
		view.Data = r.Core()
	case model.TabJobs:
		view.Data = r.JobMatches
	case model.TabGrowth:
		view.Data = GrowthView{Roadmap: r.CareerRoadmap, Playlist: r.SkillPlaylist}
	case model.TabInterview:
		view.Data = r.InterviewPrep
	case model.TabNetwork:
		view.Data = r.Mentors
	case model.TabPulse:
		view.Data = r.AIInsights
	case model.TabStudio:
		sv := StudioView{Tailoring: r.ApplicationTailoring}
		if snap.Profile != nil {
			sv.TargetJob = snap.Profile.TargetJob
		}
		view.Data = sv
	}
	return view, nil
}
