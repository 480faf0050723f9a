package model

import (
	"time"

	"github.com/google/uuid"
)

// Section is one of the optional, independently fetched report extensions.
type Section string

const (
	SectionGrowth    Section = "growth"
	SectionInterview Section = "interview"
	SectionNetwork   Section = "network"
	SectionPulse     Section = "pulse"
	SectionStudio    Section = "studio"
)

// BackgroundSections is the fan-out order used after a core analysis.
var BackgroundSections = []Section{
	SectionNetwork,
	SectionGrowth,
	SectionInterview,
	SectionPulse,
	SectionStudio,
}

func (s Section) Valid() bool {
	switch s {
	case SectionGrowth, SectionInterview, SectionNetwork, SectionPulse, SectionStudio:
		return true
	}
	return false
}

type Tab string

const (
	TabDashboard Tab = "dashboard"
	TabGrowth    Tab = "growth"
	TabJobs      Tab = "jobs"
	TabInterview Tab = "interview"
	TabNetwork   Tab = "network"
	TabStudio    Tab = "studio"
	TabPulse     Tab = "pulse"
)

var Tabs = []Tab{TabDashboard, TabGrowth, TabJobs, TabInterview, TabNetwork, TabStudio, TabPulse}

func ParseTab(s string) (Tab, bool) {
	for _, t := range Tabs {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Section returns the optional section backing the tab. Dashboard and jobs
// read core fields only.
func (t Tab) Section() (Section, bool) {
	switch t {
	case TabGrowth:
		return SectionGrowth, true
	case TabInterview:
		return SectionInterview, true
	case TabNetwork:
		return SectionNetwork, true
	case TabStudio:
		return SectionStudio, true
	case TabPulse:
		return SectionPulse, true
	}
	return "", false
}

type AppState string

const (
	StateIdle      AppState = "idle"
	StateAnalyzing AppState = "analyzing"
	StateReady     AppState = "ready"
	StateError     AppState = "error"
)

type SectionStatus string

const (
	StatusIdle    SectionStatus = "idle"
	StatusLoading SectionStatus = "loading"
	StatusReady   SectionStatus = "ready"
)

// SectionResult is the tagged outcome of one section loader. MergeInto
// replaces only the section's own fields.
type SectionResult interface {
	Section() Section
	MergeInto(r *AnalysisReport)
}

type GrowthResult struct {
	Roadmap  []CareerRoadmapStep `json:"roadmap"`
	Playlist []SkillQuestion     `json:"playlist"`
}

func (GrowthResult) Section() Section { return SectionGrowth }

func (g GrowthResult) MergeInto(r *AnalysisReport) {
	r.CareerRoadmap = orEmpty(g.Roadmap)
	r.SkillPlaylist = orEmpty(g.Playlist)
}

type InterviewResult struct {
	Questions []InterviewQuestion
}

func (InterviewResult) Section() Section { return SectionInterview }

func (i InterviewResult) MergeInto(r *AnalysisReport) {
	r.InterviewPrep = orEmpty(i.Questions)
}

type NetworkResult struct {
	Mentors []Mentor
}

func (NetworkResult) Section() Section { return SectionNetwork }

func (n NetworkResult) MergeInto(r *AnalysisReport) {
	r.Mentors = orEmpty(n.Mentors)
}

type PulseResult struct {
	Insights []AIInsight
}

func (PulseResult) Section() Section { return SectionPulse }

func (p PulseResult) MergeInto(r *AnalysisReport) {
	r.AIInsights = orEmpty(p.Insights)
}

type StudioResult struct {
	Tailoring ApplicationTailoring
}

func (StudioResult) Section() Section { return SectionStudio }

func (s StudioResult) MergeInto(r *AnalysisReport) {
	t := s.Tailoring
	t.ResumeSuggestions = orEmpty(t.ResumeSuggestions)
	r.ApplicationTailoring = &t
}

// WorkspaceEvent is published whenever the application state or a
// section status changes.
type WorkspaceEvent struct {
	WorkspaceID uuid.UUID     `json:"workspace_id"`
	SessionID   uuid.UUID     `json:"session_id"`
	State       AppState      `json:"state,omitempty"`
	Section     Section       `json:"section,omitempty"`
	Status      SectionStatus `json:"status,omitempty"`
	Message     string        `json:"message,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
}
