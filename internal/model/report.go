package model

type CompetitiveStats struct {
	Platform   string `json:"platform"`
	Rating     string `json:"rating"`
	Rank       string `json:"rank"`
	Percentile string `json:"percentile"`
}

type BigTechBenchmark struct {
	Company        string `json:"company"`
	Requirement    string `json:"requirement"`
	Gap            string `json:"gap"`
	Recommendation string `json:"recommendation"`
}

type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
}

type JobMatch struct {
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Description string  `json:"description"`
	MatchScore  float64 `json:"matchScore"`
	Reason      string  `json:"reason"`
	URL         string  `json:"url,omitempty"`
}

type GroundingSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

type CareerRoadmapStep struct {
	Period string   `json:"period"`
	Goal   string   `json:"goal"`
	Topics []string `json:"topics"`
}

type SkillQuestion struct {
	Category   string `json:"category"`
	Question   string `json:"question"`
	Difficulty string `json:"difficulty"` // Easy, Medium or Hard
	Link       string `json:"link,omitempty"`
	Reason     string `json:"reason"`
}

type InterviewQuestion struct {
	Question   string `json:"question"`
	Category   string `json:"category"` // Technical, Behavioral or System Design
	AnswerHint string `json:"answerHint"`
	Difficulty string `json:"difficulty"`
}

type Mentor struct {
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	Company      string   `json:"company"`
	Link         string   `json:"link"`
	LinkedinLink string   `json:"linkedinLink,omitempty"`
	Expertise    []string `json:"expertise"`
}

type AIInsight struct {
	Tool      string `json:"tool"`
	Relevance string `json:"relevance"`
	UseCase   string `json:"useCase"`
	Link      string `json:"link,omitempty"`
}

type ApplicationTailoring struct {
	CoverLetter       string   `json:"coverLetter"`
	ResumeSuggestions []string `json:"resumeSuggestions"`
}

// AnalysisReport holds the core analysis plus the optional sections.
// An extension slice is present when non-nil. Fields are replaced whole,
// never edited in place, so a shallow copy is a consistent snapshot.
type AnalysisReport struct {
	Summary                string             `json:"summary"`
	Strengths              []string           `json:"strengths"`
	Improvements           []string           `json:"improvements"`
	BigTechAlignment       []BigTechBenchmark `json:"bigTechAlignment"`
	Skills                 Skills             `json:"skills"`
	SuggestedRoles         []string           `json:"suggestedRoles"`
	CompetitiveProgramming []CompetitiveStats `json:"competitiveProgramming"`
	JobMatches             []JobMatch         `json:"jobMatches"`
	GroundingSources       []GroundingSource  `json:"groundingSources"`

	// Background sections serialize as null until loaded; a loaded section
	// with no items is an empty array.
	CareerRoadmap        []CareerRoadmapStep   `json:"careerRoadmap"`
	SkillPlaylist        []SkillQuestion       `json:"skillPlaylist"`
	InterviewPrep        []InterviewQuestion   `json:"interviewPrep"`
	Mentors              []Mentor              `json:"mentors"`
	AIInsights           []AIInsight           `json:"aiInsights"`
	ApplicationTailoring *ApplicationTailoring `json:"applicationTailoring"`
}

// Has reports whether the section's field(s) are present.
func (r *AnalysisReport) Has(section Section) bool {
	if r == nil {
		return false
	}
	switch section {
	case SectionGrowth:
		return r.CareerRoadmap != nil && r.SkillPlaylist != nil
	case SectionInterview:
		return r.InterviewPrep != nil
	case SectionNetwork:
		return r.Mentors != nil
	case SectionPulse:
		return r.AIInsights != nil
	case SectionStudio:
		return r.ApplicationTailoring != nil
	}
	return false
}

func (r *AnalysisReport) ClearExtensions() {
	r.CareerRoadmap = nil
	r.SkillPlaylist = nil
	r.InterviewPrep = nil
	r.Mentors = nil
	r.AIInsights = nil
	r.ApplicationTailoring = nil
}

// NormalizeCore replaces nil core slices with empty ones so a decoded report
// always carries every core field.
func (r *AnalysisReport) NormalizeCore() {
	r.Strengths = orEmpty(r.Strengths)
	r.Improvements = orEmpty(r.Improvements)
	r.BigTechAlignment = orEmpty(r.BigTechAlignment)
	r.Skills.Technical = orEmpty(r.Skills.Technical)
	r.Skills.Soft = orEmpty(r.Skills.Soft)
	r.SuggestedRoles = orEmpty(r.SuggestedRoles)
	r.CompetitiveProgramming = orEmpty(r.CompetitiveProgramming)
	r.JobMatches = orEmpty(r.JobMatches)
	r.GroundingSources = orEmpty(r.GroundingSources)
}

func (r *AnalysisReport) Clone() *AnalysisReport {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// CoreView is the dashboard slice of a report.
type CoreView struct {
	Summary                string             `json:"summary"`
	Strengths              []string           `json:"strengths"`
	Improvements           []string           `json:"improvements"`
	BigTechAlignment       []BigTechBenchmark `json:"bigTechAlignment"`
	Skills                 Skills             `json:"skills"`
	SuggestedRoles         []string           `json:"suggestedRoles"`
	CompetitiveProgramming []CompetitiveStats `json:"competitiveProgramming"`
	GroundingSources       []GroundingSource  `json:"groundingSources"`
}

func (r *AnalysisReport) Core() CoreView {
	return CoreView{
		Summary:                r.Summary,
		Strengths:              r.Strengths,
		Improvements:           r.Improvements,
		BigTechAlignment:       r.BigTechAlignment,
		Skills:                 r.Skills,
		SuggestedRoles:         r.SuggestedRoles,
		CompetitiveProgramming: r.CompetitiveProgramming,
		GroundingSources:       r.GroundingSources,
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
