package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileData_Validate(t *testing.T) {
	tests := []struct {
		name    string
		profile ProfileData
		wantErr bool
	}{
		{name: "text resume", profile: ProfileData{Resume: Resume{Text: "Go developer"}}},
		{name: "blob resume", profile: ProfileData{Resume: Resume{Data: []byte("%PDF"), MIMEType: "application/pdf"}}},
		{name: "blank resume", profile: ProfileData{GithubUsername: "octo", Resume: Resume{Text: "  "}}, wantErr: true},
		{name: "blob without mime type", profile: ProfileData{Resume: Resume{Data: []byte("%PDF")}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidProfile)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTargetJob_Validate(t *testing.T) {
	assert.NoError(t, TargetJob{Company: "Acme", Role: "SRE", Description: "On-call"}.Validate())
	assert.ErrorIs(t, TargetJob{Company: "Acme", Role: "SRE", Description: "   "}.Validate(), ErrInvalidTargetJob)
	assert.ErrorIs(t, TargetJob{}.Validate(), ErrInvalidTargetJob)

	var nilJob *TargetJob
	assert.True(t, nilJob.IsZero())
	assert.True(t, (&TargetJob{Company: " "}).IsZero())
}

func TestProfileData_WithTargetJobAndClone(t *testing.T) {
	base := ProfileData{Resume: Resume{Data: []byte("abc"), MIMEType: "text/plain"}}
	assert.False(t, base.HasTargetJob())

	withJob := base.WithTargetJob(TargetJob{Company: "Acme", Role: "SRE", Description: "d"})
	assert.True(t, withJob.HasTargetJob())
	assert.False(t, base.HasTargetJob())

	clone := withJob.Clone()
	clone.TargetJob.Company = "Globex"
	clone.Resume.Data[0] = 'x'
	assert.Equal(t, "Acme", withJob.TargetJob.Company)
	assert.Equal(t, []byte("abc"), withJob.Resume.Data)
}

func TestAnalysisReport_SectionMerge(t *testing.T) {
	r := &AnalysisReport{Summary: "core"}
	require.False(t, r.Has(SectionGrowth))

	GrowthResult{Roadmap: []CareerRoadmapStep{{Goal: "g"}}}.MergeInto(r)
	assert.True(t, r.Has(SectionGrowth), "empty playlist still counts as present")
	assert.Equal(t, []SkillQuestion{}, r.SkillPlaylist)

	InterviewResult{}.MergeInto(r)
	NetworkResult{}.MergeInto(r)
	PulseResult{}.MergeInto(r)
	StudioResult{Tailoring: ApplicationTailoring{CoverLetter: "hi"}}.MergeInto(r)
	for _, s := range BackgroundSections {
		assert.True(t, r.Has(s), "section %s", s)
	}
	assert.Equal(t, []string{}, r.ApplicationTailoring.ResumeSuggestions)
	assert.Equal(t, "core", r.Summary)

	r.ClearExtensions()
	for _, s := range BackgroundSections {
		assert.False(t, r.Has(s), "section %s", s)
	}

	var nilReport *AnalysisReport
	assert.False(t, nilReport.Has(SectionNetwork))
}

func TestAnalysisReport_JSONDistinguishesEmptyFromAbsent(t *testing.T) {
	r := &AnalysisReport{Summary: "core"}
	NetworkResult{Mentors: []Mentor{}}.MergeInto(r)

	body, err := json.Marshal(r)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &fields))
	assert.JSONEq(t, `[]`, string(fields["mentors"]))
	assert.JSONEq(t, `null`, string(fields["careerRoadmap"]))
	assert.JSONEq(t, `null`, string(fields["applicationTailoring"]))

	var decoded AnalysisReport
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.True(t, decoded.Has(SectionNetwork))
	assert.False(t, decoded.Has(SectionGrowth))
	assert.False(t, decoded.Has(SectionStudio))
}

func TestAnalysisReport_NormalizeCore(t *testing.T) {
	r := &AnalysisReport{}
	r.NormalizeCore()
	assert.NotNil(t, r.Strengths)
	assert.NotNil(t, r.Skills.Technical)
	assert.NotNil(t, r.JobMatches)
	assert.NotNil(t, r.GroundingSources)
}

func TestTabs(t *testing.T) {
	tab, ok := ParseTab("interview")
	require.True(t, ok)
	section, ok := tab.Section()
	assert.True(t, ok)
	assert.Equal(t, SectionInterview, section)

	_, ok = TabDashboard.Section()
	assert.False(t, ok)
	_, ok = TabJobs.Section()
	assert.False(t, ok)
	_, ok = ParseTab("settings")
	assert.False(t, ok)

	assert.True(t, SectionStudio.Valid())
	assert.False(t, Section("jobs").Valid())
}
