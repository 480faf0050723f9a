package dto

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/fadilmartias/career-pulse/internal/model"
	"github.com/fadilmartias/career-pulse/internal/usecase"
	"github.com/google/uuid"
)

type ResumeRequest struct {
	Text     string `json:"text"`
	Data     string `json:"data"` // base64
	MIMEType string `json:"mimeType"`
}

type TargetJobRequest struct {
	Company     string `json:"company" form:"company"`
	Role        string `json:"role" form:"role"`
	Description string `json:"description" form:"description"`
}

func (r TargetJobRequest) ToModel() model.TargetJob {
	return model.TargetJob{
		Company:     strings.TrimSpace(r.Company),
		Role:        strings.TrimSpace(r.Role),
		Description: strings.TrimSpace(r.Description),
	}
}

func (r TargetJobRequest) IsEmpty() bool {
	job := r.ToModel()
	return job.IsZero()
}

type ProfileRequest struct {
	GithubUsername     string            `json:"githubUsername"`
	LeetcodeUsername   string            `json:"leetcodeUsername"`
	CodeforcesUsername string            `json:"codeforcesUsername"`
	CodechefUsername   string            `json:"codechefUsername"`
	CollegeName        string            `json:"collegeName"`
	Resume             ResumeRequest     `json:"resume"`
	TargetJob          *TargetJobRequest `json:"targetJob"`
}

// ToModel decodes the base64 resume payload. The profile is validated by
// the orchestrator.
func (r ProfileRequest) ToModel() (model.ProfileData, error) {
	profile := model.ProfileData{
		GithubUsername:     strings.TrimSpace(r.GithubUsername),
		LeetcodeUsername:   strings.TrimSpace(r.LeetcodeUsername),
		CodeforcesUsername: strings.TrimSpace(r.CodeforcesUsername),
		CodechefUsername:   strings.TrimSpace(r.CodechefUsername),
		CollegeName:        strings.TrimSpace(r.CollegeName),
		Resume: model.Resume{
			Text:     r.Resume.Text,
			MIMEType: strings.TrimSpace(r.Resume.MIMEType),
		},
	}
	if r.Resume.Data != "" {
		data, err := base64.StdEncoding.DecodeString(r.Resume.Data)
		if err != nil {
			return model.ProfileData{}, fmt.Errorf("%w: resume data is not valid base64", model.ErrInvalidProfile)
		}
		profile.Resume.Data = data
	}
	if r.TargetJob != nil && !r.TargetJob.IsEmpty() {
		job := r.TargetJob.ToModel()
		if err := job.Validate(); err != nil {
			return model.ProfileData{}, err
		}
		profile.TargetJob = &job
	}
	return profile, nil
}

type WorkspaceDTO struct {
	ID        uuid.UUID                             `json:"id"`
	SessionID uuid.UUID                             `json:"sessionId"`
	State     model.AppState                        `json:"state"`
	Error     string                                `json:"error,omitempty"`
	Sections  map[model.Section]model.SectionStatus `json:"sections"`
	TargetJob *model.TargetJob                      `json:"targetJob,omitempty"`
	Report    *model.AnalysisReport                 `json:"report,omitempty"`
}

func NewWorkspaceDTO(snap usecase.Snapshot) WorkspaceDTO {
	out := WorkspaceDTO{
		ID:        snap.WorkspaceID,
		SessionID: snap.SessionID,
		State:     snap.State,
		Error:     snap.Error,
		Sections:  snap.Statuses(),
		Report:    snap.Report,
	}
	if snap.Profile != nil {
		out.TargetJob = snap.Profile.TargetJob
	}
	return out
}

type ProgressDTO struct {
	ClientID  string `json:"clientId"`
	Completed []int  `json:"completed"`
}
