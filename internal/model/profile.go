package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidProfile   = errors.New("invalid profile")
	ErrInvalidTargetJob = errors.New("invalid target job")
)

var validate = validator.New()

// Resume is either raw text or a binary blob tagged with its MIME type.
type Resume struct {
	Text     string `json:"text,omitempty"`
	Data     []byte `json:"data,omitempty"`
	MIMEType string `json:"mimeType,omitempty" validate:"required_with=Data"`
}

func (r Resume) IsBlob() bool {
	return len(r.Data) > 0
}

func (r Resume) IsEmpty() bool {
	return strings.TrimSpace(r.Text) == "" && len(r.Data) == 0
}

type TargetJob struct {
	Company     string `json:"company" validate:"required"`
	Role        string `json:"role" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// Validate rejects a target job with any blank field.
func (j TargetJob) Validate() error {
	job := TargetJob{
		Company:     strings.TrimSpace(j.Company),
		Role:        strings.TrimSpace(j.Role),
		Description: strings.TrimSpace(j.Description),
	}
	if err := validate.Struct(job); err != nil {
		return fmt.Errorf("%w: company, role and description are required: %v", ErrInvalidTargetJob, err)
	}
	return nil
}

func (j *TargetJob) IsZero() bool {
	return j == nil || (strings.TrimSpace(j.Company) == "" &&
		strings.TrimSpace(j.Role) == "" &&
		strings.TrimSpace(j.Description) == "")
}

// ProfileData is the immutable analysis input. TargetJob is the only part
// that may be replaced later, and only through WithTargetJob.
type ProfileData struct {
	GithubUsername     string     `json:"githubUsername,omitempty"`
	LeetcodeUsername   string     `json:"leetcodeUsername,omitempty"`
	CodeforcesUsername string     `json:"codeforcesUsername,omitempty"`
	CodechefUsername   string     `json:"codechefUsername,omitempty"`
	CollegeName        string     `json:"collegeName,omitempty"`
	Resume             Resume     `json:"resume"`
	TargetJob          *TargetJob `json:"targetJob,omitempty"`
}

func (p ProfileData) Validate() error {
	if p.Resume.IsEmpty() {
		return fmt.Errorf("%w: resume content is required", ErrInvalidProfile)
	}
	if err := validate.Struct(p.Resume); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return nil
}

func (p ProfileData) HasTargetJob() bool {
	return !p.TargetJob.IsZero()
}

// WithTargetJob returns a copy of the profile carrying job.
func (p ProfileData) WithTargetJob(job TargetJob) ProfileData {
	p.TargetJob = &job
	return p
}

// Clone copies the profile so the caller cannot reach shared pointers.
func (p ProfileData) Clone() ProfileData {
	if p.TargetJob != nil {
		job := *p.TargetJob
		p.TargetJob = &job
	}
	if p.Resume.Data != nil {
		p.Resume.Data = append([]byte(nil), p.Resume.Data...)
	}
	return p
}
