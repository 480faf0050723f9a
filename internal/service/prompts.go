package service

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/fadilmartias/career-pulse/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPrompts []byte

const (
	contextPlaceholder = "{{context}}"
	jobSnippetLength   = 300
)

type PromptSpec struct {
	Prompt    string `yaml:"prompt"`
	WebSearch bool   `yaml:"web_search"`
}

// PromptCatalog holds the prompt for the core call and each section.
type PromptCatalog struct {
	Core      PromptSpec `yaml:"core"`
	Growth    PromptSpec `yaml:"growth"`
	Interview PromptSpec `yaml:"interview"`
	Network   PromptSpec `yaml:"network"`
	Pulse     PromptSpec `yaml:"pulse"`
	Studio    PromptSpec `yaml:"studio"`
}

func DefaultPromptCatalog() (*PromptCatalog, error) {
	return LoadPromptCatalog(defaultPrompts)
}

func LoadPromptCatalog(data []byte) (*PromptCatalog, error) {
	var catalog PromptCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse prompt catalog: %w", err)
	}

	for name, spec := range map[string]PromptSpec{
		"core":      catalog.Core,
		"growth":    catalog.Growth,
		"interview": catalog.Interview,
		"network":   catalog.Network,
		"pulse":     catalog.Pulse,
		"studio":    catalog.Studio,
	} {
		if strings.TrimSpace(spec.Prompt) == "" {
			return nil, fmt.Errorf("prompt catalog: %s prompt is empty", name)
		}
	}
	return &catalog, nil
}

// Render substitutes the profile context into the prompt.
func (s PromptSpec) Render(profile model.ProfileData) string {
	return strings.ReplaceAll(s.Prompt, contextPlaceholder, buildContext(profile))
}

func buildContext(p model.ProfileData) string {
	var sb strings.Builder
	line := func(label, value string) {
		if v := strings.TrimSpace(value); v != "" {
			fmt.Fprintf(&sb, "- %s: %s\n", label, v)
		}
	}
	line("GitHub", p.GithubUsername)
	line("LeetCode", p.LeetcodeUsername)
	line("Codeforces", p.CodeforcesUsername)
	line("CodeChef", p.CodechefUsername)
	line("College", p.CollegeName)

	if p.HasTargetJob() {
		job := p.TargetJob
		fmt.Fprintf(&sb, "\nJob: %s @ %s\nJD Snippet: %s\n", job.Role, job.Company, snippet(job.Description, jobSnippetLength))
	}
	if sb.Len() == 0 {
		return "- (resume only)\n"
	}
	return sb.String()
}

func snippet(s string, n int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n]) + "..."
}
