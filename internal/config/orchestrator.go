package config

import (
	"sync"
	"time"
)

type OrchestratorConfig struct {
	CoreTimeout    time.Duration
	SectionTimeout time.Duration
	MaxWorkspaces  int
}

var (
	orchestratorConfig *OrchestratorConfig
	orchestratorOnce   sync.Once
)

func LoadOrchestratorConfig() *OrchestratorConfig {
	orchestratorOnce.Do(func() {
		orchestratorConfig = &OrchestratorConfig{
			CoreTimeout:    envDuration("CORE_TIMEOUT", 3*time.Minute),
			SectionTimeout: envDuration("SECTION_TIMEOUT", 2*time.Minute),
			MaxWorkspaces:  envInt("MAX_WORKSPACES", 1000),
		}
	})
	return orchestratorConfig
}
