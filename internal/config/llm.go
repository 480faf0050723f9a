package config

import (
	"strings"
	"sync"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

type LLMConfig struct {
	Provider string
}

var (
	llmConfig *LLMConfig
	llmOnce   sync.Once
)

func LoadLLMConfig() *LLMConfig {
	llmOnce.Do(func() {
		llmConfig = &LLMConfig{
			Provider: strings.ToLower(envString("LLM_PROVIDER", ProviderGemini)),
		}
	})
	return llmConfig
}
