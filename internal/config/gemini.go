package config

import (
	"os"
	"sync"
)

type GeminiConfig struct {
	APIKey string
	Model  string
	RPM    int
	Burst  int
}

var (
	geminiConfig *GeminiConfig
	geminiOnce   sync.Once
)

func LoadGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		geminiConfig = &GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  envString("GEMINI_MODEL", "gemini-3-flash-preview"),
			RPM:    envInt("GEMINI_RPM", 60),
			Burst:  envInt("GEMINI_BURST", 6),
		}
	})
	return geminiConfig
}
