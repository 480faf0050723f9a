package config

import (
	"os"
	"sync"
)

type LogConfig struct {
	Level string
	File  string
}

var (
	logConfig *LogConfig
	logOnce   sync.Once
)

func LoadLogConfig() *LogConfig {
	logOnce.Do(func() {
		logConfig = &LogConfig{
			Level: envString("LOG_LEVEL", "info"),
			File:  os.Getenv("LOG_FILE"),
		}
	})
	return logConfig
}
