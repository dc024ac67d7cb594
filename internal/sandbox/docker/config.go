package docker

import (
	"testbench/internal/domain/execution"
	"testbench/internal/domain/language"
)

// Config describes how to create the container-backed provisioner.
type Config struct {
	Languages map[language.Language]LanguageConfig
	// Limits supplies backend-enforced resource caps. Only
	// MemoryLimitBytes applies here; time and output caps are enforced
	// by the execution engine.
	Limits execution.RunLimits
}

// LanguageConfig specifies container settings for a single language.
type LanguageConfig struct {
	Image   string
	Workdir string
}
