package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"testbench/internal/domain/language"
	dockersandbox "testbench/internal/sandbox/docker"
)

const (
	defaultBackend    = "local"
	pythonDockerImage = "python:3.12-alpine"
	cDockerImage      = "gcc:13"
	goDockerImage     = "golang:1.24-alpine"
	containerWorkdir  = "/workspace"
)

type appConfig struct {
	Backend        string
	TimeLimit      time.Duration
	MaxParallel    int
	MaxOutputBytes int
	MemoryLimit    int64
	RuntimesFile   string
}

// loadAppConfig reads configuration from the environment. Zero values defer
// to the sandbox engine's defaults.
func loadAppConfig() appConfig {
	return appConfig{
		Backend:        envOrDefault("SANDBOX_BACKEND", defaultBackend),
		TimeLimit:      parseDuration(os.Getenv("SANDBOX_TIME_LIMIT"), 0),
		MaxParallel:    parseMaxParallel(os.Getenv("SANDBOX_MAX_PARALLEL")),
		MaxOutputBytes: int(parseBytes(os.Getenv("SANDBOX_MAX_OUTPUT"))),
		MemoryLimit:    parseBytes(os.Getenv("SANDBOX_MEMORY_LIMIT")),
		RuntimesFile:   os.Getenv("SANDBOX_RUNTIMES_FILE"),
	}
}

type runtimeSpec struct {
	Image   string `yaml:"image"`
	Workdir string `yaml:"workdir"`
}

// loadRuntimes returns the container image per language for the docker
// backend: built-in defaults, overridden by an optional YAML file keyed by
// language tag.
func loadRuntimes(path string) (map[language.Language]dockersandbox.LanguageConfig, error) {
	runtimes := defaultRuntimes()
	if path == "" {
		return runtimes, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read runtimes file: %w", err)
	}

	var specs map[string]runtimeSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parse runtimes file %s: %w", path, err)
	}

	for tag, spec := range specs {
		lang, ok := language.Parse(tag)
		if !ok {
			return nil, fmt.Errorf("runtimes file %s: unknown language %q", path, tag)
		}
		cfg := runtimes[lang]
		if spec.Image != "" {
			cfg.Image = spec.Image
		}
		if spec.Workdir != "" {
			cfg.Workdir = spec.Workdir
		}
		runtimes[lang] = cfg
	}

	return runtimes, nil
}

func defaultRuntimes() map[language.Language]dockersandbox.LanguageConfig {
	return map[language.Language]dockersandbox.LanguageConfig{
		language.Python: {Image: envOrDefault("PYTHON_IMAGE", pythonDockerImage), Workdir: containerWorkdir},
		language.C:      {Image: envOrDefault("C_IMAGE", cDockerImage), Workdir: containerWorkdir},
		language.Go:     {Image: envOrDefault("GO_IMAGE", goDockerImage), Workdir: containerWorkdir},
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func parseBytes(raw string) int64 {
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

func parseMaxParallel(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0
	}
	return value
}
