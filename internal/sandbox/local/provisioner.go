// Package local provisions execution workspaces as host-process
// environments: a uniquely named temporary directory per request, an
// isolated interpreter environment for interpreted languages and a compiled
// test binary for compiled ones.
package local

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"testbench/internal/domain/execution"
	"testbench/internal/domain/language"
	"testbench/internal/ports"
	"testbench/internal/sandbox/scaffold"
)

// Provisioner implements ports.Provisioner with host toolchains.
type Provisioner struct {
	log logrus.FieldLogger
}

func NewProvisioner(log logrus.FieldLogger) *Provisioner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Provisioner{log: log}
}

// Provision stages the request's file set into a fresh temporary directory
// and prepares the language's runtime or test binary. On any failure the
// directory is removed before returning.
func (p *Provisioner) Provision(ctx context.Context, req execution.Request) (ports.Workspace, error) {
	files, err := scaffold.Files(req)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "testbench-")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	for _, file := range files {
		mode := fs.FileMode(file.Mode)
		if mode == 0 {
			mode = 0o644
		}
		if err := os.WriteFile(filepath.Join(dir, file.Name), file.Data, mode); err != nil {
			cleanup()
			return nil, fmt.Errorf("write %s: %w", file.Name, err)
		}
	}

	argv, err := p.prepare(ctx, dir, req)
	if err != nil {
		cleanup()
		return nil, err
	}

	p.log.WithFields(logrus.Fields{"language": req.Language, "workspace": dir}).Debug("workspace provisioned")
	return &workspace{dir: dir, argv: argv, log: p.log}, nil
}

func (p *Provisioner) Close() error {
	return nil
}

func (p *Provisioner) prepare(ctx context.Context, dir string, req execution.Request) ([]string, error) {
	switch req.Language {
	case language.Python:
		return preparePython(ctx, dir)
	case language.C:
		return prepareC(ctx, dir)
	case language.Go:
		return prepareGo(ctx, dir)
	default:
		return nil, &execution.ProvisionError{
			Kind:    execution.KindUnsupportedLanguage,
			Message: fmt.Sprintf("unsupported language: %s", req.Language),
		}
	}
}

// runTool runs a provisioning command inside the workspace and returns its
// combined output. A non-zero exit is an error here, unlike at test runtime.
func runTool(ctx context.Context, dir string, extraEnv []string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func lookPath(binary string, hint string) (string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", &execution.ProvisionError{
			Kind:    execution.KindToolchainMissing,
			Message: fmt.Sprintf("%s not found on host: %s", binary, hint),
		}
	}
	return path, nil
}
