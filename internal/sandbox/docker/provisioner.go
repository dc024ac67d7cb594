// Package docker provisions execution workspaces as one-shot containers:
// per-request container, tar-copied workspace files, in-container toolchain.
// The container image is the isolated runtime environment, so interpreter
// dependencies installed for one request can never touch another.
package docker

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/docker/docker/api/types/container"
	typesimage "github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/sirupsen/logrus"

	"testbench/internal/domain/execution"
	"testbench/internal/domain/language"
	"testbench/internal/ports"
	"testbench/internal/sandbox/scaffold"
)

// Provisioner implements ports.Provisioner backed by Docker containers.
type Provisioner struct {
	cli    dockerClient
	cfg    Config
	images map[language.Language]*imagePull
	log    logrus.FieldLogger
}

type imagePull struct {
	once sync.Once
	err  error
}

// New constructs a container-backed provisioner using the host's Docker
// environment configuration.
func New(cfg Config, log logrus.FieldLogger) (*Provisioner, error) {
	if len(cfg.Languages) == 0 {
		return nil, fmt.Errorf("docker sandbox: at least one language must be configured")
	}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker sandbox: create client: %w", err)
	}

	return newWithClient(cli, cfg, log), nil
}

func newWithClient(cli dockerClient, cfg Config, log logrus.FieldLogger) *Provisioner {
	if log == nil {
		log = logrus.StandardLogger()
	}

	images := make(map[language.Language]*imagePull, len(cfg.Languages))
	for lang := range cfg.Languages {
		images[lang] = &imagePull{}
	}

	return &Provisioner{cli: cli, cfg: cfg, images: images, log: log}
}

// Provision creates a container for the request's language, stages the
// workspace files into it, and returns a workspace whose Run starts the
// container. The container is removed on every failure path.
func (p *Provisioner) Provision(ctx context.Context, req execution.Request) (ports.Workspace, error) {
	langCfg, ok := p.cfg.Languages[req.Language]
	if !ok {
		return nil, &execution.ProvisionError{
			Kind:    execution.KindUnsupportedLanguage,
			Message: fmt.Sprintf("no container image configured for language %q", req.Language),
		}
	}
	workdir := langCfg.Workdir
	if workdir == "" {
		workdir = "/workspace"
	}

	if err := p.ensureImage(ctx, req.Language, langCfg.Image); err != nil {
		return nil, &execution.ProvisionError{
			Kind:    execution.KindToolchainMissing,
			Message: fmt.Sprintf("pull image %s: %v", langCfg.Image, err),
		}
	}

	files, err := scaffold.Files(req)
	if err != nil {
		return nil, err
	}

	hostConfig := &container.HostConfig{
		Resources: container.Resources{
			NanoCPUs: 1_000_000_000,
		},
	}
	if p.cfg.Limits.MemoryLimitBytes > 0 {
		hostConfig.Resources.Memory = p.cfg.Limits.MemoryLimitBytes
		hostConfig.Resources.MemorySwap = p.cfg.Limits.MemoryLimitBytes
	}

	resp, err := p.cli.ContainerCreate(
		ctx,
		&container.Config{
			Image:        langCfg.Image,
			Cmd:          containerCommand(req.Language),
			AttachStdout: true,
			AttachStderr: true,
			WorkingDir:   workdir,
		},
		hostConfig,
		nil,
		nil,
		"",
	)
	if err != nil {
		return nil, fmt.Errorf("create container: %w", err)
	}

	remove := func() {
		_ = p.cli.ContainerRemove(context.Background(), resp.ID, container.RemoveOptions{Force: true})
	}

	archive, err := makeArchive(files)
	if err != nil {
		remove()
		return nil, err
	}
	if err := p.cli.CopyToContainer(ctx, resp.ID, workdir, archive, copyToContainerOptions()); err != nil {
		remove()
		return nil, fmt.Errorf("copy workspace files: %w", err)
	}

	p.log.WithFields(logrus.Fields{"language": req.Language, "container": resp.ID}).Debug("container provisioned")
	return &containerWorkspace{cli: p.cli, id: resp.ID, log: p.log}, nil
}

// Close releases the Docker client.
func (p *Provisioner) Close() error {
	if err := p.cli.Close(); err != nil {
		return fmt.Errorf("docker client: %w", err)
	}
	return nil
}

func (p *Provisioner) ensureImage(ctx context.Context, lang language.Language, ref string) error {
	pull := p.images[lang]
	pull.once.Do(func() {
		reader, err := p.cli.ImagePull(ctx, ref, typesimage.PullOptions{})
		if err != nil {
			pull.err = err
			return
		}
		defer reader.Close()
		if _, err := io.Copy(io.Discard, reader); err != nil {
			pull.err = fmt.Errorf("consume pull output: %w", err)
		}
	})
	return pull.err
}

// containerCommand provisions and runs inside a single container: the image
// carries the toolchain, so dependency install and compilation happen there.
func containerCommand(lang language.Language) []string {
	switch lang {
	case language.Python:
		return []string{"sh", "-c",
			"pip install --quiet --disable-pip-version-check -r " + scaffold.RequirementsFile +
				" && exec python -m pytest " + scaffold.PythonTestFile}
	case language.C:
		return []string{"sh", "-c",
			"gcc -std=c99 -I. -o " + scaffold.RunnerBinary + " " +
				scaffold.CMainFile + " " + scaffold.CTestFile + " " + scaffold.CSourceFile +
				" && exec ./" + scaffold.RunnerBinary}
	case language.Go:
		return []string{"sh", "-c",
			"go test -c -o " + scaffold.RunnerBinary + " . && exec ./" + scaffold.RunnerBinary + " -test.v"}
	default:
		return nil
	}
}
