package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/sirupsen/logrus"

	"testbench/internal/domain/execution"
)

const (
	stopTimeout = 5 * time.Second
	waitTimeout = 15 * time.Second
)

type containerWorkspace struct {
	cli dockerClient
	id  string
	log logrus.FieldLogger
}

// Run starts the provisioned container and waits for it to exit. When ctx
// expires first, the container is force-stopped and the logs captured so
// far are returned together with ctx's error.
func (w *containerWorkspace) Run(ctx context.Context) (*execution.RawResult, error) {
	if err := w.cli.ContainerStart(ctx, w.id, container.StartOptions{}); err != nil {
		return nil, fmt.Errorf("start container: %w", err)
	}

	status, err := w.waitForExit(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return w.interrupt(ctx)
		}
		return nil, err
	}

	stdout, stderr, err := w.fetchLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch logs: %w", err)
	}

	return &execution.RawResult{
		ExitCode: int(status.StatusCode),
		Stdout:   stdout,
		Stderr:   stderr,
	}, nil
}

func (w *containerWorkspace) Close() error {
	if err := w.cli.ContainerRemove(context.Background(), w.id, container.RemoveOptions{Force: true}); err != nil && !client.IsErrNotFound(err) {
		return fmt.Errorf("remove container %s: %w", w.id, err)
	}
	w.log.WithField("container", w.id).Debug("container removed")
	return nil
}

// interrupt stops the expired container and salvages partial output. The
// original ctx is already dead, so fresh bounded contexts drive the cleanup
// calls.
func (w *containerWorkspace) interrupt(ctx context.Context) (*execution.RawResult, error) {
	stopCtx, cancelStop := context.WithTimeout(context.Background(), stopTimeout)
	defer cancelStop()
	if err := w.cli.ContainerStop(stopCtx, w.id, container.StopOptions{}); err != nil && !client.IsErrNotFound(err) {
		return nil, fmt.Errorf("stop container after time limit: %w", err)
	}

	waitCtx, cancelWait := context.WithTimeout(context.Background(), waitTimeout)
	defer cancelWait()
	if _, err := w.waitForExit(waitCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) && !client.IsErrNotFound(err) {
		return nil, fmt.Errorf("wait for container after time limit: %w", err)
	}

	stdout, stderr, err := w.fetchLogs(context.Background())
	if err != nil {
		return nil, fmt.Errorf("fetch logs: %w", err)
	}

	return &execution.RawResult{
		ExitCode: execution.ExitTimeout,
		Stdout:   stdout,
		Stderr:   stderr,
	}, ctx.Err()
}

func (w *containerWorkspace) waitForExit(ctx context.Context) (*container.WaitResponse, error) {
	statusCh, errCh := w.cli.ContainerWait(ctx, w.id, container.WaitConditionNotRunning)
	select {
	case status := <-statusCh:
		if status.Error != nil {
			return nil, fmt.Errorf("container error: %s", status.Error.Message)
		}
		return &status, nil
	case err := <-errCh:
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("wait for container: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (w *containerWorkspace) fetchLogs(ctx context.Context) (stdout, stderr string, err error) {
	if ctx.Err() != nil {
		ctx = context.Background()
	}

	logs, err := w.cli.ContainerLogs(ctx, w.id, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return "", "", err
	}
	defer logs.Close()

	var stdoutBuf, stderrBuf bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdoutBuf, &stderrBuf, logs); err != nil {
		return "", "", err
	}

	return stdoutBuf.String(), stderrBuf.String(), nil
}
