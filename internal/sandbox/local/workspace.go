package local

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"testbench/internal/domain/execution"
)

// killGracePeriod bounds how long Wait may linger after the process group
// has been killed on cancellation.
const killGracePeriod = 5 * time.Second

type workspace struct {
	dir  string
	argv []string
	log  logrus.FieldLogger
}

// Run executes the prepared test command with the workspace directory as
// working directory, so relative imports and includes resolve. The command
// runs in its own process group; on context expiry the whole group is
// killed and the partial output is returned with ctx's error.
func (w *workspace) Run(ctx context.Context) (*execution.RawResult, error) {
	cmd := exec.CommandContext(ctx, w.argv[0], w.argv[1:]...)
	cmd.Dir = w.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = killGracePeriod

	err := cmd.Run()

	result := &execution.RawResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if ctx.Err() != nil {
		return result, ctx.Err()
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, fmt.Errorf("run test command: %w", err)
	}

	result.ExitCode = cmd.ProcessState.ExitCode()
	return result, nil
}

func (w *workspace) Close() error {
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("remove workspace %s: %w", w.dir, err)
	}
	w.log.WithField("workspace", w.dir).Debug("workspace removed")
	return nil
}
