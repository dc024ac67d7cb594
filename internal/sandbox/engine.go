// Package sandbox executes untrusted generated test code against untrusted
// source code in isolated, ephemeral workspaces and returns verbatim process
// output.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"testbench/internal/domain/execution"
	"testbench/internal/ports"
)

const (
	DefaultMaxWorkers     = 4
	DefaultTimeLimit      = 60 * time.Second
	DefaultMaxOutputBytes = 1 << 20

	truncationMarker = "\n[output truncated]"
)

// Config bounds the engine's resource usage.
type Config struct {
	// MaxWorkers caps concurrent requests; requests beyond the bound
	// queue rather than fail.
	MaxWorkers int
	// Limits carries the per-run resource caps. The engine enforces
	// TimeLimit and MaxOutputBytes; MemoryLimitBytes is enforced by
	// backends that support it.
	Limits execution.RunLimits
}

// Engine runs execution requests through a provisioner backend with bounded
// concurrency, a wall-clock limit and guaranteed workspace teardown. The
// semaphore is the only process-wide shared resource; everything else is
// request-scoped.
type Engine struct {
	provisioner ports.Provisioner
	sem         *semaphore.Weighted
	timeLimit   time.Duration
	maxOutput   int
	log         logrus.FieldLogger
}

// New constructs an Engine. Zero config fields fall back to defaults.
func New(provisioner ports.Provisioner, cfg Config, log logrus.FieldLogger) *Engine {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = DefaultMaxWorkers
	}
	if cfg.Limits.TimeLimit <= 0 {
		cfg.Limits.TimeLimit = DefaultTimeLimit
	}
	if cfg.Limits.MaxOutputBytes <= 0 {
		cfg.Limits.MaxOutputBytes = DefaultMaxOutputBytes
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Engine{
		provisioner: provisioner,
		sem:         semaphore.NewWeighted(int64(cfg.MaxWorkers)),
		timeLimit:   cfg.Limits.TimeLimit,
		maxOutput:   cfg.Limits.MaxOutputBytes,
		log:         log,
	}
}

// Execute provisions a workspace for the request, runs the prepared test
// command under the engine's time limit, and returns the captured output.
// It never returns an error: provisioning failures and timeouts become
// results carrying the sentinel exit codes. The workspace is torn down on
// every path before Execute returns.
func (e *Engine) Execute(ctx context.Context, req execution.Request) execution.RawResult {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return neverRan(fmt.Sprintf("execution aborted while queued: %v", err))
	}
	defer e.sem.Release(1)

	workspace, err := e.provisioner.Provision(ctx, req)
	if err != nil {
		e.log.WithField("language", req.Language).WithError(err).Debug("provisioning failed")
		return neverRan(err.Error())
	}
	defer func() {
		// A teardown failure is logged but never masks the run result.
		if cerr := workspace.Close(); cerr != nil {
			e.log.WithError(cerr).Warn("workspace teardown failed")
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, e.timeLimit)
	defer cancel()

	result, runErr := workspace.Run(runCtx)
	if runErr != nil {
		switch {
		case errors.Is(runErr, context.DeadlineExceeded) && ctx.Err() == nil:
			return e.timedOut(result)
		case ctx.Err() != nil:
			// Caller cancellation rides the same forced-termination path
			// as a timeout; the run did start, so partial output survives.
			return e.interrupted(result, "canceled by caller")
		default:
			return neverRan(fmt.Sprintf("sandbox failure: %v", runErr))
		}
	}
	if result == nil {
		return neverRan("sandbox returned no result")
	}

	out := *result
	out.Stdout = truncate(out.Stdout, e.maxOutput)
	out.Stderr = truncate(out.Stderr, e.maxOutput)
	return out
}

// Close releases the provisioner backend.
func (e *Engine) Close() error {
	return e.provisioner.Close()
}

func (e *Engine) timedOut(partial *execution.RawResult) execution.RawResult {
	return e.interrupted(partial, fmt.Sprintf("time limit of %s exceeded", e.timeLimit))
}

func (e *Engine) interrupted(partial *execution.RawResult, reason string) execution.RawResult {
	out := execution.RawResult{ExitCode: execution.ExitTimeout}
	if partial != nil {
		out.Stdout = truncate(partial.Stdout, e.maxOutput)
		out.Stderr = truncate(partial.Stderr, e.maxOutput)
	}
	if out.Stderr != "" {
		out.Stderr += "\n"
	}
	out.Stderr += fmt.Sprintf("[execution terminated: %s]", reason)
	return out
}

func neverRan(diagnostic string) execution.RawResult {
	return execution.RawResult{ExitCode: execution.ExitNeverRan, Stderr: diagnostic}
}

// truncate caps s at limit bytes, backing up to a rune boundary so the
// retained prefix stays valid UTF-8.
func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + truncationMarker
}
