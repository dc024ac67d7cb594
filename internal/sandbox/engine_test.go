package sandbox

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"testbench/internal/domain/execution"
	"testbench/internal/domain/language"
	"testbench/internal/ports"
)

type stubWorkspace struct {
	result *execution.RawResult
	err    error
	delay  time.Duration
	owner  *stubProvisioner

	closed atomic.Bool
}

func (w *stubWorkspace) Run(ctx context.Context) (*execution.RawResult, error) {
	if w.delay > 0 {
		select {
		case <-time.After(w.delay):
		case <-ctx.Done():
			return w.result, ctx.Err()
		}
	}
	if w.err != nil {
		return w.result, w.err
	}
	return w.result, nil
}

func (w *stubWorkspace) Close() error {
	w.closed.Store(true)
	if w.owner != nil {
		atomic.AddInt32(&w.owner.active, -1)
	}
	return nil
}

type stubProvisioner struct {
	mu         sync.Mutex
	workspaces []*stubWorkspace
	err        error
	active     int32
	maxActive  int32
	closed     bool
}

func (p *stubProvisioner) Provision(ctx context.Context, req execution.Request) (ports.Workspace, error) {
	if p.err != nil {
		return nil, p.err
	}

	active := atomic.AddInt32(&p.active, 1)
	for {
		max := atomic.LoadInt32(&p.maxActive)
		if active <= max || atomic.CompareAndSwapInt32(&p.maxActive, max, active) {
			break
		}
	}

	w := &stubWorkspace{result: &execution.RawResult{ExitCode: 0, Stdout: "ok"}, owner: p, delay: time.Millisecond}
	p.mu.Lock()
	p.workspaces = append(p.workspaces, w)
	p.mu.Unlock()
	return w, nil
}

func (p *stubProvisioner) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

func request() execution.Request {
	return execution.Request{
		Source:   "def f():\n    pass\n",
		Test:     "def test_f():\n    assert True\n",
		Language: language.Python,
	}
}

func TestExecuteReturnsWorkspaceResult(t *testing.T) {
	t.Parallel()

	provisioner := &stubProvisioner{}
	engine := New(provisioner, Config{}, nil)

	result := engine.Execute(context.Background(), request())
	if result.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", result.ExitCode)
	}
	if result.Stdout != "ok" {
		t.Fatalf("expected stdout %q, got %q", "ok", result.Stdout)
	}
	if !provisioner.workspaces[0].closed.Load() {
		t.Fatalf("expected workspace to be torn down")
	}
}

func TestExecuteProvisionFailureIsSentinel(t *testing.T) {
	t.Parallel()

	provisioner := &stubProvisioner{err: errors.New("gcc not found")}
	engine := New(provisioner, Config{}, nil)

	result := engine.Execute(context.Background(), request())
	if result.ExitCode != execution.ExitNeverRan {
		t.Fatalf("expected sentinel %d, got %d", execution.ExitNeverRan, result.ExitCode)
	}
	if !strings.Contains(result.Stderr, "gcc not found") {
		t.Fatalf("expected diagnostic in stderr, got %q", result.Stderr)
	}
}

func TestExecuteTimeLimitIsSentinel(t *testing.T) {
	t.Parallel()

	slow := &slowProvisioner{}
	engine := New(slow, Config{Limits: execution.RunLimits{TimeLimit: 20 * time.Millisecond}}, nil)

	result := engine.Execute(context.Background(), request())
	if result.ExitCode != execution.ExitTimeout {
		t.Fatalf("expected sentinel %d, got %d", execution.ExitTimeout, result.ExitCode)
	}
	if result.Stdout != "partial" {
		t.Fatalf("expected partial stdout to survive, got %q", result.Stdout)
	}
	if !strings.Contains(result.Stderr, "time limit") {
		t.Fatalf("expected time limit notice in stderr, got %q", result.Stderr)
	}
	if !slow.workspace.closed.Load() {
		t.Fatalf("expected workspace to be torn down after timeout")
	}
}

type slowProvisioner struct {
	workspace *stubWorkspace
}

func (p *slowProvisioner) Provision(ctx context.Context, req execution.Request) (ports.Workspace, error) {
	p.workspace = &stubWorkspace{
		result: &execution.RawResult{Stdout: "partial"},
		delay:  time.Minute,
	}
	return p.workspace, nil
}

func (p *slowProvisioner) Close() error { return nil }

func TestExecuteCallerCancellationPreservesPartialOutput(t *testing.T) {
	t.Parallel()

	slow := &slowProvisioner{}
	engine := New(slow, Config{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	result := engine.Execute(ctx, request())
	if result.ExitCode != execution.ExitTimeout {
		t.Fatalf("expected sentinel %d, got %d", execution.ExitTimeout, result.ExitCode)
	}
	if result.Stdout != "partial" {
		t.Fatalf("expected partial stdout to survive, got %q", result.Stdout)
	}
	if !strings.Contains(result.Stderr, "canceled") {
		t.Fatalf("expected cancellation notice in stderr, got %q", result.Stderr)
	}
	if !slow.workspace.closed.Load() {
		t.Fatalf("expected workspace to be torn down after cancellation")
	}
}

func TestExecuteTruncatesOversizedOutput(t *testing.T) {
	t.Parallel()

	provisioner := &fixedProvisioner{result: &execution.RawResult{
		ExitCode: 1,
		Stdout:   strings.Repeat("a", 100),
		Stderr:   strings.Repeat("b", 100),
	}}
	engine := New(provisioner, Config{Limits: execution.RunLimits{MaxOutputBytes: 10}}, nil)

	result := engine.Execute(context.Background(), request())
	if !strings.HasPrefix(result.Stdout, strings.Repeat("a", 10)) || !strings.HasSuffix(result.Stdout, truncationMarker) {
		t.Fatalf("expected truncated stdout, got %q", result.Stdout)
	}
	if !strings.HasSuffix(result.Stderr, truncationMarker) {
		t.Fatalf("expected truncated stderr, got %q", result.Stderr)
	}
	if result.ExitCode != 1 {
		t.Fatalf("truncation must not change the exit code, got %d", result.ExitCode)
	}
}

type fixedProvisioner struct {
	result *execution.RawResult
}

func (p *fixedProvisioner) Provision(ctx context.Context, req execution.Request) (ports.Workspace, error) {
	return &stubWorkspace{result: p.result}, nil
}

func (p *fixedProvisioner) Close() error { return nil }

func TestExecuteTruncationKeepsValidUTF8(t *testing.T) {
	t.Parallel()

	// Two-byte runes with an odd cap, so the cut lands mid-rune.
	provisioner := &fixedProvisioner{result: &execution.RawResult{
		Stdout: "пример вывода",
	}}
	engine := New(provisioner, Config{Limits: execution.RunLimits{MaxOutputBytes: 9}}, nil)

	result := engine.Execute(context.Background(), request())
	if !strings.HasSuffix(result.Stdout, truncationMarker) {
		t.Fatalf("expected truncated stdout, got %q", result.Stdout)
	}
	if !utf8.ValidString(result.Stdout) {
		t.Fatalf("expected truncated stdout to remain valid UTF-8, got %q", result.Stdout)
	}
}

func TestExecuteBoundsConcurrency(t *testing.T) {
	t.Parallel()

	provisioner := &stubProvisioner{}
	engine := New(provisioner, Config{MaxWorkers: 2}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			engine.Execute(context.Background(), request())
		}()
	}
	wg.Wait()

	if max := atomic.LoadInt32(&provisioner.maxActive); max > 2 {
		t.Fatalf("expected at most 2 concurrent executions, observed %d", max)
	}
}

func TestExecuteConcurrentIdenticalRequests(t *testing.T) {
	t.Parallel()

	provisioner := &stubProvisioner{}
	engine := New(provisioner, Config{MaxWorkers: 4}, nil)

	const n = 10
	results := make([]execution.RawResult, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = engine.Execute(context.Background(), request())
		}(i)
	}
	wg.Wait()

	for i, result := range results {
		if result != results[0] {
			t.Fatalf("request %d diverged: %+v vs %+v", i, result, results[0])
		}
	}
	for _, w := range provisioner.workspaces {
		if !w.closed.Load() {
			t.Fatalf("expected every workspace to be torn down")
		}
	}
}

func TestExecuteCanceledContextNeverRuns(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := New(&stubProvisioner{}, Config{}, nil)
	result := engine.Execute(ctx, request())
	if result.ExitCode != execution.ExitNeverRan {
		t.Fatalf("expected sentinel %d, got %d", execution.ExitNeverRan, result.ExitCode)
	}
}

func TestCloseReleasesProvisioner(t *testing.T) {
	t.Parallel()

	provisioner := &stubProvisioner{}
	engine := New(provisioner, Config{}, nil)
	if err := engine.Close(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}
	if !provisioner.closed {
		t.Fatalf("expected provisioner to be closed")
	}
}
