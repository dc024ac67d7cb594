package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"testbench/internal/domain/execution"
	"testbench/internal/domain/language"
	"testbench/internal/ports"
	"testbench/internal/report"
	"testbench/internal/sandbox"
	dockersandbox "testbench/internal/sandbox/docker"
	"testbench/internal/sandbox/local"
)

var (
	runLang string
	runRaw  bool
)

var runCmd = &cobra.Command{
	Use:   "run <source-file> <test-file>",
	Short: "Execute a generated test suite against its source in a sandbox",
	Long: `Run stages the source file and its generated test suite into an isolated,
ephemeral workspace, executes the suite with the language's conventional
runner, and prints a structured pass/fail report as JSON. The sandbox backend
is chosen with SANDBOX_BACKEND: "local" runs host processes in a temporary
directory, "docker" runs one-shot containers.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read source file: %w", err)
		}
		test, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read test file: %w", err)
		}

		tag := runLang
		if tag == "" {
			tag = languageFromPath(args[0])
		}
		lang, ok := language.Parse(tag)
		if !ok {
			return fmt.Errorf("unsupported language %q", tag)
		}

		cfg := loadAppConfig()
		provisioner, err := newProvisioner(cfg)
		if err != nil {
			return err
		}

		engine := sandbox.New(provisioner, sandbox.Config{
			MaxWorkers: cfg.MaxParallel,
			Limits: execution.RunLimits{
				TimeLimit:      cfg.TimeLimit,
				MaxOutputBytes: cfg.MaxOutputBytes,
			},
		}, log)
		defer func() {
			if cerr := engine.Close(); cerr != nil {
				log.WithError(cerr).Warn("failed to close sandbox")
			}
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		raw := engine.Execute(ctx, execution.Request{
			Source:   string(source),
			Test:     string(test),
			Language: lang,
		})

		var out any = report.Default().Parse(raw, tag)
		if runRaw {
			out = raw
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runLang, "lang", "l", "", "source language (python, c, go); inferred from the source file extension when omitted")
	runCmd.Flags().BoolVar(&runRaw, "raw", false, "print the raw exit code and captured streams instead of the parsed report")
}

func newProvisioner(cfg appConfig) (ports.Provisioner, error) {
	switch cfg.Backend {
	case "local":
		return local.NewProvisioner(log), nil
	case "docker":
		runtimes, err := loadRuntimes(cfg.RuntimesFile)
		if err != nil {
			return nil, err
		}
		return dockersandbox.New(dockersandbox.Config{
			Languages: runtimes,
			Limits:    execution.RunLimits{MemoryLimitBytes: cfg.MemoryLimit},
		}, log)
	default:
		return nil, fmt.Errorf("unknown sandbox backend %q (expected \"local\" or \"docker\")", cfg.Backend)
	}
}
