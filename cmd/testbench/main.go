package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "testbench",
	Short: "Structural analysis and sandboxed execution for generated test suites",
	Long: `Testbench supports automated test-suite generation in two ways: it extracts
the structural outline of a source file (the functions, classes and structs a
generator needs to target), and it executes a generated test suite against its
source inside an isolated sandbox, reducing the runner output to a structured
pass/fail report.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid LOG_LEVEL %q, defaulting to 'info'\n", logLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(runCmd)
}
