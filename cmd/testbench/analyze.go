package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"testbench/internal/analysis"
)

var analyzeLang string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <source-file>",
	Short: "Print the structural outline of a source file as JSON",
	Long: `Analyze parses a source file and prints its callable surface as JSON:
top-level functions with parameters and annotations, plus classes or structs
with their methods and fields. Syntax errors and unsupported languages are
reported inside the JSON envelope, never as a non-zero exit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read source file: %w", err)
		}

		tag := analyzeLang
		if tag == "" {
			tag = languageFromPath(args[0])
		}

		cmd.Println(string(analysis.Default().AnalyzeJSON(string(source), tag)))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeLang, "lang", "l", "", "source language (python, c, go); inferred from the file extension when omitted")
}

func languageFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return "python"
	case ".c", ".h":
		return "c"
	case ".go":
		return "go"
	default:
		return ""
	}
}
