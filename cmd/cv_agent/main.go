// Package main provides the cv_agent CLI: the HTTP API server plus one-shot generation,
// scoring and token commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "cv_agent",
	Short: "Job-tailored CV generator",
	Long: `cv_agent turns a candidate profile and a job description into a tailored, typeset PDF CV.
It extracts and optimizes the profile with an LLM, orders entries by relevance and recency,
compiles the document with Typst, uploads it to S3 and scores it for ATS compatibility.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json (environment variables override file values)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed progress information")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
