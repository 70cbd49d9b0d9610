package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/maheshdila/cv-gen-BE/internal/ats"
	"github.com/maheshdila/cv-gen-BE/internal/observability"
)

var (
	scorePDF string
	scoreJob string
	scoreOut string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score an existing PDF CV against a job description",
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scorePDF, "pdf", "", "Path to the PDF to score (required)")
	scoreCmd.Flags().StringVarP(&scoreJob, "job", "j", "", "Path to the job description text file (required)")
	scoreCmd.Flags().StringVarP(&scoreOut, "out", "o", "", "Write the report JSON to this file instead of stdout")
	_ = scoreCmd.MarkFlagRequired("pdf")
	_ = scoreCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}

	jd, err := os.ReadFile(scoreJob)
	if err != nil {
		return errors.Wrapf(err, "failed to read job description %s", scoreJob)
	}

	report, err := ats.NewScorer().ScoreDocument(context.Background(), scorePDF, string(jd))
	if err != nil {
		return errors.Wrap(err, "scoring failed")
	}

	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintATSReport(report)
	}
	return writeJSON(cmd.OutOrStdout(), scoreOut, report)
}
