package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/maheshdila/cv-gen-BE/internal/observability"
	"github.com/maheshdila/cv-gen-BE/internal/pipeline"
	"github.com/maheshdila/cv-gen-BE/internal/types"
	"github.com/maheshdila/cv-gen-BE/internal/userstore"
)

var (
	generateInput  string
	generateJob    string
	generateJobURL string
	generateOut    string
	generateSave   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a tailored CV from a request file",
	Long: `Run the full pipeline once: extraction, optimization, ordering, rendering, compilation,
upload and ATS scoring. The input is a JSON generation request ({"jobDescription", "jobUrl",
"formData"}); --job and --job-url override its job description.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateInput, "input", "i", "", "Path to the request JSON file, or - for stdin (required)")
	generateCmd.Flags().StringVarP(&generateJob, "job", "j", "", "Path to a job description text file")
	generateCmd.Flags().StringVar(&generateJobURL, "job-url", "", "URL to fetch the job description from")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Write the result JSON to this file instead of stdout")
	generateCmd.Flags().BoolVar(&generateSave, "save", false, "Save the request to the configured user store")
	_ = generateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(generateCmd)
}

// readRequest loads a generation request from path ("-" reads stdin) and applies the
// job overrides.
func readRequest(path string, stdin io.Reader, jobPath, jobURL string) (*types.GenerateRequest, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read request %s", path)
	}

	var req types.GenerateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.Wrapf(err, "failed to parse request %s", path)
	}

	if jobPath != "" && jobURL != "" {
		return nil, errors.New("--job and --job-url are mutually exclusive; provide only one")
	}
	if jobPath != "" {
		jd, err := os.ReadFile(jobPath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read job description %s", jobPath)
		}
		req.JobDescription = string(jd)
		req.JobURL = ""
	}
	if jobURL != "" {
		req.JobURL = jobURL
		req.JobDescription = ""
	}

	if err := req.Validate(); err != nil {
		return nil, errors.Errorf("invalid request: %s", strings.Join(types.ValidationMessages(err), "; "))
	}
	return &req, nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	req, err := readRequest(generateInput, cmd.InOrStdin(), generateJob, generateJobURL)
	if err != nil {
		return err
	}

	ctx := context.Background()
	application, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	if generateSave {
		store, err := newUserStore(ctx, cfg)
		if err != nil {
			return err
		}
		if store == nil {
			return errors.New("--save needs a user store (set USER_STORE)")
		}
		defer func() { _ = store.Close() }()

		rec, err := userstore.NewRecord(req, time.Now())
		if err != nil {
			return err
		}
		if err := store.Put(ctx, rec); err != nil {
			return errors.Wrap(err, "failed to save request")
		}
	}

	var onProgress pipeline.ProgressCallback
	printer := observability.NewPrinter(cmd.ErrOrStderr())
	if cfg.Verbose {
		onProgress = printer.PrintProgress
	}

	result, err := application.pipeline.Run(ctx, req, onProgress)
	if err != nil {
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) && stageErr.Diagnostic() != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "--- diagnostic ---\n%s\n", stageErr.Diagnostic())
		}
		return errors.Wrap(err, "generation failed")
	}

	if cfg.Verbose {
		printer.PrintJobRequirements(result.Requirements)
		printer.PrintProfile(result.Profile)
		printer.PrintMatch(result.Match)
		printer.PrintATSReport(result.ATS)
		printer.PrintResult(result)
	}

	return writeJSON(cmd.OutOrStdout(), generateOut, result)
}

// writeJSON pretty-prints v to path, or to w when path is empty.
func writeJSON(w io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal result")
	}
	data = append(data, '\n')
	if path == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
