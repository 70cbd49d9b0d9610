// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/maheshdila/cv-gen-BE/internal/ats"
	"github.com/maheshdila/cv-gen-BE/internal/pipeline"
	"github.com/maheshdila/cv-gen-BE/internal/ranking"
	"github.com/maheshdila/cv-gen-BE/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList writes up to limit items as bullets, then a count of the rest.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	for _, item := range items[:min(len(items), limit)] {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintJobRequirements outputs the requirements derived from the job description.
func (p *Printer) PrintJobRequirements(req *types.JobRequirements) {
	if req == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Seniority:  %s\n", req.Seniority))
	if req.MinYears > 0 {
		sb.WriteString(fmt.Sprintf("Experience: %d+ years\n", req.MinYears))
	}
	sb.WriteString("\n")
	writeList(&sb, "Technologies", req.Technologies, maxItemsToShow*2)
	writeList(&sb, "Keywords", req.IndustryKeywords, maxItemsToShow)

	p.printBox("JOB REQUIREMENTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProfile outputs the order of entries in the tailored profile.
func (p *Printer) PrintProfile(profile *types.CandidateProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:  %s\n", profile.PersonalDetails.FullName))
	sb.WriteString(fmt.Sprintf("Email: %s\n", profile.PersonalDetails.Email))
	if profile.Summary != "" {
		sb.WriteString(fmt.Sprintf("Summary: %s\n", truncate(profile.Summary, 45)))
	}
	sb.WriteString("\n")

	work := make([]string, 0, len(profile.WorkExperience))
	for _, w := range profile.WorkExperience {
		end := w.EndDate
		if w.CurrentlyWorking || end == "" {
			end = "Present"
		}
		work = append(work, fmt.Sprintf("%s, %s (%s - %s)", w.JobTitle, w.Company, w.StartDate, end))
	}
	writeList(&sb, "Work Experience", work, maxItemsToShow)

	projects := make([]string, 0, len(profile.Projects))
	for _, pr := range profile.Projects {
		entry := pr.Name
		if len(pr.Skills) > 0 {
			entry += " [" + strings.Join(pr.Skills, ", ") + "]"
		}
		projects = append(projects, entry)
	}
	writeList(&sb, "Projects", projects, maxItemsToShow)

	sb.WriteString(fmt.Sprintf("Education: %d  Certifications: %d  Achievements: %d\n",
		len(profile.Education), len(profile.Certifications), len(profile.Achievements)))

	p.printBox("TAILORED PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatch outputs how the candidate's skills cover the required technologies.
func (p *Printer) PrintMatch(match *ranking.MatchReport) {
	if match == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Coverage: %.1f%%\n\n", match.Percentage))
	writeList(&sb, "Matched", match.Matched, maxItemsToShow)
	writeList(&sb, "Missing", match.Missing, maxItemsToShow)

	p.printBox("SKILL MATCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintATSReport outputs the ATS score breakdown and recommendations.
func (p *Printer) PrintATSReport(report *ats.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall: %6.2f  %s\n", report.Overall, report.Feedback))
	sb.WriteString(fmt.Sprintf("Keyword: %6.2f\n", report.Keyword))
	sb.WriteString(fmt.Sprintf("Format:  %6.2f\n", report.Format))
	sb.WriteString(fmt.Sprintf("Content: %6.2f\n", report.Content))
	if len(report.Recommendations) > 0 {
		sb.WriteString("\n")
		writeList(&sb, "Recommendations", report.Recommendations, maxItemsToShow)
	}

	p.printBox("ATS SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResult outputs where the document went and how the loop ended.
func (p *Printer) PrintResult(result *pipeline.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:        %s\n", result.RunID))
	sb.WriteString(fmt.Sprintf("Outcome:    %s\n", result.Outcome))
	sb.WriteString(fmt.Sprintf("Iterations: %d\n", result.Iterations))
	if result.Pages > 0 {
		sb.WriteString(fmt.Sprintf("Pages:      %d\n", result.Pages))
	}
	sb.WriteString(fmt.Sprintf("Object:     %s/%s\n", result.Bucket, result.Key))
	if result.ATS != nil {
		sb.WriteString(fmt.Sprintf("ATS score:  %.2f\n", result.ATS.Overall))
	}

	p.printBox("✅ CV GENERATED", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProgress writes one line per pipeline progress event.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(event pipeline.ProgressEvent) {
	prefix := fmt.Sprintf("[%s]", event.Step)
	if event.Iteration > 0 {
		prefix = fmt.Sprintf("[%s #%d]", event.Step, event.Iteration)
	}
	fmt.Fprintf(p.out, "%-18s %s\n", prefix, event.Message)
}
