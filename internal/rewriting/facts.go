package rewriting

import (
	"regexp"
	"strings"

	"github.com/maheshdila/cv-gen-BE/internal/types"
)

var quantityPattern = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

// introducesQuantities reports whether rewritten contains a number that original never mentions.
func introducesQuantities(original, rewritten string) bool {
	known := make(map[string]struct{})
	for _, n := range quantityPattern.FindAllString(original, -1) {
		known[strings.ReplaceAll(n, ",", "")] = struct{}{}
	}
	for _, n := range quantityPattern.FindAllString(rewritten, -1) {
		if _, ok := known[strings.ReplaceAll(n, ",", "")]; !ok {
			return true
		}
	}
	return false
}

// pickDescription returns the rewrite unless it is blank or invents quantities.
func pickDescription(original, rewritten string, discarded *int) string {
	if strings.TrimSpace(rewritten) == "" {
		return original
	}
	if introducesQuantities(original, rewritten) {
		*discarded++
		return original
	}
	return rewritten
}

// applyRewrites merges the model's rewrite into a copy of original. Only the summary and the
// free-text descriptions are taken from the rewrite; a section whose entry count changed is
// kept as it was. The second return value counts rejected rewrites.
func applyRewrites(original, rewritten *types.CandidateProfile) (*types.CandidateProfile, int) {
	out := original.Clone()
	discarded := 0

	if summary := strings.TrimSpace(rewritten.Summary); summary != "" {
		out.Summary = summary
	}

	if len(rewritten.Education) == len(out.Education) {
		for i := range out.Education {
			out.Education[i].Description = pickDescription(out.Education[i].Description, rewritten.Education[i].Description, &discarded)
		}
	} else {
		discarded++
	}

	if len(rewritten.WorkExperience) == len(out.WorkExperience) {
		for i := range out.WorkExperience {
			out.WorkExperience[i].Description = pickDescription(out.WorkExperience[i].Description, rewritten.WorkExperience[i].Description, &discarded)
		}
	} else {
		discarded++
	}

	if len(rewritten.Projects) == len(out.Projects) {
		for i := range out.Projects {
			out.Projects[i].Description = pickDescription(out.Projects[i].Description, rewritten.Projects[i].Description, &discarded)
		}
	} else {
		discarded++
	}

	if len(rewritten.Achievements) == len(out.Achievements) {
		for i := range out.Achievements {
			out.Achievements[i].Description = pickDescription(out.Achievements[i].Description, rewritten.Achievements[i].Description, &discarded)
		}
	} else {
		discarded++
	}

	return out, discarded
}
