package parsing

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/maheshdila/cv-gen-BE/internal/types"
)

// canonicalSkillNames maps lower-cased spellings to the display form used on the document
var canonicalSkillNames = map[string]string{
	"golang":      "Go",
	"go lang":     "Go",
	"js":          "JavaScript",
	"javascript":  "JavaScript",
	"ts":          "TypeScript",
	"typescript":  "TypeScript",
	"k8s":         "Kubernetes",
	"kubernetes":  "Kubernetes",
	"react.js":    "React",
	"reactjs":     "React",
	"node":        "Node.js",
	"nodejs":      "Node.js",
	"node.js":     "Node.js",
	"postgres":    "PostgreSQL",
	"postgresql":  "PostgreSQL",
	"mongo":       "MongoDB",
	"mongodb":     "MongoDB",
	"aws":         "AWS",
	"gcp":         "GCP",
	"sql":         "SQL",
	"html":        "HTML",
	"css":         "CSS",
	"ci/cd":       "CI/CD",
	"spring boot": "Spring Boot",
}

// NormalizeSkillName returns the display form of a skill. Unknown multi-word or mixed-case
// names are returned trimmed and otherwise untouched.
func NormalizeSkillName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}

	lower := strings.ToLower(trimmed)
	if canonical, ok := canonicalSkillNames[lower]; ok {
		return canonical
	}

	if strings.Contains(trimmed, " ") {
		return trimmed
	}
	if trimmed == lower || trimmed == strings.ToUpper(trimmed) {
		first, size := utf8.DecodeRuneInString(lower)
		return string(unicode.ToUpper(first)) + lower[size:]
	}
	return trimmed
}

// NormalizeSkills normalizes each name, dropping blanks and case-insensitive duplicates.
// The first occurrence keeps its position.
func NormalizeSkills(names []string) []string {
	if len(names) == 0 {
		return names
	}

	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		normalized := NormalizeSkillName(name)
		if normalized == "" {
			continue
		}
		key := strings.ToLower(normalized)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

func normalizeProfile(profile *types.CandidateProfile) {
	for i := range profile.Projects {
		profile.Projects[i].Skills = NormalizeSkills(profile.Projects[i].Skills)
	}

	groups := profile.Skills[:0]
	for _, group := range profile.Skills {
		group.Category = strings.TrimSpace(group.Category)
		group.Technologies = NormalizeSkills(group.Technologies)
		if len(group.Technologies) == 0 {
			continue
		}
		groups = append(groups, group)
	}
	profile.Skills = groups
}
