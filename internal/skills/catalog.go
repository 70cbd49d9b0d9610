// Package skills holds the technology catalog used to read job descriptions and match résumé skill tags.
package skills

import (
	"regexp"
	"strings"
)

// Technologies is the catalog of recognized technology keywords, in canonical form.
var Technologies = []string{
	"python", "java", "javascript", "typescript", "golang", "react", "nodejs",
	"aws", "docker", "kubernetes", "sql", "mongodb", "postgresql", "mysql", "redis",
	"git", "jenkins", "terraform", "ansible", "linux", "windows", "azure", "gcp",
}

// IndustryKeywords are process and practice terms looked for in job descriptions.
var IndustryKeywords = []string{
	"agile", "scrum", "devops", "ci/cd", "microservices", "api", "rest", "graphql",
}

// aliases maps common variants to the canonical catalog name.
var aliases = map[string]string{
	"go":                  "golang",
	"go lang":             "golang",
	"js":                  "javascript",
	"ts":                  "typescript",
	"node":                "nodejs",
	"node.js":             "nodejs",
	"react.js":            "react",
	"reactjs":             "react",
	"k8s":                 "kubernetes",
	"postgres":            "postgresql",
	"amazon web services": "aws",
	"google cloud":        "gcp",
	"mongo":               "mongodb",
}

// detectable lists the surface forms searched for in free text. Short aliases like
// "go" or "js" are left out because they produce false positives in prose.
var detectable = map[string][]string{
	"golang":     {"golang"},
	"nodejs":     {"nodejs", "node.js"},
	"react":      {"react", "react.js", "reactjs"},
	"kubernetes": {"kubernetes", "k8s"},
	"postgresql": {"postgresql", "postgres"},
	"aws":        {"aws", "amazon web services"},
	"gcp":        {"gcp", "google cloud"},
	"mongodb":    {"mongodb"},
}

var patternCache = map[string]*regexp.Regexp{}

func init() {
	for _, term := range append(append([]string{}, Technologies...), IndustryKeywords...) {
		for _, form := range surfaceForms(term) {
			patternCache[form] = wordPattern(form)
		}
	}
}

// Normalize lowercases and trims a skill name and resolves known aliases.
func Normalize(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[normalized]; ok {
		return canonical
	}
	return normalized
}

// Matches reports whether tag names one of the required technologies, ignoring case and aliases.
func Matches(tag string, required []string) bool {
	normalized := Normalize(tag)
	if normalized == "" {
		return false
	}
	for _, req := range required {
		if Normalize(req) == normalized {
			return true
		}
	}
	return false
}

// FindTechnologies returns the catalog technologies mentioned in text, in catalog order.
func FindTechnologies(text string) []string {
	return findTerms(text, Technologies)
}

// FindIndustryKeywords returns the industry keywords mentioned in text, in catalog order.
func FindIndustryKeywords(text string) []string {
	return findTerms(text, IndustryKeywords)
}

// Mentions reports whether text contains term as a whole word, ignoring case.
func Mentions(text, term string) bool {
	for _, form := range surfaceForms(Normalize(term)) {
		pattern, ok := patternCache[form]
		if !ok {
			pattern = wordPattern(form)
		}
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

func findTerms(text string, terms []string) []string {
	found := make([]string, 0)
	for _, term := range terms {
		if Mentions(text, term) {
			found = append(found, term)
		}
	}
	return found
}

func surfaceForms(term string) []string {
	if forms, ok := detectable[term]; ok {
		return forms
	}
	return []string{term}
}

// wordPattern matches form bounded by anything that cannot be part of a technology name.
func wordPattern(form string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(^|[^a-z0-9+#])` + regexp.QuoteMeta(form) + `($|[^a-z0-9+#])`)
}
