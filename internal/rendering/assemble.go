package rendering

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/maheshdila/cv-gen-BE/internal/types"
)

// SectionBreak separates the header, the overview and every section fragment.
const SectionBreak = "\n\n"

//go:embed templates/header.typ.tmpl
var templateFiles embed.FS

const defaultHeaderTemplate = "templates/header.typ.tmpl"

// Style controls document-wide appearance passed to the résumé package.
type Style struct {
	AccentColor string `json:"accent_color,omitempty"`
	Font        string `json:"font,omitempty"`
	Paper       string `json:"paper,omitempty"`
}

// DefaultStyle returns the stock appearance.
func DefaultStyle() Style {
	return Style{
		AccentColor: "#26428b",
		Font:        "New Computer Modern",
		Paper:       "us-letter",
	}
}

// Options configures document rendering.
type Options struct {
	// HeaderTemplatePath overrides the embedded header template when set.
	HeaderTemplatePath string
	Style              Style
}

// headerData is the data passed to the header template
type headerData struct {
	types.PersonalDetails
	Style
}

// Fragments holds the rendered pieces of a document before assembly.
type Fragments struct {
	Header   string
	Overview string
	Sections map[Section]string
}

// Assemble joins the header, overview and present sections in the fixed section order.
// It fails when no section fragment is present.
func Assemble(fragments Fragments) (string, error) {
	parts := make([]string, 0, len(SectionOrder)+2)
	if strings.TrimSpace(fragments.Header) != "" {
		parts = append(parts, strings.TrimRight(fragments.Header, "\n"))
	}
	if strings.TrimSpace(fragments.Overview) != "" {
		parts = append(parts, fragments.Overview)
	}

	sections := 0
	for _, section := range SectionOrder {
		fragment := fragments.Sections[section]
		if strings.TrimSpace(fragment) == "" {
			continue
		}
		parts = append(parts, fragment)
		sections++
	}
	if sections == 0 {
		return "", &RenderError{Message: "no sections to assemble"}
	}

	return FixEncoding(strings.Join(parts, SectionBreak)) + "\n", nil
}

// RenderHeader renders the document preamble with personal details.
func RenderHeader(details types.PersonalDetails, opts Options) (string, error) {
	tmpl, err := loadHeaderTemplate(opts.HeaderTemplatePath)
	if err != nil {
		return "", err
	}

	style := DefaultStyle()
	if opts.Style.AccentColor != "" {
		style.AccentColor = opts.Style.AccentColor
	}
	if opts.Style.Font != "" {
		style.Font = opts.Style.Font
	}
	if opts.Style.Paper != "" {
		style.Paper = opts.Style.Paper
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, headerData{PersonalDetails: details, Style: style}); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return result.String(), nil
}

// RenderDocument formats every section of the profile and assembles the full Typst source.
func RenderDocument(profile *types.CandidateProfile, opts Options) (string, error) {
	if profile == nil {
		return "", &RenderError{Message: "profile is nil"}
	}

	header, err := RenderHeader(profile.PersonalDetails, opts)
	if err != nil {
		return "", err
	}

	fragments := Fragments{
		Header:   header,
		Overview: FormatOverview(profile.Summary),
		Sections: make(map[Section]string, len(SectionOrder)),
	}

	formatters := []struct {
		section Section
		format  func() (string, error)
	}{
		{SectionEducation, func() (string, error) { return FormatEducation(profile.Education) }},
		{SectionWorkExperience, func() (string, error) { return FormatWorkExperience(profile.WorkExperience) }},
		{SectionProjects, func() (string, error) { return FormatProjects(profile.Projects) }},
		{SectionSkills, func() (string, error) { return FormatSkills(profile.Skills) }},
		{SectionCertifications, func() (string, error) { return FormatCertifications(profile.Certifications) }},
		{SectionAchievements, func() (string, error) { return FormatAchievements(profile.Achievements) }},
		{SectionReferences, func() (string, error) { return FormatReferences(profile.References) }},
	}
	for _, f := range formatters {
		fragment, err := f.format()
		if err != nil {
			return "", err
		}
		fragments.Sections[f.section] = fragment
	}

	return Assemble(fragments)
}

var templateFuncs = template.FuncMap{
	"str": Quote,
}

// loadHeaderTemplate parses the header template from path, or the embedded default when path is empty.
func loadHeaderTemplate(path string) (*template.Template, error) {
	var content []byte
	var err error
	if path == "" {
		content, err = templateFiles.ReadFile(defaultHeaderTemplate)
	} else {
		content, err = os.ReadFile(path)
		if os.IsNotExist(err) {
			return nil, &TemplateError{
				Message: fmt.Sprintf("template file not found: %s", path),
				Cause:   err,
			}
		}
	}
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to read template file",
			Cause:   err,
		}
	}

	tmpl, err := template.New("header").Funcs(templateFuncs).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}
	return tmpl, nil
}
