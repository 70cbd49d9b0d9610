package rendering

import (
	"fmt"
	"strings"

	"github.com/maheshdila/cv-gen-BE/internal/chronology"
	"github.com/maheshdila/cv-gen-BE/internal/types"
)

// Section names a résumé section. The declaration order is the document order.
type Section string

// Sections in document order.
const (
	SectionEducation      Section = "Education"
	SectionWorkExperience Section = "Work Experience"
	SectionProjects       Section = "Projects"
	SectionSkills         Section = "Skills"
	SectionCertifications Section = "Certifications"
	SectionAchievements   Section = "Achievements"
	SectionReferences     Section = "References"
)

// SectionOrder is the fixed order sections appear in the assembled document.
var SectionOrder = []Section{
	SectionEducation,
	SectionWorkExperience,
	SectionProjects,
	SectionSkills,
	SectionCertifications,
	SectionAchievements,
	SectionReferences,
}

const presentLabel = "Present"

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func heading(section Section) string {
	return "== " + string(section)
}

func datesHelper(start, end string) string {
	return fmt.Sprintf("dates-helper(start-date: %s, end-date: %s)",
		Quote(chronology.FormatMonthYear(start)), Quote(end))
}

// endLabel renders an end date, or "Present" for ongoing entries.
func endLabel(end string, ongoing bool) string {
	if ongoing {
		return presentLabel
	}
	return chronology.FormatMonthYear(end)
}

// descriptionBullets turns a free-text description into Typst list items, one per line.
func descriptionBullets(description string) []string {
	var bullets []string
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-•* ")
		if line == "" {
			continue
		}
		bullets = append(bullets, "  - "+EscapeTypst(line))
	}
	return bullets
}

// FormatEducation renders the education section. An empty list is a validation failure.
func FormatEducation(entries []types.Education) (string, error) {
	if len(entries) == 0 {
		return "", &ValidationError{Section: SectionEducation}
	}

	var sb strings.Builder
	sb.WriteString(heading(SectionEducation))
	for i, e := range entries {
		switch {
		case blank(e.Institution):
			return "", &ValidationError{Section: SectionEducation, Index: i, Field: "institution"}
		case blank(e.Degree):
			return "", &ValidationError{Section: SectionEducation, Index: i, Field: "degree"}
		case blank(e.StartDate):
			return "", &ValidationError{Section: SectionEducation, Index: i, Field: "startDate"}
		case blank(e.EndDate) && !e.Ongoing():
			return "", &ValidationError{Section: SectionEducation, Index: i, Field: "endDate"}
		}

		degree := strings.TrimSpace(e.Degree)
		if !blank(e.FieldOfStudy) {
			degree = fmt.Sprintf("%s (%s)", degree, strings.TrimSpace(e.FieldOfStudy))
		}

		sb.WriteString("\n\n#edu(\n")
		fmt.Fprintf(&sb, "  institution: %s,\n", Quote(e.Institution))
		fmt.Fprintf(&sb, "  location: %s,\n", Quote(e.Location))
		fmt.Fprintf(&sb, "  dates: %s,\n", datesHelper(e.StartDate, endLabel(e.EndDate, e.Ongoing())))
		fmt.Fprintf(&sb, "  degree: %s,\n", Quote(degree))
		sb.WriteString(")")
		for _, bullet := range descriptionBullets(e.Description) {
			sb.WriteString("\n" + bullet)
		}
	}
	return sb.String(), nil
}

// FormatWorkExperience renders the work experience section. An empty list is a validation failure.
func FormatWorkExperience(entries []types.WorkExperience) (string, error) {
	if len(entries) == 0 {
		return "", &ValidationError{Section: SectionWorkExperience}
	}

	var sb strings.Builder
	sb.WriteString(heading(SectionWorkExperience))
	for i, w := range entries {
		switch {
		case blank(w.JobTitle):
			return "", &ValidationError{Section: SectionWorkExperience, Index: i, Field: "jobTitle"}
		case blank(w.Company):
			return "", &ValidationError{Section: SectionWorkExperience, Index: i, Field: "company"}
		case blank(w.StartDate):
			return "", &ValidationError{Section: SectionWorkExperience, Index: i, Field: "startDate"}
		case blank(w.EndDate) && !w.Ongoing():
			return "", &ValidationError{Section: SectionWorkExperience, Index: i, Field: "endDate"}
		}

		sb.WriteString("\n\n#work(\n")
		fmt.Fprintf(&sb, "  title: %s,\n", Quote(w.JobTitle))
		fmt.Fprintf(&sb, "  location: %s,\n", Quote(w.Location))
		fmt.Fprintf(&sb, "  company: %s,\n", Quote(w.Company))
		fmt.Fprintf(&sb, "  dates: %s,\n", datesHelper(w.StartDate, endLabel(w.EndDate, w.Ongoing())))
		sb.WriteString(")")
		for _, bullet := range descriptionBullets(w.Description) {
			sb.WriteString("\n" + bullet)
		}
	}
	return sb.String(), nil
}

// FormatProjects renders the projects section. An empty list is a validation failure.
func FormatProjects(projects []types.Project) (string, error) {
	if len(projects) == 0 {
		return "", &ValidationError{Section: SectionProjects}
	}

	var sb strings.Builder
	sb.WriteString(heading(SectionProjects))
	for i, p := range projects {
		switch {
		case blank(p.Name):
			return "", &ValidationError{Section: SectionProjects, Index: i, Field: "name"}
		case blank(p.StartDate):
			return "", &ValidationError{Section: SectionProjects, Index: i, Field: "startDate"}
		}

		sb.WriteString("\n\n#project(\n")
		fmt.Fprintf(&sb, "  name: %s,\n", Quote(p.Name))
		fmt.Fprintf(&sb, "  dates: %s,\n", datesHelper(p.StartDate, endLabel(p.EndDate, p.Ongoing())))
		if !blank(p.Link) {
			fmt.Fprintf(&sb, "  url: %s,\n", Quote(p.Link))
		}
		sb.WriteString(")")
		for _, bullet := range descriptionBullets(p.Description) {
			sb.WriteString("\n" + bullet)
		}
		if tags := nonBlank(p.Skills); len(tags) > 0 {
			sb.WriteString("\n  - *Skills*: " + EscapeTypst(strings.Join(tags, ", ")))
		}
	}
	return sb.String(), nil
}

// FormatSkills renders the skills section. An empty list produces no fragment.
func FormatSkills(groups []types.SkillGroup) (string, error) {
	if len(groups) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(heading(SectionSkills))
	for i, g := range groups {
		if blank(g.Category) {
			return "", &ValidationError{Section: SectionSkills, Index: i, Field: "category"}
		}
		techs := g.NonBlankTechnologies()
		if len(techs) == 0 {
			return "", &ValidationError{Section: SectionSkills, Index: i, Field: "technologies"}
		}
		fmt.Fprintf(&sb, "\n- *%s*: %s", EscapeTypst(strings.TrimSpace(g.Category)), EscapeTypst(strings.Join(techs, ", ")))
	}
	return sb.String(), nil
}

// FormatCertifications renders the certifications section. An empty list produces no fragment.
func FormatCertifications(certs []types.Certification) (string, error) {
	if len(certs) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(heading(SectionCertifications))
	for i, c := range certs {
		switch {
		case blank(c.Title):
			return "", &ValidationError{Section: SectionCertifications, Index: i, Field: "title"}
		case blank(c.Issuer):
			return "", &ValidationError{Section: SectionCertifications, Index: i, Field: "issuer"}
		}

		sb.WriteString("\n\n#certificates(\n")
		fmt.Fprintf(&sb, "  name: %s,\n", Quote(c.Title))
		fmt.Fprintf(&sb, "  issuer: %s,\n", Quote(c.Issuer))
		fmt.Fprintf(&sb, "  date: %s,\n", Quote(chronology.FormatMonthYear(c.Date)))
		if !blank(c.Link) {
			fmt.Fprintf(&sb, "  url: %s,\n", Quote(c.Link))
		}
		sb.WriteString(")")
	}
	return sb.String(), nil
}

// FormatAchievements renders the achievements section. An empty list produces no fragment.
func FormatAchievements(achievements []types.Achievement) (string, error) {
	if len(achievements) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(heading(SectionAchievements))
	for i, a := range achievements {
		if blank(a.Title) {
			return "", &ValidationError{Section: SectionAchievements, Index: i, Field: "title"}
		}
		sb.WriteString("\n- *" + EscapeTypst(strings.TrimSpace(a.Title)) + "*")
		if !blank(a.Date) {
			sb.WriteString(" (" + EscapeTypst(chronology.FormatMonthYear(a.Date)) + ")")
		}
		if !blank(a.Description) {
			sb.WriteString(": " + EscapeTypst(strings.TrimSpace(a.Description)))
		}
	}
	return sb.String(), nil
}

// FormatReferences renders the references section. An empty list produces no fragment.
func FormatReferences(refs []types.Reference) (string, error) {
	if len(refs) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(heading(SectionReferences))
	for i, r := range refs {
		switch {
		case blank(r.Name):
			return "", &ValidationError{Section: SectionReferences, Index: i, Field: "name"}
		case blank(r.Position):
			return "", &ValidationError{Section: SectionReferences, Index: i, Field: "position"}
		}

		role := strings.TrimSpace(r.Position)
		if !blank(r.Company) {
			role += ", " + strings.TrimSpace(r.Company)
		}
		parts := []string{"*" + EscapeTypst(strings.TrimSpace(r.Name)) + "*", EscapeTypst(role)}
		for _, contact := range nonBlank([]string{r.Email, r.Phone}) {
			parts = append(parts, EscapeTypst(contact))
		}
		sb.WriteString("\n- " + strings.Join(parts, " | "))
	}
	return sb.String(), nil
}

// FormatOverview renders the overview section. Blank text produces no fragment.
func FormatOverview(overview string) string {
	if blank(overview) {
		return ""
	}
	return "== Overview\n\n" + EscapeLineStart(EscapeTypst(strings.TrimSpace(overview)))
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !blank(v) {
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}
