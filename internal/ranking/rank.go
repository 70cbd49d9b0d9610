package ranking

import (
	"sort"

	"github.com/maheshdila/cv-gen-BE/internal/types"
)

// sortByScore stable-sorts a copy of items by score, descending.
func sortByScore[T any](items []T, score func(T) int) []T {
	if items == nil {
		return nil
	}
	type scored struct {
		item  T
		score int
	}
	entries := make([]scored, len(items))
	for i, item := range items {
		entries[i] = scored{item: item, score: score(item)}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})
	out := make([]T, len(entries))
	for i, entry := range entries {
		out[i] = entry.item
	}
	return out
}

// ReorderProjects returns projects sorted by relevance, most relevant first.
func (s *Scorer) ReorderProjects(projects []types.Project) []types.Project {
	return sortByScore(projects, s.ScoreProject)
}

// ReorderSkills returns skill groups sorted by relevance, most relevant first.
func (s *Scorer) ReorderSkills(groups []types.SkillGroup) []types.SkillGroup {
	return sortByScore(groups, s.ScoreSkillGroup)
}

// ReorderCertifications returns certifications sorted by relevance, most relevant first.
func (s *Scorer) ReorderCertifications(certs []types.Certification) []types.Certification {
	return sortByScore(certs, s.ScoreCertification)
}

// ReorderAchievements returns achievements sorted by relevance, most relevant first.
func (s *Scorer) ReorderAchievements(achievements []types.Achievement) []types.Achievement {
	return sortByScore(achievements, s.ScoreAchievement)
}

// Reorder returns a copy of profile with projects, skills, certifications and achievements
// sorted by relevance. Items keep every field; other sections are untouched.
func (s *Scorer) Reorder(profile *types.CandidateProfile) *types.CandidateProfile {
	out := profile.Clone()
	if out == nil {
		return nil
	}
	out.Projects = s.ReorderProjects(out.Projects)
	out.Skills = s.ReorderSkills(out.Skills)
	out.Certifications = s.ReorderCertifications(out.Certifications)
	out.Achievements = s.ReorderAchievements(out.Achievements)
	return out
}
