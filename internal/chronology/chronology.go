// Package chronology parses heterogeneous résumé dates and orders dated entries most recent first.
package chronology

import (
	"sort"
	"strings"
	"time"

	"github.com/maheshdila/cv-gen-BE/internal/types"
)

// MinDate is the sentinel used for dates that fail to parse. Entries carrying it sort last.
var MinDate = time.Time{}

// layout pairs a time layout with the granularity it carries.
type layout struct {
	format   string
	hasMonth bool
}

var layouts = []layout{
	{"2006-01-02", true},
	{"2006-01", true},
	{"2006/01/02", true},
	{"2006/01", true},
	{"01/2006", true},
	{"1/2006", true},
	{"Jan 2006", true},
	{"January 2006", true},
	{"Jan, 2006", true},
	{"January, 2006", true},
	{time.RFC3339, true},
	{"2006", false},
}

// ParseDate parses a date string, accepting at least year-month granularity.
// It returns MinDate and false when the string matches no known layout.
func ParseDate(value string) (time.Time, bool) {
	t, _, ok := parse(value)
	return t, ok
}

func parse(value string) (time.Time, bool, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return MinDate, false, false
	}
	for _, l := range layouts {
		if t, err := time.Parse(l.format, value); err == nil {
			return t, l.hasMonth, true
		}
	}
	return MinDate, false, false
}

// FormatMonthYear renders a date as "Jan 2006", or just the year when no month was given.
// Unparseable input is returned trimmed and unchanged.
func FormatMonthYear(value string) string {
	t, hasMonth, ok := parse(value)
	if !ok {
		return strings.TrimSpace(value)
	}
	if !hasMonth {
		return t.Format("2006")
	}
	return t.Format("Jan 2006")
}

// Span describes the dated extent of an entry.
type Span struct {
	Start   string
	End     string
	Ongoing bool
}

// sortKey is the effective end of a span. Ongoing spans outrank every dated one.
type sortKey struct {
	ongoing bool
	end     time.Time
}

func keyFor(span Span) sortKey {
	if span.Ongoing || isPresent(span.End) {
		return sortKey{ongoing: true}
	}
	if end, ok := ParseDate(span.End); ok {
		return sortKey{end: end}
	}
	if start, ok := ParseDate(span.Start); ok && strings.TrimSpace(span.End) == "" {
		return sortKey{end: start}
	}
	return sortKey{end: MinDate}
}

func isPresent(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "present", "current", "now", "ongoing":
		return true
	}
	return false
}

func (k sortKey) after(other sortKey) bool {
	if k.ongoing != other.ongoing {
		return k.ongoing
	}
	return k.end.After(other.end)
}

// SortDescending returns a new slice ordered by effective end date, most recent first.
// Ongoing entries come before all others. Ties keep their original relative order.
func SortDescending[T any](items []T, span func(T) Span) []T {
	type keyed struct {
		item T
		key  sortKey
	}
	entries := make([]keyed, len(items))
	for i, item := range items {
		entries[i] = keyed{item: item, key: keyFor(span(item))}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].key.after(entries[j].key)
	})
	out := make([]T, len(entries))
	for i, entry := range entries {
		out[i] = entry.item
	}
	return out
}

// SortEducation orders education entries most recent first.
func SortEducation(entries []types.Education) []types.Education {
	return SortDescending(entries, func(e types.Education) Span {
		return Span{Start: e.StartDate, End: e.EndDate, Ongoing: e.Ongoing()}
	})
}

// SortWorkExperience orders work entries most recent first.
func SortWorkExperience(entries []types.WorkExperience) []types.WorkExperience {
	return SortDescending(entries, func(w types.WorkExperience) Span {
		return Span{Start: w.StartDate, End: w.EndDate, Ongoing: w.Ongoing()}
	})
}

// NormalizeProfile returns a copy of the profile with education and work experience
// in chronological order. The input is left untouched.
func NormalizeProfile(profile *types.CandidateProfile) *types.CandidateProfile {
	out := profile.Clone()
	if out == nil {
		return nil
	}
	if len(out.Education) > 0 {
		out.Education = SortEducation(out.Education)
	}
	if len(out.WorkExperience) > 0 {
		out.WorkExperience = SortWorkExperience(out.WorkExperience)
	}
	return out
}
