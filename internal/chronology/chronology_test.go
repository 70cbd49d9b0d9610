package chronology

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/maheshdila/cv-gen-BE/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"year-month", "2023-04", time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), true},
		{"full date", "2021-12-31", time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{"month name", "Mar 2020", time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"long month name", "September 2018", time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC), true},
		{"slash month", "07/2019", time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC), true},
		{"year only", "2015", time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"surrounding whitespace", "  2022-02 ", time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{"garbage", "sometime", MinDate, false},
		{"empty", "", MinDate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestFormatMonthYear(t *testing.T) {
	assert.Equal(t, "Apr 2023", FormatMonthYear("2023-04"))
	assert.Equal(t, "Dec 2021", FormatMonthYear("2021-12-31"))
	assert.Equal(t, "2015", FormatMonthYear("2015"))
	assert.Equal(t, "Summer 2019", FormatMonthYear(" Summer 2019 "))
	assert.Equal(t, "", FormatMonthYear(""))
}

func TestSortWorkExperience_OngoingFirst(t *testing.T) {
	entries := []types.WorkExperience{
		{JobTitle: "Past", StartDate: "2019-01", EndDate: "2021-06"},
		{JobTitle: "Current", StartDate: "2023-01", CurrentlyWorking: true},
	}

	sorted := SortWorkExperience(entries)

	require.Len(t, sorted, 2)
	assert.Equal(t, "Current", sorted[0].JobTitle)
	assert.Equal(t, "Past", sorted[1].JobTitle)
	// input untouched
	assert.Equal(t, "Past", entries[0].JobTitle)
}

func TestSortWorkExperience_PresentTextCountsAsOngoing(t *testing.T) {
	entries := []types.WorkExperience{
		{JobTitle: "Old", StartDate: "2010-01", EndDate: "2012-01"},
		{JobTitle: "Now", StartDate: "2020-01", EndDate: "Present"},
	}
	sorted := SortWorkExperience(entries)
	assert.Equal(t, "Now", sorted[0].JobTitle)
}

func TestSortEducation_MalformedDatesSortLast(t *testing.T) {
	entries := []types.Education{
		{Institution: "Broken", StartDate: "??", EndDate: "unknown"},
		{Institution: "Old", StartDate: "2008-09", EndDate: "2012-06"},
		{Institution: "Recent", StartDate: "2014-09", EndDate: "2016-06"},
	}

	sorted := SortEducation(entries)

	assert.Equal(t, []string{"Recent", "Old", "Broken"}, institutions(sorted))
}

func TestSortEducation_MissingEndFallsBackToStart(t *testing.T) {
	entries := []types.Education{
		{Institution: "A", StartDate: "2010-01", EndDate: "2011-01"},
		{Institution: "B", StartDate: "2012-01"},
	}
	sorted := SortEducation(entries)
	assert.Equal(t, []string{"B", "A"}, institutions(sorted))
}

func TestSortDescending_StableForTies(t *testing.T) {
	entries := []types.Education{
		{Institution: "first", StartDate: "2010-01", EndDate: "2014-06"},
		{Institution: "second", StartDate: "2011-01", EndDate: "2014-06"},
		{Institution: "third", StartDate: "x", EndDate: "y"},
		{Institution: "fourth", StartDate: "2012-01", EndDate: "2014-06"},
		{Institution: "fifth", StartDate: "z", EndDate: "w"},
	}

	sorted := SortEducation(entries)

	assert.Equal(t, []string{"first", "second", "fourth", "third", "fifth"}, institutions(sorted))
}

func TestSortDescending_OrderingProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		n := rng.Intn(8) + 1
		entries := make([]types.WorkExperience, n)
		ongoingIdx := -1
		if rng.Intn(2) == 0 {
			ongoingIdx = rng.Intn(n)
		}
		for i := range entries {
			entries[i] = types.WorkExperience{
				JobTitle:  fmt.Sprintf("job-%d", i),
				StartDate: "2000-01",
				EndDate:   fmt.Sprintf("%d-%02d", 2000+rng.Intn(5), rng.Intn(12)+1),
			}
			if i == ongoingIdx {
				entries[i].CurrentlyWorking = true
			}
		}

		sorted := SortWorkExperience(entries)
		require.Len(t, sorted, n)

		if ongoingIdx >= 0 {
			assert.True(t, sorted[0].CurrentlyWorking)
		}
		position := make(map[string]int, n)
		for i, e := range entries {
			position[e.JobTitle] = i
		}
		for i := 1; i < len(sorted); i++ {
			prev, cur := sorted[i-1], sorted[i]
			if prev.CurrentlyWorking || cur.CurrentlyWorking {
				continue
			}
			prevEnd, _ := ParseDate(prev.EndDate)
			curEnd, _ := ParseDate(cur.EndDate)
			assert.False(t, curEnd.After(prevEnd), "end dates must be non-increasing")
			if curEnd.Equal(prevEnd) {
				assert.Less(t, position[prev.JobTitle], position[cur.JobTitle], "ties keep input order")
			}
		}
	}
}

func TestNormalizeProfile_DoesNotMutateInput(t *testing.T) {
	profile := &types.CandidateProfile{
		WorkExperience: []types.WorkExperience{
			{JobTitle: "Past", StartDate: "2019-01", EndDate: "2021-01"},
			{JobTitle: "Current", StartDate: "2023-01", CurrentlyWorking: true},
		},
		Education: []types.Education{
			{Institution: "School", StartDate: "2010-01", EndDate: "2014-01"},
		},
	}

	normalized := NormalizeProfile(profile)

	assert.Equal(t, "Current", normalized.WorkExperience[0].JobTitle)
	assert.Equal(t, "Past", profile.WorkExperience[0].JobTitle)
	assert.Len(t, normalized.Education, 1)
}

func TestNormalizeProfile_Nil(t *testing.T) {
	assert.Nil(t, NormalizeProfile(nil))
}

func institutions(entries []types.Education) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Institution
	}
	return out
}
