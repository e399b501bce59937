package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStatsEmptyLibrary(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	stats := ComputeStats(nil, now)

	assert.Zero(t, stats.TotalBooks)
	assert.Zero(t, stats.TotalPagesRead)
	assert.Zero(t, stats.UniqueAuthors)
	assert.Zero(t, stats.CompletionRate)
	assert.Zero(t, stats.MeanRating)
	assert.Empty(t, stats.StatusDistribution)
	assert.Empty(t, stats.AuthorFrequency)

	require.Len(t, stats.MonthlyPagesRead, 6)
	months := make([]string, 0, 6)
	for _, m := range stats.MonthlyPagesRead {
		assert.Zero(t, m.Pages)
		months = append(months, m.Month)
	}
	assert.Equal(t, []string{"2025-01", "2025-02", "2025-03", "2025-04", "2025-05", "2025-06"}, months)
}

func TestComputeStatsScenario(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	completedAt := now.AddDate(0, -1, 0) // May

	records := []CombinedBook{
		{
			UserBook: &UserBook{Status: StatusCompleted, CompletedAt: &completedAt},
			Book:     &Book{TotalPages: 300, Authors: []string{"A"}},
		},
		{
			UserBook: &UserBook{Status: StatusReading, CurrentPage: 50},
			Book:     &Book{TotalPages: 200, Authors: []string{"B"}},
		},
		{
			UserBook: &UserBook{Status: StatusCompleted, CompletedAt: &completedAt},
			Book:     &Book{TotalPages: 100, Authors: []string{"A", "C"}},
		},
	}

	stats := ComputeStats(records, now)

	assert.Equal(t, 3, stats.TotalBooks)
	assert.Equal(t, 450, stats.TotalPagesRead)
	assert.Equal(t, 3, stats.UniqueAuthors)
	assert.InDelta(t, 66.67, stats.CompletionRate, 0.01)

	require.NotEmpty(t, stats.AuthorFrequency)
	assert.Equal(t, AuthorCount{Author: "A", Books: 2}, stats.AuthorFrequency[0])

	assert.InDelta(t, 200.0/3, stats.StatusDistribution[StatusCompleted], 0.01)
	assert.InDelta(t, 100.0/3, stats.StatusDistribution[StatusReading], 0.01)

	// Both completions landed in May.
	var may MonthlyPages
	for _, m := range stats.MonthlyPagesRead {
		if m.Month == "2025-05" {
			may = m
		}
	}
	assert.Equal(t, 400, may.Pages)
}

func TestComputeStatsMeanRating(t *testing.T) {
	now := time.Now()

	t.Run("averages rated books only", func(t *testing.T) {
		records := []CombinedBook{
			{UserBook: &UserBook{Status: StatusCompleted, Rating: 5}, Book: &Book{}},
			{UserBook: &UserBook{Status: StatusReading, Rating: 3}, Book: &Book{}},
			{UserBook: &UserBook{Status: StatusReading}, Book: &Book{}},
		}
		stats := ComputeStats(records, now)
		assert.InDelta(t, 4.0, stats.MeanRating, 0.001)
	})

	t.Run("zero when nothing rated", func(t *testing.T) {
		records := []CombinedBook{
			{UserBook: &UserBook{Status: StatusReading}, Book: &Book{}},
		}
		stats := ComputeStats(records, now)
		assert.Zero(t, stats.MeanRating)
	})
}

func TestComputeStatsAuthorFrequency(t *testing.T) {
	now := time.Now()

	t.Run("caps the ranking at five", func(t *testing.T) {
		records := make([]CombinedBook, 0, 7)
		for _, a := range []string{"A", "B", "C", "D", "E", "F", "G"} {
			records = append(records, CombinedBook{
				UserBook: &UserBook{Status: StatusReading},
				Book:     &Book{Authors: []string{a}},
			})
		}
		stats := ComputeStats(records, now)
		assert.Len(t, stats.AuthorFrequency, 5)
	})

	t.Run("ties keep first seen order", func(t *testing.T) {
		records := []CombinedBook{
			{UserBook: &UserBook{Status: StatusReading}, Book: &Book{Authors: []string{"Zed"}}},
			{UserBook: &UserBook{Status: StatusReading}, Book: &Book{Authors: []string{"Amy"}}},
		}
		stats := ComputeStats(records, now)
		require.Len(t, stats.AuthorFrequency, 2)
		assert.Equal(t, "Zed", stats.AuthorFrequency[0].Author)
		assert.Equal(t, "Amy", stats.AuthorFrequency[1].Author)
	})

	t.Run("multi author books count every author", func(t *testing.T) {
		records := []CombinedBook{
			{UserBook: &UserBook{Status: StatusReading}, Book: &Book{Authors: []string{"A", "B"}}},
			{UserBook: &UserBook{Status: StatusReading}, Book: &Book{Authors: []string{"B"}}},
		}
		stats := ComputeStats(records, now)
		assert.Equal(t, AuthorCount{Author: "B", Books: 2}, stats.AuthorFrequency[0])
		assert.Equal(t, 2, stats.UniqueAuthors)
	})
}

func TestComputeStatsMonthlyWindow(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("window crosses year boundary", func(t *testing.T) {
		stats := ComputeStats(nil, now)
		months := make([]string, 0, 6)
		for _, m := range stats.MonthlyPagesRead {
			months = append(months, m.Month)
		}
		assert.Equal(t, []string{"2024-08", "2024-09", "2024-10", "2024-11", "2024-12", "2025-01"}, months)
	})

	t.Run("completion outside the window is ignored", func(t *testing.T) {
		old := now.AddDate(-1, 0, 0)
		records := []CombinedBook{
			{
				UserBook: &UserBook{Status: StatusCompleted, CompletedAt: &old},
				Book:     &Book{TotalPages: 500},
			},
		}
		stats := ComputeStats(records, now)
		for _, m := range stats.MonthlyPagesRead {
			assert.Zero(t, m.Pages)
		}
		// Still counts toward pages read overall.
		assert.Equal(t, 500, stats.TotalPagesRead)
	})

	t.Run("uses the override for completed books", func(t *testing.T) {
		records := []CombinedBook{
			{
				UserBook: &UserBook{Status: StatusCompleted, TotalPagesOverride: 42, CompletedAt: &now},
				Book:     &Book{},
			},
		}
		stats := ComputeStats(records, now)
		assert.Equal(t, 42, stats.TotalPagesRead)
	})
}
