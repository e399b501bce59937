package domain

import (
	"sort"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/normalize"
)

// AuthorCount is one entry of the author frequency ranking.
type AuthorCount struct {
	Author string `json:"author"`
	Books  int    `json:"books"`
}

// MonthlyPages is the pages finished in one calendar month.
type MonthlyPages struct {
	Month string `json:"month"` // YYYY-MM
	Pages int    `json:"pages"`
}

// BookStats contains derived reading statistics for one user's library.
// Computed per request from the full library listing, never persisted.
type BookStats struct {
	TotalBooks     int `json:"total_books"`
	TotalPagesRead int `json:"total_pages_read"`
	UniqueAuthors  int `json:"unique_authors"`

	// StatusDistribution maps each present status to its percentage of
	// the library. Empty for an empty library.
	StatusDistribution map[BookStatus]float64 `json:"status_distribution"`

	// AuthorFrequency is the top five authors by book count, ties kept
	// in first-seen order.
	AuthorFrequency []AuthorCount `json:"author_frequency"`

	// MonthlyPagesRead covers the trailing six calendar months
	// including the current one, zero-filled and chronological.
	MonthlyPagesRead []MonthlyPages `json:"monthly_pages_read"`

	// MeanRating averages over rated books only. 0 if none rated.
	MeanRating float64 `json:"mean_rating"`

	// CompletionRate is completed / total * 100. 0 for an empty library.
	CompletionRate float64 `json:"completion_rate"`
}

const (
	authorFrequencyLimit = 5
	monthlyWindowMonths  = 6
)

// ComputeStats derives BookStats from a user's combined library. It is
// a pure function: an empty input yields zeroed results, never an
// error.
func ComputeStats(records []CombinedBook, now time.Time) *BookStats {
	stats := &BookStats{
		StatusDistribution: make(map[BookStatus]float64),
		MonthlyPagesRead:   emptyMonthlyWindow(now),
	}
	if len(records) == 0 {
		return stats
	}

	stats.TotalBooks = len(records)

	monthIndex := make(map[string]int, monthlyWindowMonths)
	for i, m := range stats.MonthlyPagesRead {
		monthIndex[m.Month] = i
	}

	statusCounts := make(map[BookStatus]int)
	authorCounts := make(map[string]int)
	var authorOrder []string
	completed := 0
	ratingSum := 0
	rated := 0

	for _, rec := range records {
		ub := rec.UserBook
		total := ub.EffectiveTotalPages(rec.Book)

		statusCounts[ub.Status]++

		if ub.Status == StatusCompleted {
			completed++
			stats.TotalPagesRead += total
			if ub.CompletedAt != nil {
				key := ub.CompletedAt.UTC().Format("2006-01")
				if i, ok := monthIndex[key]; ok {
					stats.MonthlyPagesRead[i].Pages += total
				}
			}
		} else {
			stats.TotalPagesRead += ub.CurrentPage
		}

		if rec.Book != nil {
			for _, author := range rec.Book.Authors {
				// Authors are deduplicated case-insensitively; the
				// first-seen spelling is what gets displayed.
				key := normalize.Name(author)
				if key == "" {
					continue
				}
				if _, seen := authorCounts[key]; !seen {
					authorOrder = append(authorOrder, author)
				}
				authorCounts[key]++
			}
		}

		if ub.IsRated() {
			ratingSum += ub.Rating
			rated++
		}
	}

	stats.UniqueAuthors = len(authorCounts)

	for status, count := range statusCounts {
		stats.StatusDistribution[status] = float64(count) / float64(stats.TotalBooks) * 100
	}

	// Stable sort keeps first-seen order between equal counts.
	ranking := make([]AuthorCount, 0, len(authorOrder))
	for _, author := range authorOrder {
		ranking = append(ranking, AuthorCount{Author: author, Books: authorCounts[normalize.Name(author)]})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Books > ranking[j].Books
	})
	if len(ranking) > authorFrequencyLimit {
		ranking = ranking[:authorFrequencyLimit]
	}
	stats.AuthorFrequency = ranking

	if rated > 0 {
		stats.MeanRating = float64(ratingSum) / float64(rated)
	}
	stats.CompletionRate = float64(completed) / float64(stats.TotalBooks) * 100

	return stats
}

// emptyMonthlyWindow builds the zero-filled trailing window ending at
// the month containing now, oldest first.
func emptyMonthlyWindow(now time.Time) []MonthlyPages {
	window := make([]MonthlyPages, 0, monthlyWindowMonths)
	year, month, _ := now.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for i := monthlyWindowMonths - 1; i >= 0; i-- {
		m := first.AddDate(0, -i, 0)
		window = append(window, MonthlyPages{Month: m.Format("2006-01")})
	}
	return window
}
