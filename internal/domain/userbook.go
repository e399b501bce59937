package domain

import "time"

// BookStatus represents a user's reading state for one book.
type BookStatus string

const (
	StatusPlanToRead BookStatus = "plan-to-read"
	StatusReading    BookStatus = "reading"
	StatusCompleted  BookStatus = "completed"
	StatusDropped    BookStatus = "dropped"
)

// Valid returns true if the status is a recognized value.
func (s BookStatus) Valid() bool {
	switch s {
	case StatusPlanToRead, StatusReading, StatusCompleted, StatusDropped:
		return true
	default:
		return false
	}
}

// UserBook is one user's relationship to one catalog Book. Its identity
// is the (UserID, BookID) pair; ID holds the deterministic composite
// key so lookups never need a query.
type UserBook struct {
	Timestamps
	UserID string     `json:"user_id"`
	BookID string     `json:"book_id"`
	Status BookStatus `json:"status"`

	// CurrentPage is the pages-read counter. Progress is derived from
	// it and the effective total; the two never diverge.
	CurrentPage int `json:"current_page"`
	// TotalPagesOverride holds a user-supplied page count for books the
	// catalog doesn't know the length of. 0 means no override.
	TotalPagesOverride int `json:"total_pages_override,omitempty"`
	// Progress is 0-100, recomputed on every page or status change.
	Progress int `json:"progress"`

	// Rating is 1-5. 0 means unrated.
	Rating int `json:"rating,omitempty"`

	// CompletedAt is set when the book transitions into completed and
	// cleared when it leaves. Drives the monthly reading chart.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// UserBookID builds the composite key for a (user, book) pair.
func UserBookID(userID, bookID string) string {
	return userID + "_" + bookID
}

// EffectiveTotalPages returns the page count progress is measured
// against: the user override when set, else the catalog count.
func (ub *UserBook) EffectiveTotalPages(book *Book) int {
	if ub.TotalPagesOverride > 0 {
		return ub.TotalPagesOverride
	}
	if book != nil {
		return book.TotalPages
	}
	return 0
}

// RecomputeProgress derives Progress from CurrentPage and the effective
// total. With an unknown total the percentage is meaningless, so it
// stays at 0 until a total is known or the book is completed.
func (ub *UserBook) RecomputeProgress(book *Book) {
	total := ub.EffectiveTotalPages(book)
	if total <= 0 {
		ub.Progress = 0
		return
	}
	progress := (ub.CurrentPage*100 + total/2) / total // round to nearest
	if progress > 100 {
		progress = 100
	}
	if progress < 0 {
		progress = 0
	}
	ub.Progress = progress
}

// IsRated returns true if the user has rated this book.
func (ub *UserBook) IsRated() bool {
	return ub.Rating > 0
}

// MarkCompleted transitions the record into completed. When the
// effective total is unknown, the current page counter is frozen as the
// override so the percentage reads 100 instead of drifting.
func (ub *UserBook) MarkCompleted(book *Book, now time.Time) {
	if ub.EffectiveTotalPages(book) <= 0 {
		if ub.CurrentPage > 0 {
			ub.TotalPagesOverride = ub.CurrentPage
		} else {
			// Nothing read and no known length: call it one page so
			// the record still reads as finished.
			ub.TotalPagesOverride = 1
			ub.CurrentPage = 1
		}
	} else {
		ub.CurrentPage = ub.EffectiveTotalPages(book)
	}
	ub.Status = StatusCompleted
	ub.RecomputeProgress(book)
	ub.CompletedAt = &now
}

// LeaveCompleted transitions the record out of completed into the given
// status. Progress resets to zero: leaving completed means a re-read.
// A page total frozen at completion time is an artifact of that read,
// so the override is dropped along with the completion date.
func (ub *UserBook) LeaveCompleted(status BookStatus, book *Book) {
	ub.Status = status
	ub.CurrentPage = 0
	ub.TotalPagesOverride = 0
	ub.CompletedAt = nil
	ub.RecomputeProgress(book)
}

// CombinedBook is the read-time join of a UserBook with its catalog
// Book, returned by library listings.
type CombinedBook struct {
	UserBook *UserBook `json:"user_book"`
	Book     *Book     `json:"book"`
}
