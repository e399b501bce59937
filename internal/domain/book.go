package domain

// Book is a catalog entry shared across all users. The ID is the
// external catalog identifier, or a locally minted one for books added
// by hand.
type Book struct {
	Timestamps
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Description   string   `json:"description,omitempty"`
	CoverImageURL string   `json:"cover_image_url,omitempty"`
	// TotalPages may be 0 when the catalog doesn't know the length.
	TotalPages int `json:"total_pages"`
}

// HasKnownLength returns true if the catalog knows the page count.
func (b *Book) HasKnownLength() bool {
	return b.TotalPages > 0
}

// PrimaryAuthor returns the first listed author, or empty.
func (b *Book) PrimaryAuthor() string {
	if len(b.Authors) == 0 {
		return ""
	}
	return b.Authors[0]
}

// CatalogBook is a search result from the external book catalog. It is
// not persisted until a user adds it to their library, at which point
// it becomes a Book keyed by ExternalID.
type CatalogBook struct {
	ExternalID   string   `json:"external_id"`
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	Description  string   `json:"description,omitempty"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
	PageCount    int      `json:"page_count"`
	// InLibrary is set per requesting user when decorating results.
	InLibrary bool `json:"in_library"`
}

// ToBook converts a catalog search result into a persistable Book.
func (c *CatalogBook) ToBook() *Book {
	return &Book{
		Timestamps:    Timestamps{ID: c.ExternalID},
		Title:         c.Title,
		Authors:       c.Authors,
		Description:   c.Description,
		CoverImageURL: c.ThumbnailURL,
		TotalPages:    c.PageCount,
	}
}
