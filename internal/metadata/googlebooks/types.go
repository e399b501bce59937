package googlebooks

// volumesResponse is the wire shape of the volumes endpoint.
type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title       string     `json:"title"`
	Authors     []string   `json:"authors"`
	Description string     `json:"description"`
	PageCount   int        `json:"pageCount"`
	ImageLinks  imageLinks `json:"imageLinks"`
}

type imageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}
