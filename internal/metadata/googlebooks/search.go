package googlebooks

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	apperrors "github.com/shelfmark/shelfmark-server/internal/errors"
)

// Scope narrows a search to one metadata field.
type Scope string

const (
	ScopeAll    Scope = ""
	ScopeTitle  Scope = "title"
	ScopeAuthor Scope = "author"
)

// Search queries the volumes endpoint for books matching the free-text
// query. An unreachable or non-success upstream surfaces as an
// upstream-unavailable error, never as a raw transport failure.
func (c *Client) Search(ctx context.Context, query string, scope Scope) ([]domain.CatalogBook, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	q := strings.TrimSpace(query)
	switch scope {
	case ScopeTitle:
		q = "intitle:" + q
	case ScopeAuthor:
		q = "inauthor:" + q
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("maxResults", fmt.Sprintf("%d", c.maxResults))

	searchURL := c.baseURL + "?" + params.Encode()

	c.logger.Debug("searching book catalog",
		"query", query,
		"scope", scope,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.UpstreamUnavailable("book search is unavailable, try again").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.UpstreamUnavailable(fmt.Sprintf("book search failed with status %d", resp.StatusCode))
	}

	var volumes volumesResponse
	if err := json.UnmarshalRead(resp.Body, &volumes); err != nil {
		return nil, apperrors.UpstreamUnavailable("book search returned an unreadable response").WithCause(err)
	}

	c.logger.Debug("catalog search results",
		"query", query,
		"count", len(volumes.Items),
	)

	results := make([]domain.CatalogBook, 0, len(volumes.Items))
	for i := range volumes.Items {
		v := &volumes.Items[i]
		if v.ID == "" || v.VolumeInfo.Title == "" {
			continue
		}

		results = append(results, domain.CatalogBook{
			ExternalID:   v.ID,
			Title:        v.VolumeInfo.Title,
			Authors:      v.VolumeInfo.Authors,
			Description:  v.VolumeInfo.Description,
			ThumbnailURL: normalizeThumbnail(v.VolumeInfo.ImageLinks.Thumbnail),
			PageCount:    v.VolumeInfo.PageCount,
		})
	}

	return results, nil
}

// normalizeThumbnail upgrades http cover links to https. Browsers
// refuse mixed content on an https page.
func normalizeThumbnail(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}
