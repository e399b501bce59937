package service

import (
	"context"
	"log/slog"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	apperrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/metadata/googlebooks"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// Catalog is the slice of the external book catalog the search service
// needs.
type Catalog interface {
	Search(ctx context.Context, query string, scope googlebooks.Scope) ([]domain.CatalogBook, error)
}

// SearchService proxies catalog searches and decorates results with
// the caller's library membership.
type SearchService struct {
	catalog Catalog
	store   *store.Store
	logger  *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(catalog Catalog, store *store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		catalog: catalog,
		store:   store,
		logger:  logger,
	}
}

// Search runs a catalog query. Scope is "", "title", or "author". Each
// result carries whether it's already in the caller's library so the
// UI can disable the add button.
func (s *SearchService) Search(ctx context.Context, userID, query, scope string) ([]domain.CatalogBook, error) {
	if query == "" {
		return nil, apperrors.Validation("query is required")
	}

	var catalogScope googlebooks.Scope
	switch scope {
	case "", "all":
		catalogScope = googlebooks.ScopeAll
	case "title":
		catalogScope = googlebooks.ScopeTitle
	case "author":
		catalogScope = googlebooks.ScopeAuthor
	default:
		return nil, apperrors.Validationf("unknown search scope %q", scope)
	}

	results, err := s.catalog.Search(ctx, query, catalogScope)
	if err != nil {
		return nil, err
	}

	for i := range results {
		inLibrary, err := s.store.HasUserBook(ctx, userID, results[i].ExternalID)
		if err != nil {
			return nil, err
		}
		results[i].InLibrary = inLibrary
	}

	return results, nil
}
