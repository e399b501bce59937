package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	apperrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/metadata/googlebooks"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

type fakeCatalog struct {
	results   []domain.CatalogBook
	err       error
	lastQuery string
	lastScope googlebooks.Scope
}

func (f *fakeCatalog) Search(_ context.Context, query string, scope googlebooks.Scope) ([]domain.CatalogBook, error) {
	f.lastQuery = query
	f.lastScope = scope
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func setupSearchService(t *testing.T, catalog Catalog) (*SearchService, *store.Store, func()) {
	t.Helper()
	testStore, cleanup := setupTestStore(t)
	return NewSearchService(catalog, testStore, testLogger()), testStore, cleanup
}

func TestSearch(t *testing.T) {
	catalog := &fakeCatalog{
		results: []domain.CatalogBook{
			{ExternalID: "gb-1", Title: "First"},
			{ExternalID: "gb-2", Title: "Second"},
		},
	}
	svc, testStore, cleanup := setupSearchService(t, catalog)
	defer cleanup()
	ctx := context.Background()

	createTestUser(t, testStore, "u1", "alice")
	library := NewLibraryService(testStore, noQuota(), testLogger())
	_, err := library.AddToLibrary(ctx, "u1", testCatalogBook("gb-1", "First", 200), domain.StatusReading)
	require.NoError(t, err)

	t.Run("marks results already in the library", func(t *testing.T) {
		results, err := svc.Search(ctx, "u1", "first", "")
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.True(t, results[0].InLibrary)
		assert.False(t, results[1].InLibrary)
	})

	t.Run("scope passthrough", func(t *testing.T) {
		_, err := svc.Search(ctx, "u1", "wolfe", "author")
		require.NoError(t, err)
		assert.Equal(t, googlebooks.ScopeAuthor, catalog.lastScope)

		_, err = svc.Search(ctx, "u1", "shadow", "title")
		require.NoError(t, err)
		assert.Equal(t, googlebooks.ScopeTitle, catalog.lastScope)

		_, err = svc.Search(ctx, "u1", "shadow", "all")
		require.NoError(t, err)
		assert.Equal(t, googlebooks.ScopeAll, catalog.lastScope)
	})

	t.Run("empty query rejected", func(t *testing.T) {
		_, err := svc.Search(ctx, "u1", "", "")
		assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	})

	t.Run("unknown scope rejected", func(t *testing.T) {
		_, err := svc.Search(ctx, "u1", "shadow", "isbn")
		assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	})
}

func TestSearch_UpstreamFailure(t *testing.T) {
	catalog := &fakeCatalog{err: apperrors.UpstreamUnavailable("catalog unreachable")}
	svc, testStore, cleanup := setupSearchService(t, catalog)
	defer cleanup()

	createTestUser(t, testStore, "u1", "alice")

	_, err := svc.Search(context.Background(), "u1", "anything", "")
	assert.True(t, apperrors.Is(err, apperrors.ErrUpstreamUnavailable))
}
