package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/quota"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

func setupTestStore(t *testing.T) (*store.Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "service-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	testStore, err := store.New(dbPath, nil)
	require.NoError(t, err)

	cleanup := func() {
		testStore.Close()
		os.RemoveAll(tmpDir)
	}

	return testStore, cleanup
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func noQuota() quota.Guard {
	return quota.NewNoop()
}

func createTestUser(t *testing.T, s *store.Store, id, displayName string) *domain.User {
	t.Helper()
	user, err := s.UpsertUser(context.Background(), &domain.User{
		Timestamps:  domain.Timestamps{ID: id},
		Email:       id + "@test.com",
		DisplayName: displayName,
	})
	require.NoError(t, err)
	return user
}

func testCatalogBook(id, title string, totalPages int) *domain.Book {
	return &domain.Book{
		Timestamps: domain.Timestamps{ID: id},
		Title:      title,
		Authors:    []string{"Test Author"},
		TotalPages: totalPages,
	}
}
