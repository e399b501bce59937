package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

type TestEntity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func setupTestStore(t *testing.T) (*store.Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "store-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := store.New(dbPath, nil)
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return s, cleanup
}

func TestEntity_Create_Success(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	testData := &TestEntity{
		ID:    "1",
		Name:  "Alice Reader",
		Email: "alice@example.com",
	}

	err := entity.Create(context.Background(), "1", testData)
	require.NoError(t, err)

	retrieved, err := entity.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, testData.ID, retrieved.ID)
	require.Equal(t, testData.Name, retrieved.Name)
	require.Equal(t, testData.Email, retrieved.Email)
}

func TestEntity_Create_AlreadyExists(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	testData := &TestEntity{ID: "1", Name: "Alice Reader"}

	err := entity.Create(context.Background(), "1", testData)
	require.NoError(t, err)

	err = entity.Create(context.Background(), "1", testData)
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrAlreadyExists))
}

func TestEntity_Get_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	_, err := entity.Get(context.Background(), "missing")
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestEntity_Update(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	testData := &TestEntity{ID: "1", Name: "Alice Reader"}
	require.NoError(t, entity.Create(context.Background(), "1", testData))

	testData.Name = "Alice R."
	require.NoError(t, entity.Update(context.Background(), "1", testData))

	retrieved, err := entity.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "Alice R.", retrieved.Name)
}

func TestEntity_Update_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	err := entity.Update(context.Background(), "missing", &TestEntity{ID: "missing"})
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestEntity_Delete_Idempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	require.NoError(t, entity.Create(context.Background(), "1", &TestEntity{ID: "1"}))
	require.NoError(t, entity.Delete(context.Background(), "1"))
	require.NoError(t, entity.Delete(context.Background(), "1"))

	_, err := entity.Get(context.Background(), "1")
	require.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestEntity_Index(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:").
		WithIndex("email", func(e *TestEntity) []string {
			if e.Email == "" {
				return nil
			}
			return []string{e.Email}
		})

	require.NoError(t, entity.Create(context.Background(), "1", &TestEntity{ID: "1", Email: "alice@example.com"}))

	t.Run("lookup by index", func(t *testing.T) {
		got, err := entity.GetByIndex(context.Background(), "email", "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, "1", got.ID)
	})

	t.Run("conflict on claimed key", func(t *testing.T) {
		err := entity.Create(context.Background(), "2", &TestEntity{ID: "2", Email: "alice@example.com"})
		require.Error(t, err)
		require.True(t, apperrors.Is(err, apperrors.ErrAlreadyExists))
	})

	t.Run("empty keys skip the index", func(t *testing.T) {
		require.NoError(t, entity.Create(context.Background(), "3", &TestEntity{ID: "3"}))
		require.NoError(t, entity.Create(context.Background(), "4", &TestEntity{ID: "4"}))
	})

	t.Run("update moves the index", func(t *testing.T) {
		updated := &TestEntity{ID: "1", Email: "alice2@example.com"}
		require.NoError(t, entity.Update(context.Background(), "1", updated))

		_, err := entity.GetByIndex(context.Background(), "email", "alice@example.com")
		require.True(t, apperrors.Is(err, apperrors.ErrNotFound))

		got, err := entity.GetByIndex(context.Background(), "email", "alice2@example.com")
		require.NoError(t, err)
		require.Equal(t, "1", got.ID)
	})
}

func TestEntity_List(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, entity.Create(context.Background(), id, &TestEntity{ID: id}))
	}

	seen := make(map[string]bool)
	for e, err := range entity.List(context.Background()) {
		require.NoError(t, err)
		seen[e.ID] = true
	}
	require.Len(t, seen, 3)
}
