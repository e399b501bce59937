package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/shelfmark/shelfmark-server/internal/errors"
)

type addRequest struct {
	BookID string `json:"book_id" validate:"required"`
	Status string `json:"status" validate:"required,oneof=plan-to-read reading completed dropped"`
	Rating int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
}

func TestValidate_Passes(t *testing.T) {
	v := New()

	err := v.Validate(&addRequest{BookID: "vol-1", Status: "reading", Rating: 4})
	require.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	v := New()

	err := v.Validate(&addRequest{Status: "reading"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	var appErr *apperrors.Error
	require.True(t, apperrors.As(err, &appErr))

	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["book_id"])
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(&addRequest{BookID: "vol-1", Status: "archived"})
	require.Error(t, err)

	var appErr *apperrors.Error
	require.True(t, apperrors.As(err, &appErr))

	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "status")
	assert.Contains(t, details["status"], "must be one of")
}

func TestValidate_RangeTags(t *testing.T) {
	v := New()

	err := v.Validate(&addRequest{BookID: "vol-1", Status: "reading", Rating: 9})
	require.Error(t, err)

	var appErr *apperrors.Error
	require.True(t, apperrors.As(err, &appErr))

	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be less than or equal to 5", details["rating"])
}
