package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drainadopt/internal/comment/models"
	id "drainadopt/pkg/domain"
	"drainadopt/pkg/platform/sentinel"
)

func TestInMemoryCommentStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	drainID := id.NewDrainID()
	base := time.Now()

	older := &models.Comment{ID: id.NewCommentID(), DrainID: drainID, Text: "older", CreatedAt: base}
	newer := &models.Comment{ID: id.NewCommentID(), DrainID: drainID, Text: "newer", CreatedAt: base.Add(time.Second)}
	require.NoError(t, s.Create(ctx, newer))
	require.NoError(t, s.Create(ctx, older))
	assert.ErrorIs(t, s.Create(ctx, older), sentinel.ErrConflict)
	require.NoError(t, s.Create(ctx, &models.Comment{ID: id.NewCommentID(), DrainID: id.NewDrainID(), Text: "elsewhere"}))

	list, err := s.ListByDrain(ctx, drainID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Text)
	assert.Equal(t, "older", list[1].Text)

	empty, err := s.ListByDrain(ctx, id.NewDrainID())
	require.NoError(t, err)
	assert.Empty(t, empty)
}
