package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"api_reports/internal/database/dbtest"
)

func TestSQLStorage_AdjustStock(t *testing.T) {
	ctx := context.Background()
	storage := NewSQLStorage(dbtest.NewSQLite(t), zaptest.NewLogger(t))
	p := newProduct(t, storage, 3)

	got, err := storage.AdjustStock(ctx, p.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)
	assert.Equal(t, "75.25", got.Price.StringFixed(2))

	got, err = storage.AdjustStock(ctx, p.ID, -7)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	got, err = storage.AdjustStock(ctx, p.ID, 0)
	require.NoError(t, err, "a zero delta matches the row even though nothing changes")
	assert.Equal(t, 0, got.Stock)

	_, err = storage.AdjustStock(ctx, p.ID, -1)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = storage.AdjustStock(ctx, p.ID+100, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
