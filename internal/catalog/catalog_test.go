package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/readytoeat/internal/model"
)

type stubFetcher struct {
	items []model.CatalogItem
	err   error
	calls int
}

func (f *stubFetcher) GetFoodItems(ctx context.Context) ([]model.CatalogItem, error) {
	f.calls++
	return f.items, f.err
}

func TestCatalogLookup(t *testing.T) {
	c := New([]model.CatalogItem{
		{ID: 2, Name: "Kachori", Price: decimal.NewFromInt(15)},
		{ID: 1, Name: "Samosa", Price: decimal.NewFromInt(15)},
	})

	it, ok := c.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, "Kachori", it.Name)

	_, ok = c.Lookup(99)
	assert.False(t, ok)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ID)

	var empty *Catalog
	_, ok = empty.Lookup(1)
	assert.False(t, ok)
}

func TestSource_NotFoundBeforeFirstLoad(t *testing.T) {
	src := NewSource(&stubFetcher{})

	_, ok := src.Lookup(1)
	assert.False(t, ok)
	assert.False(t, src.Loaded())
	assert.True(t, src.UpdatedAt().IsZero())
}

func TestSource_RefreshKeepsSnapshotOnError(t *testing.T) {
	f := &stubFetcher{items: []model.CatalogItem{{ID: 1, Name: "Samosa", Price: decimal.NewFromInt(15)}}}
	src := NewSource(f)

	require.NoError(t, src.Refresh(context.Background()))
	_, ok := src.Lookup(1)
	require.True(t, ok)

	f.err = errors.New("boom")
	f.items = nil
	err := src.Refresh(context.Background())
	require.Error(t, err)

	_, ok = src.Lookup(1)
	assert.True(t, ok, "previous snapshot must survive a failed refresh")
	assert.Equal(t, 2, f.calls)
}
