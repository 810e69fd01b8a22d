package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ufscompras/internal/domain"
)

func TestView_StaleResults(t *testing.T) {
	engine, _ := newTestEngine(t)
	view := engine.NewView()

	first, err := view.Fetch(context.Background(), domain.ProductFilters{Sort: domain.SortPriceAsc})
	require.NoError(t, err)
	assert.False(t, first.Stale())
	assert.Len(t, first.Items, 3)

	second, err := view.Fetch(context.Background(), domain.ProductFilters{Colors: []string{"azul"}})
	require.NoError(t, err)

	assert.True(t, first.Stale())
	assert.False(t, second.Stale())
	assert.Equal(t, []string{"prod-jeans"}, productIDs(second.Items))

	view.Invalidate()
	assert.True(t, second.Stale())
}
