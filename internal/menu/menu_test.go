package menu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fidelio1234/qrcode-finale/internal/store"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	s, err := store.New(t.TempDir())
	require.NoError(t, err)
	c := NewCatalog(s)
	// Distinct ids even when two adds land in the same test millisecond.
	var seq int64
	c.nowFn = func() time.Time {
		seq++
		return time.UnixMilli(seq)
	}
	return c
}

func TestAddAndLookup(t *testing.T) {
	c := newTestCatalog(t)

	p, ok := c.Add(Product{Name: "Pizza", Price: 8.00, Category: "mains"})
	require.True(t, ok)
	assert.NotZero(t, p.ID)

	price, found := c.PriceFor("Pizza")
	require.True(t, found)
	assert.Equal(t, 8.00, price)

	_, found = c.PriceFor("pizza")
	assert.False(t, found, "lookup is exact-match on name")
}

func TestUpdateMergesFields(t *testing.T) {
	c := newTestCatalog(t)
	p, _ := c.Add(Product{Name: "Tiramisu", Price: 5.00, Category: "desserts"})

	newPrice := 6.50
	updated, err := c.Update(p.ID, ProductPatch{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, "Tiramisu", updated.Name)
	assert.Equal(t, 6.50, updated.Price)
	assert.Equal(t, "desserts", updated.Category)

	_, err = c.Update(999, ProductPatch{Price: &newPrice})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	c := newTestCatalog(t)
	p, _ := c.Add(Product{Name: "Bruschetta", Price: 4.00, Category: "starters"})

	assert.True(t, c.Delete(p.ID))
	assert.False(t, c.Delete(p.ID), "second delete is a no-op")
	assert.Empty(t, c.Products())
}

func TestDeleteCategory(t *testing.T) {
	c := newTestCatalog(t)
	c.Add(Product{Name: "Pizza", Price: 8.00, Category: "mains"})
	c.Add(Product{Name: "Lasagna", Price: 9.50, Category: "mains"})
	c.Add(Product{Name: "Tiramisu", Price: 5.00, Category: "desserts"})

	assert.Equal(t, 2, c.DeleteCategory("mains"))
	assert.Equal(t, 0, c.DeleteCategory("mains"))

	remaining := c.Products()
	require.Len(t, remaining, 1)
	assert.Equal(t, "Tiramisu", remaining[0].Name)
}
