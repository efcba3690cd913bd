package menu

import (
	"errors"
	"log"
	"time"

	"github.com/Fidelio1234/qrcode-finale/internal/store"
)

// ErrProductNotFound is returned when an update names an unknown product id.
var ErrProductNotFound = errors.New("product not found")

// Product is a menu entry. Orders reference products by name, not id, so
// renaming a product breaks historical price lookups for new orders that
// still carry the old name.
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// ProductPatch carries the fields of a partial product update. Nil fields are
// left untouched.
type ProductPatch struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Category *string  `json:"category"`
}

// Catalog manages the persisted menu collection.
type Catalog struct {
	store *store.Store
	nowFn func() time.Time
}

// NewCatalog creates a catalog over the given store.
func NewCatalog(s *store.Store) *Catalog {
	return &Catalog{store: s, nowFn: time.Now}
}

// Products returns the whole menu.
func (c *Catalog) Products() []Product {
	var products []Product
	c.store.Load(store.SlotMenu, &products)
	if products == nil {
		products = []Product{}
	}
	return products
}

// Add appends a product, assigning a wall-clock id.
func (c *Catalog) Add(p Product) (Product, bool) {
	products := c.Products()
	p.ID = c.nowFn().UnixMilli()
	products = append(products, p)
	if !c.store.Save(store.SlotMenu, products) {
		return Product{}, false
	}
	log.Printf("menu: product added: %s", p.Name)
	return p, true
}

// Update merges non-nil patch fields into the product with the given id.
func (c *Catalog) Update(id int64, patch ProductPatch) (Product, error) {
	products := c.Products()
	for i := range products {
		if products[i].ID != id {
			continue
		}
		if patch.Name != nil {
			products[i].Name = *patch.Name
		}
		if patch.Price != nil {
			products[i].Price = *patch.Price
		}
		if patch.Category != nil {
			products[i].Category = *patch.Category
		}
		c.store.Save(store.SlotMenu, products)
		log.Printf("menu: product updated: %s", products[i].Name)
		return products[i], nil
	}
	return Product{}, ErrProductNotFound
}

// Delete removes the product with the given id, reporting whether anything
// was removed. Deleting an unknown id is not an error.
func (c *Catalog) Delete(id int64) bool {
	products := c.Products()
	kept := products[:0]
	removed := false
	for _, p := range products {
		if p.ID == id {
			removed = true
			log.Printf("menu: product deleted: %s", p.Name)
			continue
		}
		kept = append(kept, p)
	}
	if removed {
		c.store.Save(store.SlotMenu, kept)
	}
	return removed
}

// DeleteCategory removes every product in a category and returns how many
// were removed.
func (c *Catalog) DeleteCategory(category string) int {
	products := c.Products()
	kept := products[:0]
	removed := 0
	for _, p := range products {
		if p.Category == category {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	if removed > 0 {
		c.store.Save(store.SlotMenu, kept)
		log.Printf("menu: category %q deleted, %d products removed", category, removed)
	}
	return removed
}

// PriceFor looks up the current price of a product by exact name match.
func (c *Catalog) PriceFor(name string) (float64, bool) {
	for _, p := range c.Products() {
		if p.Name == name {
			return p.Price, true
		}
	}
	return 0, false
}
