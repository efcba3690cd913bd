package api

import "sync"

// CoverCharge is the process-wide per-head charge setting. It lives in
// memory only; a restart brings back the defaults.
type CoverCharge struct {
	mu     sync.RWMutex
	active bool
	price  float64
}

// NewCoverCharge returns the setting with its defaults: active at 2.00.
func NewCoverCharge() *CoverCharge {
	return &CoverCharge{active: true, price: 2.00}
}

// Get returns the current setting.
func (c *CoverCharge) Get() (active bool, price float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active, c.price
}

// Set replaces the setting.
func (c *CoverCharge) Set(active bool, price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = active
	c.price = price
}

// CoverPrice returns the price charged for a cover line item. The ledger
// calls this when pricing orders.
func (c *CoverCharge) CoverPrice() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.price
}
