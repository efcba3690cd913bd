package orders

import "time"

// Status is the lifecycle state of an order. Transitions only move forward:
// pending -> fulfilled -> closed (fulfilled may be skipped when a table is
// closed early).
type Status string

const (
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusClosed    Status = "closed"
)

// ItemKind tags a line item as a regular menu product or as the per-head
// cover charge. The tag is decided once, at order placement, so downstream
// consumers (pricing, receipts) never re-derive it from the product name.
type ItemKind string

const (
	KindProduct     ItemKind = "product"
	KindCoverCharge ItemKind = "cover_charge"
)

// LineItem is one priced entry of an order.
type LineItem struct {
	Kind      ItemKind `json:"kind"`
	Product   string   `json:"product"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unitPrice"`
}

// Total returns the line subtotal.
func (li LineItem) Total() float64 {
	return li.UnitPrice * float64(li.Quantity)
}

// Order is a table's single kitchen order. The total is always recomputed
// from the line items, never stored.
type Order struct {
	ID          int64      `json:"id"`
	Table       string     `json:"table"`
	Items       []LineItem `json:"items"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	FulfilledAt *time.Time `json:"fulfilledAt,omitempty"`
	ClosedAt    *time.Time `json:"closedAt,omitempty"`
	Printed     bool       `json:"printed"`
}

// Total returns the sum of all line subtotals.
func (o Order) Total() float64 {
	var total float64
	for _, li := range o.Items {
		total += li.Total()
	}
	return total
}

// Active reports whether the order still counts toward table occupancy.
func (o Order) Active() bool {
	return o.Status != StatusClosed
}
