package orders

import (
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Fidelio1234/qrcode-finale/internal/menu"
	"github.com/Fidelio1234/qrcode-finale/internal/monitoring"
	"github.com/Fidelio1234/qrcode-finale/internal/store"
	"github.com/Fidelio1234/qrcode-finale/internal/tables"
)

var (
	// ErrIncompleteOrder is returned when an order is missing its table or
	// line items.
	ErrIncompleteOrder = errors.New("table and items are required")
	// ErrOrderNotFound is returned when no order matches the requested id.
	ErrOrderNotFound = errors.New("order not found")
	// ErrStoreWrite is returned when the ledger could not be persisted.
	ErrStoreWrite = errors.New("could not save orders")
)

// CoverPricer supplies the current per-head cover charge price.
type CoverPricer interface {
	CoverPrice() float64
}

// TicketPrinter emits a kitchen ticket for a freshly placed order.
type TicketPrinter interface {
	PrintKitchenTicket(o Order) error
}

// ItemRequest is a line item as submitted by a client. Price is a fallback
// used only when the product is not on the menu; Kind may be left empty and
// is then inferred from the product name.
type ItemRequest struct {
	Product  string   `json:"product"`
	Quantity int      `json:"quantity"`
	Price    *float64 `json:"price"`
	Kind     ItemKind `json:"kind"`
}

// Breakdown is the per-order entry of a closed-table total.
type Breakdown struct {
	OrderID  int64      `json:"orderId"`
	Total    float64    `json:"total"`
	ClosedAt *time.Time `json:"closedAt,omitempty"`
}

// TableTotal aggregates the closed orders of a table.
type TableTotal struct {
	Table      string      `json:"table"`
	Total      float64     `json:"total"`
	OrderCount int         `json:"orderCount"`
	Orders     []Breakdown `json:"orders"`
}

// Ledger owns the persisted order collection and its lifecycle transitions.
// Every read of active orders first runs the stale sweep, so state from
// before the daily 05:00 cutoff never reaches clients.
type Ledger struct {
	store   *store.Store
	menu    *menu.Catalog
	tracker *tables.Tracker
	cover   CoverPricer
	printer TicketPrinter
	metrics *monitoring.Collector
	nowFn   func() time.Time

	mu     sync.Mutex
	lastID int64
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source, used by expiry and sweep tests.
func WithClock(fn func() time.Time) Option {
	return func(l *Ledger) { l.nowFn = fn }
}

// WithPrinter attaches a kitchen ticket printer.
func WithPrinter(p TicketPrinter) Option {
	return func(l *Ledger) { l.printer = p }
}

// WithMetrics attaches the metrics collector.
func WithMetrics(c *monitoring.Collector) Option {
	return func(l *Ledger) { l.metrics = c }
}

// NewLedger creates a ledger over the given collaborators.
func NewLedger(s *store.Store, m *menu.Catalog, t *tables.Tracker, cover CoverPricer, opts ...Option) *Ledger {
	l := &Ledger{
		store:   s,
		menu:    m,
		tracker: t,
		cover:   cover,
		nowFn:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) load() []Order {
	var all []Order
	l.store.Load(store.SlotOrders, &all)
	if all == nil {
		all = []Order{}
	}
	return all
}

// nextID derives an order id from the wall clock, bumped when two placements
// land in the same millisecond so ids stay strictly increasing.
func (l *Ledger) nextID(now time.Time) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := now.UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

// PlaceOrder validates and prices the requested items, appends the order,
// marks the table occupied and fires a kitchen-ticket print in the
// background. Print failures never fail the placement.
func (l *Ledger) PlaceOrder(table string, items []ItemRequest) (Order, error) {
	if table == "" || len(items) == 0 {
		return Order{}, ErrIncompleteOrder
	}

	now := l.nowFn()
	order := Order{
		ID:        l.nextID(now),
		Table:     table,
		Status:    StatusPending,
		CreatedAt: now,
		Items:     make([]LineItem, 0, len(items)),
	}
	for _, req := range items {
		if req.Product == "" {
			return Order{}, ErrIncompleteOrder
		}
		order.Items = append(order.Items, l.priceItem(req))
	}

	all := l.load()
	all = append(all, order)
	if !l.store.Save(store.SlotOrders, all) {
		return Order{}, ErrStoreWrite
	}

	l.tracker.Occupy(table)
	l.metrics.OrderPlaced()
	log.Printf("orders: order %d placed for table %s (%d items, total %.2f)",
		order.ID, order.Table, len(order.Items), order.Total())

	if l.printer != nil {
		go l.printTicket(order)
	}
	return order, nil
}

// priceItem resolves the unit price and kind of a requested item. Cover
// charge lines take the current cover setting price; products resolve
// against the menu by exact name, then the caller-supplied price, then 0.
func (l *Ledger) priceItem(req ItemRequest) LineItem {
	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}
	kind := req.Kind
	if kind == "" {
		if strings.Contains(strings.ToLower(req.Product), "coperto") {
			kind = KindCoverCharge
		} else {
			kind = KindProduct
		}
	}

	li := LineItem{Kind: kind, Product: req.Product, Quantity: qty}
	switch kind {
	case KindCoverCharge:
		li.UnitPrice = l.cover.CoverPrice()
	default:
		if price, ok := l.menu.PriceFor(req.Product); ok {
			li.UnitPrice = price
		} else if req.Price != nil {
			li.UnitPrice = *req.Price
		}
	}
	return li
}

func (l *Ledger) printTicket(o Order) {
	l.metrics.PrintAttempted()
	if err := l.printer.PrintKitchenTicket(o); err != nil {
		l.metrics.PrintFailed()
		log.Printf("orders: kitchen ticket for order %d failed: %v", o.ID, err)
		return
	}
	l.markPrinted(o.ID)
}

func (l *Ledger) markPrinted(id int64) {
	all := l.load()
	for i := range all {
		if all[i].ID == id {
			all[i].Printed = true
			l.store.Save(store.SlotOrders, all)
			return
		}
	}
}

// MarkFulfilled transitions an order to fulfilled. Re-invoking on an already
// fulfilled order overwrites the timestamp.
func (l *Ledger) MarkFulfilled(id int64) (Order, error) {
	all := l.load()
	for i := range all {
		if all[i].ID != id {
			continue
		}
		now := l.nowFn()
		all[i].Status = StatusFulfilled
		all[i].FulfilledAt = &now
		if !l.store.Save(store.SlotOrders, all) {
			return Order{}, ErrStoreWrite
		}
		l.metrics.OrderFulfilled()
		log.Printf("orders: order %d fulfilled", id)
		return all[i], nil
	}
	return Order{}, ErrOrderNotFound
}

// CloseTable transitions every non-closed order of a table to closed and
// releases the table's occupancy. Closing a table with no orders is safe and
// reports zero closed.
func (l *Ledger) CloseTable(table string) (int, error) {
	all := l.load()
	now := l.nowFn()
	closed := 0
	for i := range all {
		if all[i].Table == table && all[i].Active() {
			all[i].Status = StatusClosed
			all[i].ClosedAt = &now
			closed++
		}
	}
	if closed > 0 {
		if !l.store.Save(store.SlotOrders, all) {
			return 0, ErrStoreWrite
		}
		l.metrics.OrdersClosed(closed)
	}
	l.tracker.Release(table)
	log.Printf("orders: table %s closed, %d orders closed", table, closed)
	return closed, nil
}

// ActiveOrders returns the non-closed orders, optionally filtered to one
// table. The stale sweep always runs first.
func (l *Ledger) ActiveOrders(table string) []Order {
	l.StaleSweep()
	active := []Order{}
	for _, o := range l.load() {
		if !o.Active() {
			continue
		}
		if table != "" && o.Table != table {
			continue
		}
		active = append(active, o)
	}
	return active
}

// AllOrders returns every order on record, closed ones included, without
// triggering a sweep.
func (l *Ledger) AllOrders() []Order {
	return l.load()
}

// StaleSweep permanently deletes orders from before the most recent daily
// 05:00 cutoff, plus orders dated in the future or missing a timestamp.
// Removal is not recoverable. When anything was removed the occupancy set is
// reconciled against the surviving orders.
func (l *Ledger) StaleSweep() []Order {
	now := l.nowFn()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 5, 0, 0, 0, now.Location())
	if now.Before(cutoff) {
		cutoff = cutoff.AddDate(0, 0, -1)
	}

	all := l.load()
	kept := all[:0:0]
	removed := []Order{}
	for _, o := range all {
		if o.CreatedAt.IsZero() || o.CreatedAt.Before(cutoff) || o.CreatedAt.After(now) {
			removed = append(removed, o)
			continue
		}
		kept = append(kept, o)
	}
	if len(removed) == 0 {
		return removed
	}

	l.store.Save(store.SlotOrders, kept)
	l.metrics.OrdersSwept(len(removed))
	log.Printf("orders: stale sweep removed %d orders (cutoff %s)",
		len(removed), cutoff.Format(time.RFC3339))

	l.tracker.Reconcile(activeTables(kept))
	return removed
}

// ClosedTableTotal sums the closed orders of a table for historical
// reporting after the table was closed.
func (l *Ledger) ClosedTableTotal(table string) TableTotal {
	result := TableTotal{Table: table, Orders: []Breakdown{}}
	for _, o := range l.load() {
		if o.Table != table || o.Status != StatusClosed {
			continue
		}
		result.Total += o.Total()
		result.OrderCount++
		result.Orders = append(result.Orders, Breakdown{
			OrderID:  o.ID,
			Total:    o.Total(),
			ClosedAt: o.ClosedAt,
		})
	}
	return result
}

// ClosedOrders returns the closed orders of a table, oldest first, as they
// appear on the final bill.
func (l *Ledger) ClosedOrders(table string) []Order {
	closed := []Order{}
	for _, o := range l.load() {
		if o.Table == table && o.Status == StatusClosed {
			closed = append(closed, o)
		}
	}
	return closed
}

// ActiveTables derives the set of tables with at least one non-closed order.
func (l *Ledger) ActiveTables() []string {
	return activeTables(l.load())
}

func activeTables(all []Order) []string {
	seen := make(map[string]bool)
	tables := []string{}
	for _, o := range all {
		if o.Active() && !seen[o.Table] {
			seen[o.Table] = true
			tables = append(tables, o.Table)
		}
	}
	return tables
}
